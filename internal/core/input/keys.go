package input

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Printable keys use their lower-case rune as key code. Keys without a
// printable rune start at KeySpecial.
const KeySpecial = 1000

const (
	KeyEscape = KeySpecial + iota
	KeyEnter
	KeyTab
	KeyBackspace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyShift
	KeyCtrl
	KeyAlt
)

const KeySpace = ' '

var specialNames = map[int]string{
	KeyEscape:    "escape",
	KeyEnter:     "enter",
	KeyTab:       "tab",
	KeyBackspace: "backspace",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyShift:     "shift",
	KeyCtrl:      "ctrl",
	KeyAlt:       "alt",
	KeySpace:     "space",
}

var namedKeys = func() map[string]int {
	m := make(map[string]int, len(specialNames)+2)
	for code, name := range specialNames {
		m[name] = code
	}
	m["esc"] = KeyEscape
	m["return"] = KeyEnter
	return m
}()

// ParseKey maps a key name ("escape", "up", "space") or a single character
// onto a key code.
func ParseKey(name string) (int, error) {
	s := strings.ToLower(strings.TrimSpace(name))
	if code, ok := namedKeys[s]; ok {
		return code, nil
	}
	if utf8.RuneCountInString(s) == 1 {
		r, _ := utf8.DecodeRuneInString(s)
		if unicode.IsPrint(r) {
			return int(r), nil
		}
	}
	return 0, fmt.Errorf("input: unknown key %q", name)
}

// KeyName is the inverse of ParseKey.
func KeyName(code int) string {
	if name, ok := specialNames[code]; ok {
		return name
	}
	if code > 0 && code < KeySpecial && unicode.IsPrint(rune(code)) {
		return string(rune(code))
	}
	return fmt.Sprintf("key(%d)", code)
}

// NormalizeRune folds a typed rune onto its key code.
func NormalizeRune(r rune) int {
	return int(unicode.ToLower(r))
}
