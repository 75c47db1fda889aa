package terminal

import (
	"context"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/zeusync/gamecore/internal/core/engine"
	"github.com/zeusync/gamecore/internal/core/input"
)

// DefaultHoldTimeout is how long a key counts as down after its last
// terminal event. Terminals report key repeats but never releases.
const DefaultHoldTimeout = 150 * time.Millisecond

// Keyboard is an engine.Source reading key events from a tcell screen. The
// first event for a key is a press, repeats are holds, and a key that has
// been silent for the hold timeout is released.
type Keyboard struct {
	screen  tcell.Screen
	timeout time.Duration
	now     func() time.Time
	down    map[int]time.Time
}

func NewKeyboard(screen tcell.Screen, holdTimeout time.Duration) *Keyboard {
	if holdTimeout <= 0 {
		holdTimeout = DefaultHoldTimeout
	}
	return &Keyboard{screen: screen, timeout: holdTimeout, now: time.Now, down: make(map[int]time.Time)}
}

// Run pumps screen events until ctx is done. Ctrl+C and Ctrl+Q return
// engine.ErrStop.
func (k *Keyboard) Run(ctx context.Context, events chan<- input.Event) error {
	raw := make(chan tcell.Event, 16)
	done := make(chan struct{})
	go func() {
		for {
			ev := k.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case <-done:
				return
			default:
			}
			select {
			case raw <- ev:
			case <-done:
				return
			}
		}
	}()
	defer func() {
		close(done)
		_ = k.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()

	ticker := time.NewTicker(k.timeout / 3)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := send(ctx, events, k.Expire(k.now())); err != nil {
				return nil
			}
		case ev := <-raw:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				k.screen.Sync()
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyCtrlC || ev.Key() == tcell.KeyCtrlQ {
					return engine.ErrStop
				}
				if err := send(ctx, events, k.Translate(ev.Key(), ev.Rune(), ev.Modifiers(), k.now())); err != nil {
					return nil
				}
			}
		}
	}
}

func send(ctx context.Context, out chan<- input.Event, evs []input.Event) error {
	for _, ev := range evs {
		select {
		case out <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Translate maps one terminal key event onto engine events. Upper-case
// letters and the shift modifier also drive the shift key.
func (k *Keyboard) Translate(key tcell.Key, r rune, mod tcell.ModMask, now time.Time) []input.Event {
	code, ok := keyCode(key, r)
	if !ok {
		return nil
	}
	out := make([]input.Event, 0, 4)
	if mod&tcell.ModShift != 0 || (key == tcell.KeyRune && unicode.IsUpper(r)) {
		out = append(out, k.touch(input.KeyShift, now))
	}
	if mod&tcell.ModCtrl != 0 {
		out = append(out, k.touch(input.KeyCtrl, now))
	}
	if mod&tcell.ModAlt != 0 {
		out = append(out, k.touch(input.KeyAlt, now))
	}
	return append(out, k.touch(code, now))
}

func (k *Keyboard) touch(code int, now time.Time) input.Event {
	typ := input.Held
	if _, down := k.down[code]; !down {
		typ = input.Pressed
	}
	k.down[code] = now
	return input.Event{Type: typ, Key: code, At: now}
}

// Expire releases the keys silent for longer than the hold timeout.
func (k *Keyboard) Expire(now time.Time) []input.Event {
	var out []input.Event
	for code, last := range k.down {
		if now.Sub(last) >= k.timeout {
			delete(k.down, code)
			out = append(out, input.Event{Type: input.Released, Key: code, At: now})
		}
	}
	return out
}

func keyCode(key tcell.Key, r rune) (int, bool) {
	switch key {
	case tcell.KeyRune:
		return input.NormalizeRune(r), true
	case tcell.KeyEscape:
		return input.KeyEscape, true
	case tcell.KeyEnter:
		return input.KeyEnter, true
	case tcell.KeyTab:
		return input.KeyTab, true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return input.KeyBackspace, true
	case tcell.KeyUp:
		return input.KeyUp, true
	case tcell.KeyDown:
		return input.KeyDown, true
	case tcell.KeyLeft:
		return input.KeyLeft, true
	case tcell.KeyRight:
		return input.KeyRight, true
	}
	return 0, false
}
