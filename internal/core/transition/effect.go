// Package transition implements the timed overlay drawn on top of the state
// stack while switching between states.
package transition

import (
	"fmt"
	"math"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

type Kind uint8

const (
	None Kind = iota
	Fade
	SlideLeft
	SlideRight
	SlideUp
	SlideDown
	ZoomIn
	ZoomOut
)

var kindNames = [...]string{"none", "fade", "slide_left", "slide_right", "slide_up", "slide_down", "zoom_in", "zoom_out"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// ParseKind accepts the names returned by Kind.String.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return None, fmt.Errorf("transition: unknown kind %q", s)
}

// MinZoom is the smallest scale a zoom effect applies.
const MinZoom = 0.1

// DefaultColor is the cover colour used when none is configured.
var DefaultColor = colorful.Color{}

// Effect is a timer that, while active, draws a fade, slide or zoom overlay.
// Progress advances by dt/duration per Update and the effect disarms itself at 1.
type Effect struct {
	kind     Kind
	duration float64
	progress float64
	active   bool
	color    colorful.Color
}

func New() *Effect {
	return &Effect{color: DefaultColor}
}

// Start arms the effect. A non-positive duration completes immediately and
// None never arms.
func (e *Effect) Start(kind Kind, duration float64) {
	e.kind = kind
	e.duration = duration
	e.progress = 0
	e.active = kind != None
	if duration <= 0 {
		e.progress = 1
		e.active = false
	}
}

// StartFade starts a fade through c.
func (e *Effect) StartFade(duration float64, c colorful.Color) {
	e.color = c
	e.Start(Fade, duration)
}

func (e *Effect) Update(dt float64) {
	if !e.active {
		return
	}
	e.progress = clamp01(e.progress + dt/e.duration)
	if e.progress >= 1 {
		e.active = false
	}
}

func (e *Effect) Stop() {
	e.active = false
	e.progress = 1
}

func (e *Effect) Active() bool              { return e.active }
func (e *Effect) Progress() float64         { return e.progress }
func (e *Effect) Kind() Kind                { return e.kind }
func (e *Effect) FadeColor() colorful.Color { return e.color }

func (e *Effect) SetFadeColor(c colorful.Color) { e.color = c }

// Render draws the overlay. The canvas transform is saved before and
// restored after drawing, including when the canvas panics.
func (e *Effect) Render(c Canvas) {
	if !e.active || e.kind == None || c == nil {
		return
	}
	c.Save()
	defer c.Restore()

	w, h := c.Bounds()
	switch e.kind {
	case Fade:
		c.FillRect(0, 0, w, h, e.color, FadeAlpha(e.progress))
	case SlideLeft, SlideRight, SlideUp, SlideDown:
		dx, dy := SlideOffset(e.kind, e.progress, w, h)
		c.Translate(dx, dy)
		c.FillRect(0, 0, w, h, e.color, 1)
	case ZoomIn, ZoomOut:
		s := ZoomScale(e.kind, e.progress)
		cx, cy := float64(w)/2, float64(h)/2
		c.Translate(cx, cy)
		c.Scale(s, s)
		c.Translate(-cx, -cy)
		c.FillRect(0, 0, w, h, e.color, 1-s)
	}
}

// FadeAlpha peaks at the midpoint of the transition and falls off linearly
// to clear at both ends.
func FadeAlpha(progress float64) float64 {
	return clamp01(1 - math.Abs(progress-0.5)*2)
}

// SlideOffset is the translation for a slide of the given kind. Other kinds
// yield zero.
func SlideOffset(kind Kind, progress float64, w, h int) (dx, dy float64) {
	p := clamp01(progress)
	switch kind {
	case SlideLeft:
		dx = -float64(w) * p
	case SlideRight:
		dx = float64(w) * p
	case SlideUp:
		dy = -float64(h) * p
	case SlideDown:
		dy = float64(h) * p
	}
	return dx, dy
}

// ZoomScale grows with progress for ZoomIn and shrinks for ZoomOut, never
// below MinZoom. Other kinds yield 1.
func ZoomScale(kind Kind, progress float64) float64 {
	p := clamp01(progress)
	switch kind {
	case ZoomIn:
		return math.Max(MinZoom, p)
	case ZoomOut:
		return math.Max(MinZoom, 1-p)
	}
	return 1
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
