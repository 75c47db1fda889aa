package transition

import (
	"fmt"
	"testing"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingCanvas struct {
	w, h  int
	depth int
	calls []string
	fills []float64
	panic bool
}

func (c *recordingCanvas) Bounds() (int, int) { return c.w, c.h }
func (c *recordingCanvas) Save()              { c.depth++; c.calls = append(c.calls, "save") }
func (c *recordingCanvas) Restore()           { c.depth--; c.calls = append(c.calls, "restore") }
func (c *recordingCanvas) Translate(dx, dy float64) {
	c.calls = append(c.calls, fmt.Sprintf("translate(%g,%g)", dx, dy))
}
func (c *recordingCanvas) Scale(sx, sy float64) {
	c.calls = append(c.calls, fmt.Sprintf("scale(%g,%g)", sx, sy))
}
func (c *recordingCanvas) FillRect(_, _, _, _ int, _ colorful.Color, alpha float64) {
	if c.panic {
		panic("fill")
	}
	c.calls = append(c.calls, "fill")
	c.fills = append(c.fills, alpha)
}

func TestProgressAndDisarm(t *testing.T) {
	e := New()
	e.Start(Fade, 1)
	require.True(t, e.Active())

	e.Update(0.25)
	assert.InDelta(t, 0.25, e.Progress(), 1e-9)
	e.Update(0.5)
	assert.True(t, e.Active())
	e.Update(0.5)
	assert.Equal(t, 1.0, e.Progress())
	assert.False(t, e.Active())

	e.Update(1)
	assert.Equal(t, 1.0, e.Progress())
}

func TestStartEdgeCases(t *testing.T) {
	e := New()
	e.Start(SlideLeft, 0)
	assert.False(t, e.Active())
	assert.Equal(t, 1.0, e.Progress())

	e.Start(None, 2)
	assert.False(t, e.Active())

	e.Start(ZoomIn, 2)
	e.Stop()
	assert.False(t, e.Active())
}

func TestFadeAlpha(t *testing.T) {
	assert.Equal(t, 0.0, FadeAlpha(0))
	assert.Equal(t, 1.0, FadeAlpha(0.5))
	assert.Equal(t, 0.0, FadeAlpha(1))
	assert.InDelta(t, 0.5, FadeAlpha(0.25), 1e-9)
	assert.InDelta(t, FadeAlpha(0.25), FadeAlpha(0.75), 1e-9)
	assert.Equal(t, 0.0, FadeAlpha(-3))
	assert.Equal(t, 0.0, FadeAlpha(4))

	prev := FadeAlpha(0)
	for p := 0.05; p <= 0.5; p += 0.05 {
		a := FadeAlpha(p)
		assert.GreaterOrEqual(t, a, prev, "alpha should rise toward the midpoint at %v", p)
		prev = a
	}
}

func TestSlideOffset(t *testing.T) {
	dx, dy := SlideOffset(SlideLeft, 0.5, 80, 24)
	assert.Equal(t, -40.0, dx)
	assert.Equal(t, 0.0, dy)
	dx, dy = SlideOffset(SlideDown, 0.25, 80, 24)
	assert.Equal(t, 0.0, dx)
	assert.Equal(t, 6.0, dy)
	dx, dy = SlideOffset(Fade, 0.5, 80, 24)
	assert.Zero(t, dx)
	assert.Zero(t, dy)
}

func TestZoomScale(t *testing.T) {
	assert.Equal(t, MinZoom, ZoomScale(ZoomIn, 0))
	assert.Equal(t, 0.75, ZoomScale(ZoomIn, 0.75))
	assert.Equal(t, 0.25, ZoomScale(ZoomOut, 0.75))
	assert.Equal(t, MinZoom, ZoomScale(ZoomOut, 1))
	assert.Equal(t, 1.0, ZoomScale(SlideUp, 0.5))
}

func TestRenderSavesAndRestores(t *testing.T) {
	c := &recordingCanvas{w: 10, h: 4}
	e := New()

	e.Render(c)
	assert.Empty(t, c.calls, "inactive effect draws nothing")

	e.Start(SlideRight, 1)
	e.Update(0.5)
	e.Render(c)
	assert.Equal(t, []string{"save", "translate(5,0)", "fill", "restore"}, c.calls)

	c.calls = nil
	e.StartFade(2, colorful.Color{R: 1})
	e.Update(0.5)
	e.Render(c)
	assert.Equal(t, []string{"save", "fill", "restore"}, c.calls)
	assert.InDelta(t, 0.5, c.fills[len(c.fills)-1], 1e-9)
	assert.Equal(t, 1.0, e.FadeColor().R)

	e.Update(0.5)
	e.Render(c)
	assert.InDelta(t, 1.0, c.fills[len(c.fills)-1], 1e-9, "fade covers the screen at its midpoint")
}

func TestRenderRestoresOnPanic(t *testing.T) {
	c := &recordingCanvas{w: 10, h: 4, panic: true}
	e := New()
	e.Start(ZoomOut, 1)
	assert.Panics(t, func() { e.Render(c) })
	assert.Equal(t, 0, c.depth)
}

func TestParseKind(t *testing.T) {
	for k := None; k <= ZoomOut; k++ {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseKind("wipe")
	assert.Error(t, err)
}
