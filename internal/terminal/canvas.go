// Package terminal renders the engine onto a tcell screen and turns tcell key
// events into engine input events.
package terminal

import (
	"math"

	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Surface is the part of tcell.Screen the canvas draws on.
type Surface interface {
	Size() (width, height int)
	GetContent(x, y int) (mainc rune, combc []rune, style tcell.Style, width int)
	SetContent(x, y int, mainc rune, combc []rune, style tcell.Style)
}

type affine struct {
	sx, sy float64
	tx, ty float64
}

var identity = affine{sx: 1, sy: 1}

func (a affine) apply(x, y float64) (float64, float64) {
	return x*a.sx + a.tx, y*a.sy + a.ty
}

// Canvas implements transition.Canvas on a character grid. One cell is one
// unit; the transform stack works in cell coordinates.
type Canvas struct {
	surface Surface
	cur     affine
	saved   []affine
}

func NewCanvas(s Surface) *Canvas {
	return &Canvas{surface: s, cur: identity}
}

func (c *Canvas) Bounds() (int, int) { return c.surface.Size() }

func (c *Canvas) Save() { c.saved = append(c.saved, c.cur) }

// Restore pops the last saved transform. An unbalanced Restore resets to
// the identity.
func (c *Canvas) Restore() {
	if len(c.saved) == 0 {
		c.cur = identity
		return
	}
	c.cur = c.saved[len(c.saved)-1]
	c.saved = c.saved[:len(c.saved)-1]
}

func (c *Canvas) Translate(dx, dy float64) {
	c.cur.tx += dx * c.cur.sx
	c.cur.ty += dy * c.cur.sy
}

func (c *Canvas) Scale(sx, sy float64) {
	c.cur.sx *= sx
	c.cur.sy *= sy
}

// Reset drops every saved transform. Call it at the start of a frame.
func (c *Canvas) Reset() {
	c.cur = identity
	c.saved = c.saved[:0]
}

// FillRect blends col over the background of every covered cell. The glyphs
// in those cells are kept.
func (c *Canvas) FillRect(x, y, w, h int, col colorful.Color, alpha float64) {
	if alpha <= 0 || w <= 0 || h <= 0 {
		return
	}
	alpha = math.Min(alpha, 1)
	x0, y0, x1, y1, ok := c.cells(x, y, w, h)
	if !ok {
		return
	}
	for cy := y0; cy < y1; cy++ {
		for cx := x0; cx < x1; cx++ {
			mainc, combc, style, _ := c.surface.GetContent(cx, cy)
			_, bg, _ := style.Decompose()
			blended := toColorful(bg).BlendRgb(col, alpha)
			c.surface.SetContent(cx, cy, mainc, combc, style.Background(toTcell(blended)))
		}
	}
}

// Text draws s starting at the transformed cell of x, y.
func (c *Canvas) Text(x, y int, s string, style tcell.Style) {
	fx, fy := c.cur.apply(float64(x), float64(y))
	cx, cy := int(math.Round(fx)), int(math.Round(fy))
	w, h := c.surface.Size()
	if cy < 0 || cy >= h {
		return
	}
	for _, r := range s {
		if cx >= w {
			return
		}
		if cx >= 0 {
			c.surface.SetContent(cx, cy, r, nil, style)
		}
		cx++
	}
}

// cells maps the rect through the transform and clips it to the surface.
func (c *Canvas) cells(x, y, w, h int) (x0, y0, x1, y1 int, ok bool) {
	ax, ay := c.cur.apply(float64(x), float64(y))
	bx, by := c.cur.apply(float64(x+w), float64(y+h))
	if ax > bx {
		ax, bx = bx, ax
	}
	if ay > by {
		ay, by = by, ay
	}
	sw, sh := c.surface.Size()
	x0 = max(int(math.Round(ax)), 0)
	y0 = max(int(math.Round(ay)), 0)
	x1 = min(int(math.Round(bx)), sw)
	y1 = min(int(math.Round(by)), sh)
	return x0, y0, x1, y1, x0 < x1 && y0 < y1
}

func toColorful(col tcell.Color) colorful.Color {
	r, g, b := col.RGB()
	if r < 0 || g < 0 || b < 0 {
		return colorful.Color{}
	}
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

func toTcell(col colorful.Color) tcell.Color {
	r, g, b := col.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
