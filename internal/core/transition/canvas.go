package transition

import colorful "github.com/lucasb-eyer/go-colorful"

// Canvas is the drawing handle the engine passes to states and effects. The
// core never interprets it beyond these calls. Save pushes the current
// transform and Restore pops it.
type Canvas interface {
	Bounds() (w, h int)
	Save()
	Restore()
	Translate(dx, dy float64)
	Scale(sx, sy float64)
	FillRect(x, y, w, h int, c colorful.Color, alpha float64)
}
