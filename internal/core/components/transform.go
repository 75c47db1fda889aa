package components

import (
	"bytes"
	"fmt"

	"github.com/zeusync/gamecore/internal/core/models"
	"github.com/zeusync/gamecore/pkg/encoding"
)

// Transform is an entity's position in world units.
type Transform struct {
	models.Attachment
	X, Y float64
}

func NewTransform(x, y float64) *Transform {
	return &Transform{X: x, Y: y}
}

func (t *Transform) ComponentID() models.ComponentID { return TransformID }

func (t *Transform) Update(float64) error { return nil }

func (t *Transform) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	w := encoding.NewWriter(&buf)
	w.Float64(t.X)
	w.Float64(t.Y)
	return buf.Bytes(), nil
}

func (t *Transform) Unmarshal(data []byte) error {
	r := encoding.NewReader(data)
	x, y := r.Float64(), r.Float64()
	if err := r.Done(); err != nil {
		return fmt.Errorf("transform: %w", err)
	}
	t.X, t.Y = x, y
	return nil
}
