package components

import (
	"bytes"
	"fmt"

	"github.com/zeusync/gamecore/internal/core/models"
	"github.com/zeusync/gamecore/pkg/encoding"
)

// Controller marks an entity as driven by player input. The binder only
// issues commands to entities whose Controller is accepting input.
type Controller struct {
	models.Attachment
	Accepting bool
	Running   bool
}

func NewController() *Controller {
	return &Controller{Accepting: true}
}

func (c *Controller) ComponentID() models.ComponentID { return ControllerID }

func (c *Controller) Update(float64) error { return nil }

// SpeedFactor is the multiplier applied to Movement.MaxSpeed.
func (c *Controller) SpeedFactor() float64 {
	if c.Running {
		return RunMultiplier
	}
	return 1
}

func (c *Controller) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	w := encoding.NewWriter(&buf)
	w.Bool(c.Accepting)
	w.Bool(c.Running)
	return buf.Bytes(), nil
}

func (c *Controller) Unmarshal(data []byte) error {
	r := encoding.NewReader(data)
	accepting, running := r.Bool(), r.Bool()
	if err := r.Done(); err != nil {
		return fmt.Errorf("controller: %w", err)
	}
	c.Accepting, c.Running = accepting, running
	return nil
}
