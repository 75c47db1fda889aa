package command

import (
	"fmt"
	"time"

	"github.com/zeusync/gamecore/internal/core/components"
	"github.com/zeusync/gamecore/internal/core/models"
)

// Move sets the entity's velocity along DX, DY while its key is down and
// clears that axis on release.
type Move struct {
	Base
	DX, DY float64

	hasPrev      bool
	prevX, prevY float64
}

func NewMove(e *models.Entity, dx, dy float64) *Move {
	return &Move{Base: Base{Entity: e}, DX: dx, DY: dy}
}

func (m *Move) Kind() Kind { return KindMove }

func (m *Move) ShouldExecute(time.Time) bool {
	if !m.ready() {
		return false
	}
	mv, ok := models.Get[*components.Movement](m.Entity, components.MovementID)
	return ok && mv.CanMove
}

func (m *Move) Execute(now time.Time) error {
	if !m.ShouldExecute(now) {
		return ErrRejected
	}
	mv, _ := models.Get[*components.Movement](m.Entity, components.MovementID)
	if tr, ok := models.Get[*components.Transform](m.Entity, components.TransformID); ok {
		m.hasPrev = true
		m.prevX, m.prevY = tr.X, tr.Y
	}

	if m.JustReleased {
		if m.DX != 0 {
			mv.VX = 0
		}
		if m.DY != 0 {
			mv.VY = 0
		}
		return nil
	}

	speed := mv.MaxSpeed
	if speed <= 0 {
		speed = 1
	}
	if ctl, ok := models.Get[*components.Controller](m.Entity, components.ControllerID); ok {
		speed *= ctl.SpeedFactor()
	}
	if m.DX != 0 {
		mv.VX = m.DX * speed
	}
	if m.DY != 0 {
		mv.VY = m.DY * speed
	}
	mv.Face(m.DX, m.DY)
	return nil
}

func (m *Move) CanUndo() bool { return m.hasPrev }

// Undo puts the entity back where it was before Execute and stops it.
func (m *Move) Undo() error {
	if !m.hasPrev {
		return ErrNotUndoable
	}
	if tr, ok := models.Get[*components.Transform](m.Entity, components.TransformID); ok {
		tr.X, tr.Y = m.prevX, m.prevY
	}
	if mv, ok := models.Get[*components.Movement](m.Entity, components.MovementID); ok {
		mv.VX, mv.VY = 0, 0
	}
	m.hasPrev = false
	return nil
}

func (m *Move) Describe() string {
	return fmt.Sprintf("move(entity=%d, dir=(%.1f,%.1f), pressed=%t, released=%t)",
		m.entityID(), m.DX, m.DY, m.JustPressed, m.JustReleased)
}
