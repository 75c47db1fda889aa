package command

import (
	"fmt"
	"time"

	"github.com/zeusync/gamecore/internal/core/components"
	"github.com/zeusync/gamecore/internal/core/models"
)

// Run switches the controller into running while its key is down.
type Run struct {
	Base
	changed    bool
	wasRunning bool
}

func NewRun(e *models.Entity) *Run {
	return &Run{Base: Base{Entity: e}}
}

func (r *Run) Kind() Kind { return KindRun }

func (r *Run) ShouldExecute(time.Time) bool {
	if !r.ready() {
		return false
	}
	mv, ok := models.Get[*components.Movement](r.Entity, components.MovementID)
	if !ok || !mv.CanMove {
		return false
	}
	return r.Entity.Has(components.ControllerID)
}

func (r *Run) Execute(now time.Time) error {
	if !r.ShouldExecute(now) {
		return ErrRejected
	}
	ctl, _ := models.Get[*components.Controller](r.Entity, components.ControllerID)
	r.wasRunning = ctl.Running
	ctl.Running = !r.JustReleased
	r.changed = ctl.Running != r.wasRunning
	return nil
}

// CanUndo is true only when Execute actually toggled running, so a held key
// does not flood the history.
func (r *Run) CanUndo() bool { return r.changed }

func (r *Run) Undo() error {
	if !r.changed {
		return ErrNotUndoable
	}
	if ctl, ok := models.Get[*components.Controller](r.Entity, components.ControllerID); ok {
		ctl.Running = r.wasRunning
	}
	r.changed = false
	return nil
}

func (r *Run) Describe() string {
	return fmt.Sprintf("run(entity=%d, released=%t, was_running=%t)", r.entityID(), r.JustReleased, r.wasRunning)
}
