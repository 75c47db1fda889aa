package command

import (
	"fmt"
	"time"

	"github.com/zeusync/gamecore/internal/core/events/bus"
	"github.com/zeusync/gamecore/internal/core/models"
)

// Interact announces an interaction attempt on key press.
type Interact struct {
	Base
	bus bus.EventBus
}

func NewInteract(e *models.Entity, b bus.EventBus) *Interact {
	return &Interact{Base: Base{Entity: e}, bus: b}
}

func (i *Interact) Kind() Kind { return KindInteract }

func (i *Interact) ShouldExecute(time.Time) bool {
	return i.ready() && i.JustPressed
}

func (i *Interact) Execute(now time.Time) error {
	if !i.ShouldExecute(now) {
		return ErrRejected
	}
	return publishAction(i.bus, bus.TypeInteract, i.Entity)
}

func (i *Interact) CanUndo() bool { return false }
func (i *Interact) Undo() error   { return ErrNotUndoable }

func (i *Interact) Describe() string {
	return fmt.Sprintf("interact(entity=%d)", i.entityID())
}
