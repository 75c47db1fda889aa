package command

import (
	"fmt"
	"time"

	"github.com/zeusync/gamecore/internal/core/components"
	"github.com/zeusync/gamecore/internal/core/events/bus"
	"github.com/zeusync/gamecore/internal/core/models"
)

// Attack fires on key press only, at most once per cooldown period per entity,
// and announces itself on the bus. Target selection belongs to subscribers.
type Attack struct {
	Base
	bus       bus.EventBus
	cooldowns *Cooldowns
	firedAt   time.Time
}

func NewAttack(e *models.Entity, b bus.EventBus, cd *Cooldowns) *Attack {
	if cd == nil {
		cd = NewCooldowns(DefaultAttackCooldown)
	}
	return &Attack{Base: Base{Entity: e}, bus: b, cooldowns: cd}
}

func (a *Attack) Kind() Kind { return KindAttack }

func (a *Attack) ShouldExecute(now time.Time) bool {
	return a.ready() && a.JustPressed && a.timers().Ready(a.Entity.ID(), now)
}

func (a *Attack) Execute(now time.Time) error {
	if !a.ShouldExecute(now) {
		return ErrRejected
	}
	a.timers().Mark(a.Entity.ID(), now)
	a.firedAt = now
	return publishAction(a.bus, bus.TypeAttack, a.Entity)
}

// timers falls back to a private default table for an Attack built without
// NewAttack.
func (a *Attack) timers() *Cooldowns {
	if a.cooldowns == nil {
		a.cooldowns = NewCooldowns(DefaultAttackCooldown)
	}
	return a.cooldowns
}

func (a *Attack) CanUndo() bool { return false }
func (a *Attack) Undo() error   { return ErrNotUndoable }

func (a *Attack) Describe() string {
	var remaining time.Duration
	if a.Entity != nil && !a.firedAt.IsZero() {
		remaining = a.timers().Remaining(a.Entity.ID(), a.firedAt)
	}
	return fmt.Sprintf("attack(entity=%d, cooldown=%s)", a.entityID(), remaining)
}

func publishAction(b bus.EventBus, eventType string, e *models.Entity) error {
	if b == nil {
		return nil
	}
	payload := bus.EntityAction{EntityID: uint32(e.ID())}
	if tr, ok := models.Get[*components.Transform](e, components.TransformID); ok {
		payload.X, payload.Y = tr.X, tr.Y
	}
	return b.Publish(bus.NewEvent(eventType, "command", payload, 0, nil))
}
