package command

import (
	"maps"
	"slices"
	"time"

	"github.com/zeusync/gamecore/internal/core/events/bus"
	"github.com/zeusync/gamecore/internal/core/input"
	"github.com/zeusync/gamecore/internal/core/models"
)

// Priorities used by DefaultFactories. Menu requests drain before gameplay.
const (
	PriorityMenu     = 100
	PriorityAttack   = 50
	PriorityInteract = 40
	PriorityRun      = 30
	PriorityMove     = 10
)

// Factory builds a command for an action.
type Factory func(e *models.Entity) Command

type factoryEntry struct {
	build    Factory
	priority int
}

// Factories maps action names to command factories and queue priorities.
type Factories struct {
	entries map[string]factoryEntry
}

func NewFactories() *Factories {
	return &Factories{entries: make(map[string]factoryEntry)}
}

// Register binds action to f, replacing any previous factory.
func (f *Factories) Register(action string, priority int, build Factory) {
	f.entries[action] = factoryEntry{build: build, priority: priority}
}

func (f *Factories) Lookup(action string) (Factory, int, bool) {
	e, ok := f.entries[action]
	return e.build, e.priority, ok
}

// Create builds the command for action with its edge flags and creation time
// set. ok is false for unknown actions and for factories returning nil.
func (f *Factories) Create(action string, e *models.Entity, pressed, released bool, now time.Time) (cmd Command, priority int, ok bool) {
	entry, ok := f.entries[action]
	if !ok || entry.build == nil {
		return nil, 0, false
	}
	cmd = entry.build(e)
	if cmd == nil {
		return nil, 0, false
	}
	meta := cmd.Meta()
	meta.SetEdges(pressed, released)
	meta.CreatedAt = now
	return cmd, entry.priority, true
}

func (f *Factories) Actions() []string {
	return slices.Sorted(maps.Keys(f.entries))
}

func (f *Factories) Len() int { return len(f.entries) }

// DefaultFactories covers every action in input.DefaultBindings.
func DefaultFactories(b bus.EventBus, cd *Cooldowns) *Factories {
	if cd == nil {
		cd = NewCooldowns(DefaultAttackCooldown)
	}
	f := NewFactories()
	move := func(dx, dy float64) Factory {
		return func(e *models.Entity) Command { return NewMove(e, dx, dy) }
	}
	for _, m := range []struct {
		actions []string
		dx, dy  float64
	}{
		{[]string{input.ActionMoveUp, input.ActionMoveUpAlt}, 0, -1},
		{[]string{input.ActionMoveDown, input.ActionMoveDownAlt}, 0, 1},
		{[]string{input.ActionMoveLeft, input.ActionMoveLeftAlt}, -1, 0},
		{[]string{input.ActionMoveRight, input.ActionMoveRightAlt}, 1, 0},
	} {
		for _, action := range m.actions {
			f.Register(action, PriorityMove, move(m.dx, m.dy))
		}
	}
	f.Register(input.ActionInteract, PriorityInteract, func(e *models.Entity) Command { return NewInteract(e, b) })
	f.Register(input.ActionAttack, PriorityAttack, func(e *models.Entity) Command { return NewAttack(e, b, cd) })
	f.Register(input.ActionRun, PriorityRun, func(e *models.Entity) Command { return NewRun(e) })
	f.Register(input.ActionMenu, PriorityMenu, func(e *models.Entity) Command { return NewMenu(e, MenuOpen, b) })
	f.Register(input.ActionPause, PriorityMenu, func(e *models.Entity) Command { return NewMenu(e, MenuTogglePause, b) })
	return f
}
