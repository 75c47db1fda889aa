package input

import (
	"maps"
	"slices"
)

// Action names bound by DefaultBindings.
const (
	ActionMoveUp       = "move_up"
	ActionMoveDown     = "move_down"
	ActionMoveLeft     = "move_left"
	ActionMoveRight    = "move_right"
	ActionMoveUpAlt    = "move_up_alt"
	ActionMoveDownAlt  = "move_down_alt"
	ActionMoveLeftAlt  = "move_left_alt"
	ActionMoveRightAlt = "move_right_alt"
	ActionInteract     = "interact"
	ActionAttack       = "attack"
	ActionRun          = "run"
	ActionMenu         = "menu"
	ActionPause        = "pause"
)

// Bindings maps action names to key codes. Each key drives at most one action
// and each action has at most one key.
type Bindings struct {
	keys    map[string]int
	actions map[int]string
}

func NewBindings() *Bindings {
	return &Bindings{keys: make(map[string]int), actions: make(map[int]string)}
}

// DefaultBindings returns a fresh copy of the built-in layout.
func DefaultBindings() *Bindings {
	b := NewBindings()
	b.Bind(ActionMoveUp, 'w')
	b.Bind(ActionMoveDown, 's')
	b.Bind(ActionMoveLeft, 'a')
	b.Bind(ActionMoveRight, 'd')
	b.Bind(ActionMoveUpAlt, KeyUp)
	b.Bind(ActionMoveDownAlt, KeyDown)
	b.Bind(ActionMoveLeftAlt, KeyLeft)
	b.Bind(ActionMoveRightAlt, KeyRight)
	b.Bind(ActionInteract, 'e')
	b.Bind(ActionAttack, KeySpace)
	b.Bind(ActionRun, KeyShift)
	b.Bind(ActionMenu, KeyEscape)
	b.Bind(ActionPause, 'p')
	return b
}

// Bind maps action to key. The key's previous action and the action's
// previous key are unbound.
func (b *Bindings) Bind(action string, key int) {
	if prev, ok := b.actions[key]; ok {
		delete(b.keys, prev)
	}
	if old, ok := b.keys[action]; ok {
		delete(b.actions, old)
	}
	b.keys[action] = key
	b.actions[key] = action
}

func (b *Bindings) Unbind(action string) bool {
	key, ok := b.keys[action]
	if !ok {
		return false
	}
	delete(b.keys, action)
	delete(b.actions, key)
	return true
}

func (b *Bindings) Key(action string) (int, bool) {
	k, ok := b.keys[action]
	return k, ok
}

func (b *Bindings) ActionFor(key int) (string, bool) {
	a, ok := b.actions[key]
	return a, ok
}

// Actions returns the bound action names sorted.
func (b *Bindings) Actions() []string {
	return slices.Sorted(maps.Keys(b.keys))
}

func (b *Bindings) Len() int { return len(b.keys) }

func (b *Bindings) Clone() *Bindings {
	return &Bindings{keys: maps.Clone(b.keys), actions: maps.Clone(b.actions)}
}

// Names returns the layout as action -> key name.
func (b *Bindings) Names() map[string]string {
	out := make(map[string]string, len(b.keys))
	for action, key := range b.keys {
		out[action] = KeyName(key)
	}
	return out
}
