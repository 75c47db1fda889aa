package bus

import "errors"

var (
	ErrNilEvent   = errors.New("bus: nil event")
	ErrNilHandler = errors.New("bus: nil handler")
)

// Event types published by the engine.
const (
	TypeStateTransition = "state.transition"
	TypeEntityCreated   = "entity.created"
	TypeEntityRemoved   = "entity.removed"
	TypeAttack          = "command.attack"
	TypeInteract        = "command.interact"
	TypeMenuRequest     = "menu.request"
)

// StateTransition is the payload of TypeStateTransition. An empty id means
// the stack was empty on that side of the transition.
type StateTransition struct {
	Previous string
	Next     string
}

// EntityLifecycle is the payload of TypeEntityCreated and TypeEntityRemoved.
type EntityLifecycle struct {
	EntityID uint32
}

// EntityAction is the payload of TypeAttack and TypeInteract.
type EntityAction struct {
	EntityID uint32
	X, Y     float64
}

// MenuRequest is the payload of TypeMenuRequest.
type MenuRequest struct {
	EntityID uint32
	Action   string
}
