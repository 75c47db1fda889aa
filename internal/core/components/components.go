// Package components holds the capabilities the built-in commands act on.
package components

import (
	"errors"

	"github.com/zeusync/gamecore/internal/core/models"
)

const (
	TransformID models.ComponentID = iota
	MovementID
	ControllerID
)

const (
	TransformTag  = "transform"
	MovementTag   = "movement"
	ControllerTag = "controller"
)

// RegisterDefaults adds the built-in component kinds to reg.
func RegisterDefaults(reg *models.TypeRegistry) error {
	return errors.Join(
		reg.Register(TransformID, TransformTag, func() models.Persistent { return &Transform{} }),
		reg.Register(MovementID, MovementTag, func() models.Persistent { return NewMovement(0) }),
		reg.Register(ControllerID, ControllerTag, func() models.Persistent { return NewController() }),
	)
}

// DefaultTypes returns a TypeRegistry holding the built-in kinds.
func DefaultTypes() *models.TypeRegistry {
	reg := models.NewTypeRegistry()
	// Cannot fail on a fresh registry.
	_ = RegisterDefaults(reg)
	return reg
}
