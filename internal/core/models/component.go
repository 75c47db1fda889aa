package models

import "github.com/zeusync/gamecore/pkg/encoding"

// ComponentID identifies a component kind. IDs are small and stable so they
// can index the per-entity slot array and the ComponentMask bitset.
type ComponentID uint8

// MaxComponents is the number of distinct component kinds an entity can hold.
const MaxComponents = 64

// Component is a capability attached to an Entity. An entity holds at most
// one component per ComponentID.
type Component interface {
	ComponentID() ComponentID
	// OnAttach is called when the component is added to e.
	OnAttach(e *Entity)
	// OnDetach is called when the component is replaced, removed, or its
	// entity is evicted.
	OnDetach()
	Update(dt float64) error
}

// Persistent components are written into entity snapshots.
type Persistent interface {
	Component
	encoding.Serializable
}

// Attachment holds the non-owning back-reference to the entity a component is
// attached to. Embed it to get OnAttach, OnDetach and Owner.
type Attachment struct {
	owner *Entity
}

func (a *Attachment) OnAttach(e *Entity) { a.owner = e }
func (a *Attachment) OnDetach()          { a.owner = nil }

// Owner returns the entity the component is attached to, or nil.
func (a *Attachment) Owner() *Entity { return a.owner }
