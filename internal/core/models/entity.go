package models

import (
	"errors"
	"fmt"
)

// EntityID is assigned by the registry that creates the entity, starting at 1.
type EntityID uint32

// Entity is an identity with a set of components, at most one per ComponentID.
// Entities are not safe for concurrent use; the registry owns their lifecycle.
type Entity struct {
	id     EntityID
	active bool
	mask   ComponentMask
	slots  [MaxComponents]Component
}

// NewEntity returns an active entity with no components.
func NewEntity(id EntityID) *Entity {
	return &Entity{id: id, active: true}
}

func (e *Entity) ID() EntityID { return e.id }

func (e *Entity) Active() bool { return e.active }

func (e *Entity) SetActive(active bool) { e.active = active }

func (e *Entity) Mask() ComponentMask { return e.mask }

// Add attaches c. A component already present under the same id is detached
// and replaced.
func (e *Entity) Add(c Component) error {
	if c == nil {
		return ErrNilComponent
	}
	id := c.ComponentID()
	if id >= MaxComponents {
		return fmt.Errorf("%w: %d", ErrComponentIDRange, id)
	}
	if old := e.slots[id]; old != nil {
		old.OnDetach()
	}
	e.slots[id] = c
	e.mask = e.mask.With(id)
	c.OnAttach(e)
	return nil
}

// Remove detaches the component stored under id. It reports whether one was
// present.
func (e *Entity) Remove(id ComponentID) bool {
	if !e.mask.Has(id) {
		return false
	}
	c := e.slots[id]
	e.slots[id] = nil
	e.mask = e.mask.Without(id)
	c.OnDetach()
	return true
}

func (e *Entity) Get(id ComponentID) (Component, bool) {
	if !e.mask.Has(id) {
		return nil, false
	}
	return e.slots[id], true
}

func (e *Entity) Has(id ComponentID) bool { return e.mask.Has(id) }

// HasAll reports whether e holds every component in ids.
func (e *Entity) HasAll(ids ...ComponentID) bool {
	return e.mask.Contains(MaskOf(ids...))
}

// Components returns the attached components in ascending ComponentID order.
func (e *Entity) Components() []Component {
	out := make([]Component, 0, e.mask.Count())
	for _, id := range e.mask.IDs() {
		out = append(out, e.slots[id])
	}
	return out
}

// DetachAll removes every component, calling OnDetach once on each. A
// panicking hook does not stop the others; the panics come back joined.
func (e *Entity) DetachAll() error {
	var errs []error
	for _, id := range e.mask.IDs() {
		c := e.slots[id]
		e.slots[id] = nil
		if err := detach(c); err != nil {
			errs = append(errs, fmt.Errorf("component %d: %w", id, err))
		}
	}
	e.mask = 0
	return errors.Join(errs...)
}

func detach(c Component) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("detach panic: %v", p)
		}
	}()
	c.OnDetach()
	return nil
}

func (e *Entity) String() string {
	return fmt.Sprintf("Entity(%d, active=%t, components=%d)", e.id, e.active, e.mask.Count())
}

// Get returns the component of type T stored under id.
func Get[T Component](e *Entity, id ComponentID) (T, bool) {
	var zero T
	if e == nil {
		return zero, false
	}
	c, ok := e.Get(id)
	if !ok {
		return zero, false
	}
	t, ok := c.(T)
	return t, ok
}
