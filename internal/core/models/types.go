package models

import (
	"fmt"
	"slices"
)

// Factory returns a zero-valued persistent component ready for Unmarshal.
type Factory func() Persistent

type componentType struct {
	id      ComponentID
	tag     string
	factory Factory
}

// TypeRegistry maps component ids to string tags and factories. Snapshots
// store tags, so ids can be renumbered between builds without breaking saves.
type TypeRegistry struct {
	byID  map[ComponentID]componentType
	byTag map[string]componentType
}

func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		byID:  make(map[ComponentID]componentType),
		byTag: make(map[string]componentType),
	}
}

// Register binds id and tag to factory. Both id and tag must be unused.
func (r *TypeRegistry) Register(id ComponentID, tag string, factory Factory) error {
	switch {
	case id >= MaxComponents:
		return fmt.Errorf("%w: %d", ErrComponentIDRange, id)
	case tag == "":
		return ErrEmptyTag
	case factory == nil:
		return ErrNilFactory
	}
	if existing, ok := r.byID[id]; ok {
		return fmt.Errorf("%w: %d (%s)", ErrDuplicateID, id, existing.tag)
	}
	if _, ok := r.byTag[tag]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateTag, tag)
	}
	t := componentType{id: id, tag: tag, factory: factory}
	r.byID[id] = t
	r.byTag[tag] = t
	return nil
}

func (r *TypeRegistry) Tag(id ComponentID) (string, bool) {
	t, ok := r.byID[id]
	return t.tag, ok
}

func (r *TypeRegistry) ID(tag string) (ComponentID, bool) {
	t, ok := r.byTag[tag]
	return t.id, ok
}

// New creates an empty component for tag.
func (r *TypeRegistry) New(tag string) (Persistent, bool) {
	t, ok := r.byTag[tag]
	if !ok {
		return nil, false
	}
	return t.factory(), true
}

// Tags returns the registered tags sorted by component id.
func (r *TypeRegistry) Tags() []string {
	ids := make([]ComponentID, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	tags := make([]string, len(ids))
	for i, id := range ids {
		tags[i] = r.byID[id].tag
	}
	return tags
}

func (r *TypeRegistry) Len() int { return len(r.byID) }
