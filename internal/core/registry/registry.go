// Package registry owns entity lifetimes. Creation and removal are deferred
// to Update so that queries and component updates always see a stable set.
package registry

import (
	"fmt"
	"slices"

	"github.com/zeusync/gamecore/internal/core/events/bus"
	"github.com/zeusync/gamecore/internal/core/models"
	"github.com/zeusync/gamecore/internal/core/observability/log"
)

const eventSource = "registry"

type Option func(*Registry)

// WithBus publishes entity.created and entity.removed on b.
func WithBus(b bus.EventBus) Option {
	return func(r *Registry) { r.bus = b }
}

func WithLogger(l log.Log) Option {
	return func(r *Registry) { r.logger = l }
}

// Registry is not safe for concurrent use. It is driven from the tick goroutine.
type Registry struct {
	types  *models.TypeRegistry
	logger log.Log
	bus    bus.EventBus

	lastID models.EntityID
	live   map[models.EntityID]*models.Entity
	// order holds live entities sorted by id.
	order []*models.Entity

	pendingAdd    []*models.Entity
	pendingRemove []models.EntityID
	removeQueued  map[models.EntityID]struct{}
}

func New(types *models.TypeRegistry, opts ...Option) *Registry {
	if types == nil {
		types = models.NewTypeRegistry()
	}
	r := &Registry{
		types:        types,
		live:         make(map[models.EntityID]*models.Entity),
		removeQueued: make(map[models.EntityID]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = log.NewNop()
	}
	r.logger = r.logger.With(log.String("component", "registry"))
	return r
}

func (r *Registry) Types() *models.TypeRegistry { return r.types }

// CreateEntity allocates an entity. It becomes visible to queries at the
// next Update.
func (r *Registry) CreateEntity() *models.Entity {
	r.lastID++
	e := models.NewEntity(r.lastID)
	r.pendingAdd = append(r.pendingAdd, e)
	return e
}

// RemoveEntity queues e for eviction at the next Update. Repeated calls are
// harmless.
func (r *Registry) RemoveEntity(e *models.Entity) {
	if e == nil {
		r.logger.Warn("remove of nil entity ignored")
		return
	}
	r.RemoveEntityByID(e.ID())
}

func (r *Registry) RemoveEntityByID(id models.EntityID) {
	if _, queued := r.removeQueued[id]; queued {
		return
	}
	r.removeQueued[id] = struct{}{}
	r.pendingRemove = append(r.pendingRemove, id)
}

// Update commits pending creations, then pending removals. A removal aimed at
// an entity admitted by this same commit is kept for the next one, so the
// entity is visible for exactly one tick.
func (r *Registry) Update() {
	// Event handlers may queue more work; it lands in the next commit.
	adds, removes := r.pendingAdd, r.pendingRemove
	r.pendingAdd, r.pendingRemove = nil, nil

	admitted := make(map[models.EntityID]struct{}, len(adds))
	for _, e := range adds {
		r.insert(e)
		admitted[e.ID()] = struct{}{}
		r.publish(bus.TypeEntityCreated, e.ID())
	}

	var carried []models.EntityID
	for _, id := range removes {
		if _, fresh := admitted[id]; fresh || r.isPendingAdd(id) {
			carried = append(carried, id)
			continue
		}
		delete(r.removeQueued, id)
		e, ok := r.live[id]
		if !ok {
			r.logger.Debug("removal of unknown entity dropped", log.Uint32("entity", uint32(id)))
			continue
		}
		r.evict(e)
		r.publish(bus.TypeEntityRemoved, id)
	}
	r.pendingRemove = append(carried, r.pendingRemove...)
}

func (r *Registry) isPendingAdd(id models.EntityID) bool {
	return slices.ContainsFunc(r.pendingAdd, func(e *models.Entity) bool { return e.ID() == id })
}

func (r *Registry) insert(e *models.Entity) {
	r.live[e.ID()] = e
	n := len(r.order)
	if n == 0 || r.order[n-1].ID() < e.ID() {
		r.order = append(r.order, e)
		return
	}
	i, _ := slices.BinarySearchFunc(r.order, e.ID(), func(x *models.Entity, id models.EntityID) int {
		return compareIDs(x.ID(), id)
	})
	r.order = slices.Insert(r.order, i, e)
}

func (r *Registry) evict(e *models.Entity) {
	delete(r.live, e.ID())
	r.order = slices.DeleteFunc(r.order, func(x *models.Entity) bool { return x == e })
	r.detach(e)
}

func (r *Registry) detach(e *models.Entity) {
	if err := e.DetachAll(); err != nil {
		r.logger.Error("component detach failed", log.Uint32("entity", uint32(e.ID())), log.Error(err))
	}
}

func compareIDs(a, b models.EntityID) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (r *Registry) publish(eventType string, id models.EntityID) {
	if r.bus == nil {
		return
	}
	ev := bus.NewEvent(eventType, eventSource, bus.EntityLifecycle{EntityID: uint32(id)}, 0, nil)
	if err := r.bus.Publish(ev); err != nil {
		r.logger.Warn("entity event handler failed", log.String("event", eventType), log.Error(err))
	}
}

// EntitiesWith returns active live entities holding every listed component,
// ordered by id.
func (r *Registry) EntitiesWith(ids ...models.ComponentID) []*models.Entity {
	mask := models.MaskOf(ids...)
	var out []*models.Entity
	for _, e := range r.order {
		if e.Active() && e.Mask().Contains(mask) {
			out = append(out, e)
		}
	}
	return out
}

// UpdateComponents updates every component of every active entity in
// ascending ComponentID order. A failing component is logged and skipped.
func (r *Registry) UpdateComponents(dt float64) {
	for _, e := range r.order {
		if !e.Active() {
			continue
		}
		for _, c := range e.Components() {
			if err := r.updateComponent(c, dt); err != nil {
				r.logger.Error("component update failed",
					log.Uint32("entity", uint32(e.ID())),
					log.String("type", r.tagOf(c.ComponentID())),
					log.Error(err),
				)
			}
		}
	}
}

func (r *Registry) updateComponent(c models.Component, dt float64) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return c.Update(dt)
}

func (r *Registry) tagOf(id models.ComponentID) string {
	if tag, ok := r.types.Tag(id); ok {
		return tag
	}
	return fmt.Sprintf("#%d", id)
}

// Entity looks up a live entity.
func (r *Registry) Entity(id models.EntityID) (*models.Entity, bool) {
	e, ok := r.live[id]
	return e, ok
}

// Entities returns every live entity ordered by id.
func (r *Registry) Entities() []*models.Entity {
	return slices.Clone(r.order)
}

func (r *Registry) ActiveEntities() []*models.Entity {
	return r.EntitiesWith()
}

func (r *Registry) Count() int { return len(r.order) }

// PendingCount is the number of queued creations plus queued removals.
func (r *Registry) PendingCount() int { return len(r.pendingAdd) + len(r.pendingRemove) }

// Clear detaches every component of live and pending entities and drops the
// pending queues. Ids are not reused afterwards.
func (r *Registry) Clear() {
	for _, e := range r.order {
		r.detach(e)
	}
	for _, e := range r.pendingAdd {
		r.detach(e)
	}
	clear(r.live)
	clear(r.removeQueued)
	r.order = nil
	r.pendingAdd = nil
	r.pendingRemove = nil
}
