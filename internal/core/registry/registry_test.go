package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zeusync/gamecore/internal/core/components"
	"github.com/zeusync/gamecore/internal/core/events/bus"
	"github.com/zeusync/gamecore/internal/core/models"
	"github.com/zeusync/gamecore/internal/core/observability/log"
)

type counting struct {
	models.Attachment
	id       models.ComponentID
	detached int
	updates  []float64
	fail     error
	panics   bool
	sticky   bool
	trace    *[]string
	name     string
}

func (c *counting) ComponentID() models.ComponentID { return c.id }
func (c *counting) OnDetach() {
	c.detached++
	c.Attachment.OnDetach()
	if c.sticky {
		panic("detach")
	}
}
func (c *counting) Update(dt float64) error {
	if c.trace != nil {
		*c.trace = append(*c.trace, c.name)
	}
	if c.panics {
		panic("boom")
	}
	c.updates = append(c.updates, dt)
	return c.fail
}

func newRegistry(t *testing.T, opts ...Option) *Registry {
	t.Helper()
	return New(components.DefaultTypes(), opts...)
}

func TestCreateIsDeferredUntilUpdate(t *testing.T) {
	r := newRegistry(t)
	e := r.CreateEntity()
	require.NoError(t, e.Add(components.NewTransform(0, 0)))

	assert.Empty(t, r.EntitiesWith(components.TransformID))
	assert.Equal(t, 1, r.PendingCount())

	r.Update()
	assert.Equal(t, []*models.Entity{e}, r.EntitiesWith(components.TransformID))
	assert.Equal(t, 0, r.PendingCount())
	assert.Equal(t, models.EntityID(1), e.ID())
}

func TestRemoveIsIdempotentAndDetachesOnce(t *testing.T) {
	r := newRegistry(t)
	e := r.CreateEntity()
	c := &counting{id: 10}
	require.NoError(t, e.Add(c))
	r.Update()

	r.RemoveEntity(e)
	r.RemoveEntity(e)
	r.RemoveEntityByID(e.ID())
	r.Update()
	r.Update()

	assert.Equal(t, 1, c.detached)
	assert.Equal(t, 0, r.Count())
	_, ok := r.Entity(e.ID())
	assert.False(t, ok)
}

func TestRemovalSurvivesPanickingDetach(t *testing.T) {
	r := newRegistry(t)
	first, second := r.CreateEntity(), r.CreateEntity()
	bad, good := &counting{id: 10, sticky: true}, &counting{id: 11}
	other := &counting{id: 10}
	require.NoError(t, first.Add(bad))
	require.NoError(t, first.Add(good))
	require.NoError(t, second.Add(other))
	r.Update()

	r.RemoveEntity(first)
	r.RemoveEntity(second)
	require.NotPanics(t, r.Update)

	assert.Equal(t, 1, bad.detached)
	assert.Equal(t, 1, good.detached, "later hooks still run")
	assert.Equal(t, 1, other.detached, "later removals still commit")
	assert.Zero(t, r.Count())

	third := r.CreateEntity()
	require.NoError(t, third.Add(&counting{id: 10, sticky: true}))
	r.Update()
	require.NotPanics(t, r.Clear)
	assert.Zero(t, r.Count())
}

func TestCreateAndRemoveInSameTickIsVisibleForOneTick(t *testing.T) {
	r := newRegistry(t)
	e := r.CreateEntity()
	r.RemoveEntity(e)

	r.Update()
	assert.Len(t, r.Entities(), 1, "visible after the first commit")

	r.Update()
	assert.Empty(t, r.Entities(), "evicted on the following commit")
}

func TestEntitiesWithSupersetOrderedByID(t *testing.T) {
	r := newRegistry(t)
	var all []*models.Entity
	for i := 0; i < 4; i++ {
		e := r.CreateEntity()
		require.NoError(t, e.Add(components.NewTransform(0, 0)))
		if i%2 == 0 {
			require.NoError(t, e.Add(components.NewMovement(1)))
		}
		all = append(all, e)
	}
	all[2].SetActive(false)
	r.Update()

	got := r.EntitiesWith(components.TransformID, components.MovementID)
	assert.Equal(t, []*models.Entity{all[0]}, got)
	assert.Len(t, r.EntitiesWith(components.TransformID), 3)
	assert.Len(t, r.ActiveEntities(), 3)
	assert.Equal(t, 4, r.Count())
}

func TestUpdateComponentsContainsFaults(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	r := newRegistry(t, WithLogger(log.NewFromZap(zap.New(core))))

	var trace []string
	e := r.CreateEntity()
	require.NoError(t, e.Add(&counting{id: 5, name: "late", trace: &trace}))
	require.NoError(t, e.Add(&counting{id: 1, name: "panics", panics: true, trace: &trace}))
	require.NoError(t, e.Add(&counting{id: 3, name: "fails", fail: errors.New("nope"), trace: &trace}))
	r.Update()

	r.UpdateComponents(0.25)
	assert.Equal(t, []string{"panics", "fails", "late"}, trace)
	assert.Equal(t, 2, logs.FilterMessage("component update failed").Len())
}

func TestBusReceivesLifecycleEvents(t *testing.T) {
	b := bus.New()
	var created, removed []uint32
	_, _ = b.Subscribe(bus.TypeEntityCreated, func(ev bus.Event) error {
		created = append(created, ev.Data().(bus.EntityLifecycle).EntityID)
		return nil
	})
	_, _ = b.Subscribe(bus.TypeEntityRemoved, func(ev bus.Event) error {
		removed = append(removed, ev.Data().(bus.EntityLifecycle).EntityID)
		return nil
	})

	r := newRegistry(t, WithBus(b))
	a, c := r.CreateEntity(), r.CreateEntity()
	r.Update()
	r.RemoveEntity(a)
	r.Update()

	assert.Equal(t, []uint32{uint32(a.ID()), uint32(c.ID())}, created)
	assert.Equal(t, []uint32{uint32(a.ID())}, removed)
}

func TestHandlerQueuedWorkLandsInNextCommit(t *testing.T) {
	b := bus.New()
	r := newRegistry(t, WithBus(b))
	var spawned *models.Entity
	_, _ = b.Subscribe(bus.TypeEntityCreated, func(bus.Event) error {
		if spawned == nil {
			spawned = r.CreateEntity()
		}
		return nil
	})

	r.CreateEntity()
	r.Update()
	require.NotNil(t, spawned)
	assert.Equal(t, 1, r.Count())
	r.Update()
	assert.Equal(t, 2, r.Count())
}

func TestClearDetachesEverything(t *testing.T) {
	r := newRegistry(t)
	live := &counting{id: 1}
	pending := &counting{id: 1}
	e := r.CreateEntity()
	require.NoError(t, e.Add(live))
	r.Update()
	p := r.CreateEntity()
	require.NoError(t, p.Add(pending))
	r.RemoveEntity(e)

	r.Clear()
	assert.Equal(t, 1, live.detached)
	assert.Equal(t, 1, pending.detached)
	assert.Equal(t, 0, r.Count())
	assert.Equal(t, 0, r.PendingCount())

	next := r.CreateEntity()
	assert.Equal(t, models.EntityID(3), next.ID())
}
