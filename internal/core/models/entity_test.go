package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hooked struct {
	Attachment
	id       ComponentID
	attached int
	detached int
}

func (p *hooked) ComponentID() ComponentID { return p.id }
func (p *hooked) OnAttach(e *Entity)       { p.attached++; p.Attachment.OnAttach(e) }
func (p *hooked) OnDetach()                { p.detached++; p.Attachment.OnDetach() }
func (p *hooked) Update(float64) error     { return nil }
func (p *hooked) Marshal() ([]byte, error) { return nil, nil }
func (p *hooked) Unmarshal([]byte) error   { return nil }

func TestEntityAddReplacesSameID(t *testing.T) {
	e := NewEntity(7)
	first := &hooked{id: 3}
	second := &hooked{id: 3}

	require.NoError(t, e.Add(first))
	assert.Same(t, e, first.Owner())
	require.NoError(t, e.Add(second))

	assert.Equal(t, 1, first.detached)
	assert.Nil(t, first.Owner())
	got, ok := e.Get(3)
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.Equal(t, 1, e.Mask().Count())
}

func TestEntityRejectsBadComponents(t *testing.T) {
	e := NewEntity(1)
	assert.True(t, errors.Is(e.Add(nil), ErrNilComponent))
	assert.True(t, errors.Is(e.Add(&hooked{id: MaxComponents}), ErrComponentIDRange))
}

func TestEntityComponentsAscending(t *testing.T) {
	e := NewEntity(1)
	for _, id := range []ComponentID{9, 2, 40} {
		require.NoError(t, e.Add(&hooked{id: id}))
	}
	var ids []ComponentID
	for _, c := range e.Components() {
		ids = append(ids, c.ComponentID())
	}
	assert.Equal(t, []ComponentID{2, 9, 40}, ids)
	assert.True(t, e.HasAll(2, 40))
	assert.False(t, e.HasAll(2, 3))
}

func TestEntityDetachAllOnce(t *testing.T) {
	e := NewEntity(1)
	a, b := &hooked{id: 0}, &hooked{id: 63}
	require.NoError(t, e.Add(a))
	require.NoError(t, e.Add(b))

	assert.True(t, e.Remove(0))
	assert.False(t, e.Remove(0))
	require.NoError(t, e.DetachAll())
	require.NoError(t, e.DetachAll())

	assert.Equal(t, 1, a.detached)
	assert.Equal(t, 1, b.detached)
	assert.True(t, e.Mask().IsEmpty())
}

func TestTypedGet(t *testing.T) {
	e := NewEntity(1)
	require.NoError(t, e.Add(&hooked{id: 4}))

	p, ok := Get[*hooked](e, 4)
	require.True(t, ok)
	assert.Equal(t, ComponentID(4), p.id)

	_, ok = Get[*hooked](e, 5)
	assert.False(t, ok)
	_, ok = Get[*hooked](nil, 4)
	assert.False(t, ok)
}

func TestMask(t *testing.T) {
	m := MaskOf(1, 5, 63, 64)
	assert.Equal(t, []ComponentID{1, 5, 63}, m.IDs())
	assert.True(t, m.Contains(MaskOf(1, 63)))
	assert.False(t, m.Contains(MaskOf(2)))
	assert.True(t, m.Contains(0))
	assert.False(t, m.Without(5).Has(5))
	assert.False(t, m.Has(200))
}

func TestTypeRegistry(t *testing.T) {
	r := NewTypeRegistry()
	newProbe := func() Persistent { return &hooked{id: 2} }

	require.NoError(t, r.Register(2, "hooked", newProbe))
	assert.True(t, errors.Is(r.Register(2, "other", newProbe), ErrDuplicateID))
	assert.True(t, errors.Is(r.Register(3, "hooked", newProbe), ErrDuplicateTag))
	assert.True(t, errors.Is(r.Register(3, "", newProbe), ErrEmptyTag))
	assert.True(t, errors.Is(r.Register(3, "x", nil), ErrNilFactory))
	require.NoError(t, r.Register(1, "first", newProbe))

	tag, ok := r.Tag(2)
	require.True(t, ok)
	assert.Equal(t, "hooked", tag)
	id, ok := r.ID("hooked")
	require.True(t, ok)
	assert.Equal(t, ComponentID(2), id)

	c, ok := r.New("hooked")
	require.True(t, ok)
	assert.Equal(t, ComponentID(2), c.ComponentID())
	_, ok = r.New("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"first", "hooked"}, r.Tags())
}

type brittle struct{ hooked }

func (b *brittle) OnDetach() {
	b.hooked.OnDetach()
	panic("detach")
}

func TestEntityDetachAllContainsPanics(t *testing.T) {
	e := NewEntity(1)
	bad, good := &brittle{hooked{id: 2}}, &hooked{id: 5}
	require.NoError(t, e.Add(bad))
	require.NoError(t, e.Add(good))

	err := e.DetachAll()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "component 2")
	assert.Equal(t, 1, bad.detached)
	assert.Equal(t, 1, good.detached)
	assert.True(t, e.Mask().IsEmpty())
}
