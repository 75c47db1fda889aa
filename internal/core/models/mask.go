package models

import "math/bits"

// ComponentMask is a bitset with one bit per ComponentID.
type ComponentMask uint64

// MaskOf builds a mask with the given ids set. Out-of-range ids are ignored.
func MaskOf(ids ...ComponentID) ComponentMask {
	var m ComponentMask
	for _, id := range ids {
		m = m.With(id)
	}
	return m
}

func (m ComponentMask) With(id ComponentID) ComponentMask {
	if id >= MaxComponents {
		return m
	}
	return m | 1<<id
}

func (m ComponentMask) Without(id ComponentID) ComponentMask {
	if id >= MaxComponents {
		return m
	}
	return m &^ (1 << id)
}

func (m ComponentMask) Has(id ComponentID) bool {
	return id < MaxComponents && m&(1<<id) != 0
}

// Contains reports whether every bit of other is also set in m.
func (m ComponentMask) Contains(other ComponentMask) bool {
	return m&other == other
}

func (m ComponentMask) Count() int { return bits.OnesCount64(uint64(m)) }

func (m ComponentMask) IsEmpty() bool { return m == 0 }

// IDs returns the set ids in ascending order.
func (m ComponentMask) IDs() []ComponentID {
	ids := make([]ComponentID, 0, m.Count())
	for v := uint64(m); v != 0; v &= v - 1 {
		ids = append(ids, ComponentID(bits.TrailingZeros64(v)))
	}
	return ids
}
