// Package input defines the engine's keyboard events, action bindings and
// per-tick key state.
package input

import (
	"fmt"
	"time"
)

type EventType uint8

const (
	Pressed EventType = iota
	Released
	Held
)

func (t EventType) String() string {
	switch t {
	case Pressed:
		return "pressed"
	case Released:
		return "released"
	case Held:
		return "held"
	default:
		return fmt.Sprintf("event(%d)", t)
	}
}

// Event is a single key transition reported by a backend.
type Event struct {
	Type EventType
	Key  int
	At   time.Time
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s", KeyName(e.Key), e.Type)
}
