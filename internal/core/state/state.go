// Package state implements the game-state stack: states are pushed and popped
// at commit points, lower states can be paused by the ones above them, and
// rendering composites translucent states over the ones below.
package state

import (
	"errors"

	"github.com/zeusync/gamecore/internal/core/input"
	"github.com/zeusync/gamecore/internal/core/transition"
)

var (
	ErrNilState       = errors.New("state: nil state")
	ErrUnknownState   = errors.New("state: state not registered")
	ErrNotInitialized = errors.New("state: not initialized")
)

// State is one screen or mode of the game.
type State interface {
	ID() string
	// PausesUnderlying stops states below this one from updating.
	PausesUnderlying() bool
	// RendersOverUnderlying lets states below this one render first.
	RendersOverUnderlying() bool

	Enter() error
	Exit() error
	Update(dt float64) error
	Render(canvas transition.Canvas) error
	HandleInput(ev input.Event) error
}

// Traits are the immutable compositing flags of a state.
type Traits struct {
	Pauses      bool
	RendersOver bool
}

var (
	PlayingTraits = Traits{Pauses: false, RendersOver: false}
	PausedTraits  = Traits{Pauses: true, RendersOver: true}
	MenuTraits    = Traits{Pauses: true, RendersOver: false}
	LoadingTraits = Traits{Pauses: true, RendersOver: false}
)
