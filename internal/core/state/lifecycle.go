package state

import (
	"github.com/zeusync/gamecore/internal/core/input"
	"github.com/zeusync/gamecore/internal/core/transition"
)

// Behavior is what game code implements for a state. Initialize runs once,
// before the first Enter.
type Behavior interface {
	Initialize() error
	Enter() error
	Exit() error
	Update(dt float64) error
	Render(canvas transition.Canvas) error
	HandleInput(ev input.Event) error
}

// Funcs is a Behavior built from optional callbacks.
type Funcs struct {
	OnInitialize func() error
	OnEnter      func() error
	OnExit       func() error
	OnUpdate     func(dt float64) error
	OnRender     func(canvas transition.Canvas) error
	OnInput      func(ev input.Event) error
}

func (f Funcs) Initialize() error { return call(f.OnInitialize) }
func (f Funcs) Enter() error      { return call(f.OnEnter) }
func (f Funcs) Exit() error       { return call(f.OnExit) }

func (f Funcs) Update(dt float64) error {
	if f.OnUpdate == nil {
		return nil
	}
	return f.OnUpdate(dt)
}

func (f Funcs) Render(canvas transition.Canvas) error {
	if f.OnRender == nil {
		return nil
	}
	return f.OnRender(canvas)
}

func (f Funcs) HandleInput(ev input.Event) error {
	if f.OnInput == nil {
		return nil
	}
	return f.OnInput(ev)
}

func call(fn func() error) error {
	if fn == nil {
		return nil
	}
	return fn()
}

// Lifecycle adapts a Behavior to State and guarantees Initialize runs exactly
// once. Until it has run, Update reports ErrNotInitialized and Render and
// HandleInput do nothing.
type Lifecycle struct {
	id          string
	traits      Traits
	behavior    Behavior
	initialized bool
}

func New(id string, traits Traits, behavior Behavior) *Lifecycle {
	if behavior == nil {
		behavior = Funcs{}
	}
	return &Lifecycle{id: id, traits: traits, behavior: behavior}
}

func (l *Lifecycle) ID() string                  { return l.id }
func (l *Lifecycle) PausesUnderlying() bool      { return l.traits.Pauses }
func (l *Lifecycle) RendersOverUnderlying() bool { return l.traits.RendersOver }
func (l *Lifecycle) Traits() Traits              { return l.traits }
func (l *Lifecycle) Initialized() bool           { return l.initialized }
func (l *Lifecycle) Behavior() Behavior          { return l.behavior }

// Enter initializes the state on first use. A failed Initialize is retried on
// the next Enter.
func (l *Lifecycle) Enter() error {
	if !l.initialized {
		if err := l.behavior.Initialize(); err != nil {
			return err
		}
		l.initialized = true
	}
	return l.behavior.Enter()
}

func (l *Lifecycle) Exit() error { return l.behavior.Exit() }

func (l *Lifecycle) Update(dt float64) error {
	if !l.initialized {
		return ErrNotInitialized
	}
	return l.behavior.Update(dt)
}

func (l *Lifecycle) Render(canvas transition.Canvas) error {
	if !l.initialized {
		return nil
	}
	return l.behavior.Render(canvas)
}

func (l *Lifecycle) HandleInput(ev input.Event) error {
	if !l.initialized {
		return nil
	}
	return l.behavior.HandleInput(ev)
}
