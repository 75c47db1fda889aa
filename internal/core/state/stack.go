package state

import (
	"errors"
	"fmt"
	"slices"

	"github.com/zeusync/gamecore/internal/core/events/bus"
	"github.com/zeusync/gamecore/internal/core/input"
	"github.com/zeusync/gamecore/internal/core/observability/log"
	"github.com/zeusync/gamecore/internal/core/transition"
)

const eventSource = "state"

type Option func(*Stack)

// WithBus publishes a state.transition event for every committed push and pop.
func WithBus(b bus.EventBus) Option {
	return func(s *Stack) { s.bus = b }
}

func WithLogger(l log.Log) Option {
	return func(s *Stack) { s.logger = l }
}

func WithEffect(e *transition.Effect) Option {
	return func(s *Stack) { s.effect = e }
}

// Stack holds the active states, bottom first. Push and Pop requests are
// queued and committed at the start of the next Update: the pop first, then
// the push. Only one push can be pending; a later request replaces it.
//
// Stack is not safe for concurrent use.
type Stack struct {
	logger log.Log
	bus    bus.EventBus
	effect *transition.Effect

	registered map[string]State
	states     []State

	pendingPush State
	pendingPop  bool
}

func NewStack(opts ...Option) *Stack {
	s := &Stack{registered: make(map[string]State)}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.NewNop()
	}
	if s.effect == nil {
		s.effect = transition.New()
	}
	s.logger = s.logger.With(log.String("component", "state_stack"))
	return s
}

// Register makes st available to Push and Change by id. Re-registering an id
// replaces the previous state.
func (s *Stack) Register(st State) error {
	if st == nil {
		s.logger.Error("register of nil state ignored")
		return ErrNilState
	}
	if _, ok := s.registered[st.ID()]; ok {
		s.logger.Warn("state re-registered", log.String("state", st.ID()))
	}
	s.registered[st.ID()] = st
	return nil
}

func (s *Stack) Lookup(id string) (State, bool) {
	st, ok := s.registered[id]
	return st, ok
}

// Push queues the registered state id.
func (s *Stack) Push(id string) error {
	st, ok := s.registered[id]
	if !ok {
		s.logger.Error("push of unregistered state", log.String("state", id))
		return fmt.Errorf("%w: %s", ErrUnknownState, id)
	}
	return s.PushState(st)
}

// PushState queues st without requiring it to be registered.
func (s *Stack) PushState(st State) error {
	if st == nil {
		s.logger.Error("push of nil state ignored")
		return ErrNilState
	}
	if s.pendingPush != nil {
		s.logger.Debug("pending push replaced",
			log.String("dropped", s.pendingPush.ID()), log.String("state", st.ID()))
	}
	s.pendingPush = st
	return nil
}

// Pop queues removal of the top state.
func (s *Stack) Pop() {
	if len(s.states) == 0 && s.pendingPush == nil {
		s.logger.Warn("pop on empty state stack ignored")
		return
	}
	s.pendingPop = true
}

// Change queues a pop of the current state, if any, and a push of id.
func (s *Stack) Change(id string) error {
	st, ok := s.registered[id]
	if !ok {
		s.logger.Error("change to unregistered state", log.String("state", id))
		return fmt.Errorf("%w: %s", ErrUnknownState, id)
	}
	return s.ChangeState(st)
}

func (s *Stack) ChangeState(st State) error {
	if st == nil {
		s.logger.Error("change to nil state ignored")
		return ErrNilState
	}
	if len(s.states) > 0 {
		s.pendingPop = true
	}
	return s.PushState(st)
}

// Update commits pending changes, advances the transition effect and
// updates every state down to and including the topmost pausing state,
// bottom first.
func (s *Stack) Update(dt float64) {
	s.commit()
	s.effect.Update(dt)
	for _, st := range s.updateSlice() {
		s.safeCall(st, "update", func() error { return st.Update(dt) })
	}
}

func (s *Stack) commit() {
	if s.pendingPop {
		s.pendingPop = false
		s.popNow()
	}
	if st := s.pendingPush; st != nil {
		s.pendingPush = nil
		s.pushNow(st)
	}
}

func (s *Stack) popNow() {
	n := len(s.states)
	if n == 0 {
		return
	}
	top := s.states[n-1]
	s.states[n-1] = nil
	s.states = s.states[:n-1]
	s.safeCall(top, "exit", top.Exit)
	s.publish(top.ID(), s.currentID())
}

func (s *Stack) pushNow(st State) {
	prev := s.currentID()
	s.states = append(s.states, st)
	s.safeCall(st, "enter", st.Enter)
	s.publish(prev, st.ID())
}

func (s *Stack) currentID() string {
	if n := len(s.states); n > 0 {
		return s.states[n-1].ID()
	}
	return ""
}

func (s *Stack) publish(prev, next string) {
	if s.bus == nil {
		return
	}
	ev := bus.NewEvent(bus.TypeStateTransition, eventSource, bus.StateTransition{Previous: prev, Next: next}, 0, nil)
	if err := s.bus.Publish(ev); err != nil {
		s.logger.Warn("state transition handler failed", log.Error(err))
	}
}

// updateSlice is the run of states from the topmost pausing state up.
func (s *Stack) updateSlice() []State {
	return s.sliceFromTop(State.PausesUnderlying)
}

// renderSlice is the run of states from the topmost opaque state up.
func (s *Stack) renderSlice() []State {
	return s.sliceFromTop(func(st State) bool { return !st.RendersOverUnderlying() })
}

func (s *Stack) sliceFromTop(stop func(State) bool) []State {
	i := len(s.states) - 1
	for ; i > 0; i-- {
		if stop(s.states[i]) {
			break
		}
	}
	if i < 0 {
		return nil
	}
	return slices.Clone(s.states[i:])
}

// Render draws the render slice bottom first, then the transition effect.
func (s *Stack) Render(canvas transition.Canvas) {
	for _, st := range s.renderSlice() {
		s.safeCall(st, "render", func() error { return st.Render(canvas) })
	}
	s.renderEffect(canvas)
}

func (s *Stack) renderEffect(canvas transition.Canvas) {
	defer func() {
		if p := recover(); p != nil {
			s.logger.Error("transition render panicked", log.Any("panic", p))
		}
	}()
	s.effect.Render(canvas)
}

// HandleInput routes ev to the top state only.
func (s *Stack) HandleInput(ev input.Event) {
	if top, ok := s.Current(); ok {
		s.safeCall(top, "input", func() error { return top.HandleInput(ev) })
	}
}

func (s *Stack) safeCall(st State, op string, fn func() error) {
	err := func() (err error) {
		defer func() {
			if p := recover(); p != nil {
				err = fmt.Errorf("panic: %v", p)
			}
		}()
		return fn()
	}()
	switch {
	case err == nil:
	case errors.Is(err, ErrNotInitialized):
		s.logger.Warn("state not initialized", log.String("state", st.ID()), log.String("op", op))
	default:
		s.logger.Error("state callback failed", log.String("state", st.ID()), log.String("op", op), log.Error(err))
	}
}

func (s *Stack) Current() (State, bool) {
	if n := len(s.states); n > 0 {
		return s.states[n-1], true
	}
	return nil, false
}

// States returns the active states, bottom first.
func (s *Stack) States() []State { return slices.Clone(s.states) }

func (s *Stack) Len() int { return len(s.states) }

func (s *Stack) IsEmpty() bool { return len(s.states) == 0 }

func (s *Stack) Transition() *transition.Effect { return s.effect }

// HasPending reports whether a push or pop awaits the next Update.
func (s *Stack) HasPending() bool { return s.pendingPop || s.pendingPush != nil }

// Clear exits every state immediately, top first, and drops pending requests.
func (s *Stack) Clear() {
	s.pendingPop = false
	s.pendingPush = nil
	for len(s.states) > 0 {
		s.popNow()
	}
}
