// Package engine wires the entity registry, the state stack, the command
// queue and the input bindings into one tick-driven game core.
package engine

import (
	"fmt"
	"math"

	"github.com/zeusync/gamecore/internal/config"
	"github.com/zeusync/gamecore/internal/core/command"
	"github.com/zeusync/gamecore/internal/core/components"
	"github.com/zeusync/gamecore/internal/core/events/bus"
	"github.com/zeusync/gamecore/internal/core/input"
	"github.com/zeusync/gamecore/internal/core/models"
	"github.com/zeusync/gamecore/internal/core/observability/log"
	"github.com/zeusync/gamecore/internal/core/registry"
	"github.com/zeusync/gamecore/internal/core/state"
	"github.com/zeusync/gamecore/internal/core/transition"
)

// State ids the engine routes menu requests to unless overridden.
const (
	DefaultMenuState  = "menu"
	DefaultPauseState = "paused"
)

type options struct {
	clock     command.Clock
	bindings  *input.Bindings
	bus       bus.EventBus
	types     *models.TypeRegistry
	factories *command.Factories
	menuID    string
	pauseID   string
}

type Option func(*options)

func WithClock(c command.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithBindings replaces the bindings otherwise loaded from cfg.BindingsFile.
func WithBindings(b *input.Bindings) Option {
	return func(o *options) { o.bindings = b }
}

func WithBus(b bus.EventBus) Option {
	return func(o *options) { o.bus = b }
}

func WithTypes(t *models.TypeRegistry) Option {
	return func(o *options) { o.types = t }
}

// WithFactories replaces the default action to command table.
func WithFactories(f *command.Factories) Option {
	return func(o *options) { o.factories = f }
}

// WithMenuStates names the states pushed for menu and pause requests.
func WithMenuStates(menu, pause string) Option {
	return func(o *options) {
		o.menuID = menu
		o.pauseID = pause
	}
}

// Engine owns every manager of the game core. It is driven from a single
// goroutine, usually by a Loop.
type Engine struct {
	cfg    config.Config
	logger log.Log
	clock  command.Clock

	bus       bus.EventBus
	types     *models.TypeRegistry
	registry  *registry.Registry
	stack     *state.Stack
	queue     *command.Queue
	factories *command.Factories
	cooldowns *command.Cooldowns
	bindings  *input.Bindings
	keys      *input.KeyState

	menuID  string
	pauseID string

	subs    []bus.Subscription
	missing map[string]struct{}
	ticks   uint64
	stop    bool
}

// New validates cfg and builds an engine with empty registry and stack.
func New(cfg config.Config, logger log.Log, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine: invalid config: %w", err)
	}
	o := options{menuID: DefaultMenuState, pauseID: DefaultPauseState}
	for _, opt := range opts {
		opt(&o)
	}
	if logger == nil {
		logger = log.NewNop()
	}
	if o.clock == nil {
		o.clock = command.SystemClock{}
	}
	if o.bus == nil {
		o.bus = bus.New()
	}
	if o.types == nil {
		o.types = components.DefaultTypes()
	}
	if o.bindings == nil {
		b, err := input.LoadFile(cfg.BindingsFile)
		if err != nil {
			return nil, fmt.Errorf("engine: %w", err)
		}
		o.bindings = b
	}

	e := &Engine{
		cfg:       cfg,
		logger:    logger.With(log.String("component", "engine")),
		clock:     o.clock,
		bus:       o.bus,
		types:     o.types,
		bindings:  o.bindings,
		keys:      input.NewKeyState(),
		cooldowns: command.NewCooldowns(cfg.AttackCooldown),
		menuID:    o.menuID,
		pauseID:   o.pauseID,
		missing:   make(map[string]struct{}),
	}

	effect := transition.New()
	effect.SetFadeColor(cfg.Fade())

	e.registry = registry.New(e.types, registry.WithBus(e.bus), registry.WithLogger(logger))
	e.stack = state.NewStack(state.WithBus(e.bus), state.WithLogger(logger), state.WithEffect(effect))
	e.queue = command.NewQueue(cfg.MaxQueueSize, cfg.MaxHistorySize,
		command.WithClock(e.clock), command.WithLogger(logger))
	e.factories = o.factories
	if e.factories == nil {
		e.factories = command.DefaultFactories(e.bus, e.cooldowns)
	}

	if err := e.subscribe(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) subscribe() error {
	removed, err := e.bus.Subscribe(bus.TypeEntityRemoved, func(ev bus.Event) error {
		if p, ok := ev.Data().(bus.EntityLifecycle); ok {
			e.cooldowns.Forget(models.EntityID(p.EntityID))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("engine: subscribe %s: %w", bus.TypeEntityRemoved, err)
	}
	menu, err := e.bus.Subscribe(bus.TypeMenuRequest, e.routeMenu)
	if err != nil {
		_ = removed.Cancel()
		return fmt.Errorf("engine: subscribe %s: %w", bus.TypeMenuRequest, err)
	}
	e.subs = append(e.subs, removed, menu)
	return nil
}

// Tick advances the game by dt seconds: registry commit, component updates,
// state stack commit and update, command generation from input, command
// execution, then the key state closes the tick. Negative dt counts as 0.
func (e *Engine) Tick(dt float64) command.Result {
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}
	e.registry.Update()
	e.registry.UpdateComponents(dt)
	e.stack.Update(dt)
	e.bind()
	res := e.queue.ExecuteAll()
	e.keys.Advance()
	e.ticks++
	return res
}

// Render draws the render slice of the stack and the transition overlay.
func (e *Engine) Render(canvas transition.Canvas) {
	e.stack.Render(canvas)
}

// HandleInput records ev for the binder and forwards it to the top state.
func (e *Engine) HandleInput(ev input.Event) {
	e.keys.Apply(ev)
	e.stack.HandleInput(ev)
}

// RequestStop asks the driving Loop to return after the current tick.
func (e *Engine) RequestStop() { e.stop = true }

func (e *Engine) StopRequested() bool { return e.stop }

func (e *Engine) Config() config.Config          { return e.cfg }
func (e *Engine) Logger() log.Log                { return e.logger }
func (e *Engine) Clock() command.Clock           { return e.clock }
func (e *Engine) Bus() bus.EventBus              { return e.bus }
func (e *Engine) Types() *models.TypeRegistry    { return e.types }
func (e *Engine) Registry() *registry.Registry   { return e.registry }
func (e *Engine) Stack() *state.Stack            { return e.stack }
func (e *Engine) Queue() *command.Queue          { return e.queue }
func (e *Engine) Factories() *command.Factories  { return e.factories }
func (e *Engine) Cooldowns() *command.Cooldowns  { return e.cooldowns }
func (e *Engine) Bindings() *input.Bindings      { return e.bindings }
func (e *Engine) Keys() *input.KeyState          { return e.keys }
func (e *Engine) Ticks() uint64                  { return e.ticks }
func (e *Engine) Transition() *transition.Effect { return e.stack.Transition() }

// Close drops the engine's bus subscriptions, exits every state and detaches
// every entity.
func (e *Engine) Close() error {
	for _, sub := range e.subs {
		_ = e.bus.Unsubscribe(sub)
	}
	e.subs = nil
	e.stack.Clear()
	e.registry.Clear()
	e.queue.Clear()
	return nil
}
