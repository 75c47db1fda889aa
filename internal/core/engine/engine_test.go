package engine

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zeusync/gamecore/internal/config"
	"github.com/zeusync/gamecore/internal/core/components"
	"github.com/zeusync/gamecore/internal/core/events/bus"
	"github.com/zeusync/gamecore/internal/core/input"
	"github.com/zeusync/gamecore/internal/core/models"
	"github.com/zeusync/gamecore/internal/core/observability/log"
	"github.com/zeusync/gamecore/internal/core/state"
	"github.com/zeusync/gamecore/internal/savegame"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fixture struct {
	engine *Engine
	clock  *fakeClock
	logs   *observer.ObservedLogs
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	opts = append([]Option{WithClock(clock), WithBindings(input.DefaultBindings())}, opts...)
	e, err := New(config.Default(), log.NewFromZap(zap.New(core)), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })

	stack := e.Stack()
	for _, st := range []state.State{
		state.New("playing", state.PlayingTraits, state.Funcs{}),
		state.New(DefaultMenuState, state.MenuTraits, state.Funcs{}),
		state.New(DefaultPauseState, state.PausedTraits, state.Funcs{}),
	} {
		require.NoError(t, stack.Register(st))
	}
	require.NoError(t, stack.Push("playing"))
	return &fixture{engine: e, clock: clock, logs: logs}
}

func (f *fixture) spawnPlayer(t *testing.T) *models.Entity {
	t.Helper()
	p := f.engine.Registry().CreateEntity()
	require.NoError(t, p.Add(components.NewTransform(0, 0)))
	require.NoError(t, p.Add(components.NewMovement(4)))
	require.NoError(t, p.Add(components.NewController()))
	f.engine.Tick(0)
	return p
}

func (f *fixture) press(key int) {
	f.engine.HandleInput(input.Event{Type: input.Pressed, Key: key, At: f.clock.now})
}

func (f *fixture) release(key int) {
	f.engine.HandleInput(input.Event{Type: input.Released, Key: key, At: f.clock.now})
}

func (f *fixture) top() string {
	st, ok := f.engine.Stack().Current()
	if !ok {
		return ""
	}
	return st.ID()
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.TickRate = 0
	_, err := New(cfg, nil)
	assert.Error(t, err)

	cfg = config.Default()
	cfg.BindingsFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = New(cfg, nil)
	assert.Error(t, err)
}

func TestHeldKeyMovesPlayerUntilRelease(t *testing.T) {
	f := newFixture(t)
	p := f.spawnPlayer(t)
	mv, _ := models.Get[*components.Movement](p, components.MovementID)
	tr, _ := models.Get[*components.Transform](p, components.TransformID)

	f.press('d')
	res := f.engine.Tick(0.5)
	assert.Equal(t, 1, res.Executed)
	assert.Equal(t, 4.0, mv.VX)
	assert.Equal(t, 0.0, tr.X, "velocity applies from the next tick")

	f.engine.Tick(0.5)
	assert.InDelta(t, 2.0, tr.X, 1e-9)

	f.release('d')
	f.engine.Tick(0)
	assert.Equal(t, 0.0, mv.VX)
}

func TestRunKeySpeedsUpMovement(t *testing.T) {
	f := newFixture(t)
	p := f.spawnPlayer(t)
	mv, _ := models.Get[*components.Movement](p, components.MovementID)

	f.press(input.KeyShift)
	f.engine.Tick(0)
	f.press('w')
	f.engine.Tick(0)
	assert.Equal(t, -4*components.RunMultiplier, mv.VY)
}

func TestMenuKeyOpensAndClosesMenu(t *testing.T) {
	f := newFixture(t)
	f.spawnPlayer(t)
	require.Equal(t, "playing", f.top())

	f.press(input.KeyEscape)
	f.engine.Tick(0)
	assert.Equal(t, "playing", f.top(), "push commits on the next tick")
	assert.True(t, f.engine.Transition().Active())

	f.release(input.KeyEscape)
	f.engine.Tick(0)
	assert.Equal(t, DefaultMenuState, f.top())

	f.press(input.KeyEscape)
	f.engine.Tick(0)
	f.engine.Tick(0)
	assert.Equal(t, "playing", f.top())
}

func TestPauseBlocksGameplayButNotReleases(t *testing.T) {
	f := newFixture(t)
	p := f.spawnPlayer(t)
	mv, _ := models.Get[*components.Movement](p, components.MovementID)

	f.press('d')
	f.engine.Tick(0)
	require.Equal(t, 4.0, mv.VX)

	f.press('p')
	f.engine.Tick(0)
	f.engine.Tick(0)
	require.Equal(t, DefaultPauseState, f.top())

	f.release('d')
	f.engine.Tick(0)
	assert.Equal(t, 0.0, mv.VX, "release still stops the player")

	f.press('a')
	f.engine.Tick(0)
	assert.Equal(t, 0.0, mv.VX, "new movement is blocked while paused")

	f.release('p')
	f.engine.Tick(0)
	f.press('p')
	f.engine.Tick(0)
	f.engine.Tick(0)
	assert.Equal(t, "playing", f.top())
}

func TestAttackPublishesAndCooldownIsForgottenOnRemoval(t *testing.T) {
	f := newFixture(t)
	p := f.spawnPlayer(t)
	var attacks []bus.EntityAction
	_, err := f.engine.Bus().Subscribe(bus.TypeAttack, func(ev bus.Event) error {
		attacks = append(attacks, ev.Data().(bus.EntityAction))
		return nil
	})
	require.NoError(t, err)

	f.press(input.KeySpace)
	f.engine.Tick(0)
	require.Len(t, attacks, 1)
	assert.False(t, f.engine.Cooldowns().Ready(p.ID(), f.clock.now))

	f.engine.Registry().RemoveEntity(p)
	f.engine.Tick(0)
	assert.True(t, f.engine.Cooldowns().Ready(p.ID(), f.clock.now))
}

func TestInactiveControllerIsIgnored(t *testing.T) {
	f := newFixture(t)
	p := f.spawnPlayer(t)
	ctl, _ := models.Get[*components.Controller](p, components.ControllerID)
	ctl.Accepting = false

	f.press('d')
	res := f.engine.Tick(0)
	assert.Zero(t, res.Executed)
}

func TestUnknownActionIsReportedOnce(t *testing.T) {
	b := input.DefaultBindings()
	b.Bind("dance", 'x')
	f := newFixture(t, WithBindings(b))
	f.spawnPlayer(t)

	f.press('x')
	f.engine.Tick(0)
	f.engine.Tick(0)
	assert.Equal(t, 1, f.logs.FilterMessage("no command factory for action").Len())
}

func TestNegativeDeltaIsClamped(t *testing.T) {
	f := newFixture(t)
	var got []float64
	require.NoError(t, f.engine.Stack().PushState(state.New("timing", state.PlayingTraits, state.Funcs{
		OnUpdate: func(dt float64) error { got = append(got, dt); return nil },
	})))
	f.engine.Tick(-3)
	assert.Equal(t, []float64{0}, got)
	assert.Equal(t, uint64(1), f.engine.Ticks())
}

func TestSaveAndLoadGame(t *testing.T) {
	ctx := context.Background()
	store, err := savegame.Open(filepath.Join(t.TempDir(), "save.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	f := newFixture(t)
	p := f.spawnPlayer(t)
	tr, _ := models.Get[*components.Transform](p, components.TransformID)
	tr.X, tr.Y = 3, 7
	require.NoError(t, f.engine.Stack().Push(DefaultPauseState))
	f.engine.Tick(0)

	name, err := f.engine.SaveGame(ctx, store, "slot1")
	require.NoError(t, err)
	assert.Equal(t, "slot1", name)

	f.engine.Registry().RemoveEntity(p)
	f.engine.Stack().Pop()
	f.engine.Tick(0)
	require.Zero(t, f.engine.Registry().Count())

	report, err := f.engine.LoadGame(ctx, store, "slot1")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Loaded)
	assert.Equal(t, []string{"playing", DefaultPauseState}, f.engine.Stack().Save().States)

	loaded, ok := f.engine.Registry().Entity(p.ID())
	require.True(t, ok)
	ltr, ok := models.Get[*components.Transform](loaded, components.TransformID)
	require.True(t, ok)
	assert.Equal(t, 3.0, ltr.X)
	assert.Equal(t, 7.0, ltr.Y)

	_, err = f.engine.LoadGame(ctx, store, "nope")
	assert.ErrorIs(t, err, savegame.ErrSlotNotFound)
}
