package engine

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/zeusync/gamecore/internal/core/command"
	"github.com/zeusync/gamecore/internal/core/input"
	"github.com/zeusync/gamecore/internal/core/observability/log"
	"github.com/zeusync/gamecore/internal/core/transition"
)

const (
	tracerName = "github.com/zeusync/gamecore/internal/core/engine"

	// MaxStep caps the dt of one tick after a stall, in seconds.
	MaxStep = 0.25

	eventBuffer = 64
)

// ErrStop ends Loop.Run cleanly when returned by a Source.
var ErrStop = errors.New("engine: stop")

// Source produces input events until ctx is done. Run must return promptly
// once ctx is cancelled.
type Source interface {
	Run(ctx context.Context, events chan<- input.Event) error
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, events chan<- input.Event) error

func (f SourceFunc) Run(ctx context.Context, events chan<- input.Event) error { return f(ctx, events) }

// Loop drives an Engine at the configured tick rate. Input sources run on
// their own goroutines and hand events to the tick goroutine over a channel,
// so the engine is only touched by one goroutine.
type Loop struct {
	Engine *Engine
	Clock  command.Clock
	Canvas transition.Canvas
	Events []Source
	// Present is called after every rendered frame.
	Present func()
	Tracer  trace.Tracer
}

// Run ticks until ctx is cancelled, a source returns ErrStop or the engine
// requests a stop, all of which return nil. A source failing with any other
// error stops the loop with that error.
func (l *Loop) Run(ctx context.Context) error {
	if l.Engine == nil {
		return errors.New("engine: loop without engine")
	}
	tracer := l.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	clock := l.Clock
	if clock == nil {
		clock = l.Engine.Clock()
	}

	events := make(chan input.Event, eventBuffer)
	g, gctx := errgroup.WithContext(ctx)
	for _, src := range l.Events {
		g.Go(func() error { return src.Run(gctx, events) })
	}
	g.Go(func() error { return l.tick(gctx, events, tracer, clock) })

	err := g.Wait()
	if err == nil || errors.Is(err, ErrStop) || ctx.Err() != nil {
		return nil
	}
	return err
}

func (l *Loop) tick(ctx context.Context, events <-chan input.Event, tracer trace.Tracer, clock command.Clock) error {
	ticker := time.NewTicker(l.Engine.Config().TickInterval())
	defer ticker.Stop()

	last := clock.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			l.Engine.HandleInput(ev)
		case <-ticker.C:
			now := clock.Now()
			dt := min(max(now.Sub(last).Seconds(), 0), MaxStep)
			last = now
			l.step(ctx, tracer, dt)
			if l.Engine.StopRequested() {
				return ErrStop
			}
		}
	}
}

func (l *Loop) step(ctx context.Context, tracer trace.Tracer, dt float64) {
	_, span := tracer.Start(ctx, "engine.tick")
	defer span.End()

	res := l.Engine.Tick(dt)
	if l.Canvas != nil {
		l.Engine.Render(l.Canvas)
		if l.Present != nil {
			l.Present()
		}
	}

	top := ""
	if st, ok := l.Engine.Stack().Current(); ok {
		top = st.ID()
	}
	span.SetAttributes(
		attribute.Int64("tick", int64(l.Engine.Ticks())),
		attribute.Float64("tick.dt", dt),
		attribute.Int("entities", l.Engine.Registry().Count()),
		attribute.String("state", top),
		attribute.Int("commands.executed", res.Executed),
		attribute.Int("commands.skipped", res.Skipped),
		attribute.Int("commands.failed", res.Failed),
	)
	if res.Failed > 0 {
		l.Engine.Logger().Debug("tick had failed commands", log.Int("failed", res.Failed))
	}
}
