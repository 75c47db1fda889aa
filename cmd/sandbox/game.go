package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/zeusync/gamecore/internal/core/components"
	"github.com/zeusync/gamecore/internal/core/engine"
	"github.com/zeusync/gamecore/internal/core/events/bus"
	"github.com/zeusync/gamecore/internal/core/input"
	"github.com/zeusync/gamecore/internal/core/models"
	"github.com/zeusync/gamecore/internal/core/observability/log"
	"github.com/zeusync/gamecore/internal/core/state"
	"github.com/zeusync/gamecore/internal/core/transition"
	"github.com/zeusync/gamecore/internal/terminal"
)

const (
	playerSpeed    = 12
	playerFriction = 30
	flashTime      = 0.15
)

var (
	floorColor = colorful.Color{R: 0.08, G: 0.1, B: 0.12}
	dimColor   = colorful.Color{}

	hudStyle    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	playerStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	flashStyle  = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	menuStyle   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
)

type game struct {
	engine *engine.Engine
	store  engine.SlotStore
	slot   string
	flash  float64
	status string
	// size of the last rendered frame
	w, h int
}

func newGame(e *engine.Engine, store engine.SlotStore, slot string) (*game, error) {
	g := &game{engine: e, store: store, slot: slot}
	stack := e.Stack()
	for _, st := range []state.State{
		state.New("playing", state.PlayingTraits, state.Funcs{
			OnUpdate: g.updatePlaying,
			OnRender: g.renderPlaying,
		}),
		state.New(engine.DefaultMenuState, state.MenuTraits, state.Funcs{
			OnRender: g.renderMenu,
			OnInput:  g.menuInput,
		}),
		state.New(engine.DefaultPauseState, state.PausedTraits, state.Funcs{
			OnRender: g.renderPaused,
		}),
	} {
		if err := stack.Register(st); err != nil {
			return nil, err
		}
	}
	if err := stack.Push("playing"); err != nil {
		return nil, err
	}
	if _, err := e.Bus().Subscribe(bus.TypeAttack, func(bus.Event) error {
		g.flash = flashTime
		return nil
	}); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *game) spawnPlayer(c transition.Canvas) {
	w, h := c.Bounds()
	p := g.engine.Registry().CreateEntity()
	mv := components.NewMovement(playerSpeed)
	mv.Friction = playerFriction
	for _, comp := range []models.Component{
		components.NewTransform(float64(w/2), float64(h/2)),
		mv,
		components.NewController(),
	} {
		if err := p.Add(comp); err != nil {
			g.engine.Logger().Error("spawn player", log.Error(err))
		}
	}
}

func (g *game) save(ctx context.Context) error {
	if g.slot == "" {
		g.status = "no save slot"
		return nil
	}
	if _, err := g.engine.SaveGame(ctx, g.store, g.slot); err != nil {
		g.status = "save failed"
		return err
	}
	g.status = fmt.Sprintf("saved %s at %s", g.slot, time.Now().Format(time.Kitchen))
	return nil
}

func (g *game) updatePlaying(dt float64) error {
	g.flash = max(0, g.flash-dt)
	if g.w == 0 || g.h == 0 {
		return nil
	}
	for _, ent := range g.engine.Registry().EntitiesWith(components.TransformID) {
		tr, _ := models.Get[*components.Transform](ent, components.TransformID)
		tr.X = min(max(tr.X, 0), float64(g.w-1))
		tr.Y = min(max(tr.Y, 1), float64(g.h-1))
	}
	return nil
}

func (g *game) renderPlaying(c transition.Canvas) error {
	w, h := c.Bounds()
	g.w, g.h = w, h
	c.FillRect(0, 0, w, h, floorColor, 1)
	tc, ok := c.(*terminal.Canvas)
	if !ok {
		return nil
	}
	style := playerStyle
	if g.flash > 0 {
		style = flashStyle
	}
	for _, ent := range g.engine.Registry().EntitiesWith(components.TransformID) {
		tr, _ := models.Get[*components.Transform](ent, components.TransformID)
		tc.Text(int(tr.X), int(tr.Y), "@", style)
	}
	tc.Text(0, 0, fmt.Sprintf("tick %d  entities %d  %s", g.engine.Ticks(), g.engine.Registry().Count(), g.status), hudStyle)
	return nil
}

func (g *game) renderMenu(c transition.Canvas) error {
	w, h := c.Bounds()
	c.FillRect(0, 0, w, h, dimColor, 1)
	tc, ok := c.(*terminal.Canvas)
	if !ok {
		return nil
	}
	lines := []string{"MENU", "", "esc  resume", "s    save", "u    undo last command", "q    quit"}
	top := h/2 - len(lines)/2
	for i, line := range lines {
		tc.Text(w/2-8, top+i, line, menuStyle)
	}
	if g.status != "" {
		tc.Text(w/2-8, top+len(lines)+1, g.status, hudStyle)
	}
	return nil
}

func (g *game) menuInput(ev input.Event) error {
	if ev.Type != input.Pressed {
		return nil
	}
	switch ev.Key {
	case 's':
		return g.save(context.Background())
	case 'u':
		if !g.engine.Queue().UndoLast() {
			g.status = "nothing to undo"
		}
	case 'q':
		g.engine.RequestStop()
	}
	return nil
}

func (g *game) renderPaused(c transition.Canvas) error {
	w, h := c.Bounds()
	c.FillRect(0, 0, w, h, dimColor, 0.5)
	if tc, ok := c.(*terminal.Canvas); ok {
		tc.Text(w/2-3, h/2, "PAUSED", hudStyle)
	}
	return nil
}
