// Command sandbox runs the engine in a terminal: one player moved with WASD
// or the arrow keys, a menu on Escape and a pause overlay on P.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/profile"

	"github.com/zeusync/gamecore/internal/core/engine"
	"github.com/zeusync/gamecore/internal/core/observability/log"
	"github.com/zeusync/gamecore/internal/injector"
	"github.com/zeusync/gamecore/internal/savegame"
	"github.com/zeusync/gamecore/internal/terminal"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	profileMode := flag.String("profile", "", "write a cpu, mem or trace profile to the working directory")
	slot := flag.String("slot", "", "save slot loaded at start and written on exit")
	flag.Parse()

	if err := run(*configPath, *profileMode, *slot); err != nil {
		fmt.Fprintln(os.Stderr, "sandbox:", err)
		os.Exit(1)
	}
}

func run(configPath, profileMode, slot string) error {
	switch profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook, profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook, profile.Quiet).Stop()
	case "trace":
		defer profile.Start(profile.TraceProfile, profile.ProfilePath("."), profile.NoShutdownHook, profile.Quiet).Stop()
	default:
		return fmt.Errorf("unknown profile mode %q", profileMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := injector.InitializeApp(injector.ConfigPath(configPath))
	if err != nil {
		return err
	}
	defer cleanup()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open screen: %w", err)
	}
	if err = screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	canvas := terminal.NewCanvas(screen)
	game, err := newGame(app.Engine, app.Store, slot)
	if err != nil {
		return err
	}
	if slot != "" {
		report, err := app.Engine.LoadGame(ctx, app.Store, slot)
		switch {
		case errors.Is(err, savegame.ErrSlotNotFound):
			app.Logger.Info("new save slot", log.String("slot", slot))
		case err != nil:
			return err
		case report.Skipped > 0:
			app.Logger.Warn("save slot partially loaded", log.String("slot", slot), log.Int("skipped", report.Skipped))
		}
	}
	if app.Engine.Registry().Count() == 0 {
		game.spawnPlayer(canvas)
	}

	loop := &engine.Loop{
		Engine: app.Engine,
		Canvas: canvas,
		Events: []engine.Source{terminal.NewKeyboard(screen, terminal.DefaultHoldTimeout)},
		Present: func() {
			screen.Show()
			screen.Clear()
			canvas.Reset()
		},
	}
	runErr := loop.Run(ctx)

	if slot != "" {
		if err := game.save(context.Background()); err != nil {
			return errors.Join(runErr, err)
		}
	}
	return runErr
}
