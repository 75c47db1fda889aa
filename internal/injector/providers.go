// Package injector assembles the sandbox application with google/wire.
package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/gamecore/internal/config"
	"github.com/zeusync/gamecore/internal/core/engine"
	"github.com/zeusync/gamecore/internal/core/observability/log"
	"github.com/zeusync/gamecore/internal/savegame"
)

// ConfigPath is the YAML config file; empty means defaults and env only.
type ConfigPath string

// App is everything cmd/sandbox needs.
type App struct {
	Config config.Config
	Logger log.Log
	Engine *engine.Engine
	Store  *savegame.Store
}

var AppSet = wire.NewSet(
	ProvideConfig,
	ProvideLogger,
	ProvideEngine,
	ProvideStore,
	wire.Struct(new(App), "*"),
)

func ProvideConfig(path ConfigPath) (config.Config, error) {
	return config.Load(string(path))
}

// ProvideLogger writes to cfg.LogFile, or stderr when it is empty. The
// sandbox owns the terminal, so the default is a file.
func ProvideLogger(cfg config.Config) log.Log {
	if cfg.LogFile == "" {
		return log.New(cfg.Level())
	}
	return log.NewWithOutput(cfg.Level(), cfg.LogFile)
}

func ProvideEngine(cfg config.Config, logger log.Log) (*engine.Engine, func(), error) {
	e, err := engine.New(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return e, func() { _ = e.Close() }, nil
}

func ProvideStore(cfg config.Config, logger log.Log) (*savegame.Store, func(), error) {
	store, err := savegame.Open(cfg.SavePath)
	if err != nil {
		return nil, nil, err
	}
	return store, func() {
		if err := store.Close(); err != nil {
			logger.Warn("close save store", log.Error(err))
		}
	}, nil
}
