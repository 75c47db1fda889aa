// Package config loads the engine configuration: built-in defaults, then an
// optional YAML file, then GAMECORE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	colorful "github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/gamecore/internal/core/observability/log"
)

// EnvPrefix is prepended to every env tag.
const EnvPrefix = "GAMECORE_"

// Config represents the engine configuration
type Config struct {
	LogLevel           string        `yaml:"log_level" env:"LOG_LEVEL"`
	LogFile            string        `yaml:"log_file" env:"LOG_FILE"`
	TickRate           int           `yaml:"tick_rate" env:"TICK_RATE"`
	MaxQueueSize       int           `yaml:"max_queue_size" env:"MAX_QUEUE_SIZE"`
	MaxHistorySize     int           `yaml:"max_history_size" env:"MAX_HISTORY_SIZE"`
	AttackCooldown     time.Duration `yaml:"attack_cooldown" env:"ATTACK_COOLDOWN"`
	TransitionDuration time.Duration `yaml:"transition_duration" env:"TRANSITION_DURATION"`
	FadeColor          string        `yaml:"fade_color" env:"FADE_COLOR"`
	SavePath           string        `yaml:"save_path" env:"SAVE_PATH"`
	BindingsFile       string        `yaml:"bindings_file,omitempty" env:"BINDINGS_FILE"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:           "info",
		LogFile:            "gamecore.log",
		TickRate:           60,
		MaxQueueSize:       100,
		MaxHistorySize:     50,
		AttackCooldown:     500 * time.Millisecond,
		TransitionDuration: 400 * time.Millisecond,
		FadeColor:          "#000000",
		SavePath:           "gamecore.db",
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and the environment, then validates it.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return Config{}, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()
		if err = cfg.OverlayYAML(f); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.OverlayEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// OverlayYAML replaces the fields present in r.
func (c *Config) OverlayYAML(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

// OverlayEnv replaces the fields whose GAMECORE_* variable is set.
func (c *Config) OverlayEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate validates the configuration
func (c Config) Validate() error {
	var errs []error
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.TickRate <= 0 || c.TickRate > 1000 {
		errs = append(errs, fmt.Errorf("tick_rate must be in 1..1000, got %d", c.TickRate))
	}
	if c.MaxQueueSize <= 0 {
		errs = append(errs, fmt.Errorf("max_queue_size must be positive, got %d", c.MaxQueueSize))
	}
	if c.MaxHistorySize <= 0 {
		errs = append(errs, fmt.Errorf("max_history_size must be positive, got %d", c.MaxHistorySize))
	}
	if c.AttackCooldown < 0 {
		errs = append(errs, fmt.Errorf("attack_cooldown must not be negative"))
	}
	if c.TransitionDuration < 0 {
		errs = append(errs, fmt.Errorf("transition_duration must not be negative"))
	}
	if _, err := colorful.Hex(c.FadeColor); err != nil {
		errs = append(errs, fmt.Errorf("fade_color: %w", err))
	}
	return errors.Join(errs...)
}

// Level is the parsed LogLevel. Validate guarantees it parses.
func (c Config) Level() log.Level {
	l, _ := log.ParseLevel(c.LogLevel)
	return l
}

// TickInterval is the wall-clock duration of one tick.
func (c Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

// Fade is the parsed FadeColor, black when it does not parse.
func (c Config) Fade() colorful.Color {
	col, err := colorful.Hex(c.FadeColor)
	if err != nil {
		return colorful.Color{}
	}
	return col
}
