package engine

import (
	"context"
	"fmt"

	"github.com/zeusync/gamecore/internal/core/observability/log"
	"github.com/zeusync/gamecore/internal/core/registry"
	"github.com/zeusync/gamecore/internal/core/state"
	"github.com/zeusync/gamecore/internal/savegame"
)

// SlotStore persists save slots. *savegame.Store implements it.
type SlotStore interface {
	Save(ctx context.Context, slot savegame.Slot) (string, error)
	Load(ctx context.Context, name string) (savegame.Slot, error)
}

// SaveGame writes the live entities and the state stack to the named slot
// and returns the slot name actually used.
func (e *Engine) SaveGame(ctx context.Context, store SlotStore, name string) (string, error) {
	data, err := e.registry.SaveSnapshot()
	if err != nil {
		return "", fmt.Errorf("engine: snapshot entities: %w", err)
	}
	slot := savegame.Slot{
		Name:     name,
		Entities: data,
		States:   e.stack.Save().States,
		SavedAt:  e.clock.Now(),
	}
	saved, err := store.Save(ctx, slot)
	if err != nil {
		return "", fmt.Errorf("engine: %w", err)
	}
	e.logger.Info("game saved", log.String("slot", saved), log.Int("entities", e.registry.Count()))
	return saved, nil
}

// LoadGame replaces the entities and the state stack with the named slot.
// Queued commands, key state and cooldowns are reset. A fatal snapshot error
// leaves the engine untouched.
func (e *Engine) LoadGame(ctx context.Context, store SlotStore, name string) (registry.LoadReport, error) {
	slot, err := store.Load(ctx, name)
	if err != nil {
		return registry.LoadReport{}, fmt.Errorf("engine: %w", err)
	}
	report, err := e.registry.LoadSnapshot(slot.Entities)
	if err != nil {
		return report, fmt.Errorf("engine: load slot %s: %w", name, err)
	}
	e.queue.Clear()
	e.keys.Reset()
	e.cooldowns.Reset()
	if err := e.stack.Restore(state.Snapshot{States: slot.States}); err != nil {
		return report, fmt.Errorf("engine: restore states: %w", err)
	}
	e.logger.Info("game loaded", log.String("slot", name),
		log.Int("entities", report.Loaded), log.Int("skipped", report.Skipped))
	return report, nil
}
