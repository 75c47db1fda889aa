// Package savegame persists named save slots in SQLite. A slot holds an
// entity snapshot and the ids on the state stack.
package savegame

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/zeusync/gamecore/internal/core/state"
)

// ErrSlotNotFound is returned by Load and Delete for unknown slot names.
var ErrSlotNotFound = errors.New("savegame: slot not found")

const schema = `CREATE TABLE IF NOT EXISTS save_slots (
	slot     TEXT PRIMARY KEY,
	entities BLOB NOT NULL,
	states   TEXT NOT NULL,
	saved_at INTEGER NOT NULL
)`

// Slot is one saved game.
type Slot struct {
	Name     string
	Entities []byte
	States   []string
	SavedAt  time.Time
}

// Summary describes a slot without its payload.
type Summary struct {
	Name    string
	SavedAt time.Time
	Size    int
}

// Store is a SQLite-backed slot store. It is safe for concurrent use.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens or creates the slot database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

// Save writes slot, replacing any slot with the same name. An empty name is
// replaced by a random one; the name used is returned.
func (s *Store) Save(ctx context.Context, slot Slot) (string, error) {
	if err := s.ready(ctx); err != nil {
		return "", err
	}
	name := strings.TrimSpace(slot.Name)
	if name == "" {
		name = uuid.NewString()
	}
	savedAt := slot.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now()
	}
	states, err := state.Snapshot{States: slot.States}.Marshal()
	if err != nil {
		return "", fmt.Errorf("encode states: %w", err)
	}
	entities := slot.Entities
	if entities == nil {
		entities = []byte{}
	}

	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO save_slots (slot, entities, states, saved_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(slot) DO UPDATE SET
		   entities = excluded.entities,
		   states = excluded.states,
		   saved_at = excluded.saved_at`,
		name, entities, string(states), toMillis(savedAt),
	)
	if err != nil {
		return "", fmt.Errorf("save slot %s: %w", name, err)
	}
	return name, nil
}

// Load reads the named slot.
func (s *Store) Load(ctx context.Context, name string) (Slot, error) {
	if err := s.ready(ctx); err != nil {
		return Slot{}, err
	}
	var (
		entities []byte
		states   string
		savedAt  int64
	)
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT entities, states, saved_at FROM save_slots WHERE slot = ?`, name,
	).Scan(&entities, &states, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Slot{}, fmt.Errorf("%w: %s", ErrSlotNotFound, name)
	}
	if err != nil {
		return Slot{}, fmt.Errorf("load slot %s: %w", name, err)
	}
	var snap state.Snapshot
	if err := snap.Unmarshal([]byte(states)); err != nil {
		return Slot{}, fmt.Errorf("load slot %s: %w", name, err)
	}
	return Slot{Name: name, Entities: entities, States: snap.States, SavedAt: fromMillis(savedAt)}, nil
}

// List returns every slot, most recently saved first.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT slot, saved_at, length(entities) FROM save_slots ORDER BY saved_at DESC, slot ASC`)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sum     Summary
			savedAt int64
		)
		if err := rows.Scan(&sum.Name, &savedAt, &sum.Size); err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		sum.SavedAt = fromMillis(savedAt)
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return out, nil
}

// Delete removes the named slot.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM save_slots WHERE slot = ?`, name)
	if err != nil {
		return fmt.Errorf("delete slot %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete slot %s: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrSlotNotFound, name)
	}
	return nil
}
