package savegame

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "slots.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	name, err := store.Save(ctx, Slot{
		Name:     "quick",
		Entities: []byte{1, 2, 3},
		States:   []string{"playing", "paused"},
		SavedAt:  at,
	})
	require.NoError(t, err)
	assert.Equal(t, "quick", name)

	slot, err := store.Load(ctx, "quick")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, slot.Entities)
	assert.Equal(t, []string{"playing", "paused"}, slot.States)
	assert.True(t, at.Equal(slot.SavedAt))
}

func TestSaveOverwritesSameSlot(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	_, err := store.Save(ctx, Slot{Name: "a", Entities: []byte{1}, States: []string{"menu"}})
	require.NoError(t, err)
	_, err = store.Save(ctx, Slot{Name: "a", Entities: []byte{9, 9}})
	require.NoError(t, err)

	slot, err := store.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 9}, slot.Entities)
	assert.Empty(t, slot.States)
}

func TestSaveGeneratesName(t *testing.T) {
	store := openTestStore(t)
	name, err := store.Save(context.Background(), Slot{Entities: []byte{}})
	require.NoError(t, err)
	_, err = uuid.Parse(name)
	assert.NoError(t, err)
}

func TestListAndDelete(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"old", "new"} {
		_, err := store.Save(ctx, Slot{Name: name, Entities: make([]byte, i+1), SavedAt: base.Add(time.Duration(i) * time.Hour)})
		require.NoError(t, err)
	}

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].Name)
	assert.Equal(t, 2, list[0].Size)

	require.NoError(t, store.Delete(ctx, "old"))
	assert.ErrorIs(t, store.Delete(ctx, "old"), ErrSlotNotFound)
	_, err = store.Load(ctx, "old")
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestCancelledContext(t *testing.T) {
	store := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := store.Save(ctx, Slot{Name: "x"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
	var nilStore *Store
	assert.NoError(t, nilStore.Close())
}
