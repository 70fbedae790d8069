package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "journal.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_AppendListOrdersByOccurrence(t *testing.T) {
	store := openStore(t)
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	_, err := store.Append(Entry{Saga: "client.create", OccurredAt: base.Add(time.Minute), Cause: "second"})
	require.NoError(t, err)
	first, err := store.Append(Entry{
		Saga:       "legal_representatives.create",
		OccurredAt: base,
		Cause:      "first",
		Steps:      []Step{{Collection: "persons", IDs: []string{"p1", "p2"}}},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	entries, err := store.List(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "first", entries[0].Cause)
	assert.Equal(t, 2, entries[0].Documents())
	assert.Equal(t, "second", entries[1].Cause)

	size, err := store.Size()
	require.NoError(t, err)
	assert.Equal(t, 2, size)
}

func TestStore_Remove(t *testing.T) {
	store := openStore(t)

	entry, err := store.Append(Entry{Saga: "client.create"})
	require.NoError(t, err)

	require.NoError(t, store.Remove(Entry{ID: entry.ID}))

	size, err := store.Size()
	require.NoError(t, err)
	assert.Zero(t, size)
}

func TestStore_CleanupDropsOnlyOldEntries(t *testing.T) {
	store := openStore(t)
	now := time.Now().UTC()

	_, err := store.Append(Entry{Saga: "old", OccurredAt: now.Add(-48 * time.Hour)})
	require.NoError(t, err)
	_, err = store.Append(Entry{Saga: "fresh", OccurredAt: now})
	require.NoError(t, err)

	removed, err := store.Cleanup(now.Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	entries, err := store.List(0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "fresh", entries[0].Saga)
}

func TestStore_NilIsNotOpen(t *testing.T) {
	var store *Store
	_, err := store.Size()
	assert.Error(t, err)
	assert.NoError(t, store.Close())
}
