package localstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemStore(t *testing.T) {
	t.Parallel()

	store := NewMemStore()

	_, ok := store.Get("missing")
	require.False(t, ok)

	require.NoError(t, store.Set("k", "v"))
	v, ok := store.Get("k")
	require.True(t, ok)
	require.Equal(t, "v", v)

	require.NoError(t, store.Remove("k"))
	_, ok = store.Get("k")
	require.False(t, ok)
}

func TestFileStore(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "store.json")
	store := NewFileStore(path)

	_, ok := store.Get("missing")
	require.False(t, ok, "missing file reads as empty store")

	require.NoError(t, store.Set("session", `{"user_id":"u1"}`))
	v, ok := store.Get("session")
	require.True(t, ok)
	require.Equal(t, `{"user_id":"u1"}`, v)

	// A second store over the same file sees the persisted value.
	reopened := NewFileStore(path)
	v, ok = reopened.Get("session")
	require.True(t, ok)
	require.Equal(t, `{"user_id":"u1"}`, v)

	require.NoError(t, reopened.Remove("session"))
	_, ok = store.Get("session")
	require.False(t, ok)
}

func TestFileStore_RemoveMissingKey(t *testing.T) {
	t.Parallel()

	store := NewFileStore(filepath.Join(t.TempDir(), "store.json"))
	require.NoError(t, store.Remove("never-set"))
}
