package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/voxnote/pkg/adapters/fs"
	"github.com/aretw0/voxnote/pkg/core"
)

func newStore(t *testing.T, cfg fs.Config) *fs.Store {
	t.Helper()
	if cfg.Path == "" {
		cfg.Path = t.TempDir()
	}
	store := fs.NewStore(cfg)
	require.NoError(t, store.Initialize(context.Background()))
	return store
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, fs.Config{})

	key := "note-10/17/2026, 3:04:05 PM"
	require.NoError(t, store.Set(ctx, key, "buy milk"))

	got, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "buy milk", got)

	_, err = os.Stat(filepath.Join(store.Path, fs.FileName(key)))
	assert.NoError(t, err, "key should map to a single escaped file")

	require.NoError(t, store.Set(ctx, key, "buy oat milk"))
	got, err = store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "buy oat milk", got)
}

func TestStoreGetMissing(t *testing.T) {
	store := newStore(t, fs.Config{})

	_, err := store.Get(context.Background(), "note-missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestStoreRemoveIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, fs.Config{})

	require.NoError(t, store.Set(ctx, "note-a", "x"))
	require.NoError(t, store.Remove(ctx, "note-a"))
	require.NoError(t, store.Remove(ctx, "note-a"))

	_, err := store.Get(ctx, "note-a")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestStoreKeysCreationOrder(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, fs.Config{})

	require.NoError(t, store.Set(ctx, "note-z", "1"))
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, store.Set(ctx, "note-a", "2"))

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"note-z", "note-a"}, keys)

	// Rewriting a key keeps its place, also across a reopen.
	reopened := newStore(t, fs.Config{Path: store.Path})
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, reopened.Set(ctx, "note-z", "3"))

	keys, err = reopened.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"note-z", "note-a"}, keys)
}

func TestStoreKeysSkipsForeignFiles(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, fs.Config{})

	require.NoError(t, store.Set(ctx, "note-a", "1"))
	require.NoError(t, os.WriteFile(filepath.Join(store.Path, "README.md"), []byte("hi"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(store.Path, fs.TempFilePrefix+"123"), []byte("partial"), 0644))

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"note-a"}, keys)
}

func TestStoreKeysPicksUpExternalChanges(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, fs.Config{})

	require.NoError(t, store.Set(ctx, "note-a", "1"))
	require.NoError(t, os.WriteFile(filepath.Join(store.Path, fs.FileName("note-ext")), []byte("2"), 0644))
	require.NoError(t, os.Remove(filepath.Join(store.Path, fs.FileName("note-a"))))

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"note-ext"}, keys)
}

func TestStoreReadOnly(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writable := newStore(t, fs.Config{Path: dir})
	require.NoError(t, writable.Set(ctx, "note-a", "1"))

	store := newStore(t, fs.Config{Path: dir, ReadOnly: true})

	assert.ErrorIs(t, store.Set(ctx, "note-b", "2"), core.ErrReadOnly)
	assert.ErrorIs(t, store.Remove(ctx, "note-a"), core.ErrReadOnly)

	got, err := store.Get(ctx, "note-a")
	require.NoError(t, err)
	assert.Equal(t, "1", got)
}

func TestStoreMustExist(t *testing.T) {
	store := fs.NewStore(fs.Config{Path: filepath.Join(t.TempDir(), "missing"), MustExist: true})
	assert.Error(t, store.Initialize(context.Background()))
}

func TestKeyFromFileName(t *testing.T) {
	key := "note-17.10.2026, 09:05:03"
	got, ok := fs.KeyFromFileName(fs.FileName(key))
	require.True(t, ok)
	assert.Equal(t, key, got)

	_, ok = fs.KeyFromFileName("notes.md")
	assert.False(t, ok)
	_, ok = fs.KeyFromFileName(fs.TempFilePrefix + "x.txt")
	assert.False(t, ok)
}

func TestStoreState(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, fs.Config{})
	require.NoError(t, store.Set(ctx, "note-a", "1"))

	state, ok := store.State().(fs.StoreState)
	require.True(t, ok)
	assert.Equal(t, store.Path, state.Path)
	assert.Equal(t, fs.DefaultSystemDir, state.SystemDir)
	assert.Equal(t, 1, state.CacheSize)
	assert.False(t, state.WatcherActive)
	assert.Equal(t, "fs", store.ComponentType())
}
