package datastore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func openStore(t *testing.T, path string) *DataStore {
	t.Helper()
	ds, err := NewWithConfig(Config{FilePath: path, Logger: zerolog.Nop()})
	require.NoError(t, err)
	return ds
}

func TestNewCreatesEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "store.json")
	ds := openStore(t, path)
	defer ds.Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, "{}", string(data))
	assert.Zero(t, ds.Keys())
}

func TestPutGetPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")

	ds := openStore(t, path)
	require.NoError(t, ds.Put("guild-1", entry{Name: "volume", Count: 3}))

	var got entry
	ok, err := ds.Get("guild-1", &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, entry{Name: "volume", Count: 3}, got)

	ok, err = ds.Get("missing", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, ds.Close())

	reopened := openStore(t, path)
	defer reopened.Close()

	var again entry
	ok, err = reopened.Get("guild-1", &again)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, got, again)
}

func TestDelete(t *testing.T) {
	ds := openStore(t, filepath.Join(t.TempDir(), "store.json"))
	defer ds.Close()

	require.NoError(t, ds.Put("k", 1))
	ds.Delete("k")
	assert.Zero(t, ds.Keys())
}

func TestClosedStore(t *testing.T) {
	ds := openStore(t, filepath.Join(t.TempDir(), "store.json"))
	require.NoError(t, ds.Close())
	require.NoError(t, ds.Close())

	assert.ErrorIs(t, ds.Put("k", 1), ErrClosed)
	_, err := ds.Get("k", new(int))
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, ds.Save(), ErrClosed)
}

func TestInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := NewWithConfig(Config{FilePath: path, Logger: zerolog.Nop()})
	assert.Error(t, err)
}

func TestNullFileLoadsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte("null"), 0o644))

	ds := openStore(t, path)
	defer ds.Close()

	assert.Empty(t, ds.Keys())
	require.NoError(t, ds.Put("guild-1", entry{Name: "music"}))

	var got entry
	ok, err := ds.Get("guild-1", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "music", got.Name)
}
