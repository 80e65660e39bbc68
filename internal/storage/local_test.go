package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreSaveAndRemove(t *testing.T) {
	t.Parallel()

	store, err := NewLocalStore(t.TempDir(), 1<<20)
	require.NoError(t, err)

	path, err := store.Save([]byte("jpeg bytes"), "photo.JPG")
	require.NoError(t, err)
	assert.Equal(t, ".jpg", filepath.Ext(path))

	data, err := store.Read(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg bytes"), data)

	require.NoError(t, store.Remove(path))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Removing an already-removed file is not an error.
	assert.NoError(t, store.Remove(path))
}

func TestLocalStoreRejectsOutsidePaths(t *testing.T) {
	t.Parallel()

	store, err := NewLocalStore(t.TempDir(), 1<<20)
	require.NoError(t, err)

	assert.Error(t, store.Remove("/etc/passwd"))
	_, err = store.Read("../somewhere/else.jpg")
	assert.Error(t, err)
}

func TestNewLocalStoreRequiresDir(t *testing.T) {
	t.Parallel()

	_, err := NewLocalStore("", 1<<20)
	assert.Error(t, err)
}
