package objectstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilesystemStore_Get(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "uploads", "group-a", "patient-b", "documents"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "uploads", "group-a", "patient-b", "documents", "history.txt"), []byte("chest pain for two days"), 0o644))

	store, err := NewFilesystemStore(root)
	require.NoError(t, err)

	rc, err := store.Get(context.Background(), "uploads", "group-a/patient-b/documents/history.txt")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "chest pain for two days", string(data))
}

func TestFilesystemStore_GetMissing(t *testing.T) {
	store, err := NewFilesystemStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "uploads", "nope/missing.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFilesystemStore_Exists(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "uploads"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "uploads", "a.txt"), []byte("x"), 0o644))

	store, err := NewFilesystemStore(root)
	require.NoError(t, err)

	ok, err := store.Exists(context.Background(), "uploads", "a.txt")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Exists(context.Background(), "uploads", "b.txt")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFilesystemStore_RejectsEscape(t *testing.T) {
	store, err := NewFilesystemStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "uploads", "../../etc/passwd")
	assert.Error(t, err)
}
