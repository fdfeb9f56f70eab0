package local

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("creates missing directory", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "artifacts")
		_, err := New(base)
		require.NoError(t, err)
		info, err := os.Stat(base)
		require.NoError(t, err)
		require.True(t, info.IsDir())
	})

	t.Run("rejects empty base", func(t *testing.T) {
		_, err := New("  ")
		require.Error(t, err)
	})

	t.Run("rejects file as base", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "occupied")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
		_, err := New(path)
		require.Error(t, err)
	})
}

func TestBlobStorePut(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	abs, err := store.Put(ctx, filepath.Join("downloads", "doc.pdf"), []byte("payload"))
	require.NoError(t, err)
	got, err := os.ReadFile(abs)
	require.NoError(t, err)
	require.Equal(t, []byte("payload"), got)

	// Same path overwrites the same artifact.
	abs2, err := store.Put(ctx, filepath.Join("downloads", "doc.pdf"), []byte("updated"))
	require.NoError(t, err)
	require.Equal(t, abs, abs2)
	got, err = os.ReadFile(abs)
	require.NoError(t, err)
	require.Equal(t, []byte("updated"), got)
}

func TestBlobStoreExists(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	found, _, err := store.Exists(ctx, "downloads/missing.pdf")
	require.NoError(t, err)
	require.False(t, found)

	abs, err := store.Put(ctx, "downloads/present.pdf", []byte("payload"))
	require.NoError(t, err)

	found, path, err := store.Exists(ctx, "downloads/present.pdf")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, abs, path)
}

func TestBlobStoreRejectsTraversal(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Put(ctx, "../escape.txt", []byte("nope"))
	require.Error(t, err)

	_, err = store.Put(ctx, "   ", []byte("nope"))
	require.Error(t, err)
}

func TestBlobStoreCanceledContext(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = store.Put(ctx, "downloads/doc.pdf", []byte("payload"))
	require.Error(t, err)
	_, _, err = store.Exists(ctx, "downloads/doc.pdf")
	require.Error(t, err)
}
