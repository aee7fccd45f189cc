package storage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAferoStore_Unit(t *testing.T) {
	// In-memory filesystem: no disk I/O is performed.
	memFs := afero.NewMemMapFs()
	store := NewAferoStore(memFs)
	ctx := context.Background()

	filePath := "store/config/topics.json"
	first := `{"topicConfigTable":{},"dataVersion":{"counter":1}}`
	second := `{"topicConfigTable":{},"dataVersion":{"counter":2}}`

	t.Run("Save", func(t *testing.T) {
		n, err := store.Save(ctx, filePath, bytes.NewReader([]byte(first)))
		require.NoError(t, err)
		assert.Equal(t, int64(len(first)), n)

		readBytes, err := afero.ReadFile(memFs, filePath)
		require.NoError(t, err)
		assert.Equal(t, first, string(readBytes))

		exists, err := afero.Exists(memFs, filePath+tmpSuffix)
		require.NoError(t, err)
		assert.False(t, exists, "temporary file should be renamed away")
	})

	t.Run("Save keeps backup of previous content", func(t *testing.T) {
		_, err := store.Save(ctx, filePath, bytes.NewReader([]byte(second)))
		require.NoError(t, err)

		current, err := afero.ReadFile(memFs, filePath)
		require.NoError(t, err)
		assert.Equal(t, second, string(current))

		backup, err := afero.ReadFile(memFs, filePath+backupSuffix)
		require.NoError(t, err)
		assert.Equal(t, first, string(backup))
	})

	t.Run("Load", func(t *testing.T) {
		data, err := store.Load(ctx, filePath)
		require.NoError(t, err)
		assert.Equal(t, second, string(data))
	})

	t.Run("Load falls back to backup when file is empty", func(t *testing.T) {
		require.NoError(t, afero.WriteFile(memFs, filePath, nil, 0644))

		data, err := store.Load(ctx, filePath)
		require.NoError(t, err)
		assert.Equal(t, first, string(data))
	})

	t.Run("Load falls back to backup when file is missing", func(t *testing.T) {
		require.NoError(t, memFs.Remove(filePath))

		data, err := store.Load(ctx, filePath)
		require.NoError(t, err)
		assert.Equal(t, first, string(data))
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Delete(ctx, filePath)
		require.NoError(t, err)

		exists, err := afero.Exists(memFs, filePath+backupSuffix)
		require.NoError(t, err)
		assert.False(t, exists, "backup should not exist after deleting")
	})

	t.Run("Load non-existent file", func(t *testing.T) {
		_, err := store.Load(ctx, "path/to/nothing.json")
		assert.ErrorIs(t, err, ErrNotExist)
		assert.True(t, errors.Is(err, os.ErrNotExist), "should match os.ErrNotExist")
	})

	t.Run("Save honours cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := store.Save(cctx, filePath, bytes.NewReader([]byte(first)))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestAferoStore_ReadOnlyFs(t *testing.T) {
	store := NewAferoStore(afero.NewReadOnlyFs(afero.NewMemMapFs()))

	_, err := store.Save(context.Background(), "store/config/topics.json", bytes.NewReader([]byte("{}")))
	assert.Error(t, err, "saving on a read-only filesystem should fail")
}

func TestAferoStore_OsFs(t *testing.T) {
	dir := t.TempDir()
	store := NewAferoStore(afero.NewOsFs())
	ctx := context.Background()
	path := filepath.Join(dir, "config", "topics.json")

	_, err := store.Save(ctx, path, bytes.NewReader([]byte(`{"v":1}`)))
	require.NoError(t, err)
	_, err = store.Save(ctx, path, bytes.NewReader([]byte(`{"v":2}`)))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"v":2}`, string(data))

	backup, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	assert.Equal(t, `{"v":1}`, string(backup))
}
