package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFileService_Save(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewFileService(dir, 1024, zap.NewNop())
	require.NoError(t, err)

	t.Run("stores under a sanitized collision-free name", func(t *testing.T) {
		publicPath, err := svc.Save(context.Background(), "mi diseño (v2).png", strings.NewReader("png-bytes"))
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(publicPath, "/uploads/mi-dise"))
		assert.True(t, strings.HasSuffix(publicPath, ".png"))

		stored := filepath.Join(dir, filepath.Base(publicPath))
		data, err := os.ReadFile(stored)
		require.NoError(t, err)
		assert.Equal(t, "png-bytes", string(data))
	})

	t.Run("oversized upload is rejected and removed", func(t *testing.T) {
		big := strings.Repeat("x", 2048)
		_, err := svc.Save(context.Background(), "big.png", strings.NewReader(big))
		require.Error(t, err)
		assert.True(t, IsValidationError(err))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		for _, entry := range entries {
			assert.NotContains(t, entry.Name(), "big")
		}
	})
}

func TestFileService_Delete(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewFileService(dir, 1024, zap.NewNop())
	require.NoError(t, err)

	t.Run("removes a stored upload", func(t *testing.T) {
		publicPath, err := svc.Save(context.Background(), "badge.png", strings.NewReader("data"))
		require.NoError(t, err)

		require.NoError(t, svc.Delete(context.Background(), publicPath))
		_, statErr := os.Stat(filepath.Join(dir, filepath.Base(publicPath)))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("missing upload is not found", func(t *testing.T) {
		err := svc.Delete(context.Background(), "/uploads/never-stored.png")
		require.Error(t, err)
		assert.True(t, IsNotFoundError(err))
	})

	t.Run("path traversal stays inside the uploads directory", func(t *testing.T) {
		outside := filepath.Join(filepath.Dir(dir), "outside.txt")
		require.NoError(t, os.WriteFile(outside, []byte("keep"), 0o644))

		err := svc.Delete(context.Background(), "/uploads/../"+filepath.Base(outside))
		require.Error(t, err)

		_, statErr := os.Stat(outside)
		assert.NoError(t, statErr)
	})
}
