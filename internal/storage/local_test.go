package storage

import (
	"context"
	"strings"
	"testing"

	"pixelforge/internal/config"
	"pixelforge/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocalStorage(t *testing.T) *LocalStorage {
	t.Helper()

	store, err := NewLocalStorage(&config.LocalStorageConfig{
		Directory: t.TempDir(),
		BaseURL:   "http://localhost:8080/files/",
	})
	require.NoError(t, err)
	return store
}

func TestLocalStorage_UploadDownload(t *testing.T) {
	store := newTestLocalStorage(t)
	ctx := context.Background()

	key, url, err := store.Upload(ctx, []byte("blob-bytes"), "image/jpeg", "users/1/original")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "users/1/original/"), key)
	assert.True(t, strings.HasSuffix(key, ".jpg"), key)
	assert.Equal(t, "http://localhost:8080/files/"+key, url)

	data, err := store.Download(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("blob-bytes"), data)
}

func TestLocalStorage_KeyExtensionFollowsContentType(t *testing.T) {
	store := newTestLocalStorage(t)
	ctx := context.Background()

	tests := []struct {
		contentType string
		suffix      string
	}{
		{"image/jpeg", ".jpg"},
		{"image/png", ".png"},
		{"image/webp", ".webp"},
		{"application/zip", ".bin"},
	}

	for _, tt := range tests {
		key, _, err := store.Upload(ctx, []byte("x"), tt.contentType, "f")
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(key, tt.suffix), "%s -> %s", tt.contentType, key)
	}
}

func TestLocalStorage_DownloadMissing(t *testing.T) {
	store := newTestLocalStorage(t)

	_, err := store.Download(context.Background(), "users/1/original/missing.jpg")
	assert.ErrorAs(t, err, &models.NotFoundError{})
}

func TestLocalStorage_Delete(t *testing.T) {
	store := newTestLocalStorage(t)
	ctx := context.Background()

	key, _, err := store.Upload(ctx, []byte("x"), "image/png", "f")
	require.NoError(t, err)

	assert.True(t, store.Delete(ctx, key))

	exists, err := store.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	// Deleting a missing blob is not a failure.
	assert.True(t, store.Delete(ctx, key))
}

func TestLocalStorage_Exists(t *testing.T) {
	store := newTestLocalStorage(t)
	ctx := context.Background()

	key, _, err := store.Upload(ctx, []byte("x"), "image/png", "f")
	require.NoError(t, err)

	exists, err := store.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.Exists(ctx, "nope.png")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalStorage_PathTraversalIsContained(t *testing.T) {
	store := newTestLocalStorage(t)

	_, err := store.Download(context.Background(), "../../etc/passwd")
	assert.Error(t, err)
}

func TestLocalStorage_Health(t *testing.T) {
	store := newTestLocalStorage(t)
	assert.NoError(t, store.Health(context.Background()))
}
