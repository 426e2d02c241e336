package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pixelforge/internal/config"
	"pixelforge/internal/models"
	"pixelforge/pkg/logger"

	"go.uber.org/zap"
)

// LocalStorage implements BlobStorage on the local filesystem. Intended for
// development; keys map directly to paths under the base directory.
type LocalStorage struct {
	baseDir string
	baseURL string
}

var _ BlobStorage = (*LocalStorage)(nil)

// NewLocalStorage creates a filesystem storage backend
func NewLocalStorage(cfg *config.LocalStorageConfig) (*LocalStorage, error) {
	logger.Info("Initializing local storage",
		zap.String("directory", cfg.Directory))

	if err := os.MkdirAll(cfg.Directory, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{
		baseDir: cfg.Directory,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
	}, nil
}

// Upload stores a blob under a generated key and returns key and URL
func (l *LocalStorage) Upload(ctx context.Context, data []byte, contentType, folder string) (string, string, error) {
	key := generateKey(folder, contentType)
	path := l.path(key)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", "", models.StorageError{Operation: "upload", Backend: "local", Reason: err.Error()}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		logger.ErrorWithContext(ctx, "Failed to write blob",
			zap.String("key", key),
			zap.Error(err))
		return "", "", models.StorageError{Operation: "upload", Backend: "local", Reason: err.Error()}
	}

	logger.DebugWithContext(ctx, "Blob written",
		zap.String("key", key),
		zap.Int("size", len(data)))
	return key, l.URL(key), nil
}

// Download retrieves a blob by key
func (l *LocalStorage) Download(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(l.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, models.NotFoundError{Resource: "blob", ID: key}
		}
		return nil, models.StorageError{Operation: "download", Backend: "local", Reason: err.Error()}
	}
	return data, nil
}

// Delete removes a blob; failures are logged and reported as false
func (l *LocalStorage) Delete(ctx context.Context, key string) bool {
	if err := os.Remove(l.path(key)); err != nil {
		if !os.IsNotExist(err) {
			logger.WarnWithContext(ctx, "Failed to delete blob",
				zap.String("key", key),
				zap.Error(err))
			return false
		}
	}
	return true
}

// Exists checks if a blob exists
func (l *LocalStorage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(l.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, models.StorageError{Operation: "stat", Backend: "local", Reason: err.Error()}
	}
	return true, nil
}

// URL returns the public URL for a key
func (l *LocalStorage) URL(key string) string {
	return l.baseURL + "/" + key
}

// Health verifies the base directory is writable
func (l *LocalStorage) Health(ctx context.Context) error {
	probe := filepath.Join(l.baseDir, ".health")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return fmt.Errorf("local storage write test failed: %w", err)
	}
	if err := os.Remove(probe); err != nil {
		logger.WarnWithContext(ctx, "Failed to cleanup health probe", zap.Error(err))
	}
	return nil
}

// Keys are generated from UUIDs, but guard against traversal sneaking in.
// Rooting the key before cleaning strips any ".." segments.
func (l *LocalStorage) path(key string) string {
	clean := filepath.Clean("/" + key)
	return filepath.Join(l.baseDir, clean)
}
