package storage

import (
	"fmt"

	"pixelforge/internal/config"
	"pixelforge/pkg/logger"

	"go.uber.org/zap"
)

// New selects the blob storage backend from configuration
func New(cfg *config.Config) (BlobStorage, error) {
	logger.Info("Initializing blob storage",
		zap.String("type", cfg.Storage.Type))

	switch cfg.Storage.Type {
	case "s3":
		return NewS3Storage(&cfg.S3)
	case "local":
		return NewLocalStorage(&cfg.Local)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Storage.Type)
	}
}
