package service

import (
	"context"
	"time"

	"pixelforge/internal/models"
	"pixelforge/internal/repository"
	"pixelforge/internal/storage"
	"pixelforge/pkg/logger"

	"go.uber.org/zap"
)

// HealthServiceImpl implements the HealthService interface
type HealthServiceImpl struct {
	repo    repository.RecordStore
	cache   repository.Cache
	storage storage.BlobStorage
}

// NewHealthService creates a new health service
func NewHealthService(
	repo repository.RecordStore,
	cache repository.Cache,
	blobStorage storage.BlobStorage,
) HealthService {
	return &HealthServiceImpl{
		repo:    repo,
		cache:   cache,
		storage: blobStorage,
	}
}

// CheckHealth probes all dependencies. The record store and blob storage are
// required; a failing fast cache only degrades the status since the durable
// path stays correct without it.
func (s *HealthServiceImpl) CheckHealth(ctx context.Context) *models.HealthResponse {
	logger.DebugWithContext(ctx, "Starting health check")

	services := make(map[string]string)
	status := "healthy"

	if err := s.repo.Health(ctx); err != nil {
		logger.WarnWithContext(ctx, "Record store health check failed", zap.Error(err))
		services["database"] = "unhealthy: " + err.Error()
		status = "unhealthy"
	} else {
		services["database"] = "connected"
	}

	if err := s.storage.Health(ctx); err != nil {
		logger.WarnWithContext(ctx, "Blob storage health check failed", zap.Error(err))
		services["storage"] = "unhealthy: " + err.Error()
		status = "unhealthy"
	} else {
		services["storage"] = "connected"
	}

	if err := s.cache.Health(ctx); err != nil {
		logger.WarnWithContext(ctx, "Fast cache health check failed", zap.Error(err))
		services["cache"] = "degraded: " + err.Error()
		if status == "healthy" {
			status = "degraded"
		}
	} else {
		services["cache"] = "connected"
	}

	return &models.HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Services:  services,
	}
}
