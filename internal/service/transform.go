package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"pixelforge/internal/models"
	"pixelforge/internal/repository"
	"pixelforge/internal/storage"
	"pixelforge/pkg/logger"

	"go.uber.org/zap"
)

// TransformServiceImpl implements the transformation workflow: canonical
// key derivation, durable-then-cache lookup, pipeline execution and record
// lifecycle.
type TransformServiceImpl struct {
	repo     repository.RecordStore
	cache    repository.Cache
	storage  storage.BlobStorage
	pipeline PipelineService
	cacheTTL time.Duration
}

// NewTransformService creates a new transform service
func NewTransformService(
	repo repository.RecordStore,
	cache repository.Cache,
	blobStorage storage.BlobStorage,
	pipeline PipelineService,
	cacheTTL time.Duration,
) TransformService {
	return &TransformServiceImpl{
		repo:     repo,
		cache:    cache,
		storage:  blobStorage,
		pipeline: pipeline,
		cacheTTL: cacheTTL,
	}
}

// Transform resolves an operation list against an image.
// Lookup order: durable record store by canonical parameters, then the fast
// cache by derived key, then full pipeline execution. Only the compute path
// writes records; the cache is populated fire-and-forget afterwards.
func (s *TransformServiceImpl) Transform(ctx context.Context, userID, imageID int64, operations []models.RawOperation) (*models.TransformResponse, error) {
	img, err := s.ownedImage(ctx, userID, imageID)
	if err != nil {
		return nil, err
	}

	canonical, err := models.CanonicalParams(operations)
	if err != nil {
		return nil, err
	}
	cacheKey := models.TransformCacheKey(imageID, canonical)

	// 1. Durable record store is authoritative.
	if existing, err := s.repo.FindTransformationByParams(ctx, imageID, canonical); err == nil {
		logger.DebugWithContext(ctx, "Transformation resolved from record store",
			zap.Int64("transformation_id", existing.ID))
		return &models.TransformResponse{
			URL:              existing.CachedURL,
			TransformationID: existing.ID,
		}, nil
	} else if _, ok := err.(models.NotFoundError); !ok {
		return nil, err
	}

	// 2. Fast cache; any failure inside is already a miss.
	if value, ok := s.cache.Get(ctx, cacheKey); ok {
		var cached models.TransformResponse
		if err := json.Unmarshal([]byte(value), &cached); err == nil {
			logger.DebugWithContext(ctx, "Transformation resolved from fast cache",
				zap.Int64("transformation_id", cached.TransformationID))
			return &cached, nil
		}
		logger.WarnWithContext(ctx, "Discarding malformed cache entry",
			zap.String("key", cacheKey))
	}

	// 3. Compute.
	original, err := s.storage.Download(ctx, img.OriginalKey)
	if err != nil {
		return nil, err
	}

	result, err := s.pipeline.Run(ctx, original, operations)
	if err != nil {
		return nil, err
	}

	contentType := resultContentType(operations, img.ContentType)
	folder := fmt.Sprintf("users/%d/transformed", userID)
	key, url, err := s.storage.Upload(ctx, result, contentType, folder)
	if err != nil {
		return nil, err
	}

	record := &models.Transformation{
		ImageID:    imageID,
		Type:       models.TransformationTypeComposite,
		Parameters: canonical,
		CachedKey:  key,
		CachedURL:  url,
	}
	if err := s.repo.CreateTransformation(ctx, record); err != nil {
		return nil, err
	}

	response := &models.TransformResponse{
		URL:              url,
		TransformationID: record.ID,
	}

	// Fire-and-forget cache population; never awaited on the request path.
	go func() {
		cacheCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.cache.Set(cacheCtx, cacheKey, response, s.cacheTTL)
	}()

	logger.InfoWithContext(ctx, "Transformation computed",
		zap.Int64("image_id", imageID),
		zap.Int64("transformation_id", record.ID),
		zap.Int("operations", len(operations)),
		zap.Int("result_size", len(result)))

	return response, nil
}

// List retrieves the user's transformations, newest first, optionally
// filtered to one image
func (s *TransformServiceImpl) List(ctx context.Context, userID int64, imageID *int64) ([]models.TransformationResponse, error) {
	var images []*models.Image
	if imageID != nil {
		img, err := s.ownedImage(ctx, userID, *imageID)
		if err != nil {
			return nil, err
		}
		images = []*models.Image{img}
	} else {
		all, _, err := s.repo.ListImages(ctx, userID, 0, 0)
		if err != nil {
			return nil, err
		}
		images = all
	}

	responses := make([]models.TransformationResponse, 0)
	for _, img := range images {
		transformations, err := s.repo.ListTransformationsByImage(ctx, img.ID)
		if err != nil {
			return nil, err
		}
		for _, t := range transformations {
			responses = append(responses, t.ToResponse())
		}
	}
	return responses, nil
}

// Delete removes a transformation record after a best-effort blob delete
func (s *TransformServiceImpl) Delete(ctx context.Context, userID, transformationID int64) error {
	t, err := s.repo.GetTransformation(ctx, transformationID)
	if err != nil {
		return err
	}

	// Ownership runs through the parent image.
	if _, err := s.ownedImage(ctx, userID, t.ImageID); err != nil {
		return models.NotFoundError{Resource: "transformation", ID: strconv.FormatInt(transformationID, 10)}
	}

	if t.CachedKey != "" && !s.storage.Delete(ctx, t.CachedKey) {
		logger.WarnWithContext(ctx, "Transformation blob not deleted, removing record anyway",
			zap.Int64("transformation_id", transformationID),
			zap.String("key", t.CachedKey))
	}
	s.cache.Delete(ctx, models.TransformCacheKey(t.ImageID, t.Parameters))

	return s.repo.DeleteTransformation(ctx, transformationID)
}

// ownedImage fetches an image and hides other users' images behind NotFound
func (s *TransformServiceImpl) ownedImage(ctx context.Context, userID, imageID int64) (*models.Image, error) {
	img, err := s.repo.GetImage(ctx, imageID)
	if err != nil {
		return nil, err
	}
	if img.UserID != userID {
		return nil, models.NotFoundError{Resource: "image", ID: strconv.FormatInt(imageID, 10)}
	}
	return img, nil
}

// resultContentType derives the output MIME type from the last format
// operation, falling back to the original content type
func resultContentType(operations []models.RawOperation, original string) string {
	for i := len(operations) - 1; i >= 0; i-- {
		op, err := models.ParseOperation(operations[i])
		if err != nil || op.Kind != models.OpFormat {
			continue
		}
		// WebP output is re-encoded as JPEG by the processor.
		if format := op.Format.Format; format != "" {
			if normalized, err := normalizeFormat(format); err == nil {
				if normalized == "webp" {
					return "image/jpeg"
				}
				return models.ContentTypeForFormat(normalized)
			}
		}
	}
	return original
}
