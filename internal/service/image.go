package service

import (
	"context"
	"fmt"
	"strconv"

	"pixelforge/internal/config"
	"pixelforge/internal/models"
	"pixelforge/internal/repository"
	"pixelforge/internal/storage"
	"pixelforge/pkg/logger"

	"go.uber.org/zap"
)

// ImageServiceImpl implements the ImageService interface
type ImageServiceImpl struct {
	repo      repository.RecordStore
	cache     repository.Cache
	storage   storage.BlobStorage
	processor ProcessorService
	config    *config.Config
}

// NewImageService creates a new image service
func NewImageService(
	repo repository.RecordStore,
	cache repository.Cache,
	blobStorage storage.BlobStorage,
	processor ProcessorService,
	cfg *config.Config,
) ImageService {
	return &ImageServiceImpl{
		repo:      repo,
		cache:     cache,
		storage:   blobStorage,
		processor: processor,
		config:    cfg,
	}
}

// Upload validates, decodes, stores and records an uploaded image
func (s *ImageServiceImpl) Upload(ctx context.Context, userID int64, input UploadInput) (*models.Image, error) {
	logger.InfoWithContext(ctx, "Starting image upload",
		zap.String("filename", input.Filename),
		zap.Int("size", len(input.Data)))

	if len(input.Data) == 0 {
		return nil, models.ValidationError{Field: "file", Message: "file is empty"}
	}
	if int64(len(input.Data)) > s.config.Image.MaxFileSize {
		return nil, models.ValidationError{
			Field:   "file",
			Message: fmt.Sprintf("file size %d exceeds maximum %d bytes", len(input.Data), s.config.Image.MaxFileSize),
		}
	}
	if err := models.ValidateUploadFilename(input.Filename, s.config.Image.AllowedExtensions); err != nil {
		return nil, err
	}

	info, err := s.processor.Info(input.Data)
	if err != nil {
		return nil, err
	}

	contentType := input.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = models.ContentTypeForFormat(info.Format)
	}

	folder := fmt.Sprintf("users/%d/original", userID)
	key, url, err := s.storage.Upload(ctx, input.Data, contentType, folder)
	if err != nil {
		return nil, err
	}

	img := &models.Image{
		UserID:      userID,
		Filename:    input.Filename,
		OriginalKey: key,
		OriginalURL: url,
		ContentType: contentType,
		Size:        int64(len(input.Data)),
		Width:       info.Width,
		Height:      info.Height,
		Metadata:    map[string]string{"format": info.Format},
	}
	if err := s.repo.CreateImage(ctx, img); err != nil {
		// Storage and record store are not transactional; drop the orphan blob.
		s.storage.Delete(ctx, key)
		return nil, err
	}

	logger.InfoWithContext(ctx, "Image uploaded",
		zap.Int64("image_id", img.ID),
		zap.String("key", key),
		zap.Int("width", info.Width),
		zap.Int("height", info.Height))

	return img, nil
}

// Get retrieves an image owned by the user
func (s *ImageServiceImpl) Get(ctx context.Context, userID, imageID int64) (*models.Image, error) {
	img, err := s.repo.GetImage(ctx, imageID)
	if err != nil {
		return nil, err
	}
	if img.UserID != userID {
		return nil, models.NotFoundError{Resource: "image", ID: strconv.FormatInt(imageID, 10)}
	}
	return img, nil
}

// List retrieves one page of the user's images, newest first
func (s *ImageServiceImpl) List(ctx context.Context, userID int64, page, limit int) (*models.ImageListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	images, total, err := s.repo.ListImages(ctx, userID, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	return &models.ImageListResponse{
		Images: images,
		Total:  total,
		Page:   page,
		Limit:  limit,
	}, nil
}

// Delete removes an image with its transformations. Blob deletions are
// best-effort: failures are logged and the cascade proceeds so records never
// outlive their cleanup attempt.
func (s *ImageServiceImpl) Delete(ctx context.Context, userID, imageID int64) error {
	img, err := s.Get(ctx, userID, imageID)
	if err != nil {
		return err
	}

	transformations, err := s.repo.ListTransformationsByImage(ctx, imageID)
	if err != nil {
		return err
	}

	for _, t := range transformations {
		if t.CachedKey != "" && !s.storage.Delete(ctx, t.CachedKey) {
			logger.WarnWithContext(ctx, "Transformation blob not deleted during cascade",
				zap.Int64("transformation_id", t.ID),
				zap.String("key", t.CachedKey))
		}
		s.cache.Delete(ctx, models.TransformCacheKey(imageID, t.Parameters))
		if err := s.repo.DeleteTransformation(ctx, t.ID); err != nil {
			logger.WarnWithContext(ctx, "Transformation record not deleted during cascade",
				zap.Int64("transformation_id", t.ID),
				zap.Error(err))
		}
	}

	if !s.storage.Delete(ctx, img.OriginalKey) {
		logger.WarnWithContext(ctx, "Original blob not deleted during cascade",
			zap.Int64("image_id", imageID),
			zap.String("key", img.OriginalKey))
	}

	if err := s.repo.DeleteImage(ctx, imageID); err != nil {
		return err
	}

	logger.InfoWithContext(ctx, "Image deleted",
		zap.Int64("image_id", imageID),
		zap.Int("transformations", len(transformations)))
	return nil
}
