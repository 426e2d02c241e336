package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pixelforge/internal/config"
	"pixelforge/internal/models"
	"pixelforge/pkg/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// S3Storage implements BlobStorage for AWS S3 and S3-compatible stores
// (R2, MinIO)
type S3Storage struct {
	client     *s3.Client
	uploader   *manager.Uploader
	downloader *manager.Downloader
	config     *config.S3Config
	bucket     string
}

var _ BlobStorage = (*S3Storage)(nil)

// NewS3Storage creates a new S3 storage backend
func NewS3Storage(cfg *config.S3Config) (*S3Storage, error) {
	logger.Info("Initializing S3 storage",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("region", cfg.Region),
		zap.String("bucket", cfg.Bucket))

	awsConfig, err := createAWSConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // Required for MinIO and custom endpoints
		}
	})

	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = 10 * 1024 * 1024
		u.Concurrency = 3
	})

	downloader := manager.NewDownloader(client, func(d *manager.Downloader) {
		d.PartSize = 10 * 1024 * 1024
		d.Concurrency = 3
	})

	storage := &S3Storage{
		client:     client,
		uploader:   uploader,
		downloader: downloader,
		config:     cfg,
		bucket:     cfg.Bucket,
	}

	logger.Info("S3 storage initialized successfully")
	return storage, nil
}

// Upload stores a blob under a generated key and returns key and public URL
func (s *S3Storage) Upload(ctx context.Context, data []byte, contentType, folder string) (string, string, error) {
	key := generateKey(folder, contentType)

	logger.DebugWithContext(ctx, "Uploading blob to S3",
		zap.String("key", key),
		zap.Int("size", len(data)),
		zap.String("content_type", contentType))

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if strings.HasPrefix(contentType, "image/") {
		input.CacheControl = aws.String("public, max-age=31536000, immutable")
	}

	// The uploader handles multipart automatically for large blobs.
	if _, err := s.uploader.Upload(ctx, input); err != nil {
		logger.ErrorWithContext(ctx, "Failed to upload blob to S3",
			zap.String("key", key),
			zap.Error(err))
		return "", "", models.StorageError{Operation: "upload", Backend: "s3", Reason: err.Error()}
	}

	return key, s.URL(key), nil
}

// Download retrieves a blob by key
func (s *S3Storage) Download(ctx context.Context, key string) ([]byte, error) {
	logger.DebugWithContext(ctx, "Downloading blob from S3",
		zap.String("key", key))

	buf := manager.NewWriteAtBuffer(nil)
	_, err := s.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFoundError(err) {
			return nil, models.NotFoundError{Resource: "blob", ID: key}
		}
		logger.ErrorWithContext(ctx, "Failed to download blob from S3",
			zap.String("key", key),
			zap.Error(err))
		return nil, models.StorageError{Operation: "download", Backend: "s3", Reason: err.Error()}
	}

	return buf.Bytes(), nil
}

// Delete removes a blob; failures are logged and reported as false
func (s *S3Storage) Delete(ctx context.Context, key string) bool {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		logger.WarnWithContext(ctx, "Failed to delete blob from S3",
			zap.String("key", key),
			zap.Error(err))
		return false
	}

	logger.DebugWithContext(ctx, "Blob deleted from S3", zap.String("key", key))
	return true
}

// Exists checks if a blob exists
func (s *S3Storage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFoundError(err) {
			return false, nil
		}
		return false, models.StorageError{Operation: "head", Backend: "s3", Reason: err.Error()}
	}
	return true, nil
}

// URL returns the public URL for a key
func (s *S3Storage) URL(key string) string {
	if s.config.PublicURL != "" {
		return strings.TrimSuffix(s.config.PublicURL, "/") + "/" + key
	}
	if s.config.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(s.config.Endpoint, "/"), s.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.config.Region, key)
}

// Health checks bucket reachability
func (s *S3Storage) Health(ctx context.Context) error {
	_, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return fmt.Errorf("S3 health check failed: %w", err)
	}
	return nil
}

// Helper functions

// generateKey builds `{folder}/{uuid}{ext}` for a new blob
func generateKey(folder, contentType string) string {
	return fmt.Sprintf("%s/%s%s",
		strings.Trim(folder, "/"),
		uuid.New().String(),
		models.ExtensionForContentType(contentType))
}

// createAWSConfig creates AWS configuration with static credentials
func createAWSConfig(cfg *config.S3Config) (aws.Config, error) {
	credProvider := credentials.NewStaticCredentialsProvider(
		cfg.AccessKey,
		cfg.SecretKey,
		"",
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	awsConfig, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credProvider),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return aws.Config{}, err
	}

	return awsConfig, nil
}

// isNotFoundError checks if the error is a "not found" error
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}

	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}

	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}

	return strings.Contains(err.Error(), "404") ||
		strings.Contains(err.Error(), "NoSuchKey") ||
		strings.Contains(err.Error(), "Not Found")
}
