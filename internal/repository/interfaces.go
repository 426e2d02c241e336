package repository

import (
	"context"
	"time"

	"pixelforge/internal/models"
)

// UserRepository defines durable operations over user records
type UserRepository interface {
	// CreateUser persists a new user, assigning its ID.
	// Fails with ConflictError when username or email is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUser retrieves a user by ID
	GetUser(ctx context.Context, id int64) (*models.User, error)

	// GetUserByUsername retrieves a user by unique username
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByEmail retrieves a user by unique email
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// ImageRepository defines durable operations over image records
type ImageRepository interface {
	// CreateImage persists a new image record, assigning its ID
	CreateImage(ctx context.Context, img *models.Image) error

	// GetImage retrieves an image by ID
	GetImage(ctx context.Context, id int64) (*models.Image, error)

	// ListImages retrieves a page of a user's images, newest first,
	// plus the total count
	ListImages(ctx context.Context, userID int64, offset, limit int) ([]*models.Image, int, error)

	// DeleteImage removes an image record and its indexes
	DeleteImage(ctx context.Context, id int64) error
}

// TransformationRepository defines durable operations over transformation records
type TransformationRepository interface {
	// CreateTransformation persists a new transformation record, assigning
	// its ID and updating the parameter-fingerprint index
	CreateTransformation(ctx context.Context, t *models.Transformation) error

	// GetTransformation retrieves a transformation by ID
	GetTransformation(ctx context.Context, id int64) (*models.Transformation, error)

	// FindTransformationByParams looks up an existing record for the exact
	// canonical parameter string of an image. Returns NotFoundError on miss.
	FindTransformationByParams(ctx context.Context, imageID int64, params string) (*models.Transformation, error)

	// ListTransformationsByImage retrieves all transformations of one image,
	// newest first
	ListTransformationsByImage(ctx context.Context, imageID int64) ([]*models.Transformation, error)

	// DeleteTransformation removes a transformation record and its indexes
	DeleteTransformation(ctx context.Context, id int64) error
}

// RecordStore is the authoritative persistence layer
type RecordStore interface {
	UserRepository
	ImageRepository
	TransformationRepository

	// Health checks store health
	Health(ctx context.Context) error

	// Close releases sequences and closes the store
	Close() error
}

// Cache is the ephemeral TTL-bound accelerator in front of the record store.
// Implementations absorb every backend failure: Get degrades to a miss and
// Set/Delete to no-ops, so callers never branch on cache errors.
type Cache interface {
	// Get retrieves a cached value; ok is false on miss or backend failure
	Get(ctx context.Context, key string) (value string, ok bool)

	// Set stores a JSON-serializable value with TTL
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration)

	// Delete removes a cached value
	Delete(ctx context.Context, key string)

	// Health checks cache health (a degraded cache is reported, not fatal)
	Health(ctx context.Context) error

	// Close closes the cache connection
	Close() error
}
