package service

import (
	"context"

	"pixelforge/internal/models"
)

// AuthService defines the interface for account and token operations
type AuthService interface {
	// Register creates a new user account
	Register(ctx context.Context, input models.RegisterRequest) (*models.User, error)

	// Login verifies credentials and issues a bearer token
	Login(ctx context.Context, input models.LoginRequest) (*models.TokenResponse, error)

	// VerifyToken validates a bearer token and returns the user ID
	VerifyToken(ctx context.Context, token string) (int64, error)
}

// ImageService defines the interface for image lifecycle operations
type ImageService interface {
	// Upload validates, decodes, stores and records an uploaded image
	Upload(ctx context.Context, userID int64, input UploadInput) (*models.Image, error)

	// Get retrieves an image owned by the user
	Get(ctx context.Context, userID, imageID int64) (*models.Image, error)

	// List retrieves one page of the user's images
	List(ctx context.Context, userID int64, page, limit int) (*models.ImageListResponse, error)

	// Delete removes an image, cascading over its transformations and blobs
	Delete(ctx context.Context, userID, imageID int64) error
}

// TransformService defines the interface for the transformation workflow
type TransformService interface {
	// Transform resolves or computes the result of an operation list
	Transform(ctx context.Context, userID, imageID int64, operations []models.RawOperation) (*models.TransformResponse, error)

	// List retrieves the user's transformations, optionally filtered by image
	List(ctx context.Context, userID int64, imageID *int64) ([]models.TransformationResponse, error)

	// Delete removes a transformation record and best-effort its blob
	Delete(ctx context.Context, userID, transformationID int64) error
}

// PipelineService applies an ordered operation list to raw image bytes
type PipelineService interface {
	// Run threads the image bytes through each operation in order
	Run(ctx context.Context, data []byte, operations []models.RawOperation) ([]byte, error)
}

// ProcessorService defines the codec operations. Each call decodes, applies
// one operation and re-encodes deterministically.
type ProcessorService interface {
	// Info decodes the image and reports dimensions and container format
	Info(data []byte) (*ImageInfo, error)

	// Resize scales the image
	Resize(data []byte, params models.ResizeParams) ([]byte, error)

	// Crop extracts a rectangle
	Crop(data []byte, params models.CropParams) ([]byte, error)

	// Rotate rotates counter-clockwise by degrees
	Rotate(data []byte, params models.RotateParams) ([]byte, error)

	// ConvertFormat re-encodes into a target container
	ConvertFormat(data []byte, params models.FormatParams) ([]byte, error)

	// ApplyFilter applies a named pixel filter
	ApplyFilter(data []byte, params models.FilterParams) ([]byte, error)
}

// HealthService defines the interface for health checking
type HealthService interface {
	// CheckHealth probes the record store, fast cache and blob storage
	CheckHealth(ctx context.Context) *models.HealthResponse
}

// Input/Output Types

// UploadInput represents input for image upload
type UploadInput struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}

// ImageInfo describes decoded image properties
type ImageInfo struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
}
