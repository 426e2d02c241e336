package models

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"
)

// Image represents an uploaded original image and its blob location.
type Image struct {
	ID          int64             `json:"id"`
	UserID      int64             `json:"user_id"`
	Filename    string            `json:"filename"`
	OriginalKey string            `json:"original_key"`
	OriginalURL string            `json:"original_url"`
	ContentType string            `json:"content_type"`
	Size        int64             `json:"size"`
	Width       int               `json:"width"`
	Height      int               `json:"height"`
	Metadata    map[string]string `json:"metadata"`
	CreatedAt   time.Time         `json:"created_at"`
}

// ImageListResponse is the paginated listing payload.
type ImageListResponse struct {
	Images []*Image `json:"images"`
	Total  int      `json:"total"`
	Page   int      `json:"page"`
	Limit  int      `json:"limit"`
}

// TransformRequest is the transform endpoint payload.
type TransformRequest struct {
	Operations []RawOperation `json:"operations" binding:"required"`
}

// TransformResponse is returned by the transform endpoint and is also the
// value cached in the fast cache.
type TransformResponse struct {
	URL              string `json:"url"`
	TransformationID int64  `json:"transformation_id"`
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

// HealthResponse reports overall and per-dependency health.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// AllowedExtensions are the upload file extensions accepted by default.
var AllowedExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// ValidateUploadFilename checks the extension against the allow-list.
func ValidateUploadFilename(filename string, allowed []string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return ValidationError{Field: "file", Message: "filename has no extension"}
	}
	for _, a := range allowed {
		if ext == a {
			return nil
		}
	}
	return ValidationError{
		Field:   "file",
		Message: fmt.Sprintf("extension %s not allowed (allowed: %s)", ext, strings.Join(allowed, ", ")),
	}
}

// ContentTypeForFormat maps a normalized decode format to its MIME type.
func ContentTypeForFormat(format string) string {
	switch strings.ToLower(format) {
	case "jpeg", "jpg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		if ct := mime.TypeByExtension("." + strings.ToLower(format)); ct != "" {
			return ct
		}
		return "application/octet-stream"
	}
}

// ExtensionForContentType maps a MIME type to the blob key extension.
func ExtensionForContentType(contentType string) string {
	switch strings.ToLower(contentType) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".bin"
	}
}
