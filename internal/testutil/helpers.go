package testutil

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"time"

	"pixelforge/internal/config"
	"pixelforge/internal/models"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
)

// CreateMultipartRequest creates a multipart form upload request
func CreateMultipartRequest(method, path string, formData map[string]string, fileField, filename string, fileContent []byte) *http.Request {
	var body bytes.Buffer
	boundary := "test-boundary"

	for key, value := range formData {
		body.WriteString("--" + boundary + "\r\n")
		body.WriteString("Content-Disposition: form-data; name=\"" + key + "\"\r\n\r\n")
		body.WriteString(value + "\r\n")
	}

	if fileField != "" && filename != "" {
		body.WriteString("--" + boundary + "\r\n")
		body.WriteString("Content-Disposition: form-data; name=\"" + fileField + "\"; filename=\"" + filename + "\"\r\n")
		body.WriteString("Content-Type: application/octet-stream\r\n\r\n")
		body.Write(fileContent)
		body.WriteString("\r\n")
	}

	body.WriteString("--" + boundary + "--\r\n")

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "multipart/form-data; boundary="+boundary)
	return req
}

// ParseJSONResponse parses a JSON response body into target
func ParseJSONResponse(resp *httptest.ResponseRecorder, target interface{}) error {
	return json.Unmarshal(resp.Body.Bytes(), target)
}

// TestConfig returns a test configuration
func TestConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:    "8080",
			GinMode: "test",
		},
		Database: config.DatabaseConfig{
			Directory: "/tmp/pixelforge-test-db",
		},
		Redis: config.RedisConfig{
			URL:      "redis://localhost:6379",
			DB:       0,
			PoolSize: 10,
			Timeout:  5000,
		},
		Storage: config.StorageConfig{
			Type: "local",
		},
		Local: config.LocalStorageConfig{
			Directory: "/tmp/pixelforge-test-blobs",
			BaseURL:   "http://localhost:8080/files",
		},
		Image: config.ImageConfig{
			MaxFileSize:       10485760, // 10MB
			AllowedExtensions: []string{".jpg", ".jpeg", ".png", ".gif", ".webp"},
			MaxWidth:          4096,
			MaxHeight:         4096,
			BackgroundColor:   "#000000",
		},
		Transform: config.TransformConfig{
			CacheTTL: 24 * time.Hour,
		},
		Auth: config.AuthConfig{
			JWTSecret:   "test-secret-do-not-use-in-production",
			TokenExpiry: time.Hour,
		},
		RateLimit: config.RateLimitConfig{
			Upload:    10,
			Transform: 30,
			Read:      100,
		},
		CORS: config.CORSConfig{
			Enabled:          true,
			AllowAllOrigins:  true,
			AllowedOrigins:   []string{"*"},
			AllowCredentials: false,
		},
		Logger: config.LoggerConfig{
			Level:  "debug",
			Format: "console",
		},
	}
}

// CreateTestUser creates a test user record
func CreateTestUser() *models.User {
	return &models.User{
		ID:       1,
		Username: "tester",
		Email:    "tester@example.com",
		// bcrypt hash of "password123"
		PasswordHash: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
		IsActive:     true,
		CreatedAt:    time.Now().Add(-time.Hour),
	}
}

// CreateTestImage creates a test image record
func CreateTestImage(userID int64) *models.Image {
	return &models.Image{
		ID:          1,
		UserID:      userID,
		Filename:    "test.jpg",
		OriginalKey: "users/1/original/f47ac10b-58cc-4372-a567-0e02b2c3d479.jpg",
		OriginalURL: "http://localhost:8080/files/users/1/original/f47ac10b-58cc-4372-a567-0e02b2c3d479.jpg",
		ContentType: "image/jpeg",
		Size:        102400,
		Width:       640,
		Height:      480,
		Metadata:    map[string]string{"format": "jpeg"},
		CreatedAt:   time.Now().Add(-time.Hour),
	}
}

// CreateTestJPEG encodes a solid-color JPEG of the given dimensions
func CreateTestJPEG(width, height int) []byte {
	img := imaging.New(width, height, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// CreateTestPNG encodes a PNG with a color gradient so that crops of
// different regions produce distinguishable pixels
func CreateTestPNG(width, height int) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{
				R: uint8(x * 255 / width),
				G: uint8(y * 255 / height),
				B: 128,
				A: 255,
			})
		}
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// SetupTestContext creates a test Gin context with request ID
func SetupTestContext(req *http.Request) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set("request_id", "test-request-id")
	return c, w
}
