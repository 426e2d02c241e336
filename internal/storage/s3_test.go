package storage

import (
	"errors"
	"strings"
	"testing"

	"pixelforge/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestS3Storage_URL(t *testing.T) {
	tests := []struct {
		name     string
		config   config.S3Config
		key      string
		expected string
	}{
		{
			name: "public_url_takes_precedence",
			config: config.S3Config{
				PublicURL: "https://cdn.example.com/",
				Endpoint:  "https://minio.internal:9000",
				Bucket:    "blobs",
			},
			key:      "users/1/original/a.jpg",
			expected: "https://cdn.example.com/users/1/original/a.jpg",
		},
		{
			name: "custom_endpoint_uses_path_style",
			config: config.S3Config{
				Endpoint: "https://minio.internal:9000/",
				Bucket:   "blobs",
			},
			key:      "users/1/original/a.jpg",
			expected: "https://minio.internal:9000/blobs/users/1/original/a.jpg",
		},
		{
			name: "aws_default",
			config: config.S3Config{
				Bucket: "blobs",
				Region: "eu-west-1",
			},
			key:      "users/1/original/a.jpg",
			expected: "https://blobs.s3.eu-west-1.amazonaws.com/users/1/original/a.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &S3Storage{config: &tt.config, bucket: tt.config.Bucket}
			assert.Equal(t, tt.expected, s.URL(tt.key))
		})
	}
}

func TestGenerateKey(t *testing.T) {
	key := generateKey("users/3/transformed", "image/png")

	assert.True(t, strings.HasPrefix(key, "users/3/transformed/"), key)
	assert.True(t, strings.HasSuffix(key, ".png"), key)

	// Surrounding slashes in the folder are trimmed.
	key = generateKey("/f/", "image/jpeg")
	assert.True(t, strings.HasPrefix(key, "f/"), key)

	// Keys are unique per call.
	assert.NotEqual(t, generateKey("f", "image/jpeg"), generateKey("f", "image/jpeg"))
}

func TestIsNotFoundError(t *testing.T) {
	assert.False(t, isNotFoundError(nil))
	assert.False(t, isNotFoundError(errors.New("connection refused")))
	assert.True(t, isNotFoundError(errors.New("operation error S3: GetObject, https response error StatusCode: 404")))
	assert.True(t, isNotFoundError(errors.New("NoSuchKey: the specified key does not exist")))
}
