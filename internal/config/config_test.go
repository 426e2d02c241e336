package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	vars := []string{
		"PORT", "GIN_MODE", "DB_DIRECTORY",
		"REDIS_URL", "REDIS_PASSWORD", "REDIS_DB", "REDIS_POOL_SIZE", "REDIS_TIMEOUT",
		"STORAGE_TYPE", "S3_ENDPOINT", "S3_ACCESS_KEY", "S3_SECRET_KEY", "S3_BUCKET", "S3_REGION", "S3_PUBLIC_URL",
		"LOCAL_STORAGE_DIRECTORY", "LOCAL_STORAGE_BASE_URL",
		"MAX_FILE_SIZE", "ALLOWED_EXTENSIONS", "IMAGE_MAX_WIDTH", "IMAGE_MAX_HEIGHT", "BACKGROUND_COLOR",
		"TRANSFORM_CACHE_TTL", "JWT_SECRET", "TOKEN_EXPIRY_MINUTES",
		"RATE_LIMIT_UPLOAD", "RATE_LIMIT_TRANSFORM", "RATE_LIMIT_READ",
		"LOG_LEVEL", "LOG_FORMAT",
		"CORS_ENABLED", "CORS_ALLOW_ALL_ORIGINS", "CORS_ALLOWED_ORIGINS", "CORS_ALLOW_CREDENTIALS",
	}
	for _, v := range vars {
		t.Setenv(v, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "unit-test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, "./data/db", cfg.Database.Directory)
	assert.Equal(t, "redis://localhost:6379", cfg.Redis.URL)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, "./data/blobs", cfg.Local.Directory)
	assert.Equal(t, int64(10485760), cfg.Image.MaxFileSize)
	assert.Equal(t, []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}, cfg.Image.AllowedExtensions)
	assert.Equal(t, 8192, cfg.Image.MaxWidth)
	assert.Equal(t, "#000000", cfg.Image.BackgroundColor)
	assert.Equal(t, 24*time.Hour, cfg.Transform.CacheTTL)
	assert.Equal(t, time.Hour, cfg.Auth.TokenExpiry)
	assert.Equal(t, 10, cfg.RateLimit.Upload)
	assert.Equal(t, 30, cfg.RateLimit.Transform)
	assert.Equal(t, 100, cfg.RateLimit.Read)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "unit-test-secret")
	t.Setenv("PORT", "9090")
	t.Setenv("TRANSFORM_CACHE_TTL", "3600")
	t.Setenv("TOKEN_EXPIRY_MINUTES", "15")
	t.Setenv("ALLOWED_EXTENSIONS", ".png, .gif")
	t.Setenv("RATE_LIMIT_TRANSFORM", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, time.Hour, cfg.Transform.CacheTTL)
	assert.Equal(t, 15*time.Minute, cfg.Auth.TokenExpiry)
	assert.Equal(t, []string{".png", ".gif"}, cfg.Image.AllowedExtensions)
	assert.Equal(t, 5, cfg.RateLimit.Transform)
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_S3RequiresCredentials(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "unit-test-secret")
	t.Setenv("STORAGE_TYPE", "s3")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "S3_BUCKET")

	t.Setenv("S3_BUCKET", "bucket")
	t.Setenv("S3_ACCESS_KEY", "key")
	t.Setenv("S3_SECRET_KEY", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "s3", cfg.Storage.Type)
	assert.Equal(t, "auto", cfg.S3.Region)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:    ServerConfig{Port: "8080", GinMode: "release"},
			Database:  DatabaseConfig{Directory: "./data/db"},
			Storage:   StorageConfig{Type: "local"},
			Local:     LocalStorageConfig{Directory: "./data/blobs"},
			Image:     ImageConfig{MaxFileSize: 1024, MaxWidth: 100, MaxHeight: 100},
			Transform: TransformConfig{CacheTTL: time.Hour},
			Auth:      AuthConfig{JWTSecret: "s", TokenExpiry: time.Hour},
			RateLimit: RateLimitConfig{Upload: 1, Transform: 1, Read: 1},
			Logger:    LoggerConfig{Level: "info", Format: "json"},
		}
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("unknown_storage_type", func(t *testing.T) {
		cfg := base()
		cfg.Storage.Type = "ftp"
		assert.Error(t, cfg.Validate())
	})

	t.Run("non_positive_cache_ttl", func(t *testing.T) {
		cfg := base()
		cfg.Transform.CacheTTL = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("invalid_log_level", func(t *testing.T) {
		cfg := base()
		cfg.Logger.Level = "verbose"
		assert.Error(t, cfg.Validate())
	})

	t.Run("non_positive_rate_limit", func(t *testing.T) {
		cfg := base()
		cfg.RateLimit.Read = 0
		assert.Error(t, cfg.Validate())
	})
}

func TestIsDevelopment(t *testing.T) {
	cfg := &Config{Server: ServerConfig{GinMode: "debug"}, Logger: LoggerConfig{Format: "json"}}
	assert.True(t, cfg.IsDevelopment())

	cfg = &Config{Server: ServerConfig{GinMode: "release"}, Logger: LoggerConfig{Format: "console"}}
	assert.True(t, cfg.IsDevelopment())

	cfg = &Config{Server: ServerConfig{GinMode: "release"}, Logger: LoggerConfig{Format: "json"}}
	assert.False(t, cfg.IsDevelopment())
	assert.True(t, cfg.IsProduction())
}
