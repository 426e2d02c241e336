package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Storage   StorageConfig
	S3        S3Config
	Local     LocalStorageConfig
	Image     ImageConfig
	Transform TransformConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Logger    LoggerConfig
	CORS      CORSConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port    string
	GinMode string
}

// DatabaseConfig holds the durable record store configuration (BadgerDB)
type DatabaseConfig struct {
	Directory string
}

// RedisConfig holds the fast cache configuration
type RedisConfig struct {
	URL      string
	Password string
	DB       int
	PoolSize int
	Timeout  time.Duration
}

// StorageConfig selects the blob storage backend
type StorageConfig struct {
	Type string // "s3" or "local"
}

// S3Config holds S3/R2 storage configuration
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	PublicURL string // base URL blobs are served from
}

// LocalStorageConfig holds filesystem storage configuration (development)
type LocalStorageConfig struct {
	Directory string
	BaseURL   string
}

// ImageConfig holds upload validation and processing limits
type ImageConfig struct {
	MaxFileSize       int64
	AllowedExtensions []string
	MaxWidth          int
	MaxHeight         int
	BackgroundColor   string // hex, fills rotate-expand corners
}

// TransformConfig holds transformation result caching configuration
type TransformConfig struct {
	CacheTTL time.Duration
}

// AuthConfig holds token issuing configuration
type AuthConfig struct {
	JWTSecret   string
	TokenExpiry time.Duration
}

// RateLimitConfig holds rate limiting configuration (requests per minute)
type RateLimitConfig struct {
	Upload    int
	Transform int
	Read      int
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level  string // "debug", "info", "warn", "error"
	Format string // "json", "console"
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	Enabled          bool
	AllowAllOrigins  bool
	AllowedOrigins   []string
	AllowCredentials bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for development)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "release"),
		},
		Database: DatabaseConfig{
			Directory: getEnv("DB_DIRECTORY", "./data/db"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			PoolSize: getEnvInt("REDIS_POOL_SIZE", 10),
			Timeout:  time.Duration(getEnvInt("REDIS_TIMEOUT", 5)) * time.Second,
		},
		Storage: StorageConfig{
			Type: getEnv("STORAGE_TYPE", "local"),
		},
		S3: S3Config{
			Endpoint:  getEnv("S3_ENDPOINT", ""),
			AccessKey: getEnv("S3_ACCESS_KEY", ""),
			SecretKey: getEnv("S3_SECRET_KEY", ""),
			Bucket:    getEnv("S3_BUCKET", ""),
			Region:    getEnv("S3_REGION", "auto"),
			PublicURL: getEnv("S3_PUBLIC_URL", ""),
		},
		Local: LocalStorageConfig{
			Directory: getEnv("LOCAL_STORAGE_DIRECTORY", "./data/blobs"),
			BaseURL:   getEnv("LOCAL_STORAGE_BASE_URL", "http://localhost:8080/files"),
		},
		Image: ImageConfig{
			MaxFileSize:       int64(getEnvInt("MAX_FILE_SIZE", 10485760)), // 10MB default
			AllowedExtensions: getEnvStringSlice("ALLOWED_EXTENSIONS", []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}),
			MaxWidth:          getEnvInt("IMAGE_MAX_WIDTH", 8192),
			MaxHeight:         getEnvInt("IMAGE_MAX_HEIGHT", 8192),
			BackgroundColor:   getEnv("BACKGROUND_COLOR", "#000000"),
		},
		Transform: TransformConfig{
			CacheTTL: time.Duration(getEnvInt("TRANSFORM_CACHE_TTL", 86400)) * time.Second,
		},
		Auth: AuthConfig{
			JWTSecret:   getEnv("JWT_SECRET", ""),
			TokenExpiry: time.Duration(getEnvInt("TOKEN_EXPIRY_MINUTES", 60)) * time.Minute,
		},
		RateLimit: RateLimitConfig{
			Upload:    getEnvInt("RATE_LIMIT_UPLOAD", 10),
			Transform: getEnvInt("RATE_LIMIT_TRANSFORM", 30),
			Read:      getEnvInt("RATE_LIMIT_READ", 100),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		CORS: CORSConfig{
			Enabled:          getEnvBool("CORS_ENABLED", true),
			AllowAllOrigins:  getEnvBool("CORS_ALLOW_ALL_ORIGINS", false),
			AllowedOrigins:   getEnvStringSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowCredentials: getEnvBool("CORS_ALLOW_CREDENTIALS", false),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	if c.Database.Directory == "" {
		return fmt.Errorf("DB_DIRECTORY cannot be empty")
	}

	validStorageTypes := []string{"s3", "local"}
	if !contains(validStorageTypes, c.Storage.Type) {
		return fmt.Errorf("STORAGE_TYPE must be one of: %s", strings.Join(validStorageTypes, ", "))
	}

	if c.Storage.Type == "s3" {
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when STORAGE_TYPE=s3")
		}
		if c.S3.AccessKey == "" {
			return fmt.Errorf("S3_ACCESS_KEY is required when STORAGE_TYPE=s3")
		}
		if c.S3.SecretKey == "" {
			return fmt.Errorf("S3_SECRET_KEY is required when STORAGE_TYPE=s3")
		}
	}

	if c.Storage.Type == "local" && c.Local.Directory == "" {
		return fmt.Errorf("LOCAL_STORAGE_DIRECTORY is required when STORAGE_TYPE=local")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Auth.TokenExpiry <= 0 {
		return fmt.Errorf("TOKEN_EXPIRY_MINUTES must be positive")
	}

	if c.Image.MaxFileSize <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE must be positive")
	}
	if c.Image.MaxWidth <= 0 || c.Image.MaxHeight <= 0 {
		return fmt.Errorf("IMAGE_MAX_WIDTH and IMAGE_MAX_HEIGHT must be positive")
	}

	if c.Transform.CacheTTL <= 0 {
		return fmt.Errorf("TRANSFORM_CACHE_TTL must be positive")
	}

	if c.RateLimit.Upload <= 0 || c.RateLimit.Transform <= 0 || c.RateLimit.Read <= 0 {
		return fmt.Errorf("rate limits must be positive integers")
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.Logger.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of: %s", strings.Join(validLogLevels, ", "))
	}

	validLogFormats := []string{"json", "console"}
	if !contains(validLogFormats, c.Logger.Format) {
		return fmt.Errorf("LOG_FORMAT must be one of: %s", strings.Join(validLogFormats, ", "))
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.GinMode == "debug" || c.Logger.Format == "console"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.GinMode == "release" && c.Logger.Format == "json"
}

// Helper functions for environment variable parsing

// getEnv returns environment variable value or default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns environment variable as integer or default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool returns environment variable as boolean or default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvStringSlice returns environment variable as string slice or default
func getEnvStringSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}

// contains checks if slice contains value
func contains(slice []string, value string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}
