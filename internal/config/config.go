// Package config provides configuration for the application
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Logging   LoggingConfig
	CORS      CORSConfig
	Storage   StorageConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port             int
	MaxUploadSizeMiB int64
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// StorageConfig holds the base directory of the dataset.
// Every other path is a fixed location below it.
type StorageConfig struct {
	DataDir string
}

// RateLimitConfig holds per-IP request limits
type RateLimitConfig struct {
	RequestsPerMinute int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	godotenv.Load()

	cfg := &Config{}

	// Storage configuration
	cfg.Storage.DataDir = os.Getenv("DATA_DIR")
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = "data" // default directory
	}

	// Server configuration
	serverPort, err := intFromEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	cfg.Server.Port = serverPort

	maxUpload, err := intFromEnv("MAX_UPLOAD_SIZE_MB", 50)
	if err != nil {
		return nil, err
	}
	if maxUpload <= 0 {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_SIZE_MB: must be positive")
	}
	cfg.Server.MaxUploadSizeMiB = int64(maxUpload)

	// Rate limit configuration
	rate, err := intFromEnv("RATE_LIMIT_PER_MINUTE", 100)
	if err != nil {
		return nil, err
	}
	cfg.RateLimit.RequestsPerMinute = rate

	// Logging configuration
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info" // default level
	}
	cfg.Logging.Level = logLevel

	// CORS configuration
	cfg.CORS.AllowedOrigins = parseOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"))

	return cfg, nil
}

// MaxUploadSize returns the request body limit in bytes
func (c *Config) MaxUploadSize() int64 {
	return c.Server.MaxUploadSizeMiB << 20
}

// UploadedImagesDir returns the folder of uploaded images
func (c *StorageConfig) UploadedImagesDir() string {
	return filepath.Join(c.DataDir, "uploaded_images")
}

// CaptionedImagesDir returns the folder of captioned images
func (c *StorageConfig) CaptionedImagesDir() string {
	return filepath.Join(c.DataDir, "captioned_images")
}

// UploadedMetadataPath returns the metadata table of uploaded images
func (c *StorageConfig) UploadedMetadataPath() string {
	return filepath.Join(c.DataDir, "metadata", "image_metadata.csv")
}

// CaptionedMetadataPath returns the metadata table of captioned images
func (c *StorageConfig) CaptionedMetadataPath() string {
	return filepath.Join(c.DataDir, "metadata", "captioned_metadata.csv")
}

func intFromEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

// parseOrigins splits a comma-separated origin list; an empty list allows all origins
func parseOrigins(raw string) []string {
	if raw == "" {
		// Default to allow all origins if not specified (for development)
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, origin := range parts {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
