package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name          string
		env           map[string]string
		check         func(t *testing.T, cfg *Config)
		expectedError bool
	}{
		{
			name: "defaults",
			env:  map[string]string{},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "data", cfg.Storage.DataDir)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, int64(50<<20), cfg.MaxUploadSize())
				assert.Equal(t, 100, cfg.RateLimit.RequestsPerMinute)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
			},
		},
		{
			name: "overrides",
			env: map[string]string{
				"DATA_DIR":              "/srv/captions",
				"SERVER_PORT":           "9090",
				"MAX_UPLOAD_SIZE_MB":    "5",
				"RATE_LIMIT_PER_MINUTE": "10",
				"LOG_LEVEL":             "debug",
				"CORS_ALLOWED_ORIGINS":  "https://a.example, https://b.example ,",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/srv/captions", cfg.Storage.DataDir)
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, int64(5<<20), cfg.MaxUploadSize())
				assert.Equal(t, 10, cfg.RateLimit.RequestsPerMinute)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
			},
		},
		{
			name:          "invalid port",
			env:           map[string]string{"SERVER_PORT": "http"},
			expectedError: true,
		},
		{
			name:          "non positive upload size",
			env:           map[string]string{"MAX_UPLOAD_SIZE_MB": "0"},
			expectedError: true,
		},
	}

	keys := []string{"DATA_DIR", "SERVER_PORT", "MAX_UPLOAD_SIZE_MB", "RATE_LIMIT_PER_MINUTE", "LOG_LEVEL", "CORS_ALLOWED_ORIGINS"}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range keys {
				t.Setenv(key, tt.env[key])
			}

			cfg, err := Load()

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestStorageConfig_Paths(t *testing.T) {
	cfg := StorageConfig{DataDir: "base"}

	assert.Equal(t, filepath.Join("base", "uploaded_images"), cfg.UploadedImagesDir())
	assert.Equal(t, filepath.Join("base", "captioned_images"), cfg.CaptionedImagesDir())
	assert.Equal(t, filepath.Join("base", "metadata", "image_metadata.csv"), cfg.UploadedMetadataPath())
	assert.Equal(t, filepath.Join("base", "metadata", "captioned_metadata.csv"), cfg.CaptionedMetadataPath())
}
