package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadTestConfig loads the configuration used by tests that touch the filesystem.
// TEST_DATA_DIR selects the dataset directory; when it is unset the returned config has an empty
// DataDir, which lets tests fall back to a temporary directory.
func LoadTestConfig() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist - it's optional)
	_ = godotenv.Load("./../../configs/.env")

	cfg := &Config{}
	cfg.Storage.DataDir = os.Getenv("TEST_DATA_DIR")
	cfg.Server.MaxUploadSizeMiB = 50
	cfg.Logging.Level = "debug"
	cfg.CORS.AllowedOrigins = []string{"*"}
	cfg.RateLimit.RequestsPerMinute = 1000

	return cfg, nil
}
