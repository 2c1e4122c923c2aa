package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

// ApplyEnv overrides cfg from MEMORY_* environment variables.
// Values that do not parse are ignored.
func ApplyEnv(cfg *Config) {
	if raw := os.Getenv("MEMORY_API_URL"); raw != "" {
		cfg.Catalog.BaseURL = raw
	}
	if raw := os.Getenv("MEMORY_PAGE_SIZE"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.Catalog.PageSize = value
		}
	}
	if raw := os.Getenv("MEMORY_MAX_PAGE"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.Catalog.MaxPage = value
		}
	}
	if raw := os.Getenv("MEMORY_SHUFFLE_MS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.Game.ShuffleWindow = time.Duration(value) * time.Millisecond
		}
	}
	if raw := os.Getenv("MEMORY_LOG_LEVEL"); raw != "" {
		cfg.Log.Level = raw
	}
	if raw := os.Getenv("MEMORY_LOG_FILE"); raw != "" {
		cfg.Log.File = raw
	}
}
