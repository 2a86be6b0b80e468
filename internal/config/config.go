// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the server configuration.
type Config struct {
	// DBPath is the SQLite database file path.
	DBPath string

	// Port is the HTTP listen port.
	Port string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// PaidCacheTTL bounds the staleness of cached paid amounts.
	PaidCacheTTL time.Duration
}

// Load reads configuration from the environment, after loading a .env file
// if one is present. Unset variables fall back to defaults.
func Load() (*Config, error) {
	// A missing .env file is fine; the environment alone is enough.
	_ = godotenv.Load()

	cfg := &Config{
		DBPath:       getenv("DB_PATH", "data/billsplit.db"),
		Port:         getenv("PORT", "8080"),
		LogLevel:     getenv("LOG_LEVEL", "info"),
		PaidCacheTTL: time.Minute,
	}

	if raw := os.Getenv("PAID_CACHE_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid PAID_CACHE_TTL %q: %w", raw, err)
		}
		if ttl <= 0 {
			return nil, fmt.Errorf("PAID_CACHE_TTL must be positive, got %q", raw)
		}
		cfg.PaidCacheTTL = ttl
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
