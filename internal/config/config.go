// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the route graph core and its tooling.
// Values are populated by Load from environment variables.
type Config struct {
	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// LogFile, when set, sends logs to a size-rotated file instead of stdout.
	LogFile string

	// LogMaxSizeMB is the size in megabytes at which LogFile is rotated. Defaults to 10.
	LogMaxSizeMB int

	// LogMaxBackups is the number of rotated files kept. Defaults to 7.
	LogMaxBackups int

	// ReadRetryAttempts is how many times a read is retried after the store
	// reports it is unavailable. Zero disables retries. Defaults to 3.
	ReadRetryAttempts int

	// ReadRetryBase is the first backoff delay; each retry doubles it.
	// Defaults to 50ms.
	ReadRetryBase time.Duration
}

// Load reads configuration from environment variables and returns a Config.
// A .env file in the working directory is read first when present; variables
// already set in the environment take precedence over it.
// Returns an error listing any required variables that are not set, or the
// first malformed value.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("read .env: %w", err)
	}

	cfg := Config{
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  os.Getenv("LOG_FILE"),
	}

	var err error
	if cfg.LogMaxSizeMB, err = getInt("LOG_MAX_SIZE_MB", 10); err != nil {
		return Config{}, err
	}
	if cfg.LogMaxBackups, err = getInt("LOG_MAX_BACKUPS", 7); err != nil {
		return Config{}, err
	}
	if cfg.ReadRetryAttempts, err = getInt("READ_RETRY_ATTEMPTS", 3); err != nil {
		return Config{}, err
	}
	if cfg.ReadRetryBase, err = getDuration("READ_RETRY_BASE", 50*time.Millisecond); err != nil {
		return Config{}, err
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getInt parses a non-negative integer variable.
func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer, got %q", key, v)
	}
	return n, nil
}

// getDuration parses a positive Go duration such as "250ms".
func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, v)
	}
	return d, nil
}
