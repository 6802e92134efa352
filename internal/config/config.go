package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"moneyz/internal/log"
)

// Backend names accepted by MONEYZ_BACKEND.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

var validBackends = []string{BackendJSON, BackendSQLite, BackendMemory}

type Config struct {
	// Storage
	DataDir    string
	Backend    string
	SQLitePath string

	// Ledger cache; CacheSize 0 disables it
	CacheSize int
	CacheTTL  time.Duration

	// Logging
	LogLevel string
}

func Load() *Config {
	dataDir := getEnv("MONEYZ_DATA_DIR", "./data")
	cfg := &Config{
		DataDir:    dataDir,
		Backend:    strings.ToLower(getEnv("MONEYZ_BACKEND", BackendJSON)),
		SQLitePath: getEnv("MONEYZ_SQLITE_PATH", ""),

		CacheSize: getEnvInt("MONEYZ_CACHE_SIZE", 12),
		CacheTTL:  getEnvDuration("MONEYZ_CACHE_TTL", 10*time.Minute),

		LogLevel: getEnv("MONEYZ_LOG_LEVEL", "info"),
	}

	return cfg
}

// WithDataDir points the configuration at dir. An SQLite path that was not
// set explicitly follows the data directory.
func (c *Config) WithDataDir(dir string) *Config {
	if dir == "" {
		return c
	}
	c.DataDir = dir
	return c
}

// DatabasePath returns the SQLite file, defaulting to moneyz.db in the data
// directory.
func (c *Config) DatabasePath() string {
	if c.SQLitePath != "" {
		return c.SQLitePath
	}
	return filepath.Join(c.DataDir, "moneyz.db")
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if c.DataDir == "" {
		errors = append(errors, "data directory cannot be empty")
	} else if info, err := os.Stat(c.DataDir); err == nil && !info.IsDir() {
		errors = append(errors, fmt.Sprintf("data directory '%s' is not a directory", c.DataDir))
	}

	if !slices.Contains(validBackends, c.Backend) {
		errors = append(errors, fmt.Sprintf("invalid backend '%s': must be one of %v", c.Backend, validBackends))
	}

	if c.Backend == BackendSQLite {
		dir := filepath.Dir(c.DatabasePath())
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.CacheSize < 0 {
		errors = append(errors, fmt.Sprintf("invalid cache size %d: must not be negative", c.CacheSize))
	} else if c.CacheSize > 1200 {
		errors = append(errors, fmt.Sprintf("invalid cache size %d: must be at most 1200", c.CacheSize))
	}

	if c.CacheSize > 0 && c.CacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be at least 1 second", c.CacheTTL))
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
