// Package cli provides the startup steps of the moneyz command: environment,
// logging, configuration, settings and the storage backend.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"moneyz/internal/backend"
	"moneyz/internal/config"
	"moneyz/internal/i18n"
	"moneyz/internal/log"
)

// LoadEnvFile loads .env from the working directory for local use. A missing
// file is not an error.
func LoadEnvFile() error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// SetupLogger builds the application logger at level and makes it the slog
// default.
func SetupLogger(level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := log.DefaultConfig()
	cfg.Level = lvl
	cfg.Component = log.ComponentCLI
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger, nil
}

// LoadAndValidateConfig reads the environment, applies dataDir when set, and
// validates the result.
func LoadAndValidateConfig(dataDir string) (*config.Config, error) {
	cfg := config.Load().WithDataDir(dataDir)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadLocale reads settings.toml from the data directory and returns the
// configured language.
func LoadLocale(logger *log.Logger, cfg *config.Config) *i18n.Locale {
	settings, err := config.LoadSettings(cfg.DataDir)
	if err != nil {
		logger.Warn("Failed to load settings, using the default language",
			log.FieldPath, config.SettingsPath(cfg.DataDir),
			log.FieldError, err)
		return i18n.Default()
	}
	loc, err := i18n.Lookup(settings.Language)
	if err != nil {
		return i18n.Default()
	}
	return loc
}

// OpenBackend creates the storage backend described by cfg.
func OpenBackend(ctx context.Context, logger *log.Logger, cfg *config.Config) (*backend.BackendResult, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		logger.Error("Failed to initialize backend",
			log.FieldBackend, cfg.Backend,
			log.FieldError, err)
		return nil, err
	}
	return res, nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM, so an
// interrupted command stops before its next write.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
