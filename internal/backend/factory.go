package backend

import (
	"context"
	"fmt"

	"moneyz/internal/log"
	"moneyz/internal/storage"
	"moneyz/internal/storage/cached"
	"moneyz/internal/storage/jsonfile"
	"moneyz/internal/storage/memory"
	"moneyz/internal/storage/sqlite"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		store storage.Store
		err   error
	)
	switch config.Type {
	case JSONBackend:
		store, err = f.createJSONBackend(ctx, config)
	case SQLiteBackend:
		store, err = f.createSQLiteBackend(ctx, config)
	case MemoryBackend:
		store, err = f.createMemoryBackend(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	if config.CacheSize > 0 {
		store = cached.New(store, config.CacheSize, config.CacheTTL, f.logger)
		f.logger.DebugContext(ctx, "Ledger cache enabled", "size", config.CacheSize, "ttl", config.CacheTTL)
	}

	return &BackendResult{
		Backend: store,
		Cleanup: store.Close,
	}, nil
}

func (f *DefaultFactory) createJSONBackend(ctx context.Context, config Config) (storage.Store, error) {
	store, err := jsonfile.New(config.DataDirectory, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JSON file store: %w", err)
	}
	f.logger.InfoContext(ctx, "Initialized JSON file backend", log.FieldPath, config.DataDirectory)
	return store, nil
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (storage.Store, error) {
	repo, err := sqlite.NewRepository(config.SQLiteDBPath, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}
	f.logger.InfoContext(ctx, "Initialized SQLite backend", log.FieldPath, config.SQLiteDBPath)
	return repo, nil
}

func (f *DefaultFactory) createMemoryBackend(ctx context.Context, config Config) (storage.Store, error) {
	dataDir := config.DataDirectory
	if dataDir == "" {
		dataDir = "data"
	}
	store := memory.NewFromFiles(dataDir)
	f.logger.InfoContext(ctx, "Initialized memory backend", "data_directory", dataDir)
	return store, nil
}
