package backend

import (
	"context"
	"fmt"
	"log/slog"

	"finbuddy/internal/storage"
	"finbuddy/internal/storage/bolt"
	"finbuddy/internal/storage/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
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
	case MemoryBackend:
		store = memory.New(config.Seed)
		f.logger.InfoContext(ctx, "Initialized memory backend", "seeded_keys", len(config.Seed))
	case SQLiteBackend:
		store, err = storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		f.logger.InfoContext(ctx, "Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	case BoltBackend:
		store, err = bolt.Open(config.BoltDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open bolt database: %w", err)
		}
		f.logger.InfoContext(ctx, "Initialized bolt backend", "db_path", config.BoltDBPath)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	return &BackendResult{
		Store:   store,
		Keys:    storage.NewKeys(config.KeyPrefix),
		Cleanup: store.Close,
	}, nil
}
