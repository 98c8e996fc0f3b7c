package db

import (
	"context"
	"fmt"
	"log/slog"

	"fieldops/internal/config"
	"fieldops/internal/core"
	"fieldops/internal/storage/memory"
	"fieldops/internal/storage/postgres"
	"fieldops/internal/storage/sqlite"
)

// OpenStore returns the repository selected by cfg.StoreDriver together with
// a function that releases it.
func OpenStore(ctx context.Context, cfg *config.Config) (core.Repository, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		slog.Info("store opened", "driver", cfg.StoreDriver)
		return postgres.New(pool), pool.Close, nil

	case config.DriverSQLite:
		store, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("store opened", "driver", cfg.StoreDriver, "path", cfg.SQLitePath)
		return store, func() {
			if err := store.Close(); err != nil {
				slog.Warn("closing sqlite store", "error", err)
			}
		}, nil

	case config.DriverMemory, "":
		slog.Info("store opened", "driver", config.DriverMemory)
		return memory.New(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
