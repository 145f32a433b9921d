// Package storage selects the knowledge base backend named by configuration.
// It is the only package outside internal/infra that imports the backends.
package storage

import (
	"context"
	"fmt"

	"genepri/internal/config"
	"genepri/internal/infra/kb/memory"
	"genepri/internal/infra/kb/postgres"
	"genepri/internal/infra/kb/sqlite"
	"genepri/internal/kb"
)

// Driver names a knowledge base backend.
type Driver string

// Supported drivers.
const (
	DriverMemory   Driver = "memory"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Store is a knowledge base that also accepts bulk loads.
type Store interface {
	kb.KnowledgeBase
	kb.Loader
	Reset(ctx context.Context) error
	Count(ctx context.Context) (kb.Counts, error)
}

// Open returns the backend selected by cfg.Driver. The memory driver is
// seeded from cfg.DatasetDir when set.
func Open(ctx context.Context, cfg config.KB) (Store, error) {
	switch Driver(cfg.Driver) {
	case DriverMemory:
		store := memory.New()
		if cfg.DatasetDir == "" {
			return store, nil
		}
		ds, err := kb.ReadDatasetDir(cfg.DatasetDir)
		if err != nil {
			return nil, fmt.Errorf("read dataset: %w", err)
		}
		if err := store.Load(ctx, ds); err != nil {
			return nil, err
		}
		return store, nil
	case DriverSQLite, "":
		return sqlite.Open(ctx, cfg.SQLitePath)
	case DriverPostgres:
		return postgres.Open(ctx, cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown kb driver %s", cfg.Driver)
	}
}
