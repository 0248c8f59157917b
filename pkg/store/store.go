// Package store caches segmentation results by file hash and engine.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"causelist/pkg/config"
	"causelist/pkg/segment"
)

// ErrNotFound is returned by Get when no result is stored under a key.
var ErrNotFound = errors.New("result not found")

// Result is one processed document.
type Result struct {
	Key            string
	FileHash       string
	Engine         string
	Pages          int
	RawText        string
	Cases          *segment.Cases
	ExtractionTime float64 // seconds
	CreatedAt      time.Time
}

// Store persists Results. Put replaces any result with the same key.
type Store interface {
	Get(ctx context.Context, key string) (*Result, error)
	Put(ctx context.Context, r *Result) error
	Close() error
}

// Key is the cache key of a file processed by engine.
func Key(fileHash, engine string) string {
	return fileHash + ":" + engine
}

// Open selects the backend named by cfg.DBDriver.
func Open(cfg config.Config, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.DBDriver {
	case "", config.DriverMemory:
		return NewMemory(), nil
	case config.DriverPostgres:
		g, err := OpenPostgres(cfg.DBDSN, cfg.DBAutoMigrate, logger)
		if err != nil {
			return nil, err
		}
		return g, nil
	case config.DriverSQLite:
		s, err := OpenSQLite(cfg.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
}

func validate(r *Result) error {
	if r == nil || r.Key == "" {
		return errors.New("store: result without key")
	}
	return nil
}
