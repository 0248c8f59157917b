package main

import (
	"go.uber.org/zap"

	"causelist/pkg/config"
	"causelist/pkg/store"
)

// initStore opens the result cache selected by DB_DRIVER. Postgres schema
// migrations follow DB_AUTO_MIGRATE (default true).
func initStore(cfg config.Config, logger *zap.Logger) (store.Store, error) {
	st, err := store.Open(cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("store opened", zap.String("driver", cfg.DBDriver))
	return st, nil
}

// runMigrate creates the store schema regardless of DB_AUTO_MIGRATE.
func runMigrate(cfg config.Config, logger *zap.Logger) error {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		g, err := store.OpenPostgres(cfg.DBDSN, false, logger)
		if err != nil {
			return err
		}
		defer g.Close()
		return g.Migrate()
	case config.DriverSQLite:
		s, err := store.OpenSQLite(cfg.SQLitePath, logger)
		if err != nil {
			return err
		}
		return s.Close()
	}
	logger.Info("memory store needs no migration")
	return nil
}
