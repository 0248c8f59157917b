package main

import (
	"context"
	"flag"
	"log"
	"os"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"causelist/pkg/config"
	"causelist/process/sanitize"
)

func main() {
	dryRun := flag.Bool("dry-run", true, "show what would be truncated without doing it")
	yes := flag.Bool("yes", false, "confirm the destructive action")
	tables := flag.String("tables", sanitize.DefaultTables, "comma-separated tables to truncate")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DBDriver != config.DriverPostgres || cfg.DBDSN == "" {
		log.Fatal("DB_DRIVER=postgres and DB_DSN must be set to run sanitize")
	}
	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	gdb, err := gorm.Open(postgres.Open(cfg.DBDSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("connect failed", zap.Error(err))
	}
	opts := sanitize.Options{Tables: sanitize.ParseTables(*tables, logger), DryRun: *dryRun, Yes: *yes}
	if err := sanitize.Run(context.Background(), gdb, opts, os.Stdout, logger); err != nil {
		logger.Fatal("sanitize failed", zap.Error(err))
	}
}
