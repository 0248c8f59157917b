package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"causelist/pkg/config"
	"causelist/pkg/ocr"
	"causelist/pkg/segment"
	"causelist/pkg/store"
	"causelist/process/batch"
)

func main() {
	in := flag.String("in", "./lists", "directory of cause list PDFs or .txt dumps")
	out := flag.String("out", "", "output directory (default: same as -in)")
	engine := flag.String("engine", "tesseract", "engine pipeline: tesseract, azure or paddle")
	workers := flag.Int("workers", 0, "parallel files (default NumCPU)")
	maxPages := flag.Int("max-pages", -1, "page cap per PDF (default from config, 0 = all)")
	watch := flag.Bool("watch", false, "keep running and process new files as they arrive")
	force := flag.Bool("force", false, "reprocess files whose output already exists")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	eng, err := segment.ParseEngine(*engine)
	if err != nil {
		logger.Fatal("bad engine", zap.Error(err))
	}
	if *maxPages < 0 {
		*maxPages = cfg.MaxPages
	}

	// .txt inputs still work when the OCR engine cannot be built
	ex, err := ocr.New(*engine, cfg, logger)
	if err != nil {
		logger.Warn("ocr engine unavailable, only .txt inputs will be processed", zap.Error(err))
		ex = nil
	}

	var st store.Store
	if cfg.DBDriver != config.DriverMemory {
		st, err = store.Open(cfg, logger)
		if err != nil {
			logger.Fatal("store open failed", zap.Error(err))
		}
		defer st.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := batch.New(batch.Options{
		InDir:    *in,
		OutDir:   *out,
		Engine:   eng,
		Workers:  *workers,
		MaxPages: *maxPages,
		Force:    *force,
	}, ex, st, logger)

	sum, err := r.Run(ctx)
	if err != nil && ctx.Err() == nil {
		logger.Fatal("batch failed", zap.Error(err))
	}
	fmt.Printf("processed=%d skipped=%d failed=%d cases=%d\n", sum.Processed, sum.Skipped, sum.Failed, sum.Cases)

	if *watch && ctx.Err() == nil {
		if err := r.Watch(ctx); err != nil {
			logger.Fatal("watch failed", zap.Error(err))
		}
		sum = r.Summary()
		fmt.Printf("processed=%d skipped=%d failed=%d cases=%d\n", sum.Processed, sum.Skipped, sum.Failed, sum.Cases)
	}
}
