package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"causelist/pkg/config"
	"causelist/pkg/mcptool"
	"causelist/pkg/ocr"
)

// Serves the segmentation tools over stdio. Logs go to stderr so stdout
// stays a clean protocol stream.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	srv := mcp.NewServer(&mcp.Implementation{Name: "causelist", Version: "0.1.0"}, nil)
	tools := &mcptool.Tools{
		NewExtractor: func(engine string) (ocr.Extractor, error) { return ocr.New(engine, cfg, logger) },
		MaxPages:     cfg.MaxPages,
		Logger:       logger,
	}
	tools.Register(srv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		logger.Fatal("mcp server stopped", zap.Error(err))
	}
}
