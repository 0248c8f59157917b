package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"causelist/pkg/config"
)

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

	// `./causelist migrate` prepares the configured store and exits.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := runMigrate(cfg, logger); err != nil {
			logger.Fatal("migration failed", zap.Error(err))
		}
		fmt.Println("migration completed")
		return
	}

	st, err := initStore(cfg, logger)
	if err != nil {
		logger.Fatal("store", zap.Error(err))
	}
	defer st.Close()

	srv := newServer(cfg, st, logger)
	r := gin.Default()
	r.MaxMultipartMemory = int64(cfg.MaxUploadMB) << 20
	setupRoutes(r, srv)

	httpSrv := &http.Server{Addr: cfg.Addr, Handler: r}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	logger.Info("listening", zap.String("addr", cfg.Addr), zap.String("store", cfg.DBDriver), zap.Bool("auth", cfg.JWTSecret != ""))
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("serve", zap.Error(err))
	}
}
