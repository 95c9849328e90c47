package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/openbooks-app/openbooks_backend/internal/adapters/database/memstore"
	"github.com/openbooks-app/openbooks_backend/internal/core/services"
	"github.com/openbooks-app/openbooks_backend/internal/handlers"
	"github.com/openbooks-app/openbooks_backend/internal/middleware"
	"github.com/openbooks-app/openbooks_backend/internal/platform/config"
)

// @title OpenBooks Backend API
// @version 1.0
// @description Double-entry ledger with derived reports and snapshot persistence.

// @host localhost:8080
// @BasePath /api/v1
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Load the backing file. A corrupt file is unrecoverable at startup;
	// refusing to serve beats running against a silently broken book.
	store, err := memstore.Open(cfg.DataFile)
	if err != nil {
		logger.Error("Failed to open data file", slog.String("path", cfg.DataFile), slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Data file loaded", slog.String("path", cfg.DataFile))

	checkpointer := memstore.NewCheckpointer(store, logger)
	repos := memstore.NewRepositoryProvider(store, checkpointer)
	container := services.NewServiceContainer(repos)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), middleware.Metrics(), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, container)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Periodic checkpoints run for the lifetime of the server
	go checkpointer.Run(ctx, cfg.CheckpointInterval)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}

	// Final checkpoint so nothing accepted before shutdown is lost
	if err := checkpointer.Checkpoint(shutdownCtx); err != nil {
		logger.Error("Final checkpoint failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Shutdown complete")
}
