package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"api-registry/config"
	"api-registry/internal/api"
	"api-registry/internal/app"
	"api-registry/observability"
	"api-registry/repository"
	"api-registry/services"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		observability.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		observability.Fatal("invalid configuration", "error", err)
	}

	observability.InitLoggerWithLevel(cfg.Log.Production, observability.ParseLevel(cfg.Log.Level))
	observability.InitMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database. The service stays up without one: /health keeps
	// answering and /service-status reports the database as DOWN.
	var repo *repository.Repository
	if cfg.HasDatabase() {
		if err := repository.Migrate(cfg.Database.URL); err != nil {
			observability.Warn("failed to apply migrations", "error", err)
		}

		repo, err = repository.NewRepository(ctx, cfg.Database.URL)
		if err != nil {
			observability.Warn("failed to initialize database, running degraded", "error", err)
			repo = nil
		}
	} else {
		observability.Warn("DATABASE_URL not set, running without database connection")
	}

	var application *app.App
	if repo != nil {
		application = app.New(cfg, repo)
	} else {
		application = app.New(cfg, nil)
	}
	defer application.Shutdown()

	// Health check prober
	var prober *services.Prober
	if repo != nil && cfg.ProbingEnabled() {
		prober = services.NewProber(repo, cfg.Probe)
		prober.Start(ctx)
	}

	handler := api.NewHandler(application, cfg)
	router := api.NewRouter(handler, cfg)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		observability.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		observability.Info("shutdown signal received")
	case err := <-errCh:
		observability.Error("server failed", "error", err)
	}

	if prober != nil {
		prober.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		observability.Error("server shutdown failed", "error", err)
	}
}
