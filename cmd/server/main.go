package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/extblend/internal/config"
	"github.com/JonMunkholm/extblend/internal/core"
	"github.com/JonMunkholm/extblend/internal/logging"
	"github.com/JonMunkholm/extblend/internal/metrics"
	"github.com/JonMunkholm/extblend/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	rules := cfg.Pipeline.Rules()
	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"max_concurrent_runs", cfg.Upload.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
		"horizon_days", rules.HorizonDays,
		"year_cutoff", rules.YearCutoff,
		"customers", rules.Customers.Len(),
	)
	slog.Debug("configuration", "config", cfg.String())

	runs := core.NewRunLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime)
	server := web.NewServer(cfg, runs, metrics.NewRegistry(runs))

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if active := runs.ActiveCount(); active > 0 {
			slog.Info("waiting for runs to complete", "active", active)
		}
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	<-done
	slog.Info("server stopped")
}
