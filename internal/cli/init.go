// Package cli provides common initialization shared by the server, worker
// and reporting commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"budgetme/internal/config"
	"budgetme/internal/core"
	applog "budgetme/internal/log"
	"budgetme/internal/storage"
)

// SetupLogger initializes component-tagged structured logging and installs
// it as the process default.
func SetupLogger(component string) *applog.Logger {
	cfg := applog.DefaultConfig()
	cfg.Component = component
	logger := applog.New(cfg)
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// InitStore opens the SQLite plan store, running migrations.
// Returns the store or exits the process on failure.
func InitStore(logger *applog.Logger, dbPath string) *storage.SQLiteStore {
	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		logger.Error("Failed to initialize plan store", "error", err, "path", dbPath)
		os.Exit(1)
	}
	return store
}

// LoadOrSeedPlan restores the configured plan from the store, or seeds an
// empty plan from the configuration when none has been saved yet.
func LoadOrSeedPlan(ctx context.Context, store *storage.SQLiteStore, cfg *config.Config) (*core.Budget, error) {
	snap, err := store.LoadPlan(ctx, cfg.PlanName)
	if err == nil {
		return core.FromSnapshot(snap), nil
	}
	if !errors.Is(err, storage.ErrPlanNotFound) {
		return nil, fmt.Errorf("load plan %q: %w", cfg.PlanName, err)
	}

	b := core.NewBudgetRange(cfg.PlanYear, cfg.PlanDaysOf, cfg.PlanStart, cfg.PlanEnd)
	b.StrictStart = cfg.PlanStrictStart
	for i, label := range cfg.PlanDayLabels {
		if i < len(b.DayLabels) {
			b.DayLabels[i] = label
		}
	}

	if err := store.SavePlan(ctx, cfg.PlanName, b.Snapshot()); err != nil {
		return nil, fmt.Errorf("seed plan %q: %w", cfg.PlanName, err)
	}
	return b, nil
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that signals when shutdown is complete.
func GracefulShutdown(logger *applog.Logger, timeout time.Duration, cleanup func()) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		if cleanup != nil {
			cleanup()
		}

		cancel()

		select {
		case <-shutdownCtx.Done():
			logger.Warn("Shutdown timeout reached")
		case <-time.After(2 * time.Second):
			logger.Info("Shutdown complete")
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
