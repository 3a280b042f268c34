package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"budgetme/internal/amqp"
	"budgetme/internal/backend"
	"budgetme/internal/cli"
	apphttp "budgetme/internal/http"
	applog "budgetme/internal/log"
	"budgetme/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentHTTP)
	cfg := cli.LoadAndValidateConfig(logger)

	store := cli.InitStore(logger, cfg.SQLiteDBPath)
	defer store.Close()

	budget, err := cli.LoadOrSeedPlan(context.Background(), store, cfg)
	if err != nil {
		logger.Error("Failed to load plan", "error", err, "plan", cfg.PlanName)
		os.Exit(1)
	}

	// Corrections are published for the worker; the server keeps running
	// without a broker.
	var publisher services.CorrectionPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without publishing", "error", err)
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
			logger.Info("Initialized AMQP client",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	service := services.NewBudgetService(cfg.PlanName, budget, store, publisher)

	opts := []apphttp.Option{apphttp.WithAuditor(store)}
	exporterType := backend.NoneExporter
	if cfg.SheetsEnabled() {
		exporterType = backend.GoogleExporter
	}
	res, err := backend.NewFactory(logger.Logger).ExporterFromConfig(context.Background(), exporterType, cfg)
	if err != nil {
		logger.Error("Failed to initialize plan exporter", "error", err)
		os.Exit(1)
	}
	if res.Exporter != nil {
		opts = append(opts, apphttp.WithExporter(res.Exporter))
	}

	srv := apphttp.NewServer(":"+cfg.Port, service, opts...)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	logger.Info("Starting budgetme server", "port", cfg.Port, "plan", cfg.PlanName)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
