package main

import (
	"context"
	"errors"
	"os"
	"time"

	"budgetme/internal/amqp"
	"budgetme/internal/backend"
	"budgetme/internal/cli"
	applog "budgetme/internal/log"
	"budgetme/internal/services"
	"budgetme/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentWorker)
	logger.Info("Starting budgetme-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the correction worker")
		os.Exit(1)
	}

	store := cli.InitStore(logger, cfg.SQLiteDBPath)
	defer store.Close()

	budget, err := cli.LoadOrSeedPlan(context.Background(), store, cfg)
	if err != nil {
		logger.Error("Failed to load plan", "error", err, "plan", cfg.PlanName)
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	// The worker applies corrections that were already published; it never
	// publishes, so the service runs without a publisher.
	service := services.NewBudgetService(cfg.PlanName, budget, store, nil)

	var opts []worker.Option
	if cfg.SheetsEnabled() {
		res, err := backend.NewFactory(logger.Logger).ExporterFromConfig(
			context.Background(), backend.GoogleExporter, cfg)
		if err != nil {
			logger.Error("Failed to initialize plan exporter", "error", err)
			os.Exit(1)
		}
		opts = append(opts, worker.WithExporter(res.Exporter, 15*time.Minute))
		logger.Info("Periodic plan export enabled",
			"spreadsheet_id", cfg.GoogleSpreadsheetID,
			"sheet", cfg.GoogleSheetName)
	} else {
		logger.Info("Spreadsheet export disabled - no Google credentials provided")
	}

	correctionWorker := worker.NewCorrectionWorker(service, amqpClient, opts...)

	ctx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, nil)

	logger.Info("Consuming corrections",
		"queue", cfg.AMQPQueue,
		"plan", cfg.PlanName)
	if err := correctionWorker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped gracefully")
}
