// Package worker runs the background correction consumer: it drains the
// correction queue into the plan and periodically exports the refreshed
// plan to the configured spreadsheet target.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"budgetme/internal/amqp"
	"budgetme/internal/core"
	"budgetme/internal/report"
	"budgetme/internal/services"
	"budgetme/internal/sheets"
)

// CorrectionConsumer delivers validated correction messages until the
// context is cancelled.
type CorrectionConsumer interface {
	ConsumeCorrections(ctx context.Context, handler func(*amqp.CorrectionMessage) error) error
}

// CorrectionWorker applies queued corrections to the plan.
type CorrectionWorker struct {
	service  *services.BudgetService
	consumer CorrectionConsumer

	exporter       sheets.PlanExporter
	exportInterval time.Duration
}

// Option configures optional worker collaborators.
type Option func(*CorrectionWorker)

// WithExporter enables the periodic spreadsheet export. A non-positive
// interval falls back to 15 minutes.
func WithExporter(e sheets.PlanExporter, interval time.Duration) Option {
	return func(w *CorrectionWorker) {
		w.exporter = e
		if interval <= 0 {
			interval = 15 * time.Minute
		}
		w.exportInterval = interval
	}
}

func NewCorrectionWorker(service *services.BudgetService, consumer CorrectionConsumer, opts ...Option) *CorrectionWorker {
	w := &CorrectionWorker{
		service:  service,
		consumer: consumer,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run consumes corrections until the context is cancelled. With an exporter
// configured it also pushes the plan to the spreadsheet on a fixed interval.
// Run returns ctx.Err() on a clean shutdown.
func (w *CorrectionWorker) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return w.consumer.ConsumeCorrections(ctx, func(msg *amqp.CorrectionMessage) error {
			return w.HandleCorrection(ctx, msg)
		})
	})

	if w.exporter != nil {
		g.Go(func() error {
			return w.exportLoop(ctx)
		})
	}

	return g.Wait()
}

// HandleCorrection applies one correction to the plan. A returned error
// requeues the delivery.
func (w *CorrectionWorker) HandleCorrection(ctx context.Context, msg *amqp.CorrectionMessage) error {
	slog.InfoContext(ctx, "Processing correction",
		"plan", msg.Plan,
		"account", msg.Account,
		"kind", msg.Kind,
		"month", msg.Month,
		"day", msg.Day)

	if err := w.service.ApplyCorrection(ctx, msg); err != nil {
		return fmt.Errorf("apply correction: %w", err)
	}
	return nil
}

func (w *CorrectionWorker) exportLoop(ctx context.Context) error {
	ticker := time.NewTicker(w.exportInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.ExportPlan(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic plan export failed", "error", err)
			}
		}
	}
}

// ExportPlan pushes the current plan state to the spreadsheet target.
func (w *CorrectionWorker) ExportPlan(ctx context.Context) error {
	if w.exporter == nil {
		return nil
	}
	var r *report.PlanReport
	if err := w.service.WithPlan(func(b *core.Budget) error {
		r = report.Build(w.service.PlanName(), b)
		return nil
	}); err != nil {
		return err
	}
	if err := w.exporter.ExportPlan(ctx, r); err != nil {
		return fmt.Errorf("export plan: %w", err)
	}
	slog.InfoContext(ctx, "Exported plan", "plan", r.Title)
	return nil
}
