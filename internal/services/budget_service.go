// Package services orchestrates plan operations across the in-memory budget,
// SQLite persistence and AMQP publishing.
package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"budgetme/internal/amqp"
	"budgetme/internal/core"
	"budgetme/internal/storage"
)

// PlanStore persists plan snapshots and the mutation audit trail.
type PlanStore interface {
	SavePlan(ctx context.Context, name string, snap core.BudgetSnapshot) error
	AppendAudit(ctx context.Context, e storage.AuditEntry) error
}

// CorrectionPublisher publishes correction events for downstream consumers.
type CorrectionPublisher interface {
	PublishCorrection(ctx context.Context, msg *amqp.CorrectionMessage) error
}

// BudgetService serializes access to a single budget plan. Mutations are
// applied in memory first, then persisted; publish failures are logged but
// never fail the request.
type BudgetService struct {
	planName  string
	mu        sync.Mutex
	budget    *core.Budget
	store     PlanStore
	publisher CorrectionPublisher
}

func NewBudgetService(planName string, budget *core.Budget, store PlanStore, publisher CorrectionPublisher) *BudgetService {
	return &BudgetService{
		planName:  planName,
		budget:    budget,
		store:     store,
		publisher: publisher,
	}
}

// PlanName returns the name the plan is stored under.
func (s *BudgetService) PlanName() string {
	return s.planName
}

// WithPlan runs fn with exclusive access to the plan. The budget must not be
// retained past the call.
func (s *BudgetService) WithPlan(fn func(*core.Budget) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.budget)
}

// Snapshot returns a serializable copy of the plan state.
func (s *BudgetService) Snapshot() core.BudgetSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.budget.Snapshot()
}

// CorrectTransaction records the actual amount for a slot and publishes the event.
func (s *BudgetService) CorrectTransaction(ctx context.Context, account string, month, day int, amount core.Money) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.budget.CorrectTransaction(account, month, day, amount); err != nil {
		return fmt.Errorf("correct transaction: %w", err)
	}
	s.budget.RefreshBalances()

	if err := s.persist(ctx, account, amqp.KindCorrect, month, day, amount.Cents); err != nil {
		return err
	}
	s.publish(ctx, amqp.NewCorrectionMessage(s.planName, account, amqp.KindCorrect, month, day, amount.Cents))
	return nil
}

// ConfirmTransaction marks a slot as confirmed at its planned amount.
func (s *BudgetService) ConfirmTransaction(ctx context.Context, account string, month, day int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.budget.ConfirmTransaction(account, month, day); err != nil {
		return fmt.Errorf("confirm transaction: %w", err)
	}

	if err := s.persist(ctx, account, amqp.KindConfirm, month, day, 0); err != nil {
		return err
	}
	s.publish(ctx, amqp.NewCorrectionMessage(s.planName, account, amqp.KindConfirm, month, day, 0))
	return nil
}

// RemoveConfirmTransaction clears the confirmed flag on a slot.
func (s *BudgetService) RemoveConfirmTransaction(ctx context.Context, account string, month, day int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.budget.RemoveConfirmTransaction(account, month, day); err != nil {
		return fmt.Errorf("remove confirm transaction: %w", err)
	}

	if err := s.persist(ctx, account, amqp.KindUnconfirm, month, day, 0); err != nil {
		return err
	}
	s.publish(ctx, amqp.NewCorrectionMessage(s.planName, account, amqp.KindUnconfirm, month, day, 0))
	return nil
}

// TransferToBank posts an account's final balance into its linked bank.
func (s *BudgetService) TransferToBank(ctx context.Context, account, bank string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.budget.TransferToBank(account, bank); err != nil {
		return fmt.Errorf("transfer to bank: %w", err)
	}
	return s.persist(ctx, account, "transfer", 0, 1, 0)
}

// PreventNegativeBalance patches the protection account until no month dips
// below zero.
func (s *BudgetService) PreventNegativeBalance(ctx context.Context, account string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.budget.PreventNegativeBalance(account); err != nil {
		return fmt.Errorf("prevent negative balance: %w", err)
	}
	s.budget.RefreshBalances()
	return s.persist(ctx, account, "prevent_negative", 0, 1, 0)
}

// ApplyCorrection applies a consumed correction message to the plan. Used by
// the worker; it persists but does not re-publish.
func (s *BudgetService) ApplyCorrection(ctx context.Context, msg *amqp.CorrectionMessage) error {
	if msg.Plan != s.planName {
		return fmt.Errorf("message for plan %q, serving %q", msg.Plan, s.planName)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	switch msg.Kind {
	case amqp.KindCorrect:
		err = s.budget.CorrectTransaction(msg.Account, msg.Month, msg.Day, core.Cents(msg.AmountCents))
	case amqp.KindConfirm:
		err = s.budget.ConfirmTransaction(msg.Account, msg.Month, msg.Day)
	case amqp.KindUnconfirm:
		err = s.budget.RemoveConfirmTransaction(msg.Account, msg.Month, msg.Day)
	default:
		return fmt.Errorf("unknown correction kind %q", msg.Kind)
	}
	if err != nil {
		return fmt.Errorf("apply %s: %w", msg.Kind, err)
	}
	s.budget.RefreshBalances()

	return s.persist(ctx, msg.Account, msg.Kind, msg.Month, msg.Day, msg.AmountCents)
}

// persist saves the snapshot and appends the audit entry. Caller holds the lock.
func (s *BudgetService) persist(ctx context.Context, account, operation string, month, day int, amountCents int64) error {
	if s.store == nil {
		return nil
	}

	if err := s.store.SavePlan(ctx, s.planName, s.budget.Snapshot()); err != nil {
		return fmt.Errorf("save plan: %w", err)
	}
	if err := s.store.AppendAudit(ctx, storage.AuditEntry{
		Plan:        s.planName,
		Account:     account,
		Operation:   operation,
		Month:       month,
		Day:         day,
		AmountCents: amountCents,
	}); err != nil {
		// The snapshot is saved; a missing audit row is not worth failing over.
		slog.WarnContext(ctx, "Failed to append audit entry",
			"plan", s.planName, "account", account, "operation", operation, "error", err)
	}
	return nil
}

func (s *BudgetService) publish(ctx context.Context, msg *amqp.CorrectionMessage) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "AMQP publisher not available, skipping correction event")
		return
	}
	if err := s.publisher.PublishCorrection(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish correction event",
			"plan", msg.Plan, "account", msg.Account, "kind", msg.Kind, "error", err)
		// Don't fail the request - the mutation is applied and saved locally.
	}
}

// Close closes the store and publisher when they own resources.
func (s *BudgetService) Close() error {
	var errs []error

	if closer, ok := s.store.(io.Closer); ok && closer != nil {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if closer, ok := s.publisher.(io.Closer); ok && closer != nil {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close budget service: %v", errs)
	}
	return nil
}
