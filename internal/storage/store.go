// Package storage persists budget plan snapshots and the mutation audit
// trail in SQLite.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"budgetme/internal/core"

	_ "modernc.org/sqlite"
)

// ErrPlanNotFound is returned when no snapshot exists for the given plan name.
var ErrPlanNotFound = errors.New("plan not found")

// PlanInfo is a summary row for a stored plan.
type PlanInfo struct {
	Name      string
	Year      int
	UpdatedAt time.Time
}

// AuditEntry records a single mutation applied to a plan.
type AuditEntry struct {
	ID          int64
	Plan        string
	Account     string
	Operation   string
	Month       int
	Day         int
	AmountCents int64
	CreatedAt   time.Time
}

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SavePlan upserts the snapshot for the given plan name.
func (s *SQLiteStore) SavePlan(ctx context.Context, name string, snap core.BudgetSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO plans (name, year, snapshot, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET
			year = excluded.year,
			snapshot = excluded.snapshot,
			updated_at = CURRENT_TIMESTAMP`,
		name, snap.Year, string(data))
	if err != nil {
		return fmt.Errorf("save plan: %w", err)
	}

	slog.InfoContext(ctx, "Plan snapshot saved",
		"plan", name,
		"year", snap.Year,
		"bytes", len(data))

	return nil
}

// LoadPlan reads the snapshot for the given plan name.
func (s *SQLiteStore) LoadPlan(ctx context.Context, name string) (core.BudgetSnapshot, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT snapshot FROM plans WHERE name = ?`, name).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return core.BudgetSnapshot{}, fmt.Errorf("%w: %s", ErrPlanNotFound, name)
	}
	if err != nil {
		return core.BudgetSnapshot{}, fmt.Errorf("load plan: %w", err)
	}

	var snap core.BudgetSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return core.BudgetSnapshot{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return snap, nil
}

// ListPlans returns summaries for every stored plan, most recent first.
func (s *SQLiteStore) ListPlans(ctx context.Context) ([]PlanInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, year, updated_at FROM plans ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	var plans []PlanInfo
	for rows.Next() {
		var p PlanInfo
		if err := rows.Scan(&p.Name, &p.Year, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan plan row: %w", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate plan rows: %w", err)
	}
	return plans, nil
}

// DeletePlan removes a stored plan snapshot.
func (s *SQLiteStore) DeletePlan(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM plans WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete plan rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrPlanNotFound, name)
	}
	return nil
}

// AppendAudit records a mutation in the audit trail.
func (s *SQLiteStore) AppendAudit(ctx context.Context, e AuditEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_log (plan, account, operation, month, day, amount_cents)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.Plan, e.Account, e.Operation, e.Month, e.Day, e.AmountCents)
	if err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

// ListAudit returns the most recent audit entries for a plan, newest first.
func (s *SQLiteStore) ListAudit(ctx context.Context, plan string, limit int) ([]AuditEntry, error) {
	if limit < 1 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, plan, account, operation, month, day, amount_cents, created_at
		FROM audit_log WHERE plan = ?
		ORDER BY id DESC LIMIT ?`, plan, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		if err := rows.Scan(&e.ID, &e.Plan, &e.Account, &e.Operation, &e.Month, &e.Day, &e.AmountCents, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit rows: %w", err)
	}
	return entries, nil
}
