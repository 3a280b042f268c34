// Package memory is an in-process plan exporter used in tests and when no
// spreadsheet target is configured.
package memory

import (
	"context"
	"sync"

	"budgetme/internal/report"
	ports "budgetme/internal/sheets"
)

type Store struct {
	mu      sync.Mutex
	exports map[string][][]string
}

var _ ports.PlanExporter = (*Store)(nil)

func New() *Store {
	return &Store{exports: make(map[string][][]string)}
}

// ExportPlan stores the flattened grid under the plan title, replacing any
// previous export.
func (s *Store) ExportPlan(_ context.Context, r *report.PlanReport) error {
	rows := ports.GridRows(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exports[r.Title] = rows
	return nil
}

// Exported returns the last exported grid for a title.
func (s *Store) Exported(title string) ([][]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, ok := s.exports[title]
	if !ok {
		return nil, false
	}
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out, true
}
