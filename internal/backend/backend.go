// Package backend selects the spreadsheet export target from configuration.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"budgetme/internal/config"
	"budgetme/internal/sheets"
	gsheet "budgetme/internal/sheets/google"
	"budgetme/internal/sheets/memory"
)

// ExporterType names an export target.
type ExporterType string

const (
	NoneExporter   ExporterType = "none"
	MemoryExporter ExporterType = "memory"
	GoogleExporter ExporterType = "google"
)

// String implements fmt.Stringer
func (t ExporterType) String() string {
	return string(t)
}

// IsValid returns true if the exporter type is known.
func (t ExporterType) IsValid() bool {
	switch t {
	case NoneExporter, MemoryExporter, GoogleExporter:
		return true
	default:
		return false
	}
}

// ExporterTypes returns all valid exporter types.
func ExporterTypes() []ExporterType {
	return []ExporterType{NoneExporter, MemoryExporter, GoogleExporter}
}

// Result holds the exporter and an optional cleanup function. A nil
// Exporter means exporting is disabled.
type Result struct {
	Exporter sheets.PlanExporter
	Cleanup  func() error
}

// Factory creates plan exporters from application config.
type Factory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// ExporterFromConfig picks the export target: Google Sheets when
// credentials are configured, otherwise the in-process store is available
// on request and "none" disables exporting entirely.
func (f *Factory) ExporterFromConfig(ctx context.Context, t ExporterType, cfg *config.Config) (*Result, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("invalid exporter type: %s", t)
	}

	switch t {
	case NoneExporter:
		f.logger.Info("Plan export disabled")
		return &Result{}, nil

	case MemoryExporter:
		f.logger.Info("Initialized in-process plan exporter")
		return &Result{Exporter: memory.New()}, nil

	case GoogleExporter:
		if !cfg.SheetsEnabled() {
			return nil, fmt.Errorf("google exporter requires spreadsheet ID and credentials")
		}
		cli, err := gsheet.New(ctx, gsheet.Config{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleSheetName,
			CredentialsFile: cfg.GoogleCredentialsFile,
			CredentialsJSON: cfg.GoogleCredentialsJSON,
		})
		if err != nil {
			return nil, fmt.Errorf("initialize Google Sheets exporter: %w", err)
		}
		f.logger.Info("Initialized Google Sheets exporter",
			"spreadsheet_id", cfg.GoogleSpreadsheetID,
			"sheet", cfg.GoogleSheetName)
		return &Result{Exporter: cli}, nil

	default:
		return nil, fmt.Errorf("unsupported exporter type: %s", t)
	}
}
