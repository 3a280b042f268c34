// Package sheets defines the outbound spreadsheet-export port and the grid
// layout shared by its adapters.
package sheets

import (
	"context"

	"budgetme/internal/report"
)

// PlanExporter writes a rendered plan to an external spreadsheet target.
type PlanExporter interface {
	ExportPlan(ctx context.Context, r *report.PlanReport) error
}

// GridRows flattens a plan report into spreadsheet rows: header, one row per
// account, totals, then the category roll-up.
func GridRows(r *report.PlanReport) [][]string {
	var rows [][]string

	header := []string{"Account", "Category"}
	for _, m := range r.Months {
		for _, d := range m.Days {
			header = append(header, m.Name+" "+d)
		}
	}
	header = append(header, "Final")
	rows = append(rows, header)

	for _, row := range r.Rows {
		name := row.Account
		if row.Child {
			name = "  " + name
		}
		record := []string{name, row.Category}
		for _, cell := range row.Cells {
			record = append(record, cell.Amount)
		}
		record = append(record, row.Final)
		rows = append(rows, record)
	}

	monthTotals := []string{"Month total", ""}
	runningTotals := []string{"Running", ""}
	for i := range r.Months {
		for d := 0; d < r.DaysOf; d++ {
			if d == 0 && i < len(r.MonthTotals) {
				monthTotals = append(monthTotals, r.MonthTotals[i])
				runningTotals = append(runningTotals, r.RunningTotals[i])
			} else {
				monthTotals = append(monthTotals, "")
				runningTotals = append(runningTotals, "")
			}
		}
	}
	monthTotals = append(monthTotals, r.Final)
	runningTotals = append(runningTotals, "")
	rows = append(rows, monthTotals, runningTotals)

	rows = append(rows, []string{""})
	rows = append(rows, []string{"Category", "Balance"})
	for _, c := range r.Categories {
		rows = append(rows, []string{c.Name, c.Balance})
	}

	return rows
}
