package report

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV writes the plan grid as CSV: one header row, one row per account,
// then month and running totals, a blank row and the category roll-up.
func WriteCSV(w io.Writer, r *PlanReport) error {
	cw := csv.NewWriter(w)

	header := []string{"Account", "Category"}
	for _, m := range r.Months {
		for _, d := range m.Days {
			header = append(header, m.Name+" "+d)
		}
	}
	header = append(header, "Final")
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

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
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	if err := writeTotals(cw, r, "Month total", r.MonthTotals, r.Final); err != nil {
		return err
	}
	if err := writeTotals(cw, r, "Running", r.RunningTotals, ""); err != nil {
		return err
	}

	if err := cw.Write([]string{""}); err != nil {
		return fmt.Errorf("write csv separator: %w", err)
	}
	if err := cw.Write([]string{"Category", "Balance"}); err != nil {
		return fmt.Errorf("write csv category header: %w", err)
	}
	for _, c := range r.Categories {
		if err := cw.Write([]string{c.Name, c.Balance}); err != nil {
			return fmt.Errorf("write csv category row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// writeTotals spreads one value per month across that month's day columns.
func writeTotals(cw *csv.Writer, r *PlanReport, label string, values []string, final string) error {
	record := []string{label, ""}
	for i := range r.Months {
		value := ""
		if i < len(values) {
			value = values[i]
		}
		for d := 0; d < r.DaysOf; d++ {
			if d == 0 {
				record = append(record, value)
			} else {
				record = append(record, "")
			}
		}
	}
	record = append(record, final)
	if err := cw.Write(record); err != nil {
		return fmt.Errorf("write csv totals row: %w", err)
	}
	return nil
}
