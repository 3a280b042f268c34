// Package report renders a budget plan as an HTML dashboard page and a CSV
// grid for spreadsheet import.
package report

import (
	"strconv"
	"time"

	"budgetme/internal/core"
)

// Cell is one transaction slot in the rendered grid.
type Cell struct {
	Amount    string
	Confirmed bool
	Zero      bool
	Negative  bool
}

// Row is one account line across the whole horizon.
type Row struct {
	Account       string
	Category      string
	Child         bool
	Cells         []Cell // month-major, DaysOf cells per month
	Final         string
	FinalNegative bool
}

// Month is one column group header.
type Month struct {
	Name string
	Days []string
}

// CategoryRow aggregates one category with parent/child roll-up applied.
type CategoryRow struct {
	Name     string
	Balance  string
	Negative bool
}

// NegativeRow flags a month whose running balance dips below zero.
type NegativeRow struct {
	Month   string
	Balance string
}

// PlanReport is the full render model for one plan.
type PlanReport struct {
	Title  string
	Year   int
	Start  int
	End    int
	DaysOf int

	Months []Month
	Rows   []Row

	MonthTotals   []string
	RunningTotals []string
	Final         string
	FinalNegative bool

	Categories       []CategoryRow
	NegativeMonths   []NegativeRow
	PotentialSavings string

	GeneratedAt time.Time
}

// Build assembles the render model from a plan. Parent accounts show their
// rolled-up balance; their children follow indented.
func Build(title string, b *core.Budget) *PlanReport {
	r := &PlanReport{
		Title:       title,
		Year:        b.Year,
		Start:       b.Start,
		End:         b.End,
		DaysOf:      b.DaysOf,
		GeneratedAt: time.Now(),
	}

	labels := dayLabels(b)
	for m := b.Start; m <= b.End; m++ {
		name, err := core.MonthName(m)
		if err != nil {
			continue
		}
		r.Months = append(r.Months, Month{Name: name, Days: labels})
	}

	for _, a := range b.Accounts() {
		if a.Parent != "" {
			continue
		}
		r.Rows = append(r.Rows, buildRow(b, a, false))
		for _, child := range b.ChildAccounts(a.Name) {
			r.Rows = append(r.Rows, buildRow(b, child, true))
		}
	}

	for m := b.Start; m <= b.End; m++ {
		r.MonthTotals = append(r.MonthTotals, b.MonthBalance(m).Format())
		r.RunningTotals = append(r.RunningTotals, b.RunningBalance(m).Format())
		if running := b.RunningBalance(m); running.IsNegative() {
			name, err := core.MonthName(m)
			if err != nil {
				continue
			}
			r.NegativeMonths = append(r.NegativeMonths, NegativeRow{
				Month:   name,
				Balance: running.Format(),
			})
		}
	}

	final := b.FinalBalance()
	r.Final = final.Format()
	r.FinalNegative = final.IsNegative()

	for _, ca := range b.BalancesByCategory() {
		r.Categories = append(r.Categories, CategoryRow{
			Name:     ca.Name,
			Balance:  ca.Balance.Format(),
			Negative: ca.Balance.IsNegative(),
		})
	}

	r.PotentialSavings = b.PotentialSavings().Format()

	return r
}

func buildRow(b *core.Budget, a *core.Account, child bool) Row {
	row := Row{
		Account:  a.Name,
		Category: a.Category,
		Child:    child,
	}

	for m := b.Start; m <= b.End; m++ {
		entries := a.Month(m)
		for d := 1; d <= b.DaysOf; d++ {
			var cell Cell
			if d <= len(entries) {
				f := entries[d-1]
				cell = Cell{
					Amount:    f.Amount.Format(),
					Confirmed: f.Confirmed,
					Zero:      f.Amount.IsZero(),
					Negative:  f.Amount.IsNegative(),
				}
			} else {
				cell = Cell{Amount: core.Money{}.Format(), Zero: true}
			}
			row.Cells = append(row.Cells, cell)
		}
	}

	final, err := b.AccountBalance(a.Name)
	if err != nil {
		final = a.FinalBalance()
	}
	row.Final = final.Format()
	row.FinalNegative = final.IsNegative()
	return row
}

func dayLabels(b *core.Budget) []string {
	labels := make([]string, b.DaysOf)
	for i := 0; i < b.DaysOf; i++ {
		if i < len(b.DayLabels) && b.DayLabels[i] != "" {
			labels[i] = b.DayLabels[i]
		} else {
			labels[i] = "Day " + strconv.Itoa(i+1)
		}
	}
	return labels
}
