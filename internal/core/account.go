package core

import "fmt"

// RequirementMode classifies whether an account's spending is mandatory.
// Optional accounts feed the potential-savings analysis.
type RequirementMode string

const (
	ModeRequired RequirementMode = "Required"
	ModeOptional RequirementMode = "Optional"
)

// Account is a named recurring (or one-off) money movement rule. Expanding
// it fills a rectangular grid of Forecast entries: one entry per (month,
// day) over the whole plan horizon, with zero placeholders for months where
// the rule is not active. The grid is the single source of truth for every
// balance query; nothing is cached except the Balance field, which is only
// written by an explicit refresh.
type Account struct {
	Name       string
	Year       int
	Category   string
	Frequency  int // repeat every N months
	Start      int // first active month
	DayAmounts []Money
	Periodical bool
	Mode       RequirementMode
	Parent     string // soft reference by name; empty means top-level

	// Plan horizon this account was created under.
	BudgetStart int
	BudgetEnd   int

	Bank    *Bank
	Entries []*Forecast

	// Balance is a cached roll-up written by Budget.RefreshBalances.
	Balance Money
}

// validate checks the rule parameters before expansion.
func (a *Account) validate() error {
	if a.Frequency < 1 {
		return fmt.Errorf("%w: frequency %d must be at least 1", ErrInvalidParameters, a.Frequency)
	}
	if a.Start < 1 || a.Start > 12 {
		return fmt.Errorf("%w: start month %d outside 1..12", ErrInvalidParameters, a.Start)
	}
	if a.Mode != ModeRequired && a.Mode != ModeOptional {
		return fmt.Errorf("%w: unknown requirement mode %q", ErrInvalidParameters, a.Mode)
	}
	return nil
}

// ExpandSingleMonth fills the grid for a rule that fires exactly once.
func (a *Account) ExpandSingleMonth(month int) error {
	return a.Expand(month, month)
}

// Expand fills the account's grid for the whole plan horizon. Months inside
// [rangeStart, rangeEnd] that the frequency rule selects produce entries
// with the declared day amounts and post them to the linked bank; every
// other month produces zero placeholders so the grid stays rectangular.
//
// The frequency counter advances for every month at or after Start,
// including months outside the requested window: the window gates
// activation only, never the counter bookkeeping, so a later single-month
// expansion lines up with the same cadence.
func (a *Account) Expand(rangeStart, rangeEnd int) error {
	if err := a.validate(); err != nil {
		return err
	}
	if rangeStart > rangeEnd || rangeStart < 1 || rangeEnd < 1 || rangeEnd > 12 {
		return fmt.Errorf("%w: %d..%d", ErrInvalidRange, rangeStart, rangeEnd)
	}
	counter := 0
	for month := a.BudgetStart; month <= a.BudgetEnd; month++ {
		if counter == a.Frequency {
			counter = 0
		}
		if month >= a.Start {
			counter++
		}
		active := counter == 1 && month >= rangeStart && month <= rangeEnd
		for day := 1; day <= len(a.DayAmounts); day++ {
			amount := Money{}
			if active {
				amount = a.DayAmounts[day-1]
			}
			// Carry-in is recomputed from the grid built so far; at this
			// point only earlier months exist, so the scan is exact.
			f := NewForecast(month, day, amount, a.PreviousMonthBalance(month), a.Name)
			a.Entries = append(a.Entries, f)
			if active && a.Bank != nil {
				a.Bank.Post(f)
			}
		}
	}
	return nil
}

// Month returns the entries for the given month in day order.
func (a *Account) Month(month int) []*Forecast {
	var out []*Forecast
	for _, f := range a.Entries {
		if f.Month == month {
			out = append(out, f)
		}
	}
	return out
}

func (a *Account) entry(month, day int) (*Forecast, error) {
	for _, f := range a.Entries {
		if f.Month == month && f.Day == day {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: account %q month %d day %d", ErrEntryNotFound, a.Name, month, day)
}

// MonthBalance sums the current amounts of one month.
func (a *Account) MonthBalance(month int) Money {
	var balance Money
	for _, f := range a.Entries {
		if f.Month == month {
			balance = balance.Add(f.Amount)
		}
	}
	return balance
}

// MonthDayBalance sums the current amounts of one month and day slot.
func (a *Account) MonthDayBalance(month, day int) Money {
	var balance Money
	for _, f := range a.Entries {
		if f.Month == month && f.Day == day {
			balance = balance.Add(f.Amount)
		}
	}
	return balance
}

// PreviousMonthBalance is the cumulative net amount of all months strictly
// before the given one. Month 1 always carries in zero. This is a full
// backward scan on every call: corrections may retroactively change history,
// so nothing is memoized.
func (a *Account) PreviousMonthBalance(month int) Money {
	var balance Money
	for m := 1; m < month; m++ {
		balance = balance.Add(a.MonthBalance(m))
	}
	return balance
}

// RunningBalance is the balance accumulated through the given month.
func (a *Account) RunningBalance(month int) Money {
	var balance Money
	for m := 1; m <= month; m++ {
		balance = balance.Add(a.MonthBalance(m))
	}
	return balance
}

// FinalBalance is the account's net movement over the full year.
func (a *Account) FinalBalance() Money {
	return a.RunningBalance(12)
}

// NegativeMonth pairs a month with its (negative) balance.
type NegativeMonth struct {
	Month   int
	Balance Money
}

// NegativeMonths lists the months whose own balance is below zero.
func (a *Account) NegativeMonths() []NegativeMonth {
	var out []NegativeMonth
	for m := 1; m <= 12; m++ {
		if balance := a.MonthBalance(m); balance.IsNegative() {
			out = append(out, NegativeMonth{Month: m, Balance: balance})
		}
	}
	return out
}

// SetAmount replaces the current amount of one cell without touching the
// confirmation flag.
func (a *Account) SetAmount(month, day int, amount Money) error {
	f, err := a.entry(month, day)
	if err != nil {
		return err
	}
	f.Amount = amount
	return nil
}

// CorrectTransaction records the actual amount for one cell and marks it
// confirmed. Planned stays untouched so variance remains computable.
func (a *Account) CorrectTransaction(month, day int, amount Money) error {
	f, err := a.entry(month, day)
	if err != nil {
		return err
	}
	f.Amount = amount
	f.Confirmed = true
	return nil
}

// ConfirmTransaction marks a cell as confirmed without changing amounts.
func (a *Account) ConfirmTransaction(month, day int) error {
	f, err := a.entry(month, day)
	if err != nil {
		return err
	}
	f.Confirmed = true
	return nil
}

// RemoveConfirmTransaction clears a cell's confirmation flag.
func (a *Account) RemoveConfirmTransaction(month, day int) error {
	f, err := a.entry(month, day)
	if err != nil {
		return err
	}
	f.Confirmed = false
	return nil
}

// CorrectPreviousBalance overrides the stored carry-in for one cell. Used to
// patch history without a full re-expansion.
func (a *Account) CorrectPreviousBalance(month, day int, previous Money) error {
	f, err := a.entry(month, day)
	if err != nil {
		return err
	}
	f.Previous = previous
	return nil
}
