package core

// Snapshot types are plain nested records reproducing the whole plan graph
// for serialization. Amounts travel as raw cents and entry identifiers are
// preserved verbatim, so a restored plan answers every balance query with
// the same numbers as the plan it was taken from.

type ForecastSnapshot struct {
	ID            string `json:"id"`
	Month         int    `json:"month"`
	Day           int    `json:"day"`
	AmountCents   int64  `json:"amount_cents"`
	PlannedCents  int64  `json:"planned_cents"`
	PreviousCents int64  `json:"previous_cents"`
	Confirmed     bool   `json:"confirmed"`
	Note          string `json:"note,omitempty"`
	Account       string `json:"account"`
}

type BankPostingSnapshot struct {
	ID          string `json:"id"`
	AmountCents int64  `json:"amount_cents"`
}

type BankSnapshot struct {
	Name         string                `json:"name"`
	BalanceCents int64                 `json:"balance_cents"`
	Transactions []BankPostingSnapshot `json:"transactions"`
}

type AccountSnapshot struct {
	Name         string             `json:"name"`
	Year         int                `json:"year"`
	Category     string             `json:"category"`
	Frequency    int                `json:"frequency"`
	Start        int                `json:"start"`
	DayCents     []int64            `json:"day_cents"`
	Periodical   bool               `json:"periodical"`
	Mode         string             `json:"mode"`
	Parent       string             `json:"parent,omitempty"`
	BudgetStart  int                `json:"budget_start"`
	BudgetEnd    int                `json:"budget_end"`
	BalanceCents int64              `json:"balance_cents"`
	Bank         *BankSnapshot      `json:"bank,omitempty"`
	Forecasts    []ForecastSnapshot `json:"forecasts"`
}

type BudgetSnapshot struct {
	Year      int               `json:"year"`
	DaysOf    int               `json:"daysof"`
	DayLabels []string          `json:"day_labels"`
	Start     int               `json:"start"`
	End       int               `json:"end"`
	Accounts  []AccountSnapshot `json:"accounts"`
	Banks     []BankSnapshot    `json:"banks"`
}

func snapshotBank(b *Bank) BankSnapshot {
	s := BankSnapshot{Name: b.Name, BalanceCents: b.Balance.Cents}
	for _, p := range b.Transactions {
		s.Transactions = append(s.Transactions, BankPostingSnapshot{ID: p.ID, AmountCents: p.Amount.Cents})
	}
	return s
}

func snapshotAccount(a *Account) AccountSnapshot {
	s := AccountSnapshot{
		Name:         a.Name,
		Year:         a.Year,
		Category:     a.Category,
		Frequency:    a.Frequency,
		Start:        a.Start,
		Periodical:   a.Periodical,
		Mode:         string(a.Mode),
		Parent:       a.Parent,
		BudgetStart:  a.BudgetStart,
		BudgetEnd:    a.BudgetEnd,
		BalanceCents: a.Balance.Cents,
	}
	for _, d := range a.DayAmounts {
		s.DayCents = append(s.DayCents, d.Cents)
	}
	if a.Bank != nil {
		bank := snapshotBank(a.Bank)
		s.Bank = &bank
	}
	for _, f := range a.Entries {
		s.Forecasts = append(s.Forecasts, ForecastSnapshot{
			ID:            f.ID,
			Month:         f.Month,
			Day:           f.Day,
			AmountCents:   f.Amount.Cents,
			PlannedCents:  f.Planned.Cents,
			PreviousCents: f.Previous.Cents,
			Confirmed:     f.Confirmed,
			Note:          f.Note,
			Account:       f.Account,
		})
	}
	return s
}

// Snapshot captures the entire plan as a flat serializable record.
func (b *Budget) Snapshot() BudgetSnapshot {
	s := BudgetSnapshot{
		Year:      b.Year,
		DaysOf:    b.DaysOf,
		DayLabels: b.DayLabels,
		Start:     b.Start,
		End:       b.End,
	}
	for _, a := range b.accounts {
		s.Accounts = append(s.Accounts, snapshotAccount(a))
	}
	for _, bank := range b.banks {
		s.Banks = append(s.Banks, snapshotBank(bank))
	}
	return s
}

// FromSnapshot rebuilds a plan from a snapshot. Grids are restored verbatim
// rather than re-expanded, so corrected amounts, confirmations and patched
// carry-ins survive the round trip. Bank links are re-resolved by name
// against the plan-level bank list to restore sharing.
func FromSnapshot(s BudgetSnapshot) *Budget {
	b := NewBudgetRange(s.Year, s.DaysOf, s.Start, s.End)
	if len(s.DayLabels) == s.DaysOf {
		b.DayLabels = s.DayLabels
	}
	for _, bs := range s.Banks {
		bank := NewBank(bs.Name, Money{Cents: bs.BalanceCents})
		for _, p := range bs.Transactions {
			bank.Transactions = append(bank.Transactions, BankPosting{ID: p.ID, Amount: Money{Cents: p.AmountCents}})
		}
		b.banks = append(b.banks, bank)
		b.bankIndex[bank.Name] = bank
	}
	for _, as := range s.Accounts {
		a := &Account{
			Name:        as.Name,
			Year:        as.Year,
			Category:    as.Category,
			Frequency:   as.Frequency,
			Start:       as.Start,
			Periodical:  as.Periodical,
			Mode:        RequirementMode(as.Mode),
			Parent:      as.Parent,
			BudgetStart: as.BudgetStart,
			BudgetEnd:   as.BudgetEnd,
			Balance:     Money{Cents: as.BalanceCents},
		}
		for _, c := range as.DayCents {
			a.DayAmounts = append(a.DayAmounts, Money{Cents: c})
		}
		if as.Bank != nil {
			if bank, ok := b.bankIndex[as.Bank.Name]; ok {
				a.Bank = bank
			}
		}
		for _, fs := range as.Forecasts {
			a.Entries = append(a.Entries, &Forecast{
				ID:        fs.ID,
				Month:     fs.Month,
				Day:       fs.Day,
				Amount:    Money{Cents: fs.AmountCents},
				Planned:   Money{Cents: fs.PlannedCents},
				Previous:  Money{Cents: fs.PreviousCents},
				Confirmed: fs.Confirmed,
				Note:      fs.Note,
				Account:   fs.Account,
			})
		}
		b.accounts = append(b.accounts, a)
		b.accountIndex[a.Name] = a
	}
	return b
}
