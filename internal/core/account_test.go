package core

import (
	"errors"
	"testing"
)

func newTestAccount(name string, days []Money) *Account {
	return &Account{
		Name:        name,
		Year:        2020,
		Frequency:   1,
		Start:       1,
		DayAmounts:  days,
		Mode:        ModeRequired,
		BudgetStart: 1,
		BudgetEnd:   12,
	}
}

func TestAccount_ExpandGrid(t *testing.T) {
	a := newTestAccount("Foo", []Money{Cents(1000), Cents(2000)})
	if err := a.Expand(1, 12); err != nil {
		t.Fatalf("Expand: %v", err)
	}

	if got := len(a.Entries); got != 24 {
		t.Fatalf("grid size = %d, want 24", got)
	}
	checks := []struct {
		idx   int
		month int
		day   int
	}{
		{idx: 0, month: 1, day: 1},
		{idx: 1, month: 1, day: 2},
		{idx: 2, month: 2, day: 1},
		{idx: 3, month: 2, day: 2},
	}
	for _, c := range checks {
		f := a.Entries[c.idx]
		if f.Month != c.month || f.Day != c.day {
			t.Errorf("entry %d = month %d day %d, want month %d day %d", c.idx, f.Month, f.Day, c.month, c.day)
		}
	}
	month := a.Month(1)
	if len(month) != 2 {
		t.Fatalf("Month(1) returned %d entries, want 2", len(month))
	}
	if month[0].Amount.Cents != 1000 || month[1].Amount.Cents != 2000 {
		t.Errorf("month 1 amounts = %d, %d, want 1000, 2000", month[0].Amount.Cents, month[1].Amount.Cents)
	}
}

func TestAccount_ExpandShortHorizon(t *testing.T) {
	a := newTestAccount("Foo", []Money{Cents(1000), Cents(1000)})
	a.BudgetStart = 10
	a.BudgetEnd = 12
	a.Start = 10
	if err := a.Expand(10, 12); err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if got := len(a.Entries); got != 6 {
		t.Errorf("grid size = %d, want 6 (3 months x 2 days)", got)
	}
	if got := a.FinalBalance().Cents; got != 6000 {
		t.Errorf("FinalBalance = %d, want 6000", got)
	}
}

func TestAccount_Balances(t *testing.T) {
	a := newTestAccount("Foo", []Money{Cents(1000)})
	if err := a.Expand(1, 12); err != nil {
		t.Fatalf("Expand: %v", err)
	}

	if got := a.FinalBalance().Cents; got != 12000 {
		t.Errorf("FinalBalance = %d, want 12000", got)
	}
	if got := a.RunningBalance(3).Cents; got != 3000 {
		t.Errorf("RunningBalance(3) = %d, want 3000", got)
	}
	if got := a.PreviousMonthBalance(3).Cents; got != 2000 {
		t.Errorf("PreviousMonthBalance(3) = %d, want 2000", got)
	}
	if got := a.PreviousMonthBalance(1).Cents; got != 0 {
		t.Errorf("PreviousMonthBalance(1) = %d, want 0", got)
	}
}

func TestAccount_ExpandFrequency(t *testing.T) {
	// Frequency 3 starting in month 2 fires in months 2, 5, 8 and 11.
	a := newTestAccount("Foo", []Money{Cents(1000)})
	a.Frequency = 3
	a.Start = 2
	if err := a.Expand(1, 12); err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if got := a.FinalBalance().Cents; got != 4000 {
		t.Errorf("FinalBalance = %d, want 4000", got)
	}
	for _, m := range []int{2, 5, 8, 11} {
		if got := a.MonthBalance(m).Cents; got != 1000 {
			t.Errorf("MonthBalance(%d) = %d, want 1000", m, got)
		}
	}
	if got := a.MonthBalance(3).Cents; got != 0 {
		t.Errorf("MonthBalance(3) = %d, want 0", got)
	}
	if got := len(a.Entries); got != 12 {
		t.Errorf("grid size = %d, want 12: inactive months keep placeholders", got)
	}
}

func TestAccount_ExpandWindowKeepsCounterRunning(t *testing.T) {
	// The frequency counter advances even outside the requested window, so
	// activation inside the window follows the rule's cadence from Start,
	// not from the window edge. Frequency 3 from month 1, window 2..12:
	// month 1 is consumed by the counter and months 4, 7, 10 activate.
	a := newTestAccount("Foo", []Money{Cents(1000)})
	a.Frequency = 3
	if err := a.Expand(2, 12); err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if got := a.FinalBalance().Cents; got != 3000 {
		t.Errorf("FinalBalance = %d, want 3000", got)
	}
	for _, m := range []int{4, 7, 10} {
		if got := a.MonthBalance(m).Cents; got != 1000 {
			t.Errorf("MonthBalance(%d) = %d, want 1000", m, got)
		}
	}
	if got := a.MonthBalance(1).Cents; got != 0 {
		t.Errorf("MonthBalance(1) = %d, want 0: month 1 is outside the window", got)
	}
}

func TestAccount_ExpandRange(t *testing.T) {
	a := newTestAccount("Foo", []Money{Cents(0), Cents(-1000)})
	if err := a.Expand(1, 3); err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if got := a.FinalBalance().Cents; got != -3000 {
		t.Errorf("FinalBalance = %d, want -3000", got)
	}
	if got := len(a.Entries); got != 24 {
		t.Errorf("grid size = %d, want 24: out-of-range months keep placeholders", got)
	}
}

func TestAccount_ExpandSingleMonth(t *testing.T) {
	a := newTestAccount("Foo", []Money{Cents(0), Cents(-1000)})
	if err := a.ExpandSingleMonth(3); err != nil {
		t.Fatalf("ExpandSingleMonth: %v", err)
	}
	if got := a.FinalBalance().Cents; got != -1000 {
		t.Errorf("FinalBalance = %d, want -1000", got)
	}
}

func TestAccount_ExpandInvalidRange(t *testing.T) {
	tests := []struct {
		name  string
		start int
		end   int
	}{
		{name: "start after end", start: 5, end: 3},
		{name: "end above 12", start: 1, end: 13},
		{name: "start below 1", start: 0, end: 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAccount("Foo", []Money{Cents(1000)})
			err := a.Expand(tt.start, tt.end)
			if !errors.Is(err, ErrInvalidRange) {
				t.Errorf("Expand(%d, %d) error = %v, want ErrInvalidRange", tt.start, tt.end, err)
			}
		})
	}
}

func TestAccount_ExpandInvalidParameters(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Account)
	}{
		{name: "zero frequency", mutate: func(a *Account) { a.Frequency = 0 }},
		{name: "start out of bounds", mutate: func(a *Account) { a.Start = 13 }},
		{name: "unknown mode", mutate: func(a *Account) { a.Mode = "Sometimes" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAccount("Foo", []Money{Cents(1000)})
			tt.mutate(a)
			err := a.Expand(1, 12)
			if !errors.Is(err, ErrInvalidParameters) {
				t.Errorf("Expand error = %v, want ErrInvalidParameters", err)
			}
		})
	}
}

func TestAccount_CarryIn(t *testing.T) {
	a := newTestAccount("Foo", []Money{Cents(1000), Cents(-500)})
	if err := a.Expand(1, 12); err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if got := a.FinalBalance().Cents; got != 6000 {
		t.Errorf("FinalBalance = %d, want 6000", got)
	}
	month2 := a.Month(2)
	if got := month2[0].Previous.Cents; got != 500 {
		t.Errorf("month 2 carry-in = %d, want 500", got)
	}
	month1 := a.Month(1)
	if got := month1[0].Previous.Cents; got != 0 {
		t.Errorf("month 1 carry-in = %d, want 0", got)
	}
}

func TestAccount_Corrections(t *testing.T) {
	a := newTestAccount("Foo", []Money{Cents(1000)})
	if err := a.Expand(1, 12); err != nil {
		t.Fatalf("Expand: %v", err)
	}

	if err := a.CorrectTransaction(2, 1, Cents(-1500)); err != nil {
		t.Fatalf("CorrectTransaction: %v", err)
	}
	f, err := a.entry(2, 1)
	if err != nil {
		t.Fatalf("entry: %v", err)
	}
	if f.Amount.Cents != -1500 || f.Planned.Cents != 1000 || !f.Confirmed {
		t.Errorf("entry after correction = amount %d planned %d confirmed %v, want -1500, 1000, true",
			f.Amount.Cents, f.Planned.Cents, f.Confirmed)
	}

	// Correcting history shifts every later running balance but nothing before.
	if got := a.RunningBalance(1).Cents; got != 1000 {
		t.Errorf("RunningBalance(1) = %d, want 1000", got)
	}
	if got := a.RunningBalance(3).Cents; got != 500 {
		t.Errorf("RunningBalance(3) = %d, want 500", got)
	}
	if got := a.PreviousMonthBalance(3).Cents; got != -500 {
		t.Errorf("PreviousMonthBalance(3) = %d, want -500", got)
	}

	if err := a.RemoveConfirmTransaction(2, 1); err != nil {
		t.Fatalf("RemoveConfirmTransaction: %v", err)
	}
	if f.Confirmed {
		t.Error("entry still confirmed after RemoveConfirmTransaction")
	}
	if err := a.ConfirmTransaction(2, 1); err != nil {
		t.Fatalf("ConfirmTransaction: %v", err)
	}
	if !f.Confirmed {
		t.Error("entry not confirmed after ConfirmTransaction")
	}

	if err := a.CorrectPreviousBalance(2, 1, Cents(9999)); err != nil {
		t.Fatalf("CorrectPreviousBalance: %v", err)
	}
	if f.Previous.Cents != 9999 {
		t.Errorf("carry-in after patch = %d, want 9999", f.Previous.Cents)
	}
}

func TestAccount_EntryNotFound(t *testing.T) {
	a := newTestAccount("Foo", []Money{Cents(1000)})
	if err := a.Expand(1, 12); err != nil {
		t.Fatalf("Expand: %v", err)
	}
	err := a.CorrectTransaction(1, 2, Cents(0))
	if !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("CorrectTransaction on missing day error = %v, want ErrEntryNotFound", err)
	}
}

func TestAccount_NegativeMonths(t *testing.T) {
	a := newTestAccount("Foo", []Money{Cents(1000)})
	if err := a.Expand(1, 12); err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if err := a.SetAmount(1, 1, Cents(-2000)); err != nil {
		t.Fatalf("SetAmount: %v", err)
	}
	months := a.NegativeMonths()
	if len(months) != 1 {
		t.Fatalf("NegativeMonths = %d entries, want 1", len(months))
	}
	if months[0].Month != 1 || months[0].Balance.Cents != -2000 {
		t.Errorf("NegativeMonths[0] = {%d %d}, want {1 -2000}", months[0].Month, months[0].Balance.Cents)
	}
}

func TestAccount_ActivePeriodCount(t *testing.T) {
	// Active months over a full horizon: ceil((12 - start + 1) / frequency).
	tests := []struct {
		frequency int
		start     int
		want      int
	}{
		{frequency: 1, start: 1, want: 12},
		{frequency: 2, start: 1, want: 6},
		{frequency: 3, start: 2, want: 4},
		{frequency: 5, start: 4, want: 2},
		{frequency: 12, start: 1, want: 1},
	}
	for _, tt := range tests {
		a := newTestAccount("Foo", []Money{Cents(100)})
		a.Frequency = tt.frequency
		a.Start = tt.start
		if err := a.Expand(1, 12); err != nil {
			t.Fatalf("Expand: %v", err)
		}
		active := 0
		for m := 1; m <= 12; m++ {
			if !a.MonthBalance(m).IsZero() {
				active++
			}
		}
		if active != tt.want {
			t.Errorf("frequency %d start %d: %d active months, want %d", tt.frequency, tt.start, active, tt.want)
		}
	}
}
