package core

import (
	"encoding/json"
	"testing"
)

func buildSnapshotFixture(t *testing.T) *Budget {
	t.Helper()
	b := NewBudget(2022, 2)
	b.DayLabels = []string{"H1 (1)", "H2 (15)"}
	b.AddBank("Checking")
	b.AddBank("Savings")
	mustAddAccount(t, b, AccountParams{Name: "Payroll", Days: []Money{Cents(150000), Cents(150000)}, Category: "Job", Bank: "Checking"})
	mustAddAccount(t, b, AccountParams{Name: "Rent", Days: []Money{Cents(-120000), Cents(0)}, Category: "House", Bank: "Checking"})
	mustAddAccount(t, b, AccountParams{Name: "Water", Days: []Money{Cents(-20000), Cents(0)}, Category: "Utilities", Frequency: 3, Start: 2})
	mustAddAccount(t, b, AccountParams{Name: "Fun", Days: []Money{Cents(-5000), Cents(-5000)}, Category: "Leisure", Mode: ModeOptional})

	if err := b.CorrectTransaction("Rent", 2, 1, Cents(-121500)); err != nil {
		t.Fatalf("CorrectTransaction: %v", err)
	}
	if err := b.ConfirmTransaction("Payroll", 1, 1); err != nil {
		t.Fatalf("ConfirmTransaction: %v", err)
	}
	if err := b.CorrectPreviousBalance("Water", 5, 1, Cents(-777)); err != nil {
		t.Fatalf("CorrectPreviousBalance: %v", err)
	}
	b.RefreshBalances()
	return b
}

func TestSnapshot_RoundTrip(t *testing.T) {
	b := buildSnapshotFixture(t)

	data, err := json.Marshal(b.Snapshot())
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}
	var snap BudgetSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	restored := FromSnapshot(snap)

	if restored.Year != b.Year || restored.DaysOf != b.DaysOf || restored.Start != b.Start || restored.End != b.End {
		t.Errorf("plan header mismatch: got %d/%d/%d..%d", restored.Year, restored.DaysOf, restored.Start, restored.End)
	}
	if got, want := restored.FinalBalance(), b.FinalBalance(); got != want {
		t.Errorf("FinalBalance after round trip = %d, want %d", got.Cents, want.Cents)
	}
	for m := 1; m <= 12; m++ {
		if got, want := restored.RunningBalance(m), b.RunningBalance(m); got != want {
			t.Errorf("RunningBalance(%d) after round trip = %d, want %d", m, got.Cents, want.Cents)
		}
		if got, want := restored.MonthBalance(m), b.MonthBalance(m); got != want {
			t.Errorf("MonthBalance(%d) after round trip = %d, want %d", m, got.Cents, want.Cents)
		}
	}
	for _, category := range b.Categories() {
		if got, want := restored.CategoryBalance(category), b.CategoryBalance(category); got != want {
			t.Errorf("CategoryBalance(%q) after round trip = %d, want %d", category, got.Cents, want.Cents)
		}
	}
	if got, want := restored.PotentialSavings(), b.PotentialSavings(); got != want {
		t.Errorf("PotentialSavings after round trip = %d, want %d", got.Cents, want.Cents)
	}
}

func TestSnapshot_PreservesEntryState(t *testing.T) {
	b := buildSnapshotFixture(t)
	restored := FromSnapshot(b.Snapshot())

	orig, err := b.Account("Rent")
	if err != nil {
		t.Fatalf("Account: %v", err)
	}
	got, err := restored.Account("Rent")
	if err != nil {
		t.Fatalf("Account after restore: %v", err)
	}
	if len(got.Entries) != len(orig.Entries) {
		t.Fatalf("entry count = %d, want %d", len(got.Entries), len(orig.Entries))
	}
	for i, f := range orig.Entries {
		r := got.Entries[i]
		if r.ID != f.ID {
			t.Errorf("entry %d identifier not preserved: %q vs %q", i, r.ID, f.ID)
		}
		if r.Amount != f.Amount || r.Planned != f.Planned || r.Previous != f.Previous || r.Confirmed != f.Confirmed {
			t.Errorf("entry %d state mismatch after restore", i)
		}
	}

	water, err := restored.Account("Water")
	if err != nil {
		t.Fatalf("Account: %v", err)
	}
	patched := water.Month(5)[0]
	if patched.Previous.Cents != -777 {
		t.Errorf("patched carry-in = %d, want -777", patched.Previous.Cents)
	}
}

func TestSnapshot_RestoresBankSharing(t *testing.T) {
	b := buildSnapshotFixture(t)
	restored := FromSnapshot(b.Snapshot())

	bank, ok := restored.LookupBank("Checking")
	if !ok {
		t.Fatal("bank missing after restore")
	}
	origBank, _ := b.LookupBank("Checking")
	if bank.Balance != origBank.Balance {
		t.Errorf("bank balance = %d, want %d", bank.Balance.Cents, origBank.Balance.Cents)
	}
	if len(bank.Transactions) != len(origBank.Transactions) {
		t.Errorf("bank postings = %d, want %d", len(bank.Transactions), len(origBank.Transactions))
	}

	// Both restored accounts must point at the same bank instance.
	payroll, _ := restored.Account("Payroll")
	rent, _ := restored.Account("Rent")
	if payroll.Bank != rent.Bank {
		t.Error("accounts restored with separate bank instances")
	}
	if payroll.Bank != bank {
		t.Error("account bank not resolved against the plan-level bank list")
	}
}
