package core

import (
	"errors"
	"testing"
)

func mustAddAccount(t *testing.T, b *Budget, p AccountParams) *Account {
	t.Helper()
	a, err := b.AddAccount(p)
	if err != nil {
		t.Fatalf("AddAccount(%q): %v", p.Name, err)
	}
	return a
}

func TestBudget_FinalBalanceTwoAccounts(t *testing.T) {
	b := NewBudget(2020, 1)
	mustAddAccount(t, b, AccountParams{Name: "Foo", Days: []Money{Cents(1000)}})
	mustAddAccount(t, b, AccountParams{Name: "Bar", Days: []Money{Cents(500)}})

	if got := b.FinalBalance().Cents; got != 18000 {
		t.Errorf("FinalBalance = %d, want 18000", got)
	}
	if got := b.RunningBalance(3).Cents; got != 4500 {
		t.Errorf("RunningBalance(3) = %d, want 4500", got)
	}
	if got := b.MonthBalance(3).Cents; got != 1500 {
		t.Errorf("MonthBalance(3) = %d, want 1500", got)
	}
	if got, want := b.RunningBalance(12), b.FinalBalance(); got != want {
		t.Errorf("RunningBalance(12) = %d, FinalBalance = %d; they must agree", got.Cents, want.Cents)
	}
}

func TestBudget_CorrectTransaction(t *testing.T) {
	b := NewBudget(2020, 1)
	mustAddAccount(t, b, AccountParams{Name: "Foo", Days: []Money{Cents(1000)}})
	mustAddAccount(t, b, AccountParams{Name: "Bar", Days: []Money{Cents(0)}})

	if err := b.CorrectTransaction("Bar", 1, 1, Cents(10000)); err != nil {
		t.Fatalf("CorrectTransaction: %v", err)
	}
	if got := b.FinalBalance().Cents; got != 22000 {
		t.Errorf("FinalBalance = %d, want 22000", got)
	}
	variance, err := b.VarianceForMonth("Bar", 1)
	if err != nil {
		t.Fatalf("VarianceForMonth: %v", err)
	}
	if variance.Cents != 10000 {
		t.Errorf("VarianceForMonth = %d, want 10000", variance.Cents)
	}
}

func TestBudget_DaysCountMismatch(t *testing.T) {
	b := NewBudget(2020, 2)
	_, err := b.AddAccount(AccountParams{Name: "Foo", Days: []Money{Cents(1000)}})
	if !errors.Is(err, ErrDaysCountMismatch) {
		t.Fatalf("AddAccount error = %v, want ErrDaysCountMismatch", err)
	}
	a := mustAddAccount(t, b, AccountParams{Name: "Bar", Days: []Money{Cents(500), Cents(0)}})
	if got := len(a.Entries); got != 24 {
		t.Errorf("grid size = %d, want 24", got)
	}
}

func TestBudget_AddSingleAccount(t *testing.T) {
	b := NewBudget(2020, 2)
	_, err := b.AddSingleAccount(3, AccountParams{Name: "Foo", Days: []Money{Cents(1000), Cents(2000)}})
	if err != nil {
		t.Fatalf("AddSingleAccount: %v", err)
	}
	if got := b.FinalBalance().Cents; got != 3000 {
		t.Errorf("FinalBalance = %d, want 3000", got)
	}
}

func TestBudget_Categories(t *testing.T) {
	b := NewBudget(2020, 1)
	mustAddAccount(t, b, AccountParams{Name: "Foo", Days: []Money{Cents(1000)}, Category: "Credit Card"})
	mustAddAccount(t, b, AccountParams{Name: "Bar", Days: []Money{Cents(2000)}, Category: "Utilities"})
	mustAddAccount(t, b, AccountParams{Name: "FooBar", Days: []Money{Cents(2000)}, Category: "Credit Card"})

	if got := b.CategoryBalance("Credit Card").Cents; got != 36000 {
		t.Errorf(`CategoryBalance("Credit Card") = %d, want 36000`, got)
	}
	if got := b.CategoryBalance("Utilities").Cents; got != 24000 {
		t.Errorf(`CategoryBalance("Utilities") = %d, want 24000`, got)
	}
	if got := b.CategoryBalance("House").Cents; got != 0 {
		t.Errorf(`CategoryBalance("House") = %d, want 0`, got)
	}

	categories := b.Categories()
	if len(categories) != 2 {
		t.Fatalf("Categories = %v, want 2 entries", categories)
	}
	if categories[0] != "Credit Card" || categories[1] != "Utilities" {
		t.Errorf("Categories = %v, want insertion order [Credit Card Utilities]", categories)
	}

	byCategory := b.BalancesByCategory()
	if len(byCategory) != 2 {
		t.Fatalf("BalancesByCategory = %v, want 2 entries", byCategory)
	}
	if byCategory[0].Balance.Cents != 36000 || byCategory[1].Balance.Cents != 24000 {
		t.Errorf("BalancesByCategory = %v, want 36000 and 24000", byCategory)
	}
}

func TestBudget_CategoryWithFrequency(t *testing.T) {
	b := NewBudget(2020, 1)
	mustAddAccount(t, b, AccountParams{Name: "Foo", Days: []Money{Cents(1000)}, Category: "Credit Card"})
	mustAddAccount(t, b, AccountParams{Name: "Bar", Days: []Money{Cents(1000)}, Category: "Utilities", Frequency: 3, Start: 2})
	if got := b.CategoryBalance("Utilities").Cents; got != 4000 {
		t.Errorf(`CategoryBalance("Utilities") = %d, want 4000`, got)
	}
}

func TestBudget_ParentRollUp(t *testing.T) {
	b := NewBudget(2020, 1)
	mustAddAccount(t, b, AccountParams{Name: "Parent", Days: []Money{Cents(0)}, Category: "Loans"})
	mustAddAccount(t, b, AccountParams{Name: "Child 1", Days: []Money{Cents(-1000)}, Category: "Loans", Parent: "Parent"})
	mustAddAccount(t, b, AccountParams{Name: "Child 2", Days: []Money{Cents(-1000)}, Category: "Loans", Parent: "Parent"})

	balance, err := b.AccountBalance("Parent")
	if err != nil {
		t.Fatalf("AccountBalance: %v", err)
	}
	if balance.Cents != -24000 {
		t.Errorf(`AccountBalance("Parent") = %d, want -24000`, balance.Cents)
	}
	// Children report through the parent: the category total carries the
	// roll-up once, not the children again and not the parent's own grid.
	if got := b.CategoryBalance("Loans").Cents; got != -24000 {
		t.Errorf(`CategoryBalance("Loans") = %d, want -24000`, got)
	}
	if !b.HasChildAccounts("Parent") {
		t.Error(`HasChildAccounts("Parent") = false, want true`)
	}
	if got := len(b.ChildAccounts("Parent")); got != 2 {
		t.Errorf("ChildAccounts = %d entries, want 2", got)
	}
}

func TestBudget_AccountBalanceWithoutChildren(t *testing.T) {
	b := NewBudget(2020, 1)
	mustAddAccount(t, b, AccountParams{Name: "Foo", Days: []Money{Cents(1000)}})
	balance, err := b.AccountBalance("Foo")
	if err != nil {
		t.Fatalf("AccountBalance: %v", err)
	}
	if balance.Cents != 12000 {
		t.Errorf(`AccountBalance("Foo") = %d, want 12000`, balance.Cents)
	}
	if _, err := b.AccountBalance("Missing"); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("AccountBalance on missing name error = %v, want ErrAccountNotFound", err)
	}
}

func TestBudget_SelfParentRejected(t *testing.T) {
	b := NewBudget(2020, 1)
	_, err := b.AddAccount(AccountParams{Name: "Foo", Days: []Money{Cents(1000)}, Parent: "Foo"})
	if !errors.Is(err, ErrInvalidParameters) {
		t.Errorf("AddAccount self-parent error = %v, want ErrInvalidParameters", err)
	}
}

func TestBudget_DuplicateNameRejected(t *testing.T) {
	b := NewBudget(2020, 1)
	mustAddAccount(t, b, AccountParams{Name: "Foo", Days: []Money{Cents(1000)}})
	_, err := b.AddAccount(AccountParams{Name: "Foo", Days: []Money{Cents(500)}})
	if !errors.Is(err, ErrInvalidParameters) {
		t.Errorf("AddAccount duplicate error = %v, want ErrInvalidParameters", err)
	}
}

func TestBudget_StrictStart(t *testing.T) {
	b := NewBudgetRange(2022, 1, 10, 12)
	b.StrictStart = true
	_, err := b.AddAccount(AccountParams{Name: "Early", Days: []Money{Cents(1000)}, Start: 4})
	if !errors.Is(err, ErrInvalidParameters) {
		t.Errorf("AddAccount before plan start error = %v, want ErrInvalidParameters", err)
	}

	b.StrictStart = false
	if _, err := b.AddAccount(AccountParams{Name: "Early", Days: []Money{Cents(1000)}, Start: 4}); err != nil {
		t.Errorf("AddAccount with StrictStart off: %v", err)
	}
}

func TestBudget_Banks(t *testing.T) {
	b := NewBudget(2020, 1)
	b.AddBank("Foo")
	mustAddAccount(t, b, AccountParams{Name: "Payroll", Days: []Money{Cents(1000)}, Category: "Credit Card", Bank: "Foo"})

	bank, ok := b.LookupBank("Foo")
	if !ok {
		t.Fatal(`LookupBank("Foo") not found`)
	}
	if bank.Balance.Cents != 12000 {
		t.Errorf("bank balance = %d, want 12000", bank.Balance.Cents)
	}
	if got := len(bank.Transactions); got != 12 {
		t.Errorf("bank postings = %d, want 12: placeholders never post", got)
	}

	// Unknown bank names are a recoverable no-bank state.
	a := mustAddAccount(t, b, AccountParams{Name: "Cash", Days: []Money{Cents(100)}, Bank: "Nope"})
	if a.Bank != nil {
		t.Error("account linked to a bank that does not exist")
	}
}

func TestBudget_BankInitialBalance(t *testing.T) {
	b := NewBudget(2020, 1)
	b.AddBankWithBalance("Savings", Cents(50000))
	mustAddAccount(t, b, AccountParams{Name: "Deposit", Days: []Money{Cents(1000)}, Frequency: 12, Bank: "Savings"})
	bank, _ := b.LookupBank("Savings")
	if bank.Balance.Cents != 51000 {
		t.Errorf("bank balance = %d, want initial 50000 + 1000 posted", bank.Balance.Cents)
	}
}

func TestBudget_TransferToBank(t *testing.T) {
	b := NewBudget(2020, 1)
	b.AddBank("FooBank")
	b.AddBank("Bar")
	mustAddAccount(t, b, AccountParams{Name: "FooAccount", Days: []Money{Cents(1000)}, Bank: "FooBank"})

	if err := b.TransferToBank("FooAccount", "Bar"); err != nil {
		t.Fatalf("TransferToBank: %v", err)
	}
	bank, _ := b.LookupBank("Bar")
	if bank.Balance.Cents != -12000 {
		t.Errorf("bank balance = %d, want -12000", bank.Balance.Cents)
	}

	if err := b.TransferToBank("FooAccount", "Missing"); !errors.Is(err, ErrBankNotFound) {
		t.Errorf("TransferToBank to missing bank error = %v, want ErrBankNotFound", err)
	}
	if err := b.TransferToBank("Missing", "Bar"); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("TransferToBank from missing account error = %v, want ErrAccountNotFound", err)
	}
}

func TestBudget_DetectNegativeBalance(t *testing.T) {
	b := NewBudget(2020, 1)
	b.AddBank("FooBank")
	mustAddAccount(t, b, AccountParams{Name: "Starting Balance", Days: []Money{Cents(10000)}, Frequency: 12, Start: 1, Bank: "FooBank"})
	mustAddAccount(t, b, AccountParams{Name: "Foo", Days: []Money{Cents(-2000)}, Bank: "FooBank"})

	result := b.DetectNegativeBalance()
	if result.Month != 6 || result.Balance.Cents != -2000 {
		t.Errorf("DetectNegativeBalance = {%d %d}, want {6 -2000}", result.Month, result.Balance.Cents)
	}
}

func TestBudget_DetectNegativeBalanceNone(t *testing.T) {
	b := NewBudget(2020, 1)
	mustAddAccount(t, b, AccountParams{Name: "Foo", Days: []Money{Cents(1000)}})
	result := b.DetectNegativeBalance()
	if result.Month != 0 || result.Balance.Cents != 0 {
		t.Errorf("DetectNegativeBalance = {%d %d}, want sentinel {0 0}", result.Month, result.Balance.Cents)
	}
}

func TestBudget_PreventNegativeBalance(t *testing.T) {
	b := NewBudget(2020, 1)
	mustAddAccount(t, b, AccountParams{Name: "Starting Balance", Days: []Money{Cents(10000)}, Frequency: 12})
	mustAddAccount(t, b, AccountParams{Name: "Spending", Days: []Money{Cents(-2000)}})

	if err := b.PreventNegativeBalance(""); err != nil {
		t.Fatalf("PreventNegativeBalance: %v", err)
	}
	result := b.DetectNegativeBalance()
	if result.Month != 0 {
		t.Errorf("plan still negative in month %d after PreventNegativeBalance", result.Month)
	}
	if _, err := b.Account(DefaultProtectionAccount); err != nil {
		t.Errorf("protection account missing: %v", err)
	}
	for m := 1; m <= 12; m++ {
		if balance := b.RunningBalance(m); balance.IsNegative() {
			t.Errorf("running balance negative in month %d: %d", m, balance.Cents)
		}
	}
}

func TestBudget_PayOff(t *testing.T) {
	b := NewBudget(2020, 2)
	a, err := b.PayOff("Loan", Cents(100000), 3, 2, "Loans", "")
	if err != nil {
		t.Fatalf("PayOff: %v", err)
	}
	if a.DayAmounts[0].Cents != 33333 || a.DayAmounts[1].Cents != 0 {
		t.Errorf("installment slots = %d, %d, want 33333 and 0", a.DayAmounts[0].Cents, a.DayAmounts[1].Cents)
	}
	for _, m := range []int{2, 3, 4} {
		if got := a.MonthBalance(m).Cents; got != 33333 {
			t.Errorf("MonthBalance(%d) = %d, want 33333", m, got)
		}
	}
	if got := a.MonthBalance(5).Cents; got != 0 {
		t.Errorf("MonthBalance(5) = %d, want 0: window ends after 3 installments", got)
	}

	if _, err := b.PayOff("Bad", Cents(100), 0, 1, "", ""); !errors.Is(err, ErrInvalidParameters) {
		t.Errorf("PayOff over zero months error = %v, want ErrInvalidParameters", err)
	}
}

func TestBudget_PotentialSavings(t *testing.T) {
	b := NewBudget(2020, 1)
	mustAddAccount(t, b, AccountParams{Name: "Rent", Days: []Money{Cents(-120000)}})
	mustAddAccount(t, b, AccountParams{Name: "Streaming", Days: []Money{Cents(-1500)}, Mode: ModeOptional})
	mustAddAccount(t, b, AccountParams{Name: "Eating out", Days: []Money{Cents(-5000)}, Mode: ModeOptional, Frequency: 2})

	// 12 months of streaming plus 6 active months of eating out.
	want := int64(-1500*12 - 5000*6)
	if got := b.PotentialSavings().Cents; got != want {
		t.Errorf("PotentialSavings = %d, want %d", got, want)
	}
}

func TestBudget_UseLastTemplate(t *testing.T) {
	b := NewBudget(2020, 1)
	mustAddAccount(t, b, AccountParams{Name: "Water", Days: []Money{Cents(-2000)}, Category: "Utilities", Frequency: 3, Start: 2})
	a := mustAddAccount(t, b, AccountParams{Name: "Light", Days: []Money{Cents(-1500)}, UseLast: true})

	if a.Category != "Utilities" {
		t.Errorf("category = %q, want template %q", a.Category, "Utilities")
	}
	if a.Frequency != 3 || a.Start != 2 {
		t.Errorf("frequency/start = %d/%d, want 3/2 from template", a.Frequency, a.Start)
	}
}

func TestBudget_RefreshBalances(t *testing.T) {
	b := NewBudget(2020, 1)
	parent := mustAddAccount(t, b, AccountParams{Name: "Parent", Days: []Money{Cents(0)}})
	child := mustAddAccount(t, b, AccountParams{Name: "Child", Days: []Money{Cents(-1000)}, Parent: "Parent"})

	if parent.Balance.Cents != 0 {
		t.Fatalf("cached balance written before refresh: %d", parent.Balance.Cents)
	}
	b.RefreshBalances()
	if parent.Balance.Cents != -12000 {
		t.Errorf("parent cached balance = %d, want -12000", parent.Balance.Cents)
	}
	if child.Balance.Cents != -12000 {
		t.Errorf("child cached balance = %d, want -12000", child.Balance.Cents)
	}
}

func TestMonthName(t *testing.T) {
	name, err := MonthName(1)
	if err != nil || name != "JAN" {
		t.Errorf("MonthName(1) = %q, %v, want JAN", name, err)
	}
	name, err = MonthName(12)
	if err != nil || name != "DEC" {
		t.Errorf("MonthName(12) = %q, %v, want DEC", name, err)
	}
	if _, err := MonthName(0); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("MonthName(0) error = %v, want ErrInvalidRange", err)
	}
	if _, err := MonthName(13); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("MonthName(13) error = %v, want ErrInvalidRange", err)
	}
}
