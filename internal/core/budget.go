package core

import "fmt"

// DefaultProtectionAccount is the account PreventNegativeBalance injects
// counter-entries into when the caller does not name one.
const DefaultProtectionAccount = "Negative protection"

var monthNames = []string{"JAN", "FEB", "MAR", "APR", "MAY", "JUN", "JUL", "AUG", "SEP", "OCT", "NOV", "DEC"}

// CategoryAmount is a balance aggregated under one category label.
type CategoryAmount struct {
	Name    string
	Balance Money
}

// AccountParams collects the rule parameters for adding an account. Zero
// values fall back to the usual defaults: frequency 1, start at month 1,
// window ending at month 12, Required mode.
type AccountParams struct {
	Name       string
	Days       []Money
	Category   string
	Frequency  int
	Start      int
	End        int
	Bank       string
	Periodical bool
	Mode       RequirementMode
	Parent     string
	// UseLast reuses category, frequency, window, bank, periodical flag and
	// mode from the previously added account.
	UseLast bool
}

// Budget is the top-level plan for one fiscal year: a collection of
// accounts and banks with name-indexed lookup and insertion-ordered
// iteration. It is the only API surface; mutations route through it to the
// owning account's grid. A Budget is not safe for concurrent use.
type Budget struct {
	Year      int
	DaysOf    int
	DayLabels []string
	Start     int
	End       int

	// StrictStart rejects accounts whose start month precedes the plan's
	// start month. Off by default.
	StrictStart bool

	accounts     []*Account
	accountIndex map[string]*Account
	banks        []*Bank
	bankIndex    map[string]*Bank
	template     *AccountParams
}

// NewBudget creates a full-year plan with the given number of transaction
// slots per month.
func NewBudget(year, daysOf int) *Budget {
	return NewBudgetRange(year, daysOf, 1, 12)
}

// NewBudgetRange creates a plan covering only part of the year.
func NewBudgetRange(year, daysOf, start, end int) *Budget {
	if daysOf < 1 {
		daysOf = 1
	}
	return &Budget{
		Year:         year,
		DaysOf:       daysOf,
		DayLabels:    make([]string, daysOf),
		Start:        start,
		End:          end,
		accountIndex: make(map[string]*Account),
		bankIndex:    make(map[string]*Bank),
	}
}

// Accounts returns the accounts in insertion order.
func (b *Budget) Accounts() []*Account {
	return b.accounts
}

// Banks returns the banks in insertion order.
func (b *Budget) Banks() []*Bank {
	return b.banks
}

// Account looks up an account by name.
func (b *Budget) Account(name string) (*Account, error) {
	if a, ok := b.accountIndex[name]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrAccountNotFound, name)
}

// AddBank registers a bank with a zero starting balance.
func (b *Budget) AddBank(name string) *Bank {
	return b.AddBankWithBalance(name, Money{})
}

// AddBankWithBalance registers a bank seeded with an initial balance.
func (b *Budget) AddBankWithBalance(name string, initial Money) *Bank {
	if existing, ok := b.bankIndex[name]; ok {
		return existing
	}
	bank := NewBank(name, initial)
	b.banks = append(b.banks, bank)
	b.bankIndex[name] = bank
	return bank
}

// LookupBank finds a bank by name. A missing bank is a recoverable "no
// bank" state, not an error: accounts created against an unknown bank name
// simply stay unlinked.
func (b *Budget) LookupBank(name string) (*Bank, bool) {
	bank, ok := b.bankIndex[name]
	return bank, ok
}

func (b *Budget) applyDefaults(p *AccountParams) {
	if p.UseLast && b.template != nil {
		p.Category = b.template.Category
		p.Frequency = b.template.Frequency
		p.Start = b.template.Start
		p.End = b.template.End
		p.Bank = b.template.Bank
		p.Periodical = b.template.Periodical
		p.Mode = b.template.Mode
	}
	if p.Frequency == 0 {
		p.Frequency = 1
	}
	if p.Start == 0 {
		p.Start = 1
	}
	if p.End == 0 {
		p.End = 12
	}
	if p.Mode == "" {
		p.Mode = ModeRequired
	}
}

func (b *Budget) checkParams(p AccountParams) error {
	if len(p.Days) != b.DaysOf {
		return fmt.Errorf("%w: account %q declares %d day amounts, plan expects %d",
			ErrDaysCountMismatch, p.Name, len(p.Days), b.DaysOf)
	}
	if _, ok := b.accountIndex[p.Name]; ok {
		return fmt.Errorf("%w: account %q already exists", ErrInvalidParameters, p.Name)
	}
	if p.Parent != "" && p.Parent == p.Name {
		return fmt.Errorf("%w: account %q cannot be its own parent", ErrInvalidParameters, p.Name)
	}
	if b.StrictStart && p.Start < b.Start {
		return fmt.Errorf("%w: account %q starts in month %d before the plan starts in %d",
			ErrInvalidParameters, p.Name, p.Start, b.Start)
	}
	return nil
}

func (b *Budget) register(a *Account, p AccountParams) {
	b.accounts = append(b.accounts, a)
	b.accountIndex[a.Name] = a
	tmpl := p
	tmpl.UseLast = false
	b.template = &tmpl
}

// AddAccount creates an account from the rule parameters, expands it over
// its [Start, End] window and registers it in the plan. A failed expansion
// registers nothing.
func (b *Budget) AddAccount(p AccountParams) (*Account, error) {
	b.applyDefaults(&p)
	if err := b.checkParams(p); err != nil {
		return nil, err
	}
	bank, _ := b.LookupBank(p.Bank)
	account := &Account{
		Name:        p.Name,
		Year:        b.Year,
		Category:    p.Category,
		Frequency:   p.Frequency,
		Start:       p.Start,
		DayAmounts:  p.Days,
		Periodical:  p.Periodical,
		Mode:        p.Mode,
		Parent:      p.Parent,
		BudgetStart: b.Start,
		BudgetEnd:   b.End,
		Bank:        bank,
	}
	if err := account.Expand(p.Start, p.End); err != nil {
		return nil, fmt.Errorf("expand account %q: %w", p.Name, err)
	}
	b.register(account, p)
	return account, nil
}

// AddSingleAccount creates an account that fires exactly once, in the given
// month. UseLast reuses category, bank, periodical flag and mode from the
// previously added account.
func (b *Budget) AddSingleAccount(month int, p AccountParams) (*Account, error) {
	if p.UseLast && b.template != nil {
		p.Category = b.template.Category
		p.Bank = b.template.Bank
		p.Periodical = b.template.Periodical
		p.Mode = b.template.Mode
		p.UseLast = false
	}
	p.Frequency = 1
	p.Start = month
	p.End = month
	if p.Mode == "" {
		p.Mode = ModeRequired
	}
	if err := b.checkParams(p); err != nil {
		return nil, err
	}
	bank, _ := b.LookupBank(p.Bank)
	account := &Account{
		Name:        p.Name,
		Year:        b.Year,
		Category:    p.Category,
		Frequency:   1,
		Start:       month,
		DayAmounts:  p.Days,
		Periodical:  p.Periodical,
		Mode:        p.Mode,
		Parent:      p.Parent,
		BudgetStart: b.Start,
		BudgetEnd:   b.End,
		Bank:        bank,
	}
	if err := account.ExpandSingleMonth(month); err != nil {
		return nil, fmt.Errorf("expand account %q: %w", p.Name, err)
	}
	b.register(account, p)
	return account, nil
}

// MonthBalance sums the current amounts of all accounts for one month.
func (b *Budget) MonthBalance(month int) Money {
	var balance Money
	for _, a := range b.accounts {
		balance = balance.Add(a.MonthBalance(month))
	}
	return balance
}

// MonthDayBalance narrows MonthBalance to a single day slot.
func (b *Budget) MonthDayBalance(month, day int) Money {
	var balance Money
	for _, a := range b.accounts {
		balance = balance.Add(a.MonthDayBalance(month, day))
	}
	return balance
}

// RunningBalance is the cumulative balance of all accounts from month 1
// through the given month inclusive.
func (b *Budget) RunningBalance(month int) Money {
	var balance Money
	for _, a := range b.accounts {
		balance = balance.Add(a.RunningBalance(month))
	}
	return balance
}

// FinalBalance is the running balance at the end of the year.
func (b *Budget) FinalBalance() Money {
	var balance Money
	for _, a := range b.accounts {
		balance = balance.Add(a.FinalBalance())
	}
	return balance
}

// ChildAccounts lists the accounts declaring the given name as parent.
func (b *Budget) ChildAccounts(parent string) []*Account {
	var out []*Account
	for _, a := range b.accounts {
		if a.Parent != "" && a.Parent == parent {
			out = append(out, a)
		}
	}
	return out
}

// HasChildAccounts reports whether any account rolls up into the name.
func (b *Budget) HasChildAccounts(name string) bool {
	return len(b.ChildAccounts(name)) > 0
}

// AccountBalance resolves a name to its reported balance: the sum of its
// children's final balances when the name is a roll-up parent, the
// account's own final balance otherwise.
func (b *Budget) AccountBalance(name string) (Money, error) {
	if children := b.ChildAccounts(name); len(children) > 0 {
		var balance Money
		for _, c := range children {
			balance = balance.Add(c.FinalBalance())
		}
		return balance, nil
	}
	a, err := b.Account(name)
	if err != nil {
		return Money{}, err
	}
	return a.FinalBalance(), nil
}

// Categories returns the distinct category labels in first-seen order.
func (b *Budget) Categories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, a := range b.accounts {
		if _, ok := seen[a.Category]; ok {
			continue
		}
		seen[a.Category] = struct{}{}
		out = append(out, a.Category)
	}
	return out
}

// CategoryBalance sums the year-end balances reported under a category
// label (exact, case-sensitive match). Accounts with a parent are skipped:
// their movement reports through the parent's roll-up instead, so a parent
// with children contributes its children's total and never its own entries.
func (b *Budget) CategoryBalance(category string) Money {
	var balance Money
	for _, a := range b.accounts {
		if a.Parent != "" || a.Category != category {
			continue
		}
		if children := b.ChildAccounts(a.Name); len(children) > 0 {
			for _, c := range children {
				balance = balance.Add(c.FinalBalance())
			}
			continue
		}
		balance = balance.Add(a.FinalBalance())
	}
	return balance
}

// BalancesByCategory reports every category's balance in first-seen order.
func (b *Budget) BalancesByCategory() []CategoryAmount {
	var out []CategoryAmount
	for _, category := range b.Categories() {
		out = append(out, CategoryAmount{Name: category, Balance: b.CategoryBalance(category)})
	}
	return out
}

// DetectNegativeBalance scans months in order and returns the first whose
// running balance is negative. Month 0 with a zero balance means the plan
// never dips below zero.
func (b *Budget) DetectNegativeBalance() NegativeMonth {
	for month := 1; month <= b.End; month++ {
		if balance := b.RunningBalance(month); balance.IsNegative() {
			return NegativeMonth{Month: month, Balance: balance}
		}
	}
	return NegativeMonth{}
}

// PreventNegativeBalance injects counter-entries into a dedicated
// protection account until no month's running balance is negative. Each
// injected amount exactly offsets the detected deficit; downstream months
// are re-scanned because the carry-in shifts, and the loop is bounded by
// the horizon length.
func (b *Budget) PreventNegativeBalance(accountName string) error {
	if accountName == "" {
		accountName = DefaultProtectionAccount
	}
	protection, err := b.Account(accountName)
	if err != nil {
		protection, err = b.AddAccount(AccountParams{
			Name: accountName,
			Days: make([]Money, b.DaysOf),
		})
		if err != nil {
			return fmt.Errorf("create protection account: %w", err)
		}
	}
	for i := 0; i < b.End; i++ {
		analysis := b.DetectNegativeBalance()
		if analysis.Month == 0 {
			break
		}
		current := protection.MonthDayBalance(analysis.Month, 1)
		if err := protection.CorrectTransaction(analysis.Month, 1, current.Sub(analysis.Balance)); err != nil {
			return err
		}
	}
	return nil
}

// PotentialSavings totals the current amounts of every entry belonging to
// Optional accounts: the money that could be saved by dropping them all.
func (b *Budget) PotentialSavings() Money {
	var savings Money
	for _, a := range b.accounts {
		if a.Mode != ModeOptional {
			continue
		}
		for _, f := range a.Entries {
			savings = savings.Add(f.Amount)
		}
	}
	return savings
}

// VarianceForMonth is the corrected-versus-planned deviation of one
// account's entries in one month.
func (b *Budget) VarianceForMonth(accountName string, month int) (Money, error) {
	a, err := b.Account(accountName)
	if err != nil {
		return Money{}, err
	}
	var variance Money
	for _, f := range a.Month(month) {
		variance = variance.Add(f.Variance())
	}
	return variance, nil
}

// CorrectTransaction records the actual amount for one cell and confirms it.
func (b *Budget) CorrectTransaction(accountName string, month, day int, amount Money) error {
	a, err := b.Account(accountName)
	if err != nil {
		return err
	}
	return a.CorrectTransaction(month, day, amount)
}

// ConfirmTransaction marks one cell as confirmed.
func (b *Budget) ConfirmTransaction(accountName string, month, day int) error {
	a, err := b.Account(accountName)
	if err != nil {
		return err
	}
	return a.ConfirmTransaction(month, day)
}

// RemoveConfirmTransaction clears one cell's confirmation.
func (b *Budget) RemoveConfirmTransaction(accountName string, month, day int) error {
	a, err := b.Account(accountName)
	if err != nil {
		return err
	}
	return a.RemoveConfirmTransaction(month, day)
}

// CorrectPreviousBalance overrides one cell's stored carry-in.
func (b *Budget) CorrectPreviousBalance(accountName string, month, day int, previous Money) error {
	a, err := b.Account(accountName)
	if err != nil {
		return err
	}
	return a.CorrectPreviousBalance(month, day, previous)
}

// TransferToBank posts a single entry worth the negation of the account's
// final balance into the named bank. A one-shot manual reconciliation, not
// a recurring rule.
func (b *Budget) TransferToBank(fromAccount, toBank string) error {
	a, err := b.Account(fromAccount)
	if err != nil {
		return err
	}
	bank, ok := b.LookupBank(toBank)
	if !ok {
		return fmt.Errorf("%w: %q", ErrBankNotFound, toBank)
	}
	bank.Post(NewForecast(1, 1, a.FinalBalance().Neg(), Money{}, fromAccount))
	return nil
}

// PayOff spreads a total over even monthly installments, creating a new
// recurring account active for exactly the given number of months. The
// installment lands in the first day slot; remaining slots stay zero.
func (b *Budget) PayOff(accountName string, total Money, months, start int, category, bank string) (*Account, error) {
	if months < 1 {
		return nil, fmt.Errorf("%w: pay-off over %d months", ErrInvalidParameters, months)
	}
	days := make([]Money, b.DaysOf)
	days[0] = total.DivRound(int64(months))
	return b.AddAccount(AccountParams{
		Name:      accountName,
		Days:      days,
		Category:  category,
		Frequency: 1,
		Start:     start,
		End:       start + months - 1,
		Bank:      bank,
	})
}

// RefreshBalances recomputes every account's cached roll-up balance. This
// is the only place the cached field is written; queries always recompute
// from the grid.
func (b *Budget) RefreshBalances() {
	for _, a := range b.accounts {
		balance, err := b.AccountBalance(a.Name)
		if err != nil {
			continue
		}
		a.Balance = balance
	}
}

// MonthName translates a month ordinal to its three-letter label.
func MonthName(month int) (string, error) {
	if month < 1 || month > 12 {
		return "", fmt.Errorf("%w: month %d", ErrInvalidRange, month)
	}
	return monthNames[month-1], nil
}
