package core

// BankPosting is one audit record of an entry posted to a bank.
type BankPosting struct {
	ID     string
	Amount Money
}

// Bank accumulates a running balance from the entries posted to it. It is
// independent of the recurrence engine: accounts push postings in, the bank
// only adds them up. Balance always equals the initial balance plus the sum
// of all posted amounts.
type Bank struct {
	Name         string
	Balance      Money
	Transactions []BankPosting
}

func NewBank(name string, initial Money) *Bank {
	return &Bank{Name: name, Balance: initial}
}

// Post applies the entry's current amount to the running balance and logs
// the posting.
func (b *Bank) Post(f *Forecast) {
	b.Balance = b.Balance.Add(f.Amount)
	b.Transactions = append(b.Transactions, BankPosting{ID: f.ID, Amount: f.Amount})
}
