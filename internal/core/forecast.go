package core

import "github.com/google/uuid"

// Forecast is a single dated transaction cell in an account's expanded grid.
// Amount starts equal to Planned and diverges once the transaction is
// corrected with the actual figure; Planned never changes after creation.
type Forecast struct {
	ID        string
	Month     int // 1..12
	Day       int // ordinal slot within the month, not a calendar day
	Amount    Money
	Planned   Money
	Previous  Money // balance carried in from the months before
	Confirmed bool
	Note      string
	Account   string
}

// NewForecast creates an entry with a fresh identifier and the planned
// amount mirrored into the current amount.
func NewForecast(month, day int, amount, previous Money, account string) *Forecast {
	return &Forecast{
		ID:       uuid.NewString(),
		Month:    month,
		Day:      day,
		Amount:   amount,
		Planned:  amount,
		Previous: previous,
		Account:  account,
	}
}

// Variance is the corrected-versus-planned difference for this entry.
func (f *Forecast) Variance() Money {
	return f.Amount.Sub(f.Planned)
}
