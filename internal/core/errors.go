package core

import "errors"

var (
	// ErrInvalidRange reports expansion bounds that are out of order or
	// outside the 1..12 month window.
	ErrInvalidRange = errors.New("invalid month range")

	// ErrInvalidParameters reports account rule parameters that cannot be
	// expanded: a frequency below 1, a start month outside 1..12, an
	// unrecognized requirement mode, or a self-referencing parent.
	ErrInvalidParameters = errors.New("invalid account parameters")

	// ErrDaysCountMismatch reports a per-day amounts array whose length
	// differs from the plan's configured days-per-month count.
	ErrDaysCountMismatch = errors.New("day amounts count mismatch")

	ErrAccountNotFound = errors.New("account not found")
	ErrEntryNotFound   = errors.New("entry not found")
	ErrBankNotFound    = errors.New("bank not found")
)
