// Package core implements the budget plan engine: accounts expanded into
// monthly forecast grids, banks accumulating postings, and the plan-level
// balance aggregation over both.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Money is a signed monetary amount in integer cents. All balance arithmetic
// stays in cents; floats appear only at display boundaries.
type Money struct {
	Cents int64
}

// Cents builds a Money from a raw cent count.
func Cents(c int64) Money {
	return Money{Cents: c}
}

func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}

func (m Money) Neg() Money {
	return Money{Cents: -m.Cents}
}

func (m Money) IsZero() bool {
	return m.Cents == 0
}

func (m Money) IsNegative() bool {
	return m.Cents < 0
}

// Units returns the amount in whole currency units for display purposes.
// Use cents for calculations to avoid floating-point precision issues.
func (m Money) Units() float64 {
	return float64(m.Cents) / 100.0
}

// DivRound splits the amount into n parts, rounding half up away from zero
// to whole cents. Used for installment computation.
func (m Money) DivRound(n int64) Money {
	if n == 0 {
		return Money{}
	}
	c := m.Cents
	neg := (c < 0) != (n < 0)
	if c < 0 {
		c = -c
	}
	if n < 0 {
		n = -n
	}
	q := (c + n/2) / n
	if neg {
		q = -q
	}
	return Money{Cents: q}
}

// Format renders the amount as $0,000.00 with a leading minus for debits.
func (m Money) Format() string {
	c := m.Cents
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	whole := c / 100
	frac := c % 100
	return fmt.Sprintf("%s$%s.%02d", sign, groupThousands(whole), frac)
}

func (m Money) String() string {
	return m.Format()
}

func groupThousands(v int64) string {
	s := strconv.FormatInt(v, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// ParseMoney converts a signed decimal string to cents with half-up rounding
// on the third decimal place. It accepts both dot (12.34) and comma (12,34)
// decimal separators and an optional leading sign.
//
// Examples:
//
//	ParseMoney("12.34")  -> 1234 cents
//	ParseMoney("-12,34") -> -1234 cents
//	ParseMoney("12.346") -> 1235 cents (rounds up)
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, fmt.Errorf("%w: empty amount", ErrInvalidParameters)
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return Money{}, fmt.Errorf("%w: malformed amount %q", ErrInvalidParameters, s)
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return Money{}, fmt.Errorf("%w: malformed amount %q", ErrInvalidParameters, s)
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return Money{}, fmt.Errorf("%w: amount out of range %q", ErrInvalidParameters, s)
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return Money{}, fmt.Errorf("%w: amount out of range %q", ErrInvalidParameters, s)
	}
	// Take first two fractional digits; half-up rounding on the third.
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	cents := iv*100 + fracCents
	if neg {
		cents = -cents
	}
	return Money{Cents: cents}, nil
}
