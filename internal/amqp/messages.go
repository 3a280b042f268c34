package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Correction kinds carried on the wire.
const (
	KindCorrect   = "correct"
	KindConfirm   = "confirm"
	KindUnconfirm = "unconfirm"
)

// CorrectionMessage asks a consumer to apply a transaction mutation to a
// stored plan. Amounts travel as integer cents; AmountCents is ignored for
// confirm and unconfirm kinds.
type CorrectionMessage struct {
	Plan        string    `json:"plan"`
	Account     string    `json:"account"`
	Kind        string    `json:"kind"`
	Month       int       `json:"month"`
	Day         int       `json:"day"`
	AmountCents int64     `json:"amount_cents"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewCorrectionMessage creates a correction message stamped with the current time.
func NewCorrectionMessage(plan, account, kind string, month, day int, amountCents int64) *CorrectionMessage {
	return &CorrectionMessage{
		Plan:        plan,
		Account:     account,
		Kind:        kind,
		Month:       month,
		Day:         day,
		AmountCents: amountCents,
		Timestamp:   time.Now(),
	}
}

// Validate checks the message fields before publishing or handling.
func (m *CorrectionMessage) Validate() error {
	if m.Plan == "" {
		return fmt.Errorf("correction message missing plan")
	}
	if m.Account == "" {
		return fmt.Errorf("correction message missing account")
	}
	switch m.Kind {
	case KindCorrect, KindConfirm, KindUnconfirm:
	default:
		return fmt.Errorf("unknown correction kind %q", m.Kind)
	}
	if m.Month < 1 || m.Month > 12 {
		return fmt.Errorf("invalid month %d", m.Month)
	}
	if m.Day < 1 {
		return fmt.Errorf("invalid day %d", m.Day)
	}
	return nil
}

// ToJSON converts the message to JSON bytes
func (m *CorrectionMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// CorrectionMessageFromJSON creates a message from JSON bytes
func CorrectionMessageFromJSON(data []byte) (*CorrectionMessage, error) {
	var msg CorrectionMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
