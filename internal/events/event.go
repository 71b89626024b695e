package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const DefaultQueue = "medinote.ledger"

var ErrMalformedEvent = errors.New("malformed ledger event")

type Kind string

const (
	KindDebit  Kind = "debit"
	KindCredit Kind = "credit"
)

// LedgerEvent describes one applied balance change. Credits is the balance
// after the change.
type LedgerEvent struct {
	ID          string    `json:"id"`
	AccountID   string    `json:"account_id"`
	Kind        Kind      `json:"kind"`
	Amount      int64     `json:"amount"`
	Description string    `json:"description"`
	Credits     int64     `json:"credits"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func Decode(body []byte) (LedgerEvent, error) {
	var ev LedgerEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return LedgerEvent{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	if ev.AccountID == "" || (ev.Kind != KindDebit && ev.Kind != KindCredit) || ev.Amount <= 0 {
		return LedgerEvent{}, ErrMalformedEvent
	}

	return ev, nil
}
