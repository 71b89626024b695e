// Package ledger keeps the prepaid credit balance of each account together
// with an append-only history of the debits and credits applied to it.
//
// Two implementations satisfy Ledger: Memory, a map-backed ledger for tests
// and single-process demos, and Store, which persists accounts and
// transactions through gorm and guards debits with a conditional update.
package ledger

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// DefaultStartingGrant is the balance given to an account the first time it
// is seen.
const DefaultStartingGrant int64 = 3

var (
	ErrInsufficientCredits = errors.New("ledger: insufficient credits")
	ErrAccountNotFound     = errors.New("ledger: account not found")
	ErrInvalidAmount       = errors.New("ledger: amount must be positive")
)

type Kind string

const (
	KindUsage    Kind = "usage"
	KindPurchase Kind = "purchase"
)

type Balance struct {
	Credits          int64 `json:"credits"`
	TotalCreditsUsed int64 `json:"total_credits_used"`
}

type Account struct {
	ID               string     `json:"id"`
	Credits          int64      `json:"credits"`
	TotalCreditsUsed int64      `json:"total_credits_used"`
	CreatedAt        time.Time  `json:"created_at"`
	LastPurchaseAt   *time.Time `json:"last_purchase_at,omitempty"`
}

func (a Account) Balance() Balance {
	return Balance{Credits: a.Credits, TotalCreditsUsed: a.TotalCreditsUsed}
}

type Transaction struct {
	ID          int64     `json:"id"`
	AccountID   string    `json:"account_id"`
	Kind        Kind      `json:"kind"`
	Amount      int64     `json:"amount"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type Ledger interface {
	// GetBalance provisions the account with the starting grant on first use.
	GetBalance(ctx context.Context, accountID string) (Balance, error)
	// GetAccount never provisions; it returns ErrAccountNotFound instead.
	GetAccount(ctx context.Context, accountID string) (Account, error)
	Debit(ctx context.Context, accountID string, amount int64, description string) error
	Credit(ctx context.Context, accountID string, amount int64, description string) error
	// ListTransactions returns the history oldest first.
	ListTransactions(ctx context.Context, accountID string) ([]Transaction, error)
}

type options struct {
	startingGrant int64
	now           func() time.Time
	logger        *zap.Logger
}

type Option func(*options)

func WithStartingGrant(credits int64) Option {
	return func(o *options) {
		o.startingGrant = credits
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func newOptions(opts []Option) options {
	o := options{
		startingGrant: DefaultStartingGrant,
		now:           time.Now,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return o
}
