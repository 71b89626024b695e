package ledger

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

var _ Ledger = (*Memory)(nil)

type memoryAccount struct {
	mu           sync.Mutex
	account      Account
	transactions []Transaction
}

// Memory is an in-process Ledger. The account map has its own lock and every
// account carries a mutex, so operations on one account are serialized
// without blocking the others.
type Memory struct {
	mu       sync.RWMutex
	accounts map[string]*memoryAccount
	lastID   atomic.Int64
	opts     options
}

func NewMemory(opts ...Option) *Memory {
	return &Memory{
		accounts: make(map[string]*memoryAccount),
		opts:     newOptions(opts),
	}
}

func (m *Memory) lookup(accountID string) (*memoryAccount, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	acc, ok := m.accounts[accountID]
	return acc, ok
}

func (m *Memory) provision(accountID string) *memoryAccount {
	if acc, ok := m.lookup(accountID); ok {
		return acc
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if acc, ok := m.accounts[accountID]; ok {
		return acc
	}

	acc := &memoryAccount{
		account: Account{
			ID:        accountID,
			Credits:   m.opts.startingGrant,
			CreatedAt: m.opts.now(),
		},
	}
	m.accounts[accountID] = acc

	m.opts.logger.Info("Account provisioned",
		zap.String("account_id", accountID),
		zap.Int64("starting_grant", m.opts.startingGrant))

	return acc
}

func (m *Memory) GetBalance(_ context.Context, accountID string) (Balance, error) {
	acc := m.provision(accountID)

	acc.mu.Lock()
	defer acc.mu.Unlock()

	return acc.account.Balance(), nil
}

func (m *Memory) GetAccount(_ context.Context, accountID string) (Account, error) {
	acc, ok := m.lookup(accountID)
	if !ok {
		return Account{}, ErrAccountNotFound
	}

	acc.mu.Lock()
	defer acc.mu.Unlock()

	return acc.account, nil
}

func (m *Memory) Debit(_ context.Context, accountID string, amount int64, description string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	acc, ok := m.lookup(accountID)
	if !ok {
		return ErrAccountNotFound
	}

	acc.mu.Lock()
	defer acc.mu.Unlock()

	if acc.account.Credits < amount {
		m.opts.logger.Debug("Debit rejected",
			zap.String("account_id", accountID),
			zap.Int64("amount", amount),
			zap.Int64("credits", acc.account.Credits))
		return ErrInsufficientCredits
	}

	acc.account.Credits -= amount
	acc.account.TotalCreditsUsed += amount
	acc.transactions = append(acc.transactions, Transaction{
		ID:          m.lastID.Add(1),
		AccountID:   accountID,
		Kind:        KindUsage,
		Amount:      -amount,
		Description: description,
		CreatedAt:   m.opts.now(),
	})

	return nil
}

func (m *Memory) Credit(_ context.Context, accountID string, amount int64, description string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	acc, ok := m.lookup(accountID)
	if !ok {
		return ErrAccountNotFound
	}

	acc.mu.Lock()
	defer acc.mu.Unlock()

	now := m.opts.now()
	acc.account.Credits += amount
	acc.account.LastPurchaseAt = &now
	acc.transactions = append(acc.transactions, Transaction{
		ID:          m.lastID.Add(1),
		AccountID:   accountID,
		Kind:        KindPurchase,
		Amount:      amount,
		Description: description,
		CreatedAt:   now,
	})

	return nil
}

func (m *Memory) ListTransactions(_ context.Context, accountID string) ([]Transaction, error) {
	acc, ok := m.lookup(accountID)
	if !ok {
		return []Transaction{}, nil
	}

	acc.mu.Lock()
	defer acc.mu.Unlock()

	out := make([]Transaction, len(acc.transactions))
	copy(out, acc.transactions)
	return out, nil
}
