package mocks

import (
	"context"

	"github.com/kaixxz/MediNote/internal/ledger"
	"github.com/stretchr/testify/mock"
)

type Ledger struct {
	mock.Mock
}

func (m *Ledger) GetBalance(ctx context.Context, accountID string) (ledger.Balance, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(ledger.Balance), args.Error(1)
}

func (m *Ledger) GetAccount(ctx context.Context, accountID string) (ledger.Account, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(ledger.Account), args.Error(1)
}

func (m *Ledger) Debit(ctx context.Context, accountID string, amount int64, description string) error {
	args := m.Called(ctx, accountID, amount, description)
	return args.Error(0)
}

func (m *Ledger) Credit(ctx context.Context, accountID string, amount int64, description string) error {
	args := m.Called(ctx, accountID, amount, description)
	return args.Error(0)
}

func (m *Ledger) ListTransactions(ctx context.Context, accountID string) ([]ledger.Transaction, error) {
	args := m.Called(ctx, accountID)
	txs, _ := args.Get(0).([]ledger.Transaction)
	return txs, args.Error(1)
}
