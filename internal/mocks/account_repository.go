package mocks

import (
	"context"
	"time"

	"github.com/kaixxz/MediNote/internal/model"
	"github.com/stretchr/testify/mock"
)

type AccountRepository struct {
	mock.Mock
}

func (m *AccountRepository) Create(ctx context.Context, account *model.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *AccountRepository) FindByID(ctx context.Context, id string) (model.Account, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Account), args.Error(1)
}

func (m *AccountRepository) DecrementCredits(ctx context.Context, id string, amount int64) (int64, error) {
	args := m.Called(ctx, id, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *AccountRepository) IncrementCredits(ctx context.Context, id string, amount int64, purchasedAt time.Time) (int64, error) {
	args := m.Called(ctx, id, amount, purchasedAt)
	return args.Get(0).(int64), args.Error(1)
}

type TransactionRepository struct {
	mock.Mock
}

func (m *TransactionRepository) Create(ctx context.Context, tx *model.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *TransactionRepository) ListByAccountID(ctx context.Context, accountID string) ([]model.Transaction, error) {
	args := m.Called(ctx, accountID)
	txs, _ := args.Get(0).([]model.Transaction)
	return txs, args.Error(1)
}
