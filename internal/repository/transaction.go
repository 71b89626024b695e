package repository

import (
	"context"

	"github.com/kaixxz/MediNote/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TransactionRepository interface {
	Create(ctx context.Context, tx *model.Transaction) error
	ListByAccountID(ctx context.Context, accountID string) ([]model.Transaction, error)
}

type transaction struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transaction{db: db}
}

func (t *transaction) Create(ctx context.Context, tx *model.Transaction) error {
	return GetTx(ctx, t.db).Omit(clause.Associations).Create(tx).Error
}

func (t *transaction) ListByAccountID(ctx context.Context, accountID string) ([]model.Transaction, error) {
	transactions := make([]model.Transaction, 0)

	err := GetTx(ctx, t.db).
		Where("account_id = ?", accountID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}

	return transactions, nil
}
