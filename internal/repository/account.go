package repository

import (
	"context"
	"errors"
	"time"

	"github.com/kaixxz/MediNote/internal/model"
	"gorm.io/gorm"
)

type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	FindByID(ctx context.Context, accountID string) (model.Account, error)
	DecrementCredits(ctx context.Context, accountID string, amount int64) (int64, error)
	IncrementCredits(ctx context.Context, accountID string, amount int64, purchasedAt time.Time) (int64, error)
}

type account struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &account{db: db}
}

func (r *account) Create(ctx context.Context, acc *model.Account) error {
	err := GetTx(ctx, r.db).Create(acc).Error
	if err == nil {
		return nil
	}

	if isDuplicateKey(err) {
		return ErrAccountExists
	}

	return err
}

func (r *account) FindByID(ctx context.Context, accountID string) (model.Account, error) {
	var acc model.Account

	err := GetTx(ctx, r.db).Where("id = ?", accountID).First(&acc).Error
	if err == nil {
		return acc, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Account{}, ErrAccountNotFound
	}

	return model.Account{}, err
}

// DecrementCredits subtracts amount only when the balance covers it and
// reports the number of rows changed. Zero rows means the guard failed or
// the account does not exist.
func (r *account) DecrementCredits(ctx context.Context, accountID string, amount int64) (int64, error) {
	result := GetTx(ctx, r.db).Model(&model.Account{}).
		Where("id = ? AND credits >= ?", accountID, amount).
		Updates(map[string]any{
			"credits":            gorm.Expr("credits - ?", amount),
			"total_credits_used": gorm.Expr("total_credits_used + ?", amount),
		})

	return result.RowsAffected, result.Error
}

func (r *account) IncrementCredits(ctx context.Context, accountID string, amount int64, purchasedAt time.Time) (int64, error) {
	result := GetTx(ctx, r.db).Model(&model.Account{}).
		Where("id = ?", accountID).
		Updates(map[string]any{
			"credits":          gorm.Expr("credits + ?", amount),
			"last_purchase_at": purchasedAt,
		})

	return result.RowsAffected, result.Error
}
