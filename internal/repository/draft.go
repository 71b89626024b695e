package repository

import (
	"context"
	"errors"

	"github.com/kaixxz/MediNote/internal/model"
	"gorm.io/gorm"
)

// DraftRepository scopes every lookup to the owning account, so a draft id
// from another account reads as not found.
type DraftRepository interface {
	Create(ctx context.Context, draft *model.Draft) error
	FindByID(ctx context.Context, accountID string, id int64) (model.Draft, error)
	ListByAccountID(ctx context.Context, accountID string) ([]model.Draft, error)
	Update(ctx context.Context, draft *model.Draft) error
	Delete(ctx context.Context, accountID string, id int64) error
}

var draftColumns = []string{
	"title", "patient_info", "subjective", "objective", "assessment", "plan",
	"completed_sections", "updated_at",
}

type draft struct {
	db *gorm.DB
}

func NewDraftRepository(db *gorm.DB) DraftRepository {
	return &draft{db: db}
}

func (r *draft) Create(ctx context.Context, d *model.Draft) error {
	return GetTx(ctx, r.db).Create(d).Error
}

func (r *draft) FindByID(ctx context.Context, accountID string, id int64) (model.Draft, error) {
	var d model.Draft

	err := GetTx(ctx, r.db).Where("id = ? AND account_id = ?", id, accountID).First(&d).Error
	if err == nil {
		return d, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Draft{}, ErrDraftNotFound
	}

	return model.Draft{}, err
}

// ListByAccountID returns the most recently edited drafts first.
func (r *draft) ListByAccountID(ctx context.Context, accountID string) ([]model.Draft, error) {
	drafts := make([]model.Draft, 0)

	err := GetTx(ctx, r.db).
		Where("account_id = ?", accountID).
		Order("updated_at DESC").
		Order("id DESC").
		Find(&drafts).Error
	if err != nil {
		return nil, err
	}

	return drafts, nil
}

func (r *draft) Update(ctx context.Context, d *model.Draft) error {
	result := GetTx(ctx, r.db).Model(d).
		Where("account_id = ?", d.AccountID).
		Select(draftColumns).
		Updates(d)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrDraftNotFound
	}

	return nil
}

func (r *draft) Delete(ctx context.Context, accountID string, id int64) error {
	result := GetTx(ctx, r.db).Where("id = ? AND account_id = ?", id, accountID).Delete(&model.Draft{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrDraftNotFound
	}

	return nil
}
