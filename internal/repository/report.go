package repository

import (
	"context"

	"github.com/kaixxz/MediNote/internal/model"
	"gorm.io/gorm"
)

type ReportRepository interface {
	Create(ctx context.Context, report *model.Report) error
	ListByAccountID(ctx context.Context, accountID string) ([]model.Report, error)
}

type report struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &report{db: db}
}

func (r *report) Create(ctx context.Context, rep *model.Report) error {
	return GetTx(ctx, r.db).Create(rep).Error
}

// ListByAccountID returns the newest reports first.
func (r *report) ListByAccountID(ctx context.Context, accountID string) ([]model.Report, error) {
	reports := make([]model.Report, 0)

	err := GetTx(ctx, r.db).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&reports).Error
	if err != nil {
		return nil, err
	}

	return reports, nil
}
