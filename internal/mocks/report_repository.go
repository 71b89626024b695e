package mocks

import (
	"context"

	"github.com/kaixxz/MediNote/internal/model"
	"github.com/stretchr/testify/mock"
)

type ReportRepository struct {
	mock.Mock
}

func (m *ReportRepository) Create(ctx context.Context, report *model.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *ReportRepository) ListByAccountID(ctx context.Context, accountID string) ([]model.Report, error) {
	args := m.Called(ctx, accountID)
	reports, _ := args.Get(0).([]model.Report)
	return reports, args.Error(1)
}

type DraftRepository struct {
	mock.Mock
}

func (m *DraftRepository) Create(ctx context.Context, draft *model.Draft) error {
	args := m.Called(ctx, draft)
	return args.Error(0)
}

func (m *DraftRepository) FindByID(ctx context.Context, accountID string, id int64) (model.Draft, error) {
	args := m.Called(ctx, accountID, id)
	return args.Get(0).(model.Draft), args.Error(1)
}

func (m *DraftRepository) ListByAccountID(ctx context.Context, accountID string) ([]model.Draft, error) {
	args := m.Called(ctx, accountID)
	drafts, _ := args.Get(0).([]model.Draft)
	return drafts, args.Error(1)
}

func (m *DraftRepository) Update(ctx context.Context, draft *model.Draft) error {
	args := m.Called(ctx, draft)
	return args.Error(0)
}

func (m *DraftRepository) Delete(ctx context.Context, accountID string, id int64) error {
	args := m.Called(ctx, accountID, id)
	return args.Error(0)
}
