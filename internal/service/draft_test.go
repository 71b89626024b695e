package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/kaixxz/MediNote/internal/constants"
	"github.com/kaixxz/MediNote/internal/mocks"
	"github.com/kaixxz/MediNote/internal/model"
	"github.com/kaixxz/MediNote/internal/repository"
	"github.com/kaixxz/MediNote/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func strPtr(s string) *string { return &s }

func TestDraft_Create(t *testing.T) {
	repo := &mocks.DraftRepository{}
	svc := service.NewDraftService(repo, zap.NewNop())

	repo.On("Create", mock.Anything, mock.MatchedBy(func(d *model.Draft) bool {
		return d.AccountID == "acct" && d.Title == "Follow-up" &&
			d.CompletedSections == "subjective,objective" && !d.CreatedAt.IsZero()
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*model.Draft).ID = 11
	}).Return(nil).Once()

	res, err := svc.Create(context.Background(), service.SaveDraftCommand{
		AccountID:         "acct",
		Title:             "Follow-up",
		Subjective:        "better",
		CompletedSections: []string{"subjective", "objective"},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(11), res.ID)
	assert.Equal(t, []string{"subjective", "objective"}, res.CompletedSections)
	repo.AssertExpectations(t)
}

func TestDraft_UpdateAppliesOnlyGivenFields(t *testing.T) {
	repo := &mocks.DraftRepository{}
	svc := service.NewDraftService(repo, zap.NewNop())

	existing := model.Draft{ID: 3, AccountID: "acct", Title: "Visit", Subjective: "cough", Plan: "rest"}
	repo.On("FindByID", mock.Anything, "acct", int64(3)).Return(existing, nil).Once()
	repo.On("Update", mock.Anything, mock.MatchedBy(func(d *model.Draft) bool {
		return d.Title == "Visit" && d.Subjective == "cough" && d.Plan == "fluids" &&
			d.CompletedSections == "plan" && !d.UpdatedAt.IsZero()
	})).Return(nil).Once()

	sections := []string{"plan"}
	res, err := svc.Update(context.Background(), service.UpdateDraftCommand{
		AccountID:         "acct",
		ID:                3,
		Plan:              strPtr("fluids"),
		CompletedSections: &sections,
	})

	require.NoError(t, err)
	assert.Equal(t, "fluids", res.Plan)
	assert.Equal(t, "cough", res.Subjective)
	repo.AssertExpectations(t)
}

func TestDraft_NotFound(t *testing.T) {
	repo := &mocks.DraftRepository{}
	svc := service.NewDraftService(repo, zap.NewNop())

	repo.On("FindByID", mock.Anything, "acct", int64(99)).Return(model.Draft{}, repository.ErrDraftNotFound)
	repo.On("Delete", mock.Anything, "acct", int64(99)).Return(repository.ErrDraftNotFound)

	_, err := svc.Get(context.Background(), "acct", 99)
	assertServiceCode(t, err, constants.ErrCodeDraftNotFound)

	_, err = svc.Update(context.Background(), service.UpdateDraftCommand{AccountID: "acct", ID: 99, Title: strPtr("x")})
	assertServiceCode(t, err, constants.ErrCodeDraftNotFound)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)

	err = svc.Delete(context.Background(), "acct", 99)
	assertServiceCode(t, err, constants.ErrCodeDraftNotFound)
}

func TestDraft_ListFailure(t *testing.T) {
	repo := &mocks.DraftRepository{}
	svc := service.NewDraftService(repo, zap.NewNop())

	repo.On("ListByAccountID", mock.Anything, "acct").Return(nil, errors.New("db down"))

	_, err := svc.List(context.Background(), "acct")

	assertServiceCode(t, err, constants.ErrCodeOperationFailed)
}
