package service

import (
	"context"
	"errors"
	"time"

	"github.com/kaixxz/MediNote/internal/constants"
	"github.com/kaixxz/MediNote/internal/model"
	"github.com/kaixxz/MediNote/internal/repository"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// DraftService keeps SOAP notes in progress. Drafts are free and never
// touch the ledger.
type DraftService interface {
	Create(ctx context.Context, cmd SaveDraftCommand) (DraftResult, error)
	Get(ctx context.Context, accountID string, id int64) (DraftResult, error)
	List(ctx context.Context, accountID string) ([]DraftResult, error)
	Update(ctx context.Context, cmd UpdateDraftCommand) (DraftResult, error)
	Delete(ctx context.Context, accountID string, id int64) error
}

type draft struct {
	drafts repository.DraftRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewDraftService(drafts repository.DraftRepository, logger *zap.Logger) DraftService {
	return &draft{drafts: drafts, logger: logger, now: time.Now}
}

func (s *draft) Create(ctx context.Context, cmd SaveDraftCommand) (res DraftResult, err error) {
	ctx, span := tracer.Start(ctx, "DraftService.Create",
		trace.WithAttributes(attribute.String("account.id", cmd.AccountID)))
	defer func() { endSpan(span, err) }()

	now := s.now()
	d := model.Draft{
		AccountID:         cmd.AccountID,
		Title:             cmd.Title,
		PatientInfo:       cmd.PatientInfo,
		Subjective:        cmd.Subjective,
		Objective:         cmd.Objective,
		Assessment:        cmd.Assessment,
		Plan:              cmd.Plan,
		CompletedSections: joinSections(cmd.CompletedSections),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.drafts.Create(ctx, &d); err != nil {
		s.logger.Error("Failed to create draft", zap.String("account_id", cmd.AccountID), zap.Error(err))
		return DraftResult{}, draftError(err)
	}

	s.logger.Info("Draft created", zap.String("account_id", cmd.AccountID), zap.Int64("draft_id", d.ID))

	return draftResult(d), nil
}

func (s *draft) Get(ctx context.Context, accountID string, id int64) (res DraftResult, err error) {
	ctx, span := tracer.Start(ctx, "DraftService.Get",
		trace.WithAttributes(attribute.String("account.id", accountID), attribute.Int64("draft.id", id)))
	defer func() { endSpan(span, err) }()

	d, err := s.drafts.FindByID(ctx, accountID, id)
	if err != nil {
		return DraftResult{}, draftError(err)
	}

	return draftResult(d), nil
}

func (s *draft) List(ctx context.Context, accountID string) (res []DraftResult, err error) {
	ctx, span := tracer.Start(ctx, "DraftService.List",
		trace.WithAttributes(attribute.String("account.id", accountID)))
	defer func() { endSpan(span, err) }()

	drafts, err := s.drafts.ListByAccountID(ctx, accountID)
	if err != nil {
		s.logger.Error("Failed to list drafts", zap.String("account_id", accountID), zap.Error(err))
		return nil, draftError(err)
	}

	out := make([]DraftResult, 0, len(drafts))
	for _, d := range drafts {
		out = append(out, draftResult(d))
	}

	return out, nil
}

func (s *draft) Update(ctx context.Context, cmd UpdateDraftCommand) (res DraftResult, err error) {
	ctx, span := tracer.Start(ctx, "DraftService.Update",
		trace.WithAttributes(attribute.String("account.id", cmd.AccountID), attribute.Int64("draft.id", cmd.ID)))
	defer func() { endSpan(span, err) }()

	d, err := s.drafts.FindByID(ctx, cmd.AccountID, cmd.ID)
	if err != nil {
		return DraftResult{}, draftError(err)
	}

	apply(&d.Title, cmd.Title)
	apply(&d.PatientInfo, cmd.PatientInfo)
	apply(&d.Subjective, cmd.Subjective)
	apply(&d.Objective, cmd.Objective)
	apply(&d.Assessment, cmd.Assessment)
	apply(&d.Plan, cmd.Plan)
	if cmd.CompletedSections != nil {
		d.CompletedSections = joinSections(*cmd.CompletedSections)
	}
	d.UpdatedAt = s.now()

	if err := s.drafts.Update(ctx, &d); err != nil {
		if !errors.Is(err, repository.ErrDraftNotFound) {
			s.logger.Error("Failed to update draft",
				zap.String("account_id", cmd.AccountID),
				zap.Int64("draft_id", cmd.ID),
				zap.Error(err),
			)
		}
		return DraftResult{}, draftError(err)
	}

	return draftResult(d), nil
}

func (s *draft) Delete(ctx context.Context, accountID string, id int64) (err error) {
	ctx, span := tracer.Start(ctx, "DraftService.Delete",
		trace.WithAttributes(attribute.String("account.id", accountID), attribute.Int64("draft.id", id)))
	defer func() { endSpan(span, err) }()

	if err := s.drafts.Delete(ctx, accountID, id); err != nil {
		return draftError(err)
	}

	s.logger.Info("Draft deleted", zap.String("account_id", accountID), zap.Int64("draft_id", id))

	return nil
}

func apply(field *string, value *string) {
	if value != nil {
		*field = *value
	}
}

func draftError(err error) error {
	if errors.Is(err, repository.ErrDraftNotFound) {
		return NewServiceError(constants.ErrCodeDraftNotFound, err)
	}
	return NewServiceError(constants.ErrCodeOperationFailed, err)
}
