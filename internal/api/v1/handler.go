package v1

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kaixxz/MediNote/internal/api/contract"
	"github.com/kaixxz/MediNote/internal/api/middleware"
	"github.com/kaixxz/MediNote/internal/api/validator"
	"github.com/kaixxz/MediNote/internal/constants"
	"github.com/kaixxz/MediNote/internal/service"
	"go.uber.org/zap"
)

var errInvalidDraftID = errors.New("invalid draft id")

// HealthCheck reports whether a backing dependency is usable.
type HealthCheck func(ctx context.Context) error

type Handler struct {
	logger     *zap.Logger
	credits    service.CreditService
	generation service.GenerationService
	drafts     service.DraftService
	XValidator validator.IXValidator
	health     HealthCheck
}

func NewHandler(logger *zap.Logger, credits service.CreditService, generation service.GenerationService,
	drafts service.DraftService, xValidator validator.IXValidator, health HealthCheck) *Handler {
	return &Handler{
		logger:     logger,
		credits:    credits,
		generation: generation,
		drafts:     drafts,
		XValidator: xValidator,
		health:     health,
	}
}

func (h *Handler) Pong(c *fiber.Ctx) error {
	return c.SendString("pong")
}

func (h *Handler) Health(c *fiber.Ctx) error {
	status := fiber.StatusOK
	state := "ok"

	if h.health != nil {
		if err := h.health(c.UserContext()); err != nil {
			h.logger.Warn("Health check failed", zap.Error(err))
			status = fiber.StatusServiceUnavailable
			state = "unavailable"
		}
	}

	return c.Status(status).JSON(fiber.Map{
		"status":    state,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) GetCredits(c *fiber.Ctx) error {
	accountID := middleware.AccountID(c)

	res, err := h.credits.GetCredits(c.UserContext(), accountID)
	if err != nil {
		return err
	}

	return h.ok(c, constants.MsgCreditsRetrieved, res)
}

func (h *Handler) GetTransactions(c *fiber.Ctx) error {
	accountID := middleware.AccountID(c)

	res, err := h.credits.History(c.UserContext(), accountID)
	if err != nil {
		return err
	}

	return h.ok(c, constants.MsgHistoryRetrieved, res)
}

func (h *Handler) GetPackages(c *fiber.Ctx) error {
	return h.ok(c, constants.MsgPackagesRetrieved, h.credits.Packages())
}

func (h *Handler) Purchase(c *fiber.Ctx) error {
	var request PurchaseRequest
	if responseError := h.XValidator.Validator(&request, constants.MessageErrorFormat, c); responseError.Code != "" {
		return h.reject(c, responseError)
	}

	res, err := h.credits.Purchase(c.UserContext(), service.PurchaseCommand{
		AccountID: middleware.AccountID(c),
		Package:   request.Package,
	})
	if err != nil {
		return err
	}

	return h.ok(c, constants.MsgCreditsPurchased, res)
}

func (h *Handler) GenerateSection(c *fiber.Ctx) error {
	var request GenerateSectionRequest
	if responseError := h.XValidator.Validator(&request, constants.MessageErrorFormat, c); responseError.Code != "" {
		return h.reject(c, responseError)
	}

	res, err := h.generation.GenerateSection(c.UserContext(), service.GenerateSectionCommand{
		AccountID:   middleware.AccountID(c),
		Section:     request.Section,
		Content:     request.Content,
		PatientInfo: request.PatientInfo,
		ReportType:  request.ReportType,
	})
	if err != nil {
		return err
	}

	return h.ok(c, constants.MsgSectionGenerated, res)
}

func (h *Handler) GenerateReport(c *fiber.Ctx) error {
	var request GenerateReportRequest
	if responseError := h.XValidator.Validator(&request, constants.MessageErrorFormat, c); responseError.Code != "" {
		return h.reject(c, responseError)
	}

	res, err := h.generation.GenerateReport(c.UserContext(), service.GenerateReportCommand{
		AccountID:    middleware.AccountID(c),
		ReportType:   request.ReportType,
		PatientNotes: request.PatientNotes,
	})
	if err != nil {
		return err
	}

	return h.ok(c, constants.MsgReportGenerated, res)
}

func (h *Handler) Review(c *fiber.Ctx) error {
	var request ReviewRequest
	if responseError := h.XValidator.Validator(&request, constants.MessageErrorFormat, c); responseError.Code != "" {
		return h.reject(c, responseError)
	}

	res, err := h.generation.Review(c.UserContext(), service.ReviewCommand{
		AccountID:  middleware.AccountID(c),
		Subjective: request.Subjective,
		Objective:  request.Objective,
		Assessment: request.Assessment,
		Plan:       request.Plan,
	})
	if err != nil {
		return err
	}

	return h.ok(c, constants.MsgReportReviewed, res)
}

func (h *Handler) GetReports(c *fiber.Ctx) error {
	res, err := h.generation.Reports(c.UserContext(), middleware.AccountID(c))
	if err != nil {
		return err
	}

	return h.ok(c, constants.MsgReportsRetrieved, res)
}

func (h *Handler) CreateDraft(c *fiber.Ctx) error {
	var request SaveDraftRequest
	if responseError := h.XValidator.Validator(&request, constants.MessageErrorFormat, c); responseError.Code != "" {
		return h.reject(c, responseError)
	}

	res, err := h.drafts.Create(c.UserContext(), service.SaveDraftCommand{
		AccountID:         middleware.AccountID(c),
		Title:             request.Title,
		PatientInfo:       request.PatientInfo,
		Subjective:        request.Subjective,
		Objective:         request.Objective,
		Assessment:        request.Assessment,
		Plan:              request.Plan,
		CompletedSections: request.CompletedSections,
	})
	if err != nil {
		return err
	}

	return h.ok(c, constants.MsgDraftCreated, res)
}

func (h *Handler) GetDrafts(c *fiber.Ctx) error {
	res, err := h.drafts.List(c.UserContext(), middleware.AccountID(c))
	if err != nil {
		return err
	}

	return h.ok(c, constants.MsgDraftsRetrieved, res)
}

func (h *Handler) GetDraft(c *fiber.Ctx) error {
	id, err := draftID(c)
	if err != nil {
		return err
	}

	res, err := h.drafts.Get(c.UserContext(), middleware.AccountID(c), id)
	if err != nil {
		return err
	}

	return h.ok(c, constants.MsgDraftRetrieved, res)
}

func (h *Handler) UpdateDraft(c *fiber.Ctx) error {
	id, err := draftID(c)
	if err != nil {
		return err
	}

	var request UpdateDraftRequest
	if responseError := h.XValidator.Validator(&request, constants.MessageErrorFormat, c); responseError.Code != "" {
		return h.reject(c, responseError)
	}

	res, err := h.drafts.Update(c.UserContext(), service.UpdateDraftCommand{
		AccountID:         middleware.AccountID(c),
		ID:                id,
		Title:             request.Title,
		PatientInfo:       request.PatientInfo,
		Subjective:        request.Subjective,
		Objective:         request.Objective,
		Assessment:        request.Assessment,
		Plan:              request.Plan,
		CompletedSections: request.CompletedSections,
	})
	if err != nil {
		return err
	}

	return h.ok(c, constants.MsgDraftUpdated, res)
}

func (h *Handler) DeleteDraft(c *fiber.Ctx) error {
	id, err := draftID(c)
	if err != nil {
		return err
	}

	if err := h.drafts.Delete(c.UserContext(), middleware.AccountID(c), id); err != nil {
		return err
	}

	return h.ok(c, constants.MsgDraftDeleted, nil)
}

func draftID(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, service.NewServiceError(constants.ErrCodeInvalidDraftID, errInvalidDraftID)
	}
	return int64(id), nil
}

func (h *Handler) reject(c *fiber.Ctx, responseError contract.Response) error {
	h.logger.Warn("Request rejected",
		zap.String("path", c.Path()),
		zap.String("code", responseError.Code),
		zap.String("message", responseError.Message),
	)

	responseError.TrackID = middleware.TrackID(c)
	return c.JSON(responseError)
}

func (h *Handler) ok(c *fiber.Ctx, message string, result any) error {
	return c.JSON(contract.Response{
		Successful: true,
		Code:       constants.CodeSuccess,
		Message:    message,
		TrackID:    middleware.TrackID(c),
		Result:     result,
	})
}
