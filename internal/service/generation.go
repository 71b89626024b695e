package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kaixxz/MediNote/internal/constants"
	"github.com/kaixxz/MediNote/internal/events"
	"github.com/kaixxz/MediNote/internal/ledger"
	"github.com/kaixxz/MediNote/internal/metrics"
	"github.com/kaixxz/MediNote/internal/model"
	"github.com/kaixxz/MediNote/internal/repository"
	"github.com/kaixxz/MediNote/pkg/aiprovider"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// GenerationCost is the number of credits charged per provider request.
const GenerationCost int64 = 1

type GenerationService interface {
	GenerateSection(ctx context.Context, cmd GenerateSectionCommand) (GenerationResult, error)
	GenerateReport(ctx context.Context, cmd GenerateReportCommand) (GenerationResult, error)
	Review(ctx context.Context, cmd ReviewCommand) (GenerationResult, error)
	// Reports lists the generated reports of an account, newest first.
	Reports(ctx context.Context, accountID string) ([]ReportResult, error)
}

type generation struct {
	ledger    ledger.Ledger
	provider  aiprovider.Provider
	reports   repository.ReportRepository
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func NewGenerationService(l ledger.Ledger, provider aiprovider.Provider, reports repository.ReportRepository,
	publisher events.Publisher, metrics *metrics.Metrics, logger *zap.Logger) GenerationService {
	return &generation{
		ledger:    l,
		provider:  provider,
		reports:   reports,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

func (g *generation) GenerateSection(ctx context.Context, cmd GenerateSectionCommand) (GenerationResult, error) {
	return g.generate(ctx, "generate_section", cmd.AccountID,
		fmt.Sprintf("Generated %s section", cmd.Section), sectionPrompt(cmd))
}

// GenerateReport also stores the report. The credit is already spent by
// then, so a failed save is logged and the text is still returned, without
// a report id.
func (g *generation) GenerateReport(ctx context.Context, cmd GenerateReportCommand) (GenerationResult, error) {
	reportType := reportTypeOrDefault(cmd.ReportType)

	res, err := g.generate(ctx, "generate_report", cmd.AccountID,
		fmt.Sprintf("Generated %s report", reportType), reportPrompt(cmd))
	if err != nil {
		return GenerationResult{}, err
	}

	rep := model.Report{
		AccountID:       cmd.AccountID,
		ReportType:      reportType,
		PatientNotes:    cmd.PatientNotes,
		GeneratedReport: res.Content,
		CreatedAt:       time.Now(),
	}
	if err := g.reports.Create(ctx, &rep); err != nil {
		g.logger.Error("Failed to store generated report",
			zap.String("account_id", cmd.AccountID),
			zap.String("report_type", reportType),
			zap.Error(err),
		)
		return res, nil
	}

	res.ReportID = rep.ID

	return res, nil
}

func (g *generation) Reports(ctx context.Context, accountID string) (res []ReportResult, err error) {
	ctx, span := tracer.Start(ctx, "GenerationService.Reports",
		trace.WithAttributes(attribute.String("account.id", accountID)))
	defer func() { endSpan(span, err) }()

	reports, err := g.reports.ListByAccountID(ctx, accountID)
	if err != nil {
		g.logger.Error("Failed to list reports", zap.String("account_id", accountID), zap.Error(err))
		return nil, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	return reportResults(reports), nil
}

func (g *generation) Review(ctx context.Context, cmd ReviewCommand) (GenerationResult, error) {
	return g.generate(ctx, "review", cmd.AccountID, "Reviewed SOAP report", reviewPrompt(cmd))
}

// generate charges the account before calling the provider. A provider
// known to be unavailable is reported before any charge. A rejected debit
// means the provider is never called; a failed provider call after a
// successful debit is not refunded.
func (g *generation) generate(ctx context.Context, operation, accountID, label string,
	req aiprovider.Request) (res GenerationResult, err error) {
	ctx, span := tracer.Start(ctx, "GenerationService."+operation,
		trace.WithAttributes(attribute.String("account.id", accountID)))
	defer func() { endSpan(span, err) }()

	if _, err := g.ledger.GetBalance(ctx, accountID); err != nil {
		g.logger.Error("Failed to provision account", zap.String("account_id", accountID), zap.Error(err))
		return GenerationResult{}, ledgerError(err)
	}

	if gate, ok := g.provider.(aiprovider.Gate); ok && !gate.Available() {
		g.metrics.RecordProviderCall(operation, "unavailable", 0)
		g.logger.Warn("Provider unavailable, request not charged",
			zap.String("account_id", accountID),
			zap.String("operation", operation),
		)
		return GenerationResult{}, NewServiceError(constants.ErrCodeProviderUnavailable, aiprovider.ErrCircuitOpen)
	}

	if err := g.ledger.Debit(ctx, accountID, GenerationCost, label); err != nil {
		if errors.Is(err, ledger.ErrInsufficientCredits) {
			g.metrics.RecordDebit("insufficient_credits")
			g.logger.Info("Generation rejected, no credits left",
				zap.String("account_id", accountID),
				zap.String("operation", operation),
			)
		} else {
			g.metrics.RecordDebit("error")
			g.logger.Error("Failed to debit account",
				zap.String("account_id", accountID),
				zap.String("operation", operation),
				zap.Error(err),
			)
		}
		return GenerationResult{}, ledgerError(err)
	}

	g.metrics.RecordDebit("success")

	remaining := g.remainingCredits(ctx, accountID)
	publishEvent(ctx, g.publisher, g.logger, events.LedgerEvent{
		AccountID:   accountID,
		Kind:        events.KindDebit,
		Amount:      GenerationCost,
		Description: label,
		Credits:     remaining,
	})

	start := time.Now()
	out, err := g.provider.Complete(ctx, req)
	duration := time.Since(start)
	if err != nil {
		g.metrics.RecordProviderCall(operation, "error", duration)
		g.logger.Error("Provider call failed after debit",
			zap.String("account_id", accountID),
			zap.String("operation", operation),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return GenerationResult{}, NewServiceError(constants.ErrCodeProviderUnavailable, err)
	}

	g.metrics.RecordProviderCall(operation, "success", duration)
	g.logger.Info("Generation completed",
		zap.String("account_id", accountID),
		zap.String("operation", operation),
		zap.Int("output_tokens", out.OutputTokens),
		zap.Duration("duration", duration),
	)

	return GenerationResult{Content: out.Text, Credits: remaining}, nil
}

// remainingCredits reads the balance after a debit. The debit is already
// committed, so a failed read is logged and reported as -1 instead of
// failing the request.
func (g *generation) remainingCredits(ctx context.Context, accountID string) int64 {
	balance, err := g.ledger.GetBalance(ctx, accountID)
	if err != nil {
		g.logger.Warn("Failed to read balance after debit", zap.String("account_id", accountID), zap.Error(err))
		return -1
	}
	return balance.Credits
}
