package service

import (
	"context"
	"fmt"

	"github.com/kaixxz/MediNote/internal/constants"
	"github.com/kaixxz/MediNote/internal/events"
	"github.com/kaixxz/MediNote/internal/ledger"
	"github.com/kaixxz/MediNote/internal/metrics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type CreditService interface {
	GetCredits(ctx context.Context, accountID string) (CreditsResult, error)
	History(ctx context.Context, accountID string) (HistoryResult, error)
	Purchase(ctx context.Context, cmd PurchaseCommand) (PurchaseResult, error)
	Packages() []PackageResult
}

type credit struct {
	ledger    ledger.Ledger
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func NewCreditService(l ledger.Ledger, publisher events.Publisher, metrics *metrics.Metrics, logger *zap.Logger) CreditService {
	return &credit{ledger: l, publisher: publisher, metrics: metrics, logger: logger}
}

func (s *credit) GetCredits(ctx context.Context, accountID string) (res CreditsResult, err error) {
	ctx, span := tracer.Start(ctx, "CreditService.GetCredits",
		trace.WithAttributes(attribute.String("account.id", accountID)))
	defer func() { endSpan(span, err) }()

	balance, err := s.ledger.GetBalance(ctx, accountID)
	if err != nil {
		s.metrics.RecordBalanceQuery("error")
		s.logger.Error("Failed to get balance", zap.String("account_id", accountID), zap.Error(err))
		return CreditsResult{}, ledgerError(err)
	}

	s.metrics.RecordBalanceQuery("success")

	return creditsResult(balance), nil
}

func (s *credit) History(ctx context.Context, accountID string) (res HistoryResult, err error) {
	ctx, span := tracer.Start(ctx, "CreditService.History",
		trace.WithAttributes(attribute.String("account.id", accountID)))
	defer func() { endSpan(span, err) }()

	balance, err := s.ledger.GetBalance(ctx, accountID)
	if err != nil {
		s.logger.Error("Failed to get balance", zap.String("account_id", accountID), zap.Error(err))
		return HistoryResult{}, ledgerError(err)
	}

	txs, err := s.ledger.ListTransactions(ctx, accountID)
	if err != nil {
		s.logger.Error("Failed to list transactions", zap.String("account_id", accountID), zap.Error(err))
		return HistoryResult{}, ledgerError(err)
	}

	span.SetAttributes(attribute.Int("transactions", len(txs)))

	return HistoryResult{CreditsResult: creditsResult(balance), Transactions: transactionResults(txs)}, nil
}

func (s *credit) Purchase(ctx context.Context, cmd PurchaseCommand) (res PurchaseResult, err error) {
	ctx, span := tracer.Start(ctx, "CreditService.Purchase",
		trace.WithAttributes(
			attribute.String("account.id", cmd.AccountID),
			attribute.String("package", cmd.Package),
		))
	defer func() { endSpan(span, err) }()

	pkg, ok := findPackage(cmd.Package)
	if !ok {
		s.logger.Warn("Unknown credit package", zap.String("package", cmd.Package))
		return PurchaseResult{}, NewServiceError(constants.ErrCodeUnknownPackage,
			fmt.Errorf("%w: %q", ErrUnknownPackage, cmd.Package))
	}

	// A first purchase may arrive before the account was ever read.
	if _, err := s.ledger.GetBalance(ctx, cmd.AccountID); err != nil {
		s.logger.Error("Failed to provision account", zap.String("account_id", cmd.AccountID), zap.Error(err))
		return PurchaseResult{}, ledgerError(err)
	}

	description := fmt.Sprintf("Purchased %s package", pkg.Name)
	if err := s.ledger.Credit(ctx, cmd.AccountID, pkg.Credits, description); err != nil {
		s.logger.Error("Failed to credit account",
			zap.String("account_id", cmd.AccountID),
			zap.String("package", pkg.ID),
			zap.Error(err),
		)
		return PurchaseResult{}, ledgerError(err)
	}

	s.metrics.RecordCredit(pkg.Credits)
	s.metrics.RecordPurchase(pkg.ID)

	balance, err := s.ledger.GetBalance(ctx, cmd.AccountID)
	if err != nil {
		s.logger.Error("Failed to read balance after purchase", zap.String("account_id", cmd.AccountID), zap.Error(err))
		return PurchaseResult{}, ledgerError(err)
	}

	publishEvent(ctx, s.publisher, s.logger, events.LedgerEvent{
		AccountID:   cmd.AccountID,
		Kind:        events.KindCredit,
		Amount:      pkg.Credits,
		Description: description,
		Credits:     balance.Credits,
	})

	s.logger.Info("Credits purchased",
		zap.String("account_id", cmd.AccountID),
		zap.String("package", pkg.ID),
		zap.Int64("purchased", pkg.Credits),
		zap.Int64("credits", balance.Credits),
	)

	return PurchaseResult{
		CreditsResult: creditsResult(balance),
		Package:       pkg.ID,
		Purchased:     pkg.Credits,
	}, nil
}

func (s *credit) Packages() []PackageResult {
	out := make([]PackageResult, 0, len(packages))
	for _, p := range packages {
		out = append(out, p.result())
	}
	return out
}
