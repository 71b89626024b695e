package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kaixxz/MediNote/internal/model"
	"github.com/kaixxz/MediNote/internal/repository"
	"go.uber.org/zap"
)

var _ Ledger = (*Store)(nil)

// Store is the relational Ledger. Each balance change and its transaction
// row are written in one database transaction.
type Store struct {
	txManager    repository.TxManager
	accounts     repository.AccountRepository
	transactions repository.TransactionRepository
	opts         options
}

func NewStore(txManager repository.TxManager, accounts repository.AccountRepository,
	transactions repository.TransactionRepository, opts ...Option) *Store {
	return &Store{
		txManager:    txManager,
		accounts:     accounts,
		transactions: transactions,
		opts:         newOptions(opts),
	}
}

func (s *Store) GetBalance(ctx context.Context, accountID string) (Balance, error) {
	acc, err := s.accounts.FindByID(ctx, accountID)
	if err == nil {
		return Balance{Credits: acc.Credits, TotalCreditsUsed: acc.TotalCreditsUsed}, nil
	}

	if !errors.Is(err, repository.ErrAccountNotFound) {
		return Balance{}, fmt.Errorf("find account: %w", err)
	}

	now := s.opts.now()
	err = s.accounts.Create(ctx, &model.Account{
		ID:        accountID,
		Credits:   s.opts.startingGrant,
		CreatedAt: now,
		UpdatedAt: now,
	})

	switch {
	case err == nil:
		s.opts.logger.Info("Account provisioned",
			zap.String("account_id", accountID),
			zap.Int64("starting_grant", s.opts.startingGrant))
	case errors.Is(err, repository.ErrAccountExists):
		// a concurrent request provisioned it first
	default:
		return Balance{}, fmt.Errorf("provision account: %w", err)
	}

	acc, err = s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return Balance{}, fmt.Errorf("find account: %w", err)
	}

	return Balance{Credits: acc.Credits, TotalCreditsUsed: acc.TotalCreditsUsed}, nil
}

func (s *Store) GetAccount(ctx context.Context, accountID string) (Account, error) {
	acc, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return Account{}, ErrAccountNotFound
		}
		return Account{}, fmt.Errorf("find account: %w", err)
	}

	return Account{
		ID:               acc.ID,
		Credits:          acc.Credits,
		TotalCreditsUsed: acc.TotalCreditsUsed,
		CreatedAt:        acc.CreatedAt,
		LastPurchaseAt:   acc.LastPurchaseAt,
	}, nil
}

func (s *Store) Debit(ctx context.Context, accountID string, amount int64, description string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	start := time.Now()

	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		affected, err := s.accounts.DecrementCredits(ctx, accountID, amount)
		if err != nil {
			return fmt.Errorf("decrement credits: %w", err)
		}

		if affected == 0 {
			return s.explainRejectedDebit(ctx, accountID)
		}

		usage := model.Transaction{
			AccountID:   accountID,
			Kind:        model.TxKindUsage,
			Amount:      -amount,
			Description: description,
			CreatedAt:   s.opts.now(),
		}
		if err := s.transactions.Create(ctx, &usage); err != nil {
			return fmt.Errorf("record usage transaction: %w", err)
		}

		return nil
	})

	if err != nil {
		if !errors.Is(err, ErrInsufficientCredits) {
			s.opts.logger.Error("Debit failed",
				zap.String("account_id", accountID),
				zap.Int64("amount", amount),
				zap.Duration("duration", time.Since(start)),
				zap.Error(err))
		}
		return err
	}

	s.opts.logger.Debug("Debit applied",
		zap.String("account_id", accountID),
		zap.Int64("amount", amount),
		zap.Duration("duration", time.Since(start)))

	return nil
}

// explainRejectedDebit tells a missing account apart from a short balance
// after the guarded update changed nothing.
func (s *Store) explainRejectedDebit(ctx context.Context, accountID string) error {
	_, err := s.accounts.FindByID(ctx, accountID)
	if err == nil {
		return ErrInsufficientCredits
	}

	if errors.Is(err, repository.ErrAccountNotFound) {
		return ErrAccountNotFound
	}

	return fmt.Errorf("find account: %w", err)
}

func (s *Store) Credit(ctx context.Context, accountID string, amount int64, description string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	start := time.Now()

	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		now := s.opts.now()

		affected, err := s.accounts.IncrementCredits(ctx, accountID, amount, now)
		if err != nil {
			return fmt.Errorf("increment credits: %w", err)
		}

		if affected == 0 {
			return ErrAccountNotFound
		}

		purchase := model.Transaction{
			AccountID:   accountID,
			Kind:        model.TxKindPurchase,
			Amount:      amount,
			Description: description,
			CreatedAt:   now,
		}
		if err := s.transactions.Create(ctx, &purchase); err != nil {
			return fmt.Errorf("record purchase transaction: %w", err)
		}

		return nil
	})

	if err != nil {
		s.opts.logger.Error("Credit failed",
			zap.String("account_id", accountID),
			zap.Int64("amount", amount),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return err
	}

	s.opts.logger.Debug("Credit applied",
		zap.String("account_id", accountID),
		zap.Int64("amount", amount),
		zap.Duration("duration", time.Since(start)))

	return nil
}

func (s *Store) ListTransactions(ctx context.Context, accountID string) ([]Transaction, error) {
	rows, err := s.transactions.ListByAccountID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	out := make([]Transaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, Transaction{
			ID:          row.ID,
			AccountID:   row.AccountID,
			Kind:        Kind(row.Kind),
			Amount:      row.Amount,
			Description: row.Description,
			CreatedAt:   row.CreatedAt,
		})
	}

	return out, nil
}
