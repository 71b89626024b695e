// Package cli implements ledgerctl, the operator tool for inspecting and
// adjusting credit balances outside the HTTP API.
package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/kaixxz/MediNote/internal/config"
	"github.com/kaixxz/MediNote/internal/database"
	"github.com/kaixxz/MediNote/internal/ledger"
	"github.com/kaixxz/MediNote/internal/repository"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const commandTimeout = 30 * time.Second

// Backend is an opened ledger together with its storage hooks. Migrate and
// Close may be nil.
type Backend struct {
	Ledger  ledger.Ledger
	Migrate func() error
	Close   func() error
}

type Opener func(cfg *config.Config, logger *zap.Logger) (*Backend, error)

// Open builds the ledger selected by cfg.Ledger.Backend.
func Open(cfg *config.Config, logger *zap.Logger) (*Backend, error) {
	opts := []ledger.Option{
		ledger.WithStartingGrant(cfg.Ledger.StartingGrant),
		ledger.WithLogger(logger),
	}

	if cfg.Ledger.Backend == config.LedgerBackendMemory {
		return &Backend{Ledger: ledger.NewMemory(opts...)}, nil
	}

	db, err := database.NewConnection(cfg, logger)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	return &Backend{
		Ledger: ledger.NewStore(
			repository.NewTransactionManager(db),
			repository.NewAccountRepository(db),
			repository.NewTransactionRepository(db),
			opts...,
		),
		Migrate: func() error { return database.Migrate(db) },
		Close:   sqlDB.Close,
	}, nil
}

type app struct {
	open      Opener
	configDir string
	verbose   bool
}

func NewRootCommand(open Opener) *cobra.Command {
	a := &app{open: open}

	root := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Inspect and adjust MediNote credit balances",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&a.configDir, "config", "c", "./config", "Directory containing config.yml")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable development logging")

	root.AddCommand(
		a.balanceCommand(),
		a.creditCommand(),
		a.debitCommand(),
		a.historyCommand(),
		a.migrateCommand(),
	)

	return root
}

func (a *app) withBackend(cmd *cobra.Command, fn func(ctx context.Context, b *Backend) error) error {
	cfg, err := config.LoadFrom(a.configDir)
	if err != nil {
		return err
	}

	logger := zap.NewNop()
	if a.verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			return err
		}
	}
	defer func() { _ = logger.Sync() }()

	b, err := a.open(cfg, logger)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	if b.Close != nil {
		defer func() { _ = b.Close() }()
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	return fn(ctx, b)
}

func (a *app) balanceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "balance ACCOUNT",
		Short: "Show the balance of an account, provisioning it if needed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBackend(cmd, func(ctx context.Context, b *Backend) error {
				return printBalance(ctx, cmd, b.Ledger, args[0])
			})
		},
	}
}

func (a *app) creditCommand() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "credit ACCOUNT AMOUNT",
		Short: "Add credits to an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			return a.withBackend(cmd, func(ctx context.Context, b *Backend) error {
				if _, err := b.Ledger.GetBalance(ctx, args[0]); err != nil {
					return err
				}
				if err := b.Ledger.Credit(ctx, args[0], amount, description); err != nil {
					return err
				}
				return printBalance(ctx, cmd, b.Ledger, args[0])
			})
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "Manual credit adjustment", "Transaction description")

	return cmd
}

func (a *app) debitCommand() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "debit ACCOUNT AMOUNT",
		Short: "Remove credits from an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			return a.withBackend(cmd, func(ctx context.Context, b *Backend) error {
				if _, err := b.Ledger.GetBalance(ctx, args[0]); err != nil {
					return err
				}
				err := b.Ledger.Debit(ctx, args[0], amount, description)
				if errors.Is(err, ledger.ErrInsufficientCredits) {
					return fmt.Errorf("account %s cannot cover %d credits: %w", args[0], amount, err)
				}
				if err != nil {
					return err
				}
				return printBalance(ctx, cmd, b.Ledger, args[0])
			})
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "Manual debit adjustment", "Transaction description")

	return cmd
}

func (a *app) historyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "history ACCOUNT",
		Short: "List the transactions of an account, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBackend(cmd, func(ctx context.Context, b *Backend) error {
				if _, err := b.Ledger.GetAccount(ctx, args[0]); err != nil {
					return err
				}

				txs, err := b.Ledger.ListTransactions(ctx, args[0])
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tKIND\tAMOUNT\tCREATED\tDESCRIPTION")
				for _, tx := range txs {
					fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n",
						tx.ID, tx.Kind, tx.Amount, tx.CreatedAt.UTC().Format(time.RFC3339), tx.Description)
				}
				return w.Flush()
			})
		},
	}
}

func (a *app) migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the ledger tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withBackend(cmd, func(_ context.Context, b *Backend) error {
				if b.Migrate == nil {
					_, err := fmt.Fprintln(cmd.OutOrStdout(), "in-memory ledger, nothing to migrate")
					return err
				}
				if err := b.Migrate(); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "migration complete")
				return err
			})
		},
	}
}

func parseAmount(s string) (int64, error) {
	amount, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if amount <= 0 {
		return 0, ledger.ErrInvalidAmount
	}
	return amount, nil
}

func printBalance(ctx context.Context, cmd *cobra.Command, l ledger.Ledger, accountID string) error {
	balance, err := l.GetBalance(ctx, accountID)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "account %s: %d credits, %d used\n",
		accountID, balance.Credits, balance.TotalCreditsUsed)
	return err
}
