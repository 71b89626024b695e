package main

import (
	"context"
	"fmt"
	"time"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/kaixxz/MediNote/internal/api"
	v1 "github.com/kaixxz/MediNote/internal/api/v1"
	"github.com/kaixxz/MediNote/internal/api/validator"
	"github.com/kaixxz/MediNote/internal/config"
	"github.com/kaixxz/MediNote/internal/database"
	"github.com/kaixxz/MediNote/internal/events"
	"github.com/kaixxz/MediNote/internal/ledger"
	"github.com/kaixxz/MediNote/internal/metrics"
	"github.com/kaixxz/MediNote/internal/repository"
	"github.com/kaixxz/MediNote/internal/service"
	"github.com/kaixxz/MediNote/internal/tracing"
	"github.com/kaixxz/MediNote/pkg/aiprovider"
	pkgdatabase "github.com/kaixxz/MediNote/pkg/database"
	"github.com/kaixxz/MediNote/pkg/httpclient"
	"github.com/kaixxz/MediNote/pkg/mq"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			NewLogger,
			metrics.NewRegistry,
			AsRegisterer,
			AsGatherer,
			metrics.NewMetrics,
			NewDB,
			NewLedger,
			repository.NewDraftRepository,
			repository.NewReportRepository,
			NewXValidator,
			NewProvider,
			NewEventPublisher,

			service.NewCreditService,
			service.NewGenerationService,
			service.NewDraftService,
			v1.NewHandler,
			api.NewApp,
		),
		fx.Invoke(startTracing, startSystemCollector, startServer),
	).Run()
}

func startServer(app *fiber.App, cfg *config.Config, logger *zap.Logger, lc fx.Lifecycle) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := app.Listen(cfg.API.Port); err != nil {
					logger.Error("HTTP server stopped", zap.Error(err))
				}
			}()
			logger.Info("HTTP server started", zap.String("port", cfg.API.Port))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})
}

func AsRegisterer(reg *prometheus.Registry) prometheus.Registerer { return reg }

func AsGatherer(reg *prometheus.Registry) prometheus.Gatherer { return reg }

func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Log.Development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// NewDB opens the relational store for drafts and reports, and for the
// ledger when the database backend is selected. The in-memory ledger gets a
// private in-memory sqlite database so nothing is written to disk.
func NewDB(cfg *config.Config, m *metrics.Metrics, logger *zap.Logger, lc fx.Lifecycle) (*gorm.DB, v1.HealthCheck, error) {
	dbCfg := cfg.Database
	if cfg.Ledger.Backend == config.LedgerBackendMemory {
		dbCfg = pkgdatabase.Config{Driver: pkgdatabase.DriverSQLite, DSN: ":memory:", LogLevel: cfg.Database.LogLevel}
	}

	db, err := pkgdatabase.NewConnection(context.Background(), dbCfg, logger)
	if err != nil {
		return nil, nil, err
	}

	if err := database.Migrate(db); err != nil {
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}

	collector, err := metrics.NewDatabaseCollector(m, logger, db)
	if err != nil {
		return nil, nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			collector.Start(collectInterval(cfg))
			return nil
		},
		OnStop: func(context.Context) error {
			collector.Stop()
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	health := func(context.Context) error { return collector.HealthCheck() }

	return db, health, nil
}

func NewLedger(cfg *config.Config, db *gorm.DB, logger *zap.Logger) ledger.Ledger {
	opts := []ledger.Option{
		ledger.WithStartingGrant(cfg.Ledger.StartingGrant),
		ledger.WithLogger(logger),
	}

	if cfg.Ledger.Backend == config.LedgerBackendMemory {
		logger.Warn("Using in-memory ledger, balances are lost on restart")
		return ledger.NewMemory(opts...)
	}

	return ledger.NewStore(
		repository.NewTransactionManager(db),
		repository.NewAccountRepository(db),
		repository.NewTransactionRepository(db),
		opts...,
	)
}

func NewXValidator(m *metrics.Metrics) (validator.IXValidator, error) {
	return validator.NewXValidator(govalidator.New(), m)
}

// NewProvider calls the hosted model when enabled, guarded by a circuit
// breaker, and falls back to offline drafts otherwise.
func NewProvider(cfg *config.Config, logger *zap.Logger) aiprovider.Provider {
	if !cfg.Provider.Enable {
		logger.Warn("Text generation provider disabled, serving offline drafts")
		return aiprovider.NewStatic()
	}

	client := httpclient.NewHTTPClient(cfg.Provider.Timeout)
	anthropic := aiprovider.NewAnthropic(cfg.Provider, client)

	return aiprovider.NewBreaker("anthropic", cfg.Provider.Breaker, anthropic, logger)
}

func NewEventPublisher(cfg *config.Config, m *metrics.Metrics, logger *zap.Logger, lc fx.Lifecycle) (events.Publisher, error) {
	if !cfg.RabbitMQ.Enable {
		return events.NewNoopPublisher(), nil
	}

	broker, err := mq.Dial(cfg.RabbitMQ, logger)
	if err != nil {
		return nil, err
	}

	if err := broker.Declare(cfg.RabbitMQ.Exchange, cfg.RabbitMQ.Queue); err != nil {
		_ = broker.Close()
		return nil, err
	}

	publisher, err := broker.NewPublisher()
	if err != nil {
		_ = broker.Close()
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			_ = publisher.Close()
			return broker.Close()
		},
	})

	return events.NewRabbitPublisher(publisher, cfg.RabbitMQ.Exchange, cfg.RabbitMQ.Queue, m, logger), nil
}

func startTracing(cfg *config.Config, logger *zap.Logger, lc fx.Lifecycle) error {
	if !cfg.Tracing.Enable {
		return nil
	}

	provider, err := tracing.Init(context.Background(), cfg.Tracing)
	if err != nil {
		return err
	}

	logger.Info("Tracing enabled", zap.String("endpoint", cfg.Tracing.Endpoint))

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return provider.Shutdown(ctx)
		},
	})

	return nil
}

func startSystemCollector(cfg *config.Config, m *metrics.Metrics, logger *zap.Logger, lc fx.Lifecycle) {
	m.SetServiceVersion(metrics.Version, metrics.Commit, metrics.BuildDate)

	collector := metrics.NewSystemCollector(m, logger)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			collector.Start(collectInterval(cfg))
			return nil
		},
		OnStop: func(context.Context) error {
			collector.Stop()
			return nil
		},
	})
}

func collectInterval(cfg *config.Config) time.Duration {
	if cfg.Metrics.CollectInterval <= 0 {
		return 15 * time.Second
	}
	return cfg.Metrics.CollectInterval
}
