package main

import (
	"context"

	"github.com/kaixxz/MediNote/internal/config"
	"github.com/kaixxz/MediNote/internal/events"
	"github.com/kaixxz/MediNote/internal/metrics"
	"github.com/kaixxz/MediNote/pkg/mq"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,
			metrics.NewRegistry,
			func(reg *prometheus.Registry) prometheus.Registerer { return reg },
			metrics.NewMetrics,
			NewMQConnection,
			NewMQConsumer,
			NewAuditConsumer,
		),
		fx.Invoke(runAuditConsumer),
	).Run()
}

func runAuditConsumer(cfg *config.Config, consumer events.AuditConsumer, broker *mq.Broker, logger *zap.Logger,
	lc fx.Lifecycle,
) {
	appCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := broker.Declare(cfg.RabbitMQ.Exchange, cfg.RabbitMQ.Queue); err != nil {
				logger.Error("Declare topology failed", zap.Error(err))
				return err
			}
			logger.Info("Queue declared", zap.String("queue", cfg.RabbitMQ.Queue))

			go func() {
				if err := consumer.Consume(appCtx); err != nil {
					logger.Error("Audit consumer exited", zap.Error(err))
				}
			}()

			logger.Info("Audit consumer started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping audit consumer")
			cancel()
			return broker.Close()
		},
	})
}

func NewMQConnection(cfg *config.Config, logger *zap.Logger) (*mq.Broker, error) {
	return mq.Dial(cfg.RabbitMQ, logger)
}

func NewMQConsumer(broker *mq.Broker) (mq.Consumer, error) {
	return broker.NewConsumer()
}

func NewAuditConsumer(cfg *config.Config, consumer mq.Consumer, m *metrics.Metrics, logger *zap.Logger) events.AuditConsumer {
	queue := cfg.RabbitMQ.Queue
	if queue == "" {
		queue = events.DefaultQueue
	}
	return events.NewAuditConsumer(consumer, queue, m, logger)
}
