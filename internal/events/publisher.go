package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/kaixxz/MediNote/internal/metrics"
	"github.com/kaixxz/MediNote/pkg/mq"
	"go.uber.org/zap"
)

type Publisher interface {
	Publish(ctx context.Context, ev LedgerEvent) error
}

type rabbitPublisher struct {
	publisher  mq.Publisher
	exchange   string
	routingKey string
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewRabbitPublisher routes events to queue, through exchange when one is
// set and through the default exchange otherwise.
func NewRabbitPublisher(publisher mq.Publisher, exchange, queue string, metrics *metrics.Metrics, logger *zap.Logger) Publisher {
	if queue == "" {
		queue = DefaultQueue
	}

	return &rabbitPublisher{
		publisher:  publisher,
		exchange:   exchange,
		routingKey: queue,
		metrics:    metrics,
		logger:     logger,
	}
}

func (p *rabbitPublisher) Publish(ctx context.Context, ev LedgerEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode ledger event: %w", err)
	}

	err = p.publisher.Publish(ctx, p.exchange, p.routingKey, mq.Message{ID: ev.ID, Type: string(ev.Kind), Body: body})
	if err != nil {
		p.metrics.RecordEventPublished(string(ev.Kind), "error")
		return err
	}

	p.metrics.RecordEventPublished(string(ev.Kind), "success")
	p.logger.Debug("Ledger event published",
		zap.String("event_id", ev.ID),
		zap.String("account_id", ev.AccountID),
		zap.String("kind", string(ev.Kind)),
	)

	return nil
}

type noopPublisher struct{}

// NewNoopPublisher drops every event. It is used when RabbitMQ is disabled.
func NewNoopPublisher() Publisher { return noopPublisher{} }

func (noopPublisher) Publish(context.Context, LedgerEvent) error { return nil }
