package events

import (
	"context"
	"errors"

	"github.com/kaixxz/MediNote/internal/metrics"
	"github.com/kaixxz/MediNote/pkg/mq"
	"go.uber.org/zap"
)

type AuditConsumer interface {
	Consume(ctx context.Context) error
}

type auditConsumer struct {
	consumer mq.Consumer
	queue    string
	prefetch int
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

func NewAuditConsumer(consumer mq.Consumer, queue string, metrics *metrics.Metrics, logger *zap.Logger) AuditConsumer {
	if queue == "" {
		queue = DefaultQueue
	}

	return &auditConsumer{
		consumer: consumer,
		queue:    queue,
		prefetch: 10,
		metrics:  metrics,
		logger:   logger,
	}
}

func (a *auditConsumer) Consume(ctx context.Context) error {
	return a.consumer.Consume(ctx, a.prefetch, a.queue, a.Handle)
}

// Handle writes one audit line per event. Malformed bodies are returned as
// plain errors so they are dropped rather than redelivered.
func (a *auditConsumer) Handle(_ context.Context, body []byte) error {
	ev, err := Decode(body)
	if err != nil {
		a.metrics.RecordEventConsumed("unknown", "malformed")
		a.logger.Warn("Dropping malformed ledger event", zap.Error(err), zap.ByteString("body", body))
		return err
	}

	a.metrics.RecordEventConsumed(string(ev.Kind), "success")
	a.logger.Info("Ledger audit",
		zap.String("event_id", ev.ID),
		zap.String("account_id", ev.AccountID),
		zap.String("kind", string(ev.Kind)),
		zap.Int64("amount", ev.Amount),
		zap.Int64("credits", ev.Credits),
		zap.String("description", ev.Description),
		zap.Time("occurred_at", ev.OccurredAt),
	)

	return nil
}

// IsMalformed reports whether err came from an undecodable event body.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformedEvent)
}
