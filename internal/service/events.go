package service

import (
	"context"
	"time"

	"github.com/kaixxz/MediNote/internal/events"
	"go.uber.org/zap"
)

// publishEvent never fails the caller; the balance change is already
// committed when it runs.
func publishEvent(ctx context.Context, publisher events.Publisher, logger *zap.Logger, ev events.LedgerEvent) {
	ev.OccurredAt = time.Now().UTC()

	if err := publisher.Publish(ctx, ev); err != nil {
		logger.Warn("Failed to publish ledger event",
			zap.Error(err),
			zap.String("account_id", ev.AccountID),
			zap.String("kind", string(ev.Kind)),
		)
	}
}
