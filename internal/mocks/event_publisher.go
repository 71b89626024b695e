package mocks

import (
	"context"

	"github.com/kaixxz/MediNote/internal/events"
	"github.com/stretchr/testify/mock"
)

type EventPublisher struct {
	mock.Mock
}

func (m *EventPublisher) Publish(ctx context.Context, ev events.LedgerEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}
