package mocks

import (
	"context"

	"github.com/kaixxz/MediNote/pkg/mq"
	"github.com/stretchr/testify/mock"
)

type MQPublisher struct {
	mock.Mock
}

func (m *MQPublisher) Publish(ctx context.Context, exchange, routingKey string, msg mq.Message) error {
	args := m.Called(ctx, exchange, routingKey, msg)
	return args.Error(0)
}

func (m *MQPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MQConsumer struct {
	mock.Mock
}

func (m *MQConsumer) Consume(ctx context.Context, prefetch int, queue string, handler mq.Handle) error {
	args := m.Called(ctx, prefetch, queue, handler)
	return args.Error(0)
}
