package mq

import (
	"context"
	"errors"
	"sync"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingAcknowledger struct {
	mu      sync.Mutex
	acked   []uint64
	nacked  []uint64
	requeue []bool
}

func (r *recordingAcknowledger) Ack(tag uint64, _ bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.acked = append(r.acked, tag)
	return nil
}

func (r *recordingAcknowledger) Nack(tag uint64, _ bool, requeue bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nacked = append(r.nacked, tag)
	r.requeue = append(r.requeue, requeue)
	return nil
}

func (r *recordingAcknowledger) Reject(tag uint64, requeue bool) error {
	return r.Nack(tag, false, requeue)
}

func TestDrain_SettlesEachDelivery(t *testing.T) {
	ack := &recordingAcknowledger{}
	deliveries := make(chan amqp.Delivery, 3)
	deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: []byte("ok")}
	deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 2, Body: []byte("bad")}
	deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 3, Body: []byte("retry")}
	close(deliveries)

	handler := func(_ context.Context, body []byte) error {
		switch string(body) {
		case "bad":
			return errors.New("malformed")
		case "retry":
			return Retryable(errors.New("db down"))
		}
		return nil
	}

	err := drain(context.Background(), deliveries, handler, func() {})
	require.NoError(t, err)

	assert.Equal(t, []uint64{1}, ack.acked)
	assert.Equal(t, []uint64{2, 3}, ack.nacked)
	assert.Equal(t, []bool{false, true}, ack.requeue)
}

func TestDrain_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cancelled := false
	err := drain(ctx, make(chan amqp.Delivery), func(context.Context, []byte) error { return nil }, func() { cancelled = true })

	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, cancelled)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(Retryable(errors.New("x"))))
	assert.False(t, IsRetryable(errors.New("x")))
	assert.False(t, IsRetryable(nil))
}

func TestNewRabbitConsumer_UsesExplicitTag(t *testing.T) {
	a := NewRabbitConsumer(nil)
	b := NewRabbitConsumer(nil)

	assert.NotEmpty(t, a.Tag())
	assert.Contains(t, a.Tag(), "medinote-")
	assert.NotEqual(t, a.Tag(), b.Tag())
}
