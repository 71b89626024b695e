package mq

import (
	"context"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

type Handle func(ctx context.Context, body []byte) error

type Consumer interface {
	Consume(ctx context.Context, prefetch int, queue string, handler Handle) error
}

type RabbitConsumer struct {
	ch  *amqp.Channel
	tag string
}

func NewRabbitConsumer(ch *amqp.Channel) *RabbitConsumer {
	return &RabbitConsumer{ch: ch, tag: "medinote-" + uuid.NewString()}
}

// Tag is the consumer tag registered with the broker; Cancel needs it to
// stop the deliveries.
func (c *RabbitConsumer) Tag() string {
	return c.tag
}

// Consume blocks until ctx is cancelled or the delivery channel closes.
// Successful deliveries are acked; failures are nacked and requeued only
// when the handler returned a RetryableError.
func (c *RabbitConsumer) Consume(ctx context.Context, prefetch int, queue string, handler Handle) error {
	if prefetch <= 0 {
		prefetch = 1
	}

	if err := c.ch.Qos(prefetch, 0, false); err != nil {
		return err
	}

	deliveries, err := c.ch.Consume(queue, c.tag, false, false, false, false, nil)
	if err != nil {
		return err
	}

	return drain(ctx, deliveries, handler, func() { _ = c.ch.Cancel(c.tag, false) })
}

type acker interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func drain(ctx context.Context, deliveries <-chan amqp.Delivery, handler Handle, cancel func()) error {
	for {
		select {
		case <-ctx.Done():
			cancel()
			return ctx.Err()

		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			settle(ctx, d, d.Body, handler)
		}
	}
}

func settle(ctx context.Context, d acker, body []byte, handler Handle) {
	if err := handler(ctx, body); err != nil {
		_ = d.Nack(false, IsRetryable(err))
		return
	}
	_ = d.Ack(false)
}
