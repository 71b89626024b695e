package mq

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type Config struct {
	Enable   bool   `mapstructure:"enable"`
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
	Queue    string `mapstructure:"queue"`
}

// Broker owns the AMQP connection. Publishers and consumers each get their
// own channel.
type Broker struct {
	conn   *amqp.Connection
	logger *zap.Logger
}

func Dial(cfg Config, logger *zap.Logger) (*Broker, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ", zap.Error(err))
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	logger.Info("Connected to RabbitMQ")

	return &Broker{conn: conn, logger: logger}, nil
}

func (b *Broker) channel() (*amqp.Channel, error) {
	if b.conn == nil || b.conn.IsClosed() {
		return nil, ErrConnectionClosed
	}

	ch, err := b.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	return ch, nil
}

// Declare creates the durable queue and, when exchange is set, a durable
// direct exchange bound to it with the queue name as routing key.
func (b *Broker) Declare(exchange, queue string) error {
	ch, err := b.channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}

	if exchange != "" {
		if err := ch.ExchangeDeclare(exchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
		}
		if err := ch.QueueBind(queue, queue, exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue %s: %w", queue, err)
		}
	}

	b.logger.Info("RabbitMQ topology declared",
		zap.String("exchange", exchange),
		zap.String("queue", queue),
	)

	return nil
}

func (b *Broker) NewPublisher() (Publisher, error) {
	ch, err := b.channel()
	if err != nil {
		return nil, err
	}

	return NewRabbitPublisher(ch), nil
}

func (b *Broker) NewConsumer() (Consumer, error) {
	ch, err := b.channel()
	if err != nil {
		return nil, err
	}

	return NewRabbitConsumer(ch), nil
}

func (b *Broker) Close() error {
	if b.conn != nil && !b.conn.IsClosed() {
		return b.conn.Close()
	}

	return nil
}
