// Package messaging publishes appointment events to RabbitMQ.
package messaging

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker"

	"github.com/sowmya-kancharla03/CuraCare/internal/config"
)

// channel is the subset of *amqp.Channel the broker publishes through.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitMQBroker implements ports.AppointmentEventPublisher on a topic
// exchange. Consumers bind queues by event type.
type RabbitMQBroker struct {
	conn     *amqp.Connection
	ch       channel
	exchange string
	cb       *gobreaker.CircuitBreaker
}

func NewRabbitMQBroker(amqpURL, exchange string) (*RabbitMQBroker, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	// Idempotent
	err = ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // autoDelete
		false, // internal
		false, // noWait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	b := newBroker(ch, exchange)
	b.conn = conn
	return b, nil
}

func newBroker(ch channel, exchange string) *RabbitMQBroker {
	return &RabbitMQBroker{
		ch:       ch,
		exchange: exchange,
		cb:       config.NewCircuitBreaker("RabbitMQ-Publisher"),
	}
}

// IsClosed reports whether the underlying connection has gone away.
func (rmq *RabbitMQBroker) IsClosed() bool {
	return rmq.conn != nil && rmq.conn.IsClosed()
}

func (rmq *RabbitMQBroker) Close() error {
	if rmq.ch != nil {
		if err := rmq.ch.Close(); err != nil {
			return err
		}
	}
	if rmq.conn != nil {
		return rmq.conn.Close()
	}
	return nil
}
