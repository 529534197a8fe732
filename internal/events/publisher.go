// Package events publishes domain events to RabbitMQ for downstream
// consumers (analytics, fulfilment). Publishing is best effort: a broker
// outage never fails the request that produced the event.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	OrderCreated          = "order.created"
	OrderPaymentSucceeded = "order.payment_succeeded"
	OrderPaymentFailed    = "order.payment_failed"
)

const queueName = "ecommerce.events"

type Event struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, eventType string, payload any) error
	Close() error
}

type amqpPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewPublisher(url string) (Publisher, error) {

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()

		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if _, err := channel.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()

		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return &amqpPublisher{conn: conn, channel: channel}, nil
}

func (p *amqpPublisher) Publish(ctx context.Context, eventType string, payload any) error {

	body, err := json.Marshal(Event{
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.channel.PublishWithContext(ctx, "", queueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

func (p *amqpPublisher) Close() error {

	if err := p.channel.Close(); err != nil {
		p.conn.Close()

		return err
	}

	return p.conn.Close()
}

type noopPublisher struct{}

// NewNoopPublisher is used when RabbitMQ is disabled in configuration.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, string, any) error { return nil }

func (noopPublisher) Close() error { return nil }
