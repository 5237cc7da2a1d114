package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// RabbitMQ publishes and consumes payment events on a single durable queue.
type RabbitMQ struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	logger  *zap.Logger
	mu      sync.Mutex
}

// NewRabbitMQ dials url, opens a channel and declares queue.
func NewRabbitMQ(url, queue string, logger *zap.Logger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}
	_, err = ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}
	logger.Info("Connected to RabbitMQ", zap.String("queue", queue))
	return &RabbitMQ{conn: conn, channel: ch, queue: queue, logger: logger}, nil
}

func (r *RabbitMQ) PublishPaymentRecorded(ctx context.Context, event PaymentRecorded) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode payment event: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	err = r.channel.PublishWithContext(ctx,
		"",      // default exchange
		r.queue, // routing key (queue name)
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish to queue %s: %w", r.queue, err)
	}
	return nil
}

// Consume delivers payment events to handler until ctx is cancelled or the
// channel closes. Messages are acked after handler succeeds; undecodable
// messages and handler failures are dropped so they cannot loop forever.
func (r *RabbitMQ) Consume(ctx context.Context, handler func(context.Context, PaymentRecorded) error) error {
	msgs, err := r.channel.Consume(
		r.queue, // queue
		"",      // consumer
		false,   // auto-ack
		false,   // exclusive
		false,   // no-local
		false,   // no-wait
		nil,     // args
	)
	if err != nil {
		return fmt.Errorf("failed to register a consumer for queue %s: %w", r.queue, err)
	}

	r.logger.Info("Waiting for payment events", zap.String("queue", r.queue))
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			var event PaymentRecorded
			if err := json.Unmarshal(d.Body, &event); err != nil {
				r.logger.Error("Dropping undecodable payment event", zap.Error(err))
				_ = d.Nack(false, false)
				continue
			}
			if err := handler(ctx, event); err != nil {
				r.logger.Error("Payment event handler failed", zap.String("paymentId", event.PaymentID), zap.Error(err))
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Close closes the RabbitMQ channel and connection.
func (r *RabbitMQ) Close() error {
	var lastErr error
	if r.channel != nil {
		if err := r.channel.Close(); err != nil {
			lastErr = err
		}
	}
	if r.conn != nil {
		if err := r.conn.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
