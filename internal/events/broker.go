package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Broker wraps one AMQP connection and channel. It declares the topic
// exchange lazily and is safe for use from multiple goroutines.
type Broker struct {
	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func Dial(url string) (*Broker, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &Broker{conn: conn, ch: ch}, nil
}

func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ch != nil {
		_ = b.ch.Close()
	}
	if b.conn != nil {
		_ = b.conn.Close()
	}
}

// PublishJSON publishes msg as a persistent JSON message under routingKey.
func (b *Broker) PublishJSON(ctx context.Context, routingKey string, msg any) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ch.PublishWithContext(pubCtx, Exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

// Consume declares a durable queue, binds it to the given routing keys and
// returns the delivery channel. Deliveries must be acked by the caller.
func (b *Broker) Consume(queue string, bindingKeys ...string) (<-chan amqp.Delivery, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	q, err := b.ch.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("queue declare: %w", err)
	}
	for _, key := range bindingKeys {
		if err := b.ch.QueueBind(q.Name, key, Exchange, false, nil); err != nil {
			return nil, fmt.Errorf("queue bind %s: %w", key, err)
		}
	}
	deliveries, err := b.ch.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("consume: %w", err)
	}
	return deliveries, nil
}
