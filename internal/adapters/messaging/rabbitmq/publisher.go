package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"pet-adoption/internal/platform/breaker"
	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/ports/notify"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker"
)

const DefaultExchange = "pet-adoption.events"

// Publisher implementa notify.Publisher sobre un exchange topic.
// Routing key = tipo de evento (alert.matched, adoption.decided, ...).
type Publisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	cb       *gobreaker.CircuitBreaker

	// amqp.Channel no es seguro para publicar concurrentemente.
	mu sync.Mutex
}

func New(url, exchange string, log logger.Logger) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}

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
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &Publisher{
		conn:     conn,
		ch:       ch,
		exchange: exchange,
		cb:       breaker.New("amqp", log),
	}, nil
}

func (p *Publisher) Publish(ctx context.Context, evt notify.Event) error {
	msg, err := publishing(evt)
	if err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) <= 0 {
		return ctx.Err()
	}

	_, err = p.cb.Execute(func() (interface{}, error) {
		p.mu.Lock()
		defer p.mu.Unlock()
		return nil, p.ch.PublishWithContext(ctx, p.exchange, string(evt.Type), false, false, msg)
	})
	return err
}

func publishing(evt notify.Event) (amqp.Publishing, error) {
	body, err := json.Marshal(evt)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal event: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    evt.ID,
		Type:         string(evt.Type),
		Timestamp:    evt.OccurredAt,
		Body:         body,
	}, nil
}

// Ping lo usa /health/ready.
func (p *Publisher) Ping(context.Context) error {
	if p.conn == nil || p.conn.IsClosed() {
		return amqp.ErrClosed
	}
	return nil
}

func (p *Publisher) Close() error {
	if p.ch != nil {
		if err := p.ch.Close(); err != nil {
			return err
		}
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
