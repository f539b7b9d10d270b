package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go"
	"github.com/frahmantamala/ticketing/internal"
	"github.com/frahmantamala/ticketing/internal/core/events"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	dialAttempts   = 5
	dialDelay      = time.Second
	dialMaxDelay   = 10 * time.Second
	publishTimeout = 5 * time.Second
)

// Channel is the part of *amqp.Channel the publisher uses.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Envelope is the JSON body of every published message.
type Envelope struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data"`
}

// Publisher forwards ticket events to a topic exchange, using the event type
// as routing key.
type Publisher struct {
	conn     *amqp.Connection
	channel  Channel
	exchange string
	logger   *slog.Logger
	mu       sync.Mutex
}

func NewPublisher(cfg internal.MessagingConfig, logger *slog.Logger) (*Publisher, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("amqp url is required")
	}

	var conn *amqp.Connection
	err := retry.Do(
		func() error {
			var dialErr error
			conn, dialErr = amqp.Dial(cfg.URL)
			return dialErr
		},
		retry.Attempts(dialAttempts),
		retry.Delay(dialDelay),
		retry.MaxDelay(dialMaxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn("amqp dial failed, retrying", "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		cfg.Exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	p := newPublisher(ch, cfg.Exchange, logger)
	p.conn = conn
	logger.Info("rabbitmq publisher ready", "exchange", cfg.Exchange)
	return p, nil
}

func newPublisher(ch Channel, exchange string, logger *slog.Logger) *Publisher {
	return &Publisher{channel: ch, exchange: exchange, logger: logger}
}

// Register forwards every ticket event published on bus.
func (p *Publisher) Register(bus *events.EventBus) {
	bus.SubscribeAll(events.TicketEventTypes, p.Handle)
}

func (p *Publisher) Handle(ctx context.Context, event events.Event) error {
	body, err := json.Marshal(Envelope{
		ID:         event.EventID(),
		Type:       event.EventType(),
		OccurredAt: event.OccurredAt().UTC(),
		Data:       event.Payload(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx, p.exchange, event.EventType(), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.EventID(),
		Timestamp:    event.OccurredAt(),
		Type:         event.EventType(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.EventType(), err)
	}

	p.logger.Debug("event forwarded", "event_type", event.EventType(), "event_id", event.EventID())
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	if p.channel != nil {
		errs = append(errs, p.channel.Close())
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	return errors.Join(errs...)
}
