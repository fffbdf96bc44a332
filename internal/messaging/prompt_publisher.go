package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

const (
	// ExchangePromptUpdates is the fanout exchange for prompt change events.
	ExchangePromptUpdates = "prompt_updates"
)

// Prompt event types.
const (
	PromptEventCreated          = "prompt.created"
	PromptEventUpdated          = "prompt.updated"
	PromptEventDeleted          = "prompt.deleted"
	PromptEventVersionCreated   = "prompt.version.created"
	PromptEventVersionUpdated   = "prompt.version.updated"
	PromptEventVersionDeleted   = "prompt.version.deleted"
	PromptEventVersionActivated = "prompt.version.activated"
)

// PromptEvent notifies interested consumers about a prompt change.
type PromptEvent struct {
	Type      string    `json:"type"`
	PromptID  int64     `json:"promptId"`
	VersionID *int64    `json:"versionId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// PromptEventPublisher publishes prompt change events. Implementations
// must be safe for concurrent use by handlers.
type PromptEventPublisher interface {
	PublishPromptEvent(ctx context.Context, event PromptEvent) error
	Close() error
}

// RabbitMQPromptPublisher publishes prompt events to a fanout exchange.
type RabbitMQPromptPublisher struct {
	conn *amqp091.Connection
	ch   *amqp091.Channel
}

// NewRabbitMQPromptPublisher declares the exchange and returns a
// publisher bound to it. The connection lifecycle is owned by the caller.
func NewRabbitMQPromptPublisher(conn *amqp091.Connection) (*RabbitMQPromptPublisher, error) {
	if conn == nil {
		return nil, fmt.Errorf("rabbitmq connection is nil")
	}

	ch, err := conn.Channel()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open a channel")
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	// Durable fanout exchange, survives broker restarts.
	err = ch.ExchangeDeclare(
		ExchangePromptUpdates, // name
		"fanout",              // type
		true,                  // durable
		false,                 // auto-deleted
		false,                 // internal
		false,                 // no-wait
		nil,                   // arguments
	)
	if err != nil {
		_ = ch.Close()
		log.Error().Err(err).Str("exchange", ExchangePromptUpdates).Msg("Failed to declare exchange")
		return nil, fmt.Errorf("failed to declare exchange '%s': %w", ExchangePromptUpdates, err)
	}

	log.Info().Str("exchange", ExchangePromptUpdates).Msg("Prompt update exchange declared successfully")
	return &RabbitMQPromptPublisher{conn: conn, ch: ch}, nil
}

// PublishPromptEvent publishes one prompt change event.
func (p *RabbitMQPromptPublisher) PublishPromptEvent(ctx context.Context, event PromptEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Interface("event", event).Msg("Failed to marshal prompt event")
		return fmt.Errorf("failed to marshal prompt event: %w", err)
	}

	err = p.ch.PublishWithContext(ctx,
		ExchangePromptUpdates, // exchange
		"",                    // routing key (unused for fanout)
		false,                 // mandatory
		false,                 // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			Body:        body,
			Timestamp:   time.Now(),
		},
	)
	if err != nil {
		log.Error().Err(err).Interface("event", event).Msg("Failed to publish prompt event")
		return fmt.Errorf("failed to publish prompt event: %w", err)
	}

	log.Debug().Interface("event", event).Msg("Prompt event published")
	return nil
}

// Close closes the RabbitMQ channel.
func (p *RabbitMQPromptPublisher) Close() error {
	if p.ch != nil {
		return p.ch.Close()
	}
	return nil
}

// NoopPromptPublisher discards events. Used when no broker is configured.
type NoopPromptPublisher struct{}

func (NoopPromptPublisher) PublishPromptEvent(ctx context.Context, event PromptEvent) error {
	return nil
}

func (NoopPromptPublisher) Close() error { return nil }
