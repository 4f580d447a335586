package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/contabil/internal/domain"
)

// DefaultEventChannel is the pub/sub channel ledger events go to.
const DefaultEventChannel = "contabil.events"

// EventMessage is the wire format of a published outbox event.
type EventMessage struct {
	ID            string         `json:"id"`
	EventType     string         `json:"event_type"`
	AggregateType string         `json:"aggregate_type"`
	AggregateID   string         `json:"aggregate_id"`
	Payload       map[string]any `json:"payload"`
	CreatedAt     time.Time      `json:"created_at"`
}

// EventPublisher publishes outbox events to a Redis pub/sub channel.
type EventPublisher struct {
	client  redis.UniversalClient
	channel string
}

// NewEventPublisher creates a publisher for channel, or DefaultEventChannel when empty.
func NewEventPublisher(client redis.UniversalClient, channel string) *EventPublisher {
	if channel == "" {
		channel = DefaultEventChannel
	}
	return &EventPublisher{client: client, channel: channel}
}

// Publish sends event to the channel.
func (p *EventPublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	msg, err := json.Marshal(EventMessage{
		ID:            event.ID,
		EventType:     event.EventType,
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		Payload:       event.Payload,
		CreatedAt:     event.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("encoding event %s: %w", event.ID, err)
	}

	return p.client.Publish(ctx, p.channel, msg).Err()
}
