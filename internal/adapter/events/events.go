// Package events publishes workflow events (ticket resolutions, status
// changes) to a message broker.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Event types.
const (
	TypeTicketResolved = "ticket.resolved"
	TypeStatusChanged  = "entity.status_changed"
	TypeEntityCreated  = "entity.created"
	TypeEntityDeleted  = "entity.deleted"
)

// DefaultPublishTimeout bounds a single publish when none is configured.
const DefaultPublishTimeout = 2 * time.Second

// Event is the wire payload of a workflow event.
type Event struct {
	ID         uuid.UUID  `json:"id"`
	Type       string     `json:"type"`
	Collection string     `json:"collection"`
	EntityID   uuid.UUID  `json:"entityId"`
	TicketID   *uuid.UUID `json:"ticketId,omitempty"`
	ActorID    uuid.UUID  `json:"actorId"`
	Status     string     `json:"status,omitempty"`
	OccurredAt time.Time  `json:"occurredAt"`
}

// messageWriter is the slice of *kafka.Writer used by Kafka.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka publishes events as JSON messages keyed by entity ID.
type Kafka struct {
	w       messageWriter
	timeout time.Duration
	log     *slog.Logger
}

// KafkaConfig configures the Kafka publisher.
type KafkaConfig struct {
	Brokers string
	Topic   string
	Timeout time.Duration
}

// NewKafka creates a synchronous publisher that waits for the leader ack.
func NewKafka(logger *slog.Logger, cfg KafkaConfig) (*Kafka, error) {
	brokers := splitBrokers(cfg.Brokers)
	if len(brokers) == 0 {
		return nil, errors.New("events: at least one broker is required")
	}
	if cfg.Topic == "" {
		return nil, errors.New("events: topic is required")
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}
	return newKafka(logger, w, cfg.Timeout), nil
}

func newKafka(logger *slog.Logger, w messageWriter, timeout time.Duration) *Kafka {
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	return &Kafka{w: w, timeout: timeout, log: logger.With("component", "events")}
}

// Publish writes e, filling ID and OccurredAt when unset.
func (k *Kafka) Publish(ctx context.Context, e Event) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}

	value, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("events: marshal %s: %w", e.Type, err)
	}

	wctx, cancel := context.WithTimeout(ctx, k.timeout)
	defer cancel()

	err = k.w.WriteMessages(wctx, kafka.Message{
		Key:     []byte(e.EntityID.String()),
		Value:   value,
		Headers: []kafka.Header{{Key: "event-type", Value: []byte(e.Type)}},
		Time:    e.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("events: publish %s: %w", e.Type, err)
	}

	k.log.DebugContext(ctx, "event published",
		slog.String("type", e.Type),
		slog.String("entity_id", e.EntityID.String()),
	)
	return nil
}

// Close flushes and closes the writer.
func (k *Kafka) Close() error {
	return k.w.Close()
}

// Noop discards every event.
type Noop struct{}

// Publish does nothing.
func (Noop) Publish(context.Context, Event) error { return nil }

// Close does nothing.
func (Noop) Close() error { return nil }

func splitBrokers(raw string) []string {
	var out []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
