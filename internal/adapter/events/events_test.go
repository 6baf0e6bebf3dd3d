package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type writerMock struct {
	WriteMessagesFunc func(ctx context.Context, msgs ...kafka.Message) error
	msgs              []kafka.Message
	deadline          time.Time
	closed            bool
}

func (m *writerMock) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	m.msgs = append(m.msgs, msgs...)
	m.deadline, _ = ctx.Deadline()
	if m.WriteMessagesFunc != nil {
		return m.WriteMessagesFunc(ctx, msgs...)
	}
	return nil
}

func (m *writerMock) Close() error {
	m.closed = true
	return nil
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestKafka_Publish_EncodesEvent(t *testing.T) {
	t.Parallel()
	w := &writerMock{}
	k := newKafka(discard(), w, time.Second)

	entity := uuid.New()
	err := k.Publish(context.Background(), Event{
		Type:       TypeTicketResolved,
		Collection: "solutions",
		EntityID:   entity,
		Status:     "APPROVED",
	})
	require.NoError(t, err)

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, entity.String(), string(msg.Key))
	assert.Equal(t, []kafka.Header{{Key: "event-type", Value: []byte(TypeTicketResolved)}}, msg.Headers)
	assert.False(t, w.deadline.IsZero(), "publish runs under a deadline")

	var got Event
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.False(t, got.OccurredAt.IsZero())
	assert.Equal(t, "APPROVED", got.Status)
}

func TestKafka_Publish_WrapsWriterError(t *testing.T) {
	t.Parallel()
	boom := errors.New("broker down")
	k := newKafka(discard(), &writerMock{WriteMessagesFunc: func(context.Context, ...kafka.Message) error { return boom }}, 0)

	err := k.Publish(context.Background(), Event{Type: TypeStatusChanged})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, DefaultPublishTimeout, k.timeout)
}

func TestNewKafka_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewKafka(discard(), KafkaConfig{Brokers: " , ", Topic: "t"})
	assert.Error(t, err)

	_, err = NewKafka(discard(), KafkaConfig{Brokers: "localhost:9092"})
	assert.Error(t, err)

	k, err := NewKafka(discard(), KafkaConfig{Brokers: "a:9092, b:9092", Topic: "impact-hub.workflow"})
	require.NoError(t, err)
	assert.NoError(t, k.Close())
}

func TestSplitBrokers(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"a:1", "b:2"}, splitBrokers(" a:1 ,, b:2 "))
	assert.Nil(t, splitBrokers(""))
}
