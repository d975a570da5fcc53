package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/fsdevblog/billsplit/internal/domain"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublisher_Publish(t *testing.T) {
	w := new(fakeWriter)
	p := NewPublisherWithWriter(w)

	occurredAt := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	event := domain.PaymentEvent{
		Type:          domain.PaymentEventSettled,
		BillID:        10,
		ParticipantID: 100,
		UserID:        2,
		Status:        domain.PaymentStatusCompleted,
		Amount:        decimal.RequireFromString("198000.50"),
		TransactionID: "INST-abc",
		OccurredAt:    occurredAt,
	}
	require.NoError(t, p.Publish(t.Context(), event))

	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, "10", string(msg.Key))
	assert.Equal(t, occurredAt, msg.Time)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, string(domain.PaymentEventSettled), string(msg.Headers[0].Value))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, string(domain.PaymentEventSettled), decoded["type"])
	assert.Equal(t, "198000.5", decoded["amount"])
	assert.Equal(t, "INST-abc", decoded["transactionId"])
	assert.InDelta(t, 100, decoded["participantId"], 0)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublisher_WriteError(t *testing.T) {
	writeErr := errors.New("leader not available")
	p := NewPublisherWithWriter(&fakeWriter{err: writeErr})

	err := p.Publish(t.Context(), domain.PaymentEvent{Type: domain.PaymentEventExpired, BillID: 1})
	require.ErrorIs(t, err, writeErr)
}
