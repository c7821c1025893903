package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-fulfillment/internal/application/fulfillment"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublishStatusChanged_KeyHeaderYPayload(t *testing.T) {
	w := &fakeWriter{}
	p := newKafkaPublisher(w, "orders.status")
	at := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	err := p.PublishStatusChanged(context.Background(), fulfillment.StatusChangedEvent{
		OrderID:           "O1",
		OrderNumber:       "SO-2026-0001",
		From:              "processing",
		To:                "shipped",
		FulfillmentStatus: "fulfilled",
		OccurredAt:        at,
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "O1", string(msg.Key))
	assert.Equal(t, at, msg.Time)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, EventTypeStatusChanged, string(msg.Headers[0].Value))

	var payload map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &payload))
	assert.Equal(t, "SO-2026-0001", payload["order_number"])
	assert.Equal(t, "processing", payload["from"])
	assert.Equal(t, "shipped", payload["to"])
}

func TestPublishStatusChanged_ErrorDelWriterIncluyeTopic(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker caído")}
	p := newKafkaPublisher(w, "orders.status")

	err := p.PublishStatusChanged(context.Background(), fulfillment.StatusChangedEvent{OrderID: "O1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "orders.status")
	assert.Contains(t, err.Error(), "broker caído")
}

func TestClose_CierraWriter(t *testing.T) {
	w := &fakeWriter{}
	require.NoError(t, newKafkaPublisher(w, "t").Close())
	assert.True(t, w.closed)
}

func TestNewKafkaPublisher_ValidaParametros(t *testing.T) {
	_, err := NewKafkaPublisher(nil, "t", zerolog.Nop())
	assert.Error(t, err)

	_, err = NewKafkaPublisher([]string{"localhost:9092"}, "", zerolog.Nop())
	assert.Error(t, err)

	p, err := NewKafkaPublisher([]string{"localhost:9092"}, "t", zerolog.Nop())
	require.NoError(t, err)
	assert.NoError(t, p.Close())
}
