// Package events publica cambios de estado de pedidos hacia Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/erp-fulfillment/internal/application/fulfillment"
)

var (
	_ fulfillment.EventPublisher = (*KafkaPublisher)(nil)
	_ fulfillment.EventPublisher = NoopPublisher{}
)

// EventTypeStatusChanged valor del header event_type.
const EventTypeStatusChanged = "OrderStatusChanged"

// messageWriter lo que el publisher usa de *kafka.Writer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher escribe un mensaje por transición, con el ID del pedido como key
// para que los eventos de un mismo pedido queden en la misma partición.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

// NewKafkaPublisher construye el writer síncrono (RequireAll).
func NewKafkaPublisher(brokers []string, topic string, log zerolog.Logger) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka: sin brokers")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka: topic vacío")
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		WriteTimeout: 5 * time.Second,
		Logger:       kafkaLogger{log: log, level: zerolog.DebugLevel},
		ErrorLogger:  kafkaLogger{log: log, level: zerolog.ErrorLevel},
	}
	return newKafkaPublisher(w, topic), nil
}

func newKafkaPublisher(w messageWriter, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: w, topic: topic}
}

// PublishStatusChanged serializa el evento a JSON y lo escribe.
func (p *KafkaPublisher) PublishStatusChanged(ctx context.Context, evt fulfillment.StatusChangedEvent) error {
	value, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("serializar evento: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(evt.OrderID),
		Value: value,
		Time:  evt.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventTypeStatusChanged)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka %s: %w", p.topic, err)
	}
	return nil
}

// Close vacía y cierra el writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher se usa cuando los eventos están deshabilitados.
type NoopPublisher struct{}

// PublishStatusChanged no hace nada.
func (NoopPublisher) PublishStatusChanged(context.Context, fulfillment.StatusChangedEvent) error {
	return nil
}

// Close no hace nada.
func (NoopPublisher) Close() error { return nil }

type kafkaLogger struct {
	log   zerolog.Logger
	level zerolog.Level
}

func (k kafkaLogger) Printf(msg string, args ...interface{}) {
	k.log.WithLevel(k.level).Str("component", "kafka").Msgf(msg, args...)
}
