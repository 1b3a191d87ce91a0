package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Vodeneev/tipsbot/internal/pkg/config"
)

// kafkaWriter interface for Kafka writer abstraction
type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publishes one message per payload, keyed by dispatch id.
type KafkaSink struct {
	writer kafkaWriter
	topic  string
}

var _ Sink = (*KafkaSink)(nil)

func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		MaxAttempts:  1,
		BatchTimeout: 10 * time.Millisecond,
	}
	return &KafkaSink{writer: writer, topic: topic}
}

func (s *KafkaSink) Name() string { return config.SinkKafka }

func (s *KafkaSink) Send(ctx context.Context, msg Message) error {
	if msg.SentAt.IsZero() {
		msg.SentAt = time.Now().UTC()
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.ID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "sport", Value: []byte(msg.Sport)},
			{Key: "date", Value: []byte(msg.Date)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to write kafka message: %w", err)
	}

	slog.Info("Kafka send: success", "id", msg.ID, "topic", s.topic, "bytes", len(payload))
	return nil
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
