// Package notifier formats fixture records into suggestion text and delivers
// it to a sink. Delivery is fire-and-forget: no acknowledgement tracking and
// no retries.
package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Vodeneev/tipsbot/internal/pkg/config"
)

// Message is one formatted payload for one invocation.
type Message struct {
	ID       string    `json:"id"`
	Sport    string    `json:"sport"`
	Date     string    `json:"date"`
	Title    string    `json:"title"`
	Text     string    `json:"text"`
	Fixtures int       `json:"fixtures"`
	SentAt   time.Time `json:"sent_at"`
}

// Body returns the title and text as sent to chat-style sinks.
func (m Message) Body() string {
	if m.Title == "" {
		return m.Text
	}
	return m.Title + "\n\n" + m.Text
}

// Sink delivers a formatted message to an external system.
type Sink interface {
	Send(ctx context.Context, msg Message) error
	Name() string
	Close() error
}

// NewSink builds the sink selected by cfg.Notifier.Sink.
func NewSink(cfg *config.Config) (Sink, error) {
	switch cfg.Notifier.Sink {
	case config.SinkTelegram:
		tg := cfg.Notifier.Telegram
		return NewTelegramSink(tg.Token, tg.ChatID, cfg.Notifier.SendInterval)
	case config.SinkKafka:
		k := cfg.Notifier.Kafka
		return NewKafkaSink(k.Brokers, k.Topic), nil
	case config.SinkLog:
		return NewLogSink(slog.Default()), nil
	default:
		return nil, fmt.Errorf("unknown sink %q", cfg.Notifier.Sink)
	}
}

// LogSink writes payloads to the structured log. Useful in development.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Name() string { return config.SinkLog }

func (s *LogSink) Send(ctx context.Context, msg Message) error {
	s.logger.InfoContext(ctx, "Suggestions", "id", msg.ID, "title", msg.Title, "fixtures", msg.Fixtures, "text", msg.Text)
	return nil
}

func (s *LogSink) Close() error { return nil }
