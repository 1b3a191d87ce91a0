package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Vodeneev/tipsbot/internal/pkg/config"
)

// Telegram rejects messages longer than 4096 characters.
const telegramMaxMessageLen = 4096

// botSender is the part of tgbotapi.BotAPI the sink uses.
type botSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramSink sends payloads to one chat. Long payloads are split on line
// boundaries and sent in order, at least interval apart.
type TelegramSink struct {
	bot      botSender
	chatID   int64
	interval time.Duration

	mu       sync.Mutex
	lastSend time.Time
}

var _ Sink = (*TelegramSink)(nil)

// NewTelegramSink creates the bot client and checks the token with getMe.
func NewTelegramSink(token string, chatID int64, interval time.Duration) (*TelegramSink, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	bot.Debug = false
	slog.Info("Telegram sink initialized", "bot", bot.Self.UserName, "chat_id", chatID)
	return newTelegramSink(bot, chatID, interval), nil
}

func newTelegramSink(bot botSender, chatID int64, interval time.Duration) *TelegramSink {
	return &TelegramSink{bot: bot, chatID: chatID, interval: interval}
}

func (n *TelegramSink) Name() string { return config.SinkTelegram }

func (n *TelegramSink) Close() error { return nil }

func (n *TelegramSink) Send(ctx context.Context, msg Message) error {
	chunks := splitMessage(msg.Body(), telegramMaxMessageLen)

	n.mu.Lock()
	defer n.mu.Unlock()

	for i, chunk := range chunks {
		if err := n.waitInterval(ctx); err != nil {
			return err
		}
		n.lastSend = time.Now()
		if _, err := n.bot.Send(tgbotapi.NewMessage(n.chatID, chunk)); err != nil {
			slog.Error("Telegram send: failed", "id", msg.ID, "chunk", i+1, "chunks", len(chunks), "error", err)
			return fmt.Errorf("telegram send chunk %d/%d: %w", i+1, len(chunks), err)
		}
	}
	slog.Info("Telegram send: success", "id", msg.ID, "chunks", len(chunks), "message_preview", truncateString(msg.Title, 50))
	return nil
}

func (n *TelegramSink) waitInterval(ctx context.Context) error {
	elapsed := time.Since(n.lastSend)
	if n.lastSend.IsZero() || elapsed >= n.interval {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(n.interval - elapsed):
		return nil
	}
}

// splitMessage cuts text into chunks of at most limit runes, preferring line breaks.
func splitMessage(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	currentLen := 0
	flush := func() {
		if currentLen > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			currentLen = 0
		}
	}

	for _, line := range strings.Split(text, "\n") {
		for utf8.RuneCountInString(line) > limit {
			flush()
			runes := []rune(line)
			chunks = append(chunks, string(runes[:limit]))
			line = string(runes[limit:])
		}
		lineLen := utf8.RuneCountInString(line)
		sep := 0
		if currentLen > 0 {
			sep = 1
		}
		if currentLen+sep+lineLen > limit {
			flush()
			sep = 0
		}
		if sep == 1 {
			current.WriteByte('\n')
		}
		current.WriteString(line)
		currentLen += sep + lineLen
	}
	flush()
	return chunks
}

// truncateString truncates a string to maxLen characters
func truncateString(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen]) + "..."
}
