package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestMultiHandler_FansOutByLevel(t *testing.T) {
	var textBuf, jsonBuf bytes.Buffer
	logger := NewLogger("tipsbot",
		slog.NewTextHandler(&textBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewJSONHandler(&jsonBuf, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)

	logger.Debug("Fetch started", "source", "synthetic")
	logger.Warn("Provider degraded", "source", "api-football")

	text := textBuf.String()
	assert.Contains(t, text, "Fetch started")
	assert.Contains(t, text, "Provider degraded")
	assert.Contains(t, text, "service=tipsbot")

	js := jsonBuf.String()
	assert.False(t, strings.Contains(js, "Fetch started"))
	assert.Contains(t, js, `"msg":"Provider degraded"`)
	assert.Contains(t, js, `"service":"tipsbot"`)
}
