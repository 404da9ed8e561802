package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHandler_TextLevels(t *testing.T) {
	tests := []struct {
		level   string
		debugOn bool
		infoOn  bool
		warnOn  bool
	}{
		{"trace", true, true, true},
		{"debug", true, true, true},
		{"info", false, true, true},
		{"warn", false, false, true},
		{"warning", false, false, true},
		{"error", false, false, false},
		{"bogus", false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			h := NewHandler("text", tt.level, &bytes.Buffer{})
			ctx := context.Background()
			assert.Equal(t, tt.debugOn, h.Enabled(ctx, slog.LevelDebug))
			assert.Equal(t, tt.infoOn, h.Enabled(ctx, slog.LevelInfo))
			assert.Equal(t, tt.warnOn, h.Enabled(ctx, slog.LevelWarn))
		})
	}
}

func TestNewHandler_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler("JSON", "debug", &buf))

	logger.Debug("session started", "platform", "web")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "session started", line["msg"])
	assert.Equal(t, "web", line["platform"])
}

func TestNewHandler_TextWritesMessage(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler("text", "info", &buf))

	logger.Info("greeting sent", "platform", "telegram")

	assert.Contains(t, buf.String(), "greeting sent")
	assert.Contains(t, buf.String(), "telegram")
}
