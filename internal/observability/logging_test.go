package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"trace", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "json", "info")
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("parsed", "file", "cv.pdf")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "parsed", rec["msg"])
	assert.Equal(t, "cv.pdf", rec["file"])
}

func TestNewLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "text", "debug")
	require.NoError(t, err)

	logger.Debug("visible")
	assert.Contains(t, buf.String(), "msg=visible")
}

func TestNewLogger_BadInput(t *testing.T) {
	_, err := NewLogger(&bytes.Buffer{}, "xml", "info")
	assert.ErrorContains(t, err, "log format")

	_, err = NewLogger(&bytes.Buffer{}, "json", "loud")
	assert.ErrorContains(t, err, "log level")
}

func TestRequestID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestID(ctx))

	ctx = WithRequestID(ctx, "abc-123")
	assert.Equal(t, "abc-123", RequestID(ctx))
}

func TestLogger_AddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	_, err := Setup(&buf, "json", "info")
	require.NoError(t, err)
	t.Cleanup(func() { slog.SetDefault(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))) })

	Logger(WithRequestID(context.Background(), "req-9")).Info("hello")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "req-9", rec["request_id"])
}
