package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

var (
	testTraceID = trace.TraceID{0x01, 0x23, 0x45, 0x67, 0x89, 0xab, 0xcd, 0xef, 0x01, 0x23, 0x45, 0x67, 0x89, 0xab, 0xcd, 0xef}
	testSpanID  = trace.SpanID{0x01, 0x23, 0x45, 0x67, 0x89, 0xab, 0xcd, 0xef}
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestTracedLogger_AddsCorrelationFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewTracedLogger(NewJSONHandler(&buf, slog.LevelDebug), "sess-1", "chat")

	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    testTraceID,
		SpanID:     testSpanID,
		TraceFlags: trace.FlagsSampled,
	}))
	logger.Info(ctx, "turn answered", "turn_id", 3)

	entry := decodeLine(t, &buf)
	assert.Equal(t, "turn answered", entry["msg"])
	assert.Equal(t, "sess-1", entry["session_id"])
	assert.Equal(t, "chat", entry["component"])
	assert.Equal(t, testTraceID.String(), entry["trace_id"])
	assert.Equal(t, testSpanID.String(), entry["span_id"])
	assert.EqualValues(t, 3, entry["turn_id"])
}

func TestTracedLogger_NoSpan(t *testing.T) {
	var buf bytes.Buffer
	logger := NewTracedLogger(NewJSONHandler(&buf, slog.LevelDebug), "sess-1", "chat")

	logger.Warn(context.Background(), "store slow")

	entry := decodeLine(t, &buf)
	assert.NotContains(t, entry, "trace_id")
	assert.Equal(t, "WARN", entry["level"])
}

func TestHandlers_RedactSensitiveAttributes(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{"password", "password"},
		{"api key with underscore", "api_key"},
		{"mixed case token", "Token"},
		{"prompt", "prompt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			slog.New(NewJSONHandler(&buf, slog.LevelInfo)).Info("connecting", tt.key, "hunter2", "uri", "bolt://localhost:7687")

			entry := decodeLine(t, &buf)
			assert.Equal(t, redacted, entry[tt.key])
			assert.Equal(t, "bolt://localhost:7687", entry["uri"])
		})
	}
}

func TestRedactSensitiveData(t *testing.T) {
	args := []any{"password", "secret-value", "question", "who leads the crew"}
	out := redactSensitiveData(args)

	assert.Equal(t, []any{"password", redacted, "question", "who leads the crew"}, out)
	assert.Equal(t, "secret-value", args[1], "input must not be modified")

	odd := []any{"password"}
	assert.Equal(t, odd, redactSensitiveData(odd))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(LoggingConfig{Level: "warn", Format: "text"}, &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "password", "x")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "password="+redacted)

	_, err = NewLogger(LoggingConfig{Level: "loud", Format: "json"}, &buf)
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
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
