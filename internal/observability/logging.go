package observability

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

// redacted replaces the value of any attribute whose key names a secret.
const redacted = "[REDACTED]"

var sensitiveKeys = map[string]bool{
	"password":   true,
	"apikey":     true,
	"secret":     true,
	"secretkey":  true,
	"token":      true,
	"credential": true,
	"prompt":     true,
}

// TracedLogger is a structured logger with automatic trace correlation.
// Every entry carries the session ID, the component name and, when the
// context holds a recording span, its trace and span IDs.
type TracedLogger struct {
	logger    *slog.Logger
	sessionID string
	component string
}

// NewTracedLogger creates a TracedLogger writing through handler.
func NewTracedLogger(handler slog.Handler, sessionID, component string) *TracedLogger {
	return &TracedLogger{
		logger:    slog.New(handler),
		sessionID: sessionID,
		component: component,
	}
}

func (l *TracedLogger) Debug(ctx context.Context, msg string, args ...any) {
	l.WithContext(ctx).DebugContext(ctx, msg, args...)
}

func (l *TracedLogger) Info(ctx context.Context, msg string, args ...any) {
	l.WithContext(ctx).InfoContext(ctx, msg, redactSensitiveData(args)...)
}

func (l *TracedLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.WithContext(ctx).WarnContext(ctx, msg, redactSensitiveData(args)...)
}

func (l *TracedLogger) Error(ctx context.Context, msg string, args ...any) {
	l.WithContext(ctx).ErrorContext(ctx, msg, redactSensitiveData(args)...)
}

// WithContext returns a slog.Logger carrying the session, component and
// trace correlation fields for ctx.
func (l *TracedLogger) WithContext(ctx context.Context) *slog.Logger {
	logger := l.logger.With(
		slog.String("session_id", l.sessionID),
		slog.String("component", l.component),
	)

	spanCtx := trace.SpanFromContext(ctx).SpanContext()
	if spanCtx.IsValid() {
		logger = logger.With(
			slog.String("trace_id", spanCtx.TraceID().String()),
			slog.String("span_id", spanCtx.SpanID().String()),
		)
	}
	return logger
}

// NewJSONHandler creates a JSON handler that redacts sensitive attributes.
func NewJSONHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: redactAttr,
	})
}

// NewTextHandler creates a human-readable handler that redacts sensitive attributes.
func NewTextHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: redactAttr,
	})
}

// NewLogger builds the process logger from cfg.
func NewLogger(cfg LoggingConfig, w io.Writer) (*slog.Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = NewTextHandler(w, level)
	} else {
		handler = NewJSONHandler(w, level)
	}
	return slog.New(handler), nil
}

// ParseLevel converts a configured level name to a slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

func isSensitiveKey(key string) bool {
	return sensitiveKeys[strings.ToLower(strings.ReplaceAll(key, "_", ""))]
}

func redactAttr(_ []string, a slog.Attr) slog.Attr {
	if isSensitiveKey(a.Key) {
		return slog.String(a.Key, redacted)
	}
	return a
}

// redactSensitiveData redacts sensitive values in key-value log arguments.
func redactSensitiveData(args []any) []any {
	if len(args)%2 != 0 {
		return args
	}

	out := make([]any, len(args))
	copy(out, args)
	for i := 0; i < len(args); i += 2 {
		if key, ok := args[i].(string); ok && isSensitiveKey(key) {
			out[i+1] = redacted
		}
	}
	return out
}
