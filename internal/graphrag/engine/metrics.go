package engine

import (
	"context"
	"time"
)

// Recorder receives per-turn and per-operation measurements.
type Recorder interface {
	RecordTurn(ctx context.Context, status, source string, duration time.Duration)
	RecordOperation(ctx context.Context, kind, status string, duration time.Duration)
	RecordViolations(ctx context.Context, count int)
}

// NoopRecorder discards every measurement.
type NoopRecorder struct{}

func (NoopRecorder) RecordTurn(context.Context, string, string, time.Duration)      {}
func (NoopRecorder) RecordOperation(context.Context, string, string, time.Duration) {}
func (NoopRecorder) RecordViolations(context.Context, int)                          {}
