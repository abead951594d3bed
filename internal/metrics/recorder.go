package metrics

import (
	"context"
	"time"
)

// Generation outcomes as they appear in metric labels/dimensions
const (
	OutcomeSucceeded = "succeeded"
	OutcomeEmpty     = "empty"
	OutcomeFailed    = "failed"
)

// Recorder is implemented by every metrics backend
type Recorder interface {
	RecordAPIRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration)
	RecordGeneration(ctx context.Context, mode, model, outcome string, duration time.Duration)
	RecordTokenUsage(ctx context.Context, model string, inputTokens, outputTokens, totalTokens int)
}

// Multi fans out each record call to all wrapped recorders
type Multi []Recorder

// NewMulti drops nil recorders
func NewMulti(recorders ...Recorder) Multi {
	m := make(Multi, 0, len(recorders))
	for _, r := range recorders {
		if r != nil {
			m = append(m, r)
		}
	}
	return m
}

func (m Multi) RecordAPIRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration) {
	for _, r := range m {
		r.RecordAPIRequest(ctx, endpoint, statusCode, duration)
	}
}

func (m Multi) RecordGeneration(ctx context.Context, mode, model, outcome string, duration time.Duration) {
	for _, r := range m {
		r.RecordGeneration(ctx, mode, model, outcome, duration)
	}
}

func (m Multi) RecordTokenUsage(ctx context.Context, model string, inputTokens, outputTokens, totalTokens int) {
	for _, r := range m {
		r.RecordTokenUsage(ctx, model, inputTokens, outputTokens, totalTokens)
	}
}

// Nop discards everything
type Nop struct{}

func (Nop) RecordAPIRequest(context.Context, string, int, time.Duration) {}
func (Nop) RecordGeneration(context.Context, string, string, string, time.Duration) {}
func (Nop) RecordTokenUsage(context.Context, string, int, int, int) {}
