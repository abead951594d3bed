package logger

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(prev) })
	return &buf
}

func TestFormatFields_SortedKeys(t *testing.T) {
	got := formatFields(Fields{"mode": "direct", "duration_ms": int64(12), "cost": 0.5})
	assert.Equal(t, "{cost=0.50, duration_ms=12, mode=direct}", got)
	assert.Equal(t, "", formatFields(nil))
}

func TestLogEditOutcome(t *testing.T) {
	buf := captureLog(t)

	LogEditOutcome(context.Background(), EditOutcome{
		Mode:     "structured",
		Model:    "gemini-2.5-flash-image",
		Provider: "gemini",
		Outcome:  "succeeded",
		Duration: 1500 * time.Millisecond,
		Usage:    map[string]int{"total_tokens": 1300},
	}, nil)

	out := buf.String()
	assert.Contains(t, out, "[INFO] Image edit completed")
	assert.Contains(t, out, "outcome=succeeded")
	assert.Contains(t, out, "total_tokens=1300")
	assert.Contains(t, out, "duration_ms=1500")
}

func TestLogEditOutcome_Failure(t *testing.T) {
	buf := captureLog(t)

	LogEditOutcome(context.Background(), EditOutcome{
		Mode:    "direct",
		Outcome: "failed",
		Err:     errors.New("connection refused"),
	}, Fields{"request_id": "abc"})

	out := buf.String()
	assert.Contains(t, out, "[ERROR] Image edit failed: connection refused")
	assert.Contains(t, out, "request_id=abc")
}

func TestLevels(t *testing.T) {
	buf := captureLog(t)

	Warn("slow provider", Fields{"provider": "gemini"})
	Debug("parts built", nil)

	out := buf.String()
	assert.Contains(t, out, "[WARN] slow provider {provider=gemini}")
	assert.Contains(t, out, "[DEBUG] parts built")
}
