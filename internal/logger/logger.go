package logger

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
)

// Fields represents structured log fields
type Fields map[string]interface{}

// WithContext extracts request context for logging
func WithContext(c *gin.Context) Fields {
	fields := Fields{
		"request_id": c.GetString("request_id"),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
	}

	if userID := c.GetString("user_id"); userID != "" {
		fields["user_id"] = userID
	}
	if sessionID := c.GetString("session_id"); sessionID != "" {
		fields["session_id"] = sessionID
	}

	return fields
}

// Info logs an informational message with structured fields
func Info(msg string, fields Fields) {
	emit(sentry.LevelInfo, msg, fields)
}

// Warn logs a warning message with structured fields
func Warn(msg string, fields Fields) {
	emit(sentry.LevelWarning, msg, fields)
}

// Debug logs a debug message with structured fields
func Debug(msg string, fields Fields) {
	emit(sentry.LevelDebug, msg, fields)
}

// Error logs an error message with structured fields and sends it to Sentry
func Error(msg string, err error, fields Fields) {
	log.Printf("[ERROR] %s: %v %v", msg, err, formatFields(fields))

	hub := sentry.CurrentHub()
	if hub.Client() == nil {
		return
	}
	hub.WithScope(func(scope *sentry.Scope) {
		for key, value := range fields {
			scope.SetContext(key, map[string]interface{}{"value": value})
		}
		// tags used for filtering in Sentry
		for _, tag := range []string{"request_id", "session_id", "model", "mode"} {
			if v, ok := fields[tag].(string); ok && v != "" {
				scope.SetTag(tag, v)
			}
		}
		hub.CaptureException(err)
	})
}

// emit prints a leveled line and mirrors it as a Sentry breadcrumb
func emit(level sentry.Level, msg string, fields Fields) {
	log.Printf("[%s] %s %v", strings.ToUpper(levelName(level)), msg, formatFields(fields))

	if hub := sentry.CurrentHub(); hub.Client() != nil {
		hub.AddBreadcrumb(&sentry.Breadcrumb{
			Type:     levelName(level),
			Category: "log",
			Message:  msg,
			Data:     map[string]interface{}(fields),
			Level:    level,
		}, nil)
	}
}

func levelName(level sentry.Level) string {
	if level == sentry.LevelWarning {
		return "warn"
	}
	return string(level)
}

// EditOutcome describes one finished edit for logging
type EditOutcome struct {
	Mode     string
	Model    string
	Provider string
	Outcome  string
	Duration time.Duration
	Usage    map[string]int
	Err      error
}

// LogEditOutcome logs a finished edit; failures also go to Sentry
func LogEditOutcome(ctx context.Context, outcome EditOutcome, fields Fields) {
	if fields == nil {
		fields = Fields{}
	}

	fields["mode"] = outcome.Mode
	fields["model"] = outcome.Model
	fields["provider"] = outcome.Provider
	fields["outcome"] = outcome.Outcome
	fields["duration_ms"] = outcome.Duration.Milliseconds()
	for k, v := range outcome.Usage {
		fields[k] = v
	}

	if outcome.Err != nil {
		Error("Image edit failed", outcome.Err, fields)
		return
	}
	Info("Image edit completed", fields)

	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		span := sentry.StartSpan(ctx, "stylist.edit")
		span.Description = outcome.Model
		span.SetData("outcome", outcome.Outcome)
		span.SetData("tokens", outcome.Usage)
		span.Finish()
	}
}

// formatFields renders fields as {k=v, ...} in key order
func formatFields(fields Fields) string {
	if len(fields) == 0 {
		return ""
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+formatValue(fields[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return fmt.Sprintf("%.2f", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
