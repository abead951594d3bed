package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Conceptual-Machines/stylist-api/internal/logger"
	"github.com/Conceptual-Machines/stylist-api/internal/metrics"
)

const (
	requestIDHeader   = "X-Request-ID"
	maxRequestIDBytes = 128
	unmatchedEndpoint = "unmatched"
)

// RequestTracking assigns a request ID (reusing a sane inbound X-Request-ID),
// logs completion by status class and records API metrics per route template.
func RequestTracking(recorder metrics.Recorder) gin.HandlerFunc {
	if recorder == nil {
		recorder = metrics.Nop{}
	}

	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" || len(requestID) > maxRequestIDBytes {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header(requestIDHeader, requestID)

		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.Scope().SetTag("request_id", requestID)
		}

		start := time.Now()
		c.Next()
		duration := time.Since(start)
		status := c.Writer.Status()

		fields := logger.WithContext(c)
		fields["duration_ms"] = duration.Milliseconds()
		fields["status_code"] = status
		fields["client_ip"] = c.ClientIP()

		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("Request failed with server error", requestError(c, status), fields)
		case status >= http.StatusBadRequest:
			logger.Warn("Request failed with client error", fields)
		default:
			logger.Info("Request completed", fields)
		}

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = unmatchedEndpoint
		}
		recorder.RecordAPIRequest(c.Request.Context(), endpoint, status, duration)
	}
}

// requestError prefers the error a handler attached with c.Error
func requestError(c *gin.Context, status int) error {
	if last := c.Errors.Last(); last != nil {
		return last.Err
	}
	return fmt.Errorf("%s %s returned %d", c.Request.Method, c.Request.URL.Path, status)
}

// tagSession copies the session id onto the request's Sentry scope
func tagSession(c *gin.Context, sessionID string) {
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.ConfigureScope(func(scope *sentry.Scope) {
			scope.SetTag("session_id", sessionID)
		})
	}
}
