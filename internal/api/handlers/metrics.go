package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

const bytesPerMB = 1024 * 1024

// SessionCounter reports how many sessions hold an orchestrator
type SessionCounter interface {
	Len() int
}

// MetricsHandler serves the JSON runtime snapshot and the Prometheus scrape
type MetricsHandler struct {
	startTime time.Time
	version   string
	model     string
	sessions  SessionCounter
	scrape    http.Handler
}

// NewMetricsHandler creates a metrics handler; a nil scrape handler disables GET /metrics
func NewMetricsHandler(version, model string, sessions SessionCounter, scrape http.Handler) *MetricsHandler {
	return &MetricsHandler{
		startTime: time.Now(),
		version:   version,
		model:     model,
		sessions:  sessions,
		scrape:    scrape,
	}
}

type MetricsResponse struct {
	Status    string         `json:"status"`
	Uptime    string         `json:"uptime"`
	Timestamp string         `json:"timestamp"`
	Version   string         `json:"version"`
	StartTime string         `json:"start_time"`
	System    SystemMetrics  `json:"system"`
	Service   ServiceMetrics `json:"service"`
}

type SystemMetrics struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	MemAllocMB   uint64 `json:"mem_alloc_mb"`
	MemTotalMB   uint64 `json:"mem_total_mb"`
	NumGC        uint32 `json:"num_gc"`
}

type ServiceMetrics struct {
	ImageModel     string `json:"image_model"`
	ActiveSessions int    `json:"active_sessions"`
}

// GetMetrics handles GET /api/metrics
func (h *MetricsHandler) GetMetrics(c *gin.Context) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	now := time.Now()
	c.JSON(http.StatusOK, MetricsResponse{
		Status:    "healthy",
		Uptime:    formatUptime(now.Sub(h.startTime)),
		Timestamp: now.UTC().Format(time.RFC3339),
		Version:   h.version,
		StartTime: h.startTime.UTC().Format(time.RFC3339),
		System: SystemMetrics{
			GoVersion:    runtime.Version(),
			NumGoroutine: runtime.NumGoroutine(),
			MemAllocMB:   mem.Alloc / bytesPerMB,
			MemTotalMB:   mem.TotalAlloc / bytesPerMB,
			NumGC:        mem.NumGC,
		},
		Service: ServiceMetrics{
			ImageModel:     h.model,
			ActiveSessions: h.sessions.Len(),
		},
	})
}

// Prometheus handles GET /metrics in the Prometheus text format
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.scrape == nil {
		c.Status(http.StatusNotFound)
		return
	}
	h.scrape.ServeHTTP(c.Writer, c.Request)
}

// formatUptime renders d as 1h2m3.45s, dropping leading zero units
func formatUptime(d time.Duration) string {
	return d.Round(10 * time.Millisecond).String()
}
