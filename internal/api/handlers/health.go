package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports liveness and which image backend is wired
type HealthHandler struct {
	provider   string
	model      string
	configured bool
}

// NewHealthHandler creates a health handler. configured is false when the
// provider has no credential and every edit will fail.
func NewHealthHandler(provider, model string, configured bool) *HealthHandler {
	return &HealthHandler{
		provider:   provider,
		model:      model,
		configured: configured,
	}
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"image_generation": gin.H{
			"provider":   h.provider,
			"model":      h.model,
			"configured": h.configured,
		},
	})
}
