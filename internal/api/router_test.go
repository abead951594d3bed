package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/stylist-api/internal/config"
	"github.com/Conceptual-Machines/stylist-api/internal/media"
	"github.com/Conceptual-Machines/stylist-api/internal/metrics"
	"github.com/Conceptual-Machines/stylist-api/internal/models"
	"github.com/Conceptual-Machines/stylist-api/internal/orchestrator"
	"github.com/Conceptual-Machines/stylist-api/internal/prompt"
)

type stubRunner struct{}

func (stubRunner) RunStructuredEdit(context.Context, models.StructuredEditRequest) (*models.GenerationResult, error) {
	return models.NewEmptyResult(), nil
}

func (stubRunner) RunDirectEdit(context.Context, models.DirectEditRequest) (*models.GenerationResult, error) {
	return models.NewEmptyResult(), nil
}

type synthesizer struct{}

func (synthesizer) Synthesize(p models.StylingParameters) string { return prompt.Synthesize(p) }

func newRouter(t *testing.T, cfg *config.Config) (*gin.Engine, *metrics.PrometheusMetrics) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	registry, err := orchestrator.NewRegistry(stubRunner{}, 4)
	require.NoError(t, err)
	prom := metrics.NewPrometheusMetrics()

	router, err := SetupRouter(Dependencies{
		Config:             cfg,
		Version:            "test",
		Registry:           registry,
		Encoder:            media.NewEncoder(media.DefaultMaxBytes),
		Synthesizer:        synthesizer{},
		Recorder:           prom,
		Prometheus:         prom,
		ProviderName:       "gemini",
		ProviderConfigured: true,
	})
	require.NoError(t, err)
	return router, prom
}

func baseConfig() *config.Config {
	return &config.Config{
		Environment:        "test",
		ImageModel:         "gemini-2.5-flash-image",
		AuthMode:           config.AuthModeNone,
		SessionSecret:      "0123456789abcdef0123456789abcdef",
		CORSAllowedOrigins: []string{"*"},
	}
}

func TestSetupRouter_Routes(t *testing.T) {
	router, _ := newRouter(t, baseConfig())

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/api/metrics", http.StatusOK},
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/api/v1/styling/defaults", http.StatusOK},
		{http.MethodGet, "/api/v1/edits/latest", http.StatusNotFound},
		{http.MethodGet, "/api/v1/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestSetupRouter_ScrapeCountsRequests(t *testing.T) {
	router, _ := newRouter(t, baseConfig())

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `stylist_api_requests_total{endpoint="/health",status="200"} 1`)
}

func TestSetupRouter_GatewayAuthGuardsAPI(t *testing.T) {
	cfg := baseConfig()
	cfg.AuthMode = config.AuthModeGateway
	router, _ := newRouter(t, cfg)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/styling/defaults", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// health stays public
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSetupRouter_RejectsMalformedSessionHeader(t *testing.T) {
	router, _ := newRouter(t, baseConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/edits/latest", nil)
	req.Header.Set("X-Session-ID", "attacker-0001")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/edits/latest", nil)
	req.Header.Set("X-Session-ID", "7f1c7a52-5d0b-4c8e-9d3a-2b1e0f6a9c11")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
