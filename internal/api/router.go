package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Conceptual-Machines/stylist-api/internal/api/handlers"
	apimiddleware "github.com/Conceptual-Machines/stylist-api/internal/api/middleware"
	"github.com/Conceptual-Machines/stylist-api/internal/config"
	"github.com/Conceptual-Machines/stylist-api/internal/media"
	"github.com/Conceptual-Machines/stylist-api/internal/metrics"
	"github.com/Conceptual-Machines/stylist-api/internal/orchestrator"
	webhandlers "github.com/Conceptual-Machines/stylist-api/internal/web/handlers"
)

// Dependencies are the wired components the router serves
type Dependencies struct {
	Config      *config.Config
	Version     string
	Registry    *orchestrator.Registry
	Encoder     *media.Encoder
	Synthesizer handlers.Synthesizer
	Recorder    metrics.Recorder
	Prometheus  *metrics.PrometheusMetrics

	// reported by /health
	ProviderName       string
	ProviderConfigured bool
}

func SetupRouter(deps Dependencies) (*gin.Engine, error) {
	cfg := deps.Config
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking(deps.Recorder))

	// CORS middleware
	router.Use(apimiddleware.CORS(cfg.CORSAllowedOrigins))

	// Health check
	healthHandler := handlers.NewHealthHandler(deps.ProviderName, cfg.ImageModel, deps.ProviderConfigured)
	router.GET("/health", healthHandler.HealthCheck)

	// Metrics endpoints
	var scrape http.Handler
	if deps.Prometheus != nil {
		scrape = deps.Prometheus.Handler()
	}
	metricsHandler := handlers.NewMetricsHandler(deps.Version, cfg.ImageModel, deps.Registry, scrape)
	router.GET("/api/metrics", metricsHandler.GetMetrics)
	router.GET("/metrics", metricsHandler.Prometheus)

	sessionStore := apimiddleware.NewSessionStore(cfg.SessionSecret, cfg.IsProduction())
	auth := apimiddleware.Auth(cfg)

	// Web page
	webHandler, err := webhandlers.NewWebHandler(cfg.ImageModel, deps.Version)
	if err != nil {
		return nil, err
	}
	router.GET("/", auth, apimiddleware.Session(sessionStore), webHandler.Home)

	v1 := router.Group("/api/v1")
	v1.Use(auth, apimiddleware.Session(sessionStore))
	{
		promptHandler := handlers.NewPromptHandler(deps.Synthesizer)
		v1.GET("/styling/defaults", promptHandler.Defaults)
		v1.POST("/prompt/preview", promptHandler.Preview)

		editHandler := handlers.NewEditHandler(deps.Registry, deps.Encoder)
		v1.POST("/edits/stylist", editHandler.Stylist)
		v1.POST("/edits/editor", editHandler.Editor)
		v1.GET("/edits/latest", editHandler.Latest)
	}

	return router, nil
}
