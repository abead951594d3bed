package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Conceptual-Machines/stylist-api/internal/api"
	"github.com/Conceptual-Machines/stylist-api/internal/config"
	"github.com/Conceptual-Machines/stylist-api/internal/llm"
	"github.com/Conceptual-Machines/stylist-api/internal/media"
	"github.com/Conceptual-Machines/stylist-api/internal/metrics"
	"github.com/Conceptual-Machines/stylist-api/internal/observability"
	"github.com/Conceptual-Machines/stylist-api/internal/orchestrator"
	"github.com/Conceptual-Machines/stylist-api/internal/stylist"
)

const (
	sentryFlushTimeout    = 2 * time.Second
	environmentProduction = "production"
)

// releaseVersion is set via ldflags during build
var releaseVersion = "dev"

// GetVersion returns the current release version
func GetVersion() string {
	return releaseVersion
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()
	ctx := context.Background()

	// Initialize Sentry
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			Release:          "stylist-api@" + releaseVersion,
			EnableTracing:    true,
			TracesSampleRate: 1.0,
			EnableLogs:       true,
			Debug:            cfg.Environment != environmentProduction,
			BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
				// Filter out sensitive data
				if event.Request != nil {
					event.Request.Headers = filterSensitiveHeaders(event.Request.Headers)
				}
				return event
			},
		}); err != nil {
			log.Printf("Failed to initialize Sentry: %v", err)
		} else {
			log.Printf("✅ Sentry initialized (environment: %s, release: %s)", cfg.Environment, releaseVersion)
			defer sentry.Flush(sentryFlushTimeout)
		}
	} else {
		log.Println("⚠️  Sentry not configured (SENTRY_DSN not set)")
	}

	// Set Gin mode
	if cfg.Environment == environmentProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	// Metrics fan out to every configured backend
	cloudwatch, err := metrics.NewClient(ctx, cfg.Environment)
	if err != nil {
		log.Printf("⚠️  CloudWatch metrics disabled: %v", err)
	}
	prom := metrics.NewPrometheusMetrics()
	var cloudwatchRecorder metrics.Recorder
	if cloudwatch != nil {
		cloudwatchRecorder = cloudwatch
	}
	recorder := metrics.NewMulti(metrics.NewSentryMetrics(cfg.SentryDSN != ""), cloudwatchRecorder, prom)

	tracer := observability.InitializeLangfuse(ctx, cfg)

	// Image provider
	factory := llm.NewProviderFactory(llm.ProviderCredentials{
		GeminiAPIKey:  cfg.GeminiAPIKey,
		GeminiBaseURL: cfg.GeminiBaseURL,
		OpenAIAPIKey:  cfg.OpenAIAPIKey,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
	})
	providerName := llm.ResolveName(cfg.ImageModel, cfg.ImageProvider)
	provider, err := factory.GetProvider(ctx, cfg.ImageModel, cfg.ImageProvider)
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to create image provider:", err)
	}

	service := stylist.NewService(provider, stylist.Options{
		Model:    cfg.ImageModel,
		Timeout:  cfg.GenerationTimeout,
		Recorder: recorder,
		Tracer:   tracer,
	})

	registry, err := orchestrator.NewRegistry(service, cfg.MaxSessions)
	if err != nil {
		log.Fatal("Failed to create session registry:", err)
	}

	// Initialize router
	router, err := api.SetupRouter(api.Dependencies{
		Config:             cfg,
		Version:            GetVersion(),
		Registry:           registry,
		Encoder:            media.NewEncoder(cfg.MaxUploadBytes),
		Synthesizer:        service,
		Recorder:           recorder,
		Prometheus:         prom,
		ProviderName:       providerName,
		ProviderConfigured: factory.HasCredential(providerName),
	})
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to set up router:", err)
	}

	log.Printf("🚀 Starting server on port %s (model: %s, provider: %s)", cfg.Port, cfg.ImageModel, providerName)
	if err := router.Run(":" + cfg.Port); err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to start server:", err)
	}
}

func filterSensitiveHeaders(headers map[string]string) map[string]string {
	filtered := make(map[string]string)
	sensitiveKeys := map[string]bool{
		"authorization":  true,
		"cookie":         true,
		"x-api-key":      true,
		"x-goog-api-key": true,
	}

	for k, v := range headers {
		if sensitiveKeys[strings.ToLower(k)] {
			filtered[k] = "[REDACTED]"
		} else {
			filtered[k] = v
		}
	}
	return filtered
}
