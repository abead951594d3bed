package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultGenerationTimeout = 120 * time.Second
	defaultMaxUploadBytes    = 10 << 20
	defaultMaxSessions       = 1024

	AuthModeNone    = "none"
	AuthModeGateway = "gateway"
	AuthModeJWT     = "jwt"
)

// Config holds the application configuration.
// Nothing is persisted: edit state lives in memory per browser session.
type Config struct {
	// Environment
	Environment string
	Port        string

	// Image generation
	GeminiAPIKey      string // Google Gemini API key
	GeminiBaseURL     string // optional endpoint override
	OpenAIAPIKey      string // OpenAI API key for gpt-image models
	OpenAIBaseURL     string // optional endpoint override
	ImageModel        string
	ImageProvider     string // "gemini", "openai" or empty to infer from ImageModel
	GenerationTimeout time.Duration

	// Uploads and sessions
	MaxUploadBytes int64
	SessionSecret  string // cookie signing key; random per process when empty
	MaxSessions    int

	// Observability
	SentryDSN         string // Sentry DSN for error tracking
	LangfusePublicKey string // Langfuse public key
	LangfuseSecretKey string // Langfuse secret key
	LangfuseHost      string // Langfuse host URL (cloud or self-hosted)
	LangfuseEnabled   bool   // Feature flag for Langfuse

	// Auth mode
	// - "none": No auth (self-hosted, local dev)
	// - "gateway": Trust X-User-* headers from an upstream gateway
	// - "jwt": Require an HS256 bearer token signed with JWTSecret
	AuthMode  string
	JWTSecret string

	CORSAllowedOrigins []string
}

func Load() *Config {
	return &Config{
		Environment:        getEnv("ENVIRONMENT", "development"),
		Port:               getEnv("PORT", "8080"),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", getEnv("API_KEY", "")),
		GeminiBaseURL:      getEnv("GEMINI_BASE_URL", ""),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", ""),
		ImageModel:         getEnv("IMAGE_MODEL", "gemini-2.5-flash-image"),
		ImageProvider:      getEnv("IMAGE_PROVIDER", ""),
		GenerationTimeout:  getDuration("GENERATION_TIMEOUT", defaultGenerationTimeout),
		MaxUploadBytes:     int64(getInt("MAX_UPLOAD_BYTES", defaultMaxUploadBytes)),
		SessionSecret:      getEnv("SESSION_SECRET", ""),
		MaxSessions:        getInt("MAX_SESSIONS", defaultMaxSessions),
		SentryDSN:          getEnv("SENTRY_DSN", ""),
		LangfusePublicKey:  getEnv("LANGFUSE_PUBLIC_KEY", ""),
		LangfuseSecretKey:  getEnv("LANGFUSE_SECRET_KEY", ""),
		LangfuseHost:       getEnv("LANGFUSE_HOST", "https://cloud.langfuse.com"),
		LangfuseEnabled:    getEnv("LANGFUSE_ENABLED", "false") == "true",
		AuthMode:           getEnv("AUTH_MODE", AuthModeNone), // Default to no auth for self-hosted
		JWTSecret:          getEnv("JWT_SECRET", ""),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		log.Printf("⚠️  Invalid %s=%q, using default %d", key, raw, defaultValue)
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		log.Printf("⚠️  Invalid %s=%q, using default %s", key, raw, defaultValue)
		return defaultValue
	}
	return value
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// IsGatewayMode returns true if running behind an auth gateway
func (c *Config) IsGatewayMode() bool {
	return c.AuthMode == AuthModeGateway
}

// IsProduction reports whether ENVIRONMENT=production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
