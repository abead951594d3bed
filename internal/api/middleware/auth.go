package middleware

import (
	"log"

	"github.com/Conceptual-Machines/stylist-api/internal/config"
	"github.com/gin-gonic/gin"
)

// Auth selects the middleware for cfg.AuthMode
func Auth(cfg *config.Config) gin.HandlerFunc {
	switch cfg.AuthMode {
	case config.AuthModeGateway:
		log.Println("🔐 Auth mode: gateway (trusting X-User-* headers)")
		return GatewayAuth()
	case config.AuthModeJWT:
		if cfg.JWTSecret == "" {
			log.Println("⚠️  AUTH_MODE=jwt without JWT_SECRET; every request will be rejected")
		}
		log.Println("🔐 Auth mode: jwt")
		return JWTAuth(cfg.JWTSecret)
	default:
		log.Println("🔓 Auth mode: none")
		return NoAuth()
	}
}
