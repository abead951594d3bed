package middleware

import (
	"github.com/gin-gonic/gin"
)

const anonymousUserID = "anonymous"

// NoAuth is a pass-through middleware for AUTH_MODE=none.
// It allows all requests without authentication.
func NoAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// logged, never trusted
		c.Set("user_id", anonymousUserID)
		c.Next()
	}
}
