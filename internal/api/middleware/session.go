package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

const (
	sessionCookieName = "stylist_session"
	sessionIDKey      = "id"
	sessionHeader     = "X-Session-ID"
	sessionMaxAge     = 7 * 24 * 60 * 60
	sessionKeyLength  = 32
)

// NewSessionStore creates a signed cookie store. An empty secret gets a random
// key, so sessions do not survive a restart.
func NewSessionStore(secret string, secure bool) *sessions.CookieStore {
	key := []byte(secret)
	if len(key) == 0 {
		log.Println("⚠️  SESSION_SECRET not set; using a random key for this process")
		key = securecookie.GenerateRandomKey(sessionKeyLength)
	}

	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// Session attaches a stable session ID to the context as "session_id".
// API clients may send a UUID in X-Session-ID instead of carrying the cookie.
func Session(store sessions.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader(sessionHeader); header != "" {
			id, err := uuid.Parse(header)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
					"error":      "Invalid session",
					"message":    sessionHeader + " must be a UUID",
					"request_id": c.GetString("request_id"),
				})
				return
			}
			setSession(c, id.String())
			c.Next()
			return
		}

		// a tampered or stale cookie yields a fresh session
		session, _ := store.Get(c.Request, sessionCookieName)
		id, _ := session.Values[sessionIDKey].(string)
		if id == "" {
			id = uuid.NewString()
			session.Values[sessionIDKey] = id
			if err := session.Save(c.Request, c.Writer); err != nil {
				log.Printf("⚠️  Failed to save session: %v", err)
			}
		}

		setSession(c, id)
		c.Next()
	}
}

func setSession(c *gin.Context, id string) {
	c.Set("session_id", id)
	tagSession(c, id)
}

// GetSessionID returns the session ID set by Session
func GetSessionID(c *gin.Context) string {
	return c.GetString("session_id")
}

// GetSessionKey is the session ID scoped to the authenticated user. Anonymous
// callers share one namespace.
func GetSessionKey(c *gin.Context) string {
	id := GetSessionID(c)
	if user := c.GetString("user_id"); user != "" && user != anonymousUserID {
		return user + "/" + id
	}
	return id
}
