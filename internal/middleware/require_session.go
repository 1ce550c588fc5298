package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"complaintdesk/internal/session"
)

const sessionKey = "current_session"

// RequireSession protects API routes: a missing or invalid session cookie is
// a 401, never a redirect.
func RequireSession(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := sessions.Current(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(sessionKey, claims)
		c.Next()
	}
}

// CurrentSession returns the session stored by RequireSession, or nil.
func CurrentSession(c *gin.Context) *session.Claims {
	val, exists := c.Get(sessionKey)
	if !exists {
		return nil
	}
	claims, ok := val.(*session.Claims)
	if !ok {
		return nil
	}
	return claims
}
