package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"complaintdesk/internal/session"
)

// Guard gates navigational requests by session presence and role. Decisions
// are evaluated in order; the first match wins:
//
//  1. authenticated on an auth page        -> redirect home
//  2. unauthenticated off the auth pages   -> redirect to login
//  3. non-admin on an admin path           -> redirect home
//  4. non-admin on home with ?tab=admin    -> redirect home, tab stripped
//  5. otherwise pass through
//
// API routes and static assets are excluded and must enforce their own
// checks (RequireSession / RequireRoles).
func Guard(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if guardExcluded(path) {
			c.Next()
			return
		}

		claims := sessions.Current(c)

		switch {
		case claims != nil && isAuthPage(path):
			redirect(c, "/")
		case claims == nil && !isAuthPage(path):
			redirect(c, "/login")
		case claims != nil && !claims.User.IsAdmin() && strings.HasPrefix(path, "/admin"):
			redirect(c, "/")
		case claims != nil && !claims.User.IsAdmin() && path == "/" && c.Query("tab") == "admin":
			redirect(c, homeWithoutAdminTab(c))
		default:
			c.Next()
		}
	}
}

// SessionRefresh extends the session expiry on qualifying requests by
// re-issuing the cookie. Unauthenticated requests are untouched.
func SessionRefresh(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessions.Refresh(c)
		c.Next()
	}
}

func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
	c.Abort()
}

func isAuthPage(path string) bool {
	return path == "/login" || path == "/register"
}

func guardExcluded(path string) bool {
	return strings.HasPrefix(path, "/api/") ||
		strings.HasPrefix(path, "/static/") ||
		path == "/favicon.ico"
}

// homeWithoutAdminTab rebuilds the home URL with the admin tab parameter
// removed, keeping everything else.
func homeWithoutAdminTab(c *gin.Context) string {
	query := c.Request.URL.Query()
	query.Del("tab")
	if encoded := query.Encode(); encoded != "" {
		return "/?" + encoded
	}
	return "/"
}
