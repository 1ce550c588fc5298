package middleware

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"complaintdesk/internal/models"
	"complaintdesk/internal/session"
)

func apiRouter(t *testing.T) (*gin.Engine, *session.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	codec, err := session.NewCodec("super-secret")
	require.NoError(t, err)
	sessions := session.NewManager(codec, false)

	router := gin.New()
	protected := router.Group("/api/v1")
	protected.Use(RequireSession(sessions))
	protected.GET("/me", func(c *gin.Context) {
		claims := CurrentSession(c)
		c.JSON(http.StatusOK, gin.H{"email": claims.User.Email})
	})

	admin := router.Group("/api/v1/admin")
	admin.Use(RequireSession(sessions), RequireRoles(models.UserRoleAdmin))
	admin.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	return router, sessions
}

func TestRequireSession_MissingCookie(t *testing.T) {
	router, _ := apiRouter(t)

	w := get(router, "/api/v1/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireSession_InvalidCookie(t *testing.T) {
	router, _ := apiRouter(t)

	w := get(router, "/api/v1/me", &http.Cookie{Name: session.CookieName, Value: "junk"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireSession_Valid(t *testing.T) {
	router, sessions := apiRouter(t)
	cookie := sessionCookie(t, sessions, "user")

	w := get(router, "/api/v1/me", cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "a@x.com")
}

func TestRequireRoles(t *testing.T) {
	router, sessions := apiRouter(t)

	user := sessionCookie(t, sessions, "user")
	w := get(router, "/api/v1/admin/ping", user)
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin := sessionCookie(t, sessions, "admin")
	w = get(router, "/api/v1/admin/ping", admin)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestSessionRefresh_ReissuesCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	codec, err := session.NewCodec("super-secret")
	require.NoError(t, err)
	sessions := session.NewManager(codec, false)

	router := gin.New()
	router.Use(SessionRefresh(sessions))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	cookie := sessionCookie(t, sessions, "user")
	w := get(router, "/", cookie)

	require.Equal(t, http.StatusOK, w.Code)
	var refreshed *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == session.CookieName {
			refreshed = ck
		}
	}
	require.NotNil(t, refreshed, "refresh must re-issue the session cookie")
	assert.Equal(t, int(session.TTL.Seconds()), refreshed.MaxAge)
}
