package session

import (
	"github.com/gin-gonic/gin"
)

// CookieName is the client-held session cookie.
const CookieName = "session"

// Manager bridges the token codec to the transport's cookie store. Sessions
// are entirely client-held; the server keeps no session table, so revocation
// before natural expiry is impossible by design.
type Manager struct {
	codec  *Codec
	secure bool
}

func NewManager(codec *Codec, secure bool) *Manager {
	return &Manager{codec: codec, secure: secure}
}

// Current returns the session carried by the request cookie, or nil when the
// cookie is absent or fails verification. Invalid and absent are
// indistinguishable to callers.
func (m *Manager) Current(c *gin.Context) *Claims {
	token, err := c.Cookie(CookieName)
	if err != nil || token == "" {
		return nil
	}

	claims, err := m.codec.Decrypt(token)
	if err != nil {
		return nil
	}
	return claims
}

// Issue encodes the user snapshot and sets the session cookie: httpOnly,
// secure in production, site-wide path, 24h max-age.
func (m *Manager) Issue(c *gin.Context, user UserClaims) error {
	token, err := m.codec.Encrypt(user)
	if err != nil {
		return err
	}

	m.setCookie(c, token, int(TTL.Seconds()))
	return nil
}

// Refresh re-issues the cookie with a fresh expiry when a valid session is
// present. Unauthenticated requests get no cookie.
func (m *Manager) Refresh(c *gin.Context) {
	claims := m.Current(c)
	if claims == nil {
		return
	}

	token, err := m.codec.Encrypt(claims.User)
	if err != nil {
		return
	}
	m.setCookie(c, token, int(TTL.Seconds()))
}

// Clear overwrites the cookie with an empty value and an already-expired
// lifetime, deleting it client-side.
func (m *Manager) Clear(c *gin.Context) {
	m.setCookie(c, "", -1)
}

func (m *Manager) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetCookie(CookieName, value, maxAge, "/", "", m.secure, true)
}
