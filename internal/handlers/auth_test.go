package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"complaintdesk/internal/config"
	"complaintdesk/internal/models"
	"complaintdesk/internal/repository"
	"complaintdesk/internal/security"
	"complaintdesk/internal/service"
	"complaintdesk/internal/session"
)

type memoryUserStore struct {
	byEmail map[string]models.User
}

func (m *memoryUserStore) Create(_ context.Context, user models.User) error {
	if _, ok := m.byEmail[user.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	m.byEmail[user.Email] = user
	return nil
}

func (m *memoryUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	user, ok := m.byEmail[email]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *memoryUserStore) GetByID(_ context.Context, id string) (models.User, error) {
	for _, user := range m.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

type noopNotifier struct{}

func (noopNotifier) ComplaintCreated(context.Context, models.Complaint) {}
func (noopNotifier) StatusUpdated(context.Context, models.Complaint)    {}

type memoryComplaintStore struct{}

func (memoryComplaintStore) Create(context.Context, models.Complaint) error { return nil }
func (memoryComplaintStore) GetByID(context.Context, string) (models.Complaint, error) {
	return models.Complaint{}, repository.ErrComplaintNotFound
}
func (memoryComplaintStore) List(context.Context, repository.ComplaintFilters) ([]models.Complaint, error) {
	return nil, nil
}
func (memoryComplaintStore) UpdateStatus(context.Context, string, models.ComplaintStatus) error {
	return repository.ErrComplaintNotFound
}
func (memoryComplaintStore) Delete(context.Context, string) error {
	return repository.ErrComplaintNotFound
}

func newTestRouter(t *testing.T, store *memoryUserStore) (*gin.Engine, *session.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	codec, err := session.NewCodec("super-secret")
	require.NoError(t, err)
	sessions := session.NewManager(codec, false)

	logger := zerolog.Nop()
	h := HandlerSet{
		log:        logger,
		cfg:        &config.AppConfig{Environment: "test"},
		sessions:   sessions,
		auth:       service.NewAuthService(store, logger),
		complaints: service.NewComplaintService(memoryComplaintStore{}, noopNotifier{}, logger),
	}

	engine := gin.New()
	engine.POST("/login", h.Login)
	engine.POST("/register", h.RegisterUser)
	engine.POST("/logout", h.Logout)
	return engine, sessions
}

func seedUser(t *testing.T, store *memoryUserStore, email, password string) {
	t.Helper()
	hash, err := security.HashPassword(password)
	require.NoError(t, err)
	store.byEmail[email] = models.User{
		ID:           "u-1",
		Name:         "A",
		Email:        email,
		PasswordHash: hash,
		Role:         models.UserRoleUser,
	}
}

func postForm(router *gin.Engine, target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func findSessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == session.CookieName {
			return cookie
		}
	}
	return nil
}

func TestLoginHandler_Success(t *testing.T) {
	store := &memoryUserStore{byEmail: map[string]models.User{}}
	seedUser(t, store, "a@x.com", "secret1")
	router, _ := newTestRouter(t, store)

	w := postForm(router, "/login", url.Values{"email": {"a@x.com"}, "password": {"secret1"}})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	cookie := findSessionCookie(w)
	require.NotNil(t, cookie, "login must set the session cookie")
	assert.True(t, cookie.HttpOnly)
	assert.NotEmpty(t, cookie.Value)
}

func TestLoginHandler_WrongPassword(t *testing.T) {
	store := &memoryUserStore{byEmail: map[string]models.User{}}
	seedUser(t, store, "a@x.com", "secret1")
	router, _ := newTestRouter(t, store)

	w := postForm(router, "/login", url.Values{"email": {"a@x.com"}, "password": {"wrong-1"}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials.")
	assert.NotContains(t, w.Body.String(), "password")
	assert.Nil(t, findSessionCookie(w))
}

func TestRegisterHandler_EstablishesSession(t *testing.T) {
	store := &memoryUserStore{byEmail: map[string]models.User{}}
	router, sessions := newTestRouter(t, store)

	w := postForm(router, "/register", url.Values{
		"name":     {"A"},
		"email":    {"a@x.com"},
		"password": {"secret1"},
	})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	created, err := store.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, models.UserRoleUser, created.Role)

	cookie := findSessionCookie(w)
	require.NotNil(t, cookie)

	// The cookie round-trips into a session for the new user.
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.AddCookie(&http.Cookie{Name: session.CookieName, Value: cookie.Value})
	claims := sessions.Current(c)
	require.NotNil(t, claims)
	assert.Equal(t, "a@x.com", claims.User.Email)
	assert.Equal(t, "user", claims.User.Role)
}

func TestRegisterHandler_DuplicateEmail(t *testing.T) {
	store := &memoryUserStore{byEmail: map[string]models.User{}}
	seedUser(t, store, "a@x.com", "secret1")
	router, _ := newTestRouter(t, store)

	w := postForm(router, "/register", url.Values{
		"name":     {"B"},
		"email":    {"a@x.com"},
		"password": {"secret2"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "User already exists.")
	assert.Len(t, store.byEmail, 1)
}

func TestLogoutHandler_ClearsCookie(t *testing.T) {
	router, _ := newTestRouter(t, &memoryUserStore{byEmail: map[string]models.User{}})

	w := postForm(router, "/logout", url.Values{})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	cookie := findSessionCookie(w)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}
