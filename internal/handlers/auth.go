package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"complaintdesk/internal/middleware"
	"complaintdesk/internal/service"
	"complaintdesk/internal/session"
)

type loginForm struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

type registerForm struct {
	Name     string `form:"name" json:"name"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Login authenticates the posted credentials. Success issues the session
// cookie and redirects home; the redirect is terminal. Failure returns the
// structured result for the form to display.
func (h HandlerSet) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, service.Result{Success: false, Message: "Invalid form data."})
		return
	}

	result := h.auth.Login(c.Request.Context(), service.LoginInput{
		Email:    form.Email,
		Password: form.Password,
	})
	if !result.Success {
		c.JSON(http.StatusBadRequest, result)
		return
	}

	if err := h.issueSession(c, result); err != nil {
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// RegisterUser creates the account and, through the service's login
// delegation, establishes the session in the same request.
func (h HandlerSet) RegisterUser(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, service.Result{Success: false, Message: "Invalid form data."})
		return
	}

	result := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
	})
	if !result.Success {
		c.JSON(http.StatusBadRequest, result)
		return
	}

	if err := h.issueSession(c, result); err != nil {
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h HandlerSet) Logout(c *gin.Context) {
	h.sessions.Clear(c)
	c.Redirect(http.StatusSeeOther, "/login")
}

func (h HandlerSet) Me(c *gin.Context) {
	claims := middleware.CurrentSession(c)
	c.JSON(http.StatusOK, gin.H{"user": claims.User})
}

func (h HandlerSet) issueSession(c *gin.Context, result service.Result) error {
	err := h.sessions.Issue(c, session.UserClaims{
		ID:    result.User.ID,
		Name:  result.User.Name,
		Email: result.User.Email,
		Role:  string(result.User.Role),
	})
	if err != nil {
		h.log.Error().Err(err).Msg("issue session failed")
		c.JSON(http.StatusInternalServerError, service.Result{Success: false, Message: "An error occurred during login."})
	}
	return err
}
