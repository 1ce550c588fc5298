package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"complaintdesk/internal/models"
	"complaintdesk/internal/repository"
)

// HomePage renders the complaint dashboard. Users see their own complaints;
// administrators additionally get the triage tab.
func (h HandlerSet) HomePage(c *gin.Context) {
	claims := h.sessions.Current(c)
	if claims == nil {
		// The guard should have redirected already.
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	filters := repository.ComplaintFilters{
		Status:   models.ComplaintStatus(c.Query("status")),
		Priority: models.ComplaintPriority(c.Query("priority")),
	}
	if !claims.User.IsAdmin() {
		filters.UserID = claims.User.ID
	}

	complaints, err := h.complaints.List(c.Request.Context(), filters)
	if err != nil {
		h.log.Error().Err(err).Msg("home: list complaints failed")
	}

	c.HTML(http.StatusOK, "home.html", gin.H{
		"User":       claims.User,
		"IsAdmin":    claims.User.IsAdmin(),
		"AdminTab":   claims.User.IsAdmin() && c.Query("tab") == "admin",
		"Complaints": complaints,
	})
}

func (h HandlerSet) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", nil)
}

func (h HandlerSet) RegisterPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", nil)
}

// AdminPage renders the triage dashboard; the guard has already turned away
// anyone without the admin role.
func (h HandlerSet) AdminPage(c *gin.Context) {
	claims := h.sessions.Current(c)
	if claims == nil {
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	complaints, err := h.complaints.List(c.Request.Context(), repository.ComplaintFilters{
		Status:   models.ComplaintStatus(c.Query("status")),
		Priority: models.ComplaintPriority(c.Query("priority")),
	})
	if err != nil {
		h.log.Error().Err(err).Msg("admin: list complaints failed")
	}

	c.HTML(http.StatusOK, "admin.html", gin.H{
		"User":       claims.User,
		"Complaints": complaints,
	})
}
