package handlers

import (
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"complaintdesk/internal/ids"
	"complaintdesk/internal/middleware"
	"complaintdesk/internal/models"
	"complaintdesk/internal/repository"
	"complaintdesk/internal/service"
)

const maxAttachmentSize = 10 << 20 // 10 MiB

type complaintRequest struct {
	Title       string `form:"title" json:"title"`
	Description string `form:"description" json:"description"`
	Category    string `form:"category" json:"category"`
	Priority    string `form:"priority" json:"priority"`
}

type complaintResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submittedAt"`
}

func toComplaintResponse(c models.Complaint) complaintResponse {
	return complaintResponse{
		ID:          c.ID,
		UserID:      c.UserID,
		Title:       c.Title,
		Description: c.Description,
		Category:    string(c.Category),
		Priority:    string(c.Priority),
		Status:      string(c.Status),
		SubmittedAt: c.SubmittedAt,
	}
}

func (h HandlerSet) CreateComplaint(c *gin.Context) {
	claims := middleware.CurrentSession(c)

	var req complaintRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	complaint, err := h.complaints.Create(c.Request.Context(), claims.User.ID, service.CreateComplaintInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
	})
	if err != nil {
		h.writeComplaintError(c, err, "create complaint failed")
		return
	}

	c.JSON(http.StatusCreated, toComplaintResponse(complaint))
}

// ListComplaints returns the caller's complaints; administrators see all,
// optionally narrowed by status/priority query parameters.
func (h HandlerSet) ListComplaints(c *gin.Context) {
	claims := middleware.CurrentSession(c)

	filters := repository.ComplaintFilters{
		Status:   models.ComplaintStatus(c.Query("status")),
		Priority: models.ComplaintPriority(c.Query("priority")),
	}
	if !claims.User.IsAdmin() {
		filters.UserID = claims.User.ID
	}

	complaints, err := h.complaints.List(c.Request.Context(), filters)
	if err != nil {
		h.log.Error().Err(err).Msg("list complaints failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	items := make([]complaintResponse, 0, len(complaints))
	for _, complaint := range complaints {
		items = append(items, toComplaintResponse(complaint))
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h HandlerSet) GetComplaint(c *gin.Context) {
	complaint, ok := h.loadComplaintForCaller(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toComplaintResponse(complaint))
}

func (h HandlerSet) UpdateComplaintStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	complaint, err := h.complaints.UpdateStatus(c.Request.Context(), c.Param("id"), models.ComplaintStatus(req.Status))
	if err != nil {
		h.writeComplaintError(c, err, "update status failed")
		return
	}

	c.JSON(http.StatusOK, toComplaintResponse(complaint))
}

func (h HandlerSet) DeleteComplaint(c *gin.Context) {
	if err := h.complaints.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeComplaintError(c, err, "delete complaint failed")
		return
	}
	c.Status(http.StatusNoContent)
}

type attachmentResponse struct {
	ID          string `json:"id"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	SizeBytes   int64  `json:"sizeBytes"`
	URL         string `json:"url,omitempty"`
}

func (h HandlerSet) UploadAttachment(c *gin.Context) {
	complaint, ok := h.loadComplaintForCaller(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if fileHeader.Size > maxAttachmentSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "attachment too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.log.Error().Err(err).Msg("open upload failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	attachment := models.Attachment{
		ID:          ids.New(),
		ComplaintID: complaint.ID,
		ObjectKey:   complaint.ID + "/" + ids.New() + filepath.Ext(fileHeader.Filename),
		FileName:    filepath.Base(fileHeader.Filename),
		ContentType: contentType,
		SizeBytes:   fileHeader.Size,
	}

	if err := h.store.PutAttachment(c.Request.Context(), attachment.ObjectKey, file, attachment.SizeBytes, contentType); err != nil {
		h.log.Error().Err(err).Msg("store attachment failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	if err := h.attachments.Create(c.Request.Context(), attachment); err != nil {
		h.log.Error().Err(err).Msg("record attachment failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	c.JSON(http.StatusCreated, attachmentResponse{
		ID:          attachment.ID,
		FileName:    attachment.FileName,
		ContentType: attachment.ContentType,
		SizeBytes:   attachment.SizeBytes,
	})
}

func (h HandlerSet) ListAttachments(c *gin.Context) {
	complaint, ok := h.loadComplaintForCaller(c)
	if !ok {
		return
	}

	attachments, err := h.attachments.ListByComplaint(c.Request.Context(), complaint.ID)
	if err != nil {
		h.log.Error().Err(err).Msg("list attachments failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	items := make([]attachmentResponse, 0, len(attachments))
	for _, attachment := range attachments {
		url, err := h.store.AttachmentURL(c.Request.Context(), attachment.ObjectKey, 15*time.Minute)
		if err != nil {
			h.log.Error().Err(err).Str("attachment_id", attachment.ID).Msg("presign attachment failed")
		}
		items = append(items, attachmentResponse{
			ID:          attachment.ID,
			FileName:    attachment.FileName,
			ContentType: attachment.ContentType,
			SizeBytes:   attachment.SizeBytes,
			URL:         url,
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// loadComplaintForCaller fetches the complaint and enforces owner-or-admin
// access. On failure it writes the response and returns ok=false.
func (h HandlerSet) loadComplaintForCaller(c *gin.Context) (models.Complaint, bool) {
	claims := middleware.CurrentSession(c)

	complaint, err := h.complaints.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeComplaintError(c, err, "load complaint failed")
		return models.Complaint{}, false
	}

	if !claims.User.IsAdmin() && complaint.UserID != claims.User.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return models.Complaint{}, false
	}
	return complaint, true
}

func (h HandlerSet) writeComplaintError(c *gin.Context, err error, logMsg string) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "errors": validationErr.FieldErrors})
	case errors.Is(err, repository.ErrComplaintNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "complaint not found"})
	default:
		h.log.Error().Err(err).Msg(logMsg)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}
