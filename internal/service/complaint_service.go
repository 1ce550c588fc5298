package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"complaintdesk/internal/ids"
	"complaintdesk/internal/models"
	"complaintdesk/internal/repository"
)

// ComplaintStore is the persistence surface the complaint service needs.
type ComplaintStore interface {
	Create(ctx context.Context, complaint models.Complaint) error
	GetByID(ctx context.Context, id string) (models.Complaint, error)
	List(ctx context.Context, filters repository.ComplaintFilters) ([]models.Complaint, error)
	UpdateStatus(ctx context.Context, id string, status models.ComplaintStatus) error
	Delete(ctx context.Context, id string) error
}

// Notifier dispatches fire-and-forget notifications. Implementations must
// never block the request path; failures are their own to log.
type Notifier interface {
	ComplaintCreated(ctx context.Context, complaint models.Complaint)
	StatusUpdated(ctx context.Context, complaint models.Complaint)
}

// ValidationError carries field-level messages for a rejected input.
type ValidationError struct {
	FieldErrors map[string][]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %d field(s)", len(e.FieldErrors))
}

type ComplaintService struct {
	complaints ComplaintStore
	notifier   Notifier
	validate   *validator.Validate
	log        zerolog.Logger
}

func NewComplaintService(complaints ComplaintStore, notifier Notifier, log zerolog.Logger) *ComplaintService {
	return &ComplaintService{
		complaints: complaints,
		notifier:   notifier,
		validate:   validator.New(),
		log:        log,
	}
}

type CreateComplaintInput struct {
	Title       string `validate:"required,min=3,max=100"`
	Description string `validate:"required,min=10"`
	Category    string `validate:"required,oneof=Product Service Support"`
	Priority    string `validate:"required,oneof=Low Medium High"`
}

// Create records a complaint for the given user. New complaints always start
// Pending with the submission timestamp set server-side.
func (s *ComplaintService) Create(ctx context.Context, userID string, input CreateComplaintInput) (models.Complaint, error) {
	if err := s.validateInput(input); err != nil {
		return models.Complaint{}, err
	}

	complaint := models.Complaint{
		ID:          ids.New(),
		UserID:      userID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Category:    models.ComplaintCategory(input.Category),
		Priority:    models.ComplaintPriority(input.Priority),
		Status:      models.ComplaintStatusPending,
		SubmittedAt: time.Now(),
	}

	if err := s.complaints.Create(ctx, complaint); err != nil {
		return models.Complaint{}, fmt.Errorf("create complaint: %w", err)
	}

	s.notifier.ComplaintCreated(ctx, complaint)
	return complaint, nil
}

func (s *ComplaintService) Get(ctx context.Context, id string) (models.Complaint, error) {
	return s.complaints.GetByID(ctx, id)
}

func (s *ComplaintService) List(ctx context.Context, filters repository.ComplaintFilters) ([]models.Complaint, error) {
	return s.complaints.List(ctx, filters)
}

// UpdateStatus is an administrator action; route middleware enforces the role.
func (s *ComplaintService) UpdateStatus(ctx context.Context, id string, status models.ComplaintStatus) (models.Complaint, error) {
	switch status {
	case models.ComplaintStatusPending, models.ComplaintStatusInProgress, models.ComplaintStatusResolved:
	default:
		return models.Complaint{}, &ValidationError{
			FieldErrors: map[string][]string{"status": {"status must be one of: Pending, In Progress, Resolved."}},
		}
	}

	if err := s.complaints.UpdateStatus(ctx, id, status); err != nil {
		return models.Complaint{}, err
	}

	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		return models.Complaint{}, err
	}

	s.notifier.StatusUpdated(ctx, complaint)
	return complaint, nil
}

func (s *ComplaintService) Delete(ctx context.Context, id string) error {
	return s.complaints.Delete(ctx, id)
}

func (s *ComplaintService) validateInput(input any) error {
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	fieldErrors := make(map[string][]string, len(validationErrors))
	for _, fieldError := range validationErrors {
		field := strings.ToLower(fieldError.Field())
		fieldErrors[field] = append(fieldErrors[field], fieldMessage(fieldError))
	}
	return &ValidationError{FieldErrors: fieldErrors}
}
