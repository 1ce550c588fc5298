package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"complaintdesk/internal/ids"
	"complaintdesk/internal/models"
	"complaintdesk/internal/repository"
	"complaintdesk/internal/security"
)

// UserStore is the slice of the credential store the auth service needs.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
}

// Result is the structured outcome of a form action. Expected failures
// (validation, bad credentials, duplicate email) come back as a Result with
// Success false, never as an error. User is set only on success.
type Result struct {
	Success     bool                `json:"success"`
	Message     string              `json:"message,omitempty"`
	FieldErrors map[string][]string `json:"errors,omitempty"`
	User        *models.User        `json:"-"`
}

func failure(message string) Result {
	return Result{Success: false, Message: message}
}

type AuthService struct {
	users    UserStore
	validate *validator.Validate
	log      zerolog.Logger
}

func NewAuthService(users UserStore, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		validate: validator.New(),
		log:      log,
	}
}

type LoginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

type RegisterInput struct {
	Name     string `validate:"required,min=2"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

// Login validates credentials and returns the matched user on success. The
// caller issues the session cookie and redirects; nothing runs after that.
func (s *AuthService) Login(ctx context.Context, input LoginInput) Result {
	if fieldErrors := s.validateInput(input); fieldErrors != nil {
		return Result{Success: false, Message: "Invalid form data.", FieldErrors: fieldErrors}
	}

	email := strings.TrimSpace(strings.ToLower(input.Email))
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return Result{
				Success:     false,
				Message:     "User not found.",
				FieldErrors: map[string][]string{"email": {"User not found."}},
			}
		}
		s.log.Error().Err(err).Msg("login: find user failed")
		return failure("An error occurred during login.")
	}

	// Deliberately generic: never confirm which of email/password was wrong.
	if !security.VerifyPassword(input.Password, user.PasswordHash) {
		return failure("Invalid credentials.")
	}

	return Result{Success: true, User: &user}
}

// Register creates the user and immediately establishes a session by
// delegating to Login; registration succeeds only if both steps do.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) Result {
	if fieldErrors := s.validateInput(input); fieldErrors != nil {
		return Result{Success: false, Message: "Invalid form data.", FieldErrors: fieldErrors}
	}

	email := strings.TrimSpace(strings.ToLower(input.Email))
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return failure("User already exists.")
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		s.log.Error().Err(err).Msg("register: find user failed")
		return failure("An error occurred during registration.")
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		s.log.Error().Err(err).Msg("register: hash password failed")
		return failure("An error occurred during registration.")
	}

	user := models.User{
		ID:           ids.New(),
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         models.UserRoleUser,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return failure("User already exists.")
		}
		s.log.Error().Err(err).Msg("register: create user failed")
		return failure("An error occurred during registration.")
	}

	return s.Login(ctx, LoginInput{Email: input.Email, Password: input.Password})
}

// validateInput maps validator failures to per-field message lists, keyed by
// the lowercased field name.
func (s *AuthService) validateInput(input any) map[string][]string {
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return map[string][]string{"form": {"Invalid form data."}}
	}

	fieldErrors := make(map[string][]string, len(validationErrors))
	for _, fieldError := range validationErrors {
		field := strings.ToLower(fieldError.Field())
		fieldErrors[field] = append(fieldErrors[field], fieldMessage(fieldError))
	}
	return fieldErrors
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required."
	case "email":
		return "Please enter a valid email address."
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters long."
	case "max":
		return fe.Field() + " must not exceed " + fe.Param() + " characters."
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param() + "."
	default:
		return fe.Field() + " is invalid."
	}
}
