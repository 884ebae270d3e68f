package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	domain "image-classifier-service/internal/domain/user"
	apperrors "image-classifier-service/pkg/errors"
	"image-classifier-service/pkg/logger"
)

// User-visible flash messages.
const (
	MsgEmailTooShort     = "Email must be greater than 3 characters."
	MsgFirstNameTooShort = "First name must be greater than 1 character."
	MsgPasswordMismatch  = "Passwords don't match."
	MsgPasswordTooShort  = "Password must be at least 7 characters."
	MsgEmailTooLong      = "Email must be at most 150 characters."
	MsgFirstNameTooLong  = "First name must be at most 150 characters."
	MsgPasswordTooLong   = "Password must be at most 150 characters."
	MsgEmailExists       = "Email already exists."
	MsgAccountCreated    = "Account created!"
	MsgEmailNotFound     = "Email does not exist."
	MsgIncorrectPassword = "Incorrect password, try again."
	MsgLoggedIn          = "Logged in successfully!"
	MsgLoggedOut         = "Logged out."
	MsgLoginRequired     = "Please log in to access this page."
)

// Repository defines the credential store operations used by the usecase.
type Repository interface {
	Create(ctx context.Context, u *domain.User) (int64, error)          // Create a new user
	GetByID(ctx context.Context, id int64) (*domain.User, error)        // Retrieve user by ID
	GetByEmail(ctx context.Context, email string) (*domain.User, error) // Retrieve user by email, nil if absent
	Delete(ctx context.Context, id int64) (int64, error)                // Delete user and owned images
}

// SessionStore binds opaque session ids to user ids.
type SessionStore interface {
	Create(ctx context.Context, userID int64) (string, error)
	Get(ctx context.Context, id string) (int64, bool, error)
	Destroy(ctx context.Context, id string) error
}

// Service implements sign-up, login and session checks.
type Service struct {
	repo     Repository
	sessions SessionStore
	log      *zap.Logger
	validate *validator.Validate
	cost     int // bcrypt cost
}

// New creates a new auth Service.
func New(r Repository, s SessionStore, log *zap.Logger) *Service {
	return &Service{
		repo:     r,
		sessions: s,
		log:      log,
		validate: validator.New(),
		cost:     bcrypt.DefaultCost,
	}
}

// signUpMessage maps the first failed sign-up rule to its flash message.
func signUpMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "Email":
		if fe.Tag() == "max" {
			return MsgEmailTooLong
		}
		return MsgEmailTooShort
	case "FirstName":
		if fe.Tag() == "max" {
			return MsgFirstNameTooLong
		}
		return MsgFirstNameTooShort
	case "Password1":
		switch fe.Tag() {
		case "eqfield":
			return MsgPasswordMismatch
		case "max":
			return MsgPasswordTooLong
		}
		return MsgPasswordTooShort
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		fe := validationErrors[0]
		return apperrors.NewValidationError("", fe.Field(), signUpMessage(fe))
	}
	return err
}

// SignUp validates the form, stores the account with a hashed password and
// opens a session for it.
func (s *Service) SignUp(ctx context.Context, in SignUpRequest) (*AuthResponse, error) {
	log := logger.WithContext(ctx, s.log)
	log.Info("signing up user", zap.String("email", in.Email))

	if err := s.validate.Struct(in); err != nil {
		log.Warn("sign-up validation failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	existing, err := s.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		log.Error("failed to check existing email", zap.String("email", in.Email), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to validate email uniqueness", err)
	}
	if existing != nil {
		log.Warn("email already exists", zap.String("email", in.Email))
		return nil, apperrors.NewAlreadyExistsError("user", MsgEmailExists)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password1), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, apperrors.NewValidationError("", "Password1", MsgPasswordTooLong)
		}
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	u := &domain.User{
		Email:     in.Email,
		Password:  string(hash),
		FirstName: in.FirstName,
	}
	id, err := s.repo.Create(ctx, u)
	if err != nil {
		log.Error("failed to create user", zap.Error(err))
		return nil, err
	}
	u.ID = id

	return s.openSession(ctx, u, MsgAccountCreated)
}

// Login checks the credentials and opens a session.
func (s *Service) Login(ctx context.Context, in LoginRequest) (*AuthResponse, error) {
	log := logger.WithContext(ctx, s.log)

	u, err := s.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		log.Error("failed to look up user", zap.String("email", in.Email), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to look up user", err)
	}
	if u == nil {
		log.Info("login for unknown email", zap.String("email", in.Email))
		return nil, apperrors.NewCredentialError(apperrors.CodeEmailNotFound, MsgEmailNotFound)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(in.Password)); err != nil {
		log.Info("login with incorrect password", zap.Int64("user_id", u.ID))
		return nil, apperrors.NewCredentialError(apperrors.CodeIncorrectPassword, MsgIncorrectPassword)
	}

	return s.openSession(ctx, u, MsgLoggedIn)
}

func (s *Service) openSession(ctx context.Context, u *domain.User, message string) (*AuthResponse, error) {
	sid, err := s.sessions.Create(ctx, u.ID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to create session", err)
	}

	logger.WithContext(ctx, s.log).Info("user authenticated", zap.Int64("user_id", u.ID))
	return &AuthResponse{
		User:      User{ID: u.ID, Email: u.Email, FirstName: u.FirstName},
		SessionID: sid,
		Message:   message,
	}, nil
}

// Logout ends the session.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Destroy(ctx, sessionID); err != nil {
		return apperrors.NewInternalError("failed to end session", err)
	}
	return nil
}

// Authenticate resolves a session id to its user. Unknown sessions and
// sessions whose user no longer exists are unauthorized.
func (s *Service) Authenticate(ctx context.Context, sessionID string) (*User, error) {
	userID, ok, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to read session", err)
	}
	if !ok {
		return nil, apperrors.NewUnauthorizedError(MsgLoginRequired)
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		var notFound *apperrors.NotFoundError
		if errors.As(err, &notFound) {
			_ = s.sessions.Destroy(ctx, sessionID)
			return nil, apperrors.NewUnauthorizedError(MsgLoginRequired)
		}
		return nil, err
	}

	return &User{ID: u.ID, Email: u.Email, FirstName: u.FirstName}, nil
}
