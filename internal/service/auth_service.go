// Package service implements the application's business logic on top of
// the repository layer.
package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
	"inkwell/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, login, and password verification.
type AuthService struct {
	userRepo   repository.UserRepository
	bcryptCost int
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

type LoginInput struct {
	Email    string
	Password string
}

func NewAuthService(userRepo repository.UserRepository, bcryptCost int) *AuthService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		userRepo:   userRepo,
		bcryptCost: bcryptCost,
	}
}

// Register creates a new account. The email must not already be taken;
// the stored password is a bcrypt hash, never the plaintext.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	if err := validation.ValidateEmail(input.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(input.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateName(input.Name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	existing, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewDuplicateEmailError()
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Email:    input.Email,
		Password: string(hashed),
		Name:     input.Name,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// The unique index is the backstop for a concurrent
		// registration racing past the lookup above.
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and returns the matching user. Unknown
// email and wrong password fail differently so the handlers can show
// the user which step went wrong.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		observability.LoginAttempts.WithLabelValues(observability.LoginOutcomeNoSuchUser).Inc()
		return nil, models.NewNoSuchUserError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		observability.LoginAttempts.WithLabelValues(observability.LoginOutcomeInvalidCredentials).Inc()
		return nil, models.NewInvalidCredentialsError()
	}

	observability.LoginAttempts.WithLabelValues(observability.LoginOutcomeSuccess).Inc()
	return user, nil
}

// GetUser returns the user with the given ID.
func (s *AuthService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// UserCount reports how many accounts exist. The first registered
// account becomes the site admin, so handlers use this to label it.
func (s *AuthService) UserCount(ctx context.Context) (int64, error) {
	return s.userRepo.Count(ctx)
}
