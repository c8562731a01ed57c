package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/shareit-project/shareit/internal/domain"
	"github.com/shareit-project/shareit/internal/lock"
	"github.com/shareit-project/shareit/internal/repository"
)

// registerLockTTL bounds the email uniqueness pre-check window.
const registerLockTTL = 5 * time.Second

// UserService handles user account operations.
type UserService struct {
	userRepo repository.UserRepository
	locker   lock.Locker
	logger   zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(
	userRepo repository.UserRepository,
	locker lock.Locker,
	logger zerolog.Logger,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		locker:   locker,
		logger:   logger.With().Str("service", "user").Logger(),
	}
}

// =============================================================================
// Input/Output Structs
// =============================================================================

// CreateUserInput contains the data needed to create a user.
type CreateUserInput struct {
	Name  string
	Email string
}

// UpdateUserInput contains the data for a partial user update.
// Nil fields keep their current value.
type UpdateUserInput struct {
	UserID int64
	Name   *string
	Email  *string
}

// =============================================================================
// Service Methods
// =============================================================================

// CreateUser creates a new user account.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidName
	}
	if err := validateEmail(input.Email); err != nil {
		return nil, err
	}

	// The uniqueness pre-check and the insert are not atomic; a
	// per-email lock keeps concurrent registrations from slipping
	// between them. The UNIQUE constraint stays as the backstop.
	key := lock.Keys.UserCreate(input.Email)
	acquired, err := s.locker.Acquire(ctx, key, registerLockTTL)
	if err != nil {
		s.logger.Error().Err(err).Str("email", input.Email).Msg("failed to acquire registration lock")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	if !acquired {
		return nil, ErrLockUnavailable
	}
	defer func() {
		if _, err := s.locker.Release(ctx, key); err != nil {
			s.logger.Warn().Err(err).Str("email", input.Email).Msg("failed to release registration lock")
		}
	}()

	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		s.logger.Error().Err(err).Str("email", input.Email).Msg("failed to check email existence")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	if exists {
		return nil, domain.ErrEmailAlreadyExists
	}

	user := domain.NewUser(input.Name, input.Email)
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			return nil, domain.ErrEmailAlreadyExists
		}
		s.logger.Error().Err(err).Str("email", input.Email).Msg("failed to create user")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().
		Int64("user_id", user.ID).
		Str("email", user.Email).
		Msg("user created")

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		s.logger.Error().Err(err).Int64("user_id", id).Msg("failed to get user")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return user, nil
}

// UpdateUser applies a partial update to a user. Only the fields set
// in the input change.
func (s *UserService) UpdateUser(ctx context.Context, input UpdateUserInput) (*domain.User, error) {
	user, err := s.GetUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrInvalidName
		}
		user.Name = *input.Name
	}

	if input.Email != nil && *input.Email != user.Email {
		if err := validateEmail(*input.Email); err != nil {
			return nil, err
		}
		exists, err := s.userRepo.ExistsByEmail(ctx, *input.Email)
		if err != nil {
			s.logger.Error().Err(err).Str("email", *input.Email).Msg("failed to check email existence")
			return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
		}
		if exists {
			return nil, domain.ErrEmailAlreadyExists
		}
		user.Email = *input.Email
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, domain.ErrUserNotFound
		case errors.Is(err, domain.ErrEmailAlreadyExists):
			return nil, domain.ErrEmailAlreadyExists
		}
		s.logger.Error().Err(err).Int64("user_id", user.ID).Msg("failed to update user")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("user updated")

	return user, nil
}

// DeleteUser deletes a user by ID.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrUserNotFound
		}
		s.logger.Error().Err(err).Int64("user_id", id).Msg("failed to delete user")
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}

// ListUsers returns all users.
func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list users")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return users, nil
}

// validateEmail checks that the email is present and well-formed.
func validateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}
	return nil
}
