package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/advisorly/internal/app/models"
)

// UserService defines the interface for user operations
type UserService interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserProfile(ctx context.Context, userID int64) (*models.User, error)
	ListByRole(ctx context.Context, role models.RoleType) ([]*models.User, error)
}

// userServiceImpl implements UserService
type userServiceImpl struct {
	users  UserStore
	logger zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(users UserStore, logger zerolog.Logger) UserService {
	return &userServiceImpl{
		users:  users,
		logger: logger,
	}
}

// GetUserByID retrieves a user by ID
func (s *userServiceImpl) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// GetUserProfile retrieves the profile of the signed-in user
func (s *userServiceImpl) GetUserProfile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.logger.Debug().Err(err).Int64("userID", userID).Msg("Profile lookup failed")
		return nil, err
	}
	return user, nil
}

// ListByRole lists every user with the given role, used to pick advisors and
// project members
func (s *userServiceImpl) ListByRole(ctx context.Context, role models.RoleType) ([]*models.User, error) {
	return s.users.ListByRole(ctx, role)
}
