package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/advisorly/internal/app/models"
	"github.com/yigit/advisorly/internal/app/models/dto"
	"github.com/yigit/advisorly/internal/pkg/apperrors"
	"github.com/yigit/advisorly/internal/pkg/auth"
)

var emailRegex = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)

// TokenIssuer issues access tokens for authenticated users
type TokenIssuer interface {
	GenerateAccessToken(user *models.User) (string, int64, error)
}

// AuthService handles authentication operations
type AuthService struct {
	users  UserStore
	tokens TokenIssuer
	logger zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users UserStore, tokens TokenIssuer, logger zerolog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// validateEmail validates an email address
func (s *AuthService) validateEmail(email string) error {
	if email == "" {
		return apperrors.NewValidationError("Email cannot be empty")
	}
	if !emailRegex.MatchString(email) {
		return apperrors.NewValidationError("Invalid email format")
	}
	return nil
}

// validatePassword checks if password meets requirements
func (s *AuthService) validatePassword(password string) error {
	if !auth.IsStrongPassword(password) {
		return apperrors.NewValidationError("Password must be at least 8 characters long and contain a letter and a digit")
	}
	return nil
}

// validateAdvisor checks the advisor a new account is linked to
func (s *AuthService) validateAdvisor(ctx context.Context, role models.RoleType, advisorID *int64) error {
	if advisorID == nil {
		return nil
	}
	if role != models.RoleStudent {
		return apperrors.NewValidationError("Only students can name an advisor")
	}
	advisor, err := s.users.GetByID(ctx, *advisorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return apperrors.NewValidationError("Advisor does not exist")
		}
		return err
	}
	if advisor.RoleType != models.RoleAdvisor {
		return apperrors.NewValidationError("The named user is not an advisor")
	}
	return nil
}

// Register creates a new student or advisor account and signs it in
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validateEmail(email); err != nil {
		return nil, err
	}
	if err := s.validatePassword(req.Password); err != nil {
		return nil, err
	}
	if !req.RoleType.IsValid() {
		return nil, apperrors.NewValidationError("Role must be STUDENT or ADVISOR")
	}
	if err := s.validateAdvisor(ctx, req.RoleType, req.AdvisorID); err != nil {
		return nil, err
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		return nil, err
	}

	user := &models.User{
		Email:     email,
		Password:  hashed,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		RoleType:  req.RoleType,
		AdvisorID: req.AdvisorID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			s.logger.Error().Err(err).Str("email", email).Msg("Failed to create user")
		}
		return nil, err
	}

	s.logger.Info().Int64("userID", user.ID).Str("role", string(user.RoleType)).Msg("User registered")
	return s.authResponse(user)
}

// Login verifies credentials and issues an access token
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(user.Password, req.Password) {
		s.logger.Debug().Str("email", email).Msg("Login failed: wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.authResponse(user)
}

func (s *AuthService) authResponse(user *models.User) (*dto.AuthResponse, error) {
	token, expiresIn, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		s.logger.Error().Err(err).Int64("userID", user.ID).Msg("Failed to generate access token")
		return nil, err
	}
	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   expiresIn,
		},
		User: dto.FromUser(user),
	}, nil
}
