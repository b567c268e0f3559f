package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ndewijer/Fund-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/auth"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/model"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/repository"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/validation"
)

// AuthService handles registration, login, token refresh and logout.
type AuthService struct {
	userRepo  *repository.UserRepository
	tokens    *auth.TokenManager
	blacklist auth.Blacklist
	log       logrus.FieldLogger
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	userRepo *repository.UserRepository,
	tokens *auth.TokenManager,
	blacklist auth.Blacklist,
	log logrus.FieldLogger,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokens:    tokens,
		blacklist: blacklist,
		log:       log.WithField("component", "auth"),
	}
}

// Register creates an active, non-staff account.
// Validation failures, including an email already in use, are *validation.Error.
func (s *AuthService) Register(ctx context.Context, req request.RegisterRequest) (model.User, error) {
	req.Email = strings.TrimSpace(req.Email)

	if err := validation.ValidateRegister(req); err != nil {
		return model.User{}, err
	}

	exists, err := s.userRepo.EmailExists(ctx, req.Email)
	if err != nil {
		return model.User{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRegisterUser, err)
	}
	if exists {
		return model.User{}, validation.NewFieldError(validation.NonFieldErrors, "email already exists")
	}

	if err := validation.ValidatePasswordStrength(req.Password1); err != nil {
		return model.User{}, err
	}

	hash, err := auth.HashPassword(req.Password1)
	if err != nil {
		return model.User{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRegisterUser, err)
	}

	user := model.User{
		Email:        req.Email,
		Username:     strings.TrimSpace(req.Username),
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.userRepo.InsertUser(ctx, &user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateEntry) {
			return model.User{}, validation.NewFieldError(validation.NonFieldErrors, "email already exists")
		}
		return model.User{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRegisterUser, err)
	}

	s.log.WithField("user_id", user.ID).Info("user registered")
	return user, nil
}

// Login checks credentials and issues an access and refresh token pair.
// Unknown emails, wrong passwords and disabled accounts are all apperrors.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, req request.LoginRequest) (model.TokenPair, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, req.Email)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		return model.TokenPair{}, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return model.TokenPair{}, err
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		return model.TokenPair{}, err
	}
	if !user.IsActive {
		return model.TokenPair{}, apperrors.ErrInvalidCredentials
	}

	access, _, err := s.tokens.IssueAccessToken(user.ID)
	if err != nil {
		return model.TokenPair{}, err
	}
	refresh, err := s.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return model.TokenPair{}, err
	}

	s.log.WithField("user_id", user.ID).Info("user logged in")
	return model.TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	userID, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return "", err
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		return "", apperrors.ErrInvalidToken
	}
	if err != nil {
		return "", err
	}
	if !user.IsActive {
		return "", apperrors.ErrInvalidToken
	}

	access, _, err := s.tokens.IssueAccessToken(user.ID)
	return access, err
}

// Authenticate resolves a bearer access token to a user ID.
// Blacklisted tokens are apperrors.ErrTokenBlacklisted; any other rejection is apperrors.ErrInvalidToken.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (string, error) {
	claims, err := s.tokens.ParseAccessToken(accessToken)
	if err != nil {
		return "", err
	}
	if err := validation.ValidateUserID(claims.UserID); err != nil {
		return "", fmt.Errorf("%w: %w", apperrors.ErrInvalidToken, err)
	}

	blacklisted, err := s.blacklist.Contains(ctx, accessToken)
	if err != nil {
		return "", err
	}
	if blacklisted {
		return "", apperrors.ErrTokenBlacklisted
	}
	return claims.UserID, nil
}

// Logout blacklists the access token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.tokens.ParseAccessToken(accessToken)
	if err != nil {
		return err
	}

	if err := s.blacklist.Add(ctx, accessToken, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrFailedToLogout, err)
	}

	s.log.WithField("user_id", claims.UserID).Info("user logged out")
	return nil
}
