package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/proske/proske-backend/internal/app/models"
	"github.com/proske/proske-backend/internal/app/models/dto"
	"github.com/proske/proske-backend/internal/app/repositories"
	"github.com/proske/proske-backend/internal/pkg/apperrors"
	"github.com/proske/proske-backend/internal/pkg/auth"
	"github.com/proske/proske-backend/internal/pkg/email"
	"github.com/proske/proske-backend/internal/pkg/validation"
)

// AuthService handles registration, login and token lifecycle
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, userID int64) error
	ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error
}

type authService struct {
	userRepo   *repositories.UserRepository
	tokenRepo  *repositories.TokenRepository
	jwtService *auth.JWTService
	emails     email.EmailService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo *repositories.UserRepository,
	tokenRepo *repositories.TokenRepository,
	jwtService *auth.JWTService,
	emails email.EmailService,
	logger zerolog.Logger,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		jwtService: jwtService,
		emails:     emails,
		logger:     logger,
	}
}

// Register creates an account with its role and profile, then issues tokens.
// Self-service registration only grants student or teacher; admins are seeded.
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	role := models.RoleStudent
	if req.Role != "" {
		role = models.AppRole(req.Role)
	}
	if role != models.RoleStudent && role != models.RoleTeacher {
		return nil, apperrors.NewBadRequestError("role must be student or teacher")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:    req.Email,
		Password: hash,
		Role:     role,
	}
	userID, err := s.userRepo.Create(ctx, user, req.FullName)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", userID).Str("role", string(role)).Msg("User registered")

	if err := s.emails.SendWelcomeEmail(req.Email, req.FullName); err != nil {
		s.logger.Warn().Err(err).Str("email", req.Email).Msg("Failed to send welcome email")
	}

	created, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, created)
}

// Login verifies credentials and issues a token pair
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, time.Now()); err != nil {
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to stamp last login")
	}

	full, err := s.userRepo.GetByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, full)
}

// RefreshToken rotates a refresh token, revoking the old one
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	stored, err := s.tokenRepo.Get(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if stored.Revoked {
		return nil, apperrors.ErrTokenRevoked
	}
	if time.Now().After(stored.ExpiresAt) {
		return nil, apperrors.ErrTokenExpired
	}

	user, err := s.userRepo.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.tokenRepo.Revoke(ctx, refreshToken); err != nil {
		return nil, err
	}

	resp, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	return resp.Tokens, nil
}

// Logout revokes all of the user's refresh tokens
func (s *authService) Logout(ctx context.Context, userID int64) error {
	return s.tokenRepo.RevokeAllForUser(ctx, userID)
}

// ChangePassword verifies the current password, replaces the hash and
// revokes all sessions.
func (s *authService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(user.Password, currentPassword) {
		return apperrors.ErrInvalidCredentials
	}

	if !validation.ValidPassword(newPassword) {
		return apperrors.NewBadRequestError("password does not meet the minimum length")
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}

	if err := s.tokenRepo.RevokeAllForUser(ctx, userID); err != nil {
		s.logger.Warn().Err(err).Int64("userID", userID).Msg("Failed to revoke sessions after password change")
	}
	return nil
}

func (s *authService) issueTokens(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(
		user.ID, user.Email, string(user.Role),
	)
	if err != nil {
		return nil, err
	}

	if err := s.tokenRepo.Store(ctx, user.ID, refreshToken, s.jwtService.GetRefreshTokenExpiry()); err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		User: UserToResponse(user),
		Tokens: &dto.TokenResponse{
			AccessToken:      accessToken,
			RefreshToken:     refreshToken,
			ExpiresIn:        expiresIn,
			RefreshExpiresIn: refreshExpiresIn,
			TokenType:        "Bearer",
		},
	}, nil
}

// UserToResponse maps a user model to its public DTO
func UserToResponse(user *models.User) *dto.UserResponse {
	if user == nil {
		return nil
	}
	resp := &dto.UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		Role:        string(user.Role),
		IsActive:    user.IsActive,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
	if user.Profile != nil {
		resp.Profile = &dto.ProfileResponse{
			UserID:    user.Profile.UserID,
			FullName:  user.Profile.FullName,
			Bio:       user.Profile.Bio,
			Phone:     user.Profile.Phone,
			AvatarURL: user.Profile.AvatarURL,
		}
	}
	return resp
}
