package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/staffsync/staffsync_backend/internal/apperrors"
	"github.com/staffsync/staffsync_backend/internal/core/domain"
	portsrepo "github.com/staffsync/staffsync_backend/internal/core/ports/repositories"
	portssvc "github.com/staffsync/staffsync_backend/internal/core/ports/services"
	"github.com/staffsync/staffsync_backend/internal/utils"
	"github.com/staffsync/staffsync_backend/pkg/config"
)

// tokenService implements the TokenSvcFacade interface. Access tokens are
// stateless JWTs; refresh tokens are opaque random strings stored hashed.
type tokenService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
	cfg      *config.Config
}

// NewTokenService creates a new token service.
func NewTokenService(userRepo portsrepo.UserRepositoryFacade, cfg *config.Config) portssvc.TokenSvcFacade {
	return &tokenService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

// Ensure tokenService implements the TokenSvcFacade interface
var _ portssvc.TokenSvcFacade = (*tokenService)(nil)

// GenerateAccessToken creates a signed JWT access token for the user.
func (s *tokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	expiry := time.Now().Add(s.cfg.JWTExpiryDuration)
	token, err := utils.GenerateJWT(user.UserID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to generate access token", slog.String("user_id", user.UserID))
		return "", time.Time{}, err
	}
	return token, expiry, nil
}

// GenerateRefreshToken creates a refresh token, stores its hash and returns
// the raw token plus its expiry. Only the hash is ever persisted.
func (s *tokenService) GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	raw, err := utils.GenerateSecureRandomString(s.cfg.RefreshTokenLengthBytes)
	if err != nil {
		s.LogError(ctx, err, "Failed to generate refresh token", slog.String("user_id", user.UserID))
		return "", time.Time{}, err
	}

	expiry := time.Now().Add(s.cfg.RefreshTokenExpiryDuration)
	if err := s.userRepo.UpdateRefreshToken(ctx, user.UserID, utils.HashRefreshToken(raw), expiry); err != nil {
		s.LogError(ctx, err, "Failed to store refresh token hash", slog.String("user_id", user.UserID))
		return "", time.Time{}, err
	}
	return raw, expiry, nil
}

// ValidateAndParseRefreshToken checks the raw refresh token against the
// stored hash and returns the owning user.
func (s *tokenService) ValidateAndParseRefreshToken(ctx context.Context, userID string, refreshToken string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.RefreshTokenHash == nil || user.RefreshTokenExpiry == nil {
		return nil, fmt.Errorf("%w: no refresh token on record", apperrors.ErrValidation)
	}
	if time.Now().After(*user.RefreshTokenExpiry) {
		return nil, fmt.Errorf("%w: refresh token expired", apperrors.ErrValidation)
	}
	if !utils.CompareRefreshTokenHash(refreshToken, *user.RefreshTokenHash) {
		s.LogWarn(ctx, "Refresh token mismatch", slog.String("user_id", userID))
		return nil, fmt.Errorf("%w: invalid refresh token", apperrors.ErrValidation)
	}
	return user, nil
}
