package services

import (
	"fmt"
	"time"

	"github.com/SscSPs/fuel_credit_app/internal/apperrors"
	"github.com/SscSPs/fuel_credit_app/internal/core/domain"
	portssvc "github.com/SscSPs/fuel_credit_app/internal/core/ports/services"
	"github.com/SscSPs/fuel_credit_app/internal/platform/config"
	"github.com/SscSPs/fuel_credit_app/internal/utils"
)

// tokenService signs and verifies the access/refresh pair. Each kind has its
// own secret and its own typ claim.
type tokenService struct {
	accessSecret  string
	refreshSecret string
	issuer        string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

var _ portssvc.TokenSvcFacade = (*tokenService)(nil)

// NewTokenService refuses to build an issuer without two distinct secrets.
func NewTokenService(cfg *config.Config) (portssvc.TokenSvcFacade, error) {
	if cfg.JWTSecret == "" || cfg.RefreshTokenSecret == "" {
		return nil, fmt.Errorf("token signing secrets are not configured: %w", apperrors.ErrMisconfigured)
	}
	if cfg.JWTSecret == cfg.RefreshTokenSecret {
		return nil, fmt.Errorf("access and refresh secrets must differ: %w", apperrors.ErrMisconfigured)
	}
	return &tokenService{
		accessSecret:  cfg.JWTSecret,
		refreshSecret: cfg.RefreshTokenSecret,
		issuer:        cfg.JWTIssuer,
		accessTTL:     cfg.JWTExpiryDuration,
		refreshTTL:    cfg.RefreshTokenExpiryDuration,
	}, nil
}

func (s *tokenService) Issue(userID string) (domain.TokenPair, error) {
	now := time.Now()

	access, err := utils.GenerateJWT(userID, string(domain.AccessTokenKind), s.accessSecret, s.accessTTL, s.issuer, now)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	refresh, err := utils.GenerateJWT(userID, string(domain.RefreshTokenKind), s.refreshSecret, s.refreshTTL, s.issuer, now)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return domain.TokenPair{
		AccessToken:           access,
		RefreshToken:          refresh,
		AccessTokenExpiresAt:  now.Add(s.accessTTL),
		RefreshTokenExpiresAt: now.Add(s.refreshTTL),
	}, nil
}

func (s *tokenService) Verify(token string, kind domain.TokenKind) (string, error) {
	secret := s.accessSecret
	if kind == domain.RefreshTokenKind {
		secret = s.refreshSecret
	}
	claims, err := utils.ParseAndValidateJWT(token, string(kind), secret)
	if err != nil {
		appErr := apperrors.NewInvalidTokenError("Invalid or expired token")
		appErr.Err = fmt.Errorf("%w: %v", apperrors.ErrInvalidToken, err)
		return "", appErr
	}
	return claims.UserID, nil
}
