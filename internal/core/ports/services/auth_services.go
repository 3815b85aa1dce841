package services

import (
	"context"

	"github.com/SscSPs/fuel_credit_app/internal/core/domain"
	"github.com/SscSPs/fuel_credit_app/internal/dto"
)

// TokenSvcFacade issues and verifies the signed access/refresh pair.
type TokenSvcFacade interface {
	// Issue signs a fresh pair for userID.
	Issue(userID string) (domain.TokenPair, error)
	// Verify checks signature, expiry and kind, returning the encoded user id.
	Verify(token string, kind domain.TokenKind) (string, error)
}

// AuthSvcFacade orchestrates the session lifecycle.
type AuthSvcFacade interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.AuthResult, error)
	Login(ctx context.Context, req dto.LoginRequest) (*domain.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	Logout(ctx context.Context, userID string, refreshToken string) error
	LoginWithGoogle(ctx context.Context, idToken string) (*domain.AuthResult, error)
	ExchangeGoogleCode(ctx context.Context, code string) (*domain.AuthResult, error)
}

// GoogleOAuthHandlerSvcFacade defines the interface for Google OAuth operations.
type GoogleOAuthHandlerSvcFacade interface {
	// ExchangeCodeForIDToken trades an authorization code for Google's ID token.
	ExchangeCodeForIDToken(ctx context.Context, code string) (string, error)
	// ValidateGoogleIDToken verifies an ID token against the configured client ID.
	ValidateGoogleIDToken(ctx context.Context, idToken string) (*domain.GoogleIdentity, error)
}
