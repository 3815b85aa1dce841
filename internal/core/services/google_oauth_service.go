package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/fuel_credit_app/internal/apperrors"
	"github.com/SscSPs/fuel_credit_app/internal/core/domain"
	portssvc "github.com/SscSPs/fuel_credit_app/internal/core/ports/services"
	"github.com/SscSPs/fuel_credit_app/internal/platform/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

// errNoIDToken is returned when Google's token response lacks an id_token,
// which happens when the openid scope was not granted.
var errNoIDToken = errors.New("google token response carried no id_token")

// googleOAuthHandlerService implements the GoogleOAuthHandlerSvcFacade.
type googleOAuthHandlerService struct {
	clientID     string
	oauth2Config *oauth2.Config
	validate     func(ctx context.Context, idToken string, audience string) (*idtoken.Payload, error)
}

var _ portssvc.GoogleOAuthHandlerSvcFacade = (*googleOAuthHandlerService)(nil)

// NewGoogleOAuthHandlerService creates a new instance of googleOAuthHandlerService.
func NewGoogleOAuthHandlerService(cfg *config.Config) portssvc.GoogleOAuthHandlerSvcFacade {
	return &googleOAuthHandlerService{
		clientID: cfg.GoogleClientID,
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		validate: idtoken.Validate,
	}
}

// ExchangeCodeForIDToken trades an authorization code for the ID token
// Google returns alongside the access token.
func (s *googleOAuthHandlerService) ExchangeCodeForIDToken(ctx context.Context, code string) (string, error) {
	if s.oauth2Config.ClientID == "" || s.oauth2Config.ClientSecret == "" || s.oauth2Config.RedirectURL == "" {
		return "", fmt.Errorf("google code exchange is not configured: %w", apperrors.ErrMisconfigured)
	}

	token, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("failed to exchange oauth code for token: %w", err)
	}

	raw, ok := token.Extra("id_token").(string)
	if !ok || raw == "" {
		return "", errNoIDToken
	}
	return raw, nil
}

// ValidateGoogleIDToken checks signature, expiry and audience, then pulls
// out the identity claims.
func (s *googleOAuthHandlerService) ValidateGoogleIDToken(ctx context.Context, idToken string) (*domain.GoogleIdentity, error) {
	if s.clientID == "" {
		return nil, fmt.Errorf("google client ID is not configured: %w", apperrors.ErrMisconfigured)
	}

	payload, err := s.validate(ctx, idToken, s.clientID)
	if err != nil {
		return nil, fmt.Errorf("google ID token validation failed: %w", err)
	}

	identity := &domain.GoogleIdentity{
		Subject:       payload.Subject,
		Email:         claimString(payload.Claims, "email"),
		EmailVerified: claimBool(payload.Claims, "email_verified"),
		GivenName:     claimString(payload.Claims, "given_name"),
		FamilyName:    claimString(payload.Claims, "family_name"),
		Name:          claimString(payload.Claims, "name"),
	}
	if identity.Subject == "" || identity.Email == "" {
		return nil, errors.New("google ID token is missing subject or email")
	}
	return identity, nil
}

func claimString(claims map[string]interface{}, key string) string {
	v, _ := claims[key].(string)
	return v
}

// claimBool accepts both JSON booleans and the "true" string some issuers emit.
func claimBool(claims map[string]interface{}, key string) bool {
	switch v := claims[key].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	}
	return false
}
