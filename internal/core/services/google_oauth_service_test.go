package services

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/fuel_credit_app/internal/apperrors"
	"github.com/SscSPs/fuel_credit_app/internal/platform/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"
)

func newTestGoogleService(clientID string, payload *idtoken.Payload, err error) *googleOAuthHandlerService {
	svc := NewGoogleOAuthHandlerService(&config.Config{GoogleClientID: clientID}).(*googleOAuthHandlerService)
	svc.validate = func(_ context.Context, _ string, audience string) (*idtoken.Payload, error) {
		if audience != clientID {
			return nil, errors.New("audience mismatch")
		}
		return payload, err
	}
	return svc
}

func TestValidateGoogleIDTokenExtractsClaims(t *testing.T) {
	svc := newTestGoogleService("client-123", &idtoken.Payload{
		Subject: "sub-1",
		Claims: map[string]interface{}{
			"email":          "bob@gmail.com",
			"email_verified": true,
			"given_name":     "Bob",
			"family_name":    "Jones",
			"name":           "Bob Jones",
		},
	}, nil)

	identity, err := svc.ValidateGoogleIDToken(context.Background(), "tok")

	require.NoError(t, err)
	assert.Equal(t, "sub-1", identity.Subject)
	assert.Equal(t, "bob@gmail.com", identity.Email)
	assert.True(t, identity.EmailVerified)
	assert.Equal(t, "Bob", identity.GivenName)
	assert.Equal(t, "Jones", identity.FamilyName)
}

func TestValidateGoogleIDTokenStringVerifiedClaim(t *testing.T) {
	svc := newTestGoogleService("client-123", &idtoken.Payload{
		Subject: "sub-1",
		Claims:  map[string]interface{}{"email": "bob@gmail.com", "email_verified": "true"},
	}, nil)

	identity, err := svc.ValidateGoogleIDToken(context.Background(), "tok")

	require.NoError(t, err)
	assert.True(t, identity.EmailVerified)
}

func TestValidateGoogleIDTokenFailures(t *testing.T) {
	_, err := newTestGoogleService("", nil, nil).ValidateGoogleIDToken(context.Background(), "tok")
	assert.ErrorIs(t, err, apperrors.ErrMisconfigured)

	_, err = newTestGoogleService("client-123", nil, errors.New("expired")).ValidateGoogleIDToken(context.Background(), "tok")
	assert.Error(t, err)

	_, err = newTestGoogleService("client-123", &idtoken.Payload{Subject: "sub-1", Claims: map[string]interface{}{}}, nil).
		ValidateGoogleIDToken(context.Background(), "tok")
	assert.Error(t, err)
}

func TestExchangeCodeRequiresConfiguration(t *testing.T) {
	svc := NewGoogleOAuthHandlerService(&config.Config{GoogleClientID: "client-123"})

	_, err := svc.ExchangeCodeForIDToken(context.Background(), "code")
	assert.ErrorIs(t, err, apperrors.ErrMisconfigured)
}
