package dto

import (
	"github.com/SscSPs/fuel_credit_app/internal/core/domain"
)

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,simple_email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest is the body of POST /api/auth/refresh and /api/auth/logout.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// GoogleLoginRequest carries an ID token obtained on the device.
type GoogleLoginRequest struct {
	IDToken string `json:"idToken"`
}

// ExchangeCodeRequest carries an OAuth2 authorization code.
type ExchangeCodeRequest struct {
	Code string `json:"code"`
}

// TokensResponse is the wire form of a token pair.
type TokensResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Message string         `json:"message"`
	User    UserResponse   `json:"user"`
	Tokens  TokensResponse `json:"tokens"`
}

// RefreshResponse is returned by refresh.
type RefreshResponse struct {
	Tokens TokensResponse `json:"tokens"`
}

// MessageResponse is a bare acknowledgement, also used for error bodies.
type MessageResponse struct {
	Message string `json:"message"`
}

// ToTokensResponse converts a domain pair to its wire form.
func ToTokensResponse(p domain.TokenPair) TokensResponse {
	return TokensResponse{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
	}
}

// ToAuthResponse converts a service result to the register/login body.
func ToAuthResponse(message string, res *domain.AuthResult) AuthResponse {
	return AuthResponse{
		Message: message,
		User:    ToUserResponse(res.User),
		Tokens:  ToTokensResponse(res.Tokens),
	}
}
