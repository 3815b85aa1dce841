package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/fuel_credit_app/internal/apperrors"
	"github.com/SscSPs/fuel_credit_app/internal/core/domain"
	portsrepo "github.com/SscSPs/fuel_credit_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fuel_credit_app/internal/core/ports/services"
	"github.com/SscSPs/fuel_credit_app/internal/dto"
	"github.com/SscSPs/fuel_credit_app/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

const (
	msgAllFieldsRequired     = "All fields are required"
	msgPasswordTooShort      = "Password must be at least 6 characters"
	msgInvalidEmail          = "Invalid email format"
	msgUserExists            = "User already exists"
	msgLoginFieldsRequired   = "Email and password are required"
	msgRefreshTokenRequired  = "Refresh token required"
	msgInvalidRefreshToken   = "Invalid refresh token"
	msgExpiredRefreshToken   = "Invalid or expired refresh token"
	msgIDTokenRequired       = "ID token required"
	msgInvalidGoogleToken    = "Invalid Google ID token"
	msgAuthCodeRequired      = "Authorization code required"
	msgInvalidAuthCode       = "Invalid authorization code"
	msgGoogleEmailUnverified = "Google account email is not verified"
)

type authService struct {
	BaseService
	userRepo  portsrepo.UserRepositoryFacade
	tokenRepo portsrepo.RefreshTokenRepository
	tokens    portssvc.TokenSvcFacade
	google    portssvc.GoogleOAuthHandlerSvcFacade
	analytics *utils.PosthogClientWrapper
	validate  *validator.Validate
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

// AuthServiceOption configures optional collaborators of the auth service.
type AuthServiceOption func(*authService)

// WithGoogleOAuth enables the Google sign-in flows.
func WithGoogleOAuth(google portssvc.GoogleOAuthHandlerSvcFacade) AuthServiceOption {
	return func(s *authService) { s.google = google }
}

// WithAnalytics forwards sign-up and sign-in events.
func WithAnalytics(analytics *utils.PosthogClientWrapper) AuthServiceOption {
	return func(s *authService) { s.analytics = analytics }
}

func NewAuthService(
	userRepo portsrepo.UserRepositoryFacade,
	tokenRepo portsrepo.RefreshTokenRepository,
	tokens portssvc.TokenSvcFacade,
	opts ...AuthServiceOption,
) portssvc.AuthSvcFacade {
	s := &authService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		tokens:    tokens,
		validate:  newValidator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.AuthResult, error) {
	req.Email = domain.NormalizeEmail(req.Email)

	if err := s.validate.Struct(req); err != nil {
		return nil, registerValidationError(err)
	}

	_, err := s.userRepo.FindUserByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return nil, apperrors.NewConflictError(msgUserExists)
	case !errors.Is(err, apperrors.ErrNotFound):
		s.LogError(ctx, err, "Failed to check for existing user")
		return nil, apperrors.NewInternalServerError(err)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password")
		return nil, apperrors.NewInternalServerError(err)
	}

	user, err := s.createUser(ctx, domain.User{
		Email:        req.Email,
		PasswordHash: &hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		AuthProvider: domain.ProviderLocal,
	})
	if err != nil {
		return nil, err
	}

	result, err := s.startSession(ctx, user)
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "User registered", slog.String("user_id", user.UserID))
	s.analytics.Enqueue(user.UserID, "user_registered", map[string]any{"provider": string(domain.ProviderLocal)})
	return result, nil
}

// registerValidationError picks the single message the client sees. Missing
// fields win over a short password, which wins over a malformed email.
func registerValidationError(err error) error {
	tags := failedTags(err)
	for _, tag := range tags {
		if tag == "required" {
			return apperrors.NewValidationError(msgAllFieldsRequired)
		}
	}
	if _, ok := tags["Password"]; ok {
		return apperrors.NewValidationError(msgPasswordTooShort)
	}
	if _, ok := tags["Email"]; ok {
		return apperrors.NewValidationError(msgInvalidEmail)
	}
	return apperrors.NewValidationError(msgAllFieldsRequired)
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*domain.AuthResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.NewValidationError(msgLoginFieldsRequired)
	}

	user, err := s.userRepo.FindUserByEmail(ctx, domain.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			utils.BurnPasswordCheck(req.Password)
			s.LogInfo(ctx, "Login failed")
			return nil, apperrors.NewInvalidCredentialsError()
		}
		s.LogError(ctx, err, "Failed to look up user for login")
		return nil, apperrors.NewInternalServerError(err)
	}

	if !user.HasPassword() {
		utils.BurnPasswordCheck(req.Password)
		s.LogInfo(ctx, "Login failed", slog.String("user_id", user.UserID))
		return nil, apperrors.NewInvalidCredentialsError()
	}
	if !utils.CheckPasswordHash(req.Password, *user.PasswordHash) {
		s.LogInfo(ctx, "Login failed", slog.String("user_id", user.UserID))
		return nil, apperrors.NewInvalidCredentialsError()
	}

	result, err := s.startSession(ctx, user)
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "User logged in", slog.String("user_id", user.UserID))
	s.analytics.Enqueue(user.UserID, "user_logged_in", map[string]any{"provider": string(domain.ProviderLocal)})
	return result, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	if refreshToken == "" {
		return nil, apperrors.NewValidationError(msgRefreshTokenRequired)
	}

	userID, err := s.tokens.Verify(refreshToken, domain.RefreshTokenKind)
	if err != nil {
		return nil, apperrors.NewInvalidTokenError(msgInvalidRefreshToken)
	}

	oldHash := utils.HashRefreshToken(refreshToken)
	row, err := s.tokenRepo.FindByHash(ctx, oldHash)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewInvalidTokenError(msgExpiredRefreshToken)
		}
		s.LogError(ctx, err, "Failed to look up refresh token")
		return nil, apperrors.NewInternalServerError(err)
	}
	if row.IsExpired(time.Now()) || row.UserID != userID {
		return nil, apperrors.NewInvalidTokenError(msgExpiredRefreshToken)
	}

	pair, err := s.tokens.Issue(userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to issue tokens")
		return nil, apperrors.NewInternalServerError(err)
	}

	// Only the caller that still holds the current fingerprint wins; a
	// replayed or concurrently used token finds zero rows.
	err = s.tokenRepo.Rotate(ctx, row.ID, oldHash, utils.HashRefreshToken(pair.RefreshToken), pair.RefreshTokenExpiresAt)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogWarn(ctx, "Refresh token rotation lost", slog.String("user_id", userID))
			return nil, apperrors.NewInvalidTokenError(msgExpiredRefreshToken)
		}
		s.LogError(ctx, err, "Failed to rotate refresh token")
		return nil, apperrors.NewInternalServerError(err)
	}

	s.LogDebug(ctx, "Refresh token rotated", slog.String("user_id", userID))
	return &pair, nil
}

func (s *authService) Logout(ctx context.Context, userID string, refreshToken string) error {
	if refreshToken == "" {
		s.LogInfo(ctx, "User logged out", slog.String("user_id", userID))
		return nil
	}

	removed, err := s.tokenRepo.DeleteByHash(ctx, utils.HashRefreshToken(refreshToken))
	if err != nil {
		s.LogError(ctx, err, "Failed to delete refresh token", slog.String("user_id", userID))
		return apperrors.NewInternalServerError(err)
	}
	s.LogInfo(ctx, "User logged out", slog.String("user_id", userID), slog.Int64("revoked", removed))
	return nil
}

func (s *authService) LoginWithGoogle(ctx context.Context, idToken string) (*domain.AuthResult, error) {
	if strings.TrimSpace(idToken) == "" {
		return nil, apperrors.NewValidationError(msgIDTokenRequired)
	}
	if s.google == nil {
		return nil, apperrors.NewInternalServerError(apperrors.ErrMisconfigured)
	}

	identity, err := s.google.ValidateGoogleIDToken(ctx, idToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrMisconfigured) {
			s.LogError(ctx, err, "Google sign-in is not configured")
			return nil, apperrors.NewInternalServerError(err)
		}
		s.LogInfo(ctx, "Google ID token rejected", slog.String("error", err.Error()))
		return nil, apperrors.NewInvalidTokenError(msgInvalidGoogleToken)
	}

	user, err := s.resolveGoogleUser(ctx, identity)
	if err != nil {
		return nil, err
	}

	result, err := s.startSession(ctx, user)
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "User logged in with Google", slog.String("user_id", user.UserID))
	s.analytics.Enqueue(user.UserID, "user_logged_in", map[string]any{"provider": string(domain.ProviderGoogle)})
	return result, nil
}

func (s *authService) ExchangeGoogleCode(ctx context.Context, code string) (*domain.AuthResult, error) {
	if strings.TrimSpace(code) == "" {
		return nil, apperrors.NewValidationError(msgAuthCodeRequired)
	}
	if s.google == nil {
		return nil, apperrors.NewInternalServerError(apperrors.ErrMisconfigured)
	}

	idToken, err := s.google.ExchangeCodeForIDToken(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrMisconfigured) {
			s.LogError(ctx, err, "Google code exchange is not configured")
			return nil, apperrors.NewInternalServerError(err)
		}
		s.LogInfo(ctx, "Google code exchange failed", slog.String("error", err.Error()))
		return nil, apperrors.NewInvalidTokenError(msgInvalidAuthCode)
	}
	return s.LoginWithGoogle(ctx, idToken)
}

// resolveGoogleUser finds the account for a verified Google identity,
// linking an existing local account by email or creating a new one.
func (s *authService) resolveGoogleUser(ctx context.Context, identity *domain.GoogleIdentity) (*domain.User, error) {
	user, err := s.userRepo.FindUserByProviderDetails(ctx, domain.ProviderGoogle, identity.Subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to look up user by provider")
		return nil, apperrors.NewInternalServerError(err)
	}

	email := domain.NormalizeEmail(identity.Email)
	existing, err := s.userRepo.FindUserByEmail(ctx, email)
	switch {
	case err == nil:
		if !identity.EmailVerified {
			return nil, apperrors.NewConflictError(msgGoogleEmailUnverified)
		}
		if err := s.userRepo.LinkProvider(ctx, existing.UserID, domain.ProviderGoogle, identity.Subject); err != nil {
			s.LogError(ctx, err, "Failed to link Google identity", slog.String("user_id", existing.UserID))
			return nil, apperrors.NewInternalServerError(err)
		}
		existing.AuthProvider = domain.ProviderGoogle
		existing.ProviderUserID = &identity.Subject
		existing.IsVerified = true
		return existing, nil
	case !errors.Is(err, apperrors.ErrNotFound):
		s.LogError(ctx, err, "Failed to look up user by email")
		return nil, apperrors.NewInternalServerError(err)
	}

	firstName, lastName := identity.GivenName, identity.FamilyName
	if firstName == "" && lastName == "" {
		firstName, lastName, _ = strings.Cut(identity.Name, " ")
	}
	subject := identity.Subject
	return s.createUser(ctx, domain.User{
		Email:          email,
		FirstName:      firstName,
		LastName:       lastName,
		IsVerified:     identity.EmailVerified,
		AuthProvider:   domain.ProviderGoogle,
		ProviderUserID: &subject,
	})
}

// createUser stores the user and the default fuel account atomically.
func (s *authService) createUser(ctx context.Context, user domain.User) (*domain.User, error) {
	now := time.Now().UTC()
	user.UserID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now

	account := domain.NewFuelAccount(uuid.NewString(), user.UserID)
	account.CreatedAt = now
	account.UpdatedAt = now

	if err := s.userRepo.CreateUserWithFuelAccount(ctx, user, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewConflictError(msgUserExists)
		}
		s.LogError(ctx, err, "Failed to create user")
		return nil, apperrors.NewInternalServerError(err)
	}

	user.FuelAccount = &account
	return &user, nil
}

// startSession issues a pair and records the refresh fingerprint.
func (s *authService) startSession(ctx context.Context, user *domain.User) (*domain.AuthResult, error) {
	pair, err := s.tokens.Issue(user.UserID)
	if err != nil {
		s.LogError(ctx, err, "Failed to issue tokens", slog.String("user_id", user.UserID))
		return nil, apperrors.NewInternalServerError(err)
	}

	now := time.Now().UTC()
	err = s.tokenRepo.Create(ctx, domain.RefreshToken{
		ID:          ulid.Make().String(),
		UserID:      user.UserID,
		TokenHash:   utils.HashRefreshToken(pair.RefreshToken),
		ExpiresAt:   pair.RefreshTokenExpiresAt,
		AuditFields: domain.AuditFields{CreatedAt: now, UpdatedAt: now},
	})
	if err != nil {
		s.LogError(ctx, fmt.Errorf("persist refresh token: %w", err), "Failed to start session", slog.String("user_id", user.UserID))
		return nil, apperrors.NewInternalServerError(err)
	}

	return &domain.AuthResult{User: user, Tokens: pair}, nil
}
