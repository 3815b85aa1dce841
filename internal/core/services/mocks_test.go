package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/fuel_credit_app/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByProviderDetails(ctx context.Context, provider domain.AuthProvider, providerUserID string) (*domain.User, error) {
	args := m.Called(ctx, provider, providerUserID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	return users, args.Error(1)
}

func (m *MockUserRepository) CreateUserWithFuelAccount(ctx context.Context, user domain.User, account domain.FuelAccount) error {
	args := m.Called(ctx, user, account)
	return args.Error(0)
}

func (m *MockUserRepository) LinkProvider(ctx context.Context, userID string, provider domain.AuthProvider, providerUserID string) error {
	args := m.Called(ctx, userID, provider, providerUserID)
	return args.Error(0)
}

// --- Mock RefreshTokenRepository ---
type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) Create(ctx context.Context, token domain.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) FindByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	var token *domain.RefreshToken
	if args.Get(0) != nil {
		token = args.Get(0).(*domain.RefreshToken)
	}
	return token, args.Error(1)
}

func (m *MockRefreshTokenRepository) Rotate(ctx context.Context, id string, oldHash string, newHash string, expiresAt time.Time) error {
	args := m.Called(ctx, id, oldHash, newHash, expiresAt)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) DeleteByHash(ctx context.Context, tokenHash string) (int64, error) {
	args := m.Called(ctx, tokenHash)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRefreshTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock GoogleOAuthHandlerSvcFacade ---
type MockGoogleOAuth struct {
	mock.Mock
}

func (m *MockGoogleOAuth) ExchangeCodeForIDToken(ctx context.Context, code string) (string, error) {
	args := m.Called(ctx, code)
	return args.String(0), args.Error(1)
}

func (m *MockGoogleOAuth) ValidateGoogleIDToken(ctx context.Context, idToken string) (*domain.GoogleIdentity, error) {
	args := m.Called(ctx, idToken)
	var identity *domain.GoogleIdentity
	if args.Get(0) != nil {
		identity = args.Get(0).(*domain.GoogleIdentity)
	}
	return identity, args.Error(1)
}
