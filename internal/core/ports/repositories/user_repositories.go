package repositories

import (
	"context"

	"github.com/SscSPs/fuel_credit_app/internal/core/domain"
)

// UserReader defines read operations for user data. Every read returns the
// user together with the live fuel account, or apperrors.ErrNotFound.
type UserReader interface {
	// FindUserByID retrieves a specific user by their ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail looks a user up by normalized email.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUserByProviderDetails looks up an external-identity account.
	FindUserByProviderDetails(ctx context.Context, provider domain.AuthProvider, providerUserID string) (*domain.User, error)

	// FindUsers retrieves a paginated list of users.
	FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error)
}

// UserWriter defines write operations for user data
type UserWriter interface {
	// CreateUserWithFuelAccount inserts the user and its account in a single
	// transaction. A duplicate email yields apperrors.ErrDuplicate and leaves
	// nothing behind.
	CreateUserWithFuelAccount(ctx context.Context, user domain.User, account domain.FuelAccount) error

	// LinkProvider attaches an external identity to an existing user.
	LinkProvider(ctx context.Context, userID string, provider domain.AuthProvider, providerUserID string) error
}

// UserRepositoryFacade combines all user-related repository interfaces
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
