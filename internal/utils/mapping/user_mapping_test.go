package mapping

import (
	"testing"
	"time"

	"github.com/SscSPs/fuel_credit_app/internal/core/domain"
	"github.com/SscSPs/fuel_credit_app/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainUserWithAccount(t *testing.T) {
	accID := "acc-1"
	status := "ACTIVE"
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	row := models.UserWithAccount{
		User: models.User{
			UserID:       "user-1",
			Email:        "alice@example.com",
			FirstName:    "Alice",
			LastName:     "Smith",
			AuthProvider: "local",
		},
		AccountID:        &accID,
		Balance:          decimal.NullDecimal{Decimal: decimal.RequireFromString("0.00"), Valid: true},
		CreditLimit:      decimal.NullDecimal{Decimal: decimal.RequireFromString("1000.00"), Valid: true},
		Status:           &status,
		AccountCreatedAt: &created,
	}

	user := ToDomainUserWithAccount(row)

	require.NotNil(t, user.FuelAccount)
	assert.Equal(t, "acc-1", user.FuelAccount.AccountID)
	assert.Equal(t, "user-1", user.FuelAccount.UserID)
	assert.Equal(t, domain.AccountStatusActive, user.FuelAccount.Status)
	assert.Equal(t, "1000.00", user.FuelAccount.CreditLimit.StringFixed(2))
	assert.Equal(t, created, user.FuelAccount.CreatedAt)
	assert.Equal(t, domain.ProviderLocal, user.AuthProvider)
}

func TestToDomainUserWithoutAccount(t *testing.T) {
	user := ToDomainUserWithAccount(models.UserWithAccount{User: models.User{UserID: "user-1"}})

	assert.Nil(t, user.FuelAccount)
}

func TestToDomainUserWithAccountUnknownStatus(t *testing.T) {
	accID := "acc-1"
	for _, status := range []*string{nil, ptr("active"), ptr("FROZEN")} {
		row := models.UserWithAccount{
			User:      models.User{UserID: "user-1"},
			AccountID: &accID,
			Status:    status,
		}

		user := ToDomainUserWithAccount(row)

		require.NotNil(t, user.FuelAccount)
		assert.Equal(t, domain.AccountStatusSuspended, user.FuelAccount.Status)
	}
}

func TestToDomainUserWithAccountKeepsKnownStatus(t *testing.T) {
	accID := "acc-1"
	closed := "CLOSED"

	user := ToDomainUserWithAccount(models.UserWithAccount{User: models.User{UserID: "user-1"}, AccountID: &accID, Status: &closed})

	assert.Equal(t, domain.AccountStatusClosed, user.FuelAccount.Status)
}

func ptr(s string) *string { return &s }
