package domain

import (
	"github.com/shopspring/decimal"
)

// AccountStatus is the lifecycle state of a fuel account.
type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "ACTIVE"
	AccountStatusSuspended AccountStatus = "SUSPENDED"
	AccountStatusClosed    AccountStatus = "CLOSED"
)

// IsValid reports whether s is one of the known statuses.
func (s AccountStatus) IsValid() bool {
	switch s {
	case AccountStatusActive, AccountStatusSuspended, AccountStatusClosed:
		return true
	}
	return false
}

// DefaultCreditLimit is granted to every account at registration.
var DefaultCreditLimit = decimal.RequireFromString("1000.00")

// FuelAccount holds the prepaid/credit position of a single user.
// Balance <= CreditLimit is not enforced here; no flow in scope moves money.
type FuelAccount struct {
	AccountID   string          `json:"id"`
	UserID      string          `json:"userId"`
	Balance     decimal.Decimal `json:"balance"`
	CreditLimit decimal.Decimal `json:"creditLimit"`
	Status      AccountStatus   `json:"status"`
	AuditFields
}

// NewFuelAccount returns the account every new user starts with.
func NewFuelAccount(accountID, userID string) FuelAccount {
	return FuelAccount{
		AccountID:   accountID,
		UserID:      userID,
		Balance:     decimal.Zero,
		CreditLimit: DefaultCreditLimit,
		Status:      AccountStatusActive,
	}
}
