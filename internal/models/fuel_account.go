package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FuelAccount is the fuel_accounts table row.
type FuelAccount struct {
	AccountID   string          `db:"account_id"`
	UserID      string          `db:"user_id"`
	Balance     decimal.Decimal `db:"balance"`
	CreditLimit decimal.Decimal `db:"credit_limit"`
	Status      string          `db:"status"`
	AuditFields
}

// UserWithAccount is the result of users LEFT JOIN fuel_accounts; every
// account column may be NULL.
type UserWithAccount struct {
	User
	AccountID        *string
	Balance          decimal.NullDecimal
	CreditLimit      decimal.NullDecimal
	Status           *string
	AccountCreatedAt *time.Time
	AccountUpdatedAt *time.Time
}
