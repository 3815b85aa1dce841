package mapping

import (
	"github.com/SscSPs/fuel_credit_app/internal/core/domain"
	"github.com/SscSPs/fuel_credit_app/internal/models"
)

// ToModelUser converts a domain User to a model User
func ToModelUser(d domain.User) models.User {
	return models.User{
		UserID:         d.UserID,
		Email:          d.Email,
		PasswordHash:   d.PasswordHash,
		FirstName:      d.FirstName,
		LastName:       d.LastName,
		IsVerified:     d.IsVerified,
		AuthProvider:   string(d.AuthProvider),
		ProviderUserID: d.ProviderUserID,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainUser converts a model User to a domain User
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:         m.UserID,
		Email:          m.Email,
		PasswordHash:   m.PasswordHash,
		FirstName:      m.FirstName,
		LastName:       m.LastName,
		IsVerified:     m.IsVerified,
		AuthProvider:   domain.AuthProvider(m.AuthProvider),
		ProviderUserID: m.ProviderUserID,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainUserWithAccount converts a joined row; the account is nil when
// the LEFT JOIN found none. A status outside the known set reads as
// SUSPENDED.
func ToDomainUserWithAccount(m models.UserWithAccount) domain.User {
	user := ToDomainUser(m.User)
	if m.AccountID == nil {
		return user
	}
	acc := domain.FuelAccount{
		AccountID:   *m.AccountID,
		UserID:      m.UserID,
		Balance:     m.Balance.Decimal,
		CreditLimit: m.CreditLimit.Decimal,
	}
	acc.Status = domain.AccountStatusSuspended
	if m.Status != nil && domain.AccountStatus(*m.Status).IsValid() {
		acc.Status = domain.AccountStatus(*m.Status)
	}
	if m.AccountCreatedAt != nil {
		acc.CreatedAt = *m.AccountCreatedAt
	}
	if m.AccountUpdatedAt != nil {
		acc.UpdatedAt = *m.AccountUpdatedAt
	}
	user.FuelAccount = &acc
	return user
}

// ToModelFuelAccount converts a domain FuelAccount to a model FuelAccount
func ToModelFuelAccount(d domain.FuelAccount) models.FuelAccount {
	return models.FuelAccount{
		AccountID:   d.AccountID,
		UserID:      d.UserID,
		Balance:     d.Balance,
		CreditLimit: d.CreditLimit,
		Status:      string(d.Status),
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}
