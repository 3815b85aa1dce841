package mapping

import (
	"github.com/SscSPs/fuel_credit_app/internal/core/domain"
	"github.com/SscSPs/fuel_credit_app/internal/models"
)

// ToModelRefreshToken converts a domain ledger row to its table form.
func ToModelRefreshToken(d domain.RefreshToken) models.RefreshToken {
	return models.RefreshToken{
		ID:          d.ID,
		UserID:      d.UserID,
		TokenHash:   d.TokenHash,
		ExpiresAt:   d.ExpiresAt,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainRefreshToken converts a table row to the domain ledger row.
func ToDomainRefreshToken(m models.RefreshToken) domain.RefreshToken {
	return domain.RefreshToken{
		ID:          m.ID,
		UserID:      m.UserID,
		TokenHash:   m.TokenHash,
		ExpiresAt:   m.ExpiresAt,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
