package mapping

import (
	"database/sql"

	"github.com/tallyops/psa_backend/internal/core/domain"
	"github.com/tallyops/psa_backend/internal/models"
)

// ToModelUser converts a domain User to a model User
func ToModelUser(d domain.User) models.User {
	m := models.User{
		UserID:       d.UserID,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		AuthProvider: string(d.AuthProvider),
		CostRate:     d.CostRate,
		BillRate:     d.BillRate,
		AuditFields:  ToModelAuditFields(d.AuditFields),
		DeletedAt:    d.DeletedAt,
	}
	if d.RefreshTokenHash != "" {
		m.RefreshTokenHash = sql.NullString{String: d.RefreshTokenHash, Valid: true}
	}
	m.RefreshTokenExpiryTime = nullTime(d.RefreshTokenExpiryTime)
	return m
}

// ToDomainUser converts a model User to a domain User
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:                 m.UserID,
		Name:                   m.Name,
		Email:                  m.Email,
		PasswordHash:           m.PasswordHash,
		AuthProvider:           domain.AuthProviderType(m.AuthProvider),
		CostRate:               m.CostRate,
		BillRate:               m.BillRate,
		RefreshTokenHash:       m.RefreshTokenHash.String,
		RefreshTokenExpiryTime: timePtr(m.RefreshTokenExpiryTime),
		AuditFields:            ToDomainAuditFields(m.AuditFields),
		DeletedAt:              m.DeletedAt,
	}
}

// ToDomainUserSlice converts a slice of model Users to a slice of domain Users
func ToDomainUserSlice(ms []models.User) []domain.User {
	ds := make([]domain.User, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainUser(m)
	}
	return ds
}
