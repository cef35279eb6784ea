package mapping

import (
	"github.com/tallyops/psa_backend/internal/core/domain"
	"github.com/tallyops/psa_backend/internal/models"
)

// ToModelOrganization converts a domain Organization to a model Organization
func ToModelOrganization(d domain.Organization) models.Organization {
	return models.Organization{
		OrganizationID:      d.OrganizationID,
		Name:                d.Name,
		Description:         d.Description,
		DefaultCurrencyCode: nullString(d.DefaultCurrencyCode),
		IsActive:            d.IsActive,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainOrganization converts a model Organization to a domain Organization
func ToDomainOrganization(m models.Organization) domain.Organization {
	return domain.Organization{
		OrganizationID:      m.OrganizationID,
		Name:                m.Name,
		Description:         m.Description,
		DefaultCurrencyCode: stringPtr(m.DefaultCurrencyCode),
		IsActive:            m.IsActive,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainUserOrganization converts a model UserOrganization to a domain UserOrganization
func ToDomainUserOrganization(m models.UserOrganization) domain.UserOrganization {
	return domain.UserOrganization{
		UserID:         m.UserID,
		UserName:       m.UserName,
		OrganizationID: m.OrganizationID,
		Role:           domain.OrganizationRole(m.Role),
		JoinedAt:       m.JoinedAt,
	}
}

// ToModelCompany converts a domain Company to a model Company
func ToModelCompany(d domain.Company) models.Company {
	return models.Company{
		CompanyID:      d.CompanyID,
		OrganizationID: d.OrganizationID,
		Name:           d.Name,
		BillingEmail:   d.BillingEmail,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCompany converts a model Company to a domain Company
func ToDomainCompany(m models.Company) domain.Company {
	return domain.Company{
		CompanyID:      m.CompanyID,
		OrganizationID: m.OrganizationID,
		Name:           m.Name,
		BillingEmail:   m.BillingEmail,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
