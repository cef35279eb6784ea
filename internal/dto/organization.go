package dto

import (
	"github.com/tallyops/psa_backend/internal/core/domain"
)

// --- Organization DTOs ---

// CreateOrganizationRequest defines data for creating a new organization.
type CreateOrganizationRequest struct {
	Name                string `json:"name" binding:"required"`
	Description         string `json:"description"`
	DefaultCurrencyCode string `json:"defaultCurrencyCode" binding:"required,len=3"`
}

// AddUserToOrganizationRequest defines data for adding a member.
type AddUserToOrganizationRequest struct {
	UserID string                  `json:"userID" binding:"required"`
	Role   domain.OrganizationRole `json:"role" binding:"required"`
}

// OrganizationResponse defines data returned for an organization.
type OrganizationResponse struct {
	OrganizationID      string `json:"organizationID"`
	Name                string `json:"name"`
	Description         string `json:"description"`
	DefaultCurrencyCode string `json:"defaultCurrencyCode"`
}

// ToOrganizationResponse converts domain.Organization to DTO.
func ToOrganizationResponse(o *domain.Organization) OrganizationResponse {
	resp := OrganizationResponse{
		OrganizationID: o.OrganizationID,
		Name:           o.Name,
		Description:    o.Description,
	}
	if o.DefaultCurrencyCode != nil {
		resp.DefaultCurrencyCode = *o.DefaultCurrencyCode
	}
	return resp
}

// ToListOrganizationsResponse converts a slice of organizations to DTOs.
func ToListOrganizationsResponse(orgs []domain.Organization) []OrganizationResponse {
	out := make([]OrganizationResponse, 0, len(orgs))
	for i := range orgs {
		out = append(out, ToOrganizationResponse(&orgs[i]))
	}
	return out
}

// --- Company DTOs ---

// CreateCompanyRequest defines data for creating a client company.
type CreateCompanyRequest struct {
	Name         string `json:"name" binding:"required"`
	BillingEmail string `json:"billingEmail" binding:"omitempty,email"`
}

// CompanyResponse defines data returned for a client company.
type CompanyResponse struct {
	CompanyID    string `json:"companyID"`
	Name         string `json:"name"`
	BillingEmail string `json:"billingEmail,omitempty"`
}

// ToCompanyResponse converts domain.Company to DTO.
func ToCompanyResponse(c *domain.Company) CompanyResponse {
	return CompanyResponse{
		CompanyID:    c.CompanyID,
		Name:         c.Name,
		BillingEmail: c.BillingEmail,
	}
}
