package repositories

import (
	"context"

	"github.com/tallyops/psa_backend/internal/core/domain"
)

// OrganizationReader defines read operations for organization data
type OrganizationReader interface {
	// FindOrganizationByID retrieves a specific organization by its ID.
	FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error)

	// ListOrganizationsByUserID retrieves all organizations a user belongs to.
	ListOrganizationsByUserID(ctx context.Context, userID string) ([]domain.Organization, error)
}

// OrganizationWriter defines write operations for organization data
type OrganizationWriter interface {
	// SaveOrganization persists a new organization.
	SaveOrganization(ctx context.Context, organization domain.Organization) error
}

// OrganizationMembershipManager defines operations for managing memberships
type OrganizationMembershipManager interface {
	// AddUserToOrganization adds a user to an organization with a specific role.
	AddUserToOrganization(ctx context.Context, membership domain.UserOrganization) error

	// FindUserOrganizationRole retrieves the role of a user in an organization.
	FindUserOrganizationRole(ctx context.Context, userID, organizationID string) (*domain.UserOrganization, error)
}

// CompanyRepository defines operations for client companies.
type CompanyRepository interface {
	// FindCompanyByID retrieves a specific company by its ID.
	FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)

	// ListCompaniesByOrganization retrieves all companies of an organization.
	ListCompaniesByOrganization(ctx context.Context, organizationID string) ([]domain.Company, error)

	// SaveCompany persists a new company.
	SaveCompany(ctx context.Context, company domain.Company) error
}

// OrganizationRepositoryFacade combines all organization repository interfaces
type OrganizationRepositoryFacade interface {
	OrganizationReader
	OrganizationWriter
	OrganizationMembershipManager
	CompanyRepository
}
