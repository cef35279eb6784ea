package services

import (
	"context"

	"github.com/tallyops/psa_backend/internal/core/domain"
)

// OrganizationReaderSvc defines read operations for organization data
type OrganizationReaderSvc interface {
	// FindOrganizationByID retrieves a specific organization by its ID.
	FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error)

	// ListUserOrganizations retrieves organizations a user belongs to.
	ListUserOrganizations(ctx context.Context, userID string) ([]domain.Organization, error)
}

// OrganizationWriterSvc defines write operations for organization data
type OrganizationWriterSvc interface {
	// CreateOrganization persists a new organization with the creator as admin.
	CreateOrganization(ctx context.Context, name, description, defaultCurrencyCode, creatorUserID string) (*domain.Organization, error)
}

// OrganizationMembershipSvc defines operations for managing memberships
type OrganizationMembershipSvc interface {
	// AddUserToOrganization adds a user to an organization with a specific role.
	// Only organization admins may add users.
	AddUserToOrganization(ctx context.Context, addingUserID, targetUserID, organizationID string, role domain.OrganizationRole) error
}

// OrganizationAuthorizerSvc defines operations for organization authorization
type OrganizationAuthorizerSvc interface {
	// AuthorizeUserAction checks if a user has the required role (or higher)
	// in an organization. Returns ErrNotFound for non-members to obscure
	// existence, ErrForbidden for insufficient role.
	AuthorizeUserAction(ctx context.Context, userID, organizationID string, requiredRole domain.OrganizationRole) error
}

// CompanySvc defines operations for client companies.
type CompanySvc interface {
	// CreateCompany persists a new client company.
	CreateCompany(ctx context.Context, organizationID, name, billingEmail, creatorUserID string) (*domain.Company, error)

	// ListCompanies retrieves all companies of an organization.
	ListCompanies(ctx context.Context, organizationID, requestingUserID string) ([]domain.Company, error)
}

// OrganizationSvcFacade combines all organization-related service interfaces
type OrganizationSvcFacade interface {
	OrganizationReaderSvc
	OrganizationWriterSvc
	OrganizationMembershipSvc
	OrganizationAuthorizerSvc
	CompanySvc
}
