package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tallyops/psa_backend/internal/apperrors"
	"github.com/tallyops/psa_backend/internal/core/domain"
	portsrepo "github.com/tallyops/psa_backend/internal/core/ports/repositories"
	portssvc "github.com/tallyops/psa_backend/internal/core/ports/services"
)

// organizationService implements the OrganizationSvcFacade interface
type organizationService struct {
	BaseService
	organizationRepo portsrepo.OrganizationRepositoryFacade
}

// NewOrganizationService creates a new organization service with the provided dependencies
func NewOrganizationService(organizationRepo portsrepo.OrganizationRepositoryFacade) portssvc.OrganizationSvcFacade {
	return &organizationService{organizationRepo: organizationRepo}
}

// Ensure organizationService implements the OrganizationSvcFacade interface
var _ portssvc.OrganizationSvcFacade = (*organizationService)(nil)

// FindOrganizationByID retrieves an organization by its ID
func (s *organizationService) FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error) {
	organization, err := s.organizationRepo.FindOrganizationByID(ctx, organizationID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find organization by ID",
				slog.String("organization_id", organizationID))
		}
		return nil, err
	}

	return organization, nil
}

// ListUserOrganizations retrieves all organizations a user belongs to
func (s *organizationService) ListUserOrganizations(ctx context.Context, userID string) ([]domain.Organization, error) {
	organizations, err := s.organizationRepo.ListOrganizationsByUserID(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list organizations for user",
			slog.String("user_id", userID))
		return nil, err
	}

	if organizations == nil {
		return []domain.Organization{}, nil
	}

	s.LogDebug(ctx, "Organizations listed successfully",
		slog.Int("count", len(organizations)),
		slog.String("user_id", userID))
	return organizations, nil
}

// CreateOrganization creates a new organization with the creator as admin
func (s *organizationService) CreateOrganization(ctx context.Context, name, description, defaultCurrencyCode, creatorUserID string) (*domain.Organization, error) {
	now := time.Now().UTC()
	organizationID := uuid.NewString()

	organization := domain.Organization{
		OrganizationID: organizationID,
		Name:           name,
		Description:    description,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if defaultCurrencyCode != "" {
		organization.DefaultCurrencyCode = &defaultCurrencyCode
	}

	if err := s.organizationRepo.SaveOrganization(ctx, organization); err != nil {
		s.LogError(ctx, err, "Failed to save organization",
			slog.String("organization_id", organizationID))
		return nil, err
	}

	if err := s.AddUserToOrganization(ctx, creatorUserID, creatorUserID, organizationID, domain.RoleAdmin); err != nil {
		s.LogError(ctx, err, "Failed to add creator as admin to new organization",
			slog.String("organization_id", organizationID),
			slog.String("user_id", creatorUserID))
		// The organization itself was created; membership failure is surfaced
		// in logs rather than rolling the creation back.
	}

	s.LogInfo(ctx, "Organization created successfully",
		slog.String("organization_id", organizationID),
		slog.String("creator_id", creatorUserID))
	return &organization, nil
}

// AddUserToOrganization adds a user to an organization with a specific role
func (s *organizationService) AddUserToOrganization(ctx context.Context, addingUserID, targetUserID, organizationID string, role domain.OrganizationRole) error {
	// Self-assignment is permitted (creator adding self as admin).
	if addingUserID != targetUserID {
		if err := s.AuthorizeUserAction(ctx, addingUserID, organizationID, domain.RoleAdmin); err != nil {
			s.LogError(ctx, err, "User not authorized to add members to organization",
				slog.String("adding_user_id", addingUserID),
				slog.String("organization_id", organizationID))
			return err
		}
	}

	membership := domain.UserOrganization{
		UserID:         targetUserID,
		OrganizationID: organizationID,
		Role:           role,
		JoinedAt:       time.Now().UTC(),
	}

	if err := s.organizationRepo.AddUserToOrganization(ctx, membership); err != nil {
		s.LogError(ctx, err, "Failed to add user to organization",
			slog.String("target_user_id", targetUserID),
			slog.String("organization_id", organizationID))
		return err
	}

	s.LogInfo(ctx, "User added to organization successfully",
		slog.String("target_user_id", targetUserID),
		slog.String("organization_id", organizationID),
		slog.String("role", string(role)))
	return nil
}

// AuthorizeUserAction checks if a user has required permissions in an organization
func (s *organizationService) AuthorizeUserAction(ctx context.Context, userID, organizationID string, requiredRole domain.OrganizationRole) error {
	membership, err := s.organizationRepo.FindUserOrganizationRole(ctx, userID, organizationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogDebug(ctx, "User not a member of organization",
				slog.String("user_id", userID),
				slog.String("organization_id", organizationID))
			return apperrors.ErrNotFound // Obscure organization existence
		}
		s.LogError(ctx, err, "Failed to find user organization role",
			slog.String("user_id", userID),
			slog.String("organization_id", organizationID))
		return err
	}

	if !hasRequiredRole(membership.Role, requiredRole) {
		s.LogDebug(ctx, "User does not have required role",
			slog.String("user_id", userID),
			slog.String("organization_id", organizationID),
			slog.String("user_role", string(membership.Role)),
			slog.String("required_role", string(requiredRole)))
		return apperrors.ErrForbidden
	}

	return nil
}

// roleRank orders organization roles from least to most privileged. REMOVED
// members rank below read-only and never pass a check.
func roleRank(role domain.OrganizationRole) int {
	switch role {
	case domain.RoleReadOnly:
		return 1
	case domain.RoleMember:
		return 2
	case domain.RoleManager:
		return 3
	case domain.RoleAdmin:
		return 4
	default:
		return 0
	}
}

// hasRequiredRole checks if the user's role meets or exceeds the required role
func hasRequiredRole(userRole, requiredRole domain.OrganizationRole) bool {
	userRank := roleRank(userRole)
	requiredRank := roleRank(requiredRole)
	if userRank == 0 || requiredRank == 0 {
		return false
	}
	return userRank >= requiredRank
}

// CreateCompany persists a new client company in the organization.
func (s *organizationService) CreateCompany(ctx context.Context, organizationID, name, billingEmail, creatorUserID string) (*domain.Company, error) {
	if err := s.AuthorizeUserAction(ctx, creatorUserID, organizationID, domain.RoleManager); err != nil {
		return nil, err
	}

	if name == "" {
		return nil, fmt.Errorf("%w: company name is required", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	company := domain.Company{
		CompanyID:      uuid.NewString(),
		OrganizationID: organizationID,
		Name:           name,
		BillingEmail:   billingEmail,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.organizationRepo.SaveCompany(ctx, company); err != nil {
		s.LogError(ctx, err, "Failed to save company",
			slog.String("organization_id", organizationID))
		return nil, err
	}

	s.LogInfo(ctx, "Company created successfully",
		slog.String("company_id", company.CompanyID),
		slog.String("organization_id", organizationID))
	return &company, nil
}

// ListCompanies retrieves all companies of an organization.
func (s *organizationService) ListCompanies(ctx context.Context, organizationID, requestingUserID string) ([]domain.Company, error) {
	if err := s.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	companies, err := s.organizationRepo.ListCompaniesByOrganization(ctx, organizationID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list companies",
			slog.String("organization_id", organizationID))
		return nil, err
	}

	if companies == nil {
		return []domain.Company{}, nil
	}
	return companies, nil
}
