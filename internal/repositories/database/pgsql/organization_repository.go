package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tallyops/psa_backend/internal/apperrors"
	"github.com/tallyops/psa_backend/internal/core/domain"
	portsrepo "github.com/tallyops/psa_backend/internal/core/ports/repositories"
	"github.com/tallyops/psa_backend/internal/models"
	"github.com/tallyops/psa_backend/internal/utils/mapping"
)

type PgxOrganizationRepository struct {
	BaseRepository
}

func newPgxOrganizationRepository(pool *pgxpool.Pool) portsrepo.OrganizationRepositoryFacade {
	return &PgxOrganizationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxOrganizationRepository implements portsrepo.OrganizationRepositoryFacade
var _ portsrepo.OrganizationRepositoryFacade = (*PgxOrganizationRepository)(nil)

const organizationColumns = `organization_id, name, description, default_currency_code, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanOrganization(row pgx.Row) (models.Organization, error) {
	var m models.Organization
	err := row.Scan(
		&m.OrganizationID,
		&m.Name,
		&m.Description,
		&m.DefaultCurrencyCode,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxOrganizationRepository) SaveOrganization(ctx context.Context, organization domain.Organization) error {
	m := mapping.ToModelOrganization(organization)
	query := `
		INSERT INTO organizations (` + organizationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.OrganizationID,
		m.Name,
		m.Description,
		m.DefaultCurrencyCode,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to save organization "+m.OrganizationID, err)
	}
	return nil
}

func (r *PgxOrganizationRepository) FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error) {
	query := `SELECT ` + organizationColumns + ` FROM organizations WHERE organization_id = $1;`
	m, err := scanOrganization(r.Pool.QueryRow(ctx, query, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find organization "+organizationID, err)
	}
	d := mapping.ToDomainOrganization(m)
	return &d, nil
}

func (r *PgxOrganizationRepository) ListOrganizationsByUserID(ctx context.Context, userID string) ([]domain.Organization, error) {
	query := `
		SELECT o.organization_id, o.name, o.description, o.default_currency_code, o.is_active,
		       o.created_at, o.created_by, o.last_updated_at, o.last_updated_by
		FROM organizations o
		JOIN user_organizations uo ON o.organization_id = uo.organization_id
		WHERE uo.user_id = $1 AND uo.role != $2 AND o.is_active = TRUE
		ORDER BY o.name;
	`
	rows, err := r.Pool.Query(ctx, query, userID, string(domain.RoleRemoved))
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query organizations for user "+userID, err)
	}
	defer rows.Close()

	organizations := []domain.Organization{}
	for rows.Next() {
		m, scanErr := scanOrganization(rows)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan organization row", scanErr)
		}
		organizations = append(organizations, mapping.ToDomainOrganization(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating organization rows", err)
	}
	return organizations, nil
}

func (r *PgxOrganizationRepository) AddUserToOrganization(ctx context.Context, membership domain.UserOrganization) error {
	// Upsert: add the user or update their role if already a member.
	query := `
		INSERT INTO user_organizations (user_id, organization_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, organization_id) DO UPDATE SET role = EXCLUDED.role;
	`
	_, err := r.Pool.Exec(ctx, query,
		membership.UserID,
		membership.OrganizationID,
		string(membership.Role),
		membership.JoinedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to add user "+membership.UserID+" to organization "+membership.OrganizationID, err)
	}
	return nil
}

func (r *PgxOrganizationRepository) FindUserOrganizationRole(ctx context.Context, userID, organizationID string) (*domain.UserOrganization, error) {
	query := `
		SELECT user_id, organization_id, role, joined_at
		FROM user_organizations
		WHERE user_id = $1 AND organization_id = $2;
	`
	var m models.UserOrganization
	err := r.Pool.QueryRow(ctx, query, userID, organizationID).Scan(
		&m.UserID,
		&m.OrganizationID,
		&m.Role,
		&m.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find role of user "+userID+" in organization "+organizationID, err)
	}
	uo := mapping.ToDomainUserOrganization(m)
	return &uo, nil
}

const companyColumns = `company_id, organization_id, name, billing_email, created_at, created_by, last_updated_at, last_updated_by`

func scanCompany(row pgx.Row) (models.Company, error) {
	var m models.Company
	err := row.Scan(
		&m.CompanyID,
		&m.OrganizationID,
		&m.Name,
		&m.BillingEmail,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxOrganizationRepository) SaveCompany(ctx context.Context, company domain.Company) error {
	m := mapping.ToModelCompany(company)
	query := `
		INSERT INTO companies (` + companyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.CompanyID,
		m.OrganizationID,
		m.Name,
		m.BillingEmail,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save company "+m.CompanyID, err)
	}
	return nil
}

func (r *PgxOrganizationRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE company_id = $1;`
	m, err := scanCompany(r.Pool.QueryRow(ctx, query, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find company "+companyID, err)
	}
	d := mapping.ToDomainCompany(m)
	return &d, nil
}

func (r *PgxOrganizationRepository) ListCompaniesByOrganization(ctx context.Context, organizationID string) ([]domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE organization_id = $1 ORDER BY name;`
	rows, err := r.Pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query companies for organization "+organizationID, err)
	}
	defer rows.Close()

	companies := []domain.Company{}
	for rows.Next() {
		m, scanErr := scanCompany(rows)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan company row", scanErr)
		}
		companies = append(companies, mapping.ToDomainCompany(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating company rows", err)
	}
	return companies, nil
}
