package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tallyops/psa_backend/internal/apperrors"
	"github.com/tallyops/psa_backend/internal/core/domain"
	portsrepo "github.com/tallyops/psa_backend/internal/core/ports/repositories"
	"github.com/tallyops/psa_backend/internal/models"
	"github.com/tallyops/psa_backend/internal/utils/mapping"
)

type PgxBudgetRepository struct {
	BaseRepository
}

func newPgxBudgetRepository(pool *pgxpool.Pool) portsrepo.BudgetRepository {
	return &PgxBudgetRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxBudgetRepository implements portsrepo.BudgetRepository
var _ portsrepo.BudgetRepository = (*PgxBudgetRepository)(nil)

const budgetColumns = `budget_id, organization_id, project_id, budget_type, total_amount, retainer_amount, included_hours, overage_rate, created_at, created_by, last_updated_at, last_updated_by`

func scanBudget(row pgx.Row) (models.Budget, error) {
	var m models.Budget
	err := row.Scan(
		&m.BudgetID,
		&m.OrganizationID,
		&m.ProjectID,
		&m.BudgetType,
		&m.TotalAmount,
		&m.RetainerAmount,
		&m.IncludedHours,
		&m.OverageRate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxBudgetRepository) SaveBudget(ctx context.Context, budget domain.Budget) error {
	m := mapping.ToModelBudget(budget)
	query := `
		INSERT INTO budgets (` + budgetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.BudgetID,
		m.OrganizationID,
		m.ProjectID,
		m.BudgetType,
		m.TotalAmount,
		m.RetainerAmount,
		m.IncludedHours,
		m.OverageRate,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert budget "+m.BudgetID, err)
	}
	return nil
}

func (r *PgxBudgetRepository) FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE budget_id = $1;`
	m, err := scanBudget(r.Pool.QueryRow(ctx, query, budgetID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find budget "+budgetID, err)
	}
	d := mapping.ToDomainBudget(m)
	return &d, nil
}

func (r *PgxBudgetRepository) FindBudgetByProject(ctx context.Context, projectID string) (*domain.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE project_id = $1;`
	m, err := scanBudget(r.Pool.QueryRow(ctx, query, projectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find budget for project "+projectID, err)
	}
	d := mapping.ToDomainBudget(m)
	return &d, nil
}

func (r *PgxBudgetRepository) UpdateBudget(ctx context.Context, budget domain.Budget) error {
	m := mapping.ToModelBudget(budget)
	query := `
		UPDATE budgets
		SET budget_type = $1, total_amount = $2, retainer_amount = $3, included_hours = $4,
		    overage_rate = $5, last_updated_at = $6, last_updated_by = $7
		WHERE budget_id = $8;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.BudgetType,
		m.TotalAmount,
		m.RetainerAmount,
		m.IncludedHours,
		m.OverageRate,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.BudgetID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update budget "+m.BudgetID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
