package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tallyops/psa_backend/internal/apperrors"
	"github.com/tallyops/psa_backend/internal/core/domain"
	portsrepo "github.com/tallyops/psa_backend/internal/core/ports/repositories"
	"github.com/tallyops/psa_backend/internal/models"
	"github.com/tallyops/psa_backend/internal/utils/mapping"
)

type PgxMilestoneRepository struct {
	BaseRepository
}

func newPgxMilestoneRepository(pool *pgxpool.Pool) portsrepo.MilestoneRepositoryFacade {
	return &PgxMilestoneRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxMilestoneRepository implements portsrepo.MilestoneRepositoryFacade
var _ portsrepo.MilestoneRepositoryFacade = (*PgxMilestoneRepository)(nil)

const milestoneColumns = `milestone_id, organization_id, project_id, name, amount, percentage, due_date, completed_at, invoice_id, created_at, created_by, last_updated_at, last_updated_by`

func scanMilestone(row pgx.Row) (models.Milestone, error) {
	var m models.Milestone
	err := row.Scan(
		&m.MilestoneID,
		&m.OrganizationID,
		&m.ProjectID,
		&m.Name,
		&m.Amount,
		&m.Percentage,
		&m.DueDate,
		&m.CompletedAt,
		&m.InvoiceID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxMilestoneRepository) SaveMilestone(ctx context.Context, milestone domain.Milestone) error {
	m := mapping.ToModelMilestone(milestone)
	query := `
		INSERT INTO milestones (` + milestoneColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.MilestoneID,
		m.OrganizationID,
		m.ProjectID,
		m.Name,
		m.Amount,
		m.Percentage,
		m.DueDate,
		m.CompletedAt,
		m.InvoiceID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert milestone "+m.MilestoneID, err)
	}
	return nil
}

func (r *PgxMilestoneRepository) FindMilestoneByID(ctx context.Context, milestoneID string) (*domain.Milestone, error) {
	query := `SELECT ` + milestoneColumns + ` FROM milestones WHERE milestone_id = $1;`
	m, err := scanMilestone(r.Pool.QueryRow(ctx, query, milestoneID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find milestone "+milestoneID, err)
	}
	d := mapping.ToDomainMilestone(m)
	return &d, nil
}

func (r *PgxMilestoneRepository) ListMilestonesByProject(ctx context.Context, projectID string) ([]domain.Milestone, error) {
	query := `SELECT ` + milestoneColumns + ` FROM milestones WHERE project_id = $1 ORDER BY due_date, created_at;`
	rows, err := r.Pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query milestones for project "+projectID, err)
	}
	defer rows.Close()

	modelMilestones := []models.Milestone{}
	for rows.Next() {
		m, scanErr := scanMilestone(rows)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan milestone row", scanErr)
		}
		modelMilestones = append(modelMilestones, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating milestone rows", err)
	}
	return mapping.ToDomainMilestoneSlice(modelMilestones), nil
}

func (r *PgxMilestoneRepository) UpdateMilestone(ctx context.Context, milestone domain.Milestone) error {
	m := mapping.ToModelMilestone(milestone)
	query := `
		UPDATE milestones
		SET name = $1, amount = $2, percentage = $3, due_date = $4, completed_at = $5,
		    invoice_id = $6, last_updated_at = $7, last_updated_by = $8
		WHERE milestone_id = $9;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.Name,
		m.Amount,
		m.Percentage,
		m.DueDate,
		m.CompletedAt,
		m.InvoiceID,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.MilestoneID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update milestone "+m.MilestoneID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// LinkMilestonesToInvoiceInTx stamps milestones with the finalized invoice id,
// inside the caller's transaction. Only never-invoiced milestones qualify: a
// short count means another invoice claimed one concurrently.
func (r *PgxMilestoneRepository) LinkMilestonesToInvoiceInTx(ctx context.Context, tx pgx.Tx, milestoneIDs []string, invoiceID string, updatedBy string, updatedAt time.Time) error {
	if len(milestoneIDs) == 0 {
		return nil
	}
	query := `
		UPDATE milestones
		SET invoice_id = $1, last_updated_at = $2, last_updated_by = $3
		WHERE milestone_id = ANY($4) AND invoice_id IS NULL;
	`
	cmdTag, err := tx.Exec(ctx, query, invoiceID, updatedAt, updatedBy, milestoneIDs)
	if err != nil {
		return apperrors.NewAppError(500, "failed to link milestones to invoice "+invoiceID, err)
	}
	if cmdTag.RowsAffected() != int64(len(milestoneIDs)) {
		return apperrors.NewAppError(409, "some milestones are already invoiced", apperrors.ErrAlreadyInvoiced)
	}
	return nil
}
