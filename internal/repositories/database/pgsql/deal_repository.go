package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tallyops/psa_backend/internal/apperrors"
	"github.com/tallyops/psa_backend/internal/core/domain"
	portsrepo "github.com/tallyops/psa_backend/internal/core/ports/repositories"
	"github.com/tallyops/psa_backend/internal/models"
	"github.com/tallyops/psa_backend/internal/utils/mapping"
	"github.com/tallyops/psa_backend/internal/utils/pagination"
)

type PgxDealRepository struct {
	BaseRepository
}

func newPgxDealRepository(pool *pgxpool.Pool) portsrepo.DealRepositoryFacade {
	return &PgxDealRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxDealRepository implements portsrepo.DealRepositoryFacade
var _ portsrepo.DealRepositoryFacade = (*PgxDealRepository)(nil)

const dealColumns = `deal_id, organization_id, company_id, name, stage, value, probability, owner_user_id, stage_changed_at, created_at, created_by, last_updated_at, last_updated_by`

func scanDeal(row pgx.Row) (models.Deal, error) {
	var m models.Deal
	err := row.Scan(
		&m.DealID,
		&m.OrganizationID,
		&m.CompanyID,
		&m.Name,
		&m.Stage,
		&m.Value,
		&m.Probability,
		&m.OwnerUserID,
		&m.StageChangedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxDealRepository) SaveDeal(ctx context.Context, deal domain.Deal) error {
	m := mapping.ToModelDeal(deal)
	query := `
		INSERT INTO deals (` + dealColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.DealID,
		m.OrganizationID,
		m.CompanyID,
		m.Name,
		m.Stage,
		m.Value,
		m.Probability,
		m.OwnerUserID,
		m.StageChangedAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert deal "+m.DealID, err)
	}
	return nil
}

func (r *PgxDealRepository) FindDealByID(ctx context.Context, dealID string) (*domain.Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals WHERE deal_id = $1;`
	m, err := scanDeal(r.Pool.QueryRow(ctx, query, dealID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find deal "+dealID, err)
	}
	d := mapping.ToDomainDeal(m)
	return &d, nil
}

func (r *PgxDealRepository) ListDealsByOrganization(ctx context.Context, organizationID string, limit int, nextToken *string) ([]domain.Deal, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1 // Fetch one extra to know whether a next page exists

	baseQuery := `SELECT ` + dealColumns + ` FROM deals WHERE organization_id = $1`
	orderBy := `ORDER BY created_at DESC, deal_id DESC`
	args := []interface{}{organizationID}

	var rows pgx.Rows
	var err error
	if nextToken != nil && *nextToken != "" {
		fields, decodeErr := pagination.DecodeMultiFieldToken(*nextToken)
		if decodeErr != nil || len(fields) != 2 {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		lastCreatedAt, parseErr := time.Parse(time.RFC3339Nano, fields[0])
		if parseErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", parseErr)
		}
		cursorClause := `AND (created_at, deal_id) < ($2, $3)`
		args = append(args, lastCreatedAt, fields[1])
		query := baseQuery + " " + cursorClause + " " + orderBy + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + orderBy + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	}
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query deals for organization "+organizationID, err)
	}
	defer rows.Close()

	modelDeals := make([]models.Deal, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanDeal(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan deal row", scanErr)
		}
		modelDeals = append(modelDeals, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating deal rows", err)
	}

	var nextTokenVal *string
	results := modelDeals
	if len(modelDeals) > limit {
		last := modelDeals[limit-1]
		newToken := pagination.EncodeMultiFieldToken(last.CreatedAt.Format(time.RFC3339Nano), last.DealID)
		nextTokenVal = &newToken
		results = modelDeals[:limit]
	}

	return mapping.ToDomainDealSlice(results), nextTokenVal, nil
}

func (r *PgxDealRepository) ListDealsByStage(ctx context.Context, organizationID string, stage domain.DealStage) ([]domain.Deal, error) {
	query := `
		SELECT ` + dealColumns + `
		FROM deals
		WHERE organization_id = $1 AND stage = $2
		ORDER BY created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, organizationID, string(stage))
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query deals by stage for organization "+organizationID, err)
	}
	defer rows.Close()

	modelDeals := []models.Deal{}
	for rows.Next() {
		m, scanErr := scanDeal(rows)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan deal row", scanErr)
		}
		modelDeals = append(modelDeals, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating deal rows", err)
	}

	return mapping.ToDomainDealSlice(modelDeals), nil
}

func (r *PgxDealRepository) UpdateDeal(ctx context.Context, deal domain.Deal) error {
	m := mapping.ToModelDeal(deal)
	query := `
		UPDATE deals
		SET company_id = $1, name = $2, stage = $3, value = $4, probability = $5,
		    owner_user_id = $6, stage_changed_at = $7, last_updated_at = $8, last_updated_by = $9
		WHERE deal_id = $10;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.CompanyID,
		m.Name,
		m.Stage,
		m.Value,
		m.Probability,
		m.OwnerUserID,
		m.StageChangedAt,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.DealID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update deal "+m.DealID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
