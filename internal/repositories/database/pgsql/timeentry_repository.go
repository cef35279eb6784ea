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

type PgxTimeEntryRepository struct {
	BaseRepository
}

func newPgxTimeEntryRepository(pool *pgxpool.Pool) portsrepo.TimeEntryRepositoryFacade {
	return &PgxTimeEntryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxTimeEntryRepository implements portsrepo.TimeEntryRepositoryFacade
var _ portsrepo.TimeEntryRepositoryFacade = (*PgxTimeEntryRepository)(nil)

const timeEntryColumns = `time_entry_id, organization_id, project_id, user_id, entry_date, hours, billable, description, status, approved_by, approved_at, rejection_comments, invoice_id, created_at, created_by, last_updated_at, last_updated_by`

func scanTimeEntry(row pgx.Row) (models.TimeEntry, error) {
	var m models.TimeEntry
	err := row.Scan(
		&m.TimeEntryID,
		&m.OrganizationID,
		&m.ProjectID,
		&m.UserID,
		&m.EntryDate,
		&m.Hours,
		&m.Billable,
		&m.Description,
		&m.Status,
		&m.ApprovedBy,
		&m.ApprovedAt,
		&m.RejectionComments,
		&m.InvoiceID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func statusStrings(statuses []domain.ApprovalStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func (r *PgxTimeEntryRepository) SaveTimeEntry(ctx context.Context, entry domain.TimeEntry) error {
	m := mapping.ToModelTimeEntry(entry)
	query := `
		INSERT INTO time_entries (` + timeEntryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.TimeEntryID,
		m.OrganizationID,
		m.ProjectID,
		m.UserID,
		m.EntryDate,
		m.Hours,
		m.Billable,
		m.Description,
		m.Status,
		m.ApprovedBy,
		m.ApprovedAt,
		m.RejectionComments,
		m.InvoiceID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert time entry "+m.TimeEntryID, err)
	}
	return nil
}

func (r *PgxTimeEntryRepository) FindTimeEntryByID(ctx context.Context, timeEntryID string) (*domain.TimeEntry, error) {
	query := `SELECT ` + timeEntryColumns + ` FROM time_entries WHERE time_entry_id = $1;`
	m, err := scanTimeEntry(r.Pool.QueryRow(ctx, query, timeEntryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find time entry "+timeEntryID, err)
	}
	d := mapping.ToDomainTimeEntry(m)
	return &d, nil
}

func (r *PgxTimeEntryRepository) ListTimeEntriesByProject(ctx context.Context, projectID string, statuses []domain.ApprovalStatus) ([]domain.TimeEntry, error) {
	query := `SELECT ` + timeEntryColumns + ` FROM time_entries WHERE project_id = $1`
	args := []interface{}{projectID}
	if len(statuses) > 0 {
		query += ` AND status = ANY($2)`
		args = append(args, statusStrings(statuses))
	}
	query += ` ORDER BY entry_date, created_at;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query time entries for project "+projectID, err)
	}
	defer rows.Close()

	return collectTimeEntries(rows)
}

func (r *PgxTimeEntryRepository) ListApprovedTimeEntriesInPeriod(ctx context.Context, projectID string, from, to time.Time, billableOnly bool) ([]domain.TimeEntry, error) {
	query := `
		SELECT ` + timeEntryColumns + `
		FROM time_entries
		WHERE project_id = $1 AND status = $2 AND entry_date >= $3 AND entry_date <= $4
	`
	args := []interface{}{projectID, string(domain.ApprovalApproved), from, to}
	if billableOnly {
		query += ` AND billable = TRUE`
	}
	query += ` ORDER BY entry_date, created_at;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query approved time entries for project "+projectID, err)
	}
	defer rows.Close()

	return collectTimeEntries(rows)
}

func collectTimeEntries(rows pgx.Rows) ([]domain.TimeEntry, error) {
	modelEntries := []models.TimeEntry{}
	for rows.Next() {
		m, scanErr := scanTimeEntry(rows)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan time entry row", scanErr)
		}
		modelEntries = append(modelEntries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating time entry rows", err)
	}
	return mapping.ToDomainTimeEntrySlice(modelEntries), nil
}

func (r *PgxTimeEntryRepository) UpdateTimeEntry(ctx context.Context, entry domain.TimeEntry) error {
	m := mapping.ToModelTimeEntry(entry)
	query := `
		UPDATE time_entries
		SET entry_date = $1, hours = $2, billable = $3, description = $4, status = $5,
		    approved_by = $6, approved_at = $7, rejection_comments = $8, invoice_id = $9,
		    last_updated_at = $10, last_updated_by = $11
		WHERE time_entry_id = $12;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.EntryDate,
		m.Hours,
		m.Billable,
		m.Description,
		m.Status,
		m.ApprovedBy,
		m.ApprovedAt,
		m.RejectionComments,
		m.InvoiceID,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.TimeEntryID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update time entry "+m.TimeEntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxTimeEntryRepository) DeleteTimeEntry(ctx context.Context, timeEntryID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM time_entries WHERE time_entry_id = $1;`, timeEntryID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete time entry "+timeEntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// LockTimeEntriesInTx moves APPROVED entries to LOCKED and stamps them with the
// invoice id, inside the caller's transaction. Locking anything other than the
// expected count means a source record changed underneath the finalize.
func (r *PgxTimeEntryRepository) LockTimeEntriesInTx(ctx context.Context, tx pgx.Tx, timeEntryIDs []string, invoiceID string, updatedBy string, updatedAt time.Time) error {
	if len(timeEntryIDs) == 0 {
		return nil
	}
	query := `
		UPDATE time_entries
		SET status = $1, invoice_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE time_entry_id = ANY($5) AND status = $6;
	`
	cmdTag, err := tx.Exec(ctx, query,
		string(domain.ApprovalLocked),
		invoiceID,
		updatedAt,
		updatedBy,
		timeEntryIDs,
		string(domain.ApprovalApproved),
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to lock time entries for invoice "+invoiceID, err)
	}
	if cmdTag.RowsAffected() != int64(len(timeEntryIDs)) {
		return apperrors.NewAppError(409, "some time entries were not in APPROVED status", apperrors.ErrConflict)
	}
	return nil
}
