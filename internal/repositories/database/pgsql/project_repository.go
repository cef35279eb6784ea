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

// PgxProjectRepository covers projects plus their tasks and bookings. The
// three tables always change together from the service layer's point of view.
type PgxProjectRepository struct {
	BaseRepository
}

func newPgxProjectRepository(pool *pgxpool.Pool) portsrepo.ProjectRepositoryFacade {
	return &PgxProjectRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxProjectRepository implements portsrepo.ProjectRepositoryFacade
var _ portsrepo.ProjectRepositoryFacade = (*PgxProjectRepository)(nil)

const projectColumns = `project_id, organization_id, company_id, deal_id, name, status, budget_id, manager_user_id, start_date, end_date, created_at, created_by, last_updated_at, last_updated_by`

func scanProject(row pgx.Row) (models.Project, error) {
	var m models.Project
	err := row.Scan(
		&m.ProjectID,
		&m.OrganizationID,
		&m.CompanyID,
		&m.DealID,
		&m.Name,
		&m.Status,
		&m.BudgetID,
		&m.ManagerUserID,
		&m.StartDate,
		&m.EndDate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxProjectRepository) SaveProject(ctx context.Context, project domain.Project) error {
	m := mapping.ToModelProject(project)
	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ProjectID,
		m.OrganizationID,
		m.CompanyID,
		m.DealID,
		m.Name,
		m.Status,
		m.BudgetID,
		m.ManagerUserID,
		m.StartDate,
		m.EndDate,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert project "+m.ProjectID, err)
	}
	return nil
}

func (r *PgxProjectRepository) FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE project_id = $1;`
	m, err := scanProject(r.Pool.QueryRow(ctx, query, projectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find project "+projectID, err)
	}
	d := mapping.ToDomainProject(m)
	return &d, nil
}

func (r *PgxProjectRepository) ListProjectsByOrganization(ctx context.Context, organizationID string, limit int, nextToken *string) ([]domain.Project, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + projectColumns + ` FROM projects WHERE organization_id = $1`
	orderBy := `ORDER BY created_at DESC, project_id DESC`
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
		cursorClause := `AND (created_at, project_id) < ($2, $3)`
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
		return nil, nil, apperrors.NewAppError(500, "failed to query projects for organization "+organizationID, err)
	}
	defer rows.Close()

	modelProjects := make([]models.Project, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanProject(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan project row", scanErr)
		}
		modelProjects = append(modelProjects, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating project rows", err)
	}

	var nextTokenVal *string
	results := modelProjects
	if len(modelProjects) > limit {
		last := modelProjects[limit-1]
		newToken := pagination.EncodeMultiFieldToken(last.CreatedAt.Format(time.RFC3339Nano), last.ProjectID)
		nextTokenVal = &newToken
		results = modelProjects[:limit]
	}

	return mapping.ToDomainProjectSlice(results), nextTokenVal, nil
}

func (r *PgxProjectRepository) UpdateProject(ctx context.Context, project domain.Project) error {
	m := mapping.ToModelProject(project)
	query := `
		UPDATE projects
		SET company_id = $1, deal_id = $2, name = $3, status = $4, budget_id = $5,
		    manager_user_id = $6, start_date = $7, end_date = $8, last_updated_at = $9, last_updated_by = $10
		WHERE project_id = $11;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.CompanyID,
		m.DealID,
		m.Name,
		m.Status,
		m.BudgetID,
		m.ManagerUserID,
		m.StartDate,
		m.EndDate,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.ProjectID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update project "+m.ProjectID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

const taskColumns = `task_id, organization_id, project_id, name, status, assignee_user_id, created_at, created_by, last_updated_at, last_updated_by`

func scanTask(row pgx.Row) (models.Task, error) {
	var m models.Task
	err := row.Scan(
		&m.TaskID,
		&m.OrganizationID,
		&m.ProjectID,
		&m.Name,
		&m.Status,
		&m.AssigneeUserID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxProjectRepository) SaveTask(ctx context.Context, task domain.Task) error {
	m := mapping.ToModelTask(task)
	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.TaskID,
		m.OrganizationID,
		m.ProjectID,
		m.Name,
		m.Status,
		m.AssigneeUserID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert task "+m.TaskID, err)
	}
	return nil
}

func (r *PgxProjectRepository) FindTaskByID(ctx context.Context, taskID string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE task_id = $1;`
	m, err := scanTask(r.Pool.QueryRow(ctx, query, taskID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find task "+taskID, err)
	}
	d := mapping.ToDomainTask(m)
	return &d, nil
}

func (r *PgxProjectRepository) ListTasksByProject(ctx context.Context, projectID string) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = $1 ORDER BY created_at;`
	rows, err := r.Pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query tasks for project "+projectID, err)
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		m, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan task row", scanErr)
		}
		tasks = append(tasks, mapping.ToDomainTask(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating task rows", err)
	}
	return tasks, nil
}

func (r *PgxProjectRepository) UpdateTask(ctx context.Context, task domain.Task) error {
	m := mapping.ToModelTask(task)
	query := `
		UPDATE tasks
		SET name = $1, status = $2, assignee_user_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE task_id = $6;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.Name,
		m.Status,
		m.AssigneeUserID,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.TaskID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update task "+m.TaskID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

const bookingColumns = `booking_id, organization_id, project_id, user_id, start_date, end_date, hours_per_day, status, created_at, created_by, last_updated_at, last_updated_by`

func scanBooking(row pgx.Row) (models.Booking, error) {
	var m models.Booking
	err := row.Scan(
		&m.BookingID,
		&m.OrganizationID,
		&m.ProjectID,
		&m.UserID,
		&m.StartDate,
		&m.EndDate,
		&m.HoursPerDay,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxProjectRepository) SaveBooking(ctx context.Context, booking domain.Booking) error {
	m := mapping.ToModelBooking(booking)
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.BookingID,
		m.OrganizationID,
		m.ProjectID,
		m.UserID,
		m.StartDate,
		m.EndDate,
		m.HoursPerDay,
		m.Status,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert booking "+m.BookingID, err)
	}
	return nil
}

func (r *PgxProjectRepository) ListBookingsByProject(ctx context.Context, projectID string) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE project_id = $1 ORDER BY start_date, created_at;`
	rows, err := r.Pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query bookings for project "+projectID, err)
	}
	defer rows.Close()

	bookings := []domain.Booking{}
	for rows.Next() {
		m, scanErr := scanBooking(rows)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan booking row", scanErr)
		}
		bookings = append(bookings, mapping.ToDomainBooking(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating booking rows", err)
	}
	return bookings, nil
}

func (r *PgxProjectRepository) CancelBookings(ctx context.Context, bookingIDs []string, updatedBy string, updatedAt time.Time) error {
	if len(bookingIDs) == 0 {
		return nil
	}
	query := `
		UPDATE bookings
		SET status = $1, last_updated_at = $2, last_updated_by = $3
		WHERE booking_id = ANY($4) AND status = $5;
	`
	_, err := r.Pool.Exec(ctx, query,
		string(domain.BookingCancelled),
		updatedAt,
		updatedBy,
		bookingIDs,
		string(domain.BookingScheduled),
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to cancel bookings", err)
	}
	return nil
}
