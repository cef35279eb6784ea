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

type PgxExpenseRepository struct {
	BaseRepository
}

func newPgxExpenseRepository(pool *pgxpool.Pool) portsrepo.ExpenseRepositoryFacade {
	return &PgxExpenseRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxExpenseRepository implements portsrepo.ExpenseRepositoryFacade
var _ portsrepo.ExpenseRepositoryFacade = (*PgxExpenseRepository)(nil)

const expenseColumns = `expense_id, organization_id, project_id, user_id, expense_date, amount, expense_type, billable, markup_rate, description, receipt_url, status, approved_by, approved_at, rejection_comments, invoice_id, created_at, created_by, last_updated_at, last_updated_by`

func scanExpense(row pgx.Row) (models.Expense, error) {
	var m models.Expense
	err := row.Scan(
		&m.ExpenseID,
		&m.OrganizationID,
		&m.ProjectID,
		&m.UserID,
		&m.ExpenseDate,
		&m.Amount,
		&m.ExpenseType,
		&m.Billable,
		&m.MarkupRate,
		&m.Description,
		&m.ReceiptURL,
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

func (r *PgxExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	m := mapping.ToModelExpense(expense)
	query := `
		INSERT INTO expenses (` + expenseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ExpenseID,
		m.OrganizationID,
		m.ProjectID,
		m.UserID,
		m.ExpenseDate,
		m.Amount,
		m.ExpenseType,
		m.Billable,
		m.MarkupRate,
		m.Description,
		m.ReceiptURL,
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
		return apperrors.NewAppError(500, "failed to insert expense "+m.ExpenseID, err)
	}
	return nil
}

func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE expense_id = $1;`
	m, err := scanExpense(r.Pool.QueryRow(ctx, query, expenseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find expense "+expenseID, err)
	}
	d := mapping.ToDomainExpense(m)
	return &d, nil
}

func (r *PgxExpenseRepository) ListExpensesByProject(ctx context.Context, projectID string, statuses []domain.ApprovalStatus) ([]domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE project_id = $1`
	args := []interface{}{projectID}
	if len(statuses) > 0 {
		query += ` AND status = ANY($2)`
		args = append(args, statusStrings(statuses))
	}
	query += ` ORDER BY expense_date, created_at;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query expenses for project "+projectID, err)
	}
	defer rows.Close()

	return collectExpenses(rows)
}

func (r *PgxExpenseRepository) ListApprovedExpensesInPeriod(ctx context.Context, projectID string, from, to time.Time, billableOnly bool) ([]domain.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE project_id = $1 AND status = $2 AND expense_date >= $3 AND expense_date <= $4
	`
	args := []interface{}{projectID, string(domain.ApprovalApproved), from, to}
	if billableOnly {
		query += ` AND billable = TRUE`
	}
	query += ` ORDER BY expense_date, created_at;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query approved expenses for project "+projectID, err)
	}
	defer rows.Close()

	return collectExpenses(rows)
}

func collectExpenses(rows pgx.Rows) ([]domain.Expense, error) {
	modelExpenses := []models.Expense{}
	for rows.Next() {
		m, scanErr := scanExpense(rows)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan expense row", scanErr)
		}
		modelExpenses = append(modelExpenses, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating expense rows", err)
	}
	return mapping.ToDomainExpenseSlice(modelExpenses), nil
}

func (r *PgxExpenseRepository) UpdateExpense(ctx context.Context, expense domain.Expense) error {
	m := mapping.ToModelExpense(expense)
	query := `
		UPDATE expenses
		SET expense_date = $1, amount = $2, expense_type = $3, billable = $4, markup_rate = $5,
		    description = $6, receipt_url = $7, status = $8, approved_by = $9, approved_at = $10,
		    rejection_comments = $11, invoice_id = $12, last_updated_at = $13, last_updated_by = $14
		WHERE expense_id = $15;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.ExpenseDate,
		m.Amount,
		m.ExpenseType,
		m.Billable,
		m.MarkupRate,
		m.Description,
		m.ReceiptURL,
		m.Status,
		m.ApprovedBy,
		m.ApprovedAt,
		m.RejectionComments,
		m.InvoiceID,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.ExpenseID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update expense "+m.ExpenseID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxExpenseRepository) DeleteExpense(ctx context.Context, expenseID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM expenses WHERE expense_id = $1;`, expenseID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete expense "+expenseID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// LockExpensesInTx moves APPROVED expenses to LOCKED and stamps them with the
// invoice id, inside the caller's transaction.
func (r *PgxExpenseRepository) LockExpensesInTx(ctx context.Context, tx pgx.Tx, expenseIDs []string, invoiceID string, updatedBy string, updatedAt time.Time) error {
	if len(expenseIDs) == 0 {
		return nil
	}
	query := `
		UPDATE expenses
		SET status = $1, invoice_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE expense_id = ANY($5) AND status = $6;
	`
	cmdTag, err := tx.Exec(ctx, query,
		string(domain.ApprovalLocked),
		invoiceID,
		updatedAt,
		updatedBy,
		expenseIDs,
		string(domain.ApprovalApproved),
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to lock expenses for invoice "+invoiceID, err)
	}
	if cmdTag.RowsAffected() != int64(len(expenseIDs)) {
		return apperrors.NewAppError(409, "some expenses were not in APPROVED status", apperrors.ErrConflict)
	}
	return nil
}
