package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tallyops/psa_backend/internal/core/domain"
)

// ExpenseReader defines read operations for expense data
type ExpenseReader interface {
	// FindExpenseByID retrieves a specific expense by its ID.
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)

	// ListExpensesByProject retrieves all expenses for a project, optionally
	// filtered to the given statuses (nil means all).
	ListExpensesByProject(ctx context.Context, projectID string, statuses []domain.ApprovalStatus) ([]domain.Expense, error)

	// ListApprovedExpensesInPeriod retrieves APPROVED expenses for a project
	// with dates in [from, to]. billableOnly restricts to billable expenses.
	ListApprovedExpensesInPeriod(ctx context.Context, projectID string, from, to time.Time, billableOnly bool) ([]domain.Expense, error)
}

// ExpenseWriter defines write operations for expense data
type ExpenseWriter interface {
	// SaveExpense persists a new expense.
	SaveExpense(ctx context.Context, expense domain.Expense) error

	// UpdateExpense updates an existing expense.
	UpdateExpense(ctx context.Context, expense domain.Expense) error

	// DeleteExpense removes an expense. The service layer guarantees only
	// drafts reach this.
	DeleteExpense(ctx context.Context, expenseID string) error

	// LockExpensesInTx transitions the given APPROVED expenses to LOCKED and
	// stamps them with the finalized invoice id, inside the caller's transaction.
	LockExpensesInTx(ctx context.Context, tx pgx.Tx, expenseIDs []string, invoiceID string, updatedBy string, updatedAt time.Time) error
}

// ExpenseRepositoryFacade combines all expense repository interfaces
type ExpenseRepositoryFacade interface {
	ExpenseReader
	ExpenseWriter
}
