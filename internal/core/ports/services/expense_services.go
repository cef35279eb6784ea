package services

import (
	"context"

	"github.com/tallyops/psa_backend/internal/core/domain"
	"github.com/tallyops/psa_backend/internal/dto"
)

// ExpenseReaderSvc defines read operations for expense data
type ExpenseReaderSvc interface {
	// GetExpenseByID retrieves a specific expense.
	GetExpenseByID(ctx context.Context, organizationID string, expenseID string, requestingUserID string) (*domain.Expense, error)

	// ListExpenses retrieves expenses for a project, optionally filtered by status.
	ListExpenses(ctx context.Context, organizationID string, projectID string, userID string, params dto.ListApprovablesParams) ([]domain.Expense, error)
}

// ExpenseWriterSvc defines draft mutations for expense data
type ExpenseWriterSvc interface {
	// CreateExpense persists a new DRAFT expense.
	CreateExpense(ctx context.Context, organizationID string, req dto.CreateExpenseRequest, creatorUserID string) (*domain.Expense, error)

	// UpdateExpense edits a DRAFT or REJECTED expense owned by the caller.
	UpdateExpense(ctx context.Context, organizationID string, expenseID string, req dto.UpdateExpenseRequest, requestingUserID string) (*domain.Expense, error)

	// DeleteExpense removes a DRAFT expense owned by the caller.
	DeleteExpense(ctx context.Context, organizationID string, expenseID string, requestingUserID string) error
}

// ExpenseApprovalSvc defines the submit/approve/reject/revise loop
type ExpenseApprovalSvc interface {
	// SubmitExpense moves a DRAFT expense to SUBMITTED.
	SubmitExpense(ctx context.Context, organizationID string, expenseID string, requestingUserID string) (*domain.Expense, error)

	// ApproveExpense moves a SUBMITTED expense to APPROVED. The reviewer must
	// not be the submitter.
	ApproveExpense(ctx context.Context, organizationID string, expenseID string, reviewerUserID string) (*domain.Expense, error)

	// RejectExpense moves a SUBMITTED expense to REJECTED with a reason.
	RejectExpense(ctx context.Context, organizationID string, expenseID string, comments string, reviewerUserID string) (*domain.Expense, error)

	// ReviseExpense corrects a REJECTED expense and either saves it back as a
	// draft or resubmits it immediately.
	ReviseExpense(ctx context.Context, organizationID string, expenseID string, req dto.ReviseExpenseRequest, requestingUserID string) (*domain.Expense, error)

	// ApproveExpenses approves many expenses, each validated independently.
	ApproveExpenses(ctx context.Context, organizationID string, expenseIDs []string, reviewerUserID string) []dto.BatchResult

	// RejectExpenses rejects many expenses, each validated independently.
	RejectExpenses(ctx context.Context, organizationID string, expenseIDs []string, comments string, reviewerUserID string) []dto.BatchResult
}

// ExpenseSvcFacade combines all expense service interfaces
type ExpenseSvcFacade interface {
	ExpenseReaderSvc
	ExpenseWriterSvc
	ExpenseApprovalSvc
}
