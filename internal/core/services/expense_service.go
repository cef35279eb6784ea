package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tallyops/psa_backend/internal/apperrors"
	"github.com/tallyops/psa_backend/internal/core/domain"
	portsrepo "github.com/tallyops/psa_backend/internal/core/ports/repositories"
	portssvc "github.com/tallyops/psa_backend/internal/core/ports/services"
	"github.com/tallyops/psa_backend/internal/dto"
	"github.com/tallyops/psa_backend/internal/middleware"
)

// expenseService manages expenses and their approval loop. The state machine
// is the same one time entries use.
type expenseService struct {
	expenseRepo     portsrepo.ExpenseRepositoryFacade
	projectRepo     portsrepo.ProjectReader
	organizationSvc portssvc.OrganizationSvcFacade
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(expenseRepo portsrepo.ExpenseRepositoryFacade, projectRepo portsrepo.ProjectReader, organizationSvc portssvc.OrganizationSvcFacade) portssvc.ExpenseSvcFacade {
	return &expenseService{
		expenseRepo:     expenseRepo,
		projectRepo:     projectRepo,
		organizationSvc: organizationSvc,
	}
}

var _ portssvc.ExpenseSvcFacade = (*expenseService)(nil)

func (s *expenseService) findScopedExpense(ctx context.Context, organizationID string, expenseID string) (*domain.Expense, error) {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to find expense %s: %w", expenseID, err)
	}
	if expense.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound // Obscure existence
	}
	return expense, nil
}

// CreateExpense persists a new DRAFT expense for the calling user.
func (s *expenseService) CreateExpense(ctx context.Context, organizationID string, req dto.CreateExpenseRequest, creatorUserID string) (*domain.Expense, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.organizationSvc.AuthorizeUserAction(ctx, creatorUserID, organizationID, domain.RoleMember); err != nil {
		logger.Warn("Authorization failed for CreateExpense", slog.String("user_id", creatorUserID), slog.String("organization_id", organizationID), slog.String("error", err.Error()))
		return nil, err
	}

	project, err := s.projectRepo.FindProjectByID(ctx, req.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to find project %s: %w", req.ProjectID, err)
	}
	if project.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}

	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if req.MarkupRate < 0 {
		return nil, fmt.Errorf("%w: markup rate cannot be negative", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	expense := domain.Expense{
		ExpenseID:      uuid.NewString(),
		OrganizationID: organizationID,
		ProjectID:      req.ProjectID,
		UserID:         creatorUserID,
		Date:           req.Date,
		Amount:         req.Amount,
		Type:           req.Type,
		Billable:       req.Billable,
		MarkupRate:     req.MarkupRate,
		Description:    req.Description,
		ReceiptURL:     req.ReceiptURL,
		Status:         domain.ApprovalDraft,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.expenseRepo.SaveExpense(ctx, expense); err != nil {
		logger.Error("Failed to save expense", slog.String("error", err.Error()), slog.String("project_id", req.ProjectID))
		return nil, fmt.Errorf("failed to save expense: %w", err)
	}

	logger.Info("Expense created", slog.String("expense_id", expense.ExpenseID), slog.String("project_id", req.ProjectID))
	return &expense, nil
}

// GetExpenseByID retrieves a specific expense.
func (s *expenseService) GetExpenseByID(ctx context.Context, organizationID string, expenseID string, requestingUserID string) (*domain.Expense, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.organizationSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		logger.Warn("Authorization failed for GetExpenseByID", slog.String("user_id", requestingUserID), slog.String("error", err.Error()))
		return nil, err
	}

	return s.findScopedExpense(ctx, organizationID, expenseID)
}

// ListExpenses retrieves expenses for a project, optionally filtered by status.
func (s *expenseService) ListExpenses(ctx context.Context, organizationID string, projectID string, userID string, params dto.ListApprovablesParams) ([]domain.Expense, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.organizationSvc.AuthorizeUserAction(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		logger.Warn("Authorization failed for ListExpenses", "error", err)
		return nil, err
	}

	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to find project %s: %w", projectID, err)
	}
	if project.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}

	var statuses []domain.ApprovalStatus
	if params.Status != nil {
		statuses = []domain.ApprovalStatus{domain.ApprovalStatus(*params.Status)}
	}

	expenses, err := s.expenseRepo.ListExpensesByProject(ctx, projectID, statuses)
	if err != nil {
		logger.Error("Failed to list expenses from repository", "error", err)
		return nil, fmt.Errorf("failed to retrieve expenses: %w", err)
	}

	logger.Debug("Expenses listed", "count", len(expenses))
	return expenses, nil
}

// UpdateExpense edits a DRAFT or REJECTED expense owned by the caller.
func (s *expenseService) UpdateExpense(ctx context.Context, organizationID string, expenseID string, req dto.UpdateExpenseRequest, requestingUserID string) (*domain.Expense, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.organizationSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleMember); err != nil {
		logger.Warn("Authorization failed for UpdateExpense", slog.String("user_id", requestingUserID), slog.String("error", err.Error()))
		return nil, err
	}

	expense, err := s.findScopedExpense(ctx, organizationID, expenseID)
	if err != nil {
		return nil, err
	}

	if expense.UserID != requestingUserID {
		return nil, fmt.Errorf("%w: only the owner may edit an expense", apperrors.ErrForbidden)
	}
	if err := validateEditable(expense.Status); err != nil {
		return nil, err
	}

	updated := false
	if req.Date != nil {
		expense.Date = *req.Date
		updated = true
	}
	if req.Amount != nil {
		if *req.Amount <= 0 {
			return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
		}
		expense.Amount = *req.Amount
		updated = true
	}
	if req.Type != nil {
		expense.Type = *req.Type
		updated = true
	}
	if req.Billable != nil {
		expense.Billable = *req.Billable
		updated = true
	}
	if req.MarkupRate != nil {
		if *req.MarkupRate < 0 {
			return nil, fmt.Errorf("%w: markup rate cannot be negative", apperrors.ErrValidation)
		}
		expense.MarkupRate = *req.MarkupRate
		updated = true
	}
	if req.Description != nil {
		expense.Description = *req.Description
		updated = true
	}
	if req.ReceiptURL != nil {
		expense.ReceiptURL = req.ReceiptURL
		updated = true
	}

	if !updated {
		return expense, nil
	}

	now := time.Now().UTC()
	expense.LastUpdatedAt = now
	expense.LastUpdatedBy = requestingUserID

	if err := s.expenseRepo.UpdateExpense(ctx, *expense); err != nil {
		logger.Error("Failed to update expense", slog.String("error", err.Error()), slog.String("expense_id", expenseID))
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	return expense, nil
}

// DeleteExpense removes a DRAFT expense owned by the caller.
func (s *expenseService) DeleteExpense(ctx context.Context, organizationID string, expenseID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.organizationSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleMember); err != nil {
		logger.Warn("Authorization failed for DeleteExpense", slog.String("user_id", requestingUserID), slog.String("error", err.Error()))
		return err
	}

	expense, err := s.findScopedExpense(ctx, organizationID, expenseID)
	if err != nil {
		return err
	}

	if expense.UserID != requestingUserID {
		return fmt.Errorf("%w: only the owner may delete an expense", apperrors.ErrForbidden)
	}
	if expense.Status != domain.ApprovalDraft {
		return fmt.Errorf("%w: only draft expenses can be deleted, status is %s", apperrors.ErrNotEditable, expense.Status)
	}

	if err := s.expenseRepo.DeleteExpense(ctx, expenseID); err != nil {
		logger.Error("Failed to delete expense", slog.String("error", err.Error()), slog.String("expense_id", expenseID))
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	logger.Info("Expense deleted", slog.String("expense_id", expenseID))
	return nil
}

// SubmitExpense moves a DRAFT expense to SUBMITTED.
func (s *expenseService) SubmitExpense(ctx context.Context, organizationID string, expenseID string, requestingUserID string) (*domain.Expense, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.organizationSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleMember); err != nil {
		logger.Warn("Authorization failed for SubmitExpense", slog.String("user_id", requestingUserID), slog.String("error", err.Error()))
		return nil, err
	}

	expense, err := s.findScopedExpense(ctx, organizationID, expenseID)
	if err != nil {
		return nil, err
	}

	if expense.UserID != requestingUserID {
		return nil, fmt.Errorf("%w: only the owner may submit an expense", apperrors.ErrForbidden)
	}
	if err := validateSubmit(expense.Status); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	expense.Status = domain.ApprovalSubmitted
	expense.LastUpdatedAt = now
	expense.LastUpdatedBy = requestingUserID

	if err := s.expenseRepo.UpdateExpense(ctx, *expense); err != nil {
		logger.Error("Failed to submit expense", slog.String("error", err.Error()), slog.String("expense_id", expenseID))
		return nil, fmt.Errorf("failed to submit expense: %w", err)
	}

	logger.Info("Expense submitted", slog.String("expense_id", expenseID))
	return expense, nil
}

// ApproveExpense moves a SUBMITTED expense to APPROVED. Reviewers cannot
// approve their own submissions.
func (s *expenseService) ApproveExpense(ctx context.Context, organizationID string, expenseID string, reviewerUserID string) (*domain.Expense, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.organizationSvc.AuthorizeUserAction(ctx, reviewerUserID, organizationID, domain.RoleManager); err != nil {
		logger.Warn("Authorization failed for ApproveExpense", slog.String("user_id", reviewerUserID), slog.String("error", err.Error()))
		return nil, err
	}

	expense, err := s.findScopedExpense(ctx, organizationID, expenseID)
	if err != nil {
		return nil, err
	}

	if err := validateApprove(expense.Status, expense.UserID, reviewerUserID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	expense.Status = domain.ApprovalApproved
	expense.ApprovedBy = &reviewerUserID
	expense.ApprovedAt = &now
	expense.RejectionComments = nil
	expense.LastUpdatedAt = now
	expense.LastUpdatedBy = reviewerUserID

	if err := s.expenseRepo.UpdateExpense(ctx, *expense); err != nil {
		logger.Error("Failed to approve expense", slog.String("error", err.Error()), slog.String("expense_id", expenseID))
		return nil, fmt.Errorf("failed to approve expense: %w", err)
	}

	logger.Info("Expense approved", slog.String("expense_id", expenseID), slog.String("reviewer_id", reviewerUserID))
	return expense, nil
}

// RejectExpense moves a SUBMITTED expense to REJECTED with a reason.
func (s *expenseService) RejectExpense(ctx context.Context, organizationID string, expenseID string, comments string, reviewerUserID string) (*domain.Expense, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.organizationSvc.AuthorizeUserAction(ctx, reviewerUserID, organizationID, domain.RoleManager); err != nil {
		logger.Warn("Authorization failed for RejectExpense", slog.String("user_id", reviewerUserID), slog.String("error", err.Error()))
		return nil, err
	}

	expense, err := s.findScopedExpense(ctx, organizationID, expenseID)
	if err != nil {
		return nil, err
	}

	trimmed, err := validateReject(expense.Status, comments)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	expense.Status = domain.ApprovalRejected
	expense.RejectionComments = &trimmed
	expense.LastUpdatedAt = now
	expense.LastUpdatedBy = reviewerUserID

	if err := s.expenseRepo.UpdateExpense(ctx, *expense); err != nil {
		logger.Error("Failed to reject expense", slog.String("error", err.Error()), slog.String("expense_id", expenseID))
		return nil, fmt.Errorf("failed to reject expense: %w", err)
	}

	logger.Info("Expense rejected", slog.String("expense_id", expenseID), slog.String("reviewer_id", reviewerUserID))
	return expense, nil
}

// ReviseExpense corrects a REJECTED expense with a new amount. Resubmit
// controls whether the correction goes straight back into review.
func (s *expenseService) ReviseExpense(ctx context.Context, organizationID string, expenseID string, req dto.ReviseExpenseRequest, requestingUserID string) (*domain.Expense, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.organizationSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleMember); err != nil {
		logger.Warn("Authorization failed for ReviseExpense", slog.String("user_id", requestingUserID), slog.String("error", err.Error()))
		return nil, err
	}

	expense, err := s.findScopedExpense(ctx, organizationID, expenseID)
	if err != nil {
		return nil, err
	}

	if expense.UserID != requestingUserID {
		return nil, fmt.Errorf("%w: only the owner may revise an expense", apperrors.ErrForbidden)
	}
	if err := validateRevise(expense.Status); err != nil {
		return nil, err
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: revised amount must be positive", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	expense.Amount = req.Amount
	expense.Status = domain.ApprovalDraft
	if req.Resubmit {
		expense.Status = domain.ApprovalSubmitted
	}
	expense.RejectionComments = nil
	expense.LastUpdatedAt = now
	expense.LastUpdatedBy = requestingUserID

	if err := s.expenseRepo.UpdateExpense(ctx, *expense); err != nil {
		logger.Error("Failed to revise expense", slog.String("error", err.Error()), slog.String("expense_id", expenseID))
		return nil, fmt.Errorf("failed to revise expense: %w", err)
	}

	logger.Info("Expense revised", slog.String("expense_id", expenseID), slog.String("status", string(expense.Status)))
	return expense, nil
}

// ApproveExpenses approves many expenses. Each record is validated
// independently; one failure never rolls back the others.
func (s *expenseService) ApproveExpenses(ctx context.Context, organizationID string, expenseIDs []string, reviewerUserID string) []dto.BatchResult {
	results := make([]dto.BatchResult, 0, len(expenseIDs))
	for _, id := range expenseIDs {
		_, err := s.ApproveExpense(ctx, organizationID, id, reviewerUserID)
		results = append(results, toBatchResult(id, err))
	}
	return results
}

// RejectExpenses rejects many expenses with a shared reason. Each record is
// validated independently.
func (s *expenseService) RejectExpenses(ctx context.Context, organizationID string, expenseIDs []string, comments string, reviewerUserID string) []dto.BatchResult {
	results := make([]dto.BatchResult, 0, len(expenseIDs))
	for _, id := range expenseIDs {
		_, err := s.RejectExpense(ctx, organizationID, id, comments, reviewerUserID)
		results = append(results, toBatchResult(id, err))
	}
	return results
}
