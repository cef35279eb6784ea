package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tallyops/psa_backend/internal/core/domain"
)

// MilestoneReader defines read operations for milestone data
type MilestoneReader interface {
	// FindMilestoneByID retrieves a specific milestone by its ID.
	FindMilestoneByID(ctx context.Context, milestoneID string) (*domain.Milestone, error)

	// ListMilestonesByProject retrieves all milestones for a project.
	ListMilestonesByProject(ctx context.Context, projectID string) ([]domain.Milestone, error)
}

// MilestoneWriter defines write operations for milestone data
type MilestoneWriter interface {
	// SaveMilestone persists a new milestone.
	SaveMilestone(ctx context.Context, milestone domain.Milestone) error

	// UpdateMilestone updates an existing milestone.
	UpdateMilestone(ctx context.Context, milestone domain.Milestone) error

	// LinkMilestonesToInvoiceInTx stamps the given milestones with the
	// finalized invoice id, inside the caller's transaction.
	LinkMilestonesToInvoiceInTx(ctx context.Context, tx pgx.Tx, milestoneIDs []string, invoiceID string, updatedBy string, updatedAt time.Time) error
}

// MilestoneRepositoryFacade combines all milestone repository interfaces
type MilestoneRepositoryFacade interface {
	MilestoneReader
	MilestoneWriter
}

// BudgetRepository defines operations for project budgets.
type BudgetRepository interface {
	// FindBudgetByID retrieves a specific budget by its ID.
	FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error)

	// FindBudgetByProject retrieves the budget attached to a project.
	FindBudgetByProject(ctx context.Context, projectID string) (*domain.Budget, error)

	// SaveBudget persists a new budget.
	SaveBudget(ctx context.Context, budget domain.Budget) error

	// UpdateBudget updates an existing budget.
	UpdateBudget(ctx context.Context, budget domain.Budget) error
}
