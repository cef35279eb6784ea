package services

import (
	"context"
	"time"

	"github.com/tallyops/psa_backend/internal/core/domain"
	"github.com/tallyops/psa_backend/internal/dto"
)

// ProjectReaderSvc defines read operations for project data
type ProjectReaderSvc interface {
	// GetProjectByID retrieves a specific project.
	GetProjectByID(ctx context.Context, organizationID string, projectID string, requestingUserID string) (*domain.Project, error)

	// ListProjects retrieves a paginated list of projects in an organization.
	ListProjects(ctx context.Context, organizationID string, userID string, params dto.ListProjectsParams) (*dto.ListProjectsResponse, error)
}

// ProjectWriterSvc defines write operations for project data
type ProjectWriterSvc interface {
	// CreateProject persists a new project, optionally created from a WON deal.
	CreateProject(ctx context.Context, organizationID string, req dto.CreateProjectRequest, creatorUserID string) (*domain.Project, error)

	// UpdateProjectStatus moves a project to a new status. Moving to COMPLETED
	// requires the closure checklist's hard gates to pass.
	UpdateProjectStatus(ctx context.Context, organizationID string, projectID string, status domain.ProjectStatus, requestingUserID string) (*domain.Project, error)

	// CreateTask persists a new project task.
	CreateTask(ctx context.Context, organizationID string, req dto.CreateTaskRequest, creatorUserID string) (*domain.Task, error)

	// UpdateTaskStatus moves a task to a new status.
	UpdateTaskStatus(ctx context.Context, organizationID string, taskID string, status domain.TaskStatus, requestingUserID string) (*domain.Task, error)

	// CreateBooking persists a new resource booking.
	CreateBooking(ctx context.Context, organizationID string, req dto.CreateBookingRequest, creatorUserID string) (*domain.Booking, error)

	// CreateMilestone persists a new milestone under a project.
	CreateMilestone(ctx context.Context, organizationID string, req dto.CreateMilestoneRequest, creatorUserID string) (*domain.Milestone, error)

	// CompleteMilestone stamps a milestone's completion time.
	CompleteMilestone(ctx context.Context, organizationID string, milestoneID string, completedAt time.Time, requestingUserID string) (*domain.Milestone, error)

	// CreateBudget persists the project's budget.
	CreateBudget(ctx context.Context, organizationID string, req dto.CreateBudgetRequest, creatorUserID string) (*domain.Budget, error)
}

// ProjectFinancialsSvc computes money rollups and the closure gate
type ProjectFinancialsSvc interface {
	// ComputeBudgetBurn aggregates approved internal cost against the budget.
	ComputeBudgetBurn(ctx context.Context, organizationID string, projectID string, requestingUserID string) (*dto.BudgetBurnResponse, error)

	// ComputeProjectMetrics aggregates revenue, cost, profit and durations as
	// of the given close date. Only PAID invoices count as revenue.
	ComputeProjectMetrics(ctx context.Context, organizationID string, projectID string, asOf time.Time, requestingUserID string) (*dto.ProjectMetricsResponse, error)

	// ClosureChecklist evaluates the hard gates and soft warnings for closing
	// the project. It never mutates anything.
	ClosureChecklist(ctx context.Context, organizationID string, projectID string, requestingUserID string) (*dto.ClosureChecklistResponse, error)

	// CancelFutureBookings cancels bookings starting strictly after now.
	// Destructive; invoked explicitly, never by the checklist. Returns the
	// number of bookings cancelled.
	CancelFutureBookings(ctx context.Context, organizationID string, projectID string, requestingUserID string) (int, error)
}

// ProjectSvcFacade combines all project-related service interfaces
type ProjectSvcFacade interface {
	ProjectReaderSvc
	ProjectWriterSvc
	ProjectFinancialsSvc
}
