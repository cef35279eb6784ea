package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/tallyops/psa_backend/internal/apperrors"
	"github.com/tallyops/psa_backend/internal/core/domain"
	portsrepo "github.com/tallyops/psa_backend/internal/core/ports/repositories"
	portssvc "github.com/tallyops/psa_backend/internal/core/ports/services"
	"github.com/tallyops/psa_backend/internal/dto"
	"github.com/tallyops/psa_backend/internal/middleware"
	"github.com/tallyops/psa_backend/internal/utils/money"
)

// projectService manages projects, their supporting records, and the
// financial rollups computed over them.
type projectService struct {
	projectRepo     portsrepo.ProjectRepositoryFacade
	milestoneRepo   portsrepo.MilestoneRepositoryFacade
	budgetRepo      portsrepo.BudgetRepository
	dealRepo        portsrepo.DealReader
	timeEntryRepo   portsrepo.TimeEntryReader
	expenseRepo     portsrepo.ExpenseReader
	invoiceRepo     portsrepo.InvoiceReader
	userRepo        portsrepo.UserReader
	organizationSvc portssvc.OrganizationSvcFacade
}

// NewProjectService creates a new ProjectService.
func NewProjectService(
	projectRepo portsrepo.ProjectRepositoryFacade,
	milestoneRepo portsrepo.MilestoneRepositoryFacade,
	budgetRepo portsrepo.BudgetRepository,
	dealRepo portsrepo.DealReader,
	timeEntryRepo portsrepo.TimeEntryReader,
	expenseRepo portsrepo.ExpenseReader,
	invoiceRepo portsrepo.InvoiceReader,
	userRepo portsrepo.UserReader,
	organizationSvc portssvc.OrganizationSvcFacade,
) portssvc.ProjectSvcFacade {
	return &projectService{
		projectRepo:     projectRepo,
		milestoneRepo:   milestoneRepo,
		budgetRepo:      budgetRepo,
		dealRepo:        dealRepo,
		timeEntryRepo:   timeEntryRepo,
		expenseRepo:     expenseRepo,
		invoiceRepo:     invoiceRepo,
		userRepo:        userRepo,
		organizationSvc: organizationSvc,
	}
}

var _ portssvc.ProjectSvcFacade = (*projectService)(nil)

func (s *projectService) findScoped(ctx context.Context, organizationID string, projectID string) (*domain.Project, error) {
	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to find project %s: %w", projectID, err)
	}
	if project.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound // Obscure existence
	}
	return project, nil
}

// GetProjectByID retrieves a specific project.
func (s *projectService) GetProjectByID(ctx context.Context, organizationID string, projectID string, requestingUserID string) (*domain.Project, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.organizationSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		logger.Warn("Authorization failed for GetProjectByID", slog.String("user_id", requestingUserID), slog.String("error", err.Error()))
		return nil, err
	}

	return s.findScoped(ctx, organizationID, projectID)
}

// ListProjects retrieves a paginated list of projects for an organization.
func (s *projectService) ListProjects(ctx context.Context, organizationID string, userID string, params dto.ListProjectsParams) (*dto.ListProjectsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.organizationSvc.AuthorizeUserAction(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		logger.Warn("Authorization failed for ListProjects", "error", err)
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	var nextToken *string
	if params.NextToken != "" {
		nextToken = &params.NextToken
	}

	projects, newToken, err := s.projectRepo.ListProjectsByOrganization(ctx, organizationID, limit, nextToken)
	if err != nil {
		logger.Error("Failed to list projects from repository", "error", err)
		return nil, fmt.Errorf("failed to retrieve projects: %w", err)
	}

	// Status filtering over the page; projects per organization are few.
	if params.Status != nil {
		filtered := projects[:0]
		for _, p := range projects {
			if p.Status == *params.Status {
				filtered = append(filtered, p)
			}
		}
		projects = filtered
	}

	token := ""
	if newToken != nil {
		token = *newToken
	}
	return dto.ToListProjectsResponse(projects, token), nil
}

// CreateProject persists a new project. When the project originates from a
// deal, the deal must exist in the organization and be WON.
func (s *projectService) CreateProject(ctx context.Context, organizationID string, req dto.CreateProjectRequest, creatorUserID string) (*domain.Project, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.organizationSvc.AuthorizeUserAction(ctx, creatorUserID, organizationID, domain.RoleManager); err != nil {
		logger.Warn("Authorization failed for CreateProject", slog.String("user_id", creatorUserID), slog.String("error", err.Error()))
		return nil, err
	}

	if req.DealID != nil {
		deal, err := s.dealRepo.FindDealByID(ctx, *req.DealID)
		if err != nil {
			return nil, fmt.Errorf("failed to find deal %s: %w", *req.DealID, err)
		}
		if deal.OrganizationID != organizationID {
			return nil, apperrors.ErrNotFound
		}
		if deal.Stage != domain.StageWon {
			return nil, fmt.Errorf("%w: projects can only be created from WON deals, deal is %s", apperrors.ErrInvalidState, deal.Stage)
		}
	}

	now := time.Now().UTC()
	project := domain.Project{
		ProjectID:      uuid.NewString(),
		OrganizationID: organizationID,
		CompanyID:      req.CompanyID,
		DealID:         req.DealID,
		Name:           req.Name,
		Status:         domain.ProjectPlanning,
		ManagerUserID:  req.ManagerUserID,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.projectRepo.SaveProject(ctx, project); err != nil {
		logger.Error("Failed to save project", slog.String("error", err.Error()), slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to save project: %w", err)
	}

	logger.Info("Project created", slog.String("project_id", project.ProjectID), slog.String("organization_id", organizationID))
	return &project, nil
}

// UpdateProjectStatus moves a project to a new status. Moving to COMPLETED
// requires the closure checklist's hard gates to pass first.
func (s *projectService) UpdateProjectStatus(ctx context.Context, organizationID string, projectID string, status domain.ProjectStatus, requestingUserID string) (*domain.Project, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.organizationSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleManager); err != nil {
		logger.Warn("Authorization failed for UpdateProjectStatus", slog.String("user_id", requestingUserID), slog.String("error", err.Error()))
		return nil, err
	}

	project, err := s.findScoped(ctx, organizationID, projectID)
	if err != nil {
		return nil, err
	}

	if status == domain.ProjectCompleted {
		checklist, err := s.ClosureChecklist(ctx, organizationID, projectID, requestingUserID)
		if err != nil {
			return nil, err
		}
		if !checklist.CanClose {
			return nil, fmt.Errorf("%w: closure checklist blocks completion (%d unapproved time, %d unapproved expenses, %d open tasks)",
				apperrors.ErrConflict, checklist.UnapprovedTimeCount, checklist.UnapprovedExpenses, checklist.OpenTasks)
		}
		for _, w := range checklist.Warnings {
			logger.Warn("Project closing with open items", slog.String("project_id", projectID), slog.String("warning", w))
		}
	}

	now := time.Now().UTC()
	project.Status = status
	project.LastUpdatedAt = now
	project.LastUpdatedBy = requestingUserID

	if err := s.projectRepo.UpdateProject(ctx, *project); err != nil {
		logger.Error("Failed to update project status", slog.String("error", err.Error()), slog.String("project_id", projectID))
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	logger.Info("Project status updated", slog.String("project_id", projectID), slog.String("status", string(status)))
	return project, nil
}

// CreateTask persists a new project task in TODO.
func (s *projectService) CreateTask(ctx context.Context, organizationID string, req dto.CreateTaskRequest, creatorUserID string) (*domain.Task, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.organizationSvc.AuthorizeUserAction(ctx, creatorUserID, organizationID, domain.RoleMember); err != nil {
		logger.Warn("Authorization failed for CreateTask", slog.String("user_id", creatorUserID), slog.String("error", err.Error()))
		return nil, err
	}

	if _, err := s.findScoped(ctx, organizationID, req.ProjectID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	task := domain.Task{
		TaskID:         uuid.NewString(),
		OrganizationID: organizationID,
		ProjectID:      req.ProjectID,
		Name:           req.Name,
		Status:         domain.TaskTodo,
		AssigneeUserID: req.AssigneeUserID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.projectRepo.SaveTask(ctx, task); err != nil {
		logger.Error("Failed to save task", slog.String("error", err.Error()), slog.String("project_id", req.ProjectID))
		return nil, fmt.Errorf("failed to save task: %w", err)
	}

	return &task, nil
}

// UpdateTaskStatus moves a task to a new status.
func (s *projectService) UpdateTaskStatus(ctx context.Context, organizationID string, taskID string, status domain.TaskStatus, requestingUserID string) (*domain.Task, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.organizationSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleMember); err != nil {
		logger.Warn("Authorization failed for UpdateTaskStatus", slog.String("user_id", requestingUserID), slog.String("error", err.Error()))
		return nil, err
	}

	// Tasks are fetched by project scan; a dedicated find keeps the repository
	// surface small since task ids are only touched here.
	task, err := s.findTask(ctx, organizationID, taskID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	task.Status = status
	task.LastUpdatedAt = now
	task.LastUpdatedBy = requestingUserID

	if err := s.projectRepo.UpdateTask(ctx, *task); err != nil {
		logger.Error("Failed to update task", slog.String("error", err.Error()), slog.String("task_id", taskID))
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// findTask locates a task by id within the organization.
func (s *projectService) findTask(ctx context.Context, organizationID string, taskID string) (*domain.Task, error) {
	task, err := s.projectRepo.FindTaskByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to find task %s: %w", taskID, err)
	}
	if task.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}
	return task, nil
}

// CreateBooking persists a new SCHEDULED resource booking.
func (s *projectService) CreateBooking(ctx context.Context, organizationID string, req dto.CreateBookingRequest, creatorUserID string) (*domain.Booking, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.organizationSvc.AuthorizeUserAction(ctx, creatorUserID, organizationID, domain.RoleManager); err != nil {
		logger.Warn("Authorization failed for CreateBooking", slog.String("user_id", creatorUserID), slog.String("error", err.Error()))
		return nil, err
	}

	if _, err := s.findScoped(ctx, organizationID, req.ProjectID); err != nil {
		return nil, err
	}

	if req.EndDate.Before(req.StartDate) {
		return nil, fmt.Errorf("%w: booking end date precedes start date", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	booking := domain.Booking{
		BookingID:      uuid.NewString(),
		OrganizationID: organizationID,
		ProjectID:      req.ProjectID,
		UserID:         req.UserID,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		HoursPerDay:    req.HoursPerDay,
		Status:         domain.BookingScheduled,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.projectRepo.SaveBooking(ctx, booking); err != nil {
		logger.Error("Failed to save booking", slog.String("error", err.Error()), slog.String("project_id", req.ProjectID))
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	return &booking, nil
}

// CreateMilestone persists a new milestone under a project.
func (s *projectService) CreateMilestone(ctx context.Context, organizationID string, req dto.CreateMilestoneRequest, creatorUserID string) (*domain.Milestone, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.organizationSvc.AuthorizeUserAction(ctx, creatorUserID, organizationID, domain.RoleManager); err != nil {
		logger.Warn("Authorization failed for CreateMilestone", slog.String("user_id", creatorUserID), slog.String("error", err.Error()))
		return nil, err
	}

	if _, err := s.findScoped(ctx, organizationID, req.ProjectID); err != nil {
		return nil, err
	}

	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: milestone amount must be positive", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	milestone := domain.Milestone{
		MilestoneID:    uuid.NewString(),
		OrganizationID: organizationID,
		ProjectID:      req.ProjectID,
		Name:           req.Name,
		Amount:         req.Amount,
		Percentage:     req.Percentage,
		DueDate:        req.DueDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.milestoneRepo.SaveMilestone(ctx, milestone); err != nil {
		logger.Error("Failed to save milestone", slog.String("error", err.Error()), slog.String("project_id", req.ProjectID))
		return nil, fmt.Errorf("failed to save milestone: %w", err)
	}

	return &milestone, nil
}

// CompleteMilestone stamps a milestone's completion time, making it
// invoiceable. Completing an already completed milestone is rejected.
func (s *projectService) CompleteMilestone(ctx context.Context, organizationID string, milestoneID string, completedAt time.Time, requestingUserID string) (*domain.Milestone, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.organizationSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleManager); err != nil {
		logger.Warn("Authorization failed for CompleteMilestone", slog.String("user_id", requestingUserID), slog.String("error", err.Error()))
		return nil, err
	}

	milestone, err := s.milestoneRepo.FindMilestoneByID(ctx, milestoneID)
	if err != nil {
		return nil, fmt.Errorf("failed to find milestone %s: %w", milestoneID, err)
	}
	if milestone.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}
	if milestone.CompletedAt != nil {
		return nil, fmt.Errorf("%w: milestone %s is already completed", apperrors.ErrConflict, milestoneID)
	}

	now := time.Now().UTC()
	milestone.CompletedAt = &completedAt
	milestone.LastUpdatedAt = now
	milestone.LastUpdatedBy = requestingUserID

	if err := s.milestoneRepo.UpdateMilestone(ctx, *milestone); err != nil {
		logger.Error("Failed to complete milestone", slog.String("error", err.Error()), slog.String("milestone_id", milestoneID))
		return nil, fmt.Errorf("failed to update milestone: %w", err)
	}

	logger.Info("Milestone completed", slog.String("milestone_id", milestoneID))
	return milestone, nil
}

// CreateBudget persists the project's budget and links it to the project.
func (s *projectService) CreateBudget(ctx context.Context, organizationID string, req dto.CreateBudgetRequest, creatorUserID string) (*domain.Budget, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.organizationSvc.AuthorizeUserAction(ctx, creatorUserID, organizationID, domain.RoleManager); err != nil {
		logger.Warn("Authorization failed for CreateBudget", slog.String("user_id", creatorUserID), slog.String("error", err.Error()))
		return nil, err
	}

	project, err := s.findScoped(ctx, organizationID, req.ProjectID)
	if err != nil {
		return nil, err
	}
	if project.BudgetID != nil {
		return nil, fmt.Errorf("%w: project %s already has a budget", apperrors.ErrDuplicate, req.ProjectID)
	}

	if req.Type == domain.BudgetRetainer && req.RetainerAmount <= 0 {
		return nil, fmt.Errorf("%w: retainer budgets require a positive retainer amount", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	budget := domain.Budget{
		BudgetID:       uuid.NewString(),
		OrganizationID: organizationID,
		ProjectID:      req.ProjectID,
		Type:           req.Type,
		TotalAmount:    req.TotalAmount,
		RetainerAmount: req.RetainerAmount,
		IncludedHours:  req.IncludedHours,
		OverageRate:    req.OverageRate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.budgetRepo.SaveBudget(ctx, budget); err != nil {
		logger.Error("Failed to save budget", slog.String("error", err.Error()), slog.String("project_id", req.ProjectID))
		return nil, fmt.Errorf("failed to save budget: %w", err)
	}

	project.BudgetID = &budget.BudgetID
	project.LastUpdatedAt = now
	project.LastUpdatedBy = creatorUserID
	if err := s.projectRepo.UpdateProject(ctx, *project); err != nil {
		logger.Error("Failed to link budget to project", slog.String("error", err.Error()), slog.String("project_id", req.ProjectID))
		return nil, fmt.Errorf("failed to link budget to project: %w", err)
	}

	logger.Info("Budget created", slog.String("budget_id", budget.BudgetID), slog.String("project_id", req.ProjectID))
	return &budget, nil
}

// approvedAndLockedCost sums internal cost (hours at each user's cost rate)
// and raw expense amounts for all approved or locked records of the project.
func (s *projectService) approvedAndLockedCost(ctx context.Context, projectID string) (timeCost int64, expenseCost int64, totalHours float64, err error) {
	statuses := []domain.ApprovalStatus{domain.ApprovalApproved, domain.ApprovalLocked}

	entries, err := s.timeEntryRepo.ListTimeEntriesByProject(ctx, projectID, statuses)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to retrieve time entries: %w", err)
	}

	userIDs := make([]string, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.UserID]; !ok {
			seen[e.UserID] = struct{}{}
			userIDs = append(userIDs, e.UserID)
		}
	}

	var users map[string]domain.User
	if len(userIDs) > 0 {
		users, err = s.userRepo.FindUsersByIDs(ctx, userIDs)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("failed to resolve cost rates: %w", err)
		}
	}

	for _, e := range entries {
		user, ok := users[e.UserID]
		if !ok {
			return 0, 0, 0, fmt.Errorf("%w: user %s for time entry %s", apperrors.ErrNotFound, e.UserID, e.TimeEntryID)
		}
		timeCost += money.HoursTimesRate(e.Hours, user.CostRate)
		totalHours += e.Hours
	}

	expenses, err := s.expenseRepo.ListExpensesByProject(ctx, projectID, statuses)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to retrieve expenses: %w", err)
	}
	for _, exp := range expenses {
		// Internal cost is the raw amount; markup is a billing concern.
		expenseCost += exp.Amount
	}

	return timeCost, expenseCost, totalHours, nil
}

// ComputeBudgetBurn aggregates approved internal cost against the budget.
func (s *projectService) ComputeBudgetBurn(ctx context.Context, organizationID string, projectID string, requestingUserID string) (*dto.BudgetBurnResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.organizationSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		logger.Warn("Authorization failed for ComputeBudgetBurn", slog.String("user_id", requestingUserID), slog.String("error", err.Error()))
		return nil, err
	}

	if _, err := s.findScoped(ctx, organizationID, projectID); err != nil {
		return nil, err
	}

	budget, err := s.budgetRepo.FindBudgetByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to find budget for project %s: %w", projectID, err)
	}

	timeCost, expenseCost, totalHours, err := s.approvedAndLockedCost(ctx, projectID)
	if err != nil {
		return nil, err
	}
	consumed := timeCost + expenseCost

	return &dto.BudgetBurnResponse{
		ProjectID:      projectID,
		BudgetAmount:   budget.TotalAmount,
		ConsumedCost:   consumed,
		BurnPercentage: money.RatioPercent(consumed, budget.TotalAmount),
		ApprovedHours:  totalHours,
		OverBudget:     consumed > budget.TotalAmount,
	}, nil
}

// ComputeProjectMetrics aggregates revenue, cost, profit and duration as of
// the given date. Revenue recognizes PAID invoices only; VOID and everything
// earlier in the lifecycle contribute nothing.
func (s *projectService) ComputeProjectMetrics(ctx context.Context, organizationID string, projectID string, asOf time.Time, requestingUserID string) (*dto.ProjectMetricsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.organizationSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		logger.Warn("Authorization failed for ComputeProjectMetrics", slog.String("user_id", requestingUserID), slog.String("error", err.Error()))
		return nil, err
	}

	project, err := s.findScoped(ctx, organizationID, projectID)
	if err != nil {
		return nil, err
	}

	invoices, err := s.invoiceRepo.ListInvoicesByProject(ctx, projectID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve invoices: %w", err)
	}

	var revenue int64
	for _, inv := range invoices {
		if inv.Status.CountsAsRevenue() {
			revenue += inv.Total
		}
	}

	timeCost, expenseCost, totalHours, err := s.approvedAndLockedCost(ctx, projectID)
	if err != nil {
		return nil, err
	}
	cost := timeCost + expenseCost
	profit := revenue - cost

	// Margin over zero revenue is reported as 0, not an error.
	margin := money.RatioPercent(profit, revenue)

	durationDays := 0
	if asOf.After(project.StartDate) {
		durationDays = int(math.Round(asOf.Sub(project.StartDate).Hours() / 24))
	}

	logger.Debug("Project metrics computed", slog.String("project_id", projectID), slog.Int64("revenue", revenue), slog.Int64("cost", cost))
	return &dto.ProjectMetricsResponse{
		ProjectID:        projectID,
		Revenue:          revenue,
		Cost:             cost,
		Profit:           profit,
		MarginPercentage: margin,
		TotalHours:       totalHours,
		DurationDays:     durationDays,
	}, nil
}

// ClosureChecklist evaluates the closure gates. Unsettled time and expense
// records and open tasks are hard gates that block completion; uninvoiced
// billables, unpaid invoices, and future bookings only warn. The checklist
// never mutates anything.
func (s *projectService) ClosureChecklist(ctx context.Context, organizationID string, projectID string, requestingUserID string) (*dto.ClosureChecklistResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.organizationSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		logger.Warn("Authorization failed for ClosureChecklist", slog.String("user_id", requestingUserID), slog.String("error", err.Error()))
		return nil, err
	}

	if _, err := s.findScoped(ctx, organizationID, projectID); err != nil {
		return nil, err
	}

	resp := &dto.ClosureChecklistResponse{ProjectID: projectID}

	// Rejected time entries have already been sent back to their owner and do
	// not gate closure; rejected expenses do, since unsettled spend is money.
	entries, err := s.timeEntryRepo.ListTimeEntriesByProject(ctx, projectID,
		[]domain.ApprovalStatus{domain.ApprovalDraft, domain.ApprovalSubmitted, domain.ApprovalApproved})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve time entries: %w", err)
	}
	for _, e := range entries {
		if e.Status != domain.ApprovalApproved {
			resp.UnapprovedTimeCount++
		} else if e.Billable && e.InvoiceID == nil {
			resp.UninvoicedBillables++
		}
	}

	expenses, err := s.expenseRepo.ListExpensesByProject(ctx, projectID,
		[]domain.ApprovalStatus{domain.ApprovalDraft, domain.ApprovalSubmitted, domain.ApprovalRejected, domain.ApprovalApproved})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve expenses: %w", err)
	}
	for _, e := range expenses {
		if e.Status != domain.ApprovalApproved {
			resp.UnapprovedExpenses++
		} else if e.Billable && e.InvoiceID == nil {
			resp.UninvoicedBillables++
		}
	}
	if resp.UninvoicedBillables > 0 {
		resp.Warnings = append(resp.Warnings, fmt.Sprintf("%d approved billable item(s) not yet invoiced", resp.UninvoicedBillables))
	}

	tasks, err := s.projectRepo.ListTasksByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tasks: %w", err)
	}
	for _, t := range tasks {
		if t.Status.BlocksClosure() {
			resp.OpenTasks++
		}
	}
	if resp.OpenTasks > 0 {
		resp.Warnings = append(resp.Warnings, fmt.Sprintf("%d open task(s) must be completed or put on hold", resp.OpenTasks))
	}

	milestones, err := s.milestoneRepo.ListMilestonesByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve milestones: %w", err)
	}
	for _, m := range milestones {
		if m.IsInvoiceable() {
			resp.UninvoicedMilestones++
		}
	}
	if resp.UninvoicedMilestones > 0 {
		resp.Warnings = append(resp.Warnings, fmt.Sprintf("%d completed milestone(s) not yet invoiced", resp.UninvoicedMilestones))
	}

	unpaid, err := s.invoiceRepo.ListInvoicesByProject(ctx, projectID,
		[]domain.InvoiceStatus{domain.InvoiceDraft, domain.InvoiceFinalized, domain.InvoiceSent, domain.InvoiceViewed})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve invoices: %w", err)
	}
	resp.UnpaidInvoices = len(unpaid)
	for _, inv := range unpaid {
		resp.UnpaidAmount += inv.Total
	}
	if resp.UnpaidInvoices > 0 {
		resp.Warnings = append(resp.Warnings, fmt.Sprintf("%d invoice(s) awaiting payment, %d outstanding", resp.UnpaidInvoices, resp.UnpaidAmount))
	}

	bookings, err := s.projectRepo.ListBookingsByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve bookings: %w", err)
	}
	now := time.Now().UTC()
	for _, b := range bookings {
		if b.Status == domain.BookingScheduled && b.StartDate.After(now) {
			resp.FutureBookings++
		}
	}
	if resp.FutureBookings > 0 {
		resp.Warnings = append(resp.Warnings, fmt.Sprintf("%d future booking(s) still scheduled", resp.FutureBookings))
	}

	resp.CanClose = resp.UnapprovedTimeCount == 0 && resp.UnapprovedExpenses == 0 && resp.OpenTasks == 0

	return resp, nil
}

// CancelFutureBookings cancels every SCHEDULED booking starting strictly
// after now. This is the explicit destructive companion to the checklist's
// future-bookings warning; closing a project never triggers it.
func (s *projectService) CancelFutureBookings(ctx context.Context, organizationID string, projectID string, requestingUserID string) (int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.organizationSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleManager); err != nil {
		logger.Warn("Authorization failed for CancelFutureBookings", slog.String("user_id", requestingUserID), slog.String("error", err.Error()))
		return 0, err
	}

	if _, err := s.findScoped(ctx, organizationID, projectID); err != nil {
		return 0, err
	}

	bookings, err := s.projectRepo.ListBookingsByProject(ctx, projectID)
	if err != nil {
		return 0, fmt.Errorf("failed to retrieve bookings: %w", err)
	}

	now := time.Now().UTC()
	var toCancel []string
	for _, b := range bookings {
		if b.Status == domain.BookingScheduled && b.StartDate.After(now) {
			toCancel = append(toCancel, b.BookingID)
		}
	}

	if len(toCancel) == 0 {
		return 0, nil
	}

	if err := s.projectRepo.CancelBookings(ctx, toCancel, requestingUserID, now); err != nil {
		logger.Error("Failed to cancel future bookings", slog.String("error", err.Error()), slog.String("project_id", projectID))
		return 0, fmt.Errorf("failed to cancel bookings: %w", err)
	}

	logger.Info("Future bookings cancelled", slog.String("project_id", projectID), slog.Int("count", len(toCancel)))
	return len(toCancel), nil
}
