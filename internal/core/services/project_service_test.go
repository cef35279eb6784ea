package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/tallyops/psa_backend/internal/apperrors"
	"github.com/tallyops/psa_backend/internal/core/domain"
	portssvc "github.com/tallyops/psa_backend/internal/core/ports/services"
	"github.com/tallyops/psa_backend/internal/core/services"
	"github.com/tallyops/psa_backend/internal/dto"
)

// MockDealRepository is a mock type for the DealRepositoryFacade interface
type MockDealRepository struct {
	mock.Mock
}

func (m *MockDealRepository) FindDealByID(ctx context.Context, dealID string) (*domain.Deal, error) {
	args := m.Called(ctx, dealID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Deal), args.Error(1)
}

func (m *MockDealRepository) ListDealsByOrganization(ctx context.Context, organizationID string, limit int, nextToken *string) ([]domain.Deal, *string, error) {
	args := m.Called(ctx, organizationID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.Deal), token, args.Error(2)
}

func (m *MockDealRepository) ListDealsByStage(ctx context.Context, organizationID string, stage domain.DealStage) ([]domain.Deal, error) {
	args := m.Called(ctx, organizationID, stage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Deal), args.Error(1)
}

func (m *MockDealRepository) SaveDeal(ctx context.Context, deal domain.Deal) error {
	args := m.Called(ctx, deal)
	return args.Error(0)
}

func (m *MockDealRepository) UpdateDeal(ctx context.Context, deal domain.Deal) error {
	args := m.Called(ctx, deal)
	return args.Error(0)
}

// --- Test Suite Setup ---

type ProjectServiceTestSuite struct {
	suite.Suite
	mockProjectRepo   *MockProjectRepository
	mockMilestoneRepo *MockMilestoneRepository
	mockBudgetRepo    *MockBudgetRepository
	mockDealRepo      *MockDealRepository
	mockTimeEntryRepo *MockTimeEntryRepository
	mockExpenseRepo   *MockExpenseRepository
	mockInvoiceRepo   *MockInvoiceRepository
	mockUserRepo      *MockUserRepository
	mockOrgSvc        *MockOrganizationService
	service           portssvc.ProjectSvcFacade
	orgID             string
	managerID         string
}

func (suite *ProjectServiceTestSuite) SetupTest() {
	suite.mockProjectRepo = new(MockProjectRepository)
	suite.mockMilestoneRepo = new(MockMilestoneRepository)
	suite.mockBudgetRepo = new(MockBudgetRepository)
	suite.mockDealRepo = new(MockDealRepository)
	suite.mockTimeEntryRepo = new(MockTimeEntryRepository)
	suite.mockExpenseRepo = new(MockExpenseRepository)
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockOrgSvc = new(MockOrganizationService)
	suite.service = services.NewProjectService(
		suite.mockProjectRepo,
		suite.mockMilestoneRepo,
		suite.mockBudgetRepo,
		suite.mockDealRepo,
		suite.mockTimeEntryRepo,
		suite.mockExpenseRepo,
		suite.mockInvoiceRepo,
		suite.mockUserRepo,
		suite.mockOrgSvc,
	)
	suite.orgID = "org-1"
	suite.managerID = "user-manager"
}

func (suite *ProjectServiceTestSuite) authorize(role domain.OrganizationRole) {
	suite.mockOrgSvc.On("AuthorizeUserAction", mock.Anything, suite.managerID, suite.orgID, role).Return(nil).Once()
}

func (suite *ProjectServiceTestSuite) project() *domain.Project {
	return &domain.Project{
		ProjectID:      "proj-1",
		OrganizationID: suite.orgID,
		CompanyID:      "comp-1",
		Name:           "Platform rebuild",
		Status:         domain.ProjectActive,
		StartDate:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (suite *ProjectServiceTestSuite) expectFindProject() {
	suite.mockProjectRepo.On("FindProjectByID", mock.Anything, "proj-1").Return(suite.project(), nil).Once()
}

// --- Create ---

func (suite *ProjectServiceTestSuite) TestCreateProject_FromWonDeal() {
	ctx := context.Background()
	dealID := "deal-1"
	suite.authorize(domain.RoleManager)
	suite.mockDealRepo.On("FindDealByID", ctx, dealID).
		Return(&domain.Deal{DealID: dealID, OrganizationID: suite.orgID, Stage: domain.StageWon}, nil).Once()
	suite.mockProjectRepo.On("SaveProject", ctx, mock.AnythingOfType("domain.Project")).Return(nil).Once()

	req := dto.CreateProjectRequest{
		CompanyID: "comp-1",
		DealID:    &dealID,
		Name:      "Platform rebuild",
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	project, err := suite.service.CreateProject(ctx, suite.orgID, req, suite.managerID)

	suite.Require().NoError(err)
	suite.Equal(domain.ProjectPlanning, project.Status)
	suite.Equal(&dealID, project.DealID)
	suite.mockProjectRepo.AssertExpectations(suite.T())
}

func (suite *ProjectServiceTestSuite) TestCreateProject_DealNotWon() {
	ctx := context.Background()
	dealID := "deal-1"
	suite.authorize(domain.RoleManager)
	suite.mockDealRepo.On("FindDealByID", ctx, dealID).
		Return(&domain.Deal{DealID: dealID, OrganizationID: suite.orgID, Stage: domain.StageNegotiation}, nil).Once()

	req := dto.CreateProjectRequest{CompanyID: "comp-1", DealID: &dealID, Name: "Too early"}
	project, err := suite.service.CreateProject(ctx, suite.orgID, req, suite.managerID)

	suite.Require().Error(err)
	suite.Nil(project)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockProjectRepo.AssertNotCalled(suite.T(), "SaveProject", mock.Anything, mock.Anything)
}

// --- Budget burn ---

func (suite *ProjectServiceTestSuite) TestComputeBudgetBurn_UsesCostRates() {
	ctx := context.Background()
	suite.authorize(domain.RoleReadOnly)
	suite.expectFindProject()
	suite.mockBudgetRepo.On("FindBudgetByProject", ctx, "proj-1").
		Return(&domain.Budget{BudgetID: "bud-1", Type: domain.BudgetTimeAndMaterials, TotalAmount: 1000000}, nil).Once()

	statuses := []domain.ApprovalStatus{domain.ApprovalApproved, domain.ApprovalLocked}
	suite.mockTimeEntryRepo.On("ListTimeEntriesByProject", ctx, "proj-1", statuses).
		Return([]domain.TimeEntry{
			{TimeEntryID: "te-1", UserID: "user-a", Hours: 10},
			{TimeEntryID: "te-2", UserID: "user-b", Hours: 5},
		}, nil).Once()
	suite.mockUserRepo.On("FindUsersByIDs", ctx, mock.AnythingOfType("[]string")).
		Return(map[string]domain.User{
			"user-a": {UserID: "user-a", CostRate: 8000},
			"user-b": {UserID: "user-b", CostRate: 12000},
		}, nil).Once()
	suite.mockExpenseRepo.On("ListExpensesByProject", ctx, "proj-1", statuses).
		Return([]domain.Expense{
			{ExpenseID: "exp-1", Amount: 30000, MarkupRate: 0.5},
		}, nil).Once()

	burn, err := suite.service.ComputeBudgetBurn(ctx, suite.orgID, "proj-1", suite.managerID)

	suite.Require().NoError(err)
	// 10h at 8000 + 5h at 12000 + expense at raw amount, markup ignored.
	suite.Equal(int64(170000), burn.ConsumedCost)
	suite.Equal(int64(1000000), burn.BudgetAmount)
	suite.Equal(int64(17), burn.BurnPercentage)
	suite.Equal(15.0, burn.ApprovedHours)
	suite.False(burn.OverBudget)
}

func (suite *ProjectServiceTestSuite) TestComputeBudgetBurn_OverBudget() {
	ctx := context.Background()
	suite.authorize(domain.RoleReadOnly)
	suite.expectFindProject()
	suite.mockBudgetRepo.On("FindBudgetByProject", ctx, "proj-1").
		Return(&domain.Budget{BudgetID: "bud-1", TotalAmount: 100000}, nil).Once()

	statuses := []domain.ApprovalStatus{domain.ApprovalApproved, domain.ApprovalLocked}
	suite.mockTimeEntryRepo.On("ListTimeEntriesByProject", ctx, "proj-1", statuses).
		Return([]domain.TimeEntry{{TimeEntryID: "te-1", UserID: "user-a", Hours: 20}}, nil).Once()
	suite.mockUserRepo.On("FindUsersByIDs", ctx, []string{"user-a"}).
		Return(map[string]domain.User{"user-a": {UserID: "user-a", CostRate: 10000}}, nil).Once()
	suite.mockExpenseRepo.On("ListExpensesByProject", ctx, "proj-1", statuses).
		Return([]domain.Expense{}, nil).Once()

	burn, err := suite.service.ComputeBudgetBurn(ctx, suite.orgID, "proj-1", suite.managerID)

	suite.Require().NoError(err)
	suite.Equal(int64(200000), burn.ConsumedCost)
	suite.Equal(int64(200), burn.BurnPercentage)
	suite.True(burn.OverBudget)
}

// --- Metrics ---

func (suite *ProjectServiceTestSuite) TestComputeProjectMetrics_PaidInvoicesOnly() {
	ctx := context.Background()
	suite.authorize(domain.RoleReadOnly)
	suite.expectFindProject()

	suite.mockInvoiceRepo.On("ListInvoicesByProject", ctx, "proj-1", []domain.InvoiceStatus(nil)).
		Return([]domain.Invoice{
			{InvoiceID: "inv-1", Status: domain.InvoicePaid, Total: 500000},
			{InvoiceID: "inv-2", Status: domain.InvoiceSent, Total: 300000},
			{InvoiceID: "inv-3", Status: domain.InvoiceVoid, Total: 900000},
		}, nil).Once()

	statuses := []domain.ApprovalStatus{domain.ApprovalApproved, domain.ApprovalLocked}
	suite.mockTimeEntryRepo.On("ListTimeEntriesByProject", ctx, "proj-1", statuses).
		Return([]domain.TimeEntry{{TimeEntryID: "te-1", UserID: "user-a", Hours: 10}}, nil).Once()
	suite.mockUserRepo.On("FindUsersByIDs", ctx, []string{"user-a"}).
		Return(map[string]domain.User{"user-a": {UserID: "user-a", CostRate: 10000}}, nil).Once()
	suite.mockExpenseRepo.On("ListExpensesByProject", ctx, "proj-1", statuses).
		Return([]domain.Expense{{ExpenseID: "exp-1", Amount: 100000}}, nil).Once()

	asOf := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	metrics, err := suite.service.ComputeProjectMetrics(ctx, suite.orgID, "proj-1", asOf, suite.managerID)

	suite.Require().NoError(err)
	suite.Equal(int64(500000), metrics.Revenue)
	suite.Equal(int64(200000), metrics.Cost)
	suite.Equal(int64(300000), metrics.Profit)
	suite.Equal(int64(60), metrics.MarginPercentage)
	suite.Equal(31, metrics.DurationDays)
}

func (suite *ProjectServiceTestSuite) TestComputeProjectMetrics_DurationRoundsHalfDays() {
	ctx := context.Background()
	suite.authorize(domain.RoleReadOnly)
	suite.expectFindProject()

	suite.mockInvoiceRepo.On("ListInvoicesByProject", ctx, "proj-1", []domain.InvoiceStatus(nil)).
		Return([]domain.Invoice{}, nil).Once()

	statuses := []domain.ApprovalStatus{domain.ApprovalApproved, domain.ApprovalLocked}
	suite.mockTimeEntryRepo.On("ListTimeEntriesByProject", ctx, "proj-1", statuses).
		Return([]domain.TimeEntry{}, nil).Once()
	suite.mockExpenseRepo.On("ListExpensesByProject", ctx, "proj-1", statuses).
		Return([]domain.Expense{}, nil).Once()

	// 10 days and 14 hours after the start date rounds to 11 days, not 10.
	asOf := time.Date(2025, 1, 11, 14, 0, 0, 0, time.UTC)
	metrics, err := suite.service.ComputeProjectMetrics(ctx, suite.orgID, "proj-1", asOf, suite.managerID)

	suite.Require().NoError(err)
	suite.Equal(11, metrics.DurationDays)
}

func (suite *ProjectServiceTestSuite) TestComputeProjectMetrics_ZeroRevenueReportsZeroMargin() {
	ctx := context.Background()
	suite.authorize(domain.RoleReadOnly)
	suite.expectFindProject()

	suite.mockInvoiceRepo.On("ListInvoicesByProject", ctx, "proj-1", []domain.InvoiceStatus(nil)).
		Return([]domain.Invoice{}, nil).Once()

	statuses := []domain.ApprovalStatus{domain.ApprovalApproved, domain.ApprovalLocked}
	suite.mockTimeEntryRepo.On("ListTimeEntriesByProject", ctx, "proj-1", statuses).
		Return([]domain.TimeEntry{{TimeEntryID: "te-1", UserID: "user-a", Hours: 8}}, nil).Once()
	suite.mockUserRepo.On("FindUsersByIDs", ctx, []string{"user-a"}).
		Return(map[string]domain.User{"user-a": {UserID: "user-a", CostRate: 5000}}, nil).Once()
	suite.mockExpenseRepo.On("ListExpensesByProject", ctx, "proj-1", statuses).
		Return([]domain.Expense{}, nil).Once()

	metrics, err := suite.service.ComputeProjectMetrics(ctx, suite.orgID, "proj-1", time.Now().UTC(), suite.managerID)

	suite.Require().NoError(err)
	suite.Equal(int64(0), metrics.Revenue)
	suite.Equal(int64(-40000), metrics.Profit)
	suite.Equal(int64(0), metrics.MarginPercentage)
}

// --- Closure checklist ---

func (suite *ProjectServiceTestSuite) expectChecklistQueries(entries []domain.TimeEntry, expenses []domain.Expense, unpaidInvoices []domain.Invoice, milestones []domain.Milestone, tasks []domain.Task, bookings []domain.Booking) {
	timeStatuses := []domain.ApprovalStatus{domain.ApprovalDraft, domain.ApprovalSubmitted, domain.ApprovalApproved}
	expenseStatuses := []domain.ApprovalStatus{domain.ApprovalDraft, domain.ApprovalSubmitted, domain.ApprovalRejected, domain.ApprovalApproved}
	unpaidStatuses := []domain.InvoiceStatus{domain.InvoiceDraft, domain.InvoiceFinalized, domain.InvoiceSent, domain.InvoiceViewed}
	suite.mockTimeEntryRepo.On("ListTimeEntriesByProject", mock.Anything, "proj-1", timeStatuses).Return(entries, nil).Once()
	suite.mockExpenseRepo.On("ListExpensesByProject", mock.Anything, "proj-1", expenseStatuses).Return(expenses, nil).Once()
	suite.mockInvoiceRepo.On("ListInvoicesByProject", mock.Anything, "proj-1", unpaidStatuses).Return(unpaidInvoices, nil).Once()
	suite.mockMilestoneRepo.On("ListMilestonesByProject", mock.Anything, "proj-1").Return(milestones, nil).Once()
	suite.mockProjectRepo.On("ListTasksByProject", mock.Anything, "proj-1").Return(tasks, nil).Once()
	suite.mockProjectRepo.On("ListBookingsByProject", mock.Anything, "proj-1").Return(bookings, nil).Once()
}

func (suite *ProjectServiceTestSuite) TestClosureChecklist_HardGatesBlock() {
	ctx := context.Background()
	suite.authorize(domain.RoleReadOnly)
	suite.expectFindProject()
	suite.expectChecklistQueries(
		[]domain.TimeEntry{{TimeEntryID: "te-1", Status: domain.ApprovalSubmitted}},
		[]domain.Expense{{ExpenseID: "exp-1", Status: domain.ApprovalRejected}},
		[]domain.Invoice{},
		[]domain.Milestone{},
		[]domain.Task{{TaskID: "task-1", Status: domain.TaskInProgress}},
		[]domain.Booking{},
	)

	checklist, err := suite.service.ClosureChecklist(ctx, suite.orgID, "proj-1", suite.managerID)

	suite.Require().NoError(err)
	suite.False(checklist.CanClose)
	suite.Equal(1, checklist.UnapprovedTimeCount)
	suite.Equal(1, checklist.UnapprovedExpenses)
	suite.Equal(1, checklist.OpenTasks)
}

func (suite *ProjectServiceTestSuite) TestClosureChecklist_TasksAloneBlock() {
	ctx := context.Background()
	suite.authorize(domain.RoleReadOnly)
	suite.expectFindProject()
	suite.expectChecklistQueries(
		[]domain.TimeEntry{},
		[]domain.Expense{},
		[]domain.Invoice{},
		[]domain.Milestone{},
		[]domain.Task{{TaskID: "task-1", Status: domain.TaskTodo}, {TaskID: "task-2", Status: domain.TaskOnHold}},
		[]domain.Booking{},
	)

	checklist, err := suite.service.ClosureChecklist(ctx, suite.orgID, "proj-1", suite.managerID)

	suite.Require().NoError(err)
	// On-hold tasks are parked deliberately and do not gate closure.
	suite.False(checklist.CanClose)
	suite.Equal(1, checklist.OpenTasks)
	suite.Require().Len(checklist.Warnings, 1)
	suite.Contains(checklist.Warnings[0], "task")
}

func (suite *ProjectServiceTestSuite) TestClosureChecklist_SoftItemsOnlyWarn() {
	ctx := context.Background()
	suite.authorize(domain.RoleReadOnly)
	suite.expectFindProject()
	completedAt := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	future := time.Now().UTC().Add(72 * time.Hour)
	suite.expectChecklistQueries(
		[]domain.TimeEntry{{TimeEntryID: "te-1", Status: domain.ApprovalApproved, Billable: true}},
		[]domain.Expense{},
		[]domain.Invoice{
			{InvoiceID: "inv-1", Status: domain.InvoiceSent, Total: 300000},
			{InvoiceID: "inv-2", Status: domain.InvoiceFinalized, Total: 150000},
		},
		[]domain.Milestone{{MilestoneID: "ms-1", CompletedAt: &completedAt}},
		[]domain.Task{{TaskID: "task-1", Status: domain.TaskDone}},
		[]domain.Booking{{BookingID: "book-1", Status: domain.BookingScheduled, StartDate: future}},
	)

	checklist, err := suite.service.ClosureChecklist(ctx, suite.orgID, "proj-1", suite.managerID)

	suite.Require().NoError(err)
	suite.True(checklist.CanClose)
	suite.Equal(1, checklist.UninvoicedBillables)
	suite.Equal(1, checklist.UninvoicedMilestones)
	suite.Equal(2, checklist.UnpaidInvoices)
	suite.Equal(int64(450000), checklist.UnpaidAmount)
	suite.Equal(1, checklist.FutureBookings)
	suite.Len(checklist.Warnings, 4)
}

func (suite *ProjectServiceTestSuite) TestUpdateProjectStatus_CompletionBlockedByChecklist() {
	ctx := context.Background()
	suite.authorize(domain.RoleManager)
	suite.expectFindProject()
	// The completion path re-runs the checklist, including its own scoped find.
	suite.mockOrgSvc.On("AuthorizeUserAction", mock.Anything, suite.managerID, suite.orgID, domain.RoleReadOnly).Return(nil).Once()
	suite.expectFindProject()
	suite.expectChecklistQueries(
		[]domain.TimeEntry{{TimeEntryID: "te-1", Status: domain.ApprovalDraft}},
		[]domain.Expense{},
		[]domain.Invoice{},
		[]domain.Milestone{},
		[]domain.Task{},
		[]domain.Booking{},
	)

	project, err := suite.service.UpdateProjectStatus(ctx, suite.orgID, "proj-1", domain.ProjectCompleted, suite.managerID)

	suite.Require().Error(err)
	suite.Nil(project)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockProjectRepo.AssertNotCalled(suite.T(), "UpdateProject", mock.Anything, mock.Anything)
}

// --- Bookings ---

func (suite *ProjectServiceTestSuite) TestCancelFutureBookings_SkipsPastAndCancelled() {
	ctx := context.Background()
	suite.authorize(domain.RoleManager)
	suite.expectFindProject()

	now := time.Now().UTC()
	suite.mockProjectRepo.On("ListBookingsByProject", ctx, "proj-1").
		Return([]domain.Booking{
			{BookingID: "book-future", Status: domain.BookingScheduled, StartDate: now.Add(48 * time.Hour)},
			{BookingID: "book-past", Status: domain.BookingScheduled, StartDate: now.Add(-48 * time.Hour)},
			{BookingID: "book-cancelled", Status: domain.BookingCancelled, StartDate: now.Add(48 * time.Hour)},
		}, nil).Once()
	suite.mockProjectRepo.On("CancelBookings", ctx, []string{"book-future"}, suite.managerID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	count, err := suite.service.CancelFutureBookings(ctx, suite.orgID, "proj-1", suite.managerID)

	suite.Require().NoError(err)
	suite.Equal(1, count)
	suite.mockProjectRepo.AssertExpectations(suite.T())
}

func (suite *ProjectServiceTestSuite) TestCancelFutureBookings_NothingToCancel() {
	ctx := context.Background()
	suite.authorize(domain.RoleManager)
	suite.expectFindProject()
	suite.mockProjectRepo.On("ListBookingsByProject", ctx, "proj-1").Return([]domain.Booking{}, nil).Once()

	count, err := suite.service.CancelFutureBookings(ctx, suite.orgID, "proj-1", suite.managerID)

	suite.Require().NoError(err)
	suite.Equal(0, count)
	suite.mockProjectRepo.AssertNotCalled(suite.T(), "CancelBookings", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- Budgets and milestones ---

func (suite *ProjectServiceTestSuite) TestCreateBudget_ProjectAlreadyBudgeted() {
	ctx := context.Background()
	suite.authorize(domain.RoleManager)
	budgeted := suite.project()
	existing := "bud-0"
	budgeted.BudgetID = &existing
	suite.mockProjectRepo.On("FindProjectByID", ctx, "proj-1").Return(budgeted, nil).Once()

	req := dto.CreateBudgetRequest{ProjectID: "proj-1", Type: domain.BudgetFixedFee, TotalAmount: 500000}
	budget, err := suite.service.CreateBudget(ctx, suite.orgID, req, suite.managerID)

	suite.Require().Error(err)
	suite.Nil(budget)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *ProjectServiceTestSuite) TestCreateBudget_LinksBudgetToProject() {
	ctx := context.Background()
	suite.authorize(domain.RoleManager)
	suite.expectFindProject()
	suite.mockBudgetRepo.On("SaveBudget", ctx, mock.AnythingOfType("domain.Budget")).Return(nil).Once()
	suite.mockProjectRepo.On("UpdateProject", ctx, mock.MatchedBy(func(p domain.Project) bool {
		return p.BudgetID != nil
	})).Return(nil).Once()

	req := dto.CreateBudgetRequest{ProjectID: "proj-1", Type: domain.BudgetRetainer, RetainerAmount: 1225000, IncludedHours: 40, OverageRate: 17500}
	budget, err := suite.service.CreateBudget(ctx, suite.orgID, req, suite.managerID)

	suite.Require().NoError(err)
	suite.Equal(domain.BudgetRetainer, budget.Type)
	suite.mockProjectRepo.AssertExpectations(suite.T())
}

func (suite *ProjectServiceTestSuite) TestCompleteMilestone_AlreadyCompleted() {
	ctx := context.Background()
	suite.authorize(domain.RoleManager)
	completedAt := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	suite.mockMilestoneRepo.On("FindMilestoneByID", ctx, "ms-1").
		Return(&domain.Milestone{MilestoneID: "ms-1", OrganizationID: suite.orgID, CompletedAt: &completedAt}, nil).Once()

	milestone, err := suite.service.CompleteMilestone(ctx, suite.orgID, "ms-1", time.Now().UTC(), suite.managerID)

	suite.Require().Error(err)
	suite.Nil(milestone)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockMilestoneRepo.AssertNotCalled(suite.T(), "UpdateMilestone", mock.Anything, mock.Anything)
}

func TestProjectServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectServiceTestSuite))
}
