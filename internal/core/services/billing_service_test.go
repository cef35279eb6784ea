package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/tallyops/psa_backend/internal/apperrors"
	"github.com/tallyops/psa_backend/internal/core/domain"
	portssvc "github.com/tallyops/psa_backend/internal/core/ports/services"
	"github.com/tallyops/psa_backend/internal/core/services"
	"github.com/tallyops/psa_backend/internal/dto"
)

// --- Mock repositories shared across the service tests in this package ---

// MockTimeEntryRepository is a mock type for the TimeEntryRepositoryFacade interface
type MockTimeEntryRepository struct {
	mock.Mock
}

func (m *MockTimeEntryRepository) FindTimeEntryByID(ctx context.Context, timeEntryID string) (*domain.TimeEntry, error) {
	args := m.Called(ctx, timeEntryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TimeEntry), args.Error(1)
}

func (m *MockTimeEntryRepository) ListTimeEntriesByProject(ctx context.Context, projectID string, statuses []domain.ApprovalStatus) ([]domain.TimeEntry, error) {
	args := m.Called(ctx, projectID, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TimeEntry), args.Error(1)
}

func (m *MockTimeEntryRepository) ListApprovedTimeEntriesInPeriod(ctx context.Context, projectID string, from, to time.Time, billableOnly bool) ([]domain.TimeEntry, error) {
	args := m.Called(ctx, projectID, from, to, billableOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TimeEntry), args.Error(1)
}

func (m *MockTimeEntryRepository) SaveTimeEntry(ctx context.Context, entry domain.TimeEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockTimeEntryRepository) UpdateTimeEntry(ctx context.Context, entry domain.TimeEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockTimeEntryRepository) DeleteTimeEntry(ctx context.Context, timeEntryID string) error {
	args := m.Called(ctx, timeEntryID)
	return args.Error(0)
}

func (m *MockTimeEntryRepository) LockTimeEntriesInTx(ctx context.Context, tx pgx.Tx, timeEntryIDs []string, invoiceID string, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, tx, timeEntryIDs, invoiceID, updatedBy, updatedAt)
	return args.Error(0)
}

// MockExpenseRepository is a mock type for the ExpenseRepositoryFacade interface
type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	args := m.Called(ctx, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) ListExpensesByProject(ctx context.Context, projectID string, statuses []domain.ApprovalStatus) ([]domain.Expense, error) {
	args := m.Called(ctx, projectID, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) ListApprovedExpensesInPeriod(ctx context.Context, projectID string, from, to time.Time, billableOnly bool) ([]domain.Expense, error) {
	args := m.Called(ctx, projectID, from, to, billableOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) UpdateExpense(ctx context.Context, expense domain.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) DeleteExpense(ctx context.Context, expenseID string) error {
	args := m.Called(ctx, expenseID)
	return args.Error(0)
}

func (m *MockExpenseRepository) LockExpensesInTx(ctx context.Context, tx pgx.Tx, expenseIDs []string, invoiceID string, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, tx, expenseIDs, invoiceID, updatedBy, updatedAt)
	return args.Error(0)
}

// MockMilestoneRepository is a mock type for the MilestoneRepositoryFacade interface
type MockMilestoneRepository struct {
	mock.Mock
}

func (m *MockMilestoneRepository) FindMilestoneByID(ctx context.Context, milestoneID string) (*domain.Milestone, error) {
	args := m.Called(ctx, milestoneID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Milestone), args.Error(1)
}

func (m *MockMilestoneRepository) ListMilestonesByProject(ctx context.Context, projectID string) ([]domain.Milestone, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Milestone), args.Error(1)
}

func (m *MockMilestoneRepository) SaveMilestone(ctx context.Context, milestone domain.Milestone) error {
	args := m.Called(ctx, milestone)
	return args.Error(0)
}

func (m *MockMilestoneRepository) UpdateMilestone(ctx context.Context, milestone domain.Milestone) error {
	args := m.Called(ctx, milestone)
	return args.Error(0)
}

func (m *MockMilestoneRepository) LinkMilestonesToInvoiceInTx(ctx context.Context, tx pgx.Tx, milestoneIDs []string, invoiceID string, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, tx, milestoneIDs, invoiceID, updatedBy, updatedAt)
	return args.Error(0)
}

// MockBudgetRepository is a mock type for the BudgetRepository interface
type MockBudgetRepository struct {
	mock.Mock
}

func (m *MockBudgetRepository) FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	args := m.Called(ctx, budgetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) FindBudgetByProject(ctx context.Context, projectID string) (*domain.Budget, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) SaveBudget(ctx context.Context, budget domain.Budget) error {
	args := m.Called(ctx, budget)
	return args.Error(0)
}

func (m *MockBudgetRepository) UpdateBudget(ctx context.Context, budget domain.Budget) error {
	args := m.Called(ctx, budget)
	return args.Error(0)
}

// MockUserRepository is a mock type for the UserRepositoryFacade interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUsersByIDs(ctx context.Context, userIDs []string) (map[string]domain.User, error) {
	args := m.Called(ctx, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRefreshTokenHash(ctx context.Context, userID string, tokenHash string, expiryTime *time.Time) error {
	args := m.Called(ctx, userID, tokenHash, expiryTime)
	return args.Error(0)
}

func (m *MockUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error {
	args := m.Called(ctx, userID, deletedAt, deletedBy)
	return args.Error(0)
}

// --- Test Suite Setup ---

type BillingServiceTestSuite struct {
	suite.Suite
	mockTimeEntryRepo *MockTimeEntryRepository
	mockExpenseRepo   *MockExpenseRepository
	mockMilestoneRepo *MockMilestoneRepository
	mockBudgetRepo    *MockBudgetRepository
	mockUserRepo      *MockUserRepository
	service           portssvc.BillingCalculatorSvc
	projectID         string
	period            dto.BillingPeriod
}

func (suite *BillingServiceTestSuite) SetupTest() {
	suite.mockTimeEntryRepo = new(MockTimeEntryRepository)
	suite.mockExpenseRepo = new(MockExpenseRepository)
	suite.mockMilestoneRepo = new(MockMilestoneRepository)
	suite.mockBudgetRepo = new(MockBudgetRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewBillingService(
		suite.mockTimeEntryRepo,
		suite.mockExpenseRepo,
		suite.mockMilestoneRepo,
		suite.mockBudgetRepo,
		suite.mockUserRepo,
	)
	suite.projectID = "proj-1"
	suite.period = dto.BillingPeriod{
		From: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
	}
}

// --- ComputeTimeAndMaterials ---

func (suite *BillingServiceTestSuite) TestComputeTimeAndMaterials_GroupsByBillRate() {
	ctx := context.Background()

	entries := []domain.TimeEntry{
		{TimeEntryID: "te-1", UserID: "user-a", Hours: 8, Billable: true, Status: domain.ApprovalApproved},
		{TimeEntryID: "te-2", UserID: "user-a", Hours: 6, Billable: true, Status: domain.ApprovalApproved},
	}
	suite.mockTimeEntryRepo.On("ListApprovedTimeEntriesInPeriod", ctx, suite.projectID, suite.period.From, suite.period.To, true).
		Return(entries, nil).Once()
	suite.mockUserRepo.On("FindUsersByIDs", ctx, []string{"user-a"}).
		Return(map[string]domain.User{"user-a": {UserID: "user-a", BillRate: 15000}}, nil).Once()
	suite.mockExpenseRepo.On("ListApprovedExpensesInPeriod", ctx, suite.projectID, suite.period.From, suite.period.To, true).
		Return([]domain.Expense{
			{ExpenseID: "exp-1", Amount: 5000, MarkupRate: 0.10, Type: domain.ExpenseTravel, Description: "Client site travel"},
		}, nil).Once()

	result, err := suite.service.ComputeTimeAndMaterials(ctx, suite.projectID, suite.period)

	suite.Require().NoError(err)
	suite.Require().Len(result.LineItems, 2)

	timeLine := result.LineItems[0]
	suite.Equal("Professional services: 14.00 hours", timeLine.Description)
	suite.Equal(14.0, timeLine.Quantity)
	suite.Equal(int64(15000), timeLine.Rate)
	suite.Equal(int64(210000), timeLine.Amount)
	suite.ElementsMatch([]string{"te-1", "te-2"}, timeLine.TimeEntryIDs)

	expenseLine := result.LineItems[1]
	suite.Equal("Client site travel", expenseLine.Description)
	suite.Equal(int64(5500), expenseLine.Amount)
	suite.Equal([]string{"exp-1"}, expenseLine.ExpenseIDs)

	suite.Equal(int64(215500), result.Subtotal)
	suite.mockTimeEntryRepo.AssertExpectations(suite.T())
	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

func (suite *BillingServiceTestSuite) TestComputeTimeAndMaterials_RatesSortedAscending() {
	ctx := context.Background()

	entries := []domain.TimeEntry{
		{TimeEntryID: "te-1", UserID: "senior", Hours: 4, Billable: true, Status: domain.ApprovalApproved},
		{TimeEntryID: "te-2", UserID: "junior", Hours: 10, Billable: true, Status: domain.ApprovalApproved},
	}
	suite.mockTimeEntryRepo.On("ListApprovedTimeEntriesInPeriod", ctx, suite.projectID, suite.period.From, suite.period.To, true).
		Return(entries, nil).Once()
	suite.mockUserRepo.On("FindUsersByIDs", ctx, mock.AnythingOfType("[]string")).
		Return(map[string]domain.User{
			"senior": {UserID: "senior", BillRate: 25000},
			"junior": {UserID: "junior", BillRate: 9000},
		}, nil).Once()
	suite.mockExpenseRepo.On("ListApprovedExpensesInPeriod", ctx, suite.projectID, suite.period.From, suite.period.To, true).
		Return([]domain.Expense{}, nil).Once()

	result, err := suite.service.ComputeTimeAndMaterials(ctx, suite.projectID, suite.period)

	suite.Require().NoError(err)
	suite.Require().Len(result.LineItems, 2)
	suite.Equal(int64(9000), result.LineItems[0].Rate)
	suite.Equal(int64(25000), result.LineItems[1].Rate)
	suite.Equal(int64(90000), result.LineItems[0].Amount)
	suite.Equal(int64(100000), result.LineItems[1].Amount)
	suite.Equal(int64(190000), result.Subtotal)
}

func (suite *BillingServiceTestSuite) TestComputeTimeAndMaterials_NoActivityYieldsEmptyComputation() {
	ctx := context.Background()

	suite.mockTimeEntryRepo.On("ListApprovedTimeEntriesInPeriod", ctx, suite.projectID, suite.period.From, suite.period.To, true).
		Return([]domain.TimeEntry{}, nil).Once()
	suite.mockExpenseRepo.On("ListApprovedExpensesInPeriod", ctx, suite.projectID, suite.period.From, suite.period.To, true).
		Return([]domain.Expense{}, nil).Once()

	result, err := suite.service.ComputeTimeAndMaterials(ctx, suite.projectID, suite.period)

	suite.Require().NoError(err)
	suite.Empty(result.LineItems)
	suite.Equal(int64(0), result.Subtotal)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "FindUsersByIDs", mock.Anything, mock.Anything)
}

func (suite *BillingServiceTestSuite) TestComputeTimeAndMaterials_ExpenseDescriptionFallsBackToType() {
	ctx := context.Background()

	suite.mockTimeEntryRepo.On("ListApprovedTimeEntriesInPeriod", ctx, suite.projectID, suite.period.From, suite.period.To, true).
		Return([]domain.TimeEntry{}, nil).Once()
	suite.mockExpenseRepo.On("ListApprovedExpensesInPeriod", ctx, suite.projectID, suite.period.From, suite.period.To, true).
		Return([]domain.Expense{
			{ExpenseID: "exp-1", Amount: 12000, MarkupRate: 0, Type: domain.ExpenseSoftware},
		}, nil).Once()

	result, err := suite.service.ComputeTimeAndMaterials(ctx, suite.projectID, suite.period)

	suite.Require().NoError(err)
	suite.Require().Len(result.LineItems, 1)
	suite.Equal("Expense: SOFTWARE", result.LineItems[0].Description)
	suite.Equal(int64(12000), result.LineItems[0].Amount)
}

func (suite *BillingServiceTestSuite) TestComputeTimeAndMaterials_MissingUserFails() {
	ctx := context.Background()

	entries := []domain.TimeEntry{
		{TimeEntryID: "te-1", UserID: "ghost", Hours: 2, Billable: true, Status: domain.ApprovalApproved},
	}
	suite.mockTimeEntryRepo.On("ListApprovedTimeEntriesInPeriod", ctx, suite.projectID, suite.period.From, suite.period.To, true).
		Return(entries, nil).Once()
	suite.mockUserRepo.On("FindUsersByIDs", ctx, []string{"ghost"}).
		Return(map[string]domain.User{}, nil).Once()

	result, err := suite.service.ComputeTimeAndMaterials(ctx, suite.projectID, suite.period)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- ComputeFixedFee ---

func (suite *BillingServiceTestSuite) TestComputeFixedFee_FullAmount() {
	ctx := context.Background()

	suite.mockBudgetRepo.On("FindBudgetByProject", ctx, suite.projectID).
		Return(&domain.Budget{BudgetID: "bud-1", ProjectID: suite.projectID, Type: domain.BudgetFixedFee, TotalAmount: 2500000}, nil).Once()

	result, err := suite.service.ComputeFixedFee(ctx, suite.projectID, nil)

	suite.Require().NoError(err)
	suite.Require().Len(result.LineItems, 1)
	suite.Equal("Fixed fee", result.LineItems[0].Description)
	suite.Equal(int64(2500000), result.LineItems[0].Amount)
	suite.Equal(int64(2500000), result.Subtotal)
}

func (suite *BillingServiceTestSuite) TestComputeFixedFee_Percentage() {
	ctx := context.Background()

	suite.mockBudgetRepo.On("FindBudgetByProject", ctx, suite.projectID).
		Return(&domain.Budget{BudgetID: "bud-1", ProjectID: suite.projectID, Type: domain.BudgetFixedFee, TotalAmount: 2500000}, nil).Once()

	pct := 40.0
	result, err := suite.service.ComputeFixedFee(ctx, suite.projectID, &pct)

	suite.Require().NoError(err)
	suite.Require().Len(result.LineItems, 1)
	suite.Equal("Fixed fee (40% of total)", result.LineItems[0].Description)
	suite.Equal(int64(1000000), result.Subtotal)
}

func (suite *BillingServiceTestSuite) TestComputeFixedFee_PercentageOutOfRange() {
	ctx := context.Background()

	suite.mockBudgetRepo.On("FindBudgetByProject", ctx, suite.projectID).
		Return(&domain.Budget{BudgetID: "bud-1", ProjectID: suite.projectID, Type: domain.BudgetFixedFee, TotalAmount: 2500000}, nil).Twice()

	for _, pct := range []float64{0, 150} {
		p := pct
		result, err := suite.service.ComputeFixedFee(ctx, suite.projectID, &p)
		suite.Require().Error(err)
		suite.Nil(result)
		suite.ErrorIs(err, apperrors.ErrValidation)
	}
}

func (suite *BillingServiceTestSuite) TestComputeFixedFee_WrongBudgetType() {
	ctx := context.Background()

	suite.mockBudgetRepo.On("FindBudgetByProject", ctx, suite.projectID).
		Return(&domain.Budget{BudgetID: "bud-1", ProjectID: suite.projectID, Type: domain.BudgetTimeAndMaterials, TotalAmount: 2500000}, nil).Once()

	result, err := suite.service.ComputeFixedFee(ctx, suite.projectID, nil)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- ComputeMilestone ---

func (suite *BillingServiceTestSuite) TestComputeMilestone_Success() {
	ctx := context.Background()
	completedAt := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	suite.mockMilestoneRepo.On("FindMilestoneByID", ctx, "ms-1").
		Return(&domain.Milestone{
			MilestoneID: "ms-1",
			ProjectID:   suite.projectID,
			Name:        "Design sign-off",
			Amount:      750000,
			CompletedAt: &completedAt,
		}, nil).Once()

	result, err := suite.service.ComputeMilestone(ctx, "ms-1")

	suite.Require().NoError(err)
	suite.Require().Len(result.LineItems, 1)
	suite.Equal("Milestone: Design sign-off", result.LineItems[0].Description)
	suite.Equal(int64(750000), result.Subtotal)
	suite.Require().NotNil(result.LineItems[0].MilestoneID)
	suite.Equal("ms-1", *result.LineItems[0].MilestoneID)
}

func (suite *BillingServiceTestSuite) TestComputeMilestone_AlreadyInvoiced() {
	ctx := context.Background()
	completedAt := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	invoiceID := "inv-9"

	suite.mockMilestoneRepo.On("FindMilestoneByID", ctx, "ms-1").
		Return(&domain.Milestone{
			MilestoneID: "ms-1",
			Amount:      750000,
			CompletedAt: &completedAt,
			InvoiceID:   &invoiceID,
		}, nil).Once()

	result, err := suite.service.ComputeMilestone(ctx, "ms-1")

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrAlreadyInvoiced)
}

func (suite *BillingServiceTestSuite) TestComputeMilestone_NotCompleted() {
	ctx := context.Background()

	suite.mockMilestoneRepo.On("FindMilestoneByID", ctx, "ms-1").
		Return(&domain.Milestone{MilestoneID: "ms-1", Amount: 750000}, nil).Once()

	result, err := suite.service.ComputeMilestone(ctx, "ms-1")

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
}

// --- ComputeRecurring ---

func (suite *BillingServiceTestSuite) retainerBudget() *domain.Budget {
	return &domain.Budget{
		BudgetID:       "bud-1",
		ProjectID:      suite.projectID,
		Type:           domain.BudgetRetainer,
		RetainerAmount: 1225000,
		IncludedHours:  40,
		OverageRate:    17500,
	}
}

func (suite *BillingServiceTestSuite) TestComputeRecurring_UnderAllowance() {
	ctx := context.Background()

	suite.mockBudgetRepo.On("FindBudgetByProject", ctx, suite.projectID).
		Return(suite.retainerBudget(), nil).Once()
	// Retainer usage counts all approved hours, billable or not.
	suite.mockTimeEntryRepo.On("ListApprovedTimeEntriesInPeriod", ctx, suite.projectID, suite.period.From, suite.period.To, false).
		Return([]domain.TimeEntry{
			{TimeEntryID: "te-1", Hours: 20, Status: domain.ApprovalApproved},
			{TimeEntryID: "te-2", Hours: 16, Billable: true, Status: domain.ApprovalApproved},
		}, nil).Once()

	result, err := suite.service.ComputeRecurring(ctx, suite.projectID, suite.period)

	suite.Require().NoError(err)
	suite.Require().Len(result.LineItems, 1)
	suite.Equal("Retainer (40 hours included)", result.LineItems[0].Description)
	suite.Equal(int64(1225000), result.Subtotal)
}

func (suite *BillingServiceTestSuite) TestComputeRecurring_Overage() {
	ctx := context.Background()

	suite.mockBudgetRepo.On("FindBudgetByProject", ctx, suite.projectID).
		Return(suite.retainerBudget(), nil).Once()
	suite.mockTimeEntryRepo.On("ListApprovedTimeEntriesInPeriod", ctx, suite.projectID, suite.period.From, suite.period.To, false).
		Return([]domain.TimeEntry{
			{TimeEntryID: "te-1", Hours: 30, Status: domain.ApprovalApproved},
			{TimeEntryID: "te-2", Hours: 16, Status: domain.ApprovalApproved},
		}, nil).Once()

	result, err := suite.service.ComputeRecurring(ctx, suite.projectID, suite.period)

	suite.Require().NoError(err)
	suite.Require().Len(result.LineItems, 2)

	overageLine := result.LineItems[1]
	suite.Equal("Overage: 6.00 hours beyond retainer", overageLine.Description)
	suite.Equal(6.0, overageLine.Quantity)
	suite.Equal(int64(17500), overageLine.Rate)
	suite.Equal(int64(105000), overageLine.Amount)
	suite.ElementsMatch([]string{"te-1", "te-2"}, overageLine.TimeEntryIDs)
	suite.Equal(int64(1330000), result.Subtotal)
}

func (suite *BillingServiceTestSuite) TestComputeRecurring_ExactAllowanceHasNoOverageLine() {
	ctx := context.Background()

	suite.mockBudgetRepo.On("FindBudgetByProject", ctx, suite.projectID).
		Return(suite.retainerBudget(), nil).Once()
	suite.mockTimeEntryRepo.On("ListApprovedTimeEntriesInPeriod", ctx, suite.projectID, suite.period.From, suite.period.To, false).
		Return([]domain.TimeEntry{
			{TimeEntryID: "te-1", Hours: 40, Status: domain.ApprovalApproved},
		}, nil).Once()

	result, err := suite.service.ComputeRecurring(ctx, suite.projectID, suite.period)

	suite.Require().NoError(err)
	suite.Len(result.LineItems, 1)
	suite.Equal(int64(1225000), result.Subtotal)
}

func (suite *BillingServiceTestSuite) TestComputeRecurring_WrongBudgetType() {
	ctx := context.Background()

	suite.mockBudgetRepo.On("FindBudgetByProject", ctx, suite.projectID).
		Return(&domain.Budget{BudgetID: "bud-1", Type: domain.BudgetFixedFee}, nil).Once()

	result, err := suite.service.ComputeRecurring(ctx, suite.projectID, suite.period)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTimeEntryRepo.AssertNotCalled(suite.T(), "ListApprovedTimeEntriesInPeriod", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBillingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BillingServiceTestSuite))
}
