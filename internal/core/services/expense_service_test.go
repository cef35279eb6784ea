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

type ExpenseServiceTestSuite struct {
	suite.Suite
	mockRepo        *MockExpenseRepository
	mockProjectRepo *MockProjectRepository
	mockOrgSvc      *MockOrganizationService
	service         portssvc.ExpenseSvcFacade
	orgID           string
	ownerID         string
	reviewerID      string
}

func (suite *ExpenseServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockExpenseRepository)
	suite.mockProjectRepo = new(MockProjectRepository)
	suite.mockOrgSvc = new(MockOrganizationService)
	suite.service = services.NewExpenseService(suite.mockRepo, suite.mockProjectRepo, suite.mockOrgSvc)
	suite.orgID = "org-1"
	suite.ownerID = "user-owner"
	suite.reviewerID = "user-reviewer"
}

func (suite *ExpenseServiceTestSuite) expense(status domain.ApprovalStatus) *domain.Expense {
	return &domain.Expense{
		ExpenseID:      "exp-1",
		OrganizationID: suite.orgID,
		ProjectID:      "proj-1",
		UserID:         suite.ownerID,
		Date:           time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
		Amount:         42000,
		Type:           domain.ExpenseTravel,
		Billable:       true,
		MarkupRate:     0.15,
		Status:         status,
	}
}

func (suite *ExpenseServiceTestSuite) authorize(userID string, role domain.OrganizationRole) {
	suite.mockOrgSvc.On("AuthorizeUserAction", mock.Anything, userID, suite.orgID, role).Return(nil).Once()
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_Success() {
	ctx := context.Background()
	suite.authorize(suite.ownerID, domain.RoleMember)
	suite.mockProjectRepo.On("FindProjectByID", ctx, "proj-1").
		Return(&domain.Project{ProjectID: "proj-1", OrganizationID: suite.orgID}, nil).Once()
	suite.mockRepo.On("SaveExpense", ctx, mock.MatchedBy(func(e domain.Expense) bool {
		return e.Status == domain.ApprovalDraft && e.Amount == 42000 && e.MarkupRate == 0.15
	})).Return(nil).Once()

	req := dto.CreateExpenseRequest{
		ProjectID:  "proj-1",
		Date:       time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
		Amount:     42000,
		Type:       domain.ExpenseTravel,
		Billable:   true,
		MarkupRate: 0.15,
	}
	expense, err := suite.service.CreateExpense(ctx, suite.orgID, req, suite.ownerID)

	suite.Require().NoError(err)
	suite.NotEmpty(expense.ExpenseID)
	suite.Equal(suite.ownerID, expense.UserID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_NegativeMarkupRejected() {
	ctx := context.Background()
	suite.authorize(suite.ownerID, domain.RoleMember)
	suite.mockProjectRepo.On("FindProjectByID", ctx, "proj-1").
		Return(&domain.Project{ProjectID: "proj-1", OrganizationID: suite.orgID}, nil).Once()

	req := dto.CreateExpenseRequest{ProjectID: "proj-1", Date: time.Now(), Amount: 1000, Type: domain.ExpenseOther, MarkupRate: -0.1}
	expense, err := suite.service.CreateExpense(ctx, suite.orgID, req, suite.ownerID)

	suite.Require().Error(err)
	suite.Nil(expense)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveExpense", mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_NonPositiveAmountRejected() {
	ctx := context.Background()
	suite.authorize(suite.ownerID, domain.RoleMember)
	suite.mockProjectRepo.On("FindProjectByID", ctx, "proj-1").
		Return(&domain.Project{ProjectID: "proj-1", OrganizationID: suite.orgID}, nil).Once()

	req := dto.CreateExpenseRequest{ProjectID: "proj-1", Date: time.Now(), Amount: 0, Type: domain.ExpenseOther}
	expense, err := suite.service.CreateExpense(ctx, suite.orgID, req, suite.ownerID)

	suite.Require().Error(err)
	suite.Nil(expense)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ExpenseServiceTestSuite) TestApproveExpense_SelfApprovalForbidden() {
	ctx := context.Background()
	suite.authorize(suite.ownerID, domain.RoleManager)
	suite.mockRepo.On("FindExpenseByID", ctx, "exp-1").Return(suite.expense(domain.ApprovalSubmitted), nil).Once()

	expense, err := suite.service.ApproveExpense(ctx, suite.orgID, "exp-1", suite.ownerID)

	suite.Require().Error(err)
	suite.Nil(expense)
	suite.ErrorIs(err, apperrors.ErrSelfApproval)
}

func (suite *ExpenseServiceTestSuite) TestApproveExpense_Success() {
	ctx := context.Background()
	suite.authorize(suite.reviewerID, domain.RoleManager)
	suite.mockRepo.On("FindExpenseByID", ctx, "exp-1").Return(suite.expense(domain.ApprovalSubmitted), nil).Once()
	suite.mockRepo.On("UpdateExpense", ctx, mock.MatchedBy(func(e domain.Expense) bool {
		return e.Status == domain.ApprovalApproved && e.ApprovedBy != nil && *e.ApprovedBy == suite.reviewerID
	})).Return(nil).Once()

	expense, err := suite.service.ApproveExpense(ctx, suite.orgID, "exp-1", suite.reviewerID)

	suite.Require().NoError(err)
	suite.Equal(domain.ApprovalApproved, expense.Status)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestReviseExpense_CorrectsAmount() {
	ctx := context.Background()
	suite.authorize(suite.ownerID, domain.RoleMember)
	suite.mockRepo.On("FindExpenseByID", ctx, "exp-1").Return(suite.expense(domain.ApprovalRejected), nil).Once()
	suite.mockRepo.On("UpdateExpense", ctx, mock.MatchedBy(func(e domain.Expense) bool {
		return e.Status == domain.ApprovalSubmitted && e.Amount == 38000
	})).Return(nil).Once()

	expense, err := suite.service.ReviseExpense(ctx, suite.orgID, "exp-1", dto.ReviseExpenseRequest{Amount: 38000, Resubmit: true}, suite.ownerID)

	suite.Require().NoError(err)
	suite.Equal(int64(38000), expense.Amount)
	suite.Equal(domain.ApprovalSubmitted, expense.Status)
}

func (suite *ExpenseServiceTestSuite) TestApproveExpense_ClearsRejectionComments() {
	ctx := context.Background()
	suite.authorize(suite.reviewerID, domain.RoleManager)
	submitted := suite.expense(domain.ApprovalSubmitted)
	comments := "Receipt amount does not match"
	submitted.RejectionComments = &comments
	suite.mockRepo.On("FindExpenseByID", ctx, "exp-1").Return(submitted, nil).Once()
	suite.mockRepo.On("UpdateExpense", ctx, mock.MatchedBy(func(e domain.Expense) bool {
		return e.Status == domain.ApprovalApproved && e.RejectionComments == nil
	})).Return(nil).Once()

	expense, err := suite.service.ApproveExpense(ctx, suite.orgID, "exp-1", suite.reviewerID)

	suite.Require().NoError(err)
	suite.Nil(expense.RejectionComments)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestReviseExpense_ClearsRejectionComments() {
	ctx := context.Background()
	suite.authorize(suite.ownerID, domain.RoleMember)
	rejected := suite.expense(domain.ApprovalRejected)
	comments := "Receipt amount does not match"
	rejected.RejectionComments = &comments
	suite.mockRepo.On("FindExpenseByID", ctx, "exp-1").Return(rejected, nil).Once()
	suite.mockRepo.On("UpdateExpense", ctx, mock.MatchedBy(func(e domain.Expense) bool {
		return e.RejectionComments == nil
	})).Return(nil).Once()

	expense, err := suite.service.ReviseExpense(ctx, suite.orgID, "exp-1", dto.ReviseExpenseRequest{Amount: 38000, Resubmit: true}, suite.ownerID)

	suite.Require().NoError(err)
	suite.Nil(expense.RejectionComments)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestRejectExpense_MissingReason() {
	ctx := context.Background()
	suite.authorize(suite.reviewerID, domain.RoleManager)
	suite.mockRepo.On("FindExpenseByID", ctx, "exp-1").Return(suite.expense(domain.ApprovalSubmitted), nil).Once()

	expense, err := suite.service.RejectExpense(ctx, suite.orgID, "exp-1", "", suite.reviewerID)

	suite.Require().Error(err)
	suite.Nil(expense)
	suite.ErrorIs(err, apperrors.ErrMissingReason)
}

func (suite *ExpenseServiceTestSuite) TestDeleteExpense_LockedIsImmutable() {
	ctx := context.Background()
	suite.authorize(suite.ownerID, domain.RoleMember)
	suite.mockRepo.On("FindExpenseByID", ctx, "exp-1").Return(suite.expense(domain.ApprovalLocked), nil).Once()

	err := suite.service.DeleteExpense(ctx, suite.orgID, "exp-1", suite.ownerID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotEditable)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeleteExpense", mock.Anything, mock.Anything)
}

func TestExpenseServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExpenseServiceTestSuite))
}
