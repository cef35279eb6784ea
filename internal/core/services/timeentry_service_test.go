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

// MockOrganizationService is a mock type for the OrganizationSvcFacade interface
type MockOrganizationService struct {
	mock.Mock
}

func (m *MockOrganizationService) FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

func (m *MockOrganizationService) ListUserOrganizations(ctx context.Context, userID string) ([]domain.Organization, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Organization), args.Error(1)
}

func (m *MockOrganizationService) CreateOrganization(ctx context.Context, name, description, defaultCurrencyCode, creatorUserID string) (*domain.Organization, error) {
	args := m.Called(ctx, name, description, defaultCurrencyCode, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

func (m *MockOrganizationService) AddUserToOrganization(ctx context.Context, addingUserID, targetUserID, organizationID string, role domain.OrganizationRole) error {
	args := m.Called(ctx, addingUserID, targetUserID, organizationID, role)
	return args.Error(0)
}

func (m *MockOrganizationService) AuthorizeUserAction(ctx context.Context, userID, organizationID string, requiredRole domain.OrganizationRole) error {
	args := m.Called(ctx, userID, organizationID, requiredRole)
	return args.Error(0)
}

func (m *MockOrganizationService) CreateCompany(ctx context.Context, organizationID, name, billingEmail, creatorUserID string) (*domain.Company, error) {
	args := m.Called(ctx, organizationID, name, billingEmail, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *MockOrganizationService) ListCompanies(ctx context.Context, organizationID, requestingUserID string) ([]domain.Company, error) {
	args := m.Called(ctx, organizationID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Company), args.Error(1)
}

// MockProjectRepository is a mock type for the ProjectRepositoryFacade interface
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) ListProjectsByOrganization(ctx context.Context, organizationID string, limit int, nextToken *string) ([]domain.Project, *string, error) {
	args := m.Called(ctx, organizationID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.Project), token, args.Error(2)
}

func (m *MockProjectRepository) SaveProject(ctx context.Context, project domain.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) UpdateProject(ctx context.Context, project domain.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) FindTaskByID(ctx context.Context, taskID string) (*domain.Task, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockProjectRepository) ListTasksByProject(ctx context.Context, projectID string) ([]domain.Task, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Task), args.Error(1)
}

func (m *MockProjectRepository) SaveTask(ctx context.Context, task domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockProjectRepository) UpdateTask(ctx context.Context, task domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockProjectRepository) ListBookingsByProject(ctx context.Context, projectID string) ([]domain.Booking, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockProjectRepository) SaveBooking(ctx context.Context, booking domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockProjectRepository) CancelBookings(ctx context.Context, bookingIDs []string, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, bookingIDs, updatedBy, updatedAt)
	return args.Error(0)
}

// --- Test Suite Setup ---

type TimeEntryServiceTestSuite struct {
	suite.Suite
	mockRepo        *MockTimeEntryRepository
	mockProjectRepo *MockProjectRepository
	mockOrgSvc      *MockOrganizationService
	service         portssvc.TimeEntrySvcFacade
	orgID           string
	ownerID         string
	reviewerID      string
}

func (suite *TimeEntryServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockTimeEntryRepository)
	suite.mockProjectRepo = new(MockProjectRepository)
	suite.mockOrgSvc = new(MockOrganizationService)
	suite.service = services.NewTimeEntryService(suite.mockRepo, suite.mockProjectRepo, suite.mockOrgSvc)
	suite.orgID = "org-1"
	suite.ownerID = "user-owner"
	suite.reviewerID = "user-reviewer"
}

func (suite *TimeEntryServiceTestSuite) entry(status domain.ApprovalStatus) *domain.TimeEntry {
	return &domain.TimeEntry{
		TimeEntryID:    "te-1",
		OrganizationID: suite.orgID,
		ProjectID:      "proj-1",
		UserID:         suite.ownerID,
		Date:           time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Hours:          7.5,
		Billable:       true,
		Description:    "API integration work",
		Status:         status,
	}
}

func (suite *TimeEntryServiceTestSuite) authorize(userID string, role domain.OrganizationRole) {
	suite.mockOrgSvc.On("AuthorizeUserAction", mock.Anything, userID, suite.orgID, role).Return(nil).Once()
}

// --- Create ---

func (suite *TimeEntryServiceTestSuite) TestCreateTimeEntry_Success() {
	ctx := context.Background()
	suite.authorize(suite.ownerID, domain.RoleMember)
	suite.mockProjectRepo.On("FindProjectByID", ctx, "proj-1").
		Return(&domain.Project{ProjectID: "proj-1", OrganizationID: suite.orgID}, nil).Once()
	suite.mockRepo.On("SaveTimeEntry", ctx, mock.AnythingOfType("domain.TimeEntry")).Return(nil).Once()

	req := dto.CreateTimeEntryRequest{
		ProjectID:   "proj-1",
		Date:        time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Hours:       7.5,
		Billable:    true,
		Description: "API integration work",
	}
	entry, err := suite.service.CreateTimeEntry(ctx, suite.orgID, req, suite.ownerID)

	suite.Require().NoError(err)
	suite.NotEmpty(entry.TimeEntryID)
	suite.Equal(domain.ApprovalDraft, entry.Status)
	suite.Equal(suite.ownerID, entry.UserID)
	suite.Equal(suite.ownerID, entry.CreatedBy)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *TimeEntryServiceTestSuite) TestCreateTimeEntry_HoursOutOfRange() {
	ctx := context.Background()

	for _, hours := range []float64{0, -1, 25} {
		suite.authorize(suite.ownerID, domain.RoleMember)
		suite.mockProjectRepo.On("FindProjectByID", ctx, "proj-1").
			Return(&domain.Project{ProjectID: "proj-1", OrganizationID: suite.orgID}, nil).Once()

		req := dto.CreateTimeEntryRequest{ProjectID: "proj-1", Date: time.Now(), Hours: hours}
		entry, err := suite.service.CreateTimeEntry(ctx, suite.orgID, req, suite.ownerID)

		suite.Require().Error(err)
		suite.Nil(entry)
		suite.ErrorIs(err, apperrors.ErrValidation)
	}
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveTimeEntry", mock.Anything, mock.Anything)
}

func (suite *TimeEntryServiceTestSuite) TestCreateTimeEntry_ProjectOutsideOrganization() {
	ctx := context.Background()
	suite.authorize(suite.ownerID, domain.RoleMember)
	suite.mockProjectRepo.On("FindProjectByID", ctx, "proj-1").
		Return(&domain.Project{ProjectID: "proj-1", OrganizationID: "other-org"}, nil).Once()

	req := dto.CreateTimeEntryRequest{ProjectID: "proj-1", Date: time.Now(), Hours: 4}
	entry, err := suite.service.CreateTimeEntry(ctx, suite.orgID, req, suite.ownerID)

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- Submit ---

func (suite *TimeEntryServiceTestSuite) TestSubmitTimeEntry_FromDraft() {
	ctx := context.Background()
	suite.authorize(suite.ownerID, domain.RoleMember)
	suite.mockRepo.On("FindTimeEntryByID", ctx, "te-1").Return(suite.entry(domain.ApprovalDraft), nil).Once()
	suite.mockRepo.On("UpdateTimeEntry", ctx, mock.MatchedBy(func(e domain.TimeEntry) bool {
		return e.Status == domain.ApprovalSubmitted
	})).Return(nil).Once()

	entry, err := suite.service.SubmitTimeEntry(ctx, suite.orgID, "te-1", suite.ownerID)

	suite.Require().NoError(err)
	suite.Equal(domain.ApprovalSubmitted, entry.Status)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *TimeEntryServiceTestSuite) TestSubmitTimeEntry_RejectedMustBeRevised() {
	ctx := context.Background()
	suite.authorize(suite.ownerID, domain.RoleMember)
	suite.mockRepo.On("FindTimeEntryByID", ctx, "te-1").Return(suite.entry(domain.ApprovalRejected), nil).Once()

	entry, err := suite.service.SubmitTimeEntry(ctx, suite.orgID, "te-1", suite.ownerID)

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
}

func (suite *TimeEntryServiceTestSuite) TestSubmitTimeEntry_OnlyOwner() {
	ctx := context.Background()
	suite.authorize(suite.reviewerID, domain.RoleMember)
	suite.mockRepo.On("FindTimeEntryByID", ctx, "te-1").Return(suite.entry(domain.ApprovalDraft), nil).Once()

	entry, err := suite.service.SubmitTimeEntry(ctx, suite.orgID, "te-1", suite.reviewerID)

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

// --- Approve / Reject ---

func (suite *TimeEntryServiceTestSuite) TestApproveTimeEntry_Success() {
	ctx := context.Background()
	suite.authorize(suite.reviewerID, domain.RoleManager)
	suite.mockRepo.On("FindTimeEntryByID", ctx, "te-1").Return(suite.entry(domain.ApprovalSubmitted), nil).Once()
	suite.mockRepo.On("UpdateTimeEntry", ctx, mock.MatchedBy(func(e domain.TimeEntry) bool {
		return e.Status == domain.ApprovalApproved && e.ApprovedBy != nil && *e.ApprovedBy == suite.reviewerID
	})).Return(nil).Once()

	entry, err := suite.service.ApproveTimeEntry(ctx, suite.orgID, "te-1", suite.reviewerID)

	suite.Require().NoError(err)
	suite.Equal(domain.ApprovalApproved, entry.Status)
	suite.NotNil(entry.ApprovedAt)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *TimeEntryServiceTestSuite) TestApproveTimeEntry_SelfApprovalForbidden() {
	ctx := context.Background()
	suite.authorize(suite.ownerID, domain.RoleManager)
	suite.mockRepo.On("FindTimeEntryByID", ctx, "te-1").Return(suite.entry(domain.ApprovalSubmitted), nil).Once()

	entry, err := suite.service.ApproveTimeEntry(ctx, suite.orgID, "te-1", suite.ownerID)

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrSelfApproval)
}

func (suite *TimeEntryServiceTestSuite) TestApproveTimeEntry_NotSubmitted() {
	ctx := context.Background()
	suite.authorize(suite.reviewerID, domain.RoleManager)
	suite.mockRepo.On("FindTimeEntryByID", ctx, "te-1").Return(suite.entry(domain.ApprovalDraft), nil).Once()

	entry, err := suite.service.ApproveTimeEntry(ctx, suite.orgID, "te-1", suite.reviewerID)

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrNotSubmitted)
}

func (suite *TimeEntryServiceTestSuite) TestRejectTimeEntry_StoresTrimmedComments() {
	ctx := context.Background()
	suite.authorize(suite.reviewerID, domain.RoleManager)
	suite.mockRepo.On("FindTimeEntryByID", ctx, "te-1").Return(suite.entry(domain.ApprovalSubmitted), nil).Once()
	suite.mockRepo.On("UpdateTimeEntry", ctx, mock.MatchedBy(func(e domain.TimeEntry) bool {
		return e.Status == domain.ApprovalRejected && e.RejectionComments != nil && *e.RejectionComments == "Hours exceed the booking"
	})).Return(nil).Once()

	entry, err := suite.service.RejectTimeEntry(ctx, suite.orgID, "te-1", "  Hours exceed the booking  ", suite.reviewerID)

	suite.Require().NoError(err)
	suite.Equal(domain.ApprovalRejected, entry.Status)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *TimeEntryServiceTestSuite) TestRejectTimeEntry_MissingReason() {
	ctx := context.Background()
	suite.authorize(suite.reviewerID, domain.RoleManager)
	suite.mockRepo.On("FindTimeEntryByID", ctx, "te-1").Return(suite.entry(domain.ApprovalSubmitted), nil).Once()

	entry, err := suite.service.RejectTimeEntry(ctx, suite.orgID, "te-1", "   ", suite.reviewerID)

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrMissingReason)
}

// --- Revise ---

func (suite *TimeEntryServiceTestSuite) TestReviseTimeEntry_Resubmit() {
	ctx := context.Background()
	suite.authorize(suite.ownerID, domain.RoleMember)
	rejected := suite.entry(domain.ApprovalRejected)
	comments := "Too many hours"
	rejected.RejectionComments = &comments
	suite.mockRepo.On("FindTimeEntryByID", ctx, "te-1").Return(rejected, nil).Once()
	suite.mockRepo.On("UpdateTimeEntry", ctx, mock.MatchedBy(func(e domain.TimeEntry) bool {
		return e.Status == domain.ApprovalSubmitted && e.Hours == 6.0
	})).Return(nil).Once()

	entry, err := suite.service.ReviseTimeEntry(ctx, suite.orgID, "te-1", dto.ReviseTimeEntryRequest{Hours: 6, Resubmit: true}, suite.ownerID)

	suite.Require().NoError(err)
	suite.Equal(domain.ApprovalSubmitted, entry.Status)
	suite.Equal(6.0, entry.Hours)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *TimeEntryServiceTestSuite) TestReviseTimeEntry_ParkAsDraft() {
	ctx := context.Background()
	suite.authorize(suite.ownerID, domain.RoleMember)
	suite.mockRepo.On("FindTimeEntryByID", ctx, "te-1").Return(suite.entry(domain.ApprovalRejected), nil).Once()
	suite.mockRepo.On("UpdateTimeEntry", ctx, mock.MatchedBy(func(e domain.TimeEntry) bool {
		return e.Status == domain.ApprovalDraft
	})).Return(nil).Once()

	entry, err := suite.service.ReviseTimeEntry(ctx, suite.orgID, "te-1", dto.ReviseTimeEntryRequest{Hours: 6}, suite.ownerID)

	suite.Require().NoError(err)
	suite.Equal(domain.ApprovalDraft, entry.Status)
}

func (suite *TimeEntryServiceTestSuite) TestReviseTimeEntry_OnlyRejected() {
	ctx := context.Background()
	suite.authorize(suite.ownerID, domain.RoleMember)
	suite.mockRepo.On("FindTimeEntryByID", ctx, "te-1").Return(suite.entry(domain.ApprovalApproved), nil).Once()

	entry, err := suite.service.ReviseTimeEntry(ctx, suite.orgID, "te-1", dto.ReviseTimeEntryRequest{Hours: 6}, suite.ownerID)

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
}

func (suite *TimeEntryServiceTestSuite) TestReviseTimeEntry_ClearsRejectionComments() {
	ctx := context.Background()
	suite.authorize(suite.ownerID, domain.RoleMember)
	rejected := suite.entry(domain.ApprovalRejected)
	comments := "Too many hours"
	rejected.RejectionComments = &comments
	suite.mockRepo.On("FindTimeEntryByID", ctx, "te-1").Return(rejected, nil).Once()
	suite.mockRepo.On("UpdateTimeEntry", ctx, mock.MatchedBy(func(e domain.TimeEntry) bool {
		return e.RejectionComments == nil
	})).Return(nil).Once()

	entry, err := suite.service.ReviseTimeEntry(ctx, suite.orgID, "te-1", dto.ReviseTimeEntryRequest{Hours: 6, Resubmit: true}, suite.ownerID)

	suite.Require().NoError(err)
	suite.Nil(entry.RejectionComments)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *TimeEntryServiceTestSuite) TestApproveTimeEntry_ClearsRejectionComments() {
	ctx := context.Background()
	suite.authorize(suite.reviewerID, domain.RoleManager)
	submitted := suite.entry(domain.ApprovalSubmitted)
	comments := "Too many hours"
	submitted.RejectionComments = &comments
	suite.mockRepo.On("FindTimeEntryByID", ctx, "te-1").Return(submitted, nil).Once()
	suite.mockRepo.On("UpdateTimeEntry", ctx, mock.MatchedBy(func(e domain.TimeEntry) bool {
		return e.Status == domain.ApprovalApproved && e.RejectionComments == nil
	})).Return(nil).Once()

	entry, err := suite.service.ApproveTimeEntry(ctx, suite.orgID, "te-1", suite.reviewerID)

	suite.Require().NoError(err)
	suite.Nil(entry.RejectionComments)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *TimeEntryServiceTestSuite) TestTimeEntryRoundTrip_RejectReviseApprove() {
	ctx := context.Background()
	current := suite.entry(domain.ApprovalDraft)
	suite.mockRepo.On("FindTimeEntryByID", ctx, "te-1").Return(current, nil)
	suite.mockRepo.On("UpdateTimeEntry", ctx, mock.AnythingOfType("domain.TimeEntry")).Return(nil)

	suite.authorize(suite.ownerID, domain.RoleMember)
	_, err := suite.service.SubmitTimeEntry(ctx, suite.orgID, "te-1", suite.ownerID)
	suite.Require().NoError(err)

	suite.authorize(suite.reviewerID, domain.RoleManager)
	rejected, err := suite.service.RejectTimeEntry(ctx, suite.orgID, "te-1", "Hours exceed the booking", suite.reviewerID)
	suite.Require().NoError(err)
	suite.Require().NotNil(rejected.RejectionComments)

	suite.authorize(suite.ownerID, domain.RoleMember)
	revised, err := suite.service.ReviseTimeEntry(ctx, suite.orgID, "te-1", dto.ReviseTimeEntryRequest{Hours: 6.5, Resubmit: true}, suite.ownerID)
	suite.Require().NoError(err)
	suite.Equal(domain.ApprovalSubmitted, revised.Status)
	suite.Nil(revised.RejectionComments)

	suite.authorize(suite.reviewerID, domain.RoleManager)
	approved, err := suite.service.ApproveTimeEntry(ctx, suite.orgID, "te-1", suite.reviewerID)
	suite.Require().NoError(err)
	suite.Equal(domain.ApprovalApproved, approved.Status)
	suite.Nil(approved.RejectionComments)
	suite.Require().NotNil(approved.ApprovedBy)
	suite.Equal(suite.reviewerID, *approved.ApprovedBy)
	suite.Equal(6.5, approved.Hours)
	suite.Equal("API integration work", approved.Description)
	suite.True(approved.Billable)
}

// --- Edit / Delete guards ---

func (suite *TimeEntryServiceTestSuite) TestUpdateTimeEntry_SubmittedIsFrozen() {
	ctx := context.Background()
	suite.authorize(suite.ownerID, domain.RoleMember)
	suite.mockRepo.On("FindTimeEntryByID", ctx, "te-1").Return(suite.entry(domain.ApprovalSubmitted), nil).Once()

	hours := 5.0
	entry, err := suite.service.UpdateTimeEntry(ctx, suite.orgID, "te-1", dto.UpdateTimeEntryRequest{Hours: &hours}, suite.ownerID)

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrNotEditable)
}

func (suite *TimeEntryServiceTestSuite) TestDeleteTimeEntry_OnlyDraft() {
	ctx := context.Background()
	suite.authorize(suite.ownerID, domain.RoleMember)
	suite.mockRepo.On("FindTimeEntryByID", ctx, "te-1").Return(suite.entry(domain.ApprovalRejected), nil).Once()

	err := suite.service.DeleteTimeEntry(ctx, suite.orgID, "te-1", suite.ownerID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotEditable)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeleteTimeEntry", mock.Anything, mock.Anything)
}

func (suite *TimeEntryServiceTestSuite) TestGetTimeEntryByID_OtherOrganizationHidden() {
	ctx := context.Background()
	suite.mockOrgSvc.On("AuthorizeUserAction", mock.Anything, suite.ownerID, "org-2", domain.RoleReadOnly).Return(nil).Once()
	suite.mockRepo.On("FindTimeEntryByID", ctx, "te-1").Return(suite.entry(domain.ApprovalDraft), nil).Once()

	entry, err := suite.service.GetTimeEntryByID(ctx, "org-2", "te-1", suite.ownerID)

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- Batch ---

func (suite *TimeEntryServiceTestSuite) TestApproveTimeEntries_PartialFailure() {
	ctx := context.Background()

	good := suite.entry(domain.ApprovalSubmitted)
	bad := suite.entry(domain.ApprovalDraft)
	bad.TimeEntryID = "te-2"

	suite.mockOrgSvc.On("AuthorizeUserAction", mock.Anything, suite.reviewerID, suite.orgID, domain.RoleManager).Return(nil).Twice()
	suite.mockRepo.On("FindTimeEntryByID", ctx, "te-1").Return(good, nil).Once()
	suite.mockRepo.On("FindTimeEntryByID", ctx, "te-2").Return(bad, nil).Once()
	suite.mockRepo.On("UpdateTimeEntry", ctx, mock.AnythingOfType("domain.TimeEntry")).Return(nil).Once()

	results := suite.service.ApproveTimeEntries(ctx, suite.orgID, []string{"te-1", "te-2"}, suite.reviewerID)

	suite.Require().Len(results, 2)
	suite.True(results[0].OK)
	suite.False(results[1].OK)
	suite.NotEmpty(results[1].Error)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *TimeEntryServiceTestSuite) TestRejectTimeEntries_NotFoundFlattened() {
	ctx := context.Background()

	suite.mockOrgSvc.On("AuthorizeUserAction", mock.Anything, suite.reviewerID, suite.orgID, domain.RoleManager).Return(nil).Once()
	suite.mockRepo.On("FindTimeEntryByID", ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	results := suite.service.RejectTimeEntries(ctx, suite.orgID, []string{"missing"}, "Wrong project", suite.reviewerID)

	suite.Require().Len(results, 1)
	suite.False(results[0].OK)
	suite.Equal("not found", results[0].Error)
}

func TestTimeEntryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TimeEntryServiceTestSuite))
}
