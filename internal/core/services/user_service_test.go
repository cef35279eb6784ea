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
	"github.com/tallyops/psa_backend/internal/utils"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	service      portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.mockUserRepo)
}

func (suite *UserServiceTestSuite) localUser(email, password string) *domain.User {
	hash, err := utils.HashPassword(password)
	suite.Require().NoError(err)
	return &domain.User{
		UserID:       "user-1",
		Name:         "Dana Reviewer",
		Email:        email,
		PasswordHash: hash,
		AuthProvider: domain.ProviderLocal,
		CostRate:     8000,
		BillRate:     15000,
	}
}

func (suite *UserServiceTestSuite) TestCreateUser_Success() {
	ctx := context.Background()
	req := dto.CreateUserRequest{
		Name:     "Dana Reviewer",
		Email:    "dana@example.com",
		Password: "correct horse battery",
		CostRate: 8000,
		BillRate: 15000,
	}
	suite.mockUserRepo.On("FindUserByEmail", ctx, req.Email).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(user domain.User) bool {
		return user.Email == req.Email &&
			user.AuthProvider == domain.ProviderLocal &&
			user.PasswordHash != "" &&
			user.PasswordHash != req.Password &&
			user.BillRate == int64(15000)
	})).Return(nil).Once()

	user, err := suite.service.CreateUser(ctx, req)

	suite.Require().NoError(err)
	suite.NotEmpty(user.UserID)
	suite.Equal(user.UserID, user.CreatedBy)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateUser_DuplicateEmail() {
	ctx := context.Background()
	existing := suite.localUser("dana@example.com", "whatever1234")
	suite.mockUserRepo.On("FindUserByEmail", ctx, "dana@example.com").Return(existing, nil).Once()

	user, err := suite.service.CreateUser(ctx, dto.CreateUserRequest{
		Name:     "Impostor",
		Email:    "dana@example.com",
		Password: "correct horse battery",
	})

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestCreateOAuthUser_ReturnsExistingAccount() {
	ctx := context.Background()
	existing := suite.localUser("dana@example.com", "whatever1234")
	suite.mockUserRepo.On("FindUserByEmail", ctx, "dana@example.com").Return(existing, nil).Once()

	user, err := suite.service.CreateOAuthUser(ctx, "Dana R", "dana@example.com", domain.ProviderGoogle)

	suite.Require().NoError(err)
	suite.Equal(existing.UserID, user.UserID)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestCreateOAuthUser_CreatesWithoutPassword() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByEmail", ctx, "new@example.com").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(user domain.User) bool {
		return user.AuthProvider == domain.ProviderGoogle && user.PasswordHash == ""
	})).Return(nil).Once()

	user, err := suite.service.CreateOAuthUser(ctx, "New Person", "new@example.com", domain.ProviderGoogle)

	suite.Require().NoError(err)
	suite.Equal(domain.ProviderGoogle, user.AuthProvider)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestUpdateUser_OnlySelf() {
	ctx := context.Background()

	user, err := suite.service.UpdateUser(ctx, "user-1", dto.UpdateUserRequest{}, "someone-else")

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "FindUserByID", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestUpdateUser_NoChangesSkipsWrite() {
	ctx := context.Background()
	existing := suite.localUser("dana@example.com", "whatever1234")
	suite.mockUserRepo.On("FindUserByID", ctx, "user-1").Return(existing, nil).Once()

	user, err := suite.service.UpdateUser(ctx, "user-1", dto.UpdateUserRequest{}, "user-1")

	suite.Require().NoError(err)
	suite.Equal(existing.Email, user.Email)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "UpdateUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestUpdateUser_ChangesRates() {
	ctx := context.Background()
	existing := suite.localUser("dana@example.com", "whatever1234")
	newBillRate := int64(18000)
	suite.mockUserRepo.On("FindUserByID", ctx, "user-1").Return(existing, nil).Once()
	suite.mockUserRepo.On("UpdateUser", ctx, mock.MatchedBy(func(user domain.User) bool {
		return user.BillRate == newBillRate && user.CostRate == int64(8000)
	})).Return(nil).Once()

	user, err := suite.service.UpdateUser(ctx, "user-1", dto.UpdateUserRequest{BillRate: &newBillRate}, "user-1")

	suite.Require().NoError(err)
	suite.Equal(newBillRate, user.BillRate)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestClearRefreshToken_EmptiesHash() {
	ctx := context.Background()
	suite.mockUserRepo.On("UpdateRefreshTokenHash", ctx, "user-1", "", (*time.Time)(nil)).Return(nil).Once()

	err := suite.service.ClearRefreshToken(ctx, "user-1")

	suite.Require().NoError(err)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestDeleteUser_OnlySelf() {
	ctx := context.Background()

	err := suite.service.DeleteUser(ctx, "user-1", "someone-else")

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "MarkUserDeleted", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_Success() {
	ctx := context.Background()
	existing := suite.localUser("dana@example.com", "correct horse battery")
	suite.mockUserRepo.On("FindUserByEmail", ctx, "dana@example.com").Return(existing, nil).Once()

	user, err := suite.service.AuthenticateUser(ctx, "dana@example.com", "correct horse battery")

	suite.Require().NoError(err)
	suite.Equal(existing.UserID, user.UserID)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_WrongPassword() {
	ctx := context.Background()
	existing := suite.localUser("dana@example.com", "correct horse battery")
	suite.mockUserRepo.On("FindUserByEmail", ctx, "dana@example.com").Return(existing, nil).Once()

	user, err := suite.service.AuthenticateUser(ctx, "dana@example.com", "wrong password!")

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_UnknownEmailObscured() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByEmail", ctx, "ghost@example.com").Return(nil, apperrors.ErrNotFound).Once()

	user, err := suite.service.AuthenticateUser(ctx, "ghost@example.com", "any password")

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_OAuthUserHasNoPassword() {
	ctx := context.Background()
	oauthUser := &domain.User{
		UserID:       "user-2",
		Email:        "sso@example.com",
		AuthProvider: domain.ProviderGoogle,
	}
	suite.mockUserRepo.On("FindUserByEmail", ctx, "sso@example.com").Return(oauthUser, nil).Once()

	user, err := suite.service.AuthenticateUser(ctx, "sso@example.com", "any password")

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
