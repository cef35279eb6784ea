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
	"github.com/tallyops/psa_backend/internal/platform/config"
	"github.com/tallyops/psa_backend/internal/utils"
)

// MockUserService is a mock type for the UserSvcFacade interface
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) CreateOAuthUser(ctx context.Context, name, email string, provider domain.AuthProviderType) (*domain.User, error) {
	args := m.Called(ctx, name, email, provider)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.User, error) {
	args := m.Called(ctx, userID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	args := m.Called(ctx, userID, refreshTokenHash, refreshTokenExpiryTime)
	return args.Error(0)
}

func (m *MockUserService) ClearRefreshToken(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserService) DeleteUser(ctx context.Context, userID string, requestingUserID string) error {
	args := m.Called(ctx, userID, requestingUserID)
	return args.Error(0)
}

func (m *MockUserService) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// --- Test Suite Setup ---

type TokenServiceTestSuite struct {
	suite.Suite
	mockUserSvc *MockUserService
	service     portssvc.TokenSvcFacade
	user        *domain.User
}

func (suite *TokenServiceTestSuite) SetupTest() {
	suite.mockUserSvc = new(MockUserService)
	cfg := &config.Config{
		JWTSecret:                  "test-secret-not-for-production",
		JWTExpiryDuration:          15 * time.Minute,
		JWTIssuer:                  "psa_backend_test",
		RefreshTokenExpiryDuration: 7 * 24 * time.Hour,
	}
	suite.service = services.NewTokenService(cfg, suite.mockUserSvc)
	suite.user = &domain.User{UserID: "user-1", Email: "dana@example.com"}
}

func (suite *TokenServiceTestSuite) storedTokenUser(rawToken string, expiry time.Time) *domain.User {
	user := *suite.user
	user.RefreshTokenHash = utils.HashRefreshToken(rawToken)
	user.RefreshTokenExpiryTime = &expiry
	return &user
}

func (suite *TokenServiceTestSuite) TestGenerateAccessToken_Success() {
	ctx := context.Background()

	token, expiry, err := suite.service.GenerateAccessToken(ctx, suite.user)

	suite.Require().NoError(err)
	suite.NotEmpty(token)
	suite.WithinDuration(time.Now().Add(15*time.Minute), expiry, 5*time.Second)
}

func (suite *TokenServiceTestSuite) TestGenerateRefreshToken_RawTokensDiffer() {
	ctx := context.Background()

	first, _, err := suite.service.GenerateRefreshToken(ctx, suite.user)
	suite.Require().NoError(err)
	second, expiry, err := suite.service.GenerateRefreshToken(ctx, suite.user)
	suite.Require().NoError(err)

	suite.NotEmpty(first)
	suite.NotEqual(first, second)
	suite.WithinDuration(time.Now().Add(7*24*time.Hour), expiry, 5*time.Second)
}

func (suite *TokenServiceTestSuite) TestValidateRefreshToken_Success() {
	ctx := context.Background()
	raw := "raw-refresh-token-value"
	stored := suite.storedTokenUser(raw, time.Now().Add(time.Hour))
	suite.mockUserSvc.On("GetUserByID", ctx, "user-1").Return(stored, nil).Once()

	user, err := suite.service.ValidateAndParseRefreshToken(ctx, "user-1", raw)

	suite.Require().NoError(err)
	suite.Equal("user-1", user.UserID)
}

func (suite *TokenServiceTestSuite) TestValidateRefreshToken_Expired() {
	ctx := context.Background()
	raw := "raw-refresh-token-value"
	stored := suite.storedTokenUser(raw, time.Now().Add(-time.Minute))
	suite.mockUserSvc.On("GetUserByID", ctx, "user-1").Return(stored, nil).Once()

	user, err := suite.service.ValidateAndParseRefreshToken(ctx, "user-1", raw)

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrRefreshTokenExpired)
}

func (suite *TokenServiceTestSuite) TestValidateRefreshToken_HashMismatch() {
	ctx := context.Background()
	stored := suite.storedTokenUser("the-real-token", time.Now().Add(time.Hour))
	suite.mockUserSvc.On("GetUserByID", ctx, "user-1").Return(stored, nil).Once()

	user, err := suite.service.ValidateAndParseRefreshToken(ctx, "user-1", "a-different-token")

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *TokenServiceTestSuite) TestValidateRefreshToken_NoTokenStored() {
	ctx := context.Background()
	suite.mockUserSvc.On("GetUserByID", ctx, "user-1").Return(suite.user, nil).Once()

	user, err := suite.service.ValidateAndParseRefreshToken(ctx, "user-1", "any-token")

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *TokenServiceTestSuite) TestValidateRefreshToken_UnknownUserObscured() {
	ctx := context.Background()
	suite.mockUserSvc.On("GetUserByID", ctx, "ghost").Return(nil, apperrors.ErrNotFound).Once()

	user, err := suite.service.ValidateAndParseRefreshToken(ctx, "ghost", "any-token")

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func TestTokenServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TokenServiceTestSuite))
}
