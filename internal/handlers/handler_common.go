package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tallyops/psa_backend/internal/apperrors"
	"github.com/tallyops/psa_backend/internal/core/domain"
	portssvc "github.com/tallyops/psa_backend/internal/core/ports/services"
	"github.com/tallyops/psa_backend/internal/dto"
	"github.com/tallyops/psa_backend/internal/middleware"
	"github.com/tallyops/psa_backend/internal/utils"
)

// ErrorResponse is a generic error response structure for handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError translates service-layer errors into HTTP responses. Handlers
// use it for the common sentinel errors; anything unrecognized is logged and
// answered as a 500 without leaking internals.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	var transitionErr *domain.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		c.JSON(http.StatusConflict, gin.H{
			"error":           transitionErr.Error(),
			"validNextStages": transitionErr.ValidNext,
		})
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Resource not found"})
	case errors.Is(err, apperrors.ErrForbidden), errors.Is(err, apperrors.ErrSelfApproval):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrMissingReason):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrNotSubmitted),
		errors.Is(err, apperrors.ErrNotEditable),
		errors.Is(err, apperrors.ErrInvalidState),
		errors.Is(err, apperrors.ErrAlreadyInvoiced),
		errors.Is(err, apperrors.ErrAlreadyFinalized),
		errors.Is(err, apperrors.ErrInvalidTransition):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	default:
		logger.Error("Unhandled service error", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}

// issueTokenPair generates an access/refresh token pair for the user and
// persists the refresh token hash. Used by both password and OAuth login.
func issueTokenPair(ctx context.Context, us portssvc.UserSvcFacade, ts portssvc.TokenSvcFacade, user *domain.User) (*dto.AuthTokensResponse, error) {
	accessToken, accessExpiry, err := ts.GenerateAccessToken(ctx, user)
	if err != nil {
		return nil, err
	}
	refreshToken, refreshExpiry, err := ts.GenerateRefreshToken(ctx, user)
	if err != nil {
		return nil, err
	}
	if err := us.UpdateRefreshToken(ctx, user.UserID, utils.HashRefreshToken(refreshToken), refreshExpiry); err != nil {
		return nil, err
	}
	return &dto.AuthTokensResponse{
		AccessToken:           accessToken,
		AccessTokenExpiresAt:  accessExpiry,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: &refreshExpiry,
		User:                  dto.ToUserResponse(user),
	}, nil
}

// requestingUser pulls the authenticated user id out of the context, replying
// 401 itself when absent. Callers must return immediately on ok == false.
func requestingUser(c *gin.Context, logger *slog.Logger) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return "", false
	}
	return userID, true
}
