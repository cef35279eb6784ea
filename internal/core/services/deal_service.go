package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tallyops/psa_backend/internal/apperrors"
	"github.com/tallyops/psa_backend/internal/core/domain"
	portsrepo "github.com/tallyops/psa_backend/internal/core/ports/repositories"
	portssvc "github.com/tallyops/psa_backend/internal/core/ports/services"
	"github.com/tallyops/psa_backend/internal/dto"
	"github.com/tallyops/psa_backend/internal/middleware"
)

// dealService drives deals through the pipeline stage graph.
type dealService struct {
	dealRepo        portsrepo.DealRepositoryFacade
	organizationSvc portssvc.OrganizationSvcFacade
}

// NewDealService creates a new DealService.
func NewDealService(dealRepo portsrepo.DealRepositoryFacade, organizationSvc portssvc.OrganizationSvcFacade) portssvc.DealSvcFacade {
	return &dealService{
		dealRepo:        dealRepo,
		organizationSvc: organizationSvc,
	}
}

var _ portssvc.DealSvcFacade = (*dealService)(nil)

// CreateDeal persists a new deal. Every deal enters the pipeline at LEAD.
func (s *dealService) CreateDeal(ctx context.Context, organizationID string, req dto.CreateDealRequest, creatorUserID string) (*domain.Deal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.organizationSvc.AuthorizeUserAction(ctx, creatorUserID, organizationID, domain.RoleMember); err != nil {
		logger.Warn("Authorization failed for CreateDeal", slog.String("user_id", creatorUserID), slog.String("organization_id", organizationID), slog.String("error", err.Error()))
		return nil, err
	}

	if req.Probability < 0 || req.Probability > 1 {
		return nil, fmt.Errorf("%w: probability must be between 0 and 1", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	deal := domain.Deal{
		DealID:         uuid.NewString(),
		OrganizationID: organizationID,
		CompanyID:      req.CompanyID,
		Name:           req.Name,
		Stage:          domain.StageLead,
		Value:          req.Value,
		Probability:    req.Probability,
		OwnerUserID:    req.OwnerUserID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if deal.OwnerUserID == "" {
		deal.OwnerUserID = creatorUserID
	}

	if err := s.dealRepo.SaveDeal(ctx, deal); err != nil {
		logger.Error("Failed to save deal", slog.String("error", err.Error()), slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to save deal: %w", err)
	}

	logger.Info("Deal created successfully", slog.String("deal_id", deal.DealID), slog.String("organization_id", organizationID))
	return &deal, nil
}

// GetDealByID retrieves a specific deal.
func (s *dealService) GetDealByID(ctx context.Context, organizationID string, dealID string, requestingUserID string) (*domain.Deal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.organizationSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		logger.Warn("Authorization failed for GetDealByID", slog.String("user_id", requestingUserID), slog.String("organization_id", organizationID), slog.String("error", err.Error()))
		return nil, err
	}

	deal, err := s.dealRepo.FindDealByID(ctx, dealID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find deal by ID", slog.String("error", err.Error()), slog.String("deal_id", dealID))
		}
		return nil, fmt.Errorf("failed to find deal by ID %s: %w", dealID, err)
	}

	if deal.OrganizationID != organizationID {
		logger.Warn("Deal found but belongs to different organization", slog.String("deal_id", dealID), slog.String("deal_organization", deal.OrganizationID), slog.String("requested_organization", organizationID))
		return nil, apperrors.ErrNotFound // Obscure existence
	}

	return deal, nil
}

// ListDeals retrieves a paginated list of deals for an organization.
func (s *dealService) ListDeals(ctx context.Context, organizationID string, userID string, params dto.ListDealsParams) (*dto.ListDealsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.organizationSvc.AuthorizeUserAction(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		logger.Warn("Authorization failed for ListDeals", "error", err)
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

	deals, newToken, err := s.dealRepo.ListDealsByOrganization(ctx, organizationID, limit, nextToken)
	if err != nil {
		logger.Error("Failed to list deals from repository", "error", err)
		return nil, fmt.Errorf("failed to retrieve deals: %w", err)
	}

	logger.Info("Deals listed successfully", "count", len(deals))
	return dto.ToListDealsResponse(deals, newToken), nil
}

// UpdateDeal updates a deal's non-stage details.
func (s *dealService) UpdateDeal(ctx context.Context, organizationID string, dealID string, req dto.UpdateDealRequest, requestingUserID string) (*domain.Deal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.organizationSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleMember); err != nil {
		logger.Warn("Authorization failed for UpdateDeal", slog.String("user_id", requestingUserID), slog.String("deal_id", dealID), slog.String("error", err.Error()))
		return nil, err
	}

	deal, err := s.GetDealByID(ctx, organizationID, dealID, requestingUserID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil {
		deal.Name = *req.Name
		updated = true
	}
	if req.Value != nil {
		deal.Value = *req.Value
		updated = true
	}
	if req.Probability != nil {
		if *req.Probability < 0 || *req.Probability > 1 {
			return nil, fmt.Errorf("%w: probability must be between 0 and 1", apperrors.ErrValidation)
		}
		deal.Probability = *req.Probability
		updated = true
	}
	if req.OwnerUserID != nil {
		deal.OwnerUserID = *req.OwnerUserID
		updated = true
	}

	if !updated {
		logger.Debug("No fields provided for deal update", slog.String("deal_id", dealID))
		return deal, nil
	}

	now := time.Now().UTC()
	deal.LastUpdatedAt = now
	deal.LastUpdatedBy = requestingUserID

	if err := s.dealRepo.UpdateDeal(ctx, *deal); err != nil {
		logger.Error("Failed to save deal update to repository", slog.String("error", err.Error()), slog.String("deal_id", dealID))
		return nil, fmt.Errorf("failed to save deal update: %w", err)
	}

	logger.Info("Deal updated successfully", slog.String("deal_id", dealID))
	return deal, nil
}

// UpdateDealStage moves a deal along the stage graph. Non-adjacent moves are
// rejected unless the request carries the administrative override flag, which
// requires admin role and is logged against the requesting user.
func (s *dealService) UpdateDealStage(ctx context.Context, organizationID string, dealID string, req dto.UpdateDealStageRequest, requestingUserID string) (*domain.Deal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	requiredRole := domain.RoleMember
	if req.Override {
		requiredRole = domain.RoleAdmin
	}
	if err := s.organizationSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, requiredRole); err != nil {
		logger.Warn("Authorization failed for UpdateDealStage", slog.String("user_id", requestingUserID), slog.String("deal_id", dealID), slog.Bool("override", req.Override), slog.String("error", err.Error()))
		return nil, err
	}

	deal, err := s.GetDealByID(ctx, organizationID, dealID, requestingUserID)
	if err != nil {
		return nil, err
	}

	if deal.Stage == req.Stage {
		// Self-loop is a no-op, nothing to persist.
		return deal, nil
	}

	if req.Override {
		logger.Warn("Stage graph override applied",
			slog.String("deal_id", dealID),
			slog.String("from_stage", string(deal.Stage)),
			slog.String("to_stage", string(req.Stage)),
			slog.String("user_id", requestingUserID))
	} else if err := domain.AssertValidTransition(deal.Stage, req.Stage); err != nil {
		logger.Warn("Invalid stage transition rejected", slog.String("deal_id", dealID), slog.String("from_stage", string(deal.Stage)), slog.String("to_stage", string(req.Stage)))
		return nil, err
	}

	now := time.Now().UTC()
	deal.Stage = req.Stage
	deal.StageChangedAt = &now
	deal.LastUpdatedAt = now
	deal.LastUpdatedBy = requestingUserID

	if err := s.dealRepo.UpdateDeal(ctx, *deal); err != nil {
		logger.Error("Failed to save deal stage change", slog.String("error", err.Error()), slog.String("deal_id", dealID))
		return nil, fmt.Errorf("failed to save deal stage change: %w", err)
	}

	logger.Info("Deal stage updated", slog.String("deal_id", dealID), slog.String("stage", string(deal.Stage)))
	return deal, nil
}
