package services

import (
	"context"

	"github.com/tallyops/psa_backend/internal/core/domain"
	"github.com/tallyops/psa_backend/internal/dto"
)

// DealReaderSvc defines read operations for deal data
type DealReaderSvc interface {
	// GetDealByID retrieves a specific deal by its ID.
	GetDealByID(ctx context.Context, organizationID string, dealID string, requestingUserID string) (*domain.Deal, error)

	// ListDeals retrieves a paginated list of deals in an organization.
	ListDeals(ctx context.Context, organizationID string, userID string, params dto.ListDealsParams) (*dto.ListDealsResponse, error)
}

// DealWriterSvc defines write operations for deal data
type DealWriterSvc interface {
	// CreateDeal persists a new deal at the LEAD stage.
	CreateDeal(ctx context.Context, organizationID string, req dto.CreateDealRequest, creatorUserID string) (*domain.Deal, error)

	// UpdateDeal updates a deal's non-stage details (name, value, probability, owner).
	UpdateDeal(ctx context.Context, organizationID string, dealID string, req dto.UpdateDealRequest, requestingUserID string) (*domain.Deal, error)

	// UpdateDealStage moves a deal to a new stage. The move must be a permitted
	// stage-graph edge unless the request carries the administrative override
	// flag, in which case the bypass is logged against the requesting user.
	UpdateDealStage(ctx context.Context, organizationID string, dealID string, req dto.UpdateDealStageRequest, requestingUserID string) (*domain.Deal, error)
}

// DealSvcFacade combines all deal-related service interfaces
type DealSvcFacade interface {
	DealReaderSvc
	DealWriterSvc
}
