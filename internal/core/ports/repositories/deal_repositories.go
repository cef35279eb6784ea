package repositories

import (
	"context"

	"github.com/tallyops/psa_backend/internal/core/domain"
)

// DealReader defines read operations for deal data
type DealReader interface {
	// FindDealByID retrieves a specific deal by its ID.
	FindDealByID(ctx context.Context, dealID string) (*domain.Deal, error)

	// ListDealsByOrganization retrieves a paginated list of deals using token-based pagination.
	// It returns the deals, a token for the next page, and an error.
	ListDealsByOrganization(ctx context.Context, organizationID string, limit int, nextToken *string) ([]domain.Deal, *string, error)

	// ListDealsByStage retrieves all deals in an organization at a given stage.
	ListDealsByStage(ctx context.Context, organizationID string, stage domain.DealStage) ([]domain.Deal, error)
}

// DealWriter defines write operations for deal data
type DealWriter interface {
	// SaveDeal persists a new deal.
	SaveDeal(ctx context.Context, deal domain.Deal) error

	// UpdateDeal updates an existing deal's details, including its stage.
	UpdateDeal(ctx context.Context, deal domain.Deal) error
}

// DealRepositoryFacade combines all deal-related repository interfaces
type DealRepositoryFacade interface {
	DealReader
	DealWriter
}
