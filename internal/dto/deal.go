package dto

import (
	"time"

	"github.com/tallyops/psa_backend/internal/core/domain"
)

// --- Deal DTOs ---

// CreateDealRequest defines data for creating a new deal. Deals always start
// at the LEAD stage.
type CreateDealRequest struct {
	CompanyID   string  `json:"companyID" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Value       int64   `json:"value" binding:"min=0"` // Minor currency units
	Probability float64 `json:"probability" binding:"min=0,max=1"`
	OwnerUserID string  `json:"ownerUserID"`
}

// UpdateDealRequest defines the non-stage fields of a deal that may change.
// Pointers differentiate omitted fields from zero values.
type UpdateDealRequest struct {
	Name        *string  `json:"name"`
	Value       *int64   `json:"value" binding:"omitempty,min=0"`
	Probability *float64 `json:"probability" binding:"omitempty,min=0,max=1"`
	OwnerUserID *string  `json:"ownerUserID"`
}

// UpdateDealStageRequest moves a deal along the stage graph. Override bypasses
// the graph for administrative correction and is logged against the caller.
type UpdateDealStageRequest struct {
	Stage    domain.DealStage `json:"stage" binding:"required,dealstage"`
	Override bool             `json:"override"`
}

// ListDealsParams defines query parameters for listing deals.
type ListDealsParams struct {
	Limit     int    `form:"limit,default=20"`
	NextToken string `form:"nextToken"`
}

// DealResponse defines data returned for a deal.
type DealResponse struct {
	DealID         string             `json:"dealID"`
	OrganizationID string             `json:"organizationID"`
	CompanyID      string             `json:"companyID"`
	Name           string             `json:"name"`
	Stage          domain.DealStage   `json:"stage"`
	ValidNext      []domain.DealStage `json:"validNextStages"`
	Value          int64              `json:"value"`
	Probability    float64            `json:"probability"`
	OwnerUserID    string             `json:"ownerUserID"`
	StageChangedAt *time.Time         `json:"stageChangedAt,omitempty"`
	CreatedAt      time.Time          `json:"createdAt"`
}

// ListDealsResponse wraps a page of deals.
type ListDealsResponse struct {
	Deals     []DealResponse `json:"deals"`
	NextToken *string        `json:"nextToken,omitempty"`
}

// ToDealResponse converts domain.Deal to DTO, including the stage graph's
// valid next stages so clients can render transition choices directly.
func ToDealResponse(d *domain.Deal) DealResponse {
	return DealResponse{
		DealID:         d.DealID,
		OrganizationID: d.OrganizationID,
		CompanyID:      d.CompanyID,
		Name:           d.Name,
		Stage:          d.Stage,
		ValidNext:      domain.ValidNextStages(d.Stage),
		Value:          d.Value,
		Probability:    d.Probability,
		OwnerUserID:    d.OwnerUserID,
		StageChangedAt: d.StageChangedAt,
		CreatedAt:      d.CreatedAt,
	}
}

// ToListDealsResponse converts a page of domain deals to the response DTO.
func ToListDealsResponse(deals []domain.Deal, nextToken *string) *ListDealsResponse {
	responses := make([]DealResponse, len(deals))
	for i := range deals {
		responses[i] = ToDealResponse(&deals[i])
	}
	return &ListDealsResponse{Deals: responses, NextToken: nextToken}
}
