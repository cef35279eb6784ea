package dto

import (
	"time"

	"github.com/tallyops/psa_backend/internal/core/domain"
)

// --- TimeEntry DTOs ---

// CreateTimeEntryRequest defines data for creating a new draft time entry.
type CreateTimeEntryRequest struct {
	ProjectID   string    `json:"projectID" binding:"required"`
	Date        time.Time `json:"date" binding:"required"`
	Hours       float64   `json:"hours" binding:"required,gt=0,lte=24"`
	Billable    bool      `json:"billable"`
	Description string    `json:"description"`
}

// UpdateTimeEntryRequest edits a draft or rejected entry.
type UpdateTimeEntryRequest struct {
	Date        *time.Time `json:"date"`
	Hours       *float64   `json:"hours" binding:"omitempty,gt=0,lte=24"`
	Billable    *bool      `json:"billable"`
	Description *string    `json:"description"`
}

// ReviseTimeEntryRequest corrects a rejected entry. Resubmit chooses whether
// the correction goes straight back to SUBMITTED or parks as a draft.
// Revised hours are bounded to a quarter-hour minimum.
type ReviseTimeEntryRequest struct {
	Hours    float64 `json:"hours" binding:"required,gte=0.25,lte=24"`
	Resubmit bool    `json:"resubmit"`
}

// RejectRequest carries the reviewer's reason for a rejection.
type RejectRequest struct {
	Comments string `json:"comments" binding:"required"`
}

// BatchIDsRequest carries the target ids of a batch approve/reject.
type BatchIDsRequest struct {
	IDs      []string `json:"ids" binding:"required,min=1"`
	Comments string   `json:"comments"` // Required for batch reject only
}

// TimeEntryResponse defines data returned for a time entry.
type TimeEntryResponse struct {
	TimeEntryID       string                `json:"timeEntryID"`
	ProjectID         string                `json:"projectID"`
	UserID            string                `json:"userID"`
	Date              time.Time             `json:"date"`
	Hours             float64               `json:"hours"`
	Billable          bool                  `json:"billable"`
	Description       string                `json:"description"`
	Status            domain.ApprovalStatus `json:"status"`
	ApprovedBy        *string               `json:"approvedBy,omitempty"`
	ApprovedAt        *time.Time            `json:"approvedAt,omitempty"`
	RejectionComments *string               `json:"rejectionComments,omitempty"`
	InvoiceID         *string               `json:"invoiceID,omitempty"`
}

// ToTimeEntryResponse converts domain.TimeEntry to DTO.
func ToTimeEntryResponse(e *domain.TimeEntry) TimeEntryResponse {
	return TimeEntryResponse{
		TimeEntryID:       e.TimeEntryID,
		ProjectID:         e.ProjectID,
		UserID:            e.UserID,
		Date:              e.Date,
		Hours:             e.Hours,
		Billable:          e.Billable,
		Description:       e.Description,
		Status:            e.Status,
		ApprovedBy:        e.ApprovedBy,
		ApprovedAt:        e.ApprovedAt,
		RejectionComments: e.RejectionComments,
		InvoiceID:         e.InvoiceID,
	}
}

// ToTimeEntryResponses converts a slice of domain time entries.
func ToTimeEntryResponses(entries []domain.TimeEntry) []TimeEntryResponse {
	responses := make([]TimeEntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToTimeEntryResponse(&entries[i])
	}
	return responses
}
