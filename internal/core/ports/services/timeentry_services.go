package services

import (
	"context"

	"github.com/tallyops/psa_backend/internal/core/domain"
	"github.com/tallyops/psa_backend/internal/dto"
)

// TimeEntryReaderSvc defines read operations for time entry data
type TimeEntryReaderSvc interface {
	// GetTimeEntryByID retrieves a specific time entry.
	GetTimeEntryByID(ctx context.Context, organizationID string, timeEntryID string, requestingUserID string) (*domain.TimeEntry, error)

	// ListTimeEntries retrieves time entries for a project, optionally filtered by status.
	ListTimeEntries(ctx context.Context, organizationID string, projectID string, userID string, params dto.ListApprovablesParams) ([]domain.TimeEntry, error)
}

// TimeEntryWriterSvc defines draft mutations for time entry data
type TimeEntryWriterSvc interface {
	// CreateTimeEntry persists a new DRAFT time entry.
	CreateTimeEntry(ctx context.Context, organizationID string, req dto.CreateTimeEntryRequest, creatorUserID string) (*domain.TimeEntry, error)

	// UpdateTimeEntry edits a DRAFT or REJECTED entry owned by the caller.
	UpdateTimeEntry(ctx context.Context, organizationID string, timeEntryID string, req dto.UpdateTimeEntryRequest, requestingUserID string) (*domain.TimeEntry, error)

	// DeleteTimeEntry removes a DRAFT entry owned by the caller.
	DeleteTimeEntry(ctx context.Context, organizationID string, timeEntryID string, requestingUserID string) error
}

// TimeEntryApprovalSvc defines the submit/approve/reject/revise loop
type TimeEntryApprovalSvc interface {
	// SubmitTimeEntry moves a DRAFT entry to SUBMITTED.
	SubmitTimeEntry(ctx context.Context, organizationID string, timeEntryID string, requestingUserID string) (*domain.TimeEntry, error)

	// ApproveTimeEntry moves a SUBMITTED entry to APPROVED. The reviewer must
	// not be the submitter.
	ApproveTimeEntry(ctx context.Context, organizationID string, timeEntryID string, reviewerUserID string) (*domain.TimeEntry, error)

	// RejectTimeEntry moves a SUBMITTED entry to REJECTED with a reason.
	RejectTimeEntry(ctx context.Context, organizationID string, timeEntryID string, comments string, reviewerUserID string) (*domain.TimeEntry, error)

	// ReviseTimeEntry corrects a REJECTED entry and either saves it back as a
	// draft or resubmits it immediately.
	ReviseTimeEntry(ctx context.Context, organizationID string, timeEntryID string, req dto.ReviseTimeEntryRequest, requestingUserID string) (*domain.TimeEntry, error)

	// ApproveTimeEntries approves many entries, each validated independently.
	ApproveTimeEntries(ctx context.Context, organizationID string, timeEntryIDs []string, reviewerUserID string) []dto.BatchResult

	// RejectTimeEntries rejects many entries, each validated independently.
	RejectTimeEntries(ctx context.Context, organizationID string, timeEntryIDs []string, comments string, reviewerUserID string) []dto.BatchResult
}

// TimeEntrySvcFacade combines all time-entry service interfaces
type TimeEntrySvcFacade interface {
	TimeEntryReaderSvc
	TimeEntryWriterSvc
	TimeEntryApprovalSvc
}
