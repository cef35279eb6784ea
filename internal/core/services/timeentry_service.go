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

// timeEntryService manages time entries and their approval loop.
type timeEntryService struct {
	timeEntryRepo   portsrepo.TimeEntryRepositoryFacade
	projectRepo     portsrepo.ProjectReader
	organizationSvc portssvc.OrganizationSvcFacade
}

// NewTimeEntryService creates a new TimeEntryService.
func NewTimeEntryService(timeEntryRepo portsrepo.TimeEntryRepositoryFacade, projectRepo portsrepo.ProjectReader, organizationSvc portssvc.OrganizationSvcFacade) portssvc.TimeEntrySvcFacade {
	return &timeEntryService{
		timeEntryRepo:   timeEntryRepo,
		projectRepo:     projectRepo,
		organizationSvc: organizationSvc,
	}
}

var _ portssvc.TimeEntrySvcFacade = (*timeEntryService)(nil)

// findScopedEntry fetches an entry and verifies it belongs to the organization.
func (s *timeEntryService) findScopedEntry(ctx context.Context, organizationID string, timeEntryID string) (*domain.TimeEntry, error) {
	entry, err := s.timeEntryRepo.FindTimeEntryByID(ctx, timeEntryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find time entry %s: %w", timeEntryID, err)
	}
	if entry.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound // Obscure existence
	}
	return entry, nil
}

// CreateTimeEntry persists a new DRAFT time entry for the calling user.
func (s *timeEntryService) CreateTimeEntry(ctx context.Context, organizationID string, req dto.CreateTimeEntryRequest, creatorUserID string) (*domain.TimeEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.organizationSvc.AuthorizeUserAction(ctx, creatorUserID, organizationID, domain.RoleMember); err != nil {
		logger.Warn("Authorization failed for CreateTimeEntry", slog.String("user_id", creatorUserID), slog.String("organization_id", organizationID), slog.String("error", err.Error()))
		return nil, err
	}

	project, err := s.projectRepo.FindProjectByID(ctx, req.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to find project %s: %w", req.ProjectID, err)
	}
	if project.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}

	if req.Hours <= 0 || req.Hours > 24 {
		return nil, fmt.Errorf("%w: hours must be greater than 0 and at most 24", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	entry := domain.TimeEntry{
		TimeEntryID:    uuid.NewString(),
		OrganizationID: organizationID,
		ProjectID:      req.ProjectID,
		UserID:         creatorUserID,
		Date:           req.Date,
		Hours:          req.Hours,
		Billable:       req.Billable,
		Description:    req.Description,
		Status:         domain.ApprovalDraft,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.timeEntryRepo.SaveTimeEntry(ctx, entry); err != nil {
		logger.Error("Failed to save time entry", slog.String("error", err.Error()), slog.String("project_id", req.ProjectID))
		return nil, fmt.Errorf("failed to save time entry: %w", err)
	}

	logger.Info("Time entry created", slog.String("time_entry_id", entry.TimeEntryID), slog.String("project_id", req.ProjectID))
	return &entry, nil
}

// GetTimeEntryByID retrieves a specific time entry.
func (s *timeEntryService) GetTimeEntryByID(ctx context.Context, organizationID string, timeEntryID string, requestingUserID string) (*domain.TimeEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.organizationSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		logger.Warn("Authorization failed for GetTimeEntryByID", slog.String("user_id", requestingUserID), slog.String("error", err.Error()))
		return nil, err
	}

	return s.findScopedEntry(ctx, organizationID, timeEntryID)
}

// ListTimeEntries retrieves time entries for a project, optionally filtered by status.
func (s *timeEntryService) ListTimeEntries(ctx context.Context, organizationID string, projectID string, userID string, params dto.ListApprovablesParams) ([]domain.TimeEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.organizationSvc.AuthorizeUserAction(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		logger.Warn("Authorization failed for ListTimeEntries", "error", err)
		return nil, err
	}

	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to find project %s: %w", projectID, err)
	}
	if project.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}

	var statuses []domain.ApprovalStatus
	if params.Status != nil {
		statuses = []domain.ApprovalStatus{domain.ApprovalStatus(*params.Status)}
	}

	entries, err := s.timeEntryRepo.ListTimeEntriesByProject(ctx, projectID, statuses)
	if err != nil {
		logger.Error("Failed to list time entries from repository", "error", err)
		return nil, fmt.Errorf("failed to retrieve time entries: %w", err)
	}

	logger.Debug("Time entries listed", "count", len(entries))
	return entries, nil
}

// UpdateTimeEntry edits a DRAFT or REJECTED entry owned by the caller.
func (s *timeEntryService) UpdateTimeEntry(ctx context.Context, organizationID string, timeEntryID string, req dto.UpdateTimeEntryRequest, requestingUserID string) (*domain.TimeEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.organizationSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleMember); err != nil {
		logger.Warn("Authorization failed for UpdateTimeEntry", slog.String("user_id", requestingUserID), slog.String("error", err.Error()))
		return nil, err
	}

	entry, err := s.findScopedEntry(ctx, organizationID, timeEntryID)
	if err != nil {
		return nil, err
	}

	if entry.UserID != requestingUserID {
		return nil, fmt.Errorf("%w: only the owner may edit a time entry", apperrors.ErrForbidden)
	}
	if err := validateEditable(entry.Status); err != nil {
		return nil, err
	}

	updated := false
	if req.Date != nil {
		entry.Date = *req.Date
		updated = true
	}
	if req.Hours != nil {
		if *req.Hours <= 0 || *req.Hours > 24 {
			return nil, fmt.Errorf("%w: hours must be greater than 0 and at most 24", apperrors.ErrValidation)
		}
		entry.Hours = *req.Hours
		updated = true
	}
	if req.Billable != nil {
		entry.Billable = *req.Billable
		updated = true
	}
	if req.Description != nil {
		entry.Description = *req.Description
		updated = true
	}

	if !updated {
		return entry, nil
	}

	now := time.Now().UTC()
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = requestingUserID

	if err := s.timeEntryRepo.UpdateTimeEntry(ctx, *entry); err != nil {
		logger.Error("Failed to update time entry", slog.String("error", err.Error()), slog.String("time_entry_id", timeEntryID))
		return nil, fmt.Errorf("failed to update time entry: %w", err)
	}

	return entry, nil
}

// DeleteTimeEntry removes a DRAFT entry owned by the caller.
func (s *timeEntryService) DeleteTimeEntry(ctx context.Context, organizationID string, timeEntryID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.organizationSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleMember); err != nil {
		logger.Warn("Authorization failed for DeleteTimeEntry", slog.String("user_id", requestingUserID), slog.String("error", err.Error()))
		return err
	}

	entry, err := s.findScopedEntry(ctx, organizationID, timeEntryID)
	if err != nil {
		return err
	}

	if entry.UserID != requestingUserID {
		return fmt.Errorf("%w: only the owner may delete a time entry", apperrors.ErrForbidden)
	}
	if entry.Status != domain.ApprovalDraft {
		return fmt.Errorf("%w: only draft entries can be deleted, status is %s", apperrors.ErrNotEditable, entry.Status)
	}

	if err := s.timeEntryRepo.DeleteTimeEntry(ctx, timeEntryID); err != nil {
		logger.Error("Failed to delete time entry", slog.String("error", err.Error()), slog.String("time_entry_id", timeEntryID))
		return fmt.Errorf("failed to delete time entry: %w", err)
	}

	logger.Info("Time entry deleted", slog.String("time_entry_id", timeEntryID))
	return nil
}

// SubmitTimeEntry moves a DRAFT entry to SUBMITTED.
func (s *timeEntryService) SubmitTimeEntry(ctx context.Context, organizationID string, timeEntryID string, requestingUserID string) (*domain.TimeEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.organizationSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleMember); err != nil {
		logger.Warn("Authorization failed for SubmitTimeEntry", slog.String("user_id", requestingUserID), slog.String("error", err.Error()))
		return nil, err
	}

	entry, err := s.findScopedEntry(ctx, organizationID, timeEntryID)
	if err != nil {
		return nil, err
	}

	if entry.UserID != requestingUserID {
		return nil, fmt.Errorf("%w: only the owner may submit a time entry", apperrors.ErrForbidden)
	}
	if err := validateSubmit(entry.Status); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry.Status = domain.ApprovalSubmitted
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = requestingUserID

	if err := s.timeEntryRepo.UpdateTimeEntry(ctx, *entry); err != nil {
		logger.Error("Failed to submit time entry", slog.String("error", err.Error()), slog.String("time_entry_id", timeEntryID))
		return nil, fmt.Errorf("failed to submit time entry: %w", err)
	}

	logger.Info("Time entry submitted", slog.String("time_entry_id", timeEntryID))
	return entry, nil
}

// ApproveTimeEntry moves a SUBMITTED entry to APPROVED. Reviewers cannot
// approve their own submissions.
func (s *timeEntryService) ApproveTimeEntry(ctx context.Context, organizationID string, timeEntryID string, reviewerUserID string) (*domain.TimeEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.organizationSvc.AuthorizeUserAction(ctx, reviewerUserID, organizationID, domain.RoleManager); err != nil {
		logger.Warn("Authorization failed for ApproveTimeEntry", slog.String("user_id", reviewerUserID), slog.String("error", err.Error()))
		return nil, err
	}

	entry, err := s.findScopedEntry(ctx, organizationID, timeEntryID)
	if err != nil {
		return nil, err
	}

	if err := validateApprove(entry.Status, entry.UserID, reviewerUserID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry.Status = domain.ApprovalApproved
	entry.ApprovedBy = &reviewerUserID
	entry.ApprovedAt = &now
	entry.RejectionComments = nil
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = reviewerUserID

	if err := s.timeEntryRepo.UpdateTimeEntry(ctx, *entry); err != nil {
		logger.Error("Failed to approve time entry", slog.String("error", err.Error()), slog.String("time_entry_id", timeEntryID))
		return nil, fmt.Errorf("failed to approve time entry: %w", err)
	}

	logger.Info("Time entry approved", slog.String("time_entry_id", timeEntryID), slog.String("reviewer_id", reviewerUserID))
	return entry, nil
}

// RejectTimeEntry moves a SUBMITTED entry to REJECTED with a reason.
func (s *timeEntryService) RejectTimeEntry(ctx context.Context, organizationID string, timeEntryID string, comments string, reviewerUserID string) (*domain.TimeEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.organizationSvc.AuthorizeUserAction(ctx, reviewerUserID, organizationID, domain.RoleManager); err != nil {
		logger.Warn("Authorization failed for RejectTimeEntry", slog.String("user_id", reviewerUserID), slog.String("error", err.Error()))
		return nil, err
	}

	entry, err := s.findScopedEntry(ctx, organizationID, timeEntryID)
	if err != nil {
		return nil, err
	}

	trimmed, err := validateReject(entry.Status, comments)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry.Status = domain.ApprovalRejected
	entry.RejectionComments = &trimmed
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = reviewerUserID

	if err := s.timeEntryRepo.UpdateTimeEntry(ctx, *entry); err != nil {
		logger.Error("Failed to reject time entry", slog.String("error", err.Error()), slog.String("time_entry_id", timeEntryID))
		return nil, fmt.Errorf("failed to reject time entry: %w", err)
	}

	logger.Info("Time entry rejected", slog.String("time_entry_id", timeEntryID), slog.String("reviewer_id", reviewerUserID))
	return entry, nil
}

// ReviseTimeEntry corrects a REJECTED entry with new hours. Resubmit controls
// whether the corrected entry goes straight back into review or parks as a
// draft. All other fields are preserved.
func (s *timeEntryService) ReviseTimeEntry(ctx context.Context, organizationID string, timeEntryID string, req dto.ReviseTimeEntryRequest, requestingUserID string) (*domain.TimeEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.organizationSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleMember); err != nil {
		logger.Warn("Authorization failed for ReviseTimeEntry", slog.String("user_id", requestingUserID), slog.String("error", err.Error()))
		return nil, err
	}

	entry, err := s.findScopedEntry(ctx, organizationID, timeEntryID)
	if err != nil {
		return nil, err
	}

	if entry.UserID != requestingUserID {
		return nil, fmt.Errorf("%w: only the owner may revise a time entry", apperrors.ErrForbidden)
	}
	if err := validateRevise(entry.Status); err != nil {
		return nil, err
	}
	if req.Hours < 0.25 || req.Hours > 24 {
		return nil, fmt.Errorf("%w: revised hours must be between 0.25 and 24", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	entry.Hours = req.Hours
	entry.Status = domain.ApprovalDraft
	if req.Resubmit {
		entry.Status = domain.ApprovalSubmitted
	}
	entry.RejectionComments = nil
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = requestingUserID

	if err := s.timeEntryRepo.UpdateTimeEntry(ctx, *entry); err != nil {
		logger.Error("Failed to revise time entry", slog.String("error", err.Error()), slog.String("time_entry_id", timeEntryID))
		return nil, fmt.Errorf("failed to revise time entry: %w", err)
	}

	logger.Info("Time entry revised", slog.String("time_entry_id", timeEntryID), slog.String("status", string(entry.Status)))
	return entry, nil
}

// ApproveTimeEntries approves many entries. Each record is validated
// independently; one failure never rolls back the others.
func (s *timeEntryService) ApproveTimeEntries(ctx context.Context, organizationID string, timeEntryIDs []string, reviewerUserID string) []dto.BatchResult {
	results := make([]dto.BatchResult, 0, len(timeEntryIDs))
	for _, id := range timeEntryIDs {
		_, err := s.ApproveTimeEntry(ctx, organizationID, id, reviewerUserID)
		results = append(results, toBatchResult(id, err))
	}
	return results
}

// RejectTimeEntries rejects many entries with a shared reason. Each record is
// validated independently.
func (s *timeEntryService) RejectTimeEntries(ctx context.Context, organizationID string, timeEntryIDs []string, comments string, reviewerUserID string) []dto.BatchResult {
	results := make([]dto.BatchResult, 0, len(timeEntryIDs))
	for _, id := range timeEntryIDs {
		_, err := s.RejectTimeEntry(ctx, organizationID, id, comments, reviewerUserID)
		results = append(results, toBatchResult(id, err))
	}
	return results
}

// toBatchResult flattens a per-record outcome for batch responses.
func toBatchResult(id string, err error) dto.BatchResult {
	if err != nil {
		msg := err.Error()
		if errors.Is(err, apperrors.ErrNotFound) {
			msg = "not found"
		}
		return dto.BatchResult{ID: id, OK: false, Error: msg}
	}
	return dto.BatchResult{ID: id, OK: true}
}
