package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tallyops/psa_backend/internal/core/domain"
)

// TimeEntryReader defines read operations for time entry data
type TimeEntryReader interface {
	// FindTimeEntryByID retrieves a specific time entry by its ID.
	FindTimeEntryByID(ctx context.Context, timeEntryID string) (*domain.TimeEntry, error)

	// ListTimeEntriesByProject retrieves all time entries for a project,
	// optionally filtered to the given statuses (nil means all).
	ListTimeEntriesByProject(ctx context.Context, projectID string, statuses []domain.ApprovalStatus) ([]domain.TimeEntry, error)

	// ListApprovedTimeEntriesInPeriod retrieves APPROVED entries for a project
	// with dates in [from, to]. billableOnly restricts to billable entries.
	ListApprovedTimeEntriesInPeriod(ctx context.Context, projectID string, from, to time.Time, billableOnly bool) ([]domain.TimeEntry, error)
}

// TimeEntryWriter defines write operations for time entry data
type TimeEntryWriter interface {
	// SaveTimeEntry persists a new time entry.
	SaveTimeEntry(ctx context.Context, entry domain.TimeEntry) error

	// UpdateTimeEntry updates an existing time entry.
	UpdateTimeEntry(ctx context.Context, entry domain.TimeEntry) error

	// DeleteTimeEntry removes a time entry. The service layer guarantees only
	// drafts reach this.
	DeleteTimeEntry(ctx context.Context, timeEntryID string) error

	// LockTimeEntriesInTx transitions the given APPROVED entries to LOCKED and
	// stamps them with the finalized invoice id, inside the caller's transaction.
	LockTimeEntriesInTx(ctx context.Context, tx pgx.Tx, timeEntryIDs []string, invoiceID string, updatedBy string, updatedAt time.Time) error
}

// TimeEntryRepositoryFacade combines all time-entry repository interfaces
type TimeEntryRepositoryFacade interface {
	TimeEntryReader
	TimeEntryWriter
}
