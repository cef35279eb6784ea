package models

import (
	"database/sql"
	"time"
)

// TimeEntry represents a time booking row.
type TimeEntry struct {
	TimeEntryID       string         `db:"time_entry_id"`
	OrganizationID    string         `db:"organization_id"`
	ProjectID         string         `db:"project_id"`
	UserID            string         `db:"user_id"`
	EntryDate         time.Time      `db:"entry_date"`
	Hours             float64        `db:"hours"`
	Billable          bool           `db:"billable"`
	Description       string         `db:"description"`
	Status            string         `db:"status"`
	ApprovedBy        sql.NullString `db:"approved_by"`
	ApprovedAt        sql.NullTime   `db:"approved_at"`
	RejectionComments sql.NullString `db:"rejection_comments"`
	InvoiceID         sql.NullString `db:"invoice_id"`
	AuditFields
}
