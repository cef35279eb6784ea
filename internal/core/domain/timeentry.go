package domain

import "time"

// TimeEntry represents hours booked by a user against a project.
// Hours are decimal hours; money derived from an entry is always in minor units.
type TimeEntry struct {
	TimeEntryID    string         `json:"timeEntryID"`    // Primary Key (e.g., UUID)
	OrganizationID string         `json:"organizationID"` // FK -> organizations.organization_id (Not Null)
	ProjectID      string         `json:"projectID"`      // FK -> projects.project_id (Not Null)
	UserID         string         `json:"userID"`         // Submitting user (owner)
	Date           time.Time      `json:"date"`           // Work date
	Hours          float64        `json:"hours"`          // 0 < hours <= 24
	Billable       bool           `json:"billable"`
	Description    string         `json:"description"`
	Status         ApprovalStatus `json:"status"`
	ApprovedBy     *string        `json:"approvedBy,omitempty"`
	ApprovedAt     *time.Time     `json:"approvedAt,omitempty"`
	// RejectionComments holds the reviewer's reason while the entry sits in
	// REJECTED; cleared again on approval or revision.
	RejectionComments *string `json:"rejectionComments,omitempty"`
	// InvoiceID is set when a finalized invoice locks this entry.
	InvoiceID *string `json:"invoiceID,omitempty"`
	AuditFields
}
