package models

import (
	"database/sql"
	"time"
)

// Milestone represents a deliverable row billed on completion.
type Milestone struct {
	MilestoneID    string         `db:"milestone_id"`
	OrganizationID string         `db:"organization_id"`
	ProjectID      string         `db:"project_id"`
	Name           string         `db:"name"`
	Amount         int64          `db:"amount"`
	Percentage     float64        `db:"percentage"`
	DueDate        time.Time      `db:"due_date"`
	CompletedAt    sql.NullTime   `db:"completed_at"`
	InvoiceID      sql.NullString `db:"invoice_id"`
	AuditFields
}
