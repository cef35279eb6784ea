package models

import (
	"database/sql"
	"time"
)

// Invoice represents a client bill row. Number stays NULL until finalize
// assigns one from the per-organization per-year counter.
type Invoice struct {
	InvoiceID      string         `db:"invoice_id"`
	OrganizationID string         `db:"organization_id"`
	ProjectID      string         `db:"project_id"`
	CompanyID      string         `db:"company_id"`
	BillingMethod  string         `db:"billing_method"`
	Status         string         `db:"status"`
	Number         sql.NullString `db:"number"`
	Subtotal       int64          `db:"subtotal"`
	Tax            int64          `db:"tax"`
	Total          int64          `db:"total"`
	IssueDate      time.Time      `db:"issue_date"`
	DueDate        time.Time      `db:"due_date"`
	FinalizedAt    sql.NullTime   `db:"finalized_at"`
	FinalizedBy    sql.NullString `db:"finalized_by"`
	AuditFields
}

// InvoiceLineItem represents a billed line row. The source ID slices map to
// text[] columns for traceability back to the aggregated records.
type InvoiceLineItem struct {
	LineItemID   string         `db:"line_item_id"`
	InvoiceID    string         `db:"invoice_id"`
	Description  string         `db:"description"`
	Quantity     float64        `db:"quantity"`
	Rate         int64          `db:"rate"`
	Amount       int64          `db:"amount"`
	TimeEntryIDs []string       `db:"time_entry_ids"`
	ExpenseIDs   []string       `db:"expense_ids"`
	MilestoneID  sql.NullString `db:"milestone_id"`
}
