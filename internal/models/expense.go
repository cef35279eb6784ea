package models

import (
	"database/sql"
	"time"
)

// Expense represents a project expense row. Amount is the pre-markup base
// cost in minor currency units.
type Expense struct {
	ExpenseID         string         `db:"expense_id"`
	OrganizationID    string         `db:"organization_id"`
	ProjectID         string         `db:"project_id"`
	UserID            string         `db:"user_id"`
	ExpenseDate       time.Time      `db:"expense_date"`
	Amount            int64          `db:"amount"`
	ExpenseType       string         `db:"expense_type"`
	Billable          bool           `db:"billable"`
	MarkupRate        float64        `db:"markup_rate"`
	Description       string         `db:"description"`
	ReceiptURL        sql.NullString `db:"receipt_url"`
	Status            string         `db:"status"`
	ApprovedBy        sql.NullString `db:"approved_by"`
	ApprovedAt        sql.NullTime   `db:"approved_at"`
	RejectionComments sql.NullString `db:"rejection_comments"`
	InvoiceID         sql.NullString `db:"invoice_id"`
	AuditFields
}
