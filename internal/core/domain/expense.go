package domain

import "time"

// ExpenseType categorizes a project expense.
type ExpenseType string

const (
	ExpenseTravel        ExpenseType = "TRAVEL"
	ExpenseMaterials     ExpenseType = "MATERIALS"
	ExpenseSoftware      ExpenseType = "SOFTWARE"
	ExpenseSubcontractor ExpenseType = "SUBCONTRACTOR"
	ExpenseOther         ExpenseType = "OTHER"
)

// Expense represents a cost item booked by a user against a project.
type Expense struct {
	ExpenseID      string      `json:"expenseID"`      // Primary Key (e.g., UUID)
	OrganizationID string      `json:"organizationID"` // FK -> organizations.organization_id (Not Null)
	ProjectID      string      `json:"projectID"`      // FK -> projects.project_id (Not Null)
	UserID         string      `json:"userID"`         // Submitting user (owner)
	Date           time.Time   `json:"date"`
	Amount         int64       `json:"amount"` // Base cost in minor currency units, pre-markup
	Type           ExpenseType `json:"type"`
	Billable       bool        `json:"billable"`
	// MarkupRate is the fractional markup applied when billing the client,
	// e.g. 0.15 bills the expense at 115% of its base cost.
	MarkupRate        float64        `json:"markupRate"`
	Description       string         `json:"description"`
	ReceiptURL        *string        `json:"receiptUrl,omitempty"`
	Status            ApprovalStatus `json:"status"`
	ApprovedBy        *string        `json:"approvedBy,omitempty"`
	ApprovedAt        *time.Time     `json:"approvedAt,omitempty"`
	RejectionComments *string        `json:"rejectionComments,omitempty"`
	InvoiceID         *string        `json:"invoiceID,omitempty"`
	AuditFields
}
