package domain

import "time"

// Milestone represents a fixed deliverable of a project billed on completion.
type Milestone struct {
	MilestoneID    string     `json:"milestoneID"`    // Primary Key (e.g., UUID)
	OrganizationID string     `json:"organizationID"` // FK -> organizations.organization_id (Not Null)
	ProjectID      string     `json:"projectID"`      // FK -> projects.project_id (Not Null)
	Name           string     `json:"name"`
	Amount         int64      `json:"amount"`     // Billed amount in minor currency units
	Percentage     float64    `json:"percentage"` // Share of the project budget, informational
	DueDate        time.Time  `json:"dueDate"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
	// InvoiceID links the milestone to at most one invoice. A milestone is
	// invoiceable only when completed and InvoiceID is unset.
	InvoiceID *string `json:"invoiceID,omitempty"`
	AuditFields
}

// IsInvoiceable reports whether the milestone is completed and not yet billed.
func (m Milestone) IsInvoiceable() bool {
	return m.CompletedAt != nil && m.InvoiceID == nil
}
