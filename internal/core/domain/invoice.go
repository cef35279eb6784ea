package domain

import "time"

// BillingMethod determines how an invoice's line items are computed.
type BillingMethod string

const (
	BillingTimeAndMaterials BillingMethod = "TIME_AND_MATERIALS"
	BillingFixedFee         BillingMethod = "FIXED_FEE"
	BillingMilestone        BillingMethod = "MILESTONE"
	BillingRecurring        BillingMethod = "RECURRING"
)

// InvoiceStatus is the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "DRAFT"
	InvoiceFinalized InvoiceStatus = "FINALIZED"
	InvoiceSent      InvoiceStatus = "SENT"
	InvoiceViewed    InvoiceStatus = "VIEWED"
	InvoicePaid      InvoiceStatus = "PAID"
	InvoiceVoid      InvoiceStatus = "VOID"
)

// invoiceStatusTransitions is the static table of permitted invoice status
// edges. VOID is reachable from every non-PAID state as an administrative exit.
var invoiceStatusTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceDraft:     {InvoiceFinalized, InvoiceVoid},
	InvoiceFinalized: {InvoiceSent, InvoiceVoid},
	InvoiceSent:      {InvoiceViewed, InvoicePaid, InvoiceVoid},
	InvoiceViewed:    {InvoicePaid, InvoiceVoid},
	InvoicePaid:      {},
	InvoiceVoid:      {},
}

// CanTransitionTo reports whether the invoice status may move to next.
func (s InvoiceStatus) CanTransitionTo(next InvoiceStatus) bool {
	for _, candidate := range invoiceStatusTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// CountsAsRevenue reports whether invoices in this status are recognized in
// project revenue. Recognition policy is PAID only.
func (s InvoiceStatus) CountsAsRevenue() bool {
	return s == InvoicePaid
}

// Invoice represents a client bill for a project.
type Invoice struct {
	InvoiceID      string        `json:"invoiceID"`      // Primary Key (e.g., UUID)
	OrganizationID string        `json:"organizationID"` // FK -> organizations.organization_id (Not Null)
	ProjectID      string        `json:"projectID"`      // FK -> projects.project_id (Not Null)
	CompanyID      string        `json:"companyID"`      // Billed company
	Method         BillingMethod `json:"method"`
	Status         InvoiceStatus `json:"status"`
	// Number is assigned exactly once, on finalize, from the per-organization
	// per-year sequence. Format INV-<year>-<5-digit-seq>.
	Number      *string           `json:"number,omitempty"`
	Subtotal    int64             `json:"subtotal"` // Minor currency units
	Tax         int64             `json:"tax"`
	Total       int64             `json:"total"` // subtotal + tax; immutable once finalized
	IssueDate   time.Time         `json:"issueDate"`
	DueDate     time.Time         `json:"dueDate"`
	FinalizedAt *time.Time        `json:"finalizedAt,omitempty"`
	FinalizedBy *string           `json:"finalizedBy,omitempty"`
	LineItems   []InvoiceLineItem `json:"lineItems,omitempty"` // Often loaded separately
	AuditFields
}

// InvoiceLineItem is a single billed line. Amount is stored explicitly rather
// than derived so a draft line can carry a manual override.
type InvoiceLineItem struct {
	LineItemID  string  `json:"lineItemID"` // Primary Key (e.g., UUID)
	InvoiceID   string  `json:"invoiceID"`  // FK -> invoices.invoice_id (Not Null)
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Rate        int64   `json:"rate"`   // Minor units per quantity unit
	Amount      int64   `json:"amount"` // Minor units; defaults to round(quantity * rate)
	// Source traceability: the approved records this line aggregates. These are
	// the records locked when the invoice is finalized.
	TimeEntryIDs []string `json:"timeEntryIDs,omitempty"`
	ExpenseIDs   []string `json:"expenseIDs,omitempty"`
	MilestoneID  *string  `json:"milestoneID,omitempty"`
}
