package dto

import (
	"time"

	"github.com/tallyops/psa_backend/internal/core/domain"
)

// --- Invoice DTOs ---

// InvoiceLineItemInput is a manually entered line on a draft invoice.
// Amount, when set, overrides the computed quantity * rate for lines
// whose value does not derive from the two (a discount, a lump sum).
type InvoiceLineItemInput struct {
	Description  string   `json:"description" binding:"required"`
	Quantity     float64  `json:"quantity" binding:"required,gt=0"`
	Rate         int64    `json:"rate" binding:"required_without=Amount"`
	Amount       *int64   `json:"amount"`
	TimeEntryIDs []string `json:"timeEntryIDs"`
	ExpenseIDs   []string `json:"expenseIDs"`
	MilestoneID  *string  `json:"milestoneID"`
}

// CreateInvoiceRequest defines data for a manually composed draft invoice.
type CreateInvoiceRequest struct {
	ProjectID     string                 `json:"projectID" binding:"required"`
	BillingMethod domain.BillingMethod   `json:"billingMethod" binding:"required"`
	IssueDate     time.Time              `json:"issueDate" binding:"required"`
	DueDate       time.Time              `json:"dueDate" binding:"required"`
	Tax           int64                  `json:"tax" binding:"min=0"`
	LineItems     []InvoiceLineItemInput `json:"lineItems"`
}

// GenerateInvoiceRequest asks the billing calculator to build the draft's
// lines from approved uninvoiced work in the period. FixedFeePercentage,
// when set, bills that percentage of the budget instead of the full amount.
// MilestoneID is required for the MILESTONE method and ignored otherwise.
type GenerateInvoiceRequest struct {
	ProjectID          string               `json:"projectID" binding:"required"`
	BillingMethod      domain.BillingMethod `json:"billingMethod" binding:"required"`
	Period             BillingPeriod        `json:"period" binding:"required"`
	IssueDate          time.Time            `json:"issueDate" binding:"required"`
	DueDate            time.Time            `json:"dueDate" binding:"required"`
	Tax                int64                `json:"tax" binding:"min=0"`
	FixedFeePercentage *float64             `json:"fixedFeePercentage" binding:"omitempty,gt=0,lte=100"`
	MilestoneID        *string              `json:"milestoneID"`
}

// UpdateInvoiceRequest replaces a draft invoice's editable fields.
type UpdateInvoiceRequest struct {
	IssueDate *time.Time             `json:"issueDate"`
	DueDate   *time.Time             `json:"dueDate"`
	Tax       *int64                 `json:"tax" binding:"omitempty,min=0"`
	LineItems []InvoiceLineItemInput `json:"lineItems"`
}

// ListInvoicesParams defines query parameters for listing invoices.
type ListInvoicesParams struct {
	Status    *domain.InvoiceStatus `form:"status"`
	Limit     int                   `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken string                `form:"nextToken"`
}

// FinalizeInvoiceResponse reports the outcome of finalization. EmptyInvoice
// is set when the invoice was finalized with no line items.
type FinalizeInvoiceResponse struct {
	Invoice      InvoiceResponse `json:"invoice"`
	Number       string          `json:"number"`
	EmptyInvoice bool            `json:"emptyInvoice"`
}

// InvoiceLineItemResponse defines data returned for one invoice line.
type InvoiceLineItemResponse struct {
	LineItemID   string   `json:"lineItemID"`
	Description  string   `json:"description"`
	Quantity     float64  `json:"quantity"`
	Rate         int64    `json:"rate"`
	Amount       int64    `json:"amount"`
	TimeEntryIDs []string `json:"timeEntryIDs,omitempty"`
	ExpenseIDs   []string `json:"expenseIDs,omitempty"`
	MilestoneID  *string  `json:"milestoneID,omitempty"`
}

// InvoiceResponse defines data returned for an invoice.
type InvoiceResponse struct {
	InvoiceID     string                    `json:"invoiceID"`
	ProjectID     string                    `json:"projectID"`
	Number        *string                   `json:"number,omitempty"`
	Status        domain.InvoiceStatus      `json:"status"`
	BillingMethod domain.BillingMethod      `json:"billingMethod"`
	Subtotal      int64                     `json:"subtotal"`
	Tax           int64                     `json:"tax"`
	Total         int64                     `json:"total"`
	IssueDate     time.Time                 `json:"issueDate"`
	DueDate       time.Time                 `json:"dueDate"`
	FinalizedAt   *time.Time                `json:"finalizedAt,omitempty"`
	FinalizedBy   *string                   `json:"finalizedBy,omitempty"`
	LineItems     []InvoiceLineItemResponse `json:"lineItems"`
}

// ToInvoiceResponse converts domain.Invoice to DTO.
func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	lines := make([]InvoiceLineItemResponse, 0, len(inv.LineItems))
	for _, li := range inv.LineItems {
		lines = append(lines, InvoiceLineItemResponse{
			LineItemID:   li.LineItemID,
			Description:  li.Description,
			Quantity:     li.Quantity,
			Rate:         li.Rate,
			Amount:       li.Amount,
			TimeEntryIDs: li.TimeEntryIDs,
			ExpenseIDs:   li.ExpenseIDs,
			MilestoneID:  li.MilestoneID,
		})
	}
	return InvoiceResponse{
		InvoiceID:     inv.InvoiceID,
		ProjectID:     inv.ProjectID,
		Number:        inv.Number,
		Status:        inv.Status,
		BillingMethod: inv.Method,
		Subtotal:      inv.Subtotal,
		Tax:           inv.Tax,
		Total:         inv.Total,
		IssueDate:     inv.IssueDate,
		DueDate:       inv.DueDate,
		FinalizedAt:   inv.FinalizedAt,
		FinalizedBy:   inv.FinalizedBy,
		LineItems:     lines,
	}
}

// ToListInvoicesResponse converts a slice of invoices to DTOs.
func ToListInvoicesResponse(invoices []domain.Invoice) []InvoiceResponse {
	out := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		out = append(out, ToInvoiceResponse(&invoices[i]))
	}
	return out
}
