package dto

import (
	"time"

	"github.com/tallyops/psa_backend/internal/core/domain"
)

// --- Expense DTOs ---

// CreateExpenseRequest defines data for creating a new draft expense.
type CreateExpenseRequest struct {
	ProjectID   string             `json:"projectID" binding:"required"`
	Date        time.Time          `json:"date" binding:"required"`
	Amount      int64              `json:"amount" binding:"required,gt=0"` // Minor currency units
	Type        domain.ExpenseType `json:"type" binding:"required"`
	Billable    bool               `json:"billable"`
	MarkupRate  float64            `json:"markupRate" binding:"min=0"`
	Description string             `json:"description"`
	ReceiptURL  *string            `json:"receiptUrl"`
}

// UpdateExpenseRequest edits a draft or rejected expense.
type UpdateExpenseRequest struct {
	Date        *time.Time          `json:"date"`
	Amount      *int64              `json:"amount" binding:"omitempty,gt=0"`
	Type        *domain.ExpenseType `json:"type"`
	Billable    *bool               `json:"billable"`
	MarkupRate  *float64            `json:"markupRate" binding:"omitempty,min=0"`
	Description *string             `json:"description"`
	ReceiptURL  *string             `json:"receiptUrl"`
}

// ReviseExpenseRequest corrects a rejected expense. Resubmit chooses whether
// the correction goes straight back to SUBMITTED or parks as a draft.
type ReviseExpenseRequest struct {
	Amount   int64 `json:"amount" binding:"required,gt=0"`
	Resubmit bool  `json:"resubmit"`
}

// ExpenseResponse defines data returned for an expense. BilledAmount is the
// client-facing figure after markup.
type ExpenseResponse struct {
	ExpenseID         string                `json:"expenseID"`
	ProjectID         string                `json:"projectID"`
	UserID            string                `json:"userID"`
	Date              time.Time             `json:"date"`
	Amount            int64                 `json:"amount"`
	BilledAmount      int64                 `json:"billedAmount"`
	Type              domain.ExpenseType    `json:"type"`
	Billable          bool                  `json:"billable"`
	MarkupRate        float64               `json:"markupRate"`
	Description       string                `json:"description"`
	ReceiptURL        *string               `json:"receiptUrl,omitempty"`
	Status            domain.ApprovalStatus `json:"status"`
	ApprovedBy        *string               `json:"approvedBy,omitempty"`
	ApprovedAt        *time.Time            `json:"approvedAt,omitempty"`
	RejectionComments *string               `json:"rejectionComments,omitempty"`
	InvoiceID         *string               `json:"invoiceID,omitempty"`
}

// ToExpenseResponse converts domain.Expense to DTO.
func ToExpenseResponse(e *domain.Expense, billedAmount int64) ExpenseResponse {
	return ExpenseResponse{
		ExpenseID:         e.ExpenseID,
		ProjectID:         e.ProjectID,
		UserID:            e.UserID,
		Date:              e.Date,
		Amount:            e.Amount,
		BilledAmount:      billedAmount,
		Type:              e.Type,
		Billable:          e.Billable,
		MarkupRate:        e.MarkupRate,
		Description:       e.Description,
		ReceiptURL:        e.ReceiptURL,
		Status:            e.Status,
		ApprovedBy:        e.ApprovedBy,
		ApprovedAt:        e.ApprovedAt,
		RejectionComments: e.RejectionComments,
		InvoiceID:         e.InvoiceID,
	}
}
