package mapping

import (
	"github.com/tallyops/psa_backend/internal/core/domain"
	"github.com/tallyops/psa_backend/internal/models"
)

// ToModelExpense converts a domain Expense to a model Expense
func ToModelExpense(d domain.Expense) models.Expense {
	return models.Expense{
		ExpenseID:         d.ExpenseID,
		OrganizationID:    d.OrganizationID,
		ProjectID:         d.ProjectID,
		UserID:            d.UserID,
		ExpenseDate:       d.Date,
		Amount:            d.Amount,
		ExpenseType:       string(d.Type),
		Billable:          d.Billable,
		MarkupRate:        d.MarkupRate,
		Description:       d.Description,
		ReceiptURL:        nullString(d.ReceiptURL),
		Status:            string(d.Status),
		ApprovedBy:        nullString(d.ApprovedBy),
		ApprovedAt:        nullTime(d.ApprovedAt),
		RejectionComments: nullString(d.RejectionComments),
		InvoiceID:         nullString(d.InvoiceID),
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainExpense converts a model Expense to a domain Expense
func ToDomainExpense(m models.Expense) domain.Expense {
	return domain.Expense{
		ExpenseID:         m.ExpenseID,
		OrganizationID:    m.OrganizationID,
		ProjectID:         m.ProjectID,
		UserID:            m.UserID,
		Date:              m.ExpenseDate,
		Amount:            m.Amount,
		Type:              domain.ExpenseType(m.ExpenseType),
		Billable:          m.Billable,
		MarkupRate:        m.MarkupRate,
		Description:       m.Description,
		ReceiptURL:        stringPtr(m.ReceiptURL),
		Status:            domain.ApprovalStatus(m.Status),
		ApprovedBy:        stringPtr(m.ApprovedBy),
		ApprovedAt:        timePtr(m.ApprovedAt),
		RejectionComments: stringPtr(m.RejectionComments),
		InvoiceID:         stringPtr(m.InvoiceID),
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainExpenseSlice converts a slice of model Expenses to a slice of domain Expenses
func ToDomainExpenseSlice(ms []models.Expense) []domain.Expense {
	ds := make([]domain.Expense, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainExpense(m)
	}
	return ds
}
