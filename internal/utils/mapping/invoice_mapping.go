package mapping

import (
	"github.com/tallyops/psa_backend/internal/core/domain"
	"github.com/tallyops/psa_backend/internal/models"
)

// ToModelInvoice converts a domain Invoice to a model Invoice. Line items are
// mapped separately since they live in their own table.
func ToModelInvoice(d domain.Invoice) models.Invoice {
	return models.Invoice{
		InvoiceID:      d.InvoiceID,
		OrganizationID: d.OrganizationID,
		ProjectID:      d.ProjectID,
		CompanyID:      d.CompanyID,
		BillingMethod:  string(d.Method),
		Status:         string(d.Status),
		Number:         nullString(d.Number),
		Subtotal:       d.Subtotal,
		Tax:            d.Tax,
		Total:          d.Total,
		IssueDate:      d.IssueDate,
		DueDate:        d.DueDate,
		FinalizedAt:    nullTime(d.FinalizedAt),
		FinalizedBy:    nullString(d.FinalizedBy),
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInvoice converts a model Invoice to a domain Invoice
func ToDomainInvoice(m models.Invoice) domain.Invoice {
	return domain.Invoice{
		InvoiceID:      m.InvoiceID,
		OrganizationID: m.OrganizationID,
		ProjectID:      m.ProjectID,
		CompanyID:      m.CompanyID,
		Method:         domain.BillingMethod(m.BillingMethod),
		Status:         domain.InvoiceStatus(m.Status),
		Number:         stringPtr(m.Number),
		Subtotal:       m.Subtotal,
		Tax:            m.Tax,
		Total:          m.Total,
		IssueDate:      m.IssueDate,
		DueDate:        m.DueDate,
		FinalizedAt:    timePtr(m.FinalizedAt),
		FinalizedBy:    stringPtr(m.FinalizedBy),
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainInvoiceSlice converts a slice of model Invoices to a slice of domain Invoices
func ToDomainInvoiceSlice(ms []models.Invoice) []domain.Invoice {
	ds := make([]domain.Invoice, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainInvoice(m)
	}
	return ds
}

// ToModelInvoiceLineItem converts a domain InvoiceLineItem to a model InvoiceLineItem
func ToModelInvoiceLineItem(d domain.InvoiceLineItem) models.InvoiceLineItem {
	return models.InvoiceLineItem{
		LineItemID:   d.LineItemID,
		InvoiceID:    d.InvoiceID,
		Description:  d.Description,
		Quantity:     d.Quantity,
		Rate:         d.Rate,
		Amount:       d.Amount,
		TimeEntryIDs: d.TimeEntryIDs,
		ExpenseIDs:   d.ExpenseIDs,
		MilestoneID:  nullString(d.MilestoneID),
	}
}

// ToDomainInvoiceLineItem converts a model InvoiceLineItem to a domain InvoiceLineItem
func ToDomainInvoiceLineItem(m models.InvoiceLineItem) domain.InvoiceLineItem {
	return domain.InvoiceLineItem{
		LineItemID:   m.LineItemID,
		InvoiceID:    m.InvoiceID,
		Description:  m.Description,
		Quantity:     m.Quantity,
		Rate:         m.Rate,
		Amount:       m.Amount,
		TimeEntryIDs: m.TimeEntryIDs,
		ExpenseIDs:   m.ExpenseIDs,
		MilestoneID:  stringPtr(m.MilestoneID),
	}
}

// ToDomainInvoiceLineItemSlice converts a slice of model line items to domain line items
func ToDomainInvoiceLineItemSlice(ms []models.InvoiceLineItem) []domain.InvoiceLineItem {
	ds := make([]domain.InvoiceLineItem, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainInvoiceLineItem(m)
	}
	return ds
}
