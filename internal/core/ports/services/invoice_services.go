package services

import (
	"context"

	"github.com/tallyops/psa_backend/internal/core/domain"
	"github.com/tallyops/psa_backend/internal/dto"
)

// InvoiceReaderSvc defines read operations for invoice data
type InvoiceReaderSvc interface {
	// GetInvoiceByID retrieves an invoice with its line items.
	GetInvoiceByID(ctx context.Context, organizationID string, invoiceID string, requestingUserID string) (*domain.Invoice, error)

	// ListInvoices retrieves invoices for a project, optionally filtered by status.
	ListInvoices(ctx context.Context, organizationID string, projectID string, userID string, params dto.ListInvoicesParams) ([]domain.Invoice, error)
}

// InvoiceWriterSvc defines draft-stage mutations
type InvoiceWriterSvc interface {
	// CreateDraftInvoice persists a manually composed draft invoice.
	CreateDraftInvoice(ctx context.Context, organizationID string, req dto.CreateInvoiceRequest, creatorUserID string) (*domain.Invoice, error)

	// GenerateInvoice computes line items with the billing calculator for the
	// requested method and persists the result as a draft.
	GenerateInvoice(ctx context.Context, organizationID string, req dto.GenerateInvoiceRequest, creatorUserID string) (*domain.Invoice, error)

	// UpdateDraftInvoice replaces a draft's line items and billing fields.
	// Fails with ErrNotEditable for any non-draft invoice.
	UpdateDraftInvoice(ctx context.Context, organizationID string, invoiceID string, req dto.UpdateInvoiceRequest, requestingUserID string) (*domain.Invoice, error)
}

// InvoiceLifecycleSvc drives the invoice through its status machine
type InvoiceLifecycleSvc interface {
	// FinalizeInvoice assigns the next sequential invoice number for the
	// organization and year, stamps the finalize fields, and locks every
	// source time entry/expense and links every source milestone, all in one
	// transaction. Finalizing an empty invoice is permitted but flagged.
	FinalizeInvoice(ctx context.Context, organizationID string, invoiceID string, requestingUserID string) (*dto.FinalizeInvoiceResponse, error)

	// MarkInvoiceSent moves FINALIZED -> SENT.
	MarkInvoiceSent(ctx context.Context, organizationID string, invoiceID string, requestingUserID string) (*domain.Invoice, error)

	// MarkInvoiceViewed moves SENT -> VIEWED.
	MarkInvoiceViewed(ctx context.Context, organizationID string, invoiceID string, requestingUserID string) (*domain.Invoice, error)

	// MarkInvoicePaid moves SENT/VIEWED -> PAID.
	MarkInvoicePaid(ctx context.Context, organizationID string, invoiceID string, requestingUserID string) (*domain.Invoice, error)

	// VoidInvoice administratively voids any non-PAID invoice, excluding it
	// from all revenue aggregation.
	VoidInvoice(ctx context.Context, organizationID string, invoiceID string, requestingUserID string) (*domain.Invoice, error)
}

// InvoiceSvcFacade combines all invoice service interfaces
type InvoiceSvcFacade interface {
	InvoiceReaderSvc
	InvoiceWriterSvc
	InvoiceLifecycleSvc
}
