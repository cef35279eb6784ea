package repositories

import (
	"context"
	"time"

	"github.com/tallyops/psa_backend/internal/core/domain"
)

// InvoiceSources names the approved records an invoice's line items aggregate.
// These are the records locked (or linked) when the invoice is finalized.
type InvoiceSources struct {
	TimeEntryIDs []string
	ExpenseIDs   []string
	MilestoneIDs []string
}

// InvoiceReader defines read operations for invoice data
type InvoiceReader interface {
	// FindInvoiceByID retrieves a specific invoice with its line items.
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// ListInvoicesByProject retrieves all invoices for a project, optionally
	// filtered to the given statuses (nil means all). Line items not populated.
	ListInvoicesByProject(ctx context.Context, projectID string, statuses []domain.InvoiceStatus) ([]domain.Invoice, error)

	// ListInvoicesByOrganization retrieves a paginated list of invoices using
	// token-based pagination. Line items not populated.
	ListInvoicesByOrganization(ctx context.Context, organizationID string, limit int, nextToken *string) ([]domain.Invoice, *string, error)
}

// InvoiceWriter defines write operations for invoice data
type InvoiceWriter interface {
	// SaveInvoice persists a new draft invoice together with its line items.
	SaveInvoice(ctx context.Context, invoice domain.Invoice, lineItems []domain.InvoiceLineItem) error

	// UpdateDraftInvoice replaces a draft invoice's mutable fields and line
	// items. The service layer guarantees only drafts reach this.
	UpdateDraftInvoice(ctx context.Context, invoice domain.Invoice, lineItems []domain.InvoiceLineItem) error

	// UpdateInvoiceStatus moves an invoice to the given status.
	UpdateInvoiceStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus, updatedBy string, updatedAt time.Time) error

	// FinalizeInvoice atomically, in a single database transaction: increments
	// the per-organization per-year invoice counter, assigns the resulting
	// number, stamps finalizedAt/finalizedBy, locks the source time entries and
	// expenses, and links the source milestones. Returns the assigned number.
	FinalizeInvoice(ctx context.Context, invoice domain.Invoice, sources InvoiceSources, finalizedBy string, finalizedAt time.Time) (string, error)
}

// InvoiceRepositoryFacade combines all invoice repository interfaces
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
}

// InvoiceRepositoryWithTx extends InvoiceRepositoryFacade with transaction capabilities
type InvoiceRepositoryWithTx interface {
	InvoiceRepositoryFacade
	TransactionManager
}
