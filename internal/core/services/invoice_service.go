package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tallyops/psa_backend/internal/apperrors"
	"github.com/tallyops/psa_backend/internal/core/domain"
	portsrepo "github.com/tallyops/psa_backend/internal/core/ports/repositories"
	portssvc "github.com/tallyops/psa_backend/internal/core/ports/services"
	"github.com/tallyops/psa_backend/internal/dto"
	"github.com/tallyops/psa_backend/internal/middleware"
	"github.com/tallyops/psa_backend/internal/utils/money"
)

// invoiceService drives invoices from draft through finalization to payment.
type invoiceService struct {
	invoiceRepo     portsrepo.InvoiceRepositoryWithTx
	projectRepo     portsrepo.ProjectReader
	billingSvc      portssvc.BillingCalculatorSvc
	organizationSvc portssvc.OrganizationSvcFacade
}

// NewInvoiceService creates a new InvoiceService.
func NewInvoiceService(
	invoiceRepo portsrepo.InvoiceRepositoryWithTx,
	projectRepo portsrepo.ProjectReader,
	billingSvc portssvc.BillingCalculatorSvc,
	organizationSvc portssvc.OrganizationSvcFacade,
) portssvc.InvoiceSvcFacade {
	return &invoiceService{
		invoiceRepo:     invoiceRepo,
		projectRepo:     projectRepo,
		billingSvc:      billingSvc,
		organizationSvc: organizationSvc,
	}
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

// findScopedProject fetches a project and verifies it belongs to the organization.
func (s *invoiceService) findScopedProject(ctx context.Context, organizationID string, projectID string) (*domain.Project, error) {
	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to find project %s: %w", projectID, err)
	}
	if project.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}
	return project, nil
}

// findScopedInvoice fetches an invoice with lines and verifies its organization.
func (s *invoiceService) findScopedInvoice(ctx context.Context, organizationID string, invoiceID string) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}
	if invoice.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound // Obscure existence
	}
	return invoice, nil
}

// GetInvoiceByID retrieves an invoice with its line items.
func (s *invoiceService) GetInvoiceByID(ctx context.Context, organizationID string, invoiceID string, requestingUserID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.organizationSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		logger.Warn("Authorization failed for GetInvoiceByID", slog.String("user_id", requestingUserID), slog.String("error", err.Error()))
		return nil, err
	}

	return s.findScopedInvoice(ctx, organizationID, invoiceID)
}

// ListInvoices retrieves invoices for a project, optionally filtered by status.
func (s *invoiceService) ListInvoices(ctx context.Context, organizationID string, projectID string, userID string, params dto.ListInvoicesParams) ([]domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.organizationSvc.AuthorizeUserAction(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		logger.Warn("Authorization failed for ListInvoices", "error", err)
		return nil, err
	}

	if _, err := s.findScopedProject(ctx, organizationID, projectID); err != nil {
		return nil, err
	}

	var statuses []domain.InvoiceStatus
	if params.Status != nil {
		statuses = []domain.InvoiceStatus{*params.Status}
	}

	invoices, err := s.invoiceRepo.ListInvoicesByProject(ctx, projectID, statuses)
	if err != nil {
		logger.Error("Failed to list invoices from repository", "error", err)
		return nil, fmt.Errorf("failed to retrieve invoices: %w", err)
	}

	return invoices, nil
}

// buildLineItems converts request lines into domain lines. Amount defaults to
// round(quantity * rate); a line carrying an explicit amount keeps it.
func buildLineItems(invoiceID string, inputs []dto.InvoiceLineItemInput) ([]domain.InvoiceLineItem, int64) {
	lines := make([]domain.InvoiceLineItem, 0, len(inputs))
	var subtotal int64
	for _, in := range inputs {
		amount := money.QuantityTimesRate(in.Quantity, in.Rate)
		if in.Amount != nil {
			amount = *in.Amount
		}
		lines = append(lines, domain.InvoiceLineItem{
			LineItemID:   uuid.NewString(),
			InvoiceID:    invoiceID,
			Description:  in.Description,
			Quantity:     in.Quantity,
			Rate:         in.Rate,
			Amount:       amount,
			TimeEntryIDs: in.TimeEntryIDs,
			ExpenseIDs:   in.ExpenseIDs,
			MilestoneID:  in.MilestoneID,
		})
		subtotal += amount
	}
	return lines, subtotal
}

// CreateDraftInvoice persists a manually composed draft invoice.
func (s *invoiceService) CreateDraftInvoice(ctx context.Context, organizationID string, req dto.CreateInvoiceRequest, creatorUserID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.organizationSvc.AuthorizeUserAction(ctx, creatorUserID, organizationID, domain.RoleManager); err != nil {
		logger.Warn("Authorization failed for CreateDraftInvoice", slog.String("user_id", creatorUserID), slog.String("error", err.Error()))
		return nil, err
	}

	project, err := s.findScopedProject(ctx, organizationID, req.ProjectID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	invoiceID := uuid.NewString()
	lines, subtotal := buildLineItems(invoiceID, req.LineItems)

	invoice := domain.Invoice{
		InvoiceID:      invoiceID,
		OrganizationID: organizationID,
		ProjectID:      req.ProjectID,
		CompanyID:      project.CompanyID,
		Method:         req.BillingMethod,
		Status:         domain.InvoiceDraft,
		Subtotal:       subtotal,
		Tax:            req.Tax,
		Total:          subtotal + req.Tax,
		IssueDate:      req.IssueDate,
		DueDate:        req.DueDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.invoiceRepo.SaveInvoice(ctx, invoice, lines); err != nil {
		logger.Error("Failed to save draft invoice", slog.String("error", err.Error()), slog.String("project_id", req.ProjectID))
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}

	invoice.LineItems = lines
	logger.Info("Draft invoice created", slog.String("invoice_id", invoiceID), slog.String("project_id", req.ProjectID))
	return &invoice, nil
}

// GenerateInvoice computes line items with the billing calculator for the
// requested method and persists the result as a draft.
func (s *invoiceService) GenerateInvoice(ctx context.Context, organizationID string, req dto.GenerateInvoiceRequest, creatorUserID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.organizationSvc.AuthorizeUserAction(ctx, creatorUserID, organizationID, domain.RoleManager); err != nil {
		logger.Warn("Authorization failed for GenerateInvoice", slog.String("user_id", creatorUserID), slog.String("error", err.Error()))
		return nil, err
	}

	project, err := s.findScopedProject(ctx, organizationID, req.ProjectID)
	if err != nil {
		return nil, err
	}

	var computation *dto.BillingComputation
	switch req.BillingMethod {
	case domain.BillingTimeAndMaterials:
		computation, err = s.billingSvc.ComputeTimeAndMaterials(ctx, req.ProjectID, req.Period)
	case domain.BillingFixedFee:
		computation, err = s.billingSvc.ComputeFixedFee(ctx, req.ProjectID, req.FixedFeePercentage)
	case domain.BillingMilestone:
		if req.MilestoneID == nil {
			return nil, fmt.Errorf("%w: milestoneID is required for milestone billing", apperrors.ErrValidation)
		}
		computation, err = s.billingSvc.ComputeMilestone(ctx, *req.MilestoneID)
	case domain.BillingRecurring:
		computation, err = s.billingSvc.ComputeRecurring(ctx, req.ProjectID, req.Period)
	default:
		return nil, fmt.Errorf("%w: unknown billing method %s", apperrors.ErrValidation, req.BillingMethod)
	}
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	invoiceID := uuid.NewString()
	lines := computation.LineItems
	for i := range lines {
		lines[i].InvoiceID = invoiceID
	}

	invoice := domain.Invoice{
		InvoiceID:      invoiceID,
		OrganizationID: organizationID,
		ProjectID:      req.ProjectID,
		CompanyID:      project.CompanyID,
		Method:         req.BillingMethod,
		Status:         domain.InvoiceDraft,
		Subtotal:       computation.Subtotal,
		Tax:            req.Tax,
		Total:          computation.Subtotal + req.Tax,
		IssueDate:      req.IssueDate,
		DueDate:        req.DueDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.invoiceRepo.SaveInvoice(ctx, invoice, lines); err != nil {
		logger.Error("Failed to save generated invoice", slog.String("error", err.Error()), slog.String("project_id", req.ProjectID))
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}

	invoice.LineItems = lines
	logger.Info("Invoice generated", slog.String("invoice_id", invoiceID), slog.String("method", string(req.BillingMethod)), slog.Int("line_count", len(lines)))
	return &invoice, nil
}

// UpdateDraftInvoice replaces a draft's line items and billing fields. Any
// non-draft invoice fails with ErrNotEditable.
func (s *invoiceService) UpdateDraftInvoice(ctx context.Context, organizationID string, invoiceID string, req dto.UpdateInvoiceRequest, requestingUserID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.organizationSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleManager); err != nil {
		logger.Warn("Authorization failed for UpdateDraftInvoice", slog.String("user_id", requestingUserID), slog.String("error", err.Error()))
		return nil, err
	}

	invoice, err := s.findScopedInvoice(ctx, organizationID, invoiceID)
	if err != nil {
		return nil, err
	}

	if invoice.Status != domain.InvoiceDraft {
		return nil, fmt.Errorf("%w: invoice is %s, only drafts can be edited", apperrors.ErrNotEditable, invoice.Status)
	}

	if req.IssueDate != nil {
		invoice.IssueDate = *req.IssueDate
	}
	if req.DueDate != nil {
		invoice.DueDate = *req.DueDate
	}
	if req.Tax != nil {
		invoice.Tax = *req.Tax
	}

	lines := invoice.LineItems
	if req.LineItems != nil {
		var subtotal int64
		lines, subtotal = buildLineItems(invoiceID, req.LineItems)
		invoice.Subtotal = subtotal
	}
	invoice.Total = invoice.Subtotal + invoice.Tax

	now := time.Now().UTC()
	invoice.LastUpdatedAt = now
	invoice.LastUpdatedBy = requestingUserID

	if err := s.invoiceRepo.UpdateDraftInvoice(ctx, *invoice, lines); err != nil {
		logger.Error("Failed to update draft invoice", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}

	invoice.LineItems = lines
	return invoice, nil
}

// FinalizeInvoice assigns the next sequential number for the organization and
// year, stamps the finalize fields, locks every source time entry and expense,
// and links every source milestone, all in one transaction. Finalizing an
// empty invoice is permitted but flagged in the response.
func (s *invoiceService) FinalizeInvoice(ctx context.Context, organizationID string, invoiceID string, requestingUserID string) (*dto.FinalizeInvoiceResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.organizationSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleManager); err != nil {
		logger.Warn("Authorization failed for FinalizeInvoice", slog.String("user_id", requestingUserID), slog.String("error", err.Error()))
		return nil, err
	}

	invoice, err := s.findScopedInvoice(ctx, organizationID, invoiceID)
	if err != nil {
		return nil, err
	}

	if invoice.Status != domain.InvoiceDraft {
		return nil, fmt.Errorf("%w: invoice is %s", apperrors.ErrAlreadyFinalized, invoice.Status)
	}

	var sources portsrepo.InvoiceSources
	for _, line := range invoice.LineItems {
		sources.TimeEntryIDs = append(sources.TimeEntryIDs, line.TimeEntryIDs...)
		sources.ExpenseIDs = append(sources.ExpenseIDs, line.ExpenseIDs...)
		if line.MilestoneID != nil {
			sources.MilestoneIDs = append(sources.MilestoneIDs, *line.MilestoneID)
		}
	}

	empty := len(invoice.LineItems) == 0
	if empty {
		logger.Warn("Finalizing invoice with no line items", slog.String("invoice_id", invoiceID))
	}

	now := time.Now().UTC()
	number, err := s.invoiceRepo.FinalizeInvoice(ctx, *invoice, sources, requestingUserID, now)
	if err != nil {
		logger.Error("Failed to finalize invoice", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		return nil, fmt.Errorf("failed to finalize invoice: %w", err)
	}

	invoice.Status = domain.InvoiceFinalized
	invoice.Number = &number
	invoice.FinalizedAt = &now
	invoice.FinalizedBy = &requestingUserID
	invoice.LastUpdatedAt = now
	invoice.LastUpdatedBy = requestingUserID

	logger.Info("Invoice finalized", slog.String("invoice_id", invoiceID), slog.String("number", number), slog.Bool("empty", empty))
	return &dto.FinalizeInvoiceResponse{
		Invoice:      dto.ToInvoiceResponse(invoice),
		Number:       number,
		EmptyInvoice: empty,
	}, nil
}

// transition moves an invoice along the status machine after validating the edge.
func (s *invoiceService) transition(ctx context.Context, organizationID string, invoiceID string, next domain.InvoiceStatus, requestingUserID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.organizationSvc.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleManager); err != nil {
		logger.Warn("Authorization failed for invoice transition", slog.String("user_id", requestingUserID), slog.String("target_status", string(next)), slog.String("error", err.Error()))
		return nil, err
	}

	invoice, err := s.findScopedInvoice(ctx, organizationID, invoiceID)
	if err != nil {
		return nil, err
	}

	if !invoice.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: invoice cannot move from %s to %s", apperrors.ErrInvalidState, invoice.Status, next)
	}

	now := time.Now().UTC()
	if err := s.invoiceRepo.UpdateInvoiceStatus(ctx, invoiceID, next, requestingUserID, now); err != nil {
		logger.Error("Failed to update invoice status", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		return nil, fmt.Errorf("failed to update invoice status: %w", err)
	}

	invoice.Status = next
	invoice.LastUpdatedAt = now
	invoice.LastUpdatedBy = requestingUserID

	logger.Info("Invoice status updated", slog.String("invoice_id", invoiceID), slog.String("status", string(next)))
	return invoice, nil
}

// MarkInvoiceSent moves FINALIZED -> SENT.
func (s *invoiceService) MarkInvoiceSent(ctx context.Context, organizationID string, invoiceID string, requestingUserID string) (*domain.Invoice, error) {
	return s.transition(ctx, organizationID, invoiceID, domain.InvoiceSent, requestingUserID)
}

// MarkInvoiceViewed moves SENT -> VIEWED.
func (s *invoiceService) MarkInvoiceViewed(ctx context.Context, organizationID string, invoiceID string, requestingUserID string) (*domain.Invoice, error) {
	return s.transition(ctx, organizationID, invoiceID, domain.InvoiceViewed, requestingUserID)
}

// MarkInvoicePaid moves SENT/VIEWED -> PAID.
func (s *invoiceService) MarkInvoicePaid(ctx context.Context, organizationID string, invoiceID string, requestingUserID string) (*domain.Invoice, error) {
	return s.transition(ctx, organizationID, invoiceID, domain.InvoicePaid, requestingUserID)
}

// VoidInvoice administratively voids any non-PAID invoice. A voided invoice
// is excluded from all revenue aggregation.
func (s *invoiceService) VoidInvoice(ctx context.Context, organizationID string, invoiceID string, requestingUserID string) (*domain.Invoice, error) {
	return s.transition(ctx, organizationID, invoiceID, domain.InvoiceVoid, requestingUserID)
}
