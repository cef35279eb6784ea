package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tallyops/psa_backend/internal/core/domain"
	portssvc "github.com/tallyops/psa_backend/internal/core/ports/services"
	"github.com/tallyops/psa_backend/internal/dto"
	"github.com/tallyops/psa_backend/internal/middleware"
)

// invoiceHandler holds dependencies for invoice endpoints.
type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
}

// lifecycleOp is the shared shape of the invoice status transitions.
type lifecycleOp func(ctx context.Context, organizationID, invoiceID, requestingUserID string) (*domain.Invoice, error)

// registerInvoiceRoutes sets up the routes for invoicing within an organization.
func registerInvoiceRoutes(rg *gin.RouterGroup, is portssvc.InvoiceSvcFacade) {
	h := &invoiceHandler{invoiceService: is}

	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.createDraftInvoice)
		invoices.POST("/generate", h.generateInvoice)
		invoices.GET("/:invoice_id", h.getInvoice)
		invoices.PUT("/:invoice_id", h.updateDraftInvoice)
		invoices.POST("/:invoice_id/finalize", h.finalizeInvoice)
		invoices.POST("/:invoice_id/sent", h.markSent)
		invoices.POST("/:invoice_id/viewed", h.markViewed)
		invoices.POST("/:invoice_id/paid", h.markPaid)
		invoices.POST("/:invoice_id/void", h.voidInvoice)
	}

	rg.GET("/projects/:project_id/invoices", h.listInvoices)
}

// createDraftInvoice godoc
// @Summary Create draft invoice
// @Description Creates a manually composed draft invoice.
// @Tags invoices
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param invoice body dto.CreateInvoiceRequest true "Invoice details"
// @Success 201 {object} dto.InvoiceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/invoices [post]
func (h *invoiceHandler) createDraftInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	inv, err := h.invoiceService.CreateDraftInvoice(c.Request.Context(), c.Param("organization_id"), req, userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToInvoiceResponse(inv))
}

// generateInvoice godoc
// @Summary Generate draft invoice
// @Description Computes line items from approved uninvoiced work for the
// @Description project's billing method and persists the result as a draft.
// @Tags invoices
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param request body dto.GenerateInvoiceRequest true "Generation parameters"
// @Success 201 {object} dto.InvoiceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Milestone already invoiced"
// @Security BearerAuth
// @Router /organizations/{organization_id}/invoices/generate [post]
func (h *invoiceHandler) generateInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	var req dto.GenerateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	inv, err := h.invoiceService.GenerateInvoice(c.Request.Context(), c.Param("organization_id"), req, userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToInvoiceResponse(inv))
}

// listInvoices godoc
// @Summary List invoices
// @Description Lists a project's invoices, optionally filtered by status.
// @Tags invoices
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param project_id path string true "Project ID"
// @Param status query string false "Filter by invoice status"
// @Param limit query int false "Max results" default(20)
// @Param nextToken query string false "Pagination token"
// @Success 200 {array} dto.InvoiceResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/projects/{project_id}/invoices [get]
func (h *invoiceHandler) listInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	var params dto.ListInvoicesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	invoices, err := h.invoiceService.ListInvoices(c.Request.Context(), c.Param("organization_id"), c.Param("project_id"), userID, params)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListInvoicesResponse(invoices))
}

// getInvoice godoc
// @Summary Get invoice
// @Description Retrieves an invoice with its line items.
// @Tags invoices
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param invoice_id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/invoices/{invoice_id} [get]
func (h *invoiceHandler) getInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	inv, err := h.invoiceService.GetInvoiceByID(c.Request.Context(), c.Param("organization_id"), c.Param("invoice_id"), userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToInvoiceResponse(inv))
}

// updateDraftInvoice godoc
// @Summary Update draft invoice
// @Description Replaces a draft invoice's line items and billing fields.
// @Tags invoices
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param invoice_id path string true "Invoice ID"
// @Param invoice body dto.UpdateInvoiceRequest true "Fields to update"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Invoice is no longer a draft"
// @Security BearerAuth
// @Router /organizations/{organization_id}/invoices/{invoice_id} [put]
func (h *invoiceHandler) updateDraftInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	var req dto.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	inv, err := h.invoiceService.UpdateDraftInvoice(c.Request.Context(), c.Param("organization_id"), c.Param("invoice_id"), req, userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToInvoiceResponse(inv))
}

// finalizeInvoice godoc
// @Summary Finalize invoice
// @Description Assigns the next sequential invoice number, stamps the finalize
// @Description fields, locks every source time entry and expense and links every
// @Description source milestone, all atomically.
// @Tags invoices
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param invoice_id path string true "Invoice ID"
// @Success 200 {object} dto.FinalizeInvoiceResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Invoice already finalized or sources drifted"
// @Security BearerAuth
// @Router /organizations/{organization_id}/invoices/{invoice_id}/finalize [post]
func (h *invoiceHandler) finalizeInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	result, err := h.invoiceService.FinalizeInvoice(c.Request.Context(), c.Param("organization_id"), c.Param("invoice_id"), userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// markSent godoc
// @Summary Mark invoice sent
// @Tags invoices
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param invoice_id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 409 {object} ErrorResponse "Invoice is not FINALIZED"
// @Security BearerAuth
// @Router /organizations/{organization_id}/invoices/{invoice_id}/sent [post]
func (h *invoiceHandler) markSent(c *gin.Context) {
	h.lifecycle(c, h.invoiceService.MarkInvoiceSent)
}

// markViewed godoc
// @Summary Mark invoice viewed
// @Tags invoices
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param invoice_id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 409 {object} ErrorResponse "Invoice is not SENT"
// @Security BearerAuth
// @Router /organizations/{organization_id}/invoices/{invoice_id}/viewed [post]
func (h *invoiceHandler) markViewed(c *gin.Context) {
	h.lifecycle(c, h.invoiceService.MarkInvoiceViewed)
}

// markPaid godoc
// @Summary Mark invoice paid
// @Tags invoices
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param invoice_id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 409 {object} ErrorResponse "Invoice is not SENT or VIEWED"
// @Security BearerAuth
// @Router /organizations/{organization_id}/invoices/{invoice_id}/paid [post]
func (h *invoiceHandler) markPaid(c *gin.Context) {
	h.lifecycle(c, h.invoiceService.MarkInvoicePaid)
}

// voidInvoice godoc
// @Summary Void invoice
// @Description Voids any non-PAID invoice, excluding it from revenue.
// @Tags invoices
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param invoice_id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 409 {object} ErrorResponse "Paid invoices cannot be voided"
// @Security BearerAuth
// @Router /organizations/{organization_id}/invoices/{invoice_id}/void [post]
func (h *invoiceHandler) voidInvoice(c *gin.Context) {
	h.lifecycle(c, h.invoiceService.VoidInvoice)
}

// lifecycle runs one of the status-machine transitions that share a shape.
func (h *invoiceHandler) lifecycle(c *gin.Context, op lifecycleOp) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	inv, err := op(c.Request.Context(), c.Param("organization_id"), c.Param("invoice_id"), userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToInvoiceResponse(inv))
}
