package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tallyops/psa_backend/internal/core/domain"
	portssvc "github.com/tallyops/psa_backend/internal/core/ports/services"
	"github.com/tallyops/psa_backend/internal/dto"
	"github.com/tallyops/psa_backend/internal/middleware"
	"github.com/tallyops/psa_backend/internal/utils/money"
)

// expenseHandler holds dependencies for expense endpoints.
type expenseHandler struct {
	expenseService portssvc.ExpenseSvcFacade
}

// registerExpenseRoutes sets up the routes for expense tracking within an organization.
func registerExpenseRoutes(rg *gin.RouterGroup, es portssvc.ExpenseSvcFacade) {
	h := &expenseHandler{expenseService: es}

	expenses := rg.Group("/expenses")
	{
		expenses.POST("", h.createExpense)
		expenses.GET("/:expense_id", h.getExpense)
		expenses.PUT("/:expense_id", h.updateExpense)
		expenses.DELETE("/:expense_id", h.deleteExpense)
		expenses.POST("/:expense_id/submit", h.submitExpense)
		expenses.POST("/:expense_id/approve", h.approveExpense)
		expenses.POST("/:expense_id/reject", h.rejectExpense)
		expenses.POST("/:expense_id/revise", h.reviseExpense)
		expenses.POST("/batch/approve", h.approveExpenses)
		expenses.POST("/batch/reject", h.rejectExpenses)
	}

	rg.GET("/projects/:project_id/expenses", h.listExpenses)
}

// billedAmount is the client-facing figure for a billable expense after markup.
func billedAmount(e *domain.Expense) int64 {
	if !e.Billable {
		return 0
	}
	return money.ApplyMarkup(e.Amount, e.MarkupRate)
}

// createExpense godoc
// @Summary Log expense
// @Description Creates a new draft expense for the caller.
// @Tags expenses
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param expense body dto.CreateExpenseRequest true "Expense details"
// @Success 201 {object} dto.ExpenseResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/expenses [post]
func (h *expenseHandler) createExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	var req dto.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	expense, err := h.expenseService.CreateExpense(c.Request.Context(), c.Param("organization_id"), req, userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToExpenseResponse(expense, billedAmount(expense)))
}

// listExpenses godoc
// @Summary List expenses
// @Description Lists a project's expenses, optionally filtered by status.
// @Tags expenses
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param project_id path string true "Project ID"
// @Param status query string false "Filter by approval status"
// @Success 200 {array} dto.ExpenseResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/projects/{project_id}/expenses [get]
func (h *expenseHandler) listExpenses(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	var params dto.ListApprovablesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	expenses, err := h.expenseService.ListExpenses(c.Request.Context(), c.Param("organization_id"), c.Param("project_id"), userID, params)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	out := make([]dto.ExpenseResponse, len(expenses))
	for i := range expenses {
		out[i] = dto.ToExpenseResponse(&expenses[i], billedAmount(&expenses[i]))
	}
	c.JSON(http.StatusOK, out)
}

// getExpense godoc
// @Summary Get expense
// @Tags expenses
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param expense_id path string true "Expense ID"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/expenses/{expense_id} [get]
func (h *expenseHandler) getExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	expense, err := h.expenseService.GetExpenseByID(c.Request.Context(), c.Param("organization_id"), c.Param("expense_id"), userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense, billedAmount(expense)))
}

// updateExpense godoc
// @Summary Update expense
// @Description Edits a draft or rejected expense owned by the caller.
// @Tags expenses
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param expense_id path string true "Expense ID"
// @Param expense body dto.UpdateExpenseRequest true "Fields to update"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Expense is not editable in its current status"
// @Security BearerAuth
// @Router /organizations/{organization_id}/expenses/{expense_id} [put]
func (h *expenseHandler) updateExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	var req dto.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	expense, err := h.expenseService.UpdateExpense(c.Request.Context(), c.Param("organization_id"), c.Param("expense_id"), req, userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense, billedAmount(expense)))
}

// deleteExpense godoc
// @Summary Delete expense
// @Description Deletes a draft expense owned by the caller.
// @Tags expenses
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param expense_id path string true "Expense ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/expenses/{expense_id} [delete]
func (h *expenseHandler) deleteExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	if err := h.expenseService.DeleteExpense(c.Request.Context(), c.Param("organization_id"), c.Param("expense_id"), userID); err != nil {
		respondError(c, logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// submitExpense godoc
// @Summary Submit expense for approval
// @Tags expenses
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param expense_id path string true "Expense ID"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 409 {object} ErrorResponse "Expense is not in DRAFT"
// @Security BearerAuth
// @Router /organizations/{organization_id}/expenses/{expense_id}/submit [post]
func (h *expenseHandler) submitExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	expense, err := h.expenseService.SubmitExpense(c.Request.Context(), c.Param("organization_id"), c.Param("expense_id"), userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense, billedAmount(expense)))
}

// approveExpense godoc
// @Summary Approve expense
// @Description Approves a submitted expense. Reviewers cannot approve their own submissions.
// @Tags expenses
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param expense_id path string true "Expense ID"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 403 {object} ErrorResponse "Self approval"
// @Failure 409 {object} ErrorResponse "Expense is not SUBMITTED"
// @Security BearerAuth
// @Router /organizations/{organization_id}/expenses/{expense_id}/approve [post]
func (h *expenseHandler) approveExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	expense, err := h.expenseService.ApproveExpense(c.Request.Context(), c.Param("organization_id"), c.Param("expense_id"), userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense, billedAmount(expense)))
}

// rejectExpense godoc
// @Summary Reject expense
// @Description Rejects a submitted expense with a reason.
// @Tags expenses
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param expense_id path string true "Expense ID"
// @Param rejection body dto.RejectRequest true "Rejection reason"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 400 {object} ErrorResponse "Missing reason"
// @Failure 409 {object} ErrorResponse "Expense is not SUBMITTED"
// @Security BearerAuth
// @Router /organizations/{organization_id}/expenses/{expense_id}/reject [post]
func (h *expenseHandler) rejectExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	var req dto.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Rejection comments are required"})
		return
	}

	expense, err := h.expenseService.RejectExpense(c.Request.Context(), c.Param("organization_id"), c.Param("expense_id"), req.Comments, userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense, billedAmount(expense)))
}

// reviseExpense godoc
// @Summary Revise rejected expense
// @Description Corrects a rejected expense, optionally resubmitting it immediately.
// @Tags expenses
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param expense_id path string true "Expense ID"
// @Param revision body dto.ReviseExpenseRequest true "Corrected amount"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Expense is not REJECTED"
// @Security BearerAuth
// @Router /organizations/{organization_id}/expenses/{expense_id}/revise [post]
func (h *expenseHandler) reviseExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	var req dto.ReviseExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	expense, err := h.expenseService.ReviseExpense(c.Request.Context(), c.Param("organization_id"), c.Param("expense_id"), req, userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense, billedAmount(expense)))
}

// approveExpenses godoc
// @Summary Batch approve expenses
// @Description Approves many expenses. Each is validated independently and
// @Description failures do not roll back successes.
// @Tags expenses
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param batch body dto.BatchIDsRequest true "Expense IDs"
// @Success 200 {array} dto.BatchResult
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/expenses/batch/approve [post]
func (h *expenseHandler) approveExpenses(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	var req dto.BatchIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	results := h.expenseService.ApproveExpenses(c.Request.Context(), c.Param("organization_id"), req.IDs, userID)
	c.JSON(http.StatusOK, results)
}

// rejectExpenses godoc
// @Summary Batch reject expenses
// @Description Rejects many expenses with a shared reason. Each is validated
// @Description independently.
// @Tags expenses
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param batch body dto.BatchIDsRequest true "Expense IDs and reason"
// @Success 200 {array} dto.BatchResult
// @Failure 400 {object} ErrorResponse "Missing reason"
// @Security BearerAuth
// @Router /organizations/{organization_id}/expenses/batch/reject [post]
func (h *expenseHandler) rejectExpenses(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	var req dto.BatchIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	if req.Comments == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Rejection comments are required"})
		return
	}

	results := h.expenseService.RejectExpenses(c.Request.Context(), c.Param("organization_id"), req.IDs, req.Comments, userID)
	c.JSON(http.StatusOK, results)
}
