package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/tallyops/psa_backend/internal/core/ports/services"
	"github.com/tallyops/psa_backend/internal/dto"
	"github.com/tallyops/psa_backend/internal/middleware"
)

// timeEntryHandler holds dependencies for time entry endpoints.
type timeEntryHandler struct {
	timeEntryService portssvc.TimeEntrySvcFacade
}

// registerTimeEntryRoutes sets up the routes for time tracking within an organization.
func registerTimeEntryRoutes(rg *gin.RouterGroup, ts portssvc.TimeEntrySvcFacade) {
	h := &timeEntryHandler{timeEntryService: ts}

	entries := rg.Group("/time-entries")
	{
		entries.POST("", h.createTimeEntry)
		entries.GET("/:time_entry_id", h.getTimeEntry)
		entries.PUT("/:time_entry_id", h.updateTimeEntry)
		entries.DELETE("/:time_entry_id", h.deleteTimeEntry)
		entries.POST("/:time_entry_id/submit", h.submitTimeEntry)
		entries.POST("/:time_entry_id/approve", h.approveTimeEntry)
		entries.POST("/:time_entry_id/reject", h.rejectTimeEntry)
		entries.POST("/:time_entry_id/revise", h.reviseTimeEntry)
		entries.POST("/batch/approve", h.approveTimeEntries)
		entries.POST("/batch/reject", h.rejectTimeEntries)
	}

	rg.GET("/projects/:project_id/time-entries", h.listTimeEntries)
}

// createTimeEntry godoc
// @Summary Log time
// @Description Creates a new draft time entry for the caller.
// @Tags time-entries
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param entry body dto.CreateTimeEntryRequest true "Time entry details"
// @Success 201 {object} dto.TimeEntryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/time-entries [post]
func (h *timeEntryHandler) createTimeEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	var req dto.CreateTimeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	entry, err := h.timeEntryService.CreateTimeEntry(c.Request.Context(), c.Param("organization_id"), req, userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTimeEntryResponse(entry))
}

// listTimeEntries godoc
// @Summary List time entries
// @Description Lists a project's time entries, optionally filtered by status.
// @Tags time-entries
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param project_id path string true "Project ID"
// @Param status query string false "Filter by approval status"
// @Success 200 {array} dto.TimeEntryResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/projects/{project_id}/time-entries [get]
func (h *timeEntryHandler) listTimeEntries(c *gin.Context) {
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

	entries, err := h.timeEntryService.ListTimeEntries(c.Request.Context(), c.Param("organization_id"), c.Param("project_id"), userID, params)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTimeEntryResponses(entries))
}

// getTimeEntry godoc
// @Summary Get time entry
// @Tags time-entries
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param time_entry_id path string true "Time entry ID"
// @Success 200 {object} dto.TimeEntryResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/time-entries/{time_entry_id} [get]
func (h *timeEntryHandler) getTimeEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	entry, err := h.timeEntryService.GetTimeEntryByID(c.Request.Context(), c.Param("organization_id"), c.Param("time_entry_id"), userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTimeEntryResponse(entry))
}

// updateTimeEntry godoc
// @Summary Update time entry
// @Description Edits a draft or rejected entry owned by the caller.
// @Tags time-entries
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param time_entry_id path string true "Time entry ID"
// @Param entry body dto.UpdateTimeEntryRequest true "Fields to update"
// @Success 200 {object} dto.TimeEntryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Entry is not editable in its current status"
// @Security BearerAuth
// @Router /organizations/{organization_id}/time-entries/{time_entry_id} [put]
func (h *timeEntryHandler) updateTimeEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	var req dto.UpdateTimeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	entry, err := h.timeEntryService.UpdateTimeEntry(c.Request.Context(), c.Param("organization_id"), c.Param("time_entry_id"), req, userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTimeEntryResponse(entry))
}

// deleteTimeEntry godoc
// @Summary Delete time entry
// @Description Deletes a draft entry owned by the caller.
// @Tags time-entries
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param time_entry_id path string true "Time entry ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/time-entries/{time_entry_id} [delete]
func (h *timeEntryHandler) deleteTimeEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	if err := h.timeEntryService.DeleteTimeEntry(c.Request.Context(), c.Param("organization_id"), c.Param("time_entry_id"), userID); err != nil {
		respondError(c, logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// submitTimeEntry godoc
// @Summary Submit time entry for approval
// @Tags time-entries
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param time_entry_id path string true "Time entry ID"
// @Success 200 {object} dto.TimeEntryResponse
// @Failure 409 {object} ErrorResponse "Entry is not in DRAFT"
// @Security BearerAuth
// @Router /organizations/{organization_id}/time-entries/{time_entry_id}/submit [post]
func (h *timeEntryHandler) submitTimeEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	entry, err := h.timeEntryService.SubmitTimeEntry(c.Request.Context(), c.Param("organization_id"), c.Param("time_entry_id"), userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTimeEntryResponse(entry))
}

// approveTimeEntry godoc
// @Summary Approve time entry
// @Description Approves a submitted entry. Reviewers cannot approve their own submissions.
// @Tags time-entries
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param time_entry_id path string true "Time entry ID"
// @Success 200 {object} dto.TimeEntryResponse
// @Failure 403 {object} ErrorResponse "Self approval"
// @Failure 409 {object} ErrorResponse "Entry is not SUBMITTED"
// @Security BearerAuth
// @Router /organizations/{organization_id}/time-entries/{time_entry_id}/approve [post]
func (h *timeEntryHandler) approveTimeEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	entry, err := h.timeEntryService.ApproveTimeEntry(c.Request.Context(), c.Param("organization_id"), c.Param("time_entry_id"), userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTimeEntryResponse(entry))
}

// rejectTimeEntry godoc
// @Summary Reject time entry
// @Description Rejects a submitted entry with a reason.
// @Tags time-entries
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param time_entry_id path string true "Time entry ID"
// @Param rejection body dto.RejectRequest true "Rejection reason"
// @Success 200 {object} dto.TimeEntryResponse
// @Failure 400 {object} ErrorResponse "Missing reason"
// @Failure 409 {object} ErrorResponse "Entry is not SUBMITTED"
// @Security BearerAuth
// @Router /organizations/{organization_id}/time-entries/{time_entry_id}/reject [post]
func (h *timeEntryHandler) rejectTimeEntry(c *gin.Context) {
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

	entry, err := h.timeEntryService.RejectTimeEntry(c.Request.Context(), c.Param("organization_id"), c.Param("time_entry_id"), req.Comments, userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTimeEntryResponse(entry))
}

// reviseTimeEntry godoc
// @Summary Revise rejected time entry
// @Description Corrects a rejected entry, optionally resubmitting it immediately.
// @Tags time-entries
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param time_entry_id path string true "Time entry ID"
// @Param revision body dto.ReviseTimeEntryRequest true "Corrected hours"
// @Success 200 {object} dto.TimeEntryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Entry is not REJECTED"
// @Security BearerAuth
// @Router /organizations/{organization_id}/time-entries/{time_entry_id}/revise [post]
func (h *timeEntryHandler) reviseTimeEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	var req dto.ReviseTimeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	entry, err := h.timeEntryService.ReviseTimeEntry(c.Request.Context(), c.Param("organization_id"), c.Param("time_entry_id"), req, userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTimeEntryResponse(entry))
}

// approveTimeEntries godoc
// @Summary Batch approve time entries
// @Description Approves many entries. Each entry is validated independently and
// @Description failures do not roll back successes.
// @Tags time-entries
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param batch body dto.BatchIDsRequest true "Entry IDs"
// @Success 200 {array} dto.BatchResult
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/time-entries/batch/approve [post]
func (h *timeEntryHandler) approveTimeEntries(c *gin.Context) {
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

	results := h.timeEntryService.ApproveTimeEntries(c.Request.Context(), c.Param("organization_id"), req.IDs, userID)
	c.JSON(http.StatusOK, results)
}

// rejectTimeEntries godoc
// @Summary Batch reject time entries
// @Description Rejects many entries with a shared reason. Each entry is
// @Description validated independently.
// @Tags time-entries
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param batch body dto.BatchIDsRequest true "Entry IDs and reason"
// @Success 200 {array} dto.BatchResult
// @Failure 400 {object} ErrorResponse "Missing reason"
// @Security BearerAuth
// @Router /organizations/{organization_id}/time-entries/batch/reject [post]
func (h *timeEntryHandler) rejectTimeEntries(c *gin.Context) {
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

	results := h.timeEntryService.RejectTimeEntries(c.Request.Context(), c.Param("organization_id"), req.IDs, req.Comments, userID)
	c.JSON(http.StatusOK, results)
}
