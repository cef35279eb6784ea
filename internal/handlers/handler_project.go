package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tallyops/psa_backend/internal/core/domain"
	portssvc "github.com/tallyops/psa_backend/internal/core/ports/services"
	"github.com/tallyops/psa_backend/internal/dto"
	"github.com/tallyops/psa_backend/internal/middleware"
)

// projectHandler holds dependencies for project endpoints.
type projectHandler struct {
	projectService portssvc.ProjectSvcFacade
}

// updateStatusRequest carries a status change for a project or a task.
type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// completeMilestoneRequest stamps a milestone's completion time. When omitted,
// completion is stamped at the server's current time.
type completeMilestoneRequest struct {
	CompletedAt *time.Time `json:"completedAt"`
}

// registerProjectRoutes sets up the routes for delivery within an organization.
func registerProjectRoutes(rg *gin.RouterGroup, ps portssvc.ProjectSvcFacade) {
	h := &projectHandler{projectService: ps}

	projects := rg.Group("/projects")
	{
		projects.POST("", h.createProject)
		projects.GET("", h.listProjects)
		projects.GET("/:project_id", h.getProject)
		projects.PUT("/:project_id/status", h.updateProjectStatus)
		projects.POST("/:project_id/bookings/cancel-future", h.cancelFutureBookings)
		projects.GET("/:project_id/burn", h.budgetBurn)
		projects.GET("/:project_id/metrics", h.projectMetrics)
		projects.GET("/:project_id/closure-checklist", h.closureChecklist)
	}

	rg.POST("/tasks", h.createTask)
	rg.PUT("/tasks/:task_id/status", h.updateTaskStatus)
	rg.POST("/bookings", h.createBooking)
	rg.POST("/milestones", h.createMilestone)
	rg.POST("/milestones/:milestone_id/complete", h.completeMilestone)
	rg.POST("/budgets", h.createBudget)
}

// createProject godoc
// @Summary Create project
// @Description Creates a new project, optionally linked to the WON deal it originated from.
// @Tags projects
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param project body dto.CreateProjectRequest true "Project details"
// @Success 201 {object} dto.ProjectResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Linked deal is not WON"
// @Security BearerAuth
// @Router /organizations/{organization_id}/projects [post]
func (h *projectHandler) createProject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), c.Param("organization_id"), req, userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectResponse(project))
}

// listProjects godoc
// @Summary List projects
// @Description Retrieves a paginated list of projects, optionally filtered by status.
// @Tags projects
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param status query string false "Filter by project status"
// @Param limit query int false "Max results" default(20)
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListProjectsResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/projects [get]
func (h *projectHandler) listProjects(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	var params dto.ListProjectsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	page, err := h.projectService.ListProjects(c.Request.Context(), c.Param("organization_id"), userID, params)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// getProject godoc
// @Summary Get project
// @Tags projects
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param project_id path string true "Project ID"
// @Success 200 {object} dto.ProjectResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/projects/{project_id} [get]
func (h *projectHandler) getProject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	project, err := h.projectService.GetProjectByID(c.Request.Context(), c.Param("organization_id"), c.Param("project_id"), userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectResponse(project))
}

// updateProjectStatus godoc
// @Summary Update project status
// @Description Moves a project to a new status. Completing a project requires
// @Description the closure checklist's hard gates to pass.
// @Tags projects
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param project_id path string true "Project ID"
// @Param status body updateStatusRequest true "Target status"
// @Success 200 {object} dto.ProjectResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Closure gates failed"
// @Security BearerAuth
// @Router /organizations/{organization_id}/projects/{project_id}/status [put]
func (h *projectHandler) updateProjectStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	project, err := h.projectService.UpdateProjectStatus(c.Request.Context(), c.Param("organization_id"), c.Param("project_id"), domain.ProjectStatus(req.Status), userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectResponse(project))
}

// createTask godoc
// @Summary Create task
// @Tags tasks
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param task body dto.CreateTaskRequest true "Task details"
// @Success 201 {object} dto.TaskResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/tasks [post]
func (h *projectHandler) createTask(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	task, err := h.projectService.CreateTask(c.Request.Context(), c.Param("organization_id"), req, userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskResponse(task))
}

// updateTaskStatus godoc
// @Summary Update task status
// @Tags tasks
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param task_id path string true "Task ID"
// @Param status body updateStatusRequest true "Target status"
// @Success 200 {object} dto.TaskResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/tasks/{task_id}/status [put]
func (h *projectHandler) updateTaskStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	task, err := h.projectService.UpdateTaskStatus(c.Request.Context(), c.Param("organization_id"), c.Param("task_id"), domain.TaskStatus(req.Status), userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskResponse(task))
}

// createBooking godoc
// @Summary Book a user onto a project
// @Tags bookings
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param booking body dto.CreateBookingRequest true "Booking details"
// @Success 201 {object} dto.BookingResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/bookings [post]
func (h *projectHandler) createBooking(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	booking, err := h.projectService.CreateBooking(c.Request.Context(), c.Param("organization_id"), req, userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToBookingResponse(booking))
}

// cancelFutureBookings godoc
// @Summary Cancel future bookings
// @Description Cancels the project's bookings starting strictly after now.
// @Description Invoked explicitly as part of closing down a project.
// @Tags bookings
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param project_id path string true "Project ID"
// @Success 200 {object} map[string]int "cancelled count"
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/projects/{project_id}/bookings/cancel-future [post]
func (h *projectHandler) cancelFutureBookings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	cancelled, err := h.projectService.CancelFutureBookings(c.Request.Context(), c.Param("organization_id"), c.Param("project_id"), userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cancelled": cancelled})
}

// createMilestone godoc
// @Summary Create milestone
// @Tags milestones
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param milestone body dto.CreateMilestoneRequest true "Milestone details"
// @Success 201 {object} dto.MilestoneResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/milestones [post]
func (h *projectHandler) createMilestone(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	var req dto.CreateMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	milestone, err := h.projectService.CreateMilestone(c.Request.Context(), c.Param("organization_id"), req, userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToMilestoneResponse(milestone))
}

// completeMilestone godoc
// @Summary Complete milestone
// @Description Stamps a milestone's completion time, making it billable.
// @Tags milestones
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param milestone_id path string true "Milestone ID"
// @Param completion body completeMilestoneRequest false "Completion time"
// @Success 200 {object} dto.MilestoneResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Milestone already completed"
// @Security BearerAuth
// @Router /organizations/{organization_id}/milestones/{milestone_id}/complete [post]
func (h *projectHandler) completeMilestone(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	var req completeMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	completedAt := time.Now().UTC()
	if req.CompletedAt != nil {
		completedAt = *req.CompletedAt
	}

	milestone, err := h.projectService.CompleteMilestone(c.Request.Context(), c.Param("organization_id"), c.Param("milestone_id"), completedAt, userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMilestoneResponse(milestone))
}

// createBudget godoc
// @Summary Create budget
// @Description Attaches a budget to a project. A project holds at most one budget.
// @Tags budgets
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param budget body dto.CreateBudgetRequest true "Budget details"
// @Success 201 {object} dto.BudgetResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Project already has a budget"
// @Security BearerAuth
// @Router /organizations/{organization_id}/budgets [post]
func (h *projectHandler) createBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	var req dto.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	budget, err := h.projectService.CreateBudget(c.Request.Context(), c.Param("organization_id"), req, userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToBudgetResponse(budget))
}

// budgetBurn godoc
// @Summary Budget burn
// @Description Reports budget consumption from approved internal cost.
// @Tags projects
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param project_id path string true "Project ID"
// @Success 200 {object} dto.BudgetBurnResponse
// @Failure 404 {object} ErrorResponse "Project has no budget"
// @Security BearerAuth
// @Router /organizations/{organization_id}/projects/{project_id}/burn [get]
func (h *projectHandler) budgetBurn(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	burn, err := h.projectService.ComputeBudgetBurn(c.Request.Context(), c.Param("organization_id"), c.Param("project_id"), userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, burn)
}

// projectMetrics godoc
// @Summary Project metrics
// @Description Aggregates revenue, cost, profit and durations as of a date.
// @Description Only PAID invoices count as revenue.
// @Tags projects
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param project_id path string true "Project ID"
// @Param asOf query string false "As-of date (RFC 3339), defaults to now"
// @Success 200 {object} dto.ProjectMetricsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/projects/{project_id}/metrics [get]
func (h *projectHandler) projectMetrics(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	asOf := time.Now().UTC()
	if raw := c.Query("asOf"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid asOf date, expected RFC 3339"})
			return
		}
		asOf = parsed
	}

	metrics, err := h.projectService.ComputeProjectMetrics(c.Request.Context(), c.Param("organization_id"), c.Param("project_id"), asOf, userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, metrics)
}

// closureChecklist godoc
// @Summary Closure checklist
// @Description Evaluates the hard gates and soft warnings for closing the
// @Description project without mutating anything.
// @Tags projects
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param project_id path string true "Project ID"
// @Success 200 {object} dto.ClosureChecklistResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/projects/{project_id}/closure-checklist [get]
func (h *projectHandler) closureChecklist(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	checklist, err := h.projectService.ClosureChecklist(c.Request.Context(), c.Param("organization_id"), c.Param("project_id"), userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, checklist)
}
