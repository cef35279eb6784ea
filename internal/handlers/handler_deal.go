package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/tallyops/psa_backend/internal/core/ports/services"
	"github.com/tallyops/psa_backend/internal/dto"
	"github.com/tallyops/psa_backend/internal/middleware"
)

// dealHandler holds dependencies for deal endpoints.
type dealHandler struct {
	dealService portssvc.DealSvcFacade
}

// registerDealRoutes sets up the routes for deal management within an organization.
func registerDealRoutes(rg *gin.RouterGroup, ds portssvc.DealSvcFacade) {
	h := &dealHandler{dealService: ds}

	deals := rg.Group("/deals")
	{
		deals.POST("", h.createDeal)
		deals.GET("", h.listDeals)
		deals.GET("/:deal_id", h.getDeal)
		deals.PUT("/:deal_id", h.updateDeal)
		deals.PUT("/:deal_id/stage", h.updateDealStage)
	}
}

// createDeal godoc
// @Summary Create deal
// @Description Creates a new deal at the LEAD stage.
// @Tags deals
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param deal body dto.CreateDealRequest true "Deal details"
// @Success 201 {object} dto.DealResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/deals [post]
func (h *dealHandler) createDeal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	var req dto.CreateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	deal, err := h.dealService.CreateDeal(c.Request.Context(), c.Param("organization_id"), req, userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToDealResponse(deal))
}

// listDeals godoc
// @Summary List deals
// @Description Retrieves a paginated list of deals in the organization.
// @Tags deals
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param limit query int false "Max results" default(20)
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListDealsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/deals [get]
func (h *dealHandler) listDeals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	var params dto.ListDealsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	page, err := h.dealService.ListDeals(c.Request.Context(), c.Param("organization_id"), userID, params)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// getDeal godoc
// @Summary Get deal
// @Description Retrieves a deal with its valid next stages.
// @Tags deals
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param deal_id path string true "Deal ID"
// @Success 200 {object} dto.DealResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/deals/{deal_id} [get]
func (h *dealHandler) getDeal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	deal, err := h.dealService.GetDealByID(c.Request.Context(), c.Param("organization_id"), c.Param("deal_id"), userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDealResponse(deal))
}

// updateDeal godoc
// @Summary Update deal details
// @Description Updates a deal's name, value, probability or owner. Stage changes go through the stage endpoint.
// @Tags deals
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param deal_id path string true "Deal ID"
// @Param deal body dto.UpdateDealRequest true "Fields to update"
// @Success 200 {object} dto.DealResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/deals/{deal_id} [put]
func (h *dealHandler) updateDeal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	var req dto.UpdateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	deal, err := h.dealService.UpdateDeal(c.Request.Context(), c.Param("organization_id"), c.Param("deal_id"), req, userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDealResponse(deal))
}

// updateDealStage godoc
// @Summary Move deal stage
// @Description Moves a deal along the stage graph. Admins may set override to bypass the graph; the bypass is logged.
// @Tags deals
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param deal_id path string true "Deal ID"
// @Param stage body dto.UpdateDealStageRequest true "Target stage"
// @Success 200 {object} dto.DealResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Transition not permitted by the stage graph"
// @Security BearerAuth
// @Router /organizations/{organization_id}/deals/{deal_id}/stage [put]
func (h *dealHandler) updateDealStage(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	var req dto.UpdateDealStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	deal, err := h.dealService.UpdateDealStage(c.Request.Context(), c.Param("organization_id"), c.Param("deal_id"), req, userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDealResponse(deal))
}
