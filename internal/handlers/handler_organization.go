package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tallyops/psa_backend/internal/core/domain"
	portssvc "github.com/tallyops/psa_backend/internal/core/ports/services"
	"github.com/tallyops/psa_backend/internal/dto"
	"github.com/tallyops/psa_backend/internal/middleware"
)

// organizationHandler holds dependencies for organization endpoints.
type organizationHandler struct {
	orgService portssvc.OrganizationSvcFacade
}

// registerOrganizationRoutes sets up the routes for organization management.
func registerOrganizationRoutes(rg *gin.RouterGroup, os portssvc.OrganizationSvcFacade) {
	h := &organizationHandler{orgService: os}

	orgs := rg.Group("/organizations")
	{
		orgs.POST("", h.createOrganization)
		orgs.GET("", h.listOrganizations)
		orgs.GET("/:organization_id", h.getOrganization)
		orgs.POST("/:organization_id/users", h.addUser)
		orgs.POST("/:organization_id/companies", h.createCompany)
		orgs.GET("/:organization_id/companies", h.listCompanies)
	}
}

// createOrganization godoc
// @Summary Create organization
// @Description Creates a new organization with the caller as admin.
// @Tags organizations
// @Accept json
// @Produce json
// @Param organization body dto.CreateOrganizationRequest true "Organization details"
// @Success 201 {object} dto.OrganizationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations [post]
func (h *organizationHandler) createOrganization(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	var req dto.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	org, err := h.orgService.CreateOrganization(c.Request.Context(), req.Name, req.Description, req.DefaultCurrencyCode, userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToOrganizationResponse(org))
}

// listOrganizations godoc
// @Summary List my organizations
// @Description Lists organizations the caller is a member of.
// @Tags organizations
// @Produce json
// @Success 200 {array} dto.OrganizationResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations [get]
func (h *organizationHandler) listOrganizations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	orgs, err := h.orgService.ListUserOrganizations(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListOrganizationsResponse(orgs))
}

// getOrganization godoc
// @Summary Get organization
// @Description Retrieves an organization by ID. Caller must be a member.
// @Tags organizations
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Success 200 {object} dto.OrganizationResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id} [get]
func (h *organizationHandler) getOrganization(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}
	organizationID := c.Param("organization_id")

	if err := h.orgService.AuthorizeUserAction(c.Request.Context(), userID, organizationID, domain.RoleReadOnly); err != nil {
		respondError(c, logger, err)
		return
	}

	org, err := h.orgService.FindOrganizationByID(c.Request.Context(), organizationID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationResponse(org))
}

// addUser godoc
// @Summary Add user to organization
// @Description Adds a user to the organization with a role. Admin only.
// @Tags organizations
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param membership body dto.AddUserToOrganizationRequest true "User and role"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/users [post]
func (h *organizationHandler) addUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	var req dto.AddUserToOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	if err := h.orgService.AddUserToOrganization(c.Request.Context(), userID, req.UserID, c.Param("organization_id"), req.Role); err != nil {
		respondError(c, logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// createCompany godoc
// @Summary Create client company
// @Description Creates a client company within the organization.
// @Tags companies
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param company body dto.CreateCompanyRequest true "Company details"
// @Success 201 {object} dto.CompanyResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/companies [post]
func (h *organizationHandler) createCompany(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	var req dto.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	company, err := h.orgService.CreateCompany(c.Request.Context(), c.Param("organization_id"), req.Name, req.BillingEmail, userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCompanyResponse(company))
}

// listCompanies godoc
// @Summary List client companies
// @Description Lists client companies of the organization.
// @Tags companies
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Success 200 {array} dto.CompanyResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{organization_id}/companies [get]
func (h *organizationHandler) listCompanies(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	companies, err := h.orgService.ListCompanies(c.Request.Context(), c.Param("organization_id"), userID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	out := make([]dto.CompanyResponse, 0, len(companies))
	for i := range companies {
		out = append(out, dto.ToCompanyResponse(&companies[i]))
	}
	c.JSON(http.StatusOK, out)
}
