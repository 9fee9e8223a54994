package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/staffsync/staffsync_backend/internal/core/ports/services"
	"github.com/staffsync/staffsync_backend/internal/dto"
	"github.com/staffsync/staffsync_backend/internal/middleware"
)

// companyHandler handles HTTP requests for company settings and search.
type companyHandler struct {
	companyService portssvc.CompanySvcFacade
}

func newCompanyHandler(cs portssvc.CompanySvcFacade) *companyHandler {
	return &companyHandler{companyService: cs}
}

// registerCompanyRoutes registers the company routes.
func registerCompanyRoutes(rg *gin.RouterGroup, companyService portssvc.CompanySvcFacade) {
	h := newCompanyHandler(companyService)

	companies := rg.Group("/companies")
	{
		companies.POST("", h.create)
		companies.GET("/search", h.search)
		companies.GET("/code/:code", h.getByCode)
		companies.GET("/:id", h.getCompany)
		companies.PUT("/:id/settings", h.updateSettings)
	}
}

// create godoc
// @Summary Create a company
// @Description Creates a company with a fresh join code; the creator becomes its ceo.
// @Tags companies
// @Accept json
// @Produce json
// @Param company body dto.CreateCompanyRequest true "Company details"
// @Success 201 {object} dto.CompanyResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies [post]
func (h *companyHandler) create(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	company, err := h.companyService.CreateCompany(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to create company")
		return
	}
	c.JSON(http.StatusCreated, dto.ToCompanyResponse(company))
}

// search godoc
// @Summary Search companies
// @Description Finds companies by name or join code for the apply flow.
// @Tags companies
// @Produce json
// @Param q query string true "Name fragment or join code"
// @Success 200 {object} dto.ListCompaniesResponse
// @Security BearerAuth
// @Router /companies/search [get]
func (h *companyHandler) search(c *gin.Context) {
	companies, err := h.companyService.SearchCompanies(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err, "Failed to search companies")
		return
	}
	c.JSON(http.StatusOK, dto.ToListCompaniesResponse(companies))
}

// getByCode godoc
// @Summary Get a company by join code
// @Description Previews the company behind a join code before applying.
// @Tags companies
// @Produce json
// @Param code path string true "Join code"
// @Success 200 {object} dto.CompanyResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/code/{code} [get]
func (h *companyHandler) getByCode(c *gin.Context) {
	company, err := h.companyService.GetCompanyByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err, "Failed to retrieve company")
		return
	}
	c.JSON(http.StatusOK, dto.ToCompanyResponse(company))
}

// getCompany godoc
// @Summary Get company settings
// @Tags companies
// @Produce json
// @Param id path string true "Company ID"
// @Success 200 {object} dto.CompanyResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{id} [get]
func (h *companyHandler) getCompany(c *gin.Context) {
	company, err := h.companyService.GetCompany(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve company")
		return
	}
	c.JSON(http.StatusOK, dto.ToCompanyResponse(company))
}

// updateSettings godoc
// @Summary Update company settings
// @Description Requires the company_settings permission.
// @Tags companies
// @Accept json
// @Produce json
// @Param id path string true "Company ID"
// @Param settings body dto.UpdateCompanySettingsRequest true "Settings fields"
// @Success 200 {object} dto.CompanyResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{id}/settings [put]
func (h *companyHandler) updateSettings(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdateCompanySettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	company, err := h.companyService.UpdateCompanySettings(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to update company settings")
		return
	}
	c.JSON(http.StatusOK, dto.ToCompanyResponse(company))
}
