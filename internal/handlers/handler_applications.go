package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/staffsync/staffsync_backend/internal/core/ports/services"
	"github.com/staffsync/staffsync_backend/internal/dto"
	"github.com/staffsync/staffsync_backend/internal/middleware"
)

// applicationHandler handles HTTP requests for the join-a-company lifecycle.
type applicationHandler struct {
	applicationService portssvc.ApplicationSvcFacade
}

func newApplicationHandler(as portssvc.ApplicationSvcFacade) *applicationHandler {
	return &applicationHandler{applicationService: as}
}

// registerApplicationRoutes registers the application routes.
func registerApplicationRoutes(rg *gin.RouterGroup, applicationService portssvc.ApplicationSvcFacade) {
	h := newApplicationHandler(applicationService)

	apps := rg.Group("/applications")
	{
		apps.POST("", h.apply)
		apps.GET("/current", h.current)
		apps.DELETE("/membership", h.leaveCompany)
		apps.GET("/pending/:companyID", h.listPending)
		apps.POST("/:id/approve", h.approve)
		apps.POST("/:id/reject", h.reject)
	}
}

// apply godoc
// @Summary Apply to join a company
// @Description Submits a join request by company code. Duplicate pending
// @Description applications and unknown codes are rejected.
// @Tags applications
// @Accept json
// @Produce json
// @Param application body dto.ApplyRequest true "Application details"
// @Success 201 {object} dto.ApplicationResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /applications [post]
func (h *applicationHandler) apply(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	app, err := h.applicationService.Apply(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to submit application")
		return
	}
	c.JSON(http.StatusCreated, dto.ToApplicationResponse(app))
}

// current godoc
// @Summary Get own latest application
// @Tags applications
// @Produce json
// @Success 200 {object} dto.ApplicationResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /applications/current [get]
func (h *applicationHandler) current(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	app, err := h.applicationService.CurrentApplication(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve application")
		return
	}
	c.JSON(http.StatusOK, dto.ToApplicationResponse(app))
}

// leaveCompany godoc
// @Summary Leave current company
// @Description Clears membership, demotes the role and closes applications.
// @Tags applications
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /applications/membership [delete]
func (h *applicationHandler) leaveCompany(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.applicationService.LeaveCompany(c.Request.Context(), userID); err != nil {
		respondError(c, err, "Failed to leave company")
		return
	}
	c.Status(http.StatusNoContent)
}

// listPending godoc
// @Summary List pending applications
// @Description Requires the staffs permission.
// @Tags applications
// @Produce json
// @Param companyID path string true "Company ID"
// @Success 200 {object} dto.ListApplicationsResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /applications/pending/{companyID} [get]
func (h *applicationHandler) listPending(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	apps, err := h.applicationService.ListPending(c.Request.Context(), userID, c.Param("companyID"))
	if err != nil {
		respondError(c, err, "Failed to list applications")
		return
	}
	c.JSON(http.StatusOK, dto.ToListApplicationsResponse(apps))
}

// approve godoc
// @Summary Approve an application
// @Description Requires the staffs permission. The applicant becomes an
// @Description active member with the staff role and is notified.
// @Tags applications
// @Param id path string true "Application ID"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /applications/{id}/approve [post]
func (h *applicationHandler) approve(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.applicationService.Approve(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err, "Failed to approve application")
		return
	}
	c.Status(http.StatusNoContent)
}

// reject godoc
// @Summary Reject an application
// @Description Requires the staffs permission. The applicant is notified.
// @Tags applications
// @Param id path string true "Application ID"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /applications/{id}/reject [post]
func (h *applicationHandler) reject(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.applicationService.Reject(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err, "Failed to reject application")
		return
	}
	c.Status(http.StatusNoContent)
}
