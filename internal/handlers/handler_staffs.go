package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/staffsync/staffsync_backend/internal/core/ports/services"
	"github.com/staffsync/staffsync_backend/internal/dto"
	"github.com/staffsync/staffsync_backend/internal/middleware"
)

// staffHandler handles HTTP requests for the staff roster.
type staffHandler struct {
	staffService portssvc.StaffSvcFacade
}

func newStaffHandler(ss portssvc.StaffSvcFacade) *staffHandler {
	return &staffHandler{staffService: ss}
}

// registerStaffRoutes registers the staff roster routes.
func registerStaffRoutes(rg *gin.RouterGroup, staffService portssvc.StaffSvcFacade) {
	h := newStaffHandler(staffService)

	staffs := rg.Group("/staffs")
	{
		staffs.GET("", h.listStaff)
		staffs.GET("/:userID/stats", h.staffStats)
		staffs.PUT("/:userID/role", h.changeRole)
	}
}

// listStaff godoc
// @Summary List company staff
// @Description Requires the staffs permission. Newest members first.
// @Tags staffs
// @Produce json
// @Param companyID query string true "Company ID"
// @Success 200 {object} dto.ListUsersResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /staffs [get]
func (h *staffHandler) listStaff(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	staff, err := h.staffService.ListStaff(c.Request.Context(), userID, c.Query("companyID"))
	if err != nil {
		respondError(c, err, "Failed to list staff")
		return
	}
	c.JSON(http.StatusOK, dto.ToListUsersResponse(staff))
}

// staffStats godoc
// @Summary Get a staff member's attendance stats
// @Description Requires the staffs permission. Hours carry one fractional digit.
// @Tags staffs
// @Produce json
// @Param userID path string true "Staff user ID"
// @Success 200 {object} dto.StaffStatsResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /staffs/{userID}/stats [get]
func (h *staffHandler) staffStats(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	stats, err := h.staffService.StaffStats(c.Request.Context(), userID, c.Param("userID"))
	if err != nil {
		respondError(c, err, "Failed to load staff stats")
		return
	}
	c.JSON(http.StatusOK, dto.ToStaffStatsResponse(stats))
}

// changeRole godoc
// @Summary Change a staff member's role
// @Description Requires the staffs permission. user_roles is written first;
// @Description the users.role cache follows best-effort.
// @Tags staffs
// @Accept json
// @Param userID path string true "Staff user ID"
// @Param role body dto.AssignRoleRequest true "New role"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /staffs/{userID}/role [put]
func (h *staffHandler) changeRole(c *gin.Context) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	if err := h.staffService.ChangeRole(c.Request.Context(), actorID, c.Param("userID"), req.Role); err != nil {
		respondError(c, err, "Failed to change role")
		return
	}
	c.Status(http.StatusNoContent)
}
