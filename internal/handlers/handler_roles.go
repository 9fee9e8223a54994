package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/staffsync/staffsync_backend/internal/core/domain"
	portssvc "github.com/staffsync/staffsync_backend/internal/core/ports/services"
	"github.com/staffsync/staffsync_backend/internal/dto"
	"github.com/staffsync/staffsync_backend/internal/middleware"
)

// roleHandler handles HTTP requests for role definitions and membership.
type roleHandler struct {
	roleService portssvc.RoleSvcFacade
}

func newRoleHandler(rs portssvc.RoleSvcFacade) *roleHandler {
	return &roleHandler{roleService: rs}
}

// registerRoleRoutes registers the role routes.
func registerRoleRoutes(rg *gin.RouterGroup, roleService portssvc.RoleSvcFacade) {
	h := newRoleHandler(roleService)

	roles := rg.Group("/roles")
	{
		roles.GET("", h.listRoles)
		roles.GET("/permissions", h.listPermissions)
		roles.POST("", h.createRole)
		roles.GET("/:id", h.getRole)
		roles.PUT("/:id", h.updateRole)
		roles.DELETE("/:id", h.deleteRole)
		roles.GET("/:id/members", h.listMembers)
		roles.DELETE("/:id/members/:userID", h.removeMember)
	}
}

// listRoles godoc
// @Summary List roles
// @Description Lists system roles plus the company's custom roles with
// @Description derived member counts.
// @Tags roles
// @Produce json
// @Param companyID query string true "Company ID"
// @Success 200 {object} dto.ListRolesResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /roles [get]
func (h *roleHandler) listRoles(c *gin.Context) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	roles, err := h.roleService.ListRoles(c.Request.Context(), actorID, c.Query("companyID"))
	if err != nil {
		respondError(c, err, "Failed to list roles")
		return
	}
	c.JSON(http.StatusOK, dto.ToListRolesResponse(roles))
}

// listPermissions godoc
// @Summary List assignable permissions
// @Tags roles
// @Produce json
// @Success 200 {object} dto.ListPermissionsResponse
// @Security BearerAuth
// @Router /roles/permissions [get]
func (h *roleHandler) listPermissions(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ToListPermissionsResponse(domain.AllPermissions))
}

// createRole godoc
// @Summary Create a role
// @Description Restricted to the ceo role. The role is scoped to the
// @Description actor's company.
// @Tags roles
// @Accept json
// @Produce json
// @Param role body dto.CreateRoleRequest true "Role details"
// @Success 201 {object} dto.RoleResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /roles [post]
func (h *roleHandler) createRole(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	role, err := h.roleService.CreateRole(c.Request.Context(), userID, req.Name, req.Description, req.Permissions)
	if err != nil {
		respondError(c, err, "Failed to create role")
		return
	}
	c.JSON(http.StatusCreated, dto.ToRoleResponse(role))
}

// updateRole godoc
// @Summary Replace a role's permissions
// @Description Restricted to the ceo role. The ceo role itself cannot be edited.
// @Tags roles
// @Accept json
// @Param id path string true "Role ID"
// @Param permissions body dto.UpdateRolePermissionsRequest true "Permission ids"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /roles/{id} [put]
func (h *roleHandler) updateRole(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdateRolePermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	if err := h.roleService.UpdateRole(c.Request.Context(), userID, c.Param("id"), req.Permissions); err != nil {
		respondError(c, err, "Failed to update role")
		return
	}
	c.Status(http.StatusNoContent)
}

// deleteRole godoc
// @Summary Delete a role
// @Description Restricted to the ceo role. System roles cannot be deleted.
// @Tags roles
// @Param id path string true "Role ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /roles/{id} [delete]
func (h *roleHandler) deleteRole(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.roleService.DeleteRole(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete role")
		return
	}
	c.Status(http.StatusNoContent)
}

// listMembers godoc
// @Summary List a role's members
// @Description Matches stored role strings against the role id or display
// @Description name, case-insensitively.
// @Tags roles
// @Produce json
// @Param id path string true "Role ID"
// @Param companyID query string true "Company ID"
// @Success 200 {object} dto.ListRoleMembersResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /roles/{id}/members [get]
func (h *roleHandler) listMembers(c *gin.Context) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	members, err := h.roleService.MembersOf(c.Request.Context(), actorID, c.Param("id"), c.Query("companyID"))
	if err != nil {
		respondError(c, err, "Failed to list role members")
		return
	}
	c.JSON(http.StatusOK, dto.ToListRoleMembersResponse(members))
}

// removeMember godoc
// @Summary Remove a member from a role
// @Description Demotes the user to the unassigned role in both tables.
// @Tags roles
// @Param id path string true "Role ID"
// @Param userID path string true "User ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /roles/{id}/members/{userID} [delete]
func (h *roleHandler) removeMember(c *gin.Context) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.roleService.RemoveFromRole(c.Request.Context(), actorID, c.Param("userID")); err != nil {
		respondError(c, err, "Failed to remove member from role")
		return
	}
	c.Status(http.StatusNoContent)
}

// getRole godoc
// @Summary Get a role definition
// @Tags roles
// @Produce json
// @Param id path string true "Role ID"
// @Success 200 {object} dto.RoleResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /roles/{id} [get]
func (h *roleHandler) getRole(c *gin.Context) {
	role, err := h.roleService.GetRoleByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve role")
		return
	}
	c.JSON(http.StatusOK, dto.ToRoleResponse(role))
}
