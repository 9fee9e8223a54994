package dto

import (
	"github.com/staffsync/staffsync_backend/internal/core/domain"
)

// --- Role DTOs ---

// CreateRoleRequest defines data for creating a new role.
type CreateRoleRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

// UpdateRolePermissionsRequest defines data for replacing a role's permission set.
type UpdateRolePermissionsRequest struct {
	Permissions []string `json:"permissions" binding:"required"`
}

// AssignRoleRequest defines data for changing a staff member's role.
type AssignRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// RoleResponse defines data returned for a role.
type RoleResponse struct {
	RoleID      string   `json:"roleID"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
	IsSystem    bool     `json:"isSystem"`
	UserCount   int      `json:"userCount"`
}

// ToRoleResponse converts domain.Role to DTO.
func ToRoleResponse(r *domain.Role) RoleResponse {
	return RoleResponse{
		RoleID:      r.RoleID,
		Name:        r.Name,
		Description: r.Description,
		Permissions: r.Permissions,
		IsSystem:    r.IsSystem,
		UserCount:   r.UserCount,
	}
}

// ListRolesResponse wraps a list of roles.
type ListRolesResponse struct {
	Roles []RoleResponse `json:"roles"`
}

// ToListRolesResponse converts a slice of domain.Role to DTO.
func ToListRolesResponse(rs []domain.Role) ListRolesResponse {
	list := make([]RoleResponse, len(rs))
	for i := range rs {
		list[i] = ToRoleResponse(&rs[i])
	}
	return ListRolesResponse{Roles: list}
}

// RoleMemberResponse defines data returned for a member of a role.
type RoleMemberResponse struct {
	UserID   string `json:"userID"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	RoleID   string `json:"roleID"`
}

// ListRoleMembersResponse wraps the members of a role.
type ListRoleMembersResponse struct {
	Members []RoleMemberResponse `json:"members"`
}

// ToListRoleMembersResponse converts a slice of domain.UserSummary to DTO.
func ToListRoleMembersResponse(ms []domain.UserSummary) ListRoleMembersResponse {
	list := make([]RoleMemberResponse, len(ms))
	for i, m := range ms {
		list[i] = RoleMemberResponse{
			UserID:   m.UserID,
			FullName: m.FullName,
			Email:    m.Email,
			RoleID:   m.RoleID,
		}
	}
	return ListRoleMembersResponse{Members: list}
}

// PermissionResponse describes one assignable permission.
type PermissionResponse struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Route       string `json:"route,omitempty"`
}

// ListPermissionsResponse wraps the permission catalog.
type ListPermissionsResponse struct {
	Permissions []PermissionResponse `json:"permissions"`
}

// ToListPermissionsResponse converts the domain permission catalog to DTO.
func ToListPermissionsResponse(ps []domain.Permission) ListPermissionsResponse {
	list := make([]PermissionResponse, len(ps))
	for i, p := range ps {
		list[i] = PermissionResponse{ID: p.ID, Label: p.Label, Description: p.Description, Route: p.Route}
	}
	return ListPermissionsResponse{Permissions: list}
}
