package services

import (
	"context"

	"github.com/staffsync/staffsync_backend/internal/core/domain"
)

// RoleResolverSvc resolves effective roles and permission membership.
type RoleResolverSvc interface {
	// ResolveEffectiveRole returns the user_roles.role value for the user,
	// or domain.RoleUnassigned when no row exists or the value is empty.
	// users.role is never consulted.
	ResolveEffectiveRole(ctx context.Context, userID string) (string, error)

	// HasPermission reports whether the user's effective role grants the
	// permission, honoring the "all" wildcard.
	HasPermission(ctx context.Context, userID string, permission string) (bool, error)
}

// RoleReaderSvc defines read operations for role definitions and membership.
type RoleReaderSvc interface {
	// GetRoleByID retrieves a role definition.
	GetRoleByID(ctx context.Context, roleID string) (*domain.Role, error)

	// ListRoles retrieves the roles visible to the actor's company with
	// derived user counts. The actor must belong to the company.
	ListRoles(ctx context.Context, actorUserID, companyID string) ([]domain.Role, error)

	// MembersOf lists the company members assigned to the role, matching
	// stored role strings against the role id or display name. The actor
	// must belong to the company.
	MembersOf(ctx context.Context, actorUserID, roleID, companyID string) ([]domain.UserSummary, error)
}

// RoleAssignmentSvc defines role assignment writes.
type RoleAssignmentSvc interface {
	// AssignRole writes the authoritative user_roles assignment and mirrors
	// it best-effort to users.role.
	AssignRole(ctx context.Context, actorUserID, targetUserID string, role string) error

	// RemoveFromRole demotes the user to the unassigned role.
	RemoveFromRole(ctx context.Context, actorUserID, targetUserID string) error
}

// RoleAdminSvc defines role CRUD, restricted to the ceo role.
type RoleAdminSvc interface {
	// CreateRole creates a non-system role scoped to the actor's company.
	CreateRole(ctx context.Context, actorUserID, name, description string, permissionIDs []string) (*domain.Role, error)

	// UpdateRole replaces a custom role's permission set. Rejected for
	// system roles and for roles owned by another company.
	UpdateRole(ctx context.Context, actorUserID, roleID string, permissionIDs []string) error

	// DeleteRole removes a custom role. Rejected for system roles and for
	// roles owned by another company.
	DeleteRole(ctx context.Context, actorUserID, roleID string) error
}

// RoleSvcFacade combines all role-related service interfaces
type RoleSvcFacade interface {
	RoleResolverSvc
	RoleReaderSvc
	RoleAssignmentSvc
	RoleAdminSvc
}
