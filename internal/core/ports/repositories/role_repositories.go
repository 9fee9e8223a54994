package repositories

import (
	"context"

	"github.com/staffsync/staffsync_backend/internal/core/domain"
)

// RoleReader defines read operations for role definitions
type RoleReader interface {
	// FindRoleByID retrieves a role definition by its id.
	FindRoleByID(ctx context.Context, roleID string) (*domain.Role, error)

	// ListRoles retrieves the system roles plus the given company's custom roles.
	ListRoles(ctx context.Context, companyID string) ([]domain.Role, error)
}

// RoleWriter defines write operations for role definitions
type RoleWriter interface {
	// SaveRole persists a new role definition.
	SaveRole(ctx context.Context, role domain.Role) error

	// UpdateRolePermissions replaces a role's permission set.
	UpdateRolePermissions(ctx context.Context, roleID string, permissions []string) error

	// DeleteRole removes a role definition.
	DeleteRole(ctx context.Context, roleID string) error
}

// RoleAssignmentReader defines read operations for user_roles rows. This is
// the authoritative source for effective-role resolution.
type RoleAssignmentReader interface {
	// FindAssignmentByUserID retrieves the user_roles row for a user.
	// Returns apperrors.ErrNotFound when no row exists.
	FindAssignmentByUserID(ctx context.Context, userID string) (*domain.RoleAssignment, error)

	// FindAssignmentsByUserIDs retrieves the user_roles rows for the given users.
	FindAssignmentsByUserIDs(ctx context.Context, userIDs []string) ([]domain.RoleAssignment, error)

	// CountAssignmentsMatching counts company members whose stored role string
	// matches the role's id or display name, case-insensitively.
	CountAssignmentsMatching(ctx context.Context, companyID string, role domain.Role) (int, error)
}

// RoleAssignmentWriter defines the authoritative role-assignment write.
type RoleAssignmentWriter interface {
	// UpdateAssignment writes user_roles.role for a user, inserting the row
	// if it does not exist yet.
	UpdateAssignment(ctx context.Context, userID string, role string) error
}

// RoleRepositoryFacade combines all role-related repository interfaces.
type RoleRepositoryFacade interface {
	RoleReader
	RoleWriter
	RoleAssignmentReader
	RoleAssignmentWriter
}
