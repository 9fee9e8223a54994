package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/staffsync/staffsync_backend/internal/apperrors"
	"github.com/staffsync/staffsync_backend/internal/core/domain"
	portsrepo "github.com/staffsync/staffsync_backend/internal/core/ports/repositories"
	portssvc "github.com/staffsync/staffsync_backend/internal/core/ports/services"
	"github.com/staffsync/staffsync_backend/internal/utils"
)

// roleService implements the RoleSvcFacade interface.
//
// user_roles is the single source of truth for a user's role; users.role is a
// cache column written best-effort on every authoritative write and never
// read back for authorization decisions.
type roleService struct {
	BaseService
	roleRepo portsrepo.RoleRepositoryFacade
	userRepo portsrepo.UserRepositoryFacade
}

// NewRoleService creates a new role service with the provided dependencies
func NewRoleService(
	roleRepo portsrepo.RoleRepositoryFacade,
	userRepo portsrepo.UserRepositoryFacade,
) portssvc.RoleSvcFacade {
	svc := &roleService{
		roleRepo: roleRepo,
		userRepo: userRepo,
	}
	// The role service is its own permission checker.
	svc.PermissionChecker = svc
	return svc
}

// Ensure roleService implements the RoleSvcFacade interface
var _ portssvc.RoleSvcFacade = (*roleService)(nil)

// ResolveEffectiveRole reads the authoritative user_roles row for the user.
// A missing row or an empty stored value resolves to the unassigned role.
func (s *roleService) ResolveEffectiveRole(ctx context.Context, userID string) (string, error) {
	assignment, err := s.roleRepo.FindAssignmentByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.RoleUnassigned, nil
		}
		s.LogError(ctx, err, "Failed to read role assignment",
			slog.String("user_id", userID))
		return "", err
	}

	role := strings.TrimSpace(assignment.Role)
	if role == "" {
		return domain.RoleUnassigned, nil
	}
	return role, nil
}

// HasPermission resolves the user's effective role, looks up its definition
// and applies the set-membership check with the "all" wildcard.
func (s *roleService) HasPermission(ctx context.Context, userID string, permission string) (bool, error) {
	effective, err := s.ResolveEffectiveRole(ctx, userID)
	if err != nil {
		return false, err
	}
	if effective == domain.RoleUnassigned {
		return false, nil
	}

	role, err := s.lookupRoleByStoredValue(ctx, effective)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Assignment refers to a role that no longer exists.
			s.LogWarn(ctx, "Role assignment refers to unknown role",
				slog.String("user_id", userID),
				slog.String("role", effective))
			return false, nil
		}
		return false, err
	}
	return role.Grants(permission), nil
}

// lookupRoleByStoredValue finds the role definition behind a stored
// user_roles string, which may be the role id or its display name.
func (s *roleService) lookupRoleByStoredValue(ctx context.Context, stored string) (*domain.Role, error) {
	role, err := s.roleRepo.FindRoleByID(ctx, strings.ToLower(stored))
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	// Display-name convention: "Team Lead" is stored where "team_lead" is the id.
	return s.roleRepo.FindRoleByID(ctx, utils.SlugifyRoleName(stored))
}

// GetRoleByID retrieves a role definition by its id.
func (s *roleService) GetRoleByID(ctx context.Context, roleID string) (*domain.Role, error) {
	return s.roleRepo.FindRoleByID(ctx, roleID)
}

// ListRoles retrieves the roles visible to the actor's company. UserCount is
// derived by counting matching assignments, never stored.
func (s *roleService) ListRoles(ctx context.Context, actorUserID, companyID string) ([]domain.Role, error) {
	if err := s.requireCompanyMember(ctx, actorUserID, companyID); err != nil {
		return nil, err
	}

	roles, err := s.roleRepo.ListRoles(ctx, companyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list roles", slog.String("company_id", companyID))
		return nil, err
	}

	for i := range roles {
		count, err := s.roleRepo.CountAssignmentsMatching(ctx, companyID, roles[i])
		if err != nil {
			s.LogError(ctx, err, "Failed to count role members",
				slog.String("role_id", roles[i].RoleID))
			return nil, err
		}
		roles[i].UserCount = count
	}
	return roles, nil
}

// MembersOf lists the company members whose stored role string matches the
// role's id or display name, case-insensitively. Historical rows use the
// display-name convention, newer rows use ids; neither is canonical.
func (s *roleService) MembersOf(ctx context.Context, actorUserID, roleID, companyID string) ([]domain.UserSummary, error) {
	if err := s.requireCompanyMember(ctx, actorUserID, companyID); err != nil {
		return nil, err
	}

	role, err := s.roleRepo.FindRoleByID(ctx, roleID)
	if err != nil {
		return nil, err
	}

	companyUserIDs, err := s.userRepo.FindUserIDsByCompanyID(ctx, companyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list company user ids", slog.String("company_id", companyID))
		return nil, err
	}
	if len(companyUserIDs) == 0 {
		return []domain.UserSummary{}, nil
	}

	assignments, err := s.roleRepo.FindAssignmentsByUserIDs(ctx, companyUserIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch role assignments", slog.String("role_id", roleID))
		return nil, err
	}

	matchedIDs := make([]string, 0, len(assignments))
	for _, a := range assignments {
		if a.MatchesRole(*role) {
			matchedIDs = append(matchedIDs, a.UserID)
		}
	}
	if len(matchedIDs) == 0 {
		return []domain.UserSummary{}, nil
	}

	users, err := s.userRepo.FindUsersByIDs(ctx, matchedIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch role members", slog.String("role_id", roleID))
		return nil, err
	}

	members := make([]domain.UserSummary, len(users))
	for i, u := range users {
		members[i] = domain.UserSummary{
			UserID:   u.UserID,
			FullName: u.FullName,
			Email:    u.Email,
			RoleID:   roleID,
		}
	}
	return members, nil
}

// AssignRole writes the authoritative user_roles assignment, then mirrors the
// value best-effort to users.role. Failure of the mirror write is logged but
// does not roll back the assignment.
func (s *roleService) AssignRole(ctx context.Context, actorUserID, targetUserID string, role string) error {
	if err := s.RequirePermission(ctx, actorUserID, domain.PermissionStaffs); err != nil {
		return err
	}

	if strings.TrimSpace(role) == "" {
		return fmt.Errorf("%w: role must not be empty", apperrors.ErrValidation)
	}

	if err := s.roleRepo.UpdateAssignment(ctx, targetUserID, role); err != nil {
		s.LogError(ctx, err, "Failed to update role assignment",
			slog.String("target_user_id", targetUserID),
			slog.String("role", role))
		return err
	}

	if err := s.userRepo.UpdateDenormalizedRole(ctx, targetUserID, role); err != nil {
		// users.role is a display cache; the authoritative write already
		// succeeded, so the assignment stands and the cache lags.
		s.LogWarn(ctx, "Failed to mirror role to users table",
			slog.String("target_user_id", targetUserID),
			slog.String("role", role),
			slog.String("error", err.Error()))
	}

	s.LogInfo(ctx, "Role assigned",
		slog.String("target_user_id", targetUserID),
		slog.String("role", role))
	return nil
}

// RemoveFromRole demotes the user to the unassigned role. The user record
// itself is untouched.
func (s *roleService) RemoveFromRole(ctx context.Context, actorUserID, targetUserID string) error {
	return s.AssignRole(ctx, actorUserID, targetUserID, domain.RoleUnassigned)
}

// CreateRole creates a non-system role scoped to the acting user's company.
// Only a user resolving to the ceo role may manage role definitions.
func (s *roleService) CreateRole(ctx context.Context, actorUserID, name, description string, permissionIDs []string) (*domain.Role, error) {
	if err := s.requireCEO(ctx, actorUserID); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: role name must not be empty", apperrors.ErrValidation)
	}

	actor, err := s.userRepo.FindUserByID(ctx, actorUserID)
	if err != nil {
		return nil, err
	}
	if actor.CompanyID == nil {
		return nil, fmt.Errorf("%w: acting user has no company", apperrors.ErrValidation)
	}

	roleID := utils.SlugifyRoleName(name)
	if _, err := s.roleRepo.FindRoleByID(ctx, roleID); err == nil {
		return nil, fmt.Errorf("%w: role %q", apperrors.ErrDuplicate, roleID)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	if permissionIDs == nil {
		permissionIDs = []string{}
	}
	role := domain.Role{
		RoleID:      roleID,
		Name:        name,
		Description: description,
		Permissions: permissionIDs,
		IsSystem:    false,
		CompanyID:   actor.CompanyID,
	}

	if err := s.roleRepo.SaveRole(ctx, role); err != nil {
		s.LogError(ctx, err, "Failed to save role", slog.String("role_id", roleID))
		return nil, err
	}

	s.LogInfo(ctx, "Role created",
		slog.String("role_id", roleID),
		slog.String("created_by", actorUserID))
	return &role, nil
}

// UpdateRole replaces a custom role's permission set. The ceo role's full
// access is permanent; other system roles are shared seed rows and equally
// non-editable. The role must belong to the actor's company.
func (s *roleService) UpdateRole(ctx context.Context, actorUserID, roleID string, permissionIDs []string) error {
	if err := s.requireCEO(ctx, actorUserID); err != nil {
		return err
	}

	if roleID == domain.RoleCEO {
		return fmt.Errorf("%w: the ceo role cannot be edited", apperrors.ErrForbidden)
	}

	role, err := s.roleRepo.FindRoleByID(ctx, roleID)
	if err != nil {
		return err
	}
	if role.IsSystem {
		// System role definitions are seed rows shared by every company.
		return fmt.Errorf("%w: system role permissions cannot be edited", apperrors.ErrForbidden)
	}
	if err := s.requireRoleOwnership(ctx, actorUserID, role); err != nil {
		return err
	}

	if permissionIDs == nil {
		permissionIDs = []string{}
	}
	if err := s.roleRepo.UpdateRolePermissions(ctx, roleID, permissionIDs); err != nil {
		s.LogError(ctx, err, "Failed to update role permissions", slog.String("role_id", roleID))
		return err
	}

	s.LogInfo(ctx, "Role permissions updated", slog.String("role_id", roleID))
	return nil
}

// DeleteRole removes a role definition. System roles cannot be deleted.
func (s *roleService) DeleteRole(ctx context.Context, actorUserID, roleID string) error {
	if err := s.requireCEO(ctx, actorUserID); err != nil {
		return err
	}

	role, err := s.roleRepo.FindRoleByID(ctx, roleID)
	if err != nil {
		return err
	}
	if role.IsSystem {
		return fmt.Errorf("%w: system roles cannot be deleted", apperrors.ErrForbidden)
	}
	if err := s.requireRoleOwnership(ctx, actorUserID, role); err != nil {
		return err
	}

	if err := s.roleRepo.DeleteRole(ctx, roleID); err != nil {
		s.LogError(ctx, err, "Failed to delete role", slog.String("role_id", roleID))
		return err
	}

	s.LogInfo(ctx, "Role deleted", slog.String("role_id", roleID))
	return nil
}

// requireCEO rejects any actor whose effective role is not ceo.
func (s *roleService) requireCEO(ctx context.Context, actorUserID string) error {
	effective, err := s.ResolveEffectiveRole(ctx, actorUserID)
	if err != nil {
		return err
	}
	if !strings.EqualFold(effective, domain.RoleCEO) {
		return fmt.Errorf("%w: only the ceo role can manage roles", apperrors.ErrForbidden)
	}
	return nil
}

// requireCompanyMember rejects an actor who is not a member of the company
// whose data is being read.
func (s *roleService) requireCompanyMember(ctx context.Context, actorUserID, companyID string) error {
	actor, err := s.userRepo.FindUserByID(ctx, actorUserID)
	if err != nil {
		return err
	}
	if actor.CompanyID == nil || *actor.CompanyID != companyID {
		return apperrors.ErrForbidden
	}
	return nil
}

// requireRoleOwnership rejects mutation of a custom role owned by a company
// other than the actor's.
func (s *roleService) requireRoleOwnership(ctx context.Context, actorUserID string, role *domain.Role) error {
	actor, err := s.userRepo.FindUserByID(ctx, actorUserID)
	if err != nil {
		return err
	}
	if role.CompanyID == nil || actor.CompanyID == nil || *role.CompanyID != *actor.CompanyID {
		return fmt.Errorf("%w: role belongs to another company", apperrors.ErrForbidden)
	}
	return nil
}
