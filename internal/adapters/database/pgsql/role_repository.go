package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/staffsync/staffsync_backend/internal/apperrors"
	"github.com/staffsync/staffsync_backend/internal/core/domain"
	portsrepo "github.com/staffsync/staffsync_backend/internal/core/ports/repositories"
)

type roleRepository struct {
	pool *pgxpool.Pool
}

// NewRoleRepository creates a new repository for role definitions and the
// authoritative user_roles assignments.
func NewRoleRepository(pool *pgxpool.Pool) portsrepo.RoleRepositoryFacade {
	return &roleRepository{pool: pool}
}

// Ensure roleRepository implements the facade
var _ portsrepo.RoleRepositoryFacade = (*roleRepository)(nil)

func (r *roleRepository) FindRoleByID(ctx context.Context, roleID string) (*domain.Role, error) {
	query := `
		SELECT role_id, name, description, permissions, is_system, company_id
		FROM roles
		WHERE role_id = $1;
	`
	var role domain.Role
	err := r.pool.QueryRow(ctx, query, roleID).Scan(
		&role.RoleID,
		&role.Name,
		&role.Description,
		&role.Permissions,
		&role.IsSystem,
		&role.CompanyID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("role %s: %w", roleID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find role by ID: %w", err)
	}
	return &role, nil
}

func (r *roleRepository) ListRoles(ctx context.Context, companyID string) ([]domain.Role, error) {
	query := `
		SELECT role_id, name, description, permissions, is_system, company_id
		FROM roles
		WHERE is_system OR company_id = $1
		ORDER BY is_system DESC, name;
	`
	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query roles: %w", err)
	}
	defer rows.Close()

	roles := []domain.Role{}
	for rows.Next() {
		var role domain.Role
		err := rows.Scan(
			&role.RoleID,
			&role.Name,
			&role.Description,
			&role.Permissions,
			&role.IsSystem,
			&role.CompanyID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan role row: %w", err)
		}
		roles = append(roles, role)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating role rows: %w", rows.Err())
	}
	return roles, nil
}

func (r *roleRepository) SaveRole(ctx context.Context, role domain.Role) error {
	query := `
		INSERT INTO roles (role_id, name, description, permissions, is_system, company_id)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.pool.Exec(ctx, query,
		role.RoleID,
		role.Name,
		role.Description,
		role.Permissions,
		role.IsSystem,
		role.CompanyID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("role %s already exists: %w", role.RoleID, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save role: %w", err)
	}
	return nil
}

func (r *roleRepository) UpdateRolePermissions(ctx context.Context, roleID string, permissions []string) error {
	query := `UPDATE roles SET permissions = $2 WHERE role_id = $1;`
	tag, err := r.pool.Exec(ctx, query, roleID, permissions)
	if err != nil {
		return fmt.Errorf("failed to update role permissions: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("role %s: %w", roleID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *roleRepository) DeleteRole(ctx context.Context, roleID string) error {
	query := `DELETE FROM roles WHERE role_id = $1;`
	tag, err := r.pool.Exec(ctx, query, roleID)
	if err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("role %s: %w", roleID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *roleRepository) FindAssignmentByUserID(ctx context.Context, userID string) (*domain.RoleAssignment, error) {
	query := `SELECT user_id, role FROM user_roles WHERE user_id = $1;`
	var a domain.RoleAssignment
	err := r.pool.QueryRow(ctx, query, userID).Scan(&a.UserID, &a.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("role assignment for user %s: %w", userID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find role assignment: %w", err)
	}
	return &a, nil
}

func (r *roleRepository) FindAssignmentsByUserIDs(ctx context.Context, userIDs []string) ([]domain.RoleAssignment, error) {
	if len(userIDs) == 0 {
		return []domain.RoleAssignment{}, nil
	}
	query := `SELECT user_id, role FROM user_roles WHERE user_id = ANY($1);`
	rows, err := r.pool.Query(ctx, query, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query role assignments: %w", err)
	}
	defer rows.Close()

	assignments := []domain.RoleAssignment{}
	for rows.Next() {
		var a domain.RoleAssignment
		if err := rows.Scan(&a.UserID, &a.Role); err != nil {
			return nil, fmt.Errorf("failed to scan role assignment row: %w", err)
		}
		assignments = append(assignments, a)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating role assignment rows: %w", rows.Err())
	}
	return assignments, nil
}

// CountAssignmentsMatching counts company members whose stored role string
// matches the role's id or display name. Both naming conventions exist in
// historical rows, so the match is against either, case-insensitively.
func (r *roleRepository) CountAssignmentsMatching(ctx context.Context, companyID string, role domain.Role) (int, error) {
	query := `
		SELECT count(*)
		FROM user_roles ur
		JOIN users u ON u.user_id = ur.user_id
		WHERE u.company_id = $1
		  AND lower(trim(ur.role)) IN (lower($2), lower($3));
	`
	var count int
	if err := r.pool.QueryRow(ctx, query, companyID, role.RoleID, role.Name).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count role assignments: %w", err)
	}
	return count, nil
}

func (r *roleRepository) UpdateAssignment(ctx context.Context, userID string, role string) error {
	query := `
		INSERT INTO user_roles (user_id, role, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id) DO UPDATE SET
			role = EXCLUDED.role,
			updated_at = EXCLUDED.updated_at;
	`
	if _, err := r.pool.Exec(ctx, query, userID, role); err != nil {
		return fmt.Errorf("failed to update role assignment: %w", err)
	}
	return nil
}
