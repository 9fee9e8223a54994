package repositories

import (
	"context"
	"time"

	"github.com/staffsync/staffsync_backend/internal/core/domain"
)

// UserReader defines read operations for user data
type UserReader interface {
	// FindUserByID retrieves a specific user by their ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a user by email address.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUsersByCompanyID retrieves all users belonging to a company, newest first.
	FindUsersByCompanyID(ctx context.Context, companyID string) ([]domain.User, error)

	// FindUserIDsByCompanyID retrieves the ids of all users belonging to a company.
	FindUserIDsByCompanyID(ctx context.Context, companyID string) ([]string, error)

	// FindUsersByIDs retrieves the users for the given ids.
	FindUsersByIDs(ctx context.Context, userIDs []string) ([]domain.User, error)
}

// UserWriter defines write operations for user data
type UserWriter interface {
	// SaveUser persists a new user.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateUserProfile updates mutable profile fields (name, phone, position, department).
	UpdateUserProfile(ctx context.Context, user domain.User) error

	// UpdateDenormalizedRole writes the users.role cache column. Best-effort
	// mirror of the authoritative user_roles assignment.
	UpdateDenormalizedRole(ctx context.Context, userID string, role string) error

	// SetCompanyMembership sets users.company_id and is_active together.
	SetCompanyMembership(ctx context.Context, userID string, companyID *string, isActive bool) error

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, userID string, passwordHash string) error

	// UpdateRefreshToken stores the refresh token hash and its expiry for a user.
	UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, expiry time.Time) error

	// ClearRefreshToken removes the stored refresh token for a user.
	ClearRefreshToken(ctx context.Context, userID string) error
}

// UserRepositoryFacade combines all user-related repository interfaces.
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
