package services

import (
	"context"

	"github.com/staffsync/staffsync_backend/internal/core/domain"
)

// StaffSvcFacade defines the staff roster operations.
type StaffSvcFacade interface {
	// ListStaff lists a company's members, newest first. Requires the
	// staffs permission.
	ListStaff(ctx context.Context, actorUserID, companyID string) ([]domain.User, error)

	// StaffStats aggregates a staff member's attendance history.
	StaffStats(ctx context.Context, actorUserID, staffUserID string) (*domain.StaffStats, error)

	// ChangeRole reassigns a staff member's role.
	ChangeRole(ctx context.Context, actorUserID, staffUserID string, role string) error
}
