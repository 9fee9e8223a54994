package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/staffsync/staffsync_backend/internal/apperrors"
	"github.com/staffsync/staffsync_backend/internal/core/domain"
	portsrepo "github.com/staffsync/staffsync_backend/internal/core/ports/repositories"
	portssvc "github.com/staffsync/staffsync_backend/internal/core/ports/services"
)

var minutesPerHour = decimal.NewFromInt(60)

// staffService implements the StaffSvcFacade interface.
type staffService struct {
	BaseService
	userRepo        portsrepo.UserRepositoryFacade
	roleRepo        portsrepo.RoleRepositoryFacade
	workSessionRepo portsrepo.WorkSessionReader
	roleSvc         portssvc.RoleAssignmentSvc
}

// NewStaffService creates a new staff service.
func NewStaffService(
	userRepo portsrepo.UserRepositoryFacade,
	roleRepo portsrepo.RoleRepositoryFacade,
	workSessionRepo portsrepo.WorkSessionReader,
	roleSvc portssvc.RoleAssignmentSvc,
	permissionChecker portssvc.RoleResolverSvc,
) portssvc.StaffSvcFacade {
	return &staffService{
		BaseService:     BaseService{PermissionChecker: permissionChecker},
		userRepo:        userRepo,
		roleRepo:        roleRepo,
		workSessionRepo: workSessionRepo,
		roleSvc:         roleSvc,
	}
}

// Ensure staffService implements the StaffSvcFacade interface
var _ portssvc.StaffSvcFacade = (*staffService)(nil)

// ListStaff lists a company's members, newest first. Requires the staffs
// permission and membership in the company.
func (s *staffService) ListStaff(ctx context.Context, actorUserID, companyID string) ([]domain.User, error) {
	if err := s.RequirePermission(ctx, actorUserID, domain.PermissionStaffs); err != nil {
		return nil, err
	}

	actor, err := s.userRepo.FindUserByID(ctx, actorUserID)
	if err != nil {
		return nil, err
	}
	if actor.CompanyID == nil || *actor.CompanyID != companyID {
		return nil, apperrors.ErrForbidden
	}

	return s.userRepo.FindUsersByCompanyID(ctx, companyID)
}

// StaffStats aggregates a staff member's attendance history. Hours are
// derived from minutes and rounded to one fractional digit.
func (s *staffService) StaffStats(ctx context.Context, actorUserID, staffUserID string) (*domain.StaffStats, error) {
	if err := s.RequirePermission(ctx, actorUserID, domain.PermissionStaffs); err != nil {
		return nil, err
	}

	staff, err := s.userRepo.FindUserByID(ctx, staffUserID)
	if err != nil {
		return nil, err
	}
	actor, err := s.userRepo.FindUserByID(ctx, actorUserID)
	if err != nil {
		return nil, err
	}
	if actor.CompanyID == nil || staff.CompanyID == nil || *actor.CompanyID != *staff.CompanyID {
		return nil, apperrors.ErrForbidden
	}

	sessions, err := s.workSessionRepo.FindSessionsByUserID(ctx, staffUserID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load work sessions", slog.String("user_id", staffUserID))
		return nil, err
	}

	stats := &domain.StaffStats{TotalSessions: len(sessions)}
	totalMinutes := int64(0)
	for _, ws := range sessions {
		totalMinutes += int64(ws.TotalMinutes)
		if stats.LastActive == nil || ws.WorkDate.After(*stats.LastActive) {
			d := ws.WorkDate
			stats.LastActive = &d
		}
	}
	stats.TotalHours = decimal.NewFromInt(totalMinutes).Div(minutesPerHour).Round(1)
	return stats, nil
}

// ChangeRole reassigns a staff member's role. Delegates to the role
// assignment service so the dual-table write order and its best-effort cache
// update stay in one place.
func (s *staffService) ChangeRole(ctx context.Context, actorUserID, staffUserID string, role string) error {
	role = strings.TrimSpace(role)
	if role == "" {
		return fmt.Errorf("%w: role is required", apperrors.ErrValidation)
	}
	return s.roleSvc.AssignRole(ctx, actorUserID, staffUserID, role)
}
