package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/staffsync/staffsync_backend/internal/apperrors"
	"github.com/staffsync/staffsync_backend/internal/core/domain"
	portsrepo "github.com/staffsync/staffsync_backend/internal/core/ports/repositories"
	portssvc "github.com/staffsync/staffsync_backend/internal/core/ports/services"
	"github.com/staffsync/staffsync_backend/internal/dto"
)

// applicationService implements the ApplicationSvcFacade interface.
type applicationService struct {
	BaseService
	applicationRepo  portsrepo.ApplicationRepositoryFacade
	userRepo         portsrepo.UserRepositoryFacade
	roleRepo         portsrepo.RoleRepositoryFacade
	notificationRepo portsrepo.NotificationWriter
}

// NewApplicationService creates a new application service.
func NewApplicationService(
	applicationRepo portsrepo.ApplicationRepositoryFacade,
	userRepo portsrepo.UserRepositoryFacade,
	roleRepo portsrepo.RoleRepositoryFacade,
	notificationRepo portsrepo.NotificationWriter,
	permissionChecker portssvc.RoleResolverSvc,
) portssvc.ApplicationSvcFacade {
	return &applicationService{
		BaseService:      BaseService{PermissionChecker: permissionChecker},
		applicationRepo:  applicationRepo,
		userRepo:         userRepo,
		roleRepo:         roleRepo,
		notificationRepo: notificationRepo,
	}
}

// Ensure applicationService implements the ApplicationSvcFacade interface
var _ portssvc.ApplicationSvcFacade = (*applicationService)(nil)

// Apply submits a join request through the apply_to_company procedure. The
// procedure validates the code, rejects duplicate pending applications and
// notifies the company's admins; a business rejection surfaces here as
// ErrValidation carrying the procedure's message.
func (s *applicationService) Apply(ctx context.Context, userID string, req dto.ApplyRequest) (*domain.CompanyApplication, error) {
	code := strings.ToUpper(strings.TrimSpace(req.CompanyCode))
	if code == "" {
		return nil, fmt.Errorf("%w: company code is required", apperrors.ErrValidation)
	}

	result, err := s.applicationRepo.ApplyToCompany(ctx, userID, code,
		strings.TrimSpace(req.Department), strings.TrimSpace(req.Position), strings.TrimSpace(req.Message))
	if err != nil {
		s.LogError(ctx, err, "apply_to_company call failed", slog.String("user_id", userID))
		return nil, err
	}
	if !result.Success {
		msg := result.Error
		if msg == "" {
			msg = "application was not accepted"
		}
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, msg)
	}

	s.LogInfo(ctx, "Company application submitted",
		slog.String("user_id", userID),
		slog.String("company_code", code))

	// The procedure created the row; re-read it with the company joined so
	// the caller gets the same shape as CurrentApplication.
	return s.applicationRepo.FindLatestByUserID(ctx, userID)
}

// CurrentApplication returns the user's most recent application with its
// company, or ErrNotFound when the user has never applied.
func (s *applicationService) CurrentApplication(ctx context.Context, userID string) (*domain.CompanyApplication, error) {
	return s.applicationRepo.FindLatestByUserID(ctx, userID)
}

// LeaveCompany detaches the user from their company. Membership is cleared
// first; the role demotion and application rejection follow, and a partial
// failure after the first step leaves the user detached, which is the safe
// direction.
func (s *applicationService) LeaveCompany(ctx context.Context, userID string) error {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.CompanyID == nil {
		return fmt.Errorf("%w: user is not a member of any company", apperrors.ErrValidation)
	}

	if err := s.userRepo.SetCompanyMembership(ctx, userID, nil, false); err != nil {
		s.LogError(ctx, err, "Failed to clear company membership", slog.String("user_id", userID))
		return err
	}

	if err := s.roleRepo.UpdateAssignment(ctx, userID, domain.RoleUnassigned); err != nil {
		s.LogError(ctx, err, "Failed to demote role on leave", slog.String("user_id", userID))
		return err
	}
	if err := s.userRepo.UpdateDenormalizedRole(ctx, userID, domain.RoleUnassigned); err != nil {
		// Cache column only; the authoritative row is already demoted.
		s.LogWarn(ctx, "Failed to update denormalized role on leave",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
	}

	if err := s.applicationRepo.RejectActiveByUserID(ctx, userID); err != nil {
		s.LogError(ctx, err, "Failed to reject active applications on leave", slog.String("user_id", userID))
		return err
	}

	s.LogInfo(ctx, "User left company",
		slog.String("user_id", userID),
		slog.String("company_id", *user.CompanyID))
	return nil
}

// ListPending lists a company's pending applications. Requires the staffs
// permission.
func (s *applicationService) ListPending(ctx context.Context, actorUserID, companyID string) ([]domain.CompanyApplication, error) {
	if err := s.RequirePermission(ctx, actorUserID, domain.PermissionStaffs); err != nil {
		return nil, err
	}
	if err := s.requireSameCompany(ctx, actorUserID, companyID); err != nil {
		return nil, err
	}
	return s.applicationRepo.ListByCompanyAndStatus(ctx, companyID, domain.ApplicationPending)
}

// Approve accepts a pending application: status flips to approved, the
// applicant becomes an active member with the staff role and receives a
// company_join notification.
func (s *applicationService) Approve(ctx context.Context, actorUserID, applicationID string) error {
	app, err := s.fetchPendingForActor(ctx, actorUserID, applicationID)
	if err != nil {
		return err
	}

	if err := s.applicationRepo.UpdateStatus(ctx, applicationID, domain.ApplicationApproved); err != nil {
		s.LogError(ctx, err, "Failed to approve application", slog.String("application_id", applicationID))
		return err
	}

	companyID := app.CompanyID
	if err := s.userRepo.SetCompanyMembership(ctx, app.UserID, &companyID, true); err != nil {
		s.LogError(ctx, err, "Failed to set membership on approval", slog.String("user_id", app.UserID))
		return err
	}
	if err := s.roleRepo.UpdateAssignment(ctx, app.UserID, domain.RoleStaff); err != nil {
		s.LogError(ctx, err, "Failed to assign staff role on approval", slog.String("user_id", app.UserID))
		return err
	}
	if err := s.userRepo.UpdateDenormalizedRole(ctx, app.UserID, domain.RoleStaff); err != nil {
		s.LogWarn(ctx, "Failed to update denormalized role on approval",
			slog.String("user_id", app.UserID),
			slog.String("error", err.Error()))
	}

	s.notifyApplicant(ctx, app, domain.NotificationCompanyJoin,
		"Application approved", "Your application to join the company was approved.")

	s.LogInfo(ctx, "Application approved",
		slog.String("application_id", applicationID),
		slog.String("actor_id", actorUserID))
	return nil
}

// Reject declines a pending application and notifies the applicant.
func (s *applicationService) Reject(ctx context.Context, actorUserID, applicationID string) error {
	app, err := s.fetchPendingForActor(ctx, actorUserID, applicationID)
	if err != nil {
		return err
	}

	if err := s.applicationRepo.UpdateStatus(ctx, applicationID, domain.ApplicationRejected); err != nil {
		s.LogError(ctx, err, "Failed to reject application", slog.String("application_id", applicationID))
		return err
	}

	s.notifyApplicant(ctx, app, domain.NotificationApplicationRejected,
		"Application rejected", "Your application to join the company was rejected.")

	s.LogInfo(ctx, "Application rejected",
		slog.String("application_id", applicationID),
		slog.String("actor_id", actorUserID))
	return nil
}

// fetchPendingForActor loads an application and checks the actor may decide
// it: staffs permission plus membership in the application's company.
func (s *applicationService) fetchPendingForActor(ctx context.Context, actorUserID, applicationID string) (*domain.CompanyApplication, error) {
	if err := s.RequirePermission(ctx, actorUserID, domain.PermissionStaffs); err != nil {
		return nil, err
	}

	app, err := s.applicationRepo.FindApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status != domain.ApplicationPending {
		return nil, fmt.Errorf("%w: application is already %s", apperrors.ErrValidation, app.Status)
	}
	if err := s.requireSameCompany(ctx, actorUserID, app.CompanyID); err != nil {
		return nil, err
	}
	return app, nil
}

// requireSameCompany ensures the actor belongs to the given company.
func (s *applicationService) requireSameCompany(ctx context.Context, actorUserID, companyID string) error {
	actor, err := s.userRepo.FindUserByID(ctx, actorUserID)
	if err != nil {
		return err
	}
	if actor.CompanyID == nil || *actor.CompanyID != companyID {
		return apperrors.ErrForbidden
	}
	return nil
}

// notifyApplicant inserts a decision notification for the applicant. Failure
// is logged, not surfaced: the decision itself already committed.
func (s *applicationService) notifyApplicant(ctx context.Context, app *domain.CompanyApplication, typ domain.NotificationType, title, message string) {
	n := domain.Notification{
		NotificationID: uuid.NewString(),
		UserID:         app.UserID,
		Type:           typ,
		Title:          title,
		Message:        message,
		Metadata:       map[string]any{"applicationId": app.ApplicationID, "companyId": app.CompanyID},
		CreatedAt:      time.Now(),
	}
	if err := s.notificationRepo.SaveNotification(ctx, n); err != nil && !errors.Is(err, context.Canceled) {
		s.LogWarn(ctx, "Failed to notify applicant of decision",
			slog.String("application_id", app.ApplicationID),
			slog.String("error", err.Error()))
	}
}
