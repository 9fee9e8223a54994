package services

import (
	"context"

	"github.com/staffsync/staffsync_backend/internal/core/domain"
	"github.com/staffsync/staffsync_backend/internal/dto"
)

// ApplicationSvcFacade defines the company application lifecycle.
type ApplicationSvcFacade interface {
	// Apply submits a join request through the apply_to_company procedure.
	// A business rejection from the procedure surfaces as ErrValidation
	// carrying the procedure's error message.
	Apply(ctx context.Context, userID string, req dto.ApplyRequest) (*domain.CompanyApplication, error)

	// CurrentApplication returns the user's most recent application with its
	// company, or ErrNotFound when the user has never applied.
	CurrentApplication(ctx context.Context, userID string) (*domain.CompanyApplication, error)

	// LeaveCompany detaches the user from their company: clears membership,
	// demotes the role to unassigned and rejects active applications.
	LeaveCompany(ctx context.Context, userID string) error

	// ListPending lists a company's pending applications. Requires the
	// staffs permission.
	ListPending(ctx context.Context, actorUserID, companyID string) ([]domain.CompanyApplication, error)

	// Approve accepts a pending application: membership set, staff role
	// assigned, company_join notification delivered to the applicant.
	Approve(ctx context.Context, actorUserID, applicationID string) error

	// Reject declines a pending application and notifies the applicant.
	Reject(ctx context.Context, actorUserID, applicationID string) error
}
