package repositories

import (
	"context"

	"github.com/staffsync/staffsync_backend/internal/core/domain"
)

// ApplicationReader defines read operations for company applications
type ApplicationReader interface {
	// FindApplicationByID retrieves an application by its id.
	FindApplicationByID(ctx context.Context, applicationID string) (*domain.CompanyApplication, error)

	// FindLatestByUserID retrieves the user's most recent application with
	// its company joined, or apperrors.ErrNotFound when none exists.
	FindLatestByUserID(ctx context.Context, userID string) (*domain.CompanyApplication, error)

	// ListByCompanyAndStatus retrieves a company's applications in the given status.
	ListByCompanyAndStatus(ctx context.Context, companyID string, status domain.ApplicationStatus) ([]domain.CompanyApplication, error)
}

// ApplicationWriter defines write operations for company applications
type ApplicationWriter interface {
	// ApplyToCompany invokes the apply_to_company stored procedure and
	// returns its result payload. A transport failure is an error; a
	// business rejection comes back as {success: false, error}.
	ApplyToCompany(ctx context.Context, userID, companyCode, department, position, message string) (*domain.ApplyResult, error)

	// UpdateStatus transitions an application to the given status.
	UpdateStatus(ctx context.Context, applicationID string, status domain.ApplicationStatus) error

	// RejectActiveByUserID marks the user's pending and approved
	// applications as rejected. Used when a user leaves a company.
	RejectActiveByUserID(ctx context.Context, userID string) error
}

// ApplicationRepositoryFacade combines all application-related repository interfaces.
type ApplicationRepositoryFacade interface {
	ApplicationReader
	ApplicationWriter
}
