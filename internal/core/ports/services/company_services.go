package services

import (
	"context"

	"github.com/staffsync/staffsync_backend/internal/core/domain"
	"github.com/staffsync/staffsync_backend/internal/dto"
)

// CompanySvcFacade defines operations on company records.
type CompanySvcFacade interface {
	// CreateCompany creates a company and makes the creator its ceo. The
	// actor must not already belong to a company.
	CreateCompany(ctx context.Context, actorUserID string, req dto.CreateCompanyRequest) (*domain.Company, error)

	// GetCompany retrieves a company's settings.
	GetCompany(ctx context.Context, companyID string) (*domain.Company, error)

	// UpdateCompanySettings updates a company's settings. Requires the
	// company_settings permission.
	UpdateCompanySettings(ctx context.Context, actorUserID, companyID string, req dto.UpdateCompanySettingsRequest) (*domain.Company, error)

	// SearchCompanies finds companies by name or join code for the apply flow.
	SearchCompanies(ctx context.Context, query string) ([]domain.Company, error)

	// GetCompanyByCode retrieves a company by its exact join code.
	GetCompanyByCode(ctx context.Context, companyCode string) (*domain.Company, error)
}
