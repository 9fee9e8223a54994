package repositories

import (
	"context"

	"github.com/staffsync/staffsync_backend/internal/core/domain"
)

// CompanyReader defines read operations for company data
type CompanyReader interface {
	// FindCompanyByID retrieves a company by its ID.
	FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)

	// FindCompanyByCode retrieves a company by its join code.
	FindCompanyByCode(ctx context.Context, companyCode string) (*domain.Company, error)

	// SearchCompanies matches companies by name or code, case-insensitively.
	SearchCompanies(ctx context.Context, query string, limit int) ([]domain.Company, error)
}

// CompanyWriter defines write operations for company data
type CompanyWriter interface {
	// SaveCompany persists a new company.
	SaveCompany(ctx context.Context, company domain.Company) error

	// UpdateCompany updates a company's settings.
	UpdateCompany(ctx context.Context, company domain.Company) error
}

// CompanyRepositoryFacade combines all company-related repository interfaces.
type CompanyRepositoryFacade interface {
	CompanyReader
	CompanyWriter
}
