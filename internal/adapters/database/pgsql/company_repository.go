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

const companyColumns = `company_id, name, company_code, address, website, industry, company_size,
	timezone, work_start_time, work_end_time, lunch_start_time, lunch_end_time,
	camera_enabled, verification_limit_per_day, created_at, last_updated_at`

type companyRepository struct {
	pool *pgxpool.Pool
}

// NewCompanyRepository creates a new repository for company data.
func NewCompanyRepository(pool *pgxpool.Pool) portsrepo.CompanyRepositoryFacade {
	return &companyRepository{pool: pool}
}

// Ensure companyRepository implements the facade
var _ portsrepo.CompanyRepositoryFacade = (*companyRepository)(nil)

func scanCompany(row pgx.Row) (*domain.Company, error) {
	var c domain.Company
	err := row.Scan(
		&c.CompanyID,
		&c.Name,
		&c.CompanyCode,
		&c.Address,
		&c.Website,
		&c.Industry,
		&c.CompanySize,
		&c.Timezone,
		&c.WorkStartTime,
		&c.WorkEndTime,
		&c.LunchStartTime,
		&c.LunchEndTime,
		&c.CameraEnabled,
		&c.VerificationLimitPerDay,
		&c.CreatedAt,
		&c.LastUpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *companyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE company_id = $1;`
	company, err := scanCompany(r.pool.QueryRow(ctx, query, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("company %s: %w", companyID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find company by ID: %w", err)
	}
	return company, nil
}

func (r *companyRepository) FindCompanyByCode(ctx context.Context, companyCode string) (*domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE upper(company_code) = upper($1);`
	company, err := scanCompany(r.pool.QueryRow(ctx, query, companyCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("company code %s: %w", companyCode, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find company by code: %w", err)
	}
	return company, nil
}

func (r *companyRepository) SearchCompanies(ctx context.Context, query string, limit int) ([]domain.Company, error) {
	if limit <= 0 {
		limit = 20
	}
	sql := `
		SELECT ` + companyColumns + `
		FROM companies
		WHERE name ILIKE '%' || $1 || '%' OR upper(company_code) = upper($1)
		ORDER BY name
		LIMIT $2;
	`
	rows, err := r.pool.Query(ctx, sql, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search companies: %w", err)
	}
	defer rows.Close()

	companies := []domain.Company{}
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan company row: %w", err)
		}
		companies = append(companies, *company)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating company rows: %w", rows.Err())
	}
	return companies, nil
}

func (r *companyRepository) SaveCompany(ctx context.Context, company domain.Company) error {
	query := `
		INSERT INTO companies (company_id, name, company_code, address, website, industry, company_size,
			timezone, work_start_time, work_end_time, lunch_start_time, lunch_end_time,
			camera_enabled, verification_limit_per_day, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := r.pool.Exec(ctx, query,
		company.CompanyID,
		company.Name,
		company.CompanyCode,
		company.Address,
		company.Website,
		company.Industry,
		company.CompanySize,
		company.Timezone,
		company.WorkStartTime,
		company.WorkEndTime,
		company.LunchStartTime,
		company.LunchEndTime,
		company.CameraEnabled,
		company.VerificationLimitPerDay,
		company.CreatedAt,
		company.LastUpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("company code already exists: %w", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save company: %w", err)
	}
	return nil
}

func (r *companyRepository) UpdateCompany(ctx context.Context, company domain.Company) error {
	query := `
		UPDATE companies
		SET name = $2, address = $3, website = $4, industry = $5, company_size = $6,
			timezone = $7, work_start_time = $8, work_end_time = $9,
			lunch_start_time = $10, lunch_end_time = $11,
			camera_enabled = $12, verification_limit_per_day = $13, last_updated_at = $14
		WHERE company_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query,
		company.CompanyID,
		company.Name,
		company.Address,
		company.Website,
		company.Industry,
		company.CompanySize,
		company.Timezone,
		company.WorkStartTime,
		company.WorkEndTime,
		company.LunchStartTime,
		company.LunchEndTime,
		company.CameraEnabled,
		company.VerificationLimitPerDay,
		company.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("company %s: %w", company.CompanyID, apperrors.ErrNotFound)
	}
	return nil
}
