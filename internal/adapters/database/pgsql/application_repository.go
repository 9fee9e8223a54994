package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/staffsync/staffsync_backend/internal/apperrors"
	"github.com/staffsync/staffsync_backend/internal/core/domain"
	portsrepo "github.com/staffsync/staffsync_backend/internal/core/ports/repositories"
)

type applicationRepository struct {
	pool *pgxpool.Pool
}

// NewApplicationRepository creates a new repository for company applications.
func NewApplicationRepository(pool *pgxpool.Pool) portsrepo.ApplicationRepositoryFacade {
	return &applicationRepository{pool: pool}
}

// Ensure applicationRepository implements the facade
var _ portsrepo.ApplicationRepositoryFacade = (*applicationRepository)(nil)

func (r *applicationRepository) FindApplicationByID(ctx context.Context, applicationID string) (*domain.CompanyApplication, error) {
	query := `
		SELECT application_id, user_id, company_id, department, position, message, status, created_at
		FROM company_applications
		WHERE application_id = $1;
	`
	var app domain.CompanyApplication
	err := r.pool.QueryRow(ctx, query, applicationID).Scan(
		&app.ApplicationID,
		&app.UserID,
		&app.CompanyID,
		&app.Department,
		&app.Position,
		&app.Message,
		&app.Status,
		&app.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("application %s: %w", applicationID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find application by ID: %w", err)
	}
	return &app, nil
}

// FindLatestByUserID returns the most recent application with its company
// joined for display.
func (r *applicationRepository) FindLatestByUserID(ctx context.Context, userID string) (*domain.CompanyApplication, error) {
	query := `
		SELECT a.application_id, a.user_id, a.company_id, a.department, a.position, a.message, a.status, a.created_at,
			` + companyColumnsPrefixed("c") + `
		FROM company_applications a
		JOIN companies c ON c.company_id = a.company_id
		WHERE a.user_id = $1
		ORDER BY a.created_at DESC
		LIMIT 1;
	`
	var app domain.CompanyApplication
	var company domain.Company
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&app.ApplicationID,
		&app.UserID,
		&app.CompanyID,
		&app.Department,
		&app.Position,
		&app.Message,
		&app.Status,
		&app.CreatedAt,
		&company.CompanyID,
		&company.Name,
		&company.CompanyCode,
		&company.Address,
		&company.Website,
		&company.Industry,
		&company.CompanySize,
		&company.Timezone,
		&company.WorkStartTime,
		&company.WorkEndTime,
		&company.LunchStartTime,
		&company.LunchEndTime,
		&company.CameraEnabled,
		&company.VerificationLimitPerDay,
		&company.CreatedAt,
		&company.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("application for user %s: %w", userID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find latest application: %w", err)
	}
	app.Company = &company
	return &app, nil
}

func (r *applicationRepository) ListByCompanyAndStatus(ctx context.Context, companyID string, status domain.ApplicationStatus) ([]domain.CompanyApplication, error) {
	query := `
		SELECT application_id, user_id, company_id, department, position, message, status, created_at
		FROM company_applications
		WHERE company_id = $1 AND status = $2
		ORDER BY created_at DESC;
	`
	rows, err := r.pool.Query(ctx, query, companyID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to query applications: %w", err)
	}
	defer rows.Close()

	apps := []domain.CompanyApplication{}
	for rows.Next() {
		var app domain.CompanyApplication
		err := rows.Scan(
			&app.ApplicationID,
			&app.UserID,
			&app.CompanyID,
			&app.Department,
			&app.Position,
			&app.Message,
			&app.Status,
			&app.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application row: %w", err)
		}
		apps = append(apps, app)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating application rows: %w", rows.Err())
	}
	return apps, nil
}

// ApplyToCompany invokes the apply_to_company procedure, which validates the
// code, rejects duplicate pending applications, inserts the row and notifies
// the company's admins in one transaction.
func (r *applicationRepository) ApplyToCompany(ctx context.Context, userID, companyCode, department, position, message string) (*domain.ApplyResult, error) {
	query := `SELECT apply_to_company($1, $2, $3, $4, $5);`
	var result domain.ApplyResult
	if err := r.pool.QueryRow(ctx, query, userID, companyCode, department, position, message).Scan(&result); err != nil {
		return nil, fmt.Errorf("apply_to_company failed: %w", err)
	}
	return &result, nil
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, applicationID string, status domain.ApplicationStatus) error {
	query := `UPDATE company_applications SET status = $2 WHERE application_id = $1;`
	tag, err := r.pool.Exec(ctx, query, applicationID, status)
	if err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("application %s: %w", applicationID, apperrors.ErrNotFound)
	}
	return nil
}

// RejectActiveByUserID closes out the user's pending and approved
// applications when they leave a company. Zero affected rows is fine.
func (r *applicationRepository) RejectActiveByUserID(ctx context.Context, userID string) error {
	query := `
		UPDATE company_applications
		SET status = $2
		WHERE user_id = $1 AND status IN ($3, $4);
	`
	_, err := r.pool.Exec(ctx, query, userID,
		domain.ApplicationRejected, domain.ApplicationPending, domain.ApplicationApproved)
	if err != nil {
		return fmt.Errorf("failed to reject active applications: %w", err)
	}
	return nil
}

// companyColumnsPrefixed returns the company column list qualified with the
// given alias, for joined selects.
func companyColumnsPrefixed(alias string) string {
	return alias + `.company_id, ` + alias + `.name, ` + alias + `.company_code, ` +
		alias + `.address, ` + alias + `.website, ` + alias + `.industry, ` + alias + `.company_size, ` +
		alias + `.timezone, ` + alias + `.work_start_time, ` + alias + `.work_end_time, ` +
		alias + `.lunch_start_time, ` + alias + `.lunch_end_time, ` +
		alias + `.camera_enabled, ` + alias + `.verification_limit_per_day, ` +
		alias + `.created_at, ` + alias + `.last_updated_at`
}
