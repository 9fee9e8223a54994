package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/staffsync/staffsync_backend/internal/apperrors"
	"github.com/staffsync/staffsync_backend/internal/core/domain"
	portsrepo "github.com/staffsync/staffsync_backend/internal/core/ports/repositories"
	portssvc "github.com/staffsync/staffsync_backend/internal/core/ports/services"
	"github.com/staffsync/staffsync_backend/internal/dto"
	"github.com/staffsync/staffsync_backend/internal/utils"
)

const companySearchLimit = 10

var hhmmPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// companyService implements the CompanySvcFacade interface.
type companyService struct {
	BaseService
	companyRepo portsrepo.CompanyRepositoryFacade
	userRepo    portsrepo.UserRepositoryFacade
	roleRepo    portsrepo.RoleAssignmentWriter
}

// NewCompanyService creates a new company service.
func NewCompanyService(
	companyRepo portsrepo.CompanyRepositoryFacade,
	userRepo portsrepo.UserRepositoryFacade,
	roleRepo portsrepo.RoleAssignmentWriter,
	permissionChecker portssvc.RoleResolverSvc,
) portssvc.CompanySvcFacade {
	return &companyService{
		BaseService: BaseService{PermissionChecker: permissionChecker},
		companyRepo: companyRepo,
		userRepo:    userRepo,
		roleRepo:    roleRepo,
	}
}

// Ensure companyService implements the CompanySvcFacade interface
var _ portssvc.CompanySvcFacade = (*companyService)(nil)

// companyCodeLength is the length of generated join codes.
const companyCodeLength = 6

// CreateCompany creates a company with a fresh join code and makes the
// creator its ceo. Code generation retries on the rare collision.
func (s *companyService) CreateCompany(ctx context.Context, actorUserID string, req dto.CreateCompanyRequest) (*domain.Company, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: company name is required", apperrors.ErrValidation)
	}

	actor, err := s.userRepo.FindUserByID(ctx, actorUserID)
	if err != nil {
		return nil, err
	}
	if actor.CompanyID != nil {
		return nil, fmt.Errorf("%w: you already belong to a company", apperrors.ErrValidation)
	}

	timezone := strings.TrimSpace(req.Timezone)
	if timezone == "" {
		timezone = "UTC"
	} else if _, err := time.LoadLocation(timezone); err != nil {
		return nil, fmt.Errorf("%w: unknown timezone %q", apperrors.ErrValidation, timezone)
	}

	now := time.Now()
	company := domain.Company{
		CompanyID:               uuid.NewString(),
		Name:                    name,
		Industry:                strings.TrimSpace(req.Industry),
		CompanySize:             strings.TrimSpace(req.CompanySize),
		Timezone:                timezone,
		WorkStartTime:           "09:00",
		WorkEndTime:             "18:00",
		LunchStartTime:          "12:00",
		LunchEndTime:            "13:00",
		VerificationLimitPerDay: 3,
		CreatedAt:               now,
		LastUpdatedAt:           now,
	}

	for attempt := 0; ; attempt++ {
		code, err := utils.GenerateCompanyCode(companyCodeLength)
		if err != nil {
			return nil, fmt.Errorf("failed to generate company code: %w", err)
		}
		company.CompanyCode = code

		err = s.companyRepo.SaveCompany(ctx, company)
		if err == nil {
			break
		}
		if errors.Is(err, apperrors.ErrDuplicate) && attempt < 2 {
			continue
		}
		s.LogError(ctx, err, "Failed to save company", slog.String("name", name))
		return nil, err
	}

	if err := s.userRepo.SetCompanyMembership(ctx, actorUserID, &company.CompanyID, true); err != nil {
		return nil, err
	}
	if err := s.roleRepo.UpdateAssignment(ctx, actorUserID, domain.RoleCEO); err != nil {
		return nil, err
	}
	// Best-effort mirror into users.role.
	if err := s.userRepo.UpdateDenormalizedRole(ctx, actorUserID, domain.RoleCEO); err != nil {
		s.LogWarn(ctx, "Failed to mirror ceo role to users table",
			slog.String("user_id", actorUserID),
			slog.String("error", err.Error()))
	}

	s.LogInfo(ctx, "Company created",
		slog.String("company_id", company.CompanyID),
		slog.String("created_by", actorUserID))
	return &company, nil
}

// GetCompany retrieves a company's settings.
func (s *companyService) GetCompany(ctx context.Context, companyID string) (*domain.Company, error) {
	return s.companyRepo.FindCompanyByID(ctx, companyID)
}

// UpdateCompanySettings updates a company's settings. Requires the
// company_settings permission. Nil fields are left unchanged.
func (s *companyService) UpdateCompanySettings(ctx context.Context, actorUserID, companyID string, req dto.UpdateCompanySettingsRequest) (*domain.Company, error) {
	if err := s.RequirePermission(ctx, actorUserID, domain.PermissionCompanySettings); err != nil {
		return nil, err
	}

	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: company name cannot be empty", apperrors.ErrValidation)
		}
		company.Name = name
	}
	if req.Address != nil {
		company.Address = strings.TrimSpace(*req.Address)
	}
	if req.Website != nil {
		company.Website = strings.TrimSpace(*req.Website)
	}
	if req.Industry != nil {
		company.Industry = strings.TrimSpace(*req.Industry)
	}
	if req.CompanySize != nil {
		company.CompanySize = strings.TrimSpace(*req.CompanySize)
	}
	if req.Timezone != nil {
		if _, err := time.LoadLocation(*req.Timezone); err != nil {
			return nil, fmt.Errorf("%w: unknown timezone %q", apperrors.ErrValidation, *req.Timezone)
		}
		company.Timezone = *req.Timezone
	}

	for _, f := range []struct {
		val *string
		dst *string
	}{
		{req.WorkStartTime, &company.WorkStartTime},
		{req.WorkEndTime, &company.WorkEndTime},
		{req.LunchStartTime, &company.LunchStartTime},
		{req.LunchEndTime, &company.LunchEndTime},
	} {
		if f.val == nil {
			continue
		}
		if !hhmmPattern.MatchString(*f.val) {
			return nil, fmt.Errorf("%w: times must be HH:MM, got %q", apperrors.ErrValidation, *f.val)
		}
		*f.dst = *f.val
	}

	if req.CameraEnabled != nil {
		company.CameraEnabled = *req.CameraEnabled
	}
	if req.VerificationLimitPerDay != nil {
		if *req.VerificationLimitPerDay < 0 {
			return nil, fmt.Errorf("%w: verification limit cannot be negative", apperrors.ErrValidation)
		}
		company.VerificationLimitPerDay = *req.VerificationLimitPerDay
	}
	company.LastUpdatedAt = time.Now()

	if err := s.companyRepo.UpdateCompany(ctx, *company); err != nil {
		s.LogError(ctx, err, "Failed to update company settings", slog.String("company_id", companyID))
		return nil, err
	}

	s.LogInfo(ctx, "Company settings updated",
		slog.String("company_id", companyID),
		slog.String("actor_id", actorUserID))
	return company, nil
}

// SearchCompanies finds companies by name or join code for the apply flow.
func (s *companyService) SearchCompanies(ctx context.Context, query string) ([]domain.Company, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.Company{}, nil
	}
	return s.companyRepo.SearchCompanies(ctx, query, companySearchLimit)
}

// GetCompanyByCode retrieves a company by its exact join code. Used to
// preview a company before applying.
func (s *companyService) GetCompanyByCode(ctx context.Context, companyCode string) (*domain.Company, error) {
	code := strings.ToUpper(strings.TrimSpace(companyCode))
	if code == "" {
		return nil, fmt.Errorf("%w: company code is required", apperrors.ErrValidation)
	}
	return s.companyRepo.FindCompanyByCode(ctx, code)
}
