package services_test

import (
	"context"
	"time"

	"github.com/staffsync/staffsync_backend/internal/core/domain"
	portsrepo "github.com/staffsync/staffsync_backend/internal/core/ports/repositories"
	"github.com/stretchr/testify/mock"
)

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUsersByCompanyID(ctx context.Context, companyID string) ([]domain.User, error) {
	args := m.Called(ctx, companyID)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	return users, args.Error(1)
}

func (m *MockUserRepository) FindUserIDsByCompanyID(ctx context.Context, companyID string) ([]string, error) {
	args := m.Called(ctx, companyID)
	var ids []string
	if args.Get(0) != nil {
		ids = args.Get(0).([]string)
	}
	return ids, args.Error(1)
}

func (m *MockUserRepository) FindUsersByIDs(ctx context.Context, userIDs []string) ([]domain.User, error) {
	args := m.Called(ctx, userIDs)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	return users, args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUserProfile(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateDenormalizedRole(ctx context.Context, userID string, role string) error {
	args := m.Called(ctx, userID, role)
	return args.Error(0)
}

func (m *MockUserRepository) SetCompanyMembership(ctx context.Context, userID string, companyID *string, isActive bool) error {
	args := m.Called(ctx, userID, companyID, isActive)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, userID string, passwordHash string) error {
	args := m.Called(ctx, userID, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, expiry time.Time) error {
	args := m.Called(ctx, userID, refreshTokenHash, expiry)
	return args.Error(0)
}

func (m *MockUserRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// --- Mock RoleRepository ---

type MockRoleRepository struct {
	mock.Mock
}

func (m *MockRoleRepository) FindRoleByID(ctx context.Context, roleID string) (*domain.Role, error) {
	args := m.Called(ctx, roleID)
	var role *domain.Role
	if args.Get(0) != nil {
		role = args.Get(0).(*domain.Role)
	}
	return role, args.Error(1)
}

func (m *MockRoleRepository) ListRoles(ctx context.Context, companyID string) ([]domain.Role, error) {
	args := m.Called(ctx, companyID)
	var roles []domain.Role
	if args.Get(0) != nil {
		roles = args.Get(0).([]domain.Role)
	}
	return roles, args.Error(1)
}

func (m *MockRoleRepository) SaveRole(ctx context.Context, role domain.Role) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

func (m *MockRoleRepository) UpdateRolePermissions(ctx context.Context, roleID string, permissions []string) error {
	args := m.Called(ctx, roleID, permissions)
	return args.Error(0)
}

func (m *MockRoleRepository) DeleteRole(ctx context.Context, roleID string) error {
	args := m.Called(ctx, roleID)
	return args.Error(0)
}

func (m *MockRoleRepository) FindAssignmentByUserID(ctx context.Context, userID string) (*domain.RoleAssignment, error) {
	args := m.Called(ctx, userID)
	var a *domain.RoleAssignment
	if args.Get(0) != nil {
		a = args.Get(0).(*domain.RoleAssignment)
	}
	return a, args.Error(1)
}

func (m *MockRoleRepository) FindAssignmentsByUserIDs(ctx context.Context, userIDs []string) ([]domain.RoleAssignment, error) {
	args := m.Called(ctx, userIDs)
	var as []domain.RoleAssignment
	if args.Get(0) != nil {
		as = args.Get(0).([]domain.RoleAssignment)
	}
	return as, args.Error(1)
}

func (m *MockRoleRepository) CountAssignmentsMatching(ctx context.Context, companyID string, role domain.Role) (int, error) {
	args := m.Called(ctx, companyID, role)
	return args.Int(0), args.Error(1)
}

func (m *MockRoleRepository) UpdateAssignment(ctx context.Context, userID string, role string) error {
	args := m.Called(ctx, userID, role)
	return args.Error(0)
}

// --- Mock NotificationRepository ---

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) FindRecentByUserID(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	args := m.Called(ctx, userID, limit)
	var ns []domain.Notification
	if args.Get(0) != nil {
		ns = args.Get(0).([]domain.Notification)
	}
	return ns, args.Error(1)
}

func (m *MockNotificationRepository) SaveNotification(ctx context.Context, n domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, notificationID, userID string) error {
	args := m.Called(ctx, notificationID, userID)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) NotifyCompanyMembers(ctx context.Context, p portsrepo.FanOutParams) (int, error) {
	args := m.Called(ctx, p)
	return args.Int(0), args.Error(1)
}

// --- Mock ApplicationRepository ---

type MockApplicationRepository struct {
	mock.Mock
}

func (m *MockApplicationRepository) FindApplicationByID(ctx context.Context, applicationID string) (*domain.CompanyApplication, error) {
	args := m.Called(ctx, applicationID)
	var app *domain.CompanyApplication
	if args.Get(0) != nil {
		app = args.Get(0).(*domain.CompanyApplication)
	}
	return app, args.Error(1)
}

func (m *MockApplicationRepository) FindLatestByUserID(ctx context.Context, userID string) (*domain.CompanyApplication, error) {
	args := m.Called(ctx, userID)
	var app *domain.CompanyApplication
	if args.Get(0) != nil {
		app = args.Get(0).(*domain.CompanyApplication)
	}
	return app, args.Error(1)
}

func (m *MockApplicationRepository) ListByCompanyAndStatus(ctx context.Context, companyID string, status domain.ApplicationStatus) ([]domain.CompanyApplication, error) {
	args := m.Called(ctx, companyID, status)
	var apps []domain.CompanyApplication
	if args.Get(0) != nil {
		apps = args.Get(0).([]domain.CompanyApplication)
	}
	return apps, args.Error(1)
}

func (m *MockApplicationRepository) ApplyToCompany(ctx context.Context, userID, companyCode, department, position, message string) (*domain.ApplyResult, error) {
	args := m.Called(ctx, userID, companyCode, department, position, message)
	var res *domain.ApplyResult
	if args.Get(0) != nil {
		res = args.Get(0).(*domain.ApplyResult)
	}
	return res, args.Error(1)
}

func (m *MockApplicationRepository) UpdateStatus(ctx context.Context, applicationID string, status domain.ApplicationStatus) error {
	args := m.Called(ctx, applicationID, status)
	return args.Error(0)
}

func (m *MockApplicationRepository) RejectActiveByUserID(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// --- Mock WorkSessionRepository ---

type MockWorkSessionRepository struct {
	mock.Mock
}

func (m *MockWorkSessionRepository) FindSessionsByUserID(ctx context.Context, userID string) ([]domain.WorkSession, error) {
	args := m.Called(ctx, userID)
	var ws []domain.WorkSession
	if args.Get(0) != nil {
		ws = args.Get(0).([]domain.WorkSession)
	}
	return ws, args.Error(1)
}

// --- Mock RoleResolver (permission checker for dependent services) ---

type MockRoleResolver struct {
	mock.Mock
}

func (m *MockRoleResolver) ResolveEffectiveRole(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockRoleResolver) HasPermission(ctx context.Context, userID string, permission string) (bool, error) {
	args := m.Called(ctx, userID, permission)
	return args.Bool(0), args.Error(1)
}

// --- Mock CompanyRepository ---

type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	args := m.Called(ctx, companyID)
	var company *domain.Company
	if args.Get(0) != nil {
		company = args.Get(0).(*domain.Company)
	}
	return company, args.Error(1)
}

func (m *MockCompanyRepository) FindCompanyByCode(ctx context.Context, companyCode string) (*domain.Company, error) {
	args := m.Called(ctx, companyCode)
	var company *domain.Company
	if args.Get(0) != nil {
		company = args.Get(0).(*domain.Company)
	}
	return company, args.Error(1)
}

func (m *MockCompanyRepository) SearchCompanies(ctx context.Context, query string, limit int) ([]domain.Company, error) {
	args := m.Called(ctx, query, limit)
	var companies []domain.Company
	if args.Get(0) != nil {
		companies = args.Get(0).([]domain.Company)
	}
	return companies, args.Error(1)
}

func (m *MockCompanyRepository) SaveCompany(ctx context.Context, company domain.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *MockCompanyRepository) UpdateCompany(ctx context.Context, company domain.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

// --- Stub notification feed delivering a controllable event channel ---

type stubFeed struct {
	events chan domain.NotificationEvent
}

func newStubFeed() *stubFeed {
	return &stubFeed{events: make(chan domain.NotificationEvent, 64)}
}

func (f *stubFeed) Subscribe(ctx context.Context, userID string) (<-chan domain.NotificationEvent, func(), error) {
	return f.events, func() {}, nil
}
