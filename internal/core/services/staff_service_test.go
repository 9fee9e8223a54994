package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/staffsync/staffsync_backend/internal/apperrors"
	"github.com/staffsync/staffsync_backend/internal/core/domain"
	portssvc "github.com/staffsync/staffsync_backend/internal/core/ports/services"
	"github.com/staffsync/staffsync_backend/internal/core/services"
	"github.com/stretchr/testify/suite"
)

// MockRoleAssignment stands in for the role assignment service.
type MockRoleAssignment struct {
	MockRoleResolver
}

func (m *MockRoleAssignment) AssignRole(ctx context.Context, actorUserID, targetUserID string, role string) error {
	args := m.Called(ctx, actorUserID, targetUserID, role)
	return args.Error(0)
}

func (m *MockRoleAssignment) RemoveFromRole(ctx context.Context, actorUserID, targetUserID string) error {
	args := m.Called(ctx, actorUserID, targetUserID)
	return args.Error(0)
}

type StaffServiceTestSuite struct {
	suite.Suite
	mockUserRepo        *MockUserRepository
	mockRoleRepo        *MockRoleRepository
	mockWorkSessionRepo *MockWorkSessionRepository
	mockRoleSvc         *MockRoleAssignment
	mockResolver        *MockRoleResolver
	service             portssvc.StaffSvcFacade
	ctx                 context.Context
}

func (suite *StaffServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockRoleRepo = new(MockRoleRepository)
	suite.mockWorkSessionRepo = new(MockWorkSessionRepository)
	suite.mockRoleSvc = new(MockRoleAssignment)
	suite.mockResolver = new(MockRoleResolver)
	suite.service = services.NewStaffService(
		suite.mockUserRepo,
		suite.mockRoleRepo,
		suite.mockWorkSessionRepo,
		suite.mockRoleSvc,
		suite.mockResolver,
	)
	suite.ctx = context.Background()
}

func (suite *StaffServiceTestSuite) expectStaffsPermission(userID string, allowed bool) {
	suite.mockResolver.On("HasPermission", suite.ctx, userID, domain.PermissionStaffs).
		Return(allowed, nil).Once()
}

// --- ListStaff ---

func (suite *StaffServiceTestSuite) TestListStaff_Success() {
	companyID := "company-1"
	suite.expectStaffsPermission("actor-1", true)
	suite.mockUserRepo.On("FindUserByID", suite.ctx, "actor-1").
		Return(&domain.User{UserID: "actor-1", CompanyID: &companyID}, nil).Once()
	staff := []domain.User{{UserID: "u-1"}, {UserID: "u-2"}}
	suite.mockUserRepo.On("FindUsersByCompanyID", suite.ctx, companyID).Return(staff, nil).Once()

	result, err := suite.service.ListStaff(suite.ctx, "actor-1", companyID)

	suite.Require().NoError(err)
	suite.Len(result, 2)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *StaffServiceTestSuite) TestListStaff_OtherCompanyForbidden() {
	actorCompany := "company-1"
	suite.expectStaffsPermission("actor-1", true)
	suite.mockUserRepo.On("FindUserByID", suite.ctx, "actor-1").
		Return(&domain.User{UserID: "actor-1", CompanyID: &actorCompany}, nil).Once()

	_, err := suite.service.ListStaff(suite.ctx, "actor-1", "company-2")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "FindUsersByCompanyID", suite.ctx, "company-2")
}

func (suite *StaffServiceTestSuite) TestListStaff_WithoutPermission() {
	suite.expectStaffsPermission("actor-1", false)

	_, err := suite.service.ListStaff(suite.ctx, "actor-1", "company-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

// --- StaffStats ---

func (suite *StaffServiceTestSuite) TestStaffStats_AggregatesSessions() {
	companyID := "company-1"
	suite.expectStaffsPermission("actor-1", true)
	suite.mockUserRepo.On("FindUserByID", suite.ctx, "staff-1").
		Return(&domain.User{UserID: "staff-1", CompanyID: &companyID}, nil).Once()
	suite.mockUserRepo.On("FindUserByID", suite.ctx, "actor-1").
		Return(&domain.User{UserID: "actor-1", CompanyID: &companyID}, nil).Once()

	older := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)
	suite.mockWorkSessionRepo.On("FindSessionsByUserID", suite.ctx, "staff-1").
		Return([]domain.WorkSession{
			{SessionID: "s-1", WorkDate: newer, TotalMinutes: 90},
			{SessionID: "s-2", WorkDate: older, TotalMinutes: 45},
		}, nil).Once()

	stats, err := suite.service.StaffStats(suite.ctx, "actor-1", "staff-1")

	suite.Require().NoError(err)
	suite.Equal(2, stats.TotalSessions)
	// 135 minutes rounds to 2.3 hours at one fractional digit.
	suite.Equal("2.3", stats.TotalHours.String())
	suite.Require().NotNil(stats.LastActive)
	suite.True(stats.LastActive.Equal(newer))
}

func (suite *StaffServiceTestSuite) TestStaffStats_NoSessions() {
	companyID := "company-1"
	suite.expectStaffsPermission("actor-1", true)
	suite.mockUserRepo.On("FindUserByID", suite.ctx, "staff-1").
		Return(&domain.User{UserID: "staff-1", CompanyID: &companyID}, nil).Once()
	suite.mockUserRepo.On("FindUserByID", suite.ctx, "actor-1").
		Return(&domain.User{UserID: "actor-1", CompanyID: &companyID}, nil).Once()
	suite.mockWorkSessionRepo.On("FindSessionsByUserID", suite.ctx, "staff-1").
		Return([]domain.WorkSession{}, nil).Once()

	stats, err := suite.service.StaffStats(suite.ctx, "actor-1", "staff-1")

	suite.Require().NoError(err)
	suite.Equal(0, stats.TotalSessions)
	suite.Equal("0", stats.TotalHours.String())
	suite.Nil(stats.LastActive)
}

func (suite *StaffServiceTestSuite) TestStaffStats_CrossCompanyForbidden() {
	actorCompany := "company-1"
	staffCompany := "company-2"
	suite.expectStaffsPermission("actor-1", true)
	suite.mockUserRepo.On("FindUserByID", suite.ctx, "staff-1").
		Return(&domain.User{UserID: "staff-1", CompanyID: &staffCompany}, nil).Once()
	suite.mockUserRepo.On("FindUserByID", suite.ctx, "actor-1").
		Return(&domain.User{UserID: "actor-1", CompanyID: &actorCompany}, nil).Once()

	_, err := suite.service.StaffStats(suite.ctx, "actor-1", "staff-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockWorkSessionRepo.AssertNotCalled(suite.T(), "FindSessionsByUserID", suite.ctx, "staff-1")
}

// --- ChangeRole ---

func (suite *StaffServiceTestSuite) TestChangeRole_DelegatesToRoleService() {
	suite.mockRoleSvc.On("AssignRole", suite.ctx, "actor-1", "staff-1", "manager").Return(nil).Once()

	err := suite.service.ChangeRole(suite.ctx, "actor-1", "staff-1", " manager ")

	suite.Require().NoError(err)
	suite.mockRoleSvc.AssertExpectations(suite.T())
}

func (suite *StaffServiceTestSuite) TestChangeRole_EmptyRole() {
	err := suite.service.ChangeRole(suite.ctx, "actor-1", "staff-1", " ")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRoleSvc.AssertNotCalled(suite.T(), "AssignRole", suite.ctx, "actor-1", "staff-1", "")
}

func TestStaffServiceTestSuite(t *testing.T) {
	suite.Run(t, new(StaffServiceTestSuite))
}
