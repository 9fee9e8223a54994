package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/staffsync/staffsync_backend/internal/apperrors"
	"github.com/staffsync/staffsync_backend/internal/core/domain"
	portssvc "github.com/staffsync/staffsync_backend/internal/core/ports/services"
	"github.com/staffsync/staffsync_backend/internal/core/services"
	"github.com/staffsync/staffsync_backend/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ApplicationServiceTestSuite struct {
	suite.Suite
	mockApplicationRepo  *MockApplicationRepository
	mockUserRepo         *MockUserRepository
	mockRoleRepo         *MockRoleRepository
	mockNotificationRepo *MockNotificationRepository
	mockResolver         *MockRoleResolver
	service              portssvc.ApplicationSvcFacade
	ctx                  context.Context
}

func (suite *ApplicationServiceTestSuite) SetupTest() {
	suite.mockApplicationRepo = new(MockApplicationRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockRoleRepo = new(MockRoleRepository)
	suite.mockNotificationRepo = new(MockNotificationRepository)
	suite.mockResolver = new(MockRoleResolver)
	suite.service = services.NewApplicationService(
		suite.mockApplicationRepo,
		suite.mockUserRepo,
		suite.mockRoleRepo,
		suite.mockNotificationRepo,
		suite.mockResolver,
	)
	suite.ctx = context.Background()
}

// --- Apply ---

func (suite *ApplicationServiceTestSuite) TestApply_Success() {
	req := dto.ApplyRequest{CompanyCode: " acme1 ", Department: "Engineering", Position: "Backend"}
	suite.mockApplicationRepo.On("ApplyToCompany", suite.ctx, "user-1", "ACME1", "Engineering", "Backend", "").
		Return(&domain.ApplyResult{Success: true, Message: "Application submitted"}, nil).Once()
	created := &domain.CompanyApplication{
		ApplicationID: "app-1",
		UserID:        "user-1",
		CompanyID:     "company-1",
		Status:        domain.ApplicationPending,
		Company:       &domain.Company{CompanyID: "company-1", Name: "Acme"},
	}
	suite.mockApplicationRepo.On("FindLatestByUserID", suite.ctx, "user-1").Return(created, nil).Once()

	app, err := suite.service.Apply(suite.ctx, "user-1", req)

	suite.Require().NoError(err)
	suite.Equal("app-1", app.ApplicationID)
	suite.Equal(domain.ApplicationPending, app.Status)
	suite.Require().NotNil(app.Company)
	suite.mockApplicationRepo.AssertExpectations(suite.T())
}

func (suite *ApplicationServiceTestSuite) TestApply_BusinessRejectionSurfacesMessage() {
	req := dto.ApplyRequest{CompanyCode: "ACME1"}
	suite.mockApplicationRepo.On("ApplyToCompany", suite.ctx, "user-1", "ACME1", "", "", "").
		Return(&domain.ApplyResult{Success: false, Error: "You already have a pending application"}, nil).Once()

	_, err := suite.service.Apply(suite.ctx, "user-1", req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "You already have a pending application")
	suite.mockApplicationRepo.AssertNotCalled(suite.T(), "FindLatestByUserID", suite.ctx, "user-1")
}

func (suite *ApplicationServiceTestSuite) TestApply_EmptyCode() {
	_, err := suite.service.Apply(suite.ctx, "user-1", dto.ApplyRequest{CompanyCode: "   "})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- LeaveCompany ---

func (suite *ApplicationServiceTestSuite) TestLeaveCompany_DetachesInSafeOrder() {
	companyID := "company-1"
	suite.mockUserRepo.On("FindUserByID", suite.ctx, "user-1").
		Return(&domain.User{UserID: "user-1", CompanyID: &companyID}, nil).Once()
	suite.mockUserRepo.On("SetCompanyMembership", suite.ctx, "user-1", (*string)(nil), false).Return(nil).Once()
	suite.mockRoleRepo.On("UpdateAssignment", suite.ctx, "user-1", domain.RoleUnassigned).Return(nil).Once()
	suite.mockUserRepo.On("UpdateDenormalizedRole", suite.ctx, "user-1", domain.RoleUnassigned).Return(nil).Once()
	suite.mockApplicationRepo.On("RejectActiveByUserID", suite.ctx, "user-1").Return(nil).Once()

	err := suite.service.LeaveCompany(suite.ctx, "user-1")

	suite.Require().NoError(err)
	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockRoleRepo.AssertExpectations(suite.T())
	suite.mockApplicationRepo.AssertExpectations(suite.T())
}

func (suite *ApplicationServiceTestSuite) TestLeaveCompany_CacheFailureDoesNotFail() {
	companyID := "company-1"
	suite.mockUserRepo.On("FindUserByID", suite.ctx, "user-1").
		Return(&domain.User{UserID: "user-1", CompanyID: &companyID}, nil).Once()
	suite.mockUserRepo.On("SetCompanyMembership", suite.ctx, "user-1", (*string)(nil), false).Return(nil).Once()
	suite.mockRoleRepo.On("UpdateAssignment", suite.ctx, "user-1", domain.RoleUnassigned).Return(nil).Once()
	suite.mockUserRepo.On("UpdateDenormalizedRole", suite.ctx, "user-1", domain.RoleUnassigned).
		Return(errors.New("column missing")).Once()
	suite.mockApplicationRepo.On("RejectActiveByUserID", suite.ctx, "user-1").Return(nil).Once()

	err := suite.service.LeaveCompany(suite.ctx, "user-1")

	suite.Require().NoError(err)
}

func (suite *ApplicationServiceTestSuite) TestLeaveCompany_WithoutMembership() {
	suite.mockUserRepo.On("FindUserByID", suite.ctx, "user-1").
		Return(&domain.User{UserID: "user-1"}, nil).Once()

	err := suite.service.LeaveCompany(suite.ctx, "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SetCompanyMembership", suite.ctx, "user-1", (*string)(nil), false)
}

// --- ListPending ---

func (suite *ApplicationServiceTestSuite) TestListPending_Success() {
	companyID := "company-1"
	suite.mockResolver.On("HasPermission", suite.ctx, "actor-1", domain.PermissionStaffs).Return(true, nil).Once()
	suite.mockUserRepo.On("FindUserByID", suite.ctx, "actor-1").
		Return(&domain.User{UserID: "actor-1", CompanyID: &companyID}, nil).Once()
	pending := []domain.CompanyApplication{{ApplicationID: "app-1", Status: domain.ApplicationPending}}
	suite.mockApplicationRepo.On("ListByCompanyAndStatus", suite.ctx, companyID, domain.ApplicationPending).
		Return(pending, nil).Once()

	apps, err := suite.service.ListPending(suite.ctx, "actor-1", companyID)

	suite.Require().NoError(err)
	suite.Len(apps, 1)
	suite.mockApplicationRepo.AssertExpectations(suite.T())
}

func (suite *ApplicationServiceTestSuite) TestListPending_OtherCompanyForbidden() {
	actorCompany := "company-1"
	suite.mockResolver.On("HasPermission", suite.ctx, "actor-1", domain.PermissionStaffs).Return(true, nil).Once()
	suite.mockUserRepo.On("FindUserByID", suite.ctx, "actor-1").
		Return(&domain.User{UserID: "actor-1", CompanyID: &actorCompany}, nil).Once()

	_, err := suite.service.ListPending(suite.ctx, "actor-1", "company-2")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

// --- Approve / Reject ---

func (suite *ApplicationServiceTestSuite) pendingApplication() *domain.CompanyApplication {
	return &domain.CompanyApplication{
		ApplicationID: "app-1",
		UserID:        "applicant-1",
		CompanyID:     "company-1",
		Status:        domain.ApplicationPending,
	}
}

func (suite *ApplicationServiceTestSuite) expectDecidingActor(companyID string) {
	suite.mockResolver.On("HasPermission", suite.ctx, "actor-1", domain.PermissionStaffs).Return(true, nil).Once()
	suite.mockUserRepo.On("FindUserByID", suite.ctx, "actor-1").
		Return(&domain.User{UserID: "actor-1", CompanyID: &companyID}, nil).Once()
}

func (suite *ApplicationServiceTestSuite) TestApprove_GrantsMembershipAndStaffRole() {
	app := suite.pendingApplication()
	suite.expectDecidingActor("company-1")
	suite.mockApplicationRepo.On("FindApplicationByID", suite.ctx, "app-1").Return(app, nil).Once()
	suite.mockApplicationRepo.On("UpdateStatus", suite.ctx, "app-1", domain.ApplicationApproved).Return(nil).Once()
	suite.mockUserRepo.On("SetCompanyMembership", suite.ctx, "applicant-1", mock.MatchedBy(func(id *string) bool {
		return id != nil && *id == "company-1"
	}), true).Return(nil).Once()
	suite.mockRoleRepo.On("UpdateAssignment", suite.ctx, "applicant-1", domain.RoleStaff).Return(nil).Once()
	suite.mockUserRepo.On("UpdateDenormalizedRole", suite.ctx, "applicant-1", domain.RoleStaff).Return(nil).Once()
	suite.mockNotificationRepo.On("SaveNotification", suite.ctx, mock.MatchedBy(func(n domain.Notification) bool {
		return n.UserID == "applicant-1" &&
			n.Type == domain.NotificationCompanyJoin &&
			n.Metadata["applicationId"] == "app-1"
	})).Return(nil).Once()

	err := suite.service.Approve(suite.ctx, "actor-1", "app-1")

	suite.Require().NoError(err)
	suite.mockApplicationRepo.AssertExpectations(suite.T())
	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockRoleRepo.AssertExpectations(suite.T())
	suite.mockNotificationRepo.AssertExpectations(suite.T())
}

func (suite *ApplicationServiceTestSuite) TestApprove_AlreadyDecided() {
	app := suite.pendingApplication()
	app.Status = domain.ApplicationApproved
	suite.mockResolver.On("HasPermission", suite.ctx, "actor-1", domain.PermissionStaffs).Return(true, nil).Once()
	suite.mockApplicationRepo.On("FindApplicationByID", suite.ctx, "app-1").Return(app, nil).Once()

	err := suite.service.Approve(suite.ctx, "actor-1", "app-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockApplicationRepo.AssertNotCalled(suite.T(), "UpdateStatus", suite.ctx, "app-1", domain.ApplicationApproved)
}

func (suite *ApplicationServiceTestSuite) TestApprove_WithoutPermission() {
	suite.mockResolver.On("HasPermission", suite.ctx, "actor-1", domain.PermissionStaffs).Return(false, nil).Once()

	err := suite.service.Approve(suite.ctx, "actor-1", "app-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *ApplicationServiceTestSuite) TestReject_NotifiesApplicant() {
	app := suite.pendingApplication()
	suite.expectDecidingActor("company-1")
	suite.mockApplicationRepo.On("FindApplicationByID", suite.ctx, "app-1").Return(app, nil).Once()
	suite.mockApplicationRepo.On("UpdateStatus", suite.ctx, "app-1", domain.ApplicationRejected).Return(nil).Once()
	suite.mockNotificationRepo.On("SaveNotification", suite.ctx, mock.MatchedBy(func(n domain.Notification) bool {
		return n.UserID == "applicant-1" && n.Type == domain.NotificationApplicationRejected
	})).Return(nil).Once()

	err := suite.service.Reject(suite.ctx, "actor-1", "app-1")

	suite.Require().NoError(err)
	// No membership or role side effects on rejection.
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SetCompanyMembership", suite.ctx, "applicant-1", mock.Anything, true)
	suite.mockRoleRepo.AssertNotCalled(suite.T(), "UpdateAssignment", suite.ctx, "applicant-1", domain.RoleStaff)
}

func (suite *ApplicationServiceTestSuite) TestReject_NotificationFailureDoesNotFail() {
	app := suite.pendingApplication()
	suite.expectDecidingActor("company-1")
	suite.mockApplicationRepo.On("FindApplicationByID", suite.ctx, "app-1").Return(app, nil).Once()
	suite.mockApplicationRepo.On("UpdateStatus", suite.ctx, "app-1", domain.ApplicationRejected).Return(nil).Once()
	suite.mockNotificationRepo.On("SaveNotification", suite.ctx, mock.Anything).
		Return(errors.New("insert failed")).Once()

	err := suite.service.Reject(suite.ctx, "actor-1", "app-1")

	// The decision already committed; the notification is best-effort.
	suite.Require().NoError(err)
}

func TestApplicationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ApplicationServiceTestSuite))
}
