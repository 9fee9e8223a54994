package services_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/staffsync/staffsync_backend/internal/apperrors"
	"github.com/staffsync/staffsync_backend/internal/core/domain"
	portssvc "github.com/staffsync/staffsync_backend/internal/core/ports/services"
	"github.com/staffsync/staffsync_backend/internal/core/services"
	"github.com/staffsync/staffsync_backend/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type CompanyServiceTestSuite struct {
	suite.Suite
	mockCompanyRepo *MockCompanyRepository
	mockUserRepo    *MockUserRepository
	mockRoleRepo    *MockRoleRepository
	mockResolver    *MockRoleResolver
	service         portssvc.CompanySvcFacade
	ctx             context.Context
}

func (suite *CompanyServiceTestSuite) SetupTest() {
	suite.mockCompanyRepo = new(MockCompanyRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockRoleRepo = new(MockRoleRepository)
	suite.mockResolver = new(MockRoleResolver)
	suite.service = services.NewCompanyService(
		suite.mockCompanyRepo,
		suite.mockUserRepo,
		suite.mockRoleRepo,
		suite.mockResolver,
	)
	suite.ctx = context.Background()
}

func (suite *CompanyServiceTestSuite) expectActorWithoutCompany(userID string) {
	suite.mockUserRepo.On("FindUserByID", suite.ctx, userID).
		Return(&domain.User{UserID: userID, Role: domain.RoleUnassigned}, nil).Once()
}

var joinCodePattern = regexp.MustCompile(`^[A-HJKMNP-Z2-9]{6}$`)

func (suite *CompanyServiceTestSuite) TestCreateCompany_Success() {
	suite.expectActorWithoutCompany("user-1")

	suite.mockCompanyRepo.On("SaveCompany", suite.ctx, mock.MatchedBy(func(c domain.Company) bool {
		return c.Name == "Acme Corp" &&
			c.CompanyID != "" &&
			joinCodePattern.MatchString(c.CompanyCode) &&
			c.Timezone == "UTC" &&
			c.WorkStartTime == "09:00" &&
			c.WorkEndTime == "18:00" &&
			c.LunchStartTime == "12:00" &&
			c.LunchEndTime == "13:00" &&
			c.VerificationLimitPerDay == 3
	})).Return(nil).Once()
	suite.mockUserRepo.On("SetCompanyMembership", suite.ctx, "user-1", mock.MatchedBy(func(companyID *string) bool {
		return companyID != nil && *companyID != ""
	}), true).Return(nil).Once()
	suite.mockRoleRepo.On("UpdateAssignment", suite.ctx, "user-1", domain.RoleCEO).Return(nil).Once()
	suite.mockUserRepo.On("UpdateDenormalizedRole", suite.ctx, "user-1", domain.RoleCEO).Return(nil).Once()

	company, err := suite.service.CreateCompany(suite.ctx, "user-1", dto.CreateCompanyRequest{
		Name: "  Acme Corp  ",
	})

	suite.Require().NoError(err)
	suite.Equal("Acme Corp", company.Name)
	suite.Regexp(joinCodePattern, company.CompanyCode)
	suite.mockCompanyRepo.AssertExpectations(suite.T())
	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockRoleRepo.AssertExpectations(suite.T())
}

func (suite *CompanyServiceTestSuite) TestCreateCompany_RetriesOnDuplicateCode() {
	suite.expectActorWithoutCompany("user-1")

	suite.mockCompanyRepo.On("SaveCompany", suite.ctx, mock.AnythingOfType("domain.Company")).
		Return(apperrors.ErrDuplicate).Once()
	suite.mockCompanyRepo.On("SaveCompany", suite.ctx, mock.AnythingOfType("domain.Company")).
		Return(nil).Once()
	suite.mockUserRepo.On("SetCompanyMembership", suite.ctx, "user-1", mock.Anything, true).Return(nil).Once()
	suite.mockRoleRepo.On("UpdateAssignment", suite.ctx, "user-1", domain.RoleCEO).Return(nil).Once()
	suite.mockUserRepo.On("UpdateDenormalizedRole", suite.ctx, "user-1", domain.RoleCEO).Return(nil).Once()

	_, err := suite.service.CreateCompany(suite.ctx, "user-1", dto.CreateCompanyRequest{Name: "Acme"})

	suite.Require().NoError(err)
	suite.mockCompanyRepo.AssertNumberOfCalls(suite.T(), "SaveCompany", 2)
}

func (suite *CompanyServiceTestSuite) TestCreateCompany_ActorAlreadyInCompany() {
	companyID := "company-1"
	suite.mockUserRepo.On("FindUserByID", suite.ctx, "user-1").
		Return(&domain.User{UserID: "user-1", CompanyID: &companyID}, nil).Once()

	_, err := suite.service.CreateCompany(suite.ctx, "user-1", dto.CreateCompanyRequest{Name: "Acme"})

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockCompanyRepo.AssertNotCalled(suite.T(), "SaveCompany", mock.Anything, mock.Anything)
}

func (suite *CompanyServiceTestSuite) TestCreateCompany_EmptyName() {
	_, err := suite.service.CreateCompany(suite.ctx, "user-1", dto.CreateCompanyRequest{Name: "   "})

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "FindUserByID", mock.Anything, mock.Anything)
}

func (suite *CompanyServiceTestSuite) TestCreateCompany_UnknownTimezone() {
	suite.expectActorWithoutCompany("user-1")

	_, err := suite.service.CreateCompany(suite.ctx, "user-1", dto.CreateCompanyRequest{
		Name:     "Acme",
		Timezone: "Mars/Olympus_Mons",
	})

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockCompanyRepo.AssertNotCalled(suite.T(), "SaveCompany", mock.Anything, mock.Anything)
}

func (suite *CompanyServiceTestSuite) TestCreateCompany_MirrorFailureTolerated() {
	suite.expectActorWithoutCompany("user-1")

	suite.mockCompanyRepo.On("SaveCompany", suite.ctx, mock.AnythingOfType("domain.Company")).Return(nil).Once()
	suite.mockUserRepo.On("SetCompanyMembership", suite.ctx, "user-1", mock.Anything, true).Return(nil).Once()
	suite.mockRoleRepo.On("UpdateAssignment", suite.ctx, "user-1", domain.RoleCEO).Return(nil).Once()
	suite.mockUserRepo.On("UpdateDenormalizedRole", suite.ctx, "user-1", domain.RoleCEO).
		Return(apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateCompany(suite.ctx, "user-1", dto.CreateCompanyRequest{Name: "Acme"})

	suite.Require().NoError(err)
}

func (suite *CompanyServiceTestSuite) existingCompany() *domain.Company {
	return &domain.Company{
		CompanyID:               "company-1",
		Name:                    "Acme Corp",
		CompanyCode:             "ACME23",
		Timezone:                "UTC",
		WorkStartTime:           "09:00",
		WorkEndTime:             "18:00",
		LunchStartTime:          "12:00",
		LunchEndTime:            "13:00",
		VerificationLimitPerDay: 3,
		CreatedAt:               time.Now().Add(-24 * time.Hour),
	}
}

func (suite *CompanyServiceTestSuite) TestUpdateCompanySettings_NilFieldsUnchanged() {
	suite.mockResolver.On("HasPermission", suite.ctx, "actor-1", domain.PermissionCompanySettings).
		Return(true, nil).Once()
	suite.mockCompanyRepo.On("FindCompanyByID", suite.ctx, "company-1").
		Return(suite.existingCompany(), nil).Once()

	newWebsite := "https://acme.test"
	suite.mockCompanyRepo.On("UpdateCompany", suite.ctx, mock.MatchedBy(func(c domain.Company) bool {
		return c.Website == "https://acme.test" && c.Name == "Acme Corp" && c.WorkStartTime == "09:00"
	})).Return(nil).Once()

	company, err := suite.service.UpdateCompanySettings(suite.ctx, "actor-1", "company-1",
		dto.UpdateCompanySettingsRequest{Website: &newWebsite})

	suite.Require().NoError(err)
	suite.Equal("https://acme.test", company.Website)
	suite.Equal("Acme Corp", company.Name)
	suite.mockCompanyRepo.AssertExpectations(suite.T())
}

func (suite *CompanyServiceTestSuite) TestUpdateCompanySettings_BadWorkTime() {
	suite.mockResolver.On("HasPermission", suite.ctx, "actor-1", domain.PermissionCompanySettings).
		Return(true, nil).Once()
	suite.mockCompanyRepo.On("FindCompanyByID", suite.ctx, "company-1").
		Return(suite.existingCompany(), nil).Once()

	badTime := "9am"
	_, err := suite.service.UpdateCompanySettings(suite.ctx, "actor-1", "company-1",
		dto.UpdateCompanySettingsRequest{WorkStartTime: &badTime})

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockCompanyRepo.AssertNotCalled(suite.T(), "UpdateCompany", mock.Anything, mock.Anything)
}

func (suite *CompanyServiceTestSuite) TestUpdateCompanySettings_NoPermission() {
	suite.mockResolver.On("HasPermission", suite.ctx, "actor-1", domain.PermissionCompanySettings).
		Return(false, nil).Once()

	_, err := suite.service.UpdateCompanySettings(suite.ctx, "actor-1", "company-1",
		dto.UpdateCompanySettingsRequest{})

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
	suite.mockCompanyRepo.AssertNotCalled(suite.T(), "FindCompanyByID", mock.Anything, mock.Anything)
}

func (suite *CompanyServiceTestSuite) TestSearchCompanies_TrimsQuery() {
	suite.mockCompanyRepo.On("SearchCompanies", suite.ctx, "acme", 10).
		Return([]domain.Company{*suite.existingCompany()}, nil).Once()

	companies, err := suite.service.SearchCompanies(suite.ctx, "  acme  ")

	suite.Require().NoError(err)
	suite.Len(companies, 1)
}

func (suite *CompanyServiceTestSuite) TestSearchCompanies_EmptyQuery() {
	companies, err := suite.service.SearchCompanies(suite.ctx, "   ")

	suite.Require().NoError(err)
	suite.Empty(companies)
	suite.mockCompanyRepo.AssertNotCalled(suite.T(), "SearchCompanies", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CompanyServiceTestSuite) TestGetCompanyByCode_NormalizesCode() {
	suite.mockCompanyRepo.On("FindCompanyByCode", suite.ctx, "ACME23").
		Return(suite.existingCompany(), nil).Once()

	company, err := suite.service.GetCompanyByCode(suite.ctx, " acme23 ")

	suite.Require().NoError(err)
	suite.Equal("company-1", company.CompanyID)
}

func (suite *CompanyServiceTestSuite) TestGetCompanyByCode_EmptyCode() {
	_, err := suite.service.GetCompanyByCode(suite.ctx, "  ")

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func TestCompanyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CompanyServiceTestSuite))
}
