package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/staffsync/staffsync_backend/internal/apperrors"
	"github.com/staffsync/staffsync_backend/internal/core/domain"
	portssvc "github.com/staffsync/staffsync_backend/internal/core/ports/services"
	"github.com/staffsync/staffsync_backend/internal/dto"
	"github.com/staffsync/staffsync_backend/internal/handlers"
	"github.com/staffsync/staffsync_backend/internal/middleware"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock NotificationService ---
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) StartSession(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
func (m *MockNotificationService) StopSession(userID string) {
	m.Called(userID)
}
func (m *MockNotificationService) StopAll() {
	m.Called()
}
func (m *MockNotificationService) Notifications(userID string) []domain.Notification {
	args := m.Called(userID)
	return args.Get(0).([]domain.Notification)
}
func (m *MockNotificationService) Announcements(userID string) []domain.Announcement {
	args := m.Called(userID)
	return args.Get(0).([]domain.Announcement)
}
func (m *MockNotificationService) UnreadCount(userID string) int {
	args := m.Called(userID)
	return args.Int(0)
}
func (m *MockNotificationService) MarkAsRead(ctx context.Context, userID, notificationID string) error {
	args := m.Called(ctx, userID, notificationID)
	return args.Error(0)
}
func (m *MockNotificationService) MarkAllAsRead(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
func (m *MockNotificationService) AddLocal(userID string, n domain.Notification) domain.Notification {
	args := m.Called(userID, n)
	return args.Get(0).(domain.Notification)
}
func (m *MockNotificationService) ClearNotification(userID, notificationID string) {
	m.Called(userID, notificationID)
}
func (m *MockNotificationService) ClearAll(userID string) {
	m.Called(userID)
}
func (m *MockNotificationService) SendAnnouncement(ctx context.Context, actor *domain.User, a domain.Announcement) error {
	args := m.Called(ctx, actor, a)
	return args.Error(0)
}
func (m *MockNotificationService) Subscribe(userID string) (<-chan domain.NotificationEvent, func(), error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(<-chan domain.NotificationEvent), args.Get(1).(func()), args.Error(2)
}

// Ensure mock implements the interface
var _ portssvc.NotificationSvcFacade = (*MockNotificationService)(nil)

// --- Mock UserReaderService ---
type MockUserReaderService struct {
	mock.Mock
}

func (m *MockUserReaderService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
var _ portssvc.UserReaderSvc = (*MockUserReaderService)(nil)

type NotificationHandlerTestSuite struct {
	suite.Suite
	router                  *gin.Engine
	mockNotificationService *MockNotificationService
	mockUserService         *MockUserReaderService
	jwtSecret               string
}

func (suite *NotificationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockNotificationService = new(MockNotificationService)
	suite.mockUserService = new(MockUserReaderService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterNotificationRoutes(v1, suite.mockNotificationService, suite.mockUserService)
}

// generateTestToken creates a dummy JWT for testing.
func (suite *NotificationHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "staffsync-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *NotificationHandlerTestSuite) doRequest(method, url string, body any, userID string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	suite.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *NotificationHandlerTestSuite) TestStartSession_ReturnsSeededMirror() {
	userID := "user-1"
	now := time.Now()
	mirror := []domain.Notification{
		{NotificationID: "n-2", UserID: userID, Type: domain.NotificationAnnouncement, Title: "Newer", CreatedAt: now},
		{NotificationID: "n-1", UserID: userID, Type: domain.NotificationCompanyJoin, Title: "Older", Read: true, CreatedAt: now.Add(-time.Hour)},
	}
	suite.mockNotificationService.On("StartSession", mock.Anything, userID).Return(nil).Once()
	suite.mockNotificationService.On("Notifications", userID).Return(mirror).Once()
	suite.mockNotificationService.On("UnreadCount", userID).Return(1).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/notifications/session", nil, userID)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListNotificationsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp.Notifications, 2)
	suite.Equal("n-2", resp.Notifications[0].NotificationID)
	suite.Equal(1, resp.UnreadCount)
	suite.mockNotificationService.AssertExpectations(suite.T())
}

func (suite *NotificationHandlerTestSuite) TestStartSession_Unauthorized() {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/notifications/session", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockNotificationService.AssertNotCalled(suite.T(), "StartSession", mock.Anything, mock.Anything)
}

func (suite *NotificationHandlerTestSuite) TestMarkRead_NoContent() {
	userID := "user-1"
	suite.mockNotificationService.On("MarkAsRead", mock.Anything, userID, "n-1").Return(nil).Once()

	w := suite.doRequest(http.MethodPut, "/api/v1/notifications/n-1/read", nil, userID)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockNotificationService.AssertExpectations(suite.T())
}

func (suite *NotificationHandlerTestSuite) TestMarkAllRead_NoContent() {
	userID := "user-1"
	suite.mockNotificationService.On("MarkAllAsRead", mock.Anything, userID).Return(nil).Once()

	w := suite.doRequest(http.MethodPut, "/api/v1/notifications/read-all", nil, userID)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockNotificationService.AssertExpectations(suite.T())
}

func (suite *NotificationHandlerTestSuite) TestAddLocal_ReturnsCreatedEntry() {
	userID := "user-1"
	req := dto.AddLocalNotificationRequest{Type: "general", Title: "Clocked in", Message: "Shift started"}
	created := domain.Notification{
		NotificationID: "local-abc",
		UserID:         userID,
		Type:           domain.NotificationGeneral,
		Title:          "Clocked in",
		Message:        "Shift started",
		CreatedAt:      time.Now(),
	}
	suite.mockNotificationService.On("AddLocal", userID, mock.MatchedBy(func(n domain.Notification) bool {
		return n.Type == domain.NotificationGeneral && n.Title == "Clocked in"
	})).Return(created).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/notifications/local", req, userID)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.NotificationResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("local-abc", resp.NotificationID)
	suite.mockNotificationService.AssertExpectations(suite.T())
}

func (suite *NotificationHandlerTestSuite) TestAddLocal_MissingFields() {
	userID := "user-1"

	w := suite.doRequest(http.MethodPost, "/api/v1/notifications/local", map[string]string{"title": "no type"}, userID)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockNotificationService.AssertNotCalled(suite.T(), "AddLocal", userID, mock.Anything)
}

func (suite *NotificationHandlerTestSuite) TestClearOne_NoContent() {
	userID := "user-1"
	suite.mockNotificationService.On("ClearNotification", userID, "n-1").Return().Once()

	w := suite.doRequest(http.MethodDelete, "/api/v1/notifications/n-1", nil, userID)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockNotificationService.AssertExpectations(suite.T())
}

func (suite *NotificationHandlerTestSuite) TestSendAnnouncement_Accepted() {
	userID := "user-1"
	companyID := "company-1"
	actor := &domain.User{UserID: userID, FullName: "Ada", CompanyID: &companyID}
	req := dto.SendAnnouncementRequest{Title: "All hands", Message: "Friday at 10"}

	suite.mockUserService.On("GetUserByID", mock.Anything, userID).Return(actor, nil).Once()
	suite.mockNotificationService.On("SendAnnouncement", mock.Anything, actor, mock.MatchedBy(func(a domain.Announcement) bool {
		return a.Title == "All hands" && a.CreatedByName == "Ada"
	})).Return(nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/notifications/announcements", req, userID)

	suite.Equal(http.StatusAccepted, w.Code)
	suite.mockNotificationService.AssertExpectations(suite.T())
	suite.mockUserService.AssertExpectations(suite.T())
}

func (suite *NotificationHandlerTestSuite) TestSendAnnouncement_NoCompany() {
	userID := "user-1"
	actor := &domain.User{UserID: userID, FullName: "Ada"}
	req := dto.SendAnnouncementRequest{Title: "All hands", Message: "Friday at 10"}

	suite.mockUserService.On("GetUserByID", mock.Anything, userID).Return(actor, nil).Once()
	suite.mockNotificationService.On("SendAnnouncement", mock.Anything, actor, mock.Anything).
		Return(apperrors.ErrValidation).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/notifications/announcements", req, userID)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *NotificationHandlerTestSuite) TestStream_WithoutSession() {
	userID := "user-1"
	suite.mockNotificationService.On("Subscribe", userID).
		Return(nil, nil, apperrors.ErrNotFound).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/notifications/stream", nil, userID)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockNotificationService.AssertExpectations(suite.T())
}

func TestNotificationHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(NotificationHandlerTestSuite))
}
