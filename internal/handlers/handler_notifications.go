package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/staffsync/staffsync_backend/internal/core/domain"
	portssvc "github.com/staffsync/staffsync_backend/internal/core/ports/services"
	"github.com/staffsync/staffsync_backend/internal/dto"
	"github.com/staffsync/staffsync_backend/internal/middleware"
)

const streamHeartbeat = 30 * time.Second

// notificationHandler handles HTTP requests for the notification mirror,
// announcements and the live event stream.
type notificationHandler struct {
	notificationService portssvc.NotificationSvcFacade
	userService         portssvc.UserReaderSvc
}

func newNotificationHandler(ns portssvc.NotificationSvcFacade, us portssvc.UserReaderSvc) *notificationHandler {
	return &notificationHandler{
		notificationService: ns,
		userService:         us,
	}
}

// RegisterNotificationRoutes registers the notification routes.
func RegisterNotificationRoutes(rg *gin.RouterGroup, notificationService portssvc.NotificationSvcFacade, userService portssvc.UserReaderSvc) {
	h := newNotificationHandler(notificationService, userService)

	n := rg.Group("/notifications")
	{
		n.POST("/session", h.startSession)
		n.DELETE("/session", h.stopSession)
		n.GET("", h.list)
		n.GET("/stream", h.stream)
		n.PUT("/read-all", h.markAllRead)
		n.PUT("/:id/read", h.markRead)
		n.POST("/local", h.addLocal)
		n.DELETE("/:id", h.clearOne)
		n.DELETE("", h.clearAll)
		n.GET("/announcements", h.listAnnouncements)
		n.POST("/announcements", h.sendAnnouncement)
	}
}

// startSession godoc
// @Summary Start a notification session
// @Description Seeds the in-memory mirror with the 50 newest notifications
// @Description and opens the realtime subscription.
// @Tags notifications
// @Produce json
// @Success 200 {object} dto.ListNotificationsResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /notifications/session [post]
func (h *notificationHandler) startSession(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.notificationService.StartSession(c.Request.Context(), userID); err != nil {
		respondError(c, err, "Failed to start notification session")
		return
	}

	c.JSON(http.StatusOK, dto.ToListNotificationsResponse(
		h.notificationService.Notifications(userID),
		h.notificationService.UnreadCount(userID),
	))
}

// stopSession godoc
// @Summary Stop the notification session
// @Tags notifications
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /notifications/session [delete]
func (h *notificationHandler) stopSession(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	h.notificationService.StopSession(userID)
	c.Status(http.StatusNoContent)
}

// list godoc
// @Summary Get the notification mirror
// @Description Returns the session's current mirror, newest first, with the
// @Description derived unread count.
// @Tags notifications
// @Produce json
// @Success 200 {object} dto.ListNotificationsResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /notifications [get]
func (h *notificationHandler) list(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, dto.ToListNotificationsResponse(
		h.notificationService.Notifications(userID),
		h.notificationService.UnreadCount(userID),
	))
}

// stream godoc
// @Summary Live notification events
// @Description Server-sent events for the session: one "notification" event
// @Description per insert or update, with heartbeats to keep the connection open.
// @Tags notifications
// @Produce text/event-stream
// @Success 200 {string} string "event stream"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /notifications/stream [get]
func (h *notificationHandler) stream(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	events, cancel, err := h.notificationService.Subscribe(userID)
	if err != nil {
		respondError(c, err, "Failed to subscribe to notifications")
		return
	}
	defer cancel()

	heartbeat := time.NewTicker(streamHeartbeat)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, open := <-events:
			if !open {
				return false
			}
			c.SSEvent("notification", gin.H{
				"op":           string(ev.Op),
				"notification": dto.ToNotificationResponse(&ev.Notification),
			})
			return true
		case <-heartbeat.C:
			c.SSEvent("heartbeat", time.Now().Unix())
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// markRead godoc
// @Summary Mark one notification read
// @Description Flips the local flag immediately, then persists. A store
// @Description failure does not roll the local flag back.
// @Tags notifications
// @Param id path string true "Notification ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /notifications/{id}/read [put]
func (h *notificationHandler) markRead(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.notificationService.MarkAsRead(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err, "Failed to mark notification read")
		return
	}
	c.Status(http.StatusNoContent)
}

// markAllRead godoc
// @Summary Mark all notifications read
// @Description One set-based update covering unread rows beyond the local
// @Description window as well.
// @Tags notifications
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /notifications/read-all [put]
func (h *notificationHandler) markAllRead(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.notificationService.MarkAllAsRead(c.Request.Context(), userID); err != nil {
		respondError(c, err, "Failed to mark all notifications read")
		return
	}
	c.Status(http.StatusNoContent)
}

// addLocal godoc
// @Summary Add a client-only notification
// @Description Prepends an ephemeral notification to the mirror. It never
// @Description reaches the store and disappears with the session.
// @Tags notifications
// @Accept json
// @Produce json
// @Param notification body dto.AddLocalNotificationRequest true "Notification"
// @Success 201 {object} dto.NotificationResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /notifications/local [post]
func (h *notificationHandler) addLocal(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.AddLocalNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	n := h.notificationService.AddLocal(userID, domain.Notification{
		Type:      domain.NotificationType(req.Type),
		Title:     req.Title,
		Message:   req.Message,
		ActionURL: req.ActionURL,
		Metadata:  req.Metadata,
	})
	c.JSON(http.StatusCreated, dto.ToNotificationResponse(&n))
}

// clearOne godoc
// @Summary Dismiss one notification
// @Description Removes the entry from the mirror only; the stored row survives.
// @Tags notifications
// @Param id path string true "Notification ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /notifications/{id} [delete]
func (h *notificationHandler) clearOne(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	h.notificationService.ClearNotification(userID, c.Param("id"))
	c.Status(http.StatusNoContent)
}

// clearAll godoc
// @Summary Dismiss all notifications
// @Description Empties the mirror only; stored rows survive.
// @Tags notifications
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /notifications [delete]
func (h *notificationHandler) clearAll(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	h.notificationService.ClearAll(userID)
	c.Status(http.StatusNoContent)
}

// listAnnouncements godoc
// @Summary List the session's announcements
// @Tags notifications
// @Produce json
// @Success 200 {array} dto.AnnouncementResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /notifications/announcements [get]
func (h *notificationHandler) listAnnouncements(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	announcements := h.notificationService.Announcements(userID)
	list := make([]dto.AnnouncementResponse, len(announcements))
	for i := range announcements {
		list[i] = dto.ToAnnouncementResponse(&announcements[i])
	}
	c.JSON(http.StatusOK, list)
}

// sendAnnouncement godoc
// @Summary Broadcast an announcement
// @Description Fans one notification out to every member of the sender's
// @Description company in a single procedure call.
// @Tags notifications
// @Accept json
// @Success 202 "Accepted"
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /notifications/announcements [post]
func (h *notificationHandler) sendAnnouncement(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.SendAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actor, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to load sender")
		return
	}

	err = h.notificationService.SendAnnouncement(c.Request.Context(), actor, domain.Announcement{
		Title:         req.Title,
		Message:       req.Message,
		CreatedByName: actor.FullName,
		TargetRoles:   req.TargetRoles,
	})
	if err != nil {
		respondError(c, err, "Failed to send announcement")
		return
	}
	c.Status(http.StatusAccepted)
}
