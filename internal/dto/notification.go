package dto

import (
	"time"

	"github.com/staffsync/staffsync_backend/internal/core/domain"
)

// --- Notification DTOs ---

// NotificationResponse defines data returned for a notification.
type NotificationResponse struct {
	NotificationID string         `json:"notificationID"`
	Type           string         `json:"type"`
	Title          string         `json:"title"`
	Message        string         `json:"message"`
	Read           bool           `json:"read"`
	ActionURL      string         `json:"actionURL,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// ToNotificationResponse converts domain.Notification to DTO.
func ToNotificationResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		NotificationID: n.NotificationID,
		Type:           string(n.Type),
		Title:          n.Title,
		Message:        n.Message,
		Read:           n.Read,
		ActionURL:      n.ActionURL,
		Metadata:       n.Metadata,
		CreatedAt:      n.CreatedAt,
	}
}

// ListNotificationsResponse wraps a user's notification mirror.
type ListNotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int                    `json:"unreadCount"`
}

// ToListNotificationsResponse converts a slice of domain.Notification to DTO.
func ToListNotificationsResponse(ns []domain.Notification, unread int) ListNotificationsResponse {
	list := make([]NotificationResponse, len(ns))
	for i := range ns {
		list[i] = ToNotificationResponse(&ns[i])
	}
	return ListNotificationsResponse{Notifications: list, UnreadCount: unread}
}

// AddLocalNotificationRequest defines data for a client-only ephemeral notice.
type AddLocalNotificationRequest struct {
	Type      string         `json:"type" binding:"required"`
	Title     string         `json:"title" binding:"required"`
	Message   string         `json:"message" binding:"required"`
	ActionURL string         `json:"actionURL"`
	Metadata  map[string]any `json:"metadata"`
}

// SendAnnouncementRequest defines data for broadcasting an announcement.
type SendAnnouncementRequest struct {
	Title       string   `json:"title" binding:"required"`
	Message     string   `json:"message" binding:"required"`
	TargetRoles []string `json:"targetRoles"`
}

// AnnouncementResponse defines data returned for a sent announcement.
type AnnouncementResponse struct {
	AnnouncementID string    `json:"announcementID"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	CreatedBy      string    `json:"createdBy"`
	CreatedByName  string    `json:"createdByName"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ToAnnouncementResponse converts domain.Announcement to DTO.
func ToAnnouncementResponse(a *domain.Announcement) AnnouncementResponse {
	return AnnouncementResponse{
		AnnouncementID: a.AnnouncementID,
		Title:          a.Title,
		Message:        a.Message,
		CreatedBy:      a.CreatedBy,
		CreatedByName:  a.CreatedByName,
		CreatedAt:      a.CreatedAt,
	}
}
