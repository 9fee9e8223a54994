package repositories

import (
	"context"

	"github.com/staffsync/staffsync_backend/internal/core/domain"
)

// FanOutParams is the payload for the notify_company_members procedure,
// which inserts one notification row per active company member.
type FanOutParams struct {
	CompanyID     string
	Type          domain.NotificationType
	Title         string
	Message       string
	ActorID       string
	ExcludeUserID *string
	Metadata      map[string]any
}

// NotificationReader defines read operations for the notification log
type NotificationReader interface {
	// FindRecentByUserID retrieves the user's most recent notifications,
	// ordered by created_at descending, capped at limit.
	FindRecentByUserID(ctx context.Context, userID string, limit int) ([]domain.Notification, error)
}

// NotificationWriter defines write operations for the notification log
type NotificationWriter interface {
	// SaveNotification inserts a single notification row.
	SaveNotification(ctx context.Context, n domain.Notification) error

	// MarkRead sets is_read on one row, scoped to the owning user.
	MarkRead(ctx context.Context, notificationID, userID string) error

	// MarkAllRead sets is_read on every unread row for the user in one
	// set-based update and returns the number of rows affected.
	MarkAllRead(ctx context.Context, userID string) (int64, error)

	// NotifyCompanyMembers invokes the notify_company_members procedure and
	// returns the number of recipients.
	NotifyCompanyMembers(ctx context.Context, p FanOutParams) (int, error)
}

// NotificationRepositoryFacade combines all notification-log repository interfaces.
type NotificationRepositoryFacade interface {
	NotificationReader
	NotificationWriter
}
