package services

import (
	"context"

	"github.com/staffsync/staffsync_backend/internal/core/domain"
)

// NotificationSvcFacade maintains each signed-in user's live notification
// mirror and the announcement broadcast path.
//
// At most one session is live per user; starting a session again first tears
// the previous one down. The mirror seeds from a bounded fetch (50 newest)
// and then follows the realtime feed. Dismissal operations (Clear*) affect
// only the in-process mirror; read-state operations are durable.
type NotificationSvcFacade interface {
	// StartSession seeds the user's mirror and subscribes to the feed.
	StartSession(ctx context.Context, userID string) error

	// StopSession tears down the user's session and its subscription.
	StopSession(userID string)

	// StopAll tears down every live session. Used on shutdown.
	StopAll()

	// Notifications returns a snapshot of the user's mirror, newest first.
	Notifications(userID string) []domain.Notification

	// Announcements returns the session's locally tracked announcements.
	Announcements(userID string) []domain.Announcement

	// UnreadCount derives the unread count from the mirror.
	UnreadCount(userID string) int

	// MarkAsRead optimistically flips the local flag, then persists.
	// The local flag is not rolled back when the store write fails.
	MarkAsRead(ctx context.Context, userID, notificationID string) error

	// MarkAllAsRead flips every local entry and issues one set-based store
	// update covering unread rows outside the local window as well.
	MarkAllAsRead(ctx context.Context, userID string) error

	// AddLocal prepends a client-only ephemeral notification to the mirror.
	AddLocal(userID string, n domain.Notification) domain.Notification

	// ClearNotification removes one entry from the mirror only.
	ClearNotification(userID, notificationID string)

	// ClearAll empties the mirror only.
	ClearAll(userID string)

	// SendAnnouncement records the announcement locally and fans it out to
	// every member of the actor's company in a single procedure call.
	SendAnnouncement(ctx context.Context, actor *domain.User, a domain.Announcement) error

	// Subscribe attaches a consumer (e.g. an SSE stream) to the session's
	// live events. The cancel func detaches it.
	Subscribe(userID string) (<-chan domain.NotificationEvent, func(), error)
}
