package repositories

import (
	"context"

	"github.com/staffsync/staffsync_backend/internal/core/domain"
)

// NotificationFeed is the realtime change-subscription surface over the
// notification log. Events for one user are delivered in server-commit
// order; ordering across users is unspecified.
type NotificationFeed interface {
	// Subscribe opens a per-user subscription for INSERT and UPDATE events.
	// The returned cancel func closes the subscription; after cancel the
	// channel is closed and no further events are delivered. Slow consumers
	// may have events dropped rather than blocking the feed.
	Subscribe(ctx context.Context, userID string) (<-chan domain.NotificationEvent, func(), error)
}
