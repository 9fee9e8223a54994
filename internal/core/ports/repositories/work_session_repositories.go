package repositories

import (
	"context"

	"github.com/staffsync/staffsync_backend/internal/core/domain"
)

// WorkSessionReader defines read operations for attendance records.
type WorkSessionReader interface {
	// FindSessionsByUserID retrieves a user's work sessions, newest first.
	FindSessionsByUserID(ctx context.Context, userID string) ([]domain.WorkSession, error)
}
