package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/staffsync/staffsync_backend/internal/core/domain"
	portsrepo "github.com/staffsync/staffsync_backend/internal/core/ports/repositories"
)

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository creates a new repository for the notification log.
func NewNotificationRepository(pool *pgxpool.Pool) portsrepo.NotificationRepositoryFacade {
	return &notificationRepository{pool: pool}
}

// Ensure notificationRepository implements the facade
var _ portsrepo.NotificationRepositoryFacade = (*notificationRepository)(nil)

// FindRecentByUserID retrieves the user's newest notifications, capped at
// limit. The log itself is unbounded; this window is what sessions mirror.
func (r *notificationRepository) FindRecentByUserID(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT notification_id, user_id, type, title, message, is_read, action_url, metadata, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2;
	`
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	notifications := []domain.Notification{}
	for rows.Next() {
		var n domain.Notification
		// action_url is nullable; the procedure-generated rows never set it.
		var actionURL *string
		err := rows.Scan(
			&n.NotificationID,
			&n.UserID,
			&n.Type,
			&n.Title,
			&n.Message,
			&n.Read,
			&actionURL,
			&n.Metadata,
			&n.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification row: %w", err)
		}
		if actionURL != nil {
			n.ActionURL = *actionURL
		}
		notifications = append(notifications, n)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating notification rows: %w", rows.Err())
	}
	return notifications, nil
}

func (r *notificationRepository) SaveNotification(ctx context.Context, n domain.Notification) error {
	query := `
		INSERT INTO notifications (notification_id, user_id, type, title, message, is_read, action_url, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	// Keep empty action urls as NULL, matching the procedure-generated rows.
	var actionURL *string
	if n.ActionURL != "" {
		actionURL = &n.ActionURL
	}

	_, err := r.pool.Exec(ctx, query,
		n.NotificationID,
		n.UserID,
		n.Type,
		n.Title,
		n.Message,
		n.Read,
		actionURL,
		n.Metadata,
		n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}
	return nil
}

// MarkRead is scoped to the owning user so a forged id cannot flip another
// user's row. Zero affected rows is not an error: the id may be local-only.
func (r *notificationRepository) MarkRead(ctx context.Context, notificationID, userID string) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE notification_id = $1 AND user_id = $2;`
	if _, err := r.pool.Exec(ctx, query, notificationID, userID); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

// MarkAllRead flips every unread row for the user in one statement. The
// is_read predicate keeps the update (and its change events) to rows that
// actually change.
func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	query := `UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE;`
	tag, err := r.pool.Exec(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark all notifications read: %w", err)
	}
	return tag.RowsAffected(), nil
}

// NotifyCompanyMembers invokes the notify_company_members procedure, which
// inserts one row per active member of the company in a single statement.
func (r *notificationRepository) NotifyCompanyMembers(ctx context.Context, p portsrepo.FanOutParams) (int, error) {
	query := `SELECT notify_company_members($1, $2, $3, $4, $5, $6, $7);`
	var recipients int
	err := r.pool.QueryRow(ctx, query,
		p.CompanyID,
		p.Type,
		p.Title,
		p.Message,
		p.ActorID,
		p.ExcludeUserID,
		p.Metadata,
	).Scan(&recipients)
	if err != nil {
		return 0, fmt.Errorf("notify_company_members failed: %w", err)
	}
	return recipients, nil
}
