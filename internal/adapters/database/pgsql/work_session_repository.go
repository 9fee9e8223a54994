package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/staffsync/staffsync_backend/internal/core/domain"
	portsrepo "github.com/staffsync/staffsync_backend/internal/core/ports/repositories"
)

type workSessionRepository struct {
	pool *pgxpool.Pool
}

// NewWorkSessionRepository creates a new read-side repository for attendance records.
func NewWorkSessionRepository(pool *pgxpool.Pool) portsrepo.WorkSessionReader {
	return &workSessionRepository{pool: pool}
}

// Ensure workSessionRepository implements the reader
var _ portsrepo.WorkSessionReader = (*workSessionRepository)(nil)

func (r *workSessionRepository) FindSessionsByUserID(ctx context.Context, userID string) ([]domain.WorkSession, error) {
	query := `
		SELECT session_id, user_id, work_date, total_minutes, status
		FROM work_sessions
		WHERE user_id = $1
		ORDER BY work_date DESC;
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query work sessions: %w", err)
	}
	defer rows.Close()

	sessions := []domain.WorkSession{}
	for rows.Next() {
		var ws domain.WorkSession
		err := rows.Scan(
			&ws.SessionID,
			&ws.UserID,
			&ws.WorkDate,
			&ws.TotalMinutes,
			&ws.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan work session row: %w", err)
		}
		sessions = append(sessions, ws)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating work session rows: %w", rows.Err())
	}
	return sessions, nil
}
