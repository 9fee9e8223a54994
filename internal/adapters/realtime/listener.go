// Package realtime delivers notification row changes to in-process
// subscribers over a dedicated Postgres LISTEN connection. A trigger on the
// notifications table emits one NOTIFY per insert or update; this listener
// demultiplexes the stream per user.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/staffsync/staffsync_backend/internal/core/domain"
	portsrepo "github.com/staffsync/staffsync_backend/internal/core/ports/repositories"
)

const (
	subscriberBuffer = 16
	initialBackoff   = time.Second
	maxBackoff       = 30 * time.Second
)

// notificationRow is the trigger payload's row image, column-named.
type notificationRow struct {
	NotificationID string         `json:"notification_id"`
	UserID         string         `json:"user_id"`
	Type           string         `json:"type"`
	Title          string         `json:"title"`
	Message        string         `json:"message"`
	IsRead         bool           `json:"is_read"`
	ActionURL      *string        `json:"action_url"`
	Metadata       map[string]any `json:"metadata"`
	CreatedAt      time.Time      `json:"created_at"`
}

type eventPayload struct {
	Op     string          `json:"op"`
	Record notificationRow `json:"record"`
}

type subscriber struct {
	userID string
	ch     chan domain.NotificationEvent
}

// Listener owns the LISTEN connection and fans events out to subscribers.
// It reconnects with exponential backoff when the connection drops; events
// committed while disconnected are not replayed.
type Listener struct {
	dsn     string
	channel string
	logger  *slog.Logger

	mu     sync.Mutex
	subs   map[int]*subscriber
	nextID int

	cancel context.CancelFunc
	done   chan struct{}
}

// NewListener creates a listener for the given NOTIFY channel. Start must be
// called before events flow.
func NewListener(dsn, channel string, logger *slog.Logger) *Listener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Listener{
		dsn:     dsn,
		channel: channel,
		logger:  logger,
		subs:    make(map[int]*subscriber),
	}
}

// Ensure Listener implements the feed port
var _ portsrepo.NotificationFeed = (*Listener)(nil)

// Start opens the LISTEN connection and runs the receive loop until Close.
func (l *Listener) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.done = make(chan struct{})
	go l.run(runCtx)
}

// Close stops the receive loop and closes all subscriber channels.
func (l *Listener) Close() {
	if l.cancel != nil {
		l.cancel()
		<-l.done
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for id, sub := range l.subs {
		delete(l.subs, id)
		close(sub.ch)
	}
}

// Subscribe opens a per-user subscription. The cancel func detaches it and
// closes the channel. Slow consumers have events dropped rather than
// blocking the receive loop.
func (l *Listener) Subscribe(ctx context.Context, userID string) (<-chan domain.NotificationEvent, func(), error) {
	if userID == "" {
		return nil, nil, fmt.Errorf("subscribe: user id cannot be empty")
	}

	l.mu.Lock()
	id := l.nextID
	l.nextID++
	sub := &subscriber{userID: userID, ch: make(chan domain.NotificationEvent, subscriberBuffer)}
	l.subs[id] = sub
	l.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			if _, ok := l.subs[id]; ok {
				delete(l.subs, id)
				close(sub.ch)
			}
		})
	}

	// Detach automatically when the caller's context ends.
	go func() {
		<-ctx.Done()
		cancel()
	}()

	return sub.ch, cancel, nil
}

// run is the receive loop: connect, LISTEN, wait, dispatch; reconnect with
// backoff on failure.
func (l *Listener) run(ctx context.Context) {
	defer close(l.done)

	backoff := initialBackoff
	for {
		conn, err := l.connect(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			l.logger.Warn("Notification listener connect failed, retrying",
				slog.String("error", err.Error()),
				slog.Duration("backoff", backoff))
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			backoff = min(backoff*2, maxBackoff)
			continue
		}
		backoff = initialBackoff
		l.logger.Info("Notification listener connected", slog.String("channel", l.channel))

		err = l.receive(ctx, conn)
		_ = conn.Close(context.Background())
		if ctx.Err() != nil {
			return
		}
		l.logger.Warn("Notification listener connection lost, reconnecting",
			slog.String("error", err.Error()))
	}
}

func (l *Listener) connect(ctx context.Context) (*pgx.Conn, error) {
	conn, err := pgx.Connect(ctx, l.dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open listen connection: %w", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		_ = conn.Close(context.Background())
		return nil, fmt.Errorf("failed to LISTEN on %s: %w", l.channel, err)
	}
	return conn, nil
}

func (l *Listener) receive(ctx context.Context, conn *pgx.Conn) error {
	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		l.dispatch(notification.Payload)
	}
}

// dispatch parses one NOTIFY payload and delivers it to the owning user's
// subscribers. A malformed payload is logged and skipped.
func (l *Listener) dispatch(payload string) {
	var p eventPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		l.logger.Warn("Dropping malformed notification payload",
			slog.String("error", err.Error()))
		return
	}

	var op domain.NotificationEventOp
	switch p.Op {
	case string(domain.NotificationInserted):
		op = domain.NotificationInserted
	case string(domain.NotificationUpdated):
		op = domain.NotificationUpdated
	default:
		return
	}

	ev := domain.NotificationEvent{Op: op, Notification: toDomain(p.Record)}

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, sub := range l.subs {
		if sub.userID != ev.Notification.UserID {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
			l.logger.Debug("Dropping notification event for slow subscriber",
				slog.String("user_id", sub.userID))
		}
	}
}

func toDomain(row notificationRow) domain.Notification {
	n := domain.Notification{
		NotificationID: row.NotificationID,
		UserID:         row.UserID,
		Type:           domain.NotificationType(row.Type),
		Title:          row.Title,
		Message:        row.Message,
		Read:           row.IsRead,
		Metadata:       row.Metadata,
		CreatedAt:      row.CreatedAt,
	}
	if row.ActionURL != nil {
		n.ActionURL = *row.ActionURL
	}
	return n
}
