package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/staffsync/staffsync_backend/internal/apperrors"
	"github.com/staffsync/staffsync_backend/internal/core/domain"
	portsrepo "github.com/staffsync/staffsync_backend/internal/core/ports/repositories"
	portssvc "github.com/staffsync/staffsync_backend/internal/core/ports/services"
)

// mirrorFetchLimit bounds the initial fetch that seeds a session's mirror.
// The durable log is unbounded; bulk read-state changes therefore always go
// through set-based store predicates, never loops over the mirror.
const mirrorFetchLimit = 50

// subscriberBuffer is the per-consumer event buffer. A consumer that falls
// behind has events dropped rather than blocking the session.
const subscriberBuffer = 16

// notificationSession is the live in-memory mirror for one signed-in user.
// It is owned by the notification service; all mutation goes through its
// methods under the session lock.
type notificationSession struct {
	userID string

	mu            sync.Mutex
	live          bool
	cancelFeed    func()
	notifications []domain.Notification
	announcements []domain.Announcement
	subscribers   map[int]chan domain.NotificationEvent
	nextSubID     int
}

// notificationService implements the NotificationSvcFacade interface.
type notificationService struct {
	BaseService
	notificationRepo portsrepo.NotificationRepositoryFacade
	feed             portsrepo.NotificationFeed
	logger           *slog.Logger

	mu       sync.Mutex
	sessions map[string]*notificationSession
}

// NewNotificationService creates a new notification service. The feed may be
// nil in tests; sessions then run without live updates.
func NewNotificationService(
	notificationRepo portsrepo.NotificationRepositoryFacade,
	feed portsrepo.NotificationFeed,
	permissionChecker portssvc.RoleResolverSvc,
	logger *slog.Logger,
) portssvc.NotificationSvcFacade {
	if logger == nil {
		logger = slog.Default()
	}
	return &notificationService{
		BaseService:      BaseService{PermissionChecker: permissionChecker},
		notificationRepo: notificationRepo,
		feed:             feed,
		logger:           logger,
		sessions:         make(map[string]*notificationSession),
	}
}

// Ensure notificationService implements the NotificationSvcFacade interface
var _ portssvc.NotificationSvcFacade = (*notificationService)(nil)

// StartSession seeds the user's mirror with the most recent notifications
// and opens the single realtime subscription for the session. An existing
// session for the same user is torn down first so exactly one subscription
// is live per user.
func (s *notificationService) StartSession(ctx context.Context, userID string) error {
	s.StopSession(userID)

	recent, err := s.notificationRepo.FindRecentByUserID(ctx, userID, mirrorFetchLimit)
	if err != nil {
		s.LogError(ctx, err, "Failed to seed notification mirror",
			slog.String("user_id", userID))
		return err
	}

	sess := &notificationSession{
		userID:        userID,
		live:          true,
		notifications: recent,
		subscribers:   make(map[int]chan domain.NotificationEvent),
	}

	if s.feed != nil {
		// The subscription must outlive the request that started the session.
		feedCtx, cancel := context.WithCancel(context.Background())
		events, unsubscribe, err := s.feed.Subscribe(feedCtx, userID)
		if err != nil {
			cancel()
			s.LogError(ctx, err, "Failed to subscribe to notification feed",
				slog.String("user_id", userID))
			return err
		}
		sess.cancelFeed = func() {
			unsubscribe()
			cancel()
		}
		go s.consumeFeed(sess, events)
	}

	s.mu.Lock()
	prev := s.sessions[userID]
	s.sessions[userID] = sess
	s.mu.Unlock()
	if prev != nil {
		// A concurrent start stored a session between the teardown above
		// and this store. The newest session wins; the stale one and its
		// feed subscription are torn down so one subscription stays live.
		prev.teardown()
	}

	s.LogInfo(ctx, "Notification session started",
		slog.String("user_id", userID),
		slog.Int("seeded", len(recent)))
	return nil
}

// StopSession tears down the user's session: the feed subscription is closed
// and late events are ignored via the session's liveness flag.
func (s *notificationService) StopSession(userID string) {
	s.mu.Lock()
	sess, ok := s.sessions[userID]
	if ok {
		delete(s.sessions, userID)
	}
	s.mu.Unlock()

	if ok {
		sess.teardown()
	}
}

// StopAll tears down every live session.
func (s *notificationService) StopAll() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*notificationSession)
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.teardown()
	}
}

// consumeFeed applies realtime events to the session until the feed closes.
func (s *notificationService) consumeFeed(sess *notificationSession, events <-chan domain.NotificationEvent) {
	for ev := range events {
		s.applyEvent(sess, ev)
	}
}

// applyEvent reconciles one feed event with the session mirror.
func (s *notificationService) applyEvent(sess *notificationSession, ev domain.NotificationEvent) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if !sess.live {
		// Session torn down while the event was in flight.
		return
	}

	switch ev.Op {
	case domain.NotificationInserted:
		// Same-user inserts arrive in creation order, so prepending keeps
		// the mirror sorted without re-sorting on every event.
		sess.notifications = append([]domain.Notification{ev.Notification}, sess.notifications...)
	case domain.NotificationUpdated:
		replaced := false
		for i := range sess.notifications {
			if sess.notifications[i].NotificationID == ev.Notification.NotificationID {
				sess.notifications[i] = ev.Notification
				replaced = true
				break
			}
		}
		if !replaced {
			// Row evicted by the bounded fetch window; expected staleness,
			// not an error.
			s.logger.Debug("Dropping update for notification outside mirror",
				slog.String("user_id", sess.userID),
				slog.String("notification_id", ev.Notification.NotificationID))
			return
		}
	default:
		s.logger.Debug("Ignoring unknown notification event op",
			slog.String("op", string(ev.Op)))
		return
	}

	sess.broadcastLocked(ev)
}

// session returns the live session for a user, if any.
func (s *notificationService) session(userID string) *notificationSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[userID]
}

// Notifications returns a snapshot of the user's mirror, newest first.
func (s *notificationService) Notifications(userID string) []domain.Notification {
	sess := s.session(userID)
	if sess == nil {
		return []domain.Notification{}
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	snapshot := make([]domain.Notification, len(sess.notifications))
	copy(snapshot, sess.notifications)
	return snapshot
}

// Announcements returns the session's locally tracked announcements.
func (s *notificationService) Announcements(userID string) []domain.Announcement {
	sess := s.session(userID)
	if sess == nil {
		return []domain.Announcement{}
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	snapshot := make([]domain.Announcement, len(sess.announcements))
	copy(snapshot, sess.announcements)
	return snapshot
}

// UnreadCount derives the unread count from the mirror. It is never tracked
// as a separate integer, so it cannot drift from the underlying set.
func (s *notificationService) UnreadCount(userID string) int {
	sess := s.session(userID)
	if sess == nil {
		return 0
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	count := 0
	for _, n := range sess.notifications {
		if !n.Read {
			count++
		}
	}
	return count
}

// MarkAsRead optimistically flips the local flag, then issues the scoped
// store update. On store failure the local flag stays flipped and the error
// is surfaced to the caller; the next full refetch reconciles.
func (s *notificationService) MarkAsRead(ctx context.Context, userID, notificationID string) error {
	if sess := s.session(userID); sess != nil {
		sess.mu.Lock()
		for i := range sess.notifications {
			if sess.notifications[i].NotificationID == notificationID {
				sess.notifications[i].Read = true
				break
			}
		}
		sess.mu.Unlock()
	}

	if err := s.notificationRepo.MarkRead(ctx, notificationID, userID); err != nil {
		s.LogError(ctx, err, "Failed to persist notification read state",
			slog.String("user_id", userID),
			slog.String("notification_id", notificationID))
		return err
	}
	return nil
}

// MarkAllAsRead flips every local entry and issues one set-based update
// predicated on user_id and is_read, so unread rows outside the bounded
// local window are covered as well.
func (s *notificationService) MarkAllAsRead(ctx context.Context, userID string) error {
	if sess := s.session(userID); sess != nil {
		sess.mu.Lock()
		for i := range sess.notifications {
			sess.notifications[i].Read = true
		}
		sess.mu.Unlock()
	}

	affected, err := s.notificationRepo.MarkAllRead(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to mark all notifications read",
			slog.String("user_id", userID))
		return err
	}

	s.LogDebug(ctx, "Marked all notifications read",
		slog.String("user_id", userID),
		slog.Int64("rows_affected", affected))
	return nil
}

// AddLocal prepends a client-only ephemeral notification to the mirror. It
// carries a locally scoped id and never reaches the store.
func (s *notificationService) AddLocal(userID string, n domain.Notification) domain.Notification {
	n.NotificationID = "local-" + uuid.NewString()
	n.UserID = userID
	n.Read = false
	n.CreatedAt = time.Now()

	sess := s.session(userID)
	if sess == nil {
		return n
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.live {
		sess.notifications = append([]domain.Notification{n}, sess.notifications...)
		sess.broadcastLocked(domain.NotificationEvent{Op: domain.NotificationInserted, Notification: n})
	}
	return n
}

// ClearNotification removes one entry from the mirror. Dismissal is a view
// concern; the durable log is untouched.
func (s *notificationService) ClearNotification(userID, notificationID string) {
	sess := s.session(userID)
	if sess == nil {
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	filtered := sess.notifications[:0]
	for _, n := range sess.notifications {
		if n.NotificationID != notificationID {
			filtered = append(filtered, n)
		}
	}
	sess.notifications = filtered
}

// ClearAll empties the mirror. The durable log is untouched.
func (s *notificationService) ClearAll(userID string) {
	sess := s.session(userID)
	if sess == nil {
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.notifications = []domain.Notification{}
}

// SendAnnouncement records the announcement in the actor's session for
// immediate display, then fans it out to every member of the actor's company
// in a single procedure call. Requires the announcements permission. The
// fan-out is atomic from this side; per recipient retry is the procedure's
// concern.
func (s *notificationService) SendAnnouncement(ctx context.Context, actor *domain.User, a domain.Announcement) error {
	if actor == nil || actor.CompanyID == nil {
		return fmt.Errorf("%w: announcements require a company", apperrors.ErrValidation)
	}
	if err := s.RequirePermission(ctx, actor.UserID, domain.PermissionAnnouncements); err != nil {
		return err
	}

	a.AnnouncementID = "a-" + uuid.NewString()
	a.CreatedBy = actor.UserID
	a.CreatedAt = time.Now()

	if sess := s.session(actor.UserID); sess != nil {
		sess.mu.Lock()
		sess.announcements = append([]domain.Announcement{a}, sess.announcements...)
		sess.mu.Unlock()
	}

	recipients, err := s.notificationRepo.NotifyCompanyMembers(ctx, portsrepo.FanOutParams{
		CompanyID: *actor.CompanyID,
		Type:      domain.NotificationAnnouncement,
		Title:     a.Title,
		Message:   a.Message,
		ActorID:   actor.UserID,
		// Excluding no one: the sender receives their own announcement too.
		ExcludeUserID: nil,
		Metadata:      map[string]any{"createdByName": a.CreatedByName},
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to fan out announcement",
			slog.String("company_id", *actor.CompanyID),
			slog.String("actor_id", actor.UserID))
		return err
	}

	s.LogInfo(ctx, "Announcement sent",
		slog.String("company_id", *actor.CompanyID),
		slog.Int("recipients", recipients))
	return nil
}

// Subscribe attaches a consumer to the session's live events.
func (s *notificationService) Subscribe(userID string) (<-chan domain.NotificationEvent, func(), error) {
	sess := s.session(userID)
	if sess == nil {
		return nil, nil, fmt.Errorf("%w: no notification session for user", apperrors.ErrNotFound)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if !sess.live {
		return nil, nil, fmt.Errorf("%w: no notification session for user", apperrors.ErrNotFound)
	}

	id := sess.nextSubID
	sess.nextSubID++
	ch := make(chan domain.NotificationEvent, subscriberBuffer)
	sess.subscribers[id] = ch

	cancel := func() {
		sess.mu.Lock()
		defer sess.mu.Unlock()
		if _, ok := sess.subscribers[id]; ok {
			delete(sess.subscribers, id)
			close(ch)
		}
	}
	return ch, cancel, nil
}

// broadcastLocked delivers an event to all session subscribers. The session
// lock must be held. Full consumers are skipped.
func (sess *notificationSession) broadcastLocked(ev domain.NotificationEvent) {
	for _, ch := range sess.subscribers {
		select {
		case ch <- ev:
		default:
		}
	}
}

// teardown marks the session dead, cancels its feed subscription and closes
// all consumer channels.
func (sess *notificationSession) teardown() {
	sess.mu.Lock()
	if !sess.live {
		sess.mu.Unlock()
		return
	}
	sess.live = false
	cancel := sess.cancelFeed
	for id, ch := range sess.subscribers {
		delete(sess.subscribers, id)
		close(ch)
	}
	sess.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}
