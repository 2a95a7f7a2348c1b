package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/edunex/portal-academico-api/internal/models"
	appErrors "github.com/edunex/portal-academico-api/pkg/errors"
)

type notificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByRecipient(ctx context.Context, recipientID string) ([]models.Notification, error)
	FindByID(ctx context.Context, id string) (*models.Notification, error)
	MarkRead(ctx context.Context, id string) error
	CountUnread(ctx context.Context, recipientID string) (int, error)
	ListUnreadRecipients(ctx context.Context) ([]string, error)
}

type unreadCountCache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Routes older notifications that predate the explicit link field.
var relatedTypeRoutes = map[string]string{
	"contract": "/admin/service-providers",
	"request":  "/aluno/solicitacoes",
}

const defaultRoute = "/"

// NotificationService is the exclusive owner of notification rows. Delivery
// is pull-based: consumers re-fetch on a fixed period and right after a
// read action.
type NotificationService struct {
	repo     notificationRepository
	cache    unreadCountCache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewNotificationService constructs the service.
func NewNotificationService(repo notificationRepository, cache unreadCountCache, cacheTTL time.Duration, logger *zap.Logger) *NotificationService {
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{repo: repo, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// GetForActor returns the actor's notifications most-recent-first together
// with the unread count. The count is derived from the returned list so the
// two can never disagree.
func (s *NotificationService) GetForActor(ctx context.Context, actorID string) (*models.NotificationFeed, error) {
	notifications, err := s.repo.ListByRecipient(ctx, actorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to fetch notifications")
	}
	unread := 0
	for _, n := range notifications {
		if !n.IsRead {
			unread++
		}
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	return &models.NotificationFeed{Notifications: notifications, UnreadCount: unread}, nil
}

// MarkAsRead flips is_read to true. Marking an already-read notification
// succeeds without change; the flag never reverses.
func (s *NotificationService) MarkAsRead(ctx context.Context, actorID, notificationID string) error {
	notification, err := s.repo.FindByID(ctx, notificationID)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "notification not found")
		}
		return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load notification")
	}
	if notification.Recipient != actorID {
		return appErrors.Clone(appErrors.ErrForbidden, "notification belongs to another actor")
	}
	if notification.IsRead {
		return nil
	}
	if err := s.repo.MarkRead(ctx, notificationID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to mark notification read")
	}
	s.invalidateUnreadCount(ctx, actorID)
	return nil
}

// ResolveLink maps a notification to its route: the explicit link when set,
// else a fixed fallback per related-entity type, else the root route.
func (s *NotificationService) ResolveLink(notification models.Notification) string {
	if notification.Link != nil && *notification.Link != "" {
		return *notification.Link
	}
	if notification.RelatedType != nil {
		if route, ok := relatedTypeRoutes[*notification.RelatedType]; ok {
			return route
		}
	}
	return defaultRoute
}

// HandleRequestEvent turns a lifecycle event into a stored notification.
// It is invoked from the emission dispatcher, outside the transaction that
// produced the event.
func (s *NotificationService) HandleRequestEvent(ctx context.Context, event RequestEvent) error {
	link := "/aluno/solicitacoes/" + event.RequestID
	relatedType := "request"
	notification := &models.Notification{
		Recipient:   event.Recipient,
		Title:       "Solicitação atualizada",
		Message:     fmt.Sprintf("Sua solicitação %q mudou para %s.", event.Subject, event.Status),
		Link:        &link,
		RelatedType: &relatedType,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return fmt.Errorf("store request notification: %w", err)
	}
	s.invalidateUnreadCount(ctx, event.Recipient)
	return nil
}

// RefreshUnreadCount recomputes and caches the unread counter for one
// actor. The poller drives it on the documented delivery period.
func (s *NotificationService) RefreshUnreadCount(ctx context.Context, actorID string) error {
	if s.cache == nil {
		return nil
	}
	count, err := s.repo.CountUnread(ctx, actorID)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, unreadCountKey(actorID), count, s.cacheTTL)
}

// RefreshAllUnreadCounts recomputes the counter for every recipient that
// still has unread notifications. The scheduled poller calls it.
func (s *NotificationService) RefreshAllUnreadCounts(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	recipients, err := s.repo.ListUnreadRecipients(ctx)
	if err != nil {
		return err
	}
	for _, recipient := range recipients {
		if err := s.RefreshUnreadCount(ctx, recipient); err != nil {
			s.logger.Sugar().Warnw("unread count refresh failed", "actor", recipient, "error", err)
		}
	}
	return nil
}

func (s *NotificationService) invalidateUnreadCount(ctx context.Context, actorID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, unreadCountKey(actorID)); err != nil {
		s.logger.Sugar().Warnw("unread count invalidation failed", "actor", actorID, "error", err)
	}
}

func unreadCountKey(actorID string) string {
	return "notifications:unread:" + actorID
}
