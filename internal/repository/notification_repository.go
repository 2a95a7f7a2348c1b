package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/edunex/portal-academico-api/internal/models"
)

// NotificationRepository is the only component writing notification rows.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository constructs the repository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create persists a new notification row.
func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO notifications (id, recipient, title, message, link, related_type, is_read, created_at)
        VALUES (:id, :recipient, :title, :message, :link, :related_type, :is_read, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, notification); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// ListByRecipient returns the recipient's notifications most recent first.
func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID string) ([]models.Notification, error) {
	const query = `SELECT id, recipient, title, message, link, related_type, is_read, created_at
        FROM notifications WHERE recipient = $1 ORDER BY created_at DESC`
	var notifications []models.Notification
	if err := r.db.SelectContext(ctx, &notifications, query, recipientID); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}

// FindByID returns a notification by its ID.
func (r *NotificationRepository) FindByID(ctx context.Context, id string) (*models.Notification, error) {
	const query = `SELECT id, recipient, title, message, link, related_type, is_read, created_at
        FROM notifications WHERE id = $1`
	var notification models.Notification
	if err := r.db.GetContext(ctx, &notification, query, id); err != nil {
		return nil, err
	}
	return &notification, nil
}

// MarkRead flips is_read to true. Applying it to an already-read row is a
// no-op, which keeps the operation idempotent.
func (r *NotificationRepository) MarkRead(ctx context.Context, id string) error {
	const query = `UPDATE notifications SET is_read = TRUE WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

// ListUnreadRecipients returns the distinct recipients holding at least one
// unread notification.
func (r *NotificationRepository) ListUnreadRecipients(ctx context.Context) ([]string, error) {
	const query = `SELECT DISTINCT recipient FROM notifications WHERE is_read = FALSE`
	var recipients []string
	if err := r.db.SelectContext(ctx, &recipients, query); err != nil {
		return nil, fmt.Errorf("list unread recipients: %w", err)
	}
	return recipients, nil
}

// CountUnread returns the number of unread notifications for a recipient.
func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID string) (int, error) {
	const query = `SELECT COUNT(*) FROM notifications WHERE recipient = $1 AND is_read = FALSE`
	var count int
	if err := r.db.GetContext(ctx, &count, query, recipientID); err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}
