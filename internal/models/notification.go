package models

import "time"

// Notification is delivered to a single recipient and polled by the
// presentation layer. IsRead only ever transitions false to true.
type Notification struct {
	ID          string    `db:"id" json:"id"`
	Recipient   string    `db:"recipient" json:"recipient"`
	Title       string    `db:"title" json:"title"`
	Message     string    `db:"message" json:"message"`
	Link        *string   `db:"link" json:"link,omitempty"`
	RelatedType *string   `db:"related_type" json:"related_type,omitempty"`
	IsRead      bool      `db:"is_read" json:"is_read"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// NotificationFeed is the poll response: notifications most-recent-first
// plus the count of unread entries among them.
type NotificationFeed struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unread_count"`
}
