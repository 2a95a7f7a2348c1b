package models

import "time"

// RequestStatus represents the lifecycle of an administrative request.
type RequestStatus string

// Canonical forward path. The model carries no enforced transition table:
// staff can set any status, including reopening a closed request.
const (
	RequestStatusOpen       RequestStatus = "open"
	RequestStatusInProgress RequestStatus = "in_progress"
	RequestStatusResolved   RequestStatus = "resolved"
	RequestStatusClosed     RequestStatus = "closed"
)

// Valid returns true when the status is a supported value.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusOpen, RequestStatusInProgress, RequestStatusResolved, RequestStatusClosed:
		return true
	default:
		return false
	}
}

// AdministrativeRequest is a request raised by an actor and worked by staff.
// The requester id is immutable after creation and rows are never deleted.
type AdministrativeRequest struct {
	ID          string        `db:"id" json:"id"`
	UserID      string        `db:"user_id" json:"user_id"`
	RequestType string        `db:"request_type" json:"request_type"`
	Subject     string        `db:"subject" json:"subject"`
	Description *string       `db:"description" json:"description,omitempty"`
	Status      RequestStatus `db:"status" json:"status"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
}

// AdministrativeRequestDetail enriches a request with the requester identity.
type AdministrativeRequestDetail struct {
	AdministrativeRequest
	RequesterName  string `db:"requester_name" json:"requester_name"`
	RequesterEmail string `db:"requester_email" json:"requester_email"`
}

// RequestComment belongs to exactly one request and is immutable once
// created. Listings are ordered by creation timestamp.
type RequestComment struct {
	ID         string    `db:"id" json:"id"`
	RequestID  string    `db:"request_id" json:"request_id"`
	UserID     string    `db:"user_id" json:"user_id"`
	Comment    string    `db:"comment" json:"comment"`
	AuthorName string    `db:"author_name" json:"author_name"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
