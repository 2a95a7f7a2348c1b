package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/edunex/portal-academico-api/internal/models"
)

// RequestRepository handles persistence of administrative requests and
// their comments.
type RequestRepository struct {
	db *sqlx.DB
}

// NewRequestRepository constructs the repository.
func NewRequestRepository(db *sqlx.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// Create persists a new request row.
func (r *RequestRepository) Create(ctx context.Context, request *models.AdministrativeRequest) error {
	if request.ID == "" {
		request.ID = uuid.NewString()
	}
	if request.CreatedAt.IsZero() {
		request.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO administrative_requests (id, user_id, request_type, subject, description, status, created_at)
        VALUES (:id, :user_id, :request_type, :subject, :description, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, request); err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return nil
}

// ListAll returns every request joined with the requester identity, staff
// view, most recent first.
func (r *RequestRepository) ListAll(ctx context.Context) ([]models.AdministrativeRequestDetail, error) {
	const query = `SELECT ar.id, ar.user_id, ar.request_type, ar.subject, ar.description, ar.status, ar.created_at,
        p.name AS requester_name, p.email AS requester_email
        FROM administrative_requests ar
        JOIN profiles p ON p.id = ar.user_id
        ORDER BY ar.created_at DESC`
	var requests []models.AdministrativeRequestDetail
	if err := r.db.SelectContext(ctx, &requests, query); err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	return requests, nil
}

// ListByUser returns the requests raised by one actor, most recent first.
func (r *RequestRepository) ListByUser(ctx context.Context, userID string) ([]models.AdministrativeRequest, error) {
	const query = `SELECT id, user_id, request_type, subject, description, status, created_at
        FROM administrative_requests WHERE user_id = $1 ORDER BY created_at DESC`
	var requests []models.AdministrativeRequest
	if err := r.db.SelectContext(ctx, &requests, query, userID); err != nil {
		return nil, fmt.Errorf("list user requests: %w", err)
	}
	return requests, nil
}

// FindDetailByID returns one request with the requester identity joined.
func (r *RequestRepository) FindDetailByID(ctx context.Context, id string) (*models.AdministrativeRequestDetail, error) {
	const query = `SELECT ar.id, ar.user_id, ar.request_type, ar.subject, ar.description, ar.status, ar.created_at,
        p.name AS requester_name, p.email AS requester_email
        FROM administrative_requests ar
        JOIN profiles p ON p.id = ar.user_id
        WHERE ar.id = $1`
	var detail models.AdministrativeRequestDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// UpdateStatus sets the status of one request.
func (r *RequestRepository) UpdateStatus(ctx context.Context, id string, status models.RequestStatus) error {
	const query = `UPDATE administrative_requests SET status = $2 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update request status: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update request status: no request with id %s", id)
	}
	return nil
}

// ListComments returns the comments of a request ordered by timestamp,
// author names joined.
func (r *RequestRepository) ListComments(ctx context.Context, requestID string) ([]models.RequestComment, error) {
	const query = `SELECT rc.id, rc.request_id, rc.user_id, rc.comment, rc.created_at, p.name AS author_name
        FROM request_comments rc
        JOIN profiles p ON p.id = rc.user_id
        WHERE rc.request_id = $1
        ORDER BY rc.created_at ASC`
	var comments []models.RequestComment
	if err := r.db.SelectContext(ctx, &comments, query, requestID); err != nil {
		return nil, fmt.Errorf("list request comments: %w", err)
	}
	return comments, nil
}

// AddComment persists a new comment row.
func (r *RequestRepository) AddComment(ctx context.Context, comment *models.RequestComment) error {
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO request_comments (id, request_id, user_id, comment, created_at)
        VALUES (:id, :request_id, :user_id, :comment, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, comment); err != nil {
		return fmt.Errorf("add request comment: %w", err)
	}
	return nil
}
