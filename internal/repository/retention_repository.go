package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/edunex/portal-academico-api/internal/models"
)

// RetentionRepository handles persistence of retention actions.
type RetentionRepository struct {
	db *sqlx.DB
}

// NewRetentionRepository constructs the repository.
func NewRetentionRepository(db *sqlx.DB) *RetentionRepository {
	return &RetentionRepository{db: db}
}

// Create persists a retention action row.
func (r *RetentionRepository) Create(ctx context.Context, action *models.RetentionAction) error {
	if action.ActionDate.IsZero() {
		action.ActionDate = time.Now().UTC()
	}
	const query = `INSERT INTO retention_actions (user_id, admin_id, action_type, notes, action_date)
        VALUES (:user_id, :admin_id, :action_type, :notes, :action_date)`
	if _, err := r.db.NamedExecContext(ctx, query, action); err != nil {
		return fmt.Errorf("create retention action: %w", err)
	}
	return nil
}

// ListByUser returns the actions taken for one student, most recent first,
// with the acting admin's name joined.
func (r *RetentionRepository) ListByUser(ctx context.Context, userID string) ([]models.RetentionActionDetail, error) {
	const query = `SELECT ra.user_id, ra.admin_id, ra.action_type, ra.notes, ra.action_date, p.name AS admin_name
        FROM retention_actions ra
        JOIN profiles p ON p.id = ra.admin_id
        WHERE ra.user_id = $1
        ORDER BY ra.action_date DESC`
	var actions []models.RetentionActionDetail
	if err := r.db.SelectContext(ctx, &actions, query, userID); err != nil {
		return nil, fmt.Errorf("list retention actions: %w", err)
	}
	return actions, nil
}
