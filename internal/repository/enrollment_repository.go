package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/edunex/portal-academico-api/internal/models"
)

// EnrollmentRepository handles persistence of enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// ListByClass returns the enrollments of a class joined with the minimal
// student identity.
func (r *EnrollmentRepository) ListByClass(ctx context.Context, classID string) ([]models.EnrollmentDetail, error) {
	const query = `SELECT e.id, e.class_id, e.user_id, e.status,
        p.name AS student_name, p.email AS student_email
        FROM enrollments e
        JOIN profiles p ON p.id = e.user_id
        WHERE e.class_id = $1
        ORDER BY p.name ASC`
	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, classID); err != nil {
		return nil, fmt.Errorf("list class enrollments: %w", err)
	}
	return enrollments, nil
}

// FindByID returns an enrollment by its ID.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	const query = `SELECT id, class_id, user_id, status FROM enrollments WHERE id = $1`
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, id); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// UpdateStatus sets the status of one enrollment. The value is persisted
// verbatim; the status domain is free-form here.
func (r *EnrollmentRepository) UpdateStatus(ctx context.Context, id, status string) error {
	const query = `UPDATE enrollments SET status = $2 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update enrollment status: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update enrollment status: no enrollment with id %s", id)
	}
	return nil
}
