package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/edunex/portal-academico-api/internal/models"
)

// ClassRepository is a read-only lookup over classes.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs the repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// ListByInstructor returns the classes taught by an instructor.
func (r *ClassRepository) ListByInstructor(ctx context.Context, instructorID string) ([]models.Class, error) {
	const query = `SELECT c.id, c.name, c.course_id, co.title AS course_title, c.instructor_id
        FROM classes c
        LEFT JOIN courses co ON co.id = c.course_id
        WHERE c.instructor_id = $1
        ORDER BY c.name ASC`
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query, instructorID); err != nil {
		return nil, fmt.Errorf("list instructor classes: %w", err)
	}
	return classes, nil
}

// FindByID returns a class by its ID.
func (r *ClassRepository) FindByID(ctx context.Context, id string) (*models.Class, error) {
	const query = `SELECT c.id, c.name, c.course_id, co.title AS course_title, c.instructor_id
        FROM classes c
        LEFT JOIN courses co ON co.id = c.course_id
        WHERE c.id = $1`
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		return nil, err
	}
	return &class, nil
}
