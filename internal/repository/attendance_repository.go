package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/edunex/portal-academico-api/internal/models"
)

// AttendanceRepository handles persistence of class attendance rows.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// ListByClassAndDate returns all attendance rows for a class on a date.
func (r *AttendanceRepository) ListByClassAndDate(ctx context.Context, classID string, eventDate time.Time) ([]models.AttendanceRecord, error) {
	const query = `SELECT class_id, user_id, event_date, status, notes, recorded_by
        FROM class_attendance WHERE class_id = $1 AND event_date = $2`
	var records []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, query, classID, eventDate); err != nil {
		return nil, fmt.Errorf("list class attendance: %w", err)
	}
	return records, nil
}

// UpsertBatch writes all records in one transaction. Each row is keyed on
// (class_id, user_id, event_date); a conflicting key replaces the full row
// image. The batch either commits whole or not at all.
func (r *AttendanceRepository) UpsertBatch(ctx context.Context, records []models.AttendanceRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin attendance upsert: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	const query = `INSERT INTO class_attendance (class_id, user_id, event_date, status, notes, recorded_by)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (class_id, user_id, event_date)
DO UPDATE SET status = EXCLUDED.status, notes = EXCLUDED.notes, recorded_by = EXCLUDED.recorded_by`
	for i := range records {
		rec := &records[i]
		if _, err := tx.ExecContext(ctx, query, rec.ClassID, rec.UserID, rec.EventDate, rec.Status, rec.Notes, rec.RecordedBy); err != nil {
			return fmt.Errorf("upsert attendance row: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit attendance upsert: %w", err)
	}
	committed = true
	return nil
}
