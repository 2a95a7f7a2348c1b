package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/edunex/portal-academico-api/internal/models"
)

// ReportRepository serves parameterized, read-only report queries. Rows come
// back precomputed; no aggregation happens outside these queries.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs the repository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// AttendanceReport returns attendance rows matching the filter.
func (r *ReportRepository) AttendanceReport(ctx context.Context, filter models.AttendanceReportFilter) ([]models.AttendanceReportRow, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.ClassID != "" {
		where = append(where, fmt.Sprintf("ca.class_id = $%d", len(args)+1))
		args = append(args, filter.ClassID)
	}
	if filter.Status != nil && filter.Status.Valid() {
		where = append(where, fmt.Sprintf("ca.status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.DateFrom != nil {
		where = append(where, fmt.Sprintf("ca.event_date >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		where = append(where, fmt.Sprintf("ca.event_date <= $%d", len(args)+1))
		args = append(args, *filter.DateTo)
	}

	query := fmt.Sprintf(`SELECT ca.class_id, c.name AS class_name, p.name AS student_name,
        ca.event_date, ca.status, ca.notes
        FROM class_attendance ca
        JOIN classes c ON c.id = ca.class_id
        JOIN profiles p ON p.id = ca.user_id
        WHERE %s
        ORDER BY ca.event_date DESC, p.name ASC`, strings.Join(where, " AND "))

	var rows []models.AttendanceReportRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("attendance report: %w", err)
	}
	return rows, nil
}

// RequestTotals returns per-status request counts matching the filter.
func (r *ReportRepository) RequestTotals(ctx context.Context, filter models.RequestReportFilter) ([]models.RequestReportRow, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.Status != nil && filter.Status.Valid() {
		where = append(where, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.DateFrom != nil {
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		where = append(where, fmt.Sprintf("created_at <= $%d", len(args)+1))
		args = append(args, *filter.DateTo)
	}

	query := fmt.Sprintf(`SELECT status, COUNT(*) AS total
        FROM administrative_requests
        WHERE %s
        GROUP BY status
        ORDER BY status`, strings.Join(where, " AND "))

	var rows []models.RequestReportRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("request totals: %w", err)
	}
	return rows, nil
}
