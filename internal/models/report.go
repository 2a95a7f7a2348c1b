package models

import "time"

// AttendanceReportFilter parameterizes the read-only attendance report.
type AttendanceReportFilter struct {
	ClassID  string
	Status   *AttendanceStatus
	DateFrom *time.Time
	DateTo   *time.Time
}

// AttendanceReportRow is a precomputed row returned by the report
// collaborator; the core does not aggregate anything itself.
type AttendanceReportRow struct {
	ClassID     string           `db:"class_id" json:"class_id"`
	ClassName   string           `db:"class_name" json:"class_name"`
	StudentName string           `db:"student_name" json:"student_name"`
	EventDate   time.Time        `db:"event_date" json:"event_date"`
	Status      AttendanceStatus `db:"status" json:"status"`
	Notes       *string          `db:"notes" json:"notes,omitempty"`
}

// RequestReportFilter parameterizes the request status report.
type RequestReportFilter struct {
	Status   *RequestStatus
	DateFrom *time.Time
	DateTo   *time.Time
}

// RequestReportRow is a precomputed per-status request count.
type RequestReportRow struct {
	Status RequestStatus `db:"status" json:"status"`
	Total  int           `db:"total" json:"total"`
}
