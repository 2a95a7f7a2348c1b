package models

import "time"

// AttendanceStatus represents the status for attendance records.
type AttendanceStatus string

const (
	AttendanceStatusPresent   AttendanceStatus = "present"
	AttendanceStatusAbsent    AttendanceStatus = "absent"
	AttendanceStatusJustified AttendanceStatus = "justified"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusAbsent, AttendanceStatusJustified:
		return true
	default:
		return false
	}
}

// AttendanceRecord is one per-class, per-date, per-student attendance row.
// Rows are unique on (class_id, user_id, event_date); saving again for the
// same key replaces the whole row image.
type AttendanceRecord struct {
	ClassID    string           `db:"class_id" json:"class_id"`
	UserID     string           `db:"user_id" json:"user_id"`
	EventDate  time.Time        `db:"event_date" json:"event_date"`
	Status     AttendanceStatus `db:"status" json:"status"`
	Notes      *string          `db:"notes" json:"notes,omitempty"`
	RecordedBy string           `db:"recorded_by" json:"recorded_by"`
}

// Class is the read-only class lookup row used by the attendance views.
type Class struct {
	ID           string  `db:"id" json:"id"`
	Name         string  `db:"name" json:"name"`
	CourseID     *string `db:"course_id" json:"course_id,omitempty"`
	CourseTitle  *string `db:"course_title" json:"course_title,omitempty"`
	InstructorID string  `db:"instructor_id" json:"instructor_id"`
}
