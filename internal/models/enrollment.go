package models

// Enrollment links a student to a class. Status is deliberately a free-form
// string: the store accepts any value here, unlike the enumerated request
// and attendance statuses.
type Enrollment struct {
	ID      string `db:"id" json:"id"`
	ClassID string `db:"class_id" json:"class_id"`
	UserID  string `db:"user_id" json:"user_id"`
	Status  string `db:"status" json:"status"`
}

// EnrollmentDetail joins the enrollment with the student's identity.
type EnrollmentDetail struct {
	Enrollment
	StudentName  string `db:"student_name" json:"student_name"`
	StudentEmail string `db:"student_email" json:"student_email"`
}
