package models

import "time"

// RetentionAction records an intervention staff took for a student.
type RetentionAction struct {
	UserID     string    `db:"user_id" json:"user_id"`
	AdminID    string    `db:"admin_id" json:"admin_id"`
	ActionType string    `db:"action_type" json:"action_type"`
	Notes      *string   `db:"notes" json:"notes,omitempty"`
	ActionDate time.Time `db:"action_date" json:"action_date"`
}

// RetentionActionDetail joins the action with the acting admin's name.
type RetentionActionDetail struct {
	RetentionAction
	AdminName string `db:"admin_name" json:"admin_name"`
}
