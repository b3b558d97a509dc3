package domain

import "time"

// Report is an abuse report. Names are resolved from the users table when
// the report is read and are nil once the referenced user is deleted.
type Report struct {
	ID               int       `json:"id" db:"id"`
	ReporterID       int       `json:"reporter_id" db:"reporter_id"`
	ReportedUserID   int       `json:"reported_user_id" db:"reported_user_id"`
	ReporterName     *string   `json:"reporter_name" db:"reporter_name"`
	ReportedUserName *string   `json:"reported_user_name" db:"reported_user_name"`
	Reason           string    `json:"reason" db:"reason"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}
