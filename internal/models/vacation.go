package models

import "time"

// VacationStatus is the lifecycle state of a ranked vacation request.
type VacationStatus string

const (
	VacationPending  VacationStatus = "PENDING"
	VacationApproved VacationStatus = "APPROVED"
	VacationRejected VacationStatus = "REJECTED"
)

// VacationPreference is a ranked request for one week off in a target
// month. Rank 1 is most preferred; exactly one request is expected per
// (staff, year, month, rank).
type VacationPreference struct {
	ID             string         `db:"id" json:"id"`
	OrganizationID string         `db:"organization_id" json:"organization_id"`
	StaffID        string         `db:"staff_id" json:"staff_id"`
	Year           int            `db:"year" json:"year"`
	Month          int            `db:"month" json:"month"`
	Rank           int            `db:"rank" json:"rank"`
	WeekStart      time.Time      `db:"week_start" json:"week_start"`
	WeekEnd        time.Time      `db:"week_end" json:"week_end"`
	Status         VacationStatus `db:"status" json:"status"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// DateRange is an inclusive calendar interval.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether the date falls inside the range, endpoints
// included. Comparison is by calendar day.
func (r DateRange) Contains(date time.Time) bool {
	d := truncateDay(date)
	return !d.Before(truncateDay(r.Start)) && !d.After(truncateDay(r.End))
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
