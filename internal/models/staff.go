package models

import (
	"time"

	"github.com/lib/pq"
)

// StaffProfile represents a schedulable radiologist.
type StaffProfile struct {
	ID             string         `db:"id" json:"id"`
	OrganizationID string         `db:"organization_id" json:"organization_id"`
	FullName       string         `db:"full_name" json:"full_name"`
	Email          string         `db:"email" json:"email"`
	Subspecialty   string         `db:"subspecialty" json:"subspecialty"`
	FTEPercent     int            `db:"fte_percent" json:"fte_percent"`
	IsFellow       bool           `db:"is_fellow" json:"is_fellow"`
	IsResident     bool           `db:"is_resident" json:"is_resident"`
	CrossTrained   pq.StringArray `db:"cross_trained" json:"cross_trained"`
	Active         bool           `db:"active" json:"active"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// MonthlyAssignmentCap derives the hard monthly assignment limit for
// part-time staff: floor(FTE/100 * workdays). Full-time staff are uncapped.
func (s StaffProfile) MonthlyAssignmentCap(workdaysPerMonth int) int {
	if s.FTEPercent >= 100 {
		return workdaysPerMonth
	}
	return s.FTEPercent * workdaysPerMonth / 100
}

// CoversShiftCode reports whether the staff member carries an explicit
// cross-training entry for the given shift code.
func (s StaffProfile) CoversShiftCode(code string) bool {
	for _, c := range s.CrossTrained {
		if c == code {
			return true
		}
	}
	return false
}
