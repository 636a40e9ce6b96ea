package models

import (
	"time"

	"github.com/lib/pq"
)

// AssignmentType distinguishes generated assignments from manual edits
// and swaps made after publication.
type AssignmentType string

const (
	AssignmentGenerated AssignmentType = "GENERATED"
	AssignmentManual    AssignmentType = "MANUAL"
	AssignmentSwapped   AssignmentType = "SWAPPED"
)

// AssignmentRecord fills one shift instance with one staff member.
type AssignmentRecord struct {
	ID              string         `db:"id" json:"id"`
	OrganizationID  string         `db:"organization_id" json:"organization_id"`
	ShiftInstanceID string         `db:"shift_instance_id" json:"shift_instance_id"`
	StaffID         string         `db:"staff_id" json:"staff_id"`
	Type            AssignmentType `db:"type" json:"type"`
	Score           float64        `db:"score" json:"score"`
	Satisfied       pq.StringArray `db:"satisfied_constraints" json:"satisfied_constraints"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
}

// AssignmentDetail joins an assignment with its shift and staff fields
// for listing and export.
type AssignmentDetail struct {
	AssignmentRecord
	ShiftCode  string    `db:"shift_code" json:"shift_code"`
	ShiftName  string    `db:"shift_name" json:"shift_name"`
	Date       time.Time `db:"date" json:"date"`
	StaffName  string    `db:"staff_name" json:"staff_name"`
	StaffEmail string    `db:"staff_email" json:"staff_email"`
}
