package models

import (
	"time"

	"github.com/lib/pq"
)

// EligibilityMode controls which staff may fill instances of a shift type.
type EligibilityMode string

const (
	EligibilityAny          EligibilityMode = "ANY"
	EligibilitySubspecialty EligibilityMode = "REQUIRED_SUBSPECIALTY"
	EligibilityAllowlist    EligibilityMode = "NAMED_ALLOWLIST"
)

// ShiftInstanceStatus is the lifecycle state of a concrete shift occurrence.
type ShiftInstanceStatus string

const (
	ShiftInstanceDraft     ShiftInstanceStatus = "DRAFT"
	ShiftInstancePublished ShiftInstanceStatus = "PUBLISHED"
)

// ShiftTypeDefinition is the configuration template a shift instance
// is materialized from. Immutable for the duration of a generation run.
type ShiftTypeDefinition struct {
	ID                   string          `db:"id" json:"id"`
	OrganizationID       string          `db:"organization_id" json:"organization_id"`
	Code                 string          `db:"code" json:"code"`
	Name                 string          `db:"name" json:"name"`
	AllDay               bool            `db:"all_day" json:"all_day"`
	StartTime            string          `db:"start_time" json:"start_time"`
	EndTime              string          `db:"end_time" json:"end_time"`
	Recurrence           pq.BoolArray    `db:"recurrence" json:"recurrence"`
	EligibilityMode      EligibilityMode `db:"eligibility_mode" json:"eligibility_mode"`
	RequiredSubspecialty string          `db:"required_subspecialty" json:"required_subspecialty"`
	AllowedStaffEmails   pq.StringArray  `db:"allowed_staff_emails" json:"allowed_staff_emails"`
	CreatedAt            time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time       `db:"updated_at" json:"updated_at"`
}

// RecursOn reports whether the weekly recurrence mask covers the given
// weekday. The mask is stored Monday-first.
func (t ShiftTypeDefinition) RecursOn(day time.Weekday) bool {
	if len(t.Recurrence) != 7 {
		return false
	}
	idx := (int(day) + 6) % 7
	return t.Recurrence[idx]
}

// AllowsEmail reports whether the named allowlist contains the email.
func (t ShiftTypeDefinition) AllowsEmail(email string) bool {
	for _, e := range t.AllowedStaffEmails {
		if e == email {
			return true
		}
	}
	return false
}

// ShiftInstance is one dated occurrence of a shift type.
type ShiftInstance struct {
	ID             string              `db:"id" json:"id"`
	OrganizationID string              `db:"organization_id" json:"organization_id"`
	ShiftTypeID    string              `db:"shift_type_id" json:"shift_type_id"`
	Date           time.Time           `db:"date" json:"date"`
	StartsAt       time.Time           `db:"starts_at" json:"starts_at"`
	EndsAt         time.Time           `db:"ends_at" json:"ends_at"`
	Status         ShiftInstanceStatus `db:"status" json:"status"`
	CreatedAt      time.Time           `db:"created_at" json:"created_at"`
}
