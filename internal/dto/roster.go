package dto

import "github.com/radmosaic/rostergen-api/internal/models"

// RosterView is the read model for one period's roster: the filled
// assignments plus the instances nobody covers.
type RosterView struct {
	OrganizationID  string                    `json:"organization_id"`
	Year            int                       `json:"year"`
	Month           int                       `json:"month"`
	Assignments     []models.AssignmentDetail `json:"assignments"`
	Unassigned      []models.ShiftInstance    `json:"unassigned"`
	CoveragePercent float64                   `json:"coverage_percent"`
}
