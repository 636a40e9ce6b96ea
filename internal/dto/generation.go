package dto

import (
	"time"

	"github.com/radmosaic/rostergen-api/internal/engine"
	"github.com/radmosaic/rostergen-api/internal/models"
)

// GenerationRequest asks for one period's schedule to be generated.
// Seed is optional; when omitted a random seed is drawn and recorded in
// the result so the run stays reproducible.
type GenerationRequest struct {
	OrganizationID string `json:"organization_id" validate:"required"`
	Year           int    `json:"year" validate:"required,min=2000,max=2100"`
	Month          int    `json:"month" validate:"required,min=1,max=12"`
	Seed           *int64 `json:"seed,omitempty"`

	// Optional tuning knobs. MaxIterations is accepted but reserved for a
	// future multi-pass optimizer.
	FairnessWeight   float64 `json:"fairness_weight,omitempty" validate:"omitempty,gt=0"`
	PreferenceWeight float64 `json:"preference_weight,omitempty" validate:"omitempty,gt=0"`
	MaxIterations    int     `json:"max_iterations,omitempty" validate:"omitempty,min=0"`
}

// GenerationResult is the full outcome of a run. A run with coverage gaps
// is still successful; only context and persistence failures are not.
type GenerationResult struct {
	Success         bool                      `json:"success"`
	OrganizationID  string                    `json:"organization_id"`
	Year            int                       `json:"year"`
	Month           int                       `json:"month"`
	Seed            int64                     `json:"seed"`
	SeedGenerated   bool                      `json:"seed_generated"`
	Assignments     []models.AssignmentRecord `json:"assignments"`
	Gaps            []engine.Gap              `json:"gaps"`
	Metrics         engine.Metrics            `json:"metrics"`
	Audit           []engine.AuditEntry       `json:"audit"`
	Recommendations []string                  `json:"recommendations"`
	Warnings        []string                  `json:"warnings"`
	GeneratedAt     time.Time                 `json:"generated_at"`
}

// PeriodQuery addresses one organization-month.
type PeriodQuery struct {
	OrganizationID string `json:"organization_id" validate:"required"`
	Year           int    `json:"year" validate:"required,min=2000,max=2100"`
	Month          int    `json:"month" validate:"required,min=1,max=12"`
}
