package engine

import (
	"fmt"
	"math"

	"github.com/radmosaic/rostergen-api/internal/models"
)

// ConstraintID identifies one rule in the constraint catalog.
type ConstraintID string

// Hard constraints. Any failure excludes the candidate outright.
const (
	ConstraintCoverage         ConstraintID = "COVERAGE"
	ConstraintSingleAssignment ConstraintID = "SINGLE_ASSIGNMENT_PER_DAY"
	ConstraintVacationBlock    ConstraintID = "VACATION_BLOCK"
	ConstraintSubspecialty     ConstraintID = "SUBSPECIALTY_MATCH"
	ConstraintAllowlist        ConstraintID = "NAMED_ALLOWLIST"
	ConstraintFTECap           ConstraintID = "FTE_MONTHLY_CAP"
)

// Soft constraints. These only ever score; they never exclude.
const (
	ConstraintFairness     ConstraintID = "FAIRNESS_DEBT"
	ConstraintBaseMatch    ConstraintID = "SUBSPECIALTY_AFFINITY"
	ConstraintExpectation  ConstraintID = "FTE_EXPECTATION"
	ConstraintDesirability ConstraintID = "DESIRABILITY_BALANCE"
)

// ConstraintViolation signals that a hard constraint excluded a candidate.
// It is control flow inside the generator, never a run failure.
type ConstraintViolation struct {
	Constraint      ConstraintID
	StaffID         string
	ShiftInstanceID string
	Reason          string
}

func (v *ConstraintViolation) Error() string {
	return fmt.Sprintf("constraint %s violated for staff %s on instance %s: %s",
		v.Constraint, v.StaffID, v.ShiftInstanceID, v.Reason)
}

// ResultDetail is the structured explanation attached to a soft-constraint
// result. Exactly one branch is populated, matching the constraint id.
type ResultDetail struct {
	Fairness     *FairnessDetail     `json:"fairness,omitempty"`
	Affinity     *AffinityDetail     `json:"affinity,omitempty"`
	Expectation  *ExpectationDetail  `json:"expectation,omitempty"`
	Desirability *DesirabilityDetail `json:"desirability,omitempty"`
}

// FairnessDetail explains the workload-balance component.
type FairnessDetail struct {
	CohortAverage float64 `json:"cohort_average"`
	Current       int     `json:"current"`
	Spread        float64 `json:"spread"`
}

// AffinityDetail explains the subspecialty affinity component.
type AffinityDetail struct {
	Required string `json:"required"`
	Actual   string `json:"actual"`
	Matched  bool   `json:"matched"`
}

// ExpectationDetail explains the FTE-scaled expectation component.
type ExpectationDetail struct {
	FTEPercent int     `json:"fte_percent"`
	Expected   float64 `json:"expected"`
	Current    int     `json:"current"`
}

// DesirabilityDetail explains the seeded tie-break jitter.
type DesirabilityDetail struct {
	Jitter float64 `json:"jitter"`
}

// ConstraintResult is one evaluated constraint for a candidate.
type ConstraintResult struct {
	ID        ConstraintID `json:"id"`
	Satisfied bool         `json:"satisfied"`
	Score     float64      `json:"score"`
	Detail    ResultDetail `json:"detail"`
}

// CohortStats summarises the live assignment distribution used by the
// soft scorer. Recomputed by the generator before each evaluation batch.
type CohortStats struct {
	Average float64
	Min     int
	Max     int
}

// Evaluator scores eligible candidates against the soft-constraint
// catalog. Hard constraints are checked by CheckEligibility beforehand.
type Evaluator struct {
	FairnessWeight  float64
	AffinityWeight  float64
	ExpectWeight    float64
	JitterAmplitude float64
	rng             *Rand
}

// NewEvaluator builds a scorer with the given weights and seeded source.
func NewEvaluator(fairnessWeight, jitterAmplitude float64, rng *Rand) *Evaluator {
	if fairnessWeight <= 0 {
		fairnessWeight = 3.0
	}
	if jitterAmplitude <= 0 {
		jitterAmplitude = 0.05
	}
	return &Evaluator{
		FairnessWeight:  fairnessWeight,
		AffinityWeight:  0.3,
		ExpectWeight:    1.0,
		JitterAmplitude: jitterAmplitude,
		rng:             rng,
	}
}

// Evaluate runs the full catalog for a candidate already known to pass the
// hard rules. It returns the per-constraint results and the clamped
// composite score in [0, 2].
func (e *Evaluator) Evaluate(
	staff models.StaffProfile,
	shiftType models.ShiftTypeDefinition,
	current int,
	cohort CohortStats,
) ([]ConstraintResult, float64) {
	fairness := e.fairnessScore(current, cohort)
	affinity := e.affinityScore(staff, shiftType)
	expectation := e.expectationScore(staff, current, cohort)
	jitter := e.rng.Jitter(e.JitterAmplitude)

	totalWeight := e.FairnessWeight + e.AffinityWeight + e.ExpectWeight
	composite := (e.FairnessWeight*fairness.Score +
		e.AffinityWeight*affinity.Score +
		e.ExpectWeight*expectation.Score) / totalWeight

	// Map the weighted mean from [0,1] onto the published [0,2] range,
	// then add the tie-break jitter and clamp.
	composite = composite*2 + jitter
	composite = math.Max(0, math.Min(2, composite))

	results := []ConstraintResult{
		fairness,
		affinity,
		expectation,
		{
			ID:        ConstraintDesirability,
			Satisfied: true,
			Score:     jitter,
			Detail:    ResultDetail{Desirability: &DesirabilityDetail{Jitter: jitter}},
		},
	}
	return results, composite
}

func (e *Evaluator) fairnessScore(current int, cohort CohortStats) ConstraintResult {
	spread := float64(cohort.Max - cohort.Min)
	if spread <= 0 {
		spread = 1
	}

	score := 0.5
	delta := cohort.Average - float64(current)
	if delta > 0 {
		// Under-assigned staff earn a proportional reward.
		score += math.Min(0.5, delta*0.1)
	} else if delta < 0 {
		// Over-assigned staff are penalised relative to the cohort spread.
		score -= math.Min(0.5, (-delta/spread)*0.5)
	}

	return ConstraintResult{
		ID:        ConstraintFairness,
		Satisfied: true,
		Score:     score,
		Detail: ResultDetail{Fairness: &FairnessDetail{
			CohortAverage: cohort.Average,
			Current:       current,
			Spread:        spread,
		}},
	}
}

func (e *Evaluator) affinityScore(staff models.StaffProfile, shiftType models.ShiftTypeDefinition) ConstraintResult {
	matched := shiftType.RequiredSubspecialty != "" && staff.Subspecialty == shiftType.RequiredSubspecialty
	score := 0.5
	if matched {
		score = 1.0
	}
	return ConstraintResult{
		ID:        ConstraintBaseMatch,
		Satisfied: true,
		Score:     score,
		Detail: ResultDetail{Affinity: &AffinityDetail{
			Required: shiftType.RequiredSubspecialty,
			Actual:   staff.Subspecialty,
			Matched:  matched,
		}},
	}
}

func (e *Evaluator) expectationScore(staff models.StaffProfile, current int, cohort CohortStats) ConstraintResult {
	expected := cohort.Average * float64(staff.FTEPercent) / 100
	score := 0.5
	if expected > 0 && float64(current) < expected {
		score += math.Min(0.5, (expected-float64(current))/expected*0.5)
	}
	return ConstraintResult{
		ID:        ConstraintExpectation,
		Satisfied: true,
		Score:     score,
		Detail: ResultDetail{Expectation: &ExpectationDetail{
			FTEPercent: staff.FTEPercent,
			Expected:   expected,
			Current:    current,
		}},
	}
}
