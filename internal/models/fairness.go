package models

import "time"

// FairnessScore is one staff member's row in the running fairness
// ledger. Debt must always equal Target - Current.
type FairnessScore struct {
	ID                  string    `db:"id" json:"id"`
	OrganizationID      string    `db:"organization_id" json:"organization_id"`
	StaffID             string    `db:"staff_id" json:"staff_id"`
	Year                int       `db:"year" json:"year"`
	Month               int       `db:"month" json:"month"`
	CurrentAssignments  int       `db:"current_assignments" json:"current_assignments"`
	TargetAssignments   float64   `db:"target_assignments" json:"target_assignments"`
	FairnessDebt        float64   `db:"fairness_debt" json:"fairness_debt"`
	Rank1Granted        int       `db:"rank1_granted" json:"rank1_granted"`
	Rank2Granted        int       `db:"rank2_granted" json:"rank2_granted"`
	Rank3Granted        int       `db:"rank3_granted" json:"rank3_granted"`
	DesirabilityBalance float64   `db:"desirability_balance" json:"desirability_balance"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}

// WorkloadStatistics summarises per-staff assignment counts for one run.
// Derived on the fly, never stored.
type WorkloadStatistics struct {
	Mean                   float64 `json:"mean"`
	Median                 float64 `json:"median"`
	StdDev                 float64 `json:"std_dev"`
	CoefficientOfVariation float64 `json:"coefficient_of_variation"`
	Min                    int     `json:"min"`
	Max                    int     `json:"max"`
}
