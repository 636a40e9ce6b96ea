package engine

import (
	"fmt"
	"time"

	"github.com/radmosaic/rostergen-api/internal/models"
)

// Snapshot is the read view of per-run state the hard rules consult.
// During a run the generator's live state backs it, so assignments made
// earlier in the same run affect later eligibility checks.
type Snapshot interface {
	// AssignedOn reports whether the staff member already holds an
	// assignment on the given calendar day.
	AssignedOn(staffID string, date time.Time) bool
	// AssignmentCount returns the staff member's assignment count for the
	// target period, including assignments made earlier in this run.
	AssignmentCount(staffID string) int
	// VacationBlocks returns the resolved vacation ranges for the staff
	// member, inclusive of both endpoints.
	VacationBlocks(staffID string) []models.DateRange
	// WorkdaysPerMonth is the base used for the FTE monthly cap.
	WorkdaysPerMonth() int
}

// CheckEligibility applies the hard rules in order and returns the first
// violated one, or nil when the staff member may work the instance. Pure:
// it reads the snapshot and mutates nothing.
func CheckEligibility(
	staff models.StaffProfile,
	instance models.ShiftInstance,
	shiftType models.ShiftTypeDefinition,
	snap Snapshot,
) *ConstraintViolation {
	if snap.AssignedOn(staff.ID, instance.Date) {
		return &ConstraintViolation{
			Constraint:      ConstraintSingleAssignment,
			StaffID:         staff.ID,
			ShiftInstanceID: instance.ID,
			Reason:          fmt.Sprintf("already assigned on %s", instance.Date.Format("2006-01-02")),
		}
	}

	for _, block := range snap.VacationBlocks(staff.ID) {
		if block.Contains(instance.Date) {
			return &ConstraintViolation{
				Constraint:      ConstraintVacationBlock,
				StaffID:         staff.ID,
				ShiftInstanceID: instance.ID,
				Reason:          fmt.Sprintf("on vacation %s to %s", block.Start.Format("2006-01-02"), block.End.Format("2006-01-02")),
			}
		}
	}

	if shiftType.EligibilityMode == models.EligibilitySubspecialty &&
		staff.Subspecialty != shiftType.RequiredSubspecialty &&
		!staff.CoversShiftCode(shiftType.Code) {
		return &ConstraintViolation{
			Constraint:      ConstraintSubspecialty,
			StaffID:         staff.ID,
			ShiftInstanceID: instance.ID,
			Reason:          fmt.Sprintf("requires %s, staff is %s", shiftType.RequiredSubspecialty, staff.Subspecialty),
		}
	}

	if shiftType.EligibilityMode == models.EligibilityAllowlist && !shiftType.AllowsEmail(staff.Email) {
		return &ConstraintViolation{
			Constraint:      ConstraintAllowlist,
			StaffID:         staff.ID,
			ShiftInstanceID: instance.ID,
			Reason:          "not on the named allowlist",
		}
	}

	if staff.FTEPercent < 100 {
		cap := staff.MonthlyAssignmentCap(snap.WorkdaysPerMonth())
		if snap.AssignmentCount(staff.ID) >= cap {
			return &ConstraintViolation{
				Constraint:      ConstraintFTECap,
				StaffID:         staff.ID,
				ShiftInstanceID: instance.ID,
				Reason:          fmt.Sprintf("monthly cap of %d reached at FTE %d%%", cap, staff.FTEPercent),
			}
		}
	}

	return nil
}

// IsEligible is the boolean convenience form of CheckEligibility.
func IsEligible(
	staff models.StaffProfile,
	instance models.ShiftInstance,
	shiftType models.ShiftTypeDefinition,
	snap Snapshot,
) bool {
	return CheckEligibility(staff, instance, shiftType, snap) == nil
}
