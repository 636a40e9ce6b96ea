package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radmosaic/rostergen-api/internal/models"
)

type fakeSnapshot struct {
	assigned map[string]map[string]bool
	counts   map[string]int
	blocks   map[string][]models.DateRange
	workdays int
}

func newFakeSnapshot() *fakeSnapshot {
	return &fakeSnapshot{
		assigned: make(map[string]map[string]bool),
		counts:   make(map[string]int),
		blocks:   make(map[string][]models.DateRange),
		workdays: 22,
	}
}

func (s *fakeSnapshot) AssignedOn(staffID string, date time.Time) bool {
	return s.assigned[staffID][date.Format("2006-01-02")]
}

func (s *fakeSnapshot) AssignmentCount(staffID string) int {
	return s.counts[staffID]
}

func (s *fakeSnapshot) VacationBlocks(staffID string) []models.DateRange {
	return s.blocks[staffID]
}

func (s *fakeSnapshot) WorkdaysPerMonth() int {
	return s.workdays
}

func day(yyyy int, mm time.Month, dd int) time.Time {
	return time.Date(yyyy, mm, dd, 0, 0, 0, 0, time.UTC)
}

func TestCheckEligibility(t *testing.T) {
	date := day(2026, time.September, 10)
	instance := models.ShiftInstance{ID: "inst-1", ShiftTypeID: "st-1", Date: date}
	anyShift := models.ShiftTypeDefinition{ID: "st-1", Code: "XR", EligibilityMode: models.EligibilityAny}
	neuroShift := models.ShiftTypeDefinition{
		ID: "st-2", Code: "NEURO", EligibilityMode: models.EligibilitySubspecialty, RequiredSubspecialty: "NEURO",
	}
	allowShift := models.ShiftTypeDefinition{
		ID: "st-3", Code: "PEDS", EligibilityMode: models.EligibilityAllowlist,
		AllowedStaffEmails: []string{"ana@rad.example"},
	}

	base := models.StaffProfile{ID: "s-1", Email: "ana@rad.example", Subspecialty: "MSK", FTEPercent: 100}

	t.Run("eligible", func(t *testing.T) {
		assert.Nil(t, CheckEligibility(base, instance, anyShift, newFakeSnapshot()))
	})

	t.Run("already assigned that day", func(t *testing.T) {
		snap := newFakeSnapshot()
		snap.assigned["s-1"] = map[string]bool{"2026-09-10": true}
		v := CheckEligibility(base, instance, anyShift, snap)
		require.NotNil(t, v)
		assert.Equal(t, ConstraintSingleAssignment, v.Constraint)
	})

	t.Run("vacation block", func(t *testing.T) {
		snap := newFakeSnapshot()
		snap.blocks["s-1"] = []models.DateRange{{Start: day(2026, time.September, 7), End: day(2026, time.September, 13)}}
		v := CheckEligibility(base, instance, anyShift, snap)
		require.NotNil(t, v)
		assert.Equal(t, ConstraintVacationBlock, v.Constraint)
	})

	t.Run("vacation boundary day blocks", func(t *testing.T) {
		snap := newFakeSnapshot()
		snap.blocks["s-1"] = []models.DateRange{{Start: date, End: date}}
		v := CheckEligibility(base, instance, anyShift, snap)
		require.NotNil(t, v)
		assert.Equal(t, ConstraintVacationBlock, v.Constraint)
	})

	t.Run("subspecialty mismatch", func(t *testing.T) {
		v := CheckEligibility(base, instance, neuroShift, newFakeSnapshot())
		require.NotNil(t, v)
		assert.Equal(t, ConstraintSubspecialty, v.Constraint)
	})

	t.Run("cross-trained override passes subspecialty", func(t *testing.T) {
		cross := base
		cross.CrossTrained = []string{"NEURO"}
		assert.Nil(t, CheckEligibility(cross, instance, neuroShift, newFakeSnapshot()))
	})

	t.Run("allowlist admits named email", func(t *testing.T) {
		assert.Nil(t, CheckEligibility(base, instance, allowShift, newFakeSnapshot()))
	})

	t.Run("allowlist excludes others", func(t *testing.T) {
		other := base
		other.Email = "bo@rad.example"
		v := CheckEligibility(other, instance, allowShift, newFakeSnapshot())
		require.NotNil(t, v)
		assert.Equal(t, ConstraintAllowlist, v.Constraint)
	})

	t.Run("fte cap blocks part-time at limit", func(t *testing.T) {
		part := base
		part.FTEPercent = 50 // cap = 11 of 22 workdays
		snap := newFakeSnapshot()
		snap.counts["s-1"] = 11
		v := CheckEligibility(part, instance, anyShift, snap)
		require.NotNil(t, v)
		assert.Equal(t, ConstraintFTECap, v.Constraint)
	})

	t.Run("fte cap not yet reached", func(t *testing.T) {
		part := base
		part.FTEPercent = 50
		snap := newFakeSnapshot()
		snap.counts["s-1"] = 10
		assert.Nil(t, CheckEligibility(part, instance, anyShift, snap))
	})

	t.Run("full-time is uncapped", func(t *testing.T) {
		snap := newFakeSnapshot()
		snap.counts["s-1"] = 30
		assert.Nil(t, CheckEligibility(base, instance, anyShift, snap))
	})
}

func TestHardRuleOrder(t *testing.T) {
	// A candidate violating several rules reports the first one checked.
	date := day(2026, time.September, 10)
	instance := models.ShiftInstance{ID: "inst-1", ShiftTypeID: "st-2", Date: date}
	neuroShift := models.ShiftTypeDefinition{
		ID: "st-2", Code: "NEURO", EligibilityMode: models.EligibilitySubspecialty, RequiredSubspecialty: "NEURO",
	}
	staff := models.StaffProfile{ID: "s-1", Subspecialty: "MSK", FTEPercent: 100}

	snap := newFakeSnapshot()
	snap.assigned["s-1"] = map[string]bool{"2026-09-10": true}
	snap.blocks["s-1"] = []models.DateRange{{Start: date, End: date}}

	v := CheckEligibility(staff, instance, neuroShift, snap)
	require.NotNil(t, v)
	assert.Equal(t, ConstraintSingleAssignment, v.Constraint)
}
