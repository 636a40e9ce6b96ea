package engine

import (
	"sort"
	"time"

	"github.com/radmosaic/rostergen-api/internal/models"
)

// Ledger is the running fairness ledger for one generation run. Targets
// are FTE-weighted shares of the period's instances layered on top of any
// prior cross-period counters.
type Ledger struct {
	entries map[string]*models.FairnessScore
}

// NewLedger seeds the ledger for a period. Prior rows carry cross-period
// counters forward; staff without a prior row start from zero.
func NewLedger(
	organizationID string,
	year, month int,
	staff []models.StaffProfile,
	totalInstances int,
	prior []models.FairnessScore,
) *Ledger {
	priorByStaff := make(map[string]models.FairnessScore, len(prior))
	for _, p := range prior {
		priorByStaff[p.StaffID] = p
	}

	var fteTotal float64
	for _, s := range staff {
		fteTotal += float64(s.FTEPercent)
	}

	entries := make(map[string]*models.FairnessScore, len(staff))
	for _, s := range staff {
		var target float64
		if fteTotal > 0 {
			target = float64(totalInstances) * float64(s.FTEPercent) / fteTotal
		}

		entry := &models.FairnessScore{
			OrganizationID:    organizationID,
			StaffID:           s.ID,
			Year:              year,
			Month:             month,
			TargetAssignments: target,
		}
		if p, ok := priorByStaff[s.ID]; ok {
			entry.Rank1Granted = p.Rank1Granted
			entry.Rank2Granted = p.Rank2Granted
			entry.Rank3Granted = p.Rank3Granted
			entry.DesirabilityBalance = p.DesirabilityBalance
		}
		entry.FairnessDebt = entry.TargetAssignments - float64(entry.CurrentAssignments)
		entries[s.ID] = entry
	}

	return &Ledger{entries: entries}
}

// RecordAssignment bumps the staff member's count and re-derives debt.
func (l *Ledger) RecordAssignment(staffID string, score float64) {
	entry, ok := l.entries[staffID]
	if !ok {
		return
	}
	entry.CurrentAssignments++
	entry.DesirabilityBalance += score
	entry.FairnessDebt = entry.TargetAssignments - float64(entry.CurrentAssignments)
}

// GrantVacation records an awarded preference by rank.
func (l *Ledger) GrantVacation(staffID string, rank int) {
	entry, ok := l.entries[staffID]
	if !ok {
		return
	}
	switch rank {
	case 1:
		entry.Rank1Granted++
	case 2:
		entry.Rank2Granted++
	case 3:
		entry.Rank3Granted++
	}
}

// Debt returns the staff member's current fairness debt. Positive means
// under-assigned relative to target.
func (l *Ledger) Debt(staffID string) float64 {
	if entry, ok := l.entries[staffID]; ok {
		return entry.FairnessDebt
	}
	return 0
}

// Count returns the staff member's current assignment count.
func (l *Ledger) Count(staffID string) int {
	if entry, ok := l.entries[staffID]; ok {
		return entry.CurrentAssignments
	}
	return 0
}

// Cohort derives the live distribution stats used by the soft scorer.
func (l *Ledger) Cohort() CohortStats {
	if len(l.entries) == 0 {
		return CohortStats{}
	}
	var sum int
	min, max := -1, 0
	for _, entry := range l.entries {
		sum += entry.CurrentAssignments
		if min < 0 || entry.CurrentAssignments < min {
			min = entry.CurrentAssignments
		}
		if entry.CurrentAssignments > max {
			max = entry.CurrentAssignments
		}
	}
	return CohortStats{
		Average: float64(sum) / float64(len(l.entries)),
		Min:     min,
		Max:     max,
	}
}

// Snapshot exports the ledger rows sorted by staff id, stamped with the
// given time.
func (l *Ledger) Snapshot(at time.Time) []models.FairnessScore {
	out := make([]models.FairnessScore, 0, len(l.entries))
	for _, entry := range l.entries {
		row := *entry
		row.UpdatedAt = at
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StaffID < out[j].StaffID })
	return out
}

// Counts returns the per-staff assignment counts, sorted by staff id, for
// workload statistics.
func (l *Ledger) Counts() []int {
	rows := l.Snapshot(time.Time{})
	counts := make([]int, len(rows))
	for i, row := range rows {
		counts[i] = row.CurrentAssignments
	}
	return counts
}
