package engine

import (
	"sort"

	"github.com/radmosaic/rostergen-api/internal/models"
)

// VacationOutcome is the resolver's result: blocked ranges per staff, the
// awarded preference per staff, and any status rewrites the run must
// persist together with its assignments.
type VacationOutcome struct {
	Blocks         map[string][]models.DateRange
	AwardedByStaff map[string]string
	StatusUpdates  []models.VacationPreference
}

// ResolveVacations converts preferences into assignment-blocking ranges.
//
// When the upstream awarding flow already ran (APPROVED rows exist), the
// approved weeks are blocked as-is and nothing is rewritten. Otherwise an
// award pass is simulated over the PENDING rows: requests are processed
// rank 1 first, within a rank by descending fairness debt, and each week
// admits at most floor(rosterSize * weeklyQuota) people (minimum one).
// One request per staff wins and is APPROVED; the rest become REJECTED.
//
// The debt function must return a snapshot taken once for the whole run;
// awarding must not feed back into the ordering it is driven by.
func ResolveVacations(
	prefs []models.VacationPreference,
	rosterSize int,
	weeklyQuota float64,
	debt func(staffID string) float64,
) VacationOutcome {
	outcome := VacationOutcome{
		Blocks:         make(map[string][]models.DateRange),
		AwardedByStaff: make(map[string]string),
	}

	approved := false
	for _, p := range prefs {
		if p.Status == models.VacationApproved {
			approved = true
			break
		}
	}
	if approved {
		for _, p := range prefs {
			if p.Status != models.VacationApproved {
				continue
			}
			outcome.Blocks[p.StaffID] = append(outcome.Blocks[p.StaffID], models.DateRange{Start: p.WeekStart, End: p.WeekEnd})
			outcome.AwardedByStaff[p.StaffID] = p.ID
		}
		return outcome
	}

	capacity := int(float64(rosterSize) * weeklyQuota)
	if capacity < 1 {
		capacity = 1
	}

	pending := make([]models.VacationPreference, 0, len(prefs))
	for _, p := range prefs {
		if p.Status == models.VacationPending {
			pending = append(pending, p)
		}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		if pending[i].Rank != pending[j].Rank {
			return pending[i].Rank < pending[j].Rank
		}
		di, dj := debt(pending[i].StaffID), debt(pending[j].StaffID)
		if di != dj {
			return di > dj
		}
		return pending[i].StaffID < pending[j].StaffID
	})

	weekLoad := make(map[string]int)
	for _, p := range pending {
		update := p
		if _, already := outcome.AwardedByStaff[p.StaffID]; already {
			update.Status = models.VacationRejected
			outcome.StatusUpdates = append(outcome.StatusUpdates, update)
			continue
		}

		week := p.WeekStart.Format("2006-01-02")
		if weekLoad[week] >= capacity {
			update.Status = models.VacationRejected
			outcome.StatusUpdates = append(outcome.StatusUpdates, update)
			continue
		}

		weekLoad[week]++
		update.Status = models.VacationApproved
		outcome.StatusUpdates = append(outcome.StatusUpdates, update)
		outcome.AwardedByStaff[p.StaffID] = p.ID
		outcome.Blocks[p.StaffID] = append(outcome.Blocks[p.StaffID], models.DateRange{Start: p.WeekStart, End: p.WeekEnd})
	}

	return outcome
}
