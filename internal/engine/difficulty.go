package engine

import (
	"sort"
	"time"

	"github.com/radmosaic/rostergen-api/internal/models"
)

// RankedInstance pairs a shift instance with its difficulty score.
type RankedInstance struct {
	Instance   models.ShiftInstance
	Difficulty float64
}

// RankByDifficulty orders instances hardest-first so scarce shifts are
// assigned before the candidate pool thins out. Deterministic for a fixed
// context: ties break on instance id.
func RankByDifficulty(
	instances []models.ShiftInstance,
	shiftTypes map[string]models.ShiftTypeDefinition,
	staff []models.StaffProfile,
	snap Snapshot,
) []RankedInstance {
	subspecialtySize := make(map[string]int)
	for _, s := range staff {
		if s.Subspecialty != "" {
			subspecialtySize[s.Subspecialty]++
		}
	}

	ranked := make([]RankedInstance, 0, len(instances))
	for _, inst := range instances {
		shiftType, ok := shiftTypes[inst.ShiftTypeID]
		if !ok {
			continue
		}

		eligible := 0
		for _, s := range staff {
			if IsEligible(s, inst, shiftType, snap) {
				eligible++
			}
		}

		score := 10.0 / float64(maxInt(1, eligible))
		if wd := inst.Date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			score += 2
		}
		if shiftType.EligibilityMode == models.EligibilityAllowlist {
			score += 3
		}
		if shiftType.RequiredSubspecialty != "" {
			if size := subspecialtySize[shiftType.RequiredSubspecialty]; size > 0 {
				score += 5.0 / float64(size)
			}
		}

		ranked = append(ranked, RankedInstance{Instance: inst, Difficulty: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Difficulty == ranked[j].Difficulty {
			return ranked[i].Instance.ID < ranked[j].Instance.ID
		}
		return ranked[i].Difficulty > ranked[j].Difficulty
	})
	return ranked
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
