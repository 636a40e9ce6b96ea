package engine

import (
	"math"
	"sort"

	"github.com/radmosaic/rostergen-api/internal/models"
)

// ComputeWorkloadStatistics derives distribution stats over per-staff
// assignment counts. A quality signal only, never a blocking constraint.
func ComputeWorkloadStatistics(counts []int) models.WorkloadStatistics {
	if len(counts) == 0 {
		return models.WorkloadStatistics{}
	}

	sorted := make([]int, len(counts))
	copy(sorted, counts)
	sort.Ints(sorted)

	var sum float64
	for _, c := range sorted {
		sum += float64(c)
	}
	mean := sum / float64(len(sorted))

	var variance float64
	for _, c := range sorted {
		d := float64(c) - mean
		variance += d * d
	}
	variance /= float64(len(sorted))
	stdDev := math.Sqrt(variance)

	var median float64
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		median = float64(sorted[mid-1]+sorted[mid]) / 2
	} else {
		median = float64(sorted[mid])
	}

	var cv float64
	if mean > 0 {
		cv = stdDev / mean
	}

	return models.WorkloadStatistics{
		Mean:                   mean,
		Median:                 median,
		StdDev:                 stdDev,
		CoefficientOfVariation: cv,
		Min:                    sorted[0],
		Max:                    sorted[len(sorted)-1],
	}
}
