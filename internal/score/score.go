// Package score aggregates per-competitor point totals. It is a plain
// sum: no weighting, no normalization, no tie-breaking. Winner and tie
// determination is a comparison of totals done by the challenge
// manager, not here. Stored values are trusted as-is; clamping to
// [0,3] happens at the write boundary.
package score

import "github.com/mlynch/tidyduel/internal/model"

// Totals sums each competitor's points across the given instances,
// normally all instances of the current challenge. Absent point entries
// count as 0.
func Totals(instances []model.TaskInstance, competitorIDs []string) map[string]int {
	totals := make(map[string]int, len(competitorIDs))
	for _, id := range competitorIDs {
		totals[id] = 0
	}
	for _, inst := range instances {
		for _, id := range competitorIDs {
			totals[id] += inst.Points.Get(id)
		}
	}
	return totals
}
