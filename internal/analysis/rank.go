package analysis

import (
	"sort"

	"dd-planner/internal/montecarlo"
)

// Variation is one named parameter set in a comparison.
type Variation struct {
	Name   string
	Report *montecarlo.AggregateReport
}

type RankedVariation struct {
	Rank int
	Variation
	Summary Summary
}

// RankByPassRate sorts descending by pass rate; ties go to the faster resolution.
func RankByPassRate(vs []Variation) []RankedVariation {
	out := make([]RankedVariation, 0, len(vs))
	for _, v := range vs {
		if v.Report == nil {
			continue
		}
		out = append(out, RankedVariation{Variation: v, Summary: Summarize(v.Report)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Report, out[j].Report
		if a.PassRate != b.PassRate {
			return a.PassRate > b.PassRate
		}
		return a.MeanRoundsPlayed < b.MeanRoundsPlayed
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
