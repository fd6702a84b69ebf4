// Package render formats batch reports for terminals.
package render

import (
	"fmt"
	"io"

	"dd-planner/internal/analysis"
	"dd-planner/internal/model"
	"dd-planner/internal/montecarlo"
)

// WriteSummary prints the headline results followed by the supporting statistics.
func WriteSummary(w io.Writer, r *montecarlo.AggregateReport, s analysis.Summary) error {
	p := r.Params
	lines := []string{
		"Simulation Results",
		fmt.Sprintf("Chance of Passing Eval/Hitting Profit Objective:  %.1f%%", r.PassRate*100),
		fmt.Sprintf("Number of Trades Until Pass/Fail:  %.2f", r.MeanRoundsPlayed),
		"",
		fmt.Sprintf("%-14s %8s %8s %12s", "outcome", "count", "rate", "mean rounds"),
	}
	for _, o := range model.Outcomes {
		lines = append(lines, fmt.Sprintf("%-14s %8d %7.1f%% %12.2f", o, r.Count(o), r.Rate(o)*100, r.MeanRoundsByOutcome[o]))
	}
	lines = append(lines,
		"",
		fmt.Sprintf("trials=%d seed=%d max_rounds=%d", r.TrialCount, r.Seed, p.MaxRounds),
		fmt.Sprintf("pass rate 95%% interval: %.1f%% .. %.1f%%", s.PassRateLow95*100, s.PassRateHigh95*100),
		fmt.Sprintf("rounds p05/p50/p95: %.0f / %.0f / %.0f", s.RoundsP05, s.RoundsP50, s.RoundsP95),
		fmt.Sprintf("final balance min/mean/max: %.2f / %.2f / %.2f", s.MinFinalBalance, s.MeanFinalBalance, s.MaxFinalBalance),
		fmt.Sprintf("expectancy per trade: %.2f", s.ExpectancyPerRound),
		fmt.Sprintf("target balance: %.2f  initial drawdown floor: %.2f", r.TargetBalance, r.InitialFloor),
	)
	if s.RandomWalk {
		lines = append(lines, fmt.Sprintf("random walk estimate: %.1f%% (static floor %.1f%%)", s.TrailingBarrierEstimate*100, s.StaticBarrierEstimate*100))
	}

	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

// WriteComparison prints ranked variations one per line.
func WriteComparison(w io.Writer, ranked []analysis.RankedVariation) error {
	if _, err := fmt.Fprintf(w, "%-4s %-20s %-8s %-8s %-8s %-10s\n", "rank", "name", "pass", "fail", "inconcl", "rounds"); err != nil {
		return err
	}
	for _, rv := range ranked {
		r := rv.Report
		if _, err := fmt.Fprintf(w, "%-4d %-20s %-7.1f%% %-7.1f%% %-7.1f%% %-10.2f\n",
			rv.Rank, rv.Name, r.PassRate*100, r.FailRate*100, r.InconclusiveRate*100, r.MeanRoundsPlayed); err != nil {
			return err
		}
	}
	return nil
}
