package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"path/filepath"

	"dd-planner/internal/analysis"
	"dd-planner/internal/config"
	"dd-planner/internal/montecarlo"
	"dd-planner/internal/render"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func simulateCommand() *cli.Command {
	return &cli.Command{
		Name:  "simulate",
		Usage: "run a batch and print the pass rate",
		Flags: append(simulationFlags(),
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "write the per-trial series to this CSV file"},
			&cli.BoolFlag{Name: "json", Usage: "print the summary as JSON"},
		),
		Action: func(c *cli.Context) error {
			report, err := simulate(c)
			if err != nil {
				return err
			}
			if out := c.String("out"); out != "" {
				if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
					return err
				}
				if err := montecarlo.WriteSeriesCSVFile(out, report.Series); err != nil {
					return err
				}
				logger(c).WithFields(log.Fields{"rows": len(report.Series), "path": out}).Info("wrote series")
			}
			summary := analysis.Summarize(report)
			if c.Bool("json") {
				enc := json.NewEncoder(c.App.Writer)
				enc.SetIndent("", "  ")
				return enc.Encode(newJSONReport(report, summary))
			}
			return render.WriteSummary(c.App.Writer, report, summary)
		},
	}
}

func chartCommand() *cli.Command {
	return &cli.Command{
		Name:  "chart",
		Usage: "run a batch and plot final balances in the terminal (q to quit)",
		Flags: simulationFlags(),
		Action: func(c *cli.Context) error {
			report, err := simulate(c)
			if err != nil {
				return err
			}
			return render.ShowChart(report)
		},
	}
}

// simulate resolves parameters from config, preset and flags, then runs one batch.
func simulate(c *cli.Context) (*montecarlo.AggregateReport, error) {
	_, sim, err := resolveSimulation(c)
	if err != nil {
		return nil, err
	}
	if err := sim.Validate(); err != nil {
		return nil, err
	}
	return runBatch(c, sim)
}

func runBatch(c *cli.Context, sim config.SimulationConfig) (*montecarlo.AggregateReport, error) {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	engine := montecarlo.New(montecarlo.WithLogger(logger(c)))
	return engine.RunBatch(ctx, sim.ToModelParams(), sim.Trials, montecarlo.BatchOptions{
		Workers: sim.Workers,
		Seed:    sim.Seed,
	})
}

type jsonReport struct {
	Params            jsonParams         `json:"params"`
	TrialCount        int                `json:"trial_count"`
	Seed              uint64             `json:"seed"`
	PassRate          float64            `json:"pass_rate"`
	FailRate          float64            `json:"fail_rate"`
	InconclusiveRate  float64            `json:"inconclusive_rate"`
	MeanRoundsPlayed  float64            `json:"mean_rounds_played"`
	MeanFinalBalance  float64            `json:"mean_final_balance"`
	PassRateLow95     float64            `json:"pass_rate_low_95"`
	PassRateHigh95    float64            `json:"pass_rate_high_95"`
	RoundsPercentiles map[string]float64 `json:"rounds_percentiles"`
	Expectancy        float64            `json:"expectancy_per_round"`
}

type jsonParams struct {
	BetAmount         float64 `json:"bet_amount"`
	WinProbability    float64 `json:"win_probability"`
	PayoffMultiplier  float64 `json:"payoff_multiplier"`
	StartingBalance   float64 `json:"starting_balance"`
	TargetBalance     float64 `json:"target_balance"`
	DrawdownAllowance float64 `json:"drawdown_allowance"`
	MaxRounds         int     `json:"max_rounds"`
}

func newJSONReport(r *montecarlo.AggregateReport, s analysis.Summary) jsonReport {
	p := r.Params
	return jsonReport{
		Params: jsonParams{
			BetAmount:         p.BetAmount,
			WinProbability:    p.WinProbability,
			PayoffMultiplier:  p.PayoffMultiplier,
			StartingBalance:   p.StartingBalance,
			TargetBalance:     p.TargetBalance,
			DrawdownAllowance: p.DrawdownAllowance,
			MaxRounds:         p.MaxRounds,
		},
		TrialCount:       r.TrialCount,
		Seed:             r.Seed,
		PassRate:         r.PassRate,
		FailRate:         r.FailRate,
		InconclusiveRate: r.InconclusiveRate,
		MeanRoundsPlayed: r.MeanRoundsPlayed,
		MeanFinalBalance: r.MeanFinalBalance,
		PassRateLow95:    s.PassRateLow95,
		PassRateHigh95:   s.PassRateHigh95,
		RoundsPercentiles: map[string]float64{
			"p05": s.RoundsP05,
			"p50": s.RoundsP50,
			"p95": s.RoundsP95,
		},
		Expectancy: s.ExpectancyPerRound,
	}
}
