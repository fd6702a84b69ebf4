package main

import (
	"fmt"
	"strconv"
	"strings"

	"dd-planner/internal/analysis"
	"dd-planner/internal/config"
	"dd-planner/internal/render"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func compareCommand() *cli.Command {
	return &cli.Command{
		Name:      "compare",
		Usage:     "run one batch per variation and rank them by pass rate",
		ArgsUsage: "--vary name=key:value[,key:value] ...",
		Flags: append(simulationFlags(),
			&cli.StringSliceFlag{
				Name:     "vary",
				Usage:    "variation, e.g. small=bet:150 or safer=bet:100,payoff:3 (repeatable)",
				Required: true,
			},
		),
		Action: func(c *cli.Context) error {
			variations, err := parseVariations(c.StringSlice("vary"))
			if err != nil {
				return err
			}
			_, base, err := baseSimulation(c)
			if err != nil {
				return err
			}
			shared := flagOverrides(c)

			var runs []analysis.Variation
			for _, v := range variations {
				sim := base.Apply(shared.Merge(v.overrides))
				if err := sim.Validate(); err != nil {
					// Report and keep going; one bad variation does not sink the rest.
					fmt.Fprintf(c.App.ErrWriter, "skipping %s: %v\n", v.name, err)
					continue
				}
				report, err := runBatch(c, sim)
				if err != nil {
					return fmt.Errorf("variation %s: %w", v.name, err)
				}
				logger(c).WithFields(log.Fields{"variation": v.name, "pass_rate": report.PassRate}).Debug("variation finished")
				runs = append(runs, analysis.Variation{Name: v.name, Report: report})
			}
			if len(runs) == 0 {
				return fmt.Errorf("no valid variations")
			}
			return render.WriteComparison(c.App.Writer, analysis.RankByPassRate(runs))
		},
	}
}

type variation struct {
	name      string
	overrides config.SimulationOverrides
}

// parseVariations accepts the --vary values. The slice flag splits on commas, so a
// piece without "=" continues the previous variation.
func parseVariations(specs []string) ([]variation, error) {
	var joined []string
	for _, s := range specs {
		if !strings.Contains(s, "=") && len(joined) > 0 {
			joined[len(joined)-1] += "," + s
			continue
		}
		joined = append(joined, s)
	}

	out := make([]variation, 0, len(joined))
	seen := map[string]bool{}
	for _, s := range joined {
		v, err := parseVariation(s)
		if err != nil {
			return nil, err
		}
		if seen[v.name] {
			return nil, fmt.Errorf("duplicate variation %q", v.name)
		}
		seen[v.name] = true
		out = append(out, v)
	}
	return out, nil
}

// parseVariation reads "name=key:value,key:value". Keys are the simulation flag
// names (bet, win-rate, ...) or their config spellings (bet_amount, win_rate, ...).
func parseVariation(s string) (variation, error) {
	name, body, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" || strings.TrimSpace(body) == "" {
		return variation{}, fmt.Errorf("invalid variation %q: want name=key:value[,key:value]", s)
	}

	v := variation{name: name}
	for _, pair := range strings.Split(body, ",") {
		key, raw, ok := strings.Cut(pair, ":")
		if !ok {
			return variation{}, fmt.Errorf("variation %s: %q is not key:value", name, pair)
		}
		if err := setOverride(&v.overrides, strings.TrimSpace(key), strings.TrimSpace(raw)); err != nil {
			return variation{}, fmt.Errorf("variation %s: %w", name, err)
		}
	}
	return v, nil
}

func setOverride(o *config.SimulationOverrides, key, raw string) error {
	float := func(dst **float64) error {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = &f
		return nil
	}
	integer := func(dst **int) error {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = &n
		return nil
	}

	switch strings.ReplaceAll(key, "-", "_") {
	case "bet", "bet_amount":
		return float(&o.BetAmount)
	case "win_rate", "win_probability":
		return float(&o.WinRate)
	case "payoff", "payoff_multiplier":
		return float(&o.PayoffMultiplier)
	case "start", "starting_balance":
		return float(&o.StartingBalance)
	case "target", "target_balance":
		return float(&o.TargetBalance)
	case "drawdown", "drawdown_allowance":
		return float(&o.DrawdownAllowance)
	case "max_rounds":
		return integer(&o.MaxRounds)
	case "trials":
		return integer(&o.Trials)
	case "workers":
		return integer(&o.Workers)
	case "seed":
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		o.Seed = &n
		return nil
	default:
		return fmt.Errorf("unknown key %q", key)
	}
}
