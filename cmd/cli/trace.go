package main

import (
	"fmt"

	"dd-planner/internal/montecarlo"

	"github.com/urfave/cli/v2"
)

func traceCommand() *cli.Command {
	return &cli.Command{
		Name:  "trace",
		Usage: "replay one trial of a seeded batch round by round",
		Flags: append(simulationFlags(),
			&cli.IntFlag{Name: "trial", Usage: "trial index within the batch"},
			&cli.IntFlag{Name: "rows", Value: 50, Usage: "rounds to print from the start, 0 for all"},
		),
		Action: func(c *cli.Context) error {
			_, sim, err := resolveSimulation(c)
			if err != nil {
				return err
			}
			if err := sim.Validate(); err != nil {
				return err
			}
			trial := c.Int("trial")
			if trial < 0 {
				return fmt.Errorf("trial must be >= 0")
			}
			seed := sim.Seed
			if seed == 0 {
				seed = montecarlo.NewSeed()
			}

			p := sim.ToModelParams()
			res, steps := montecarlo.TraceTrial(p, montecarlo.TrialStream(seed, trial))

			w := c.App.Writer
			fmt.Fprintf(w, "seed=%d trial=%d target=%.2f initial floor=%.2f\n\n", seed, trial, p.TargetBalance, p.InitialFloor())
			rows := c.Int("rows")
			for i, st := range steps {
				if rows > 0 && i >= rows {
					fmt.Fprintf(w, "... %d more rounds\n", len(steps)-rows)
					break
				}
				result := "loss"
				if st.Won {
					result = "win"
				}
				fmt.Fprintf(w, "round %5d  %-4s  balance=%10.2f  peak=%10.2f  floor=%10.2f\n",
					st.State.RoundsPlayed, result, st.State.Balance, st.State.PeakBalance, st.State.DrawdownFloor)
			}
			fmt.Fprintf(w, "\n%s after %d rounds, final balance %.2f\n", res.Outcome, res.RoundsPlayed, res.FinalBalance)
			return nil
		},
	}
}
