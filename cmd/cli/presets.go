package main

import (
	"fmt"
	"text/tabwriter"

	"dd-planner/internal/config"

	"github.com/urfave/cli/v2"
)

func presetsCommand() *cli.Command {
	return &cli.Command{
		Name:  "presets",
		Usage: "list the account presets in a directory",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Value: "./presets", Usage: "preset directory", EnvVars: []string{"PRESET_DIR"}},
		},
		Action: func(c *cli.Context) error {
			presets, skipped, err := config.ListPresets(c.String("dir"))
			if err != nil {
				return err
			}
			for file, err := range skipped {
				fmt.Fprintf(c.App.ErrWriter, "skipping %s: %v\n", file, err)
			}

			tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tBET\tWIN\tPAYOFF\tSTART\tTARGET\tDRAWDOWN")
			for _, p := range presets {
				s := p.Simulation
				fmt.Fprintf(tw, "%s\t%s\t%.2f\t%.2f\t%.2f\t%.0f\t%.0f\t%.0f\n",
					p.ID, p.Name, s.BetAmount, s.WinRate, s.PayoffMultiplier,
					s.StartingBalance, s.TargetBalance, s.DrawdownAllowance)
			}
			return tw.Flush()
		},
	}
}
