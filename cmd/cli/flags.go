package main

import (
	"fmt"

	"dd-planner/internal/config"

	"github.com/urfave/cli/v2"
)

// simulationFlags are shared by every command that runs a batch.
func simulationFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config file"},
		&cli.StringFlag{Name: "preset", Usage: "preset id to start from (file name without .yaml)"},
		&cli.StringFlag{Name: "preset-dir", Value: "./presets", Usage: "directory holding presets", EnvVars: []string{"PRESET_DIR"}},
		&cli.Float64Flag{Name: "bet", Usage: "stake per trade"},
		&cli.Float64Flag{Name: "win-rate", Usage: "win probability, 0-1 or a percent"},
		&cli.Float64Flag{Name: "payoff", Usage: "payoff multiplier on a win"},
		&cli.Float64Flag{Name: "start", Usage: "starting balance"},
		&cli.Float64Flag{Name: "target", Usage: "target balance"},
		&cli.Float64Flag{Name: "drawdown", Usage: "trailing drawdown allowance"},
		&cli.IntFlag{Name: "max-rounds", Usage: "round cap per trial"},
		&cli.IntFlag{Name: "trials", Aliases: []string{"n"}, Usage: "number of trials"},
		&cli.Uint64Flag{Name: "seed", Usage: "random seed, 0 picks one"},
		&cli.IntFlag{Name: "workers", Usage: "parallel workers, 0 uses every CPU"},
	}
}

// flagOverrides collects the simulation flags that were set on the command line.
func flagOverrides(c *cli.Context) config.SimulationOverrides {
	var o config.SimulationOverrides
	setFloat := func(name string, dst **float64) {
		if c.IsSet(name) {
			v := c.Float64(name)
			*dst = &v
		}
	}
	setInt := func(name string, dst **int) {
		if c.IsSet(name) {
			v := c.Int(name)
			*dst = &v
		}
	}
	setFloat("bet", &o.BetAmount)
	setFloat("win-rate", &o.WinRate)
	setFloat("payoff", &o.PayoffMultiplier)
	setFloat("start", &o.StartingBalance)
	setFloat("target", &o.TargetBalance)
	setFloat("drawdown", &o.DrawdownAllowance)
	setInt("max-rounds", &o.MaxRounds)
	setInt("trials", &o.Trials)
	setInt("workers", &o.Workers)
	if c.IsSet("seed") {
		v := c.Uint64("seed")
		o.Seed = &v
	}
	return o
}

// baseSimulation resolves the config file and preset, without flag overrides.
// Later layers win: defaults, then the preset (--preset, or preset_file in the
// config), then keys set in the config file.
func baseSimulation(c *cli.Context) (string, config.SimulationConfig, error) {
	presetPath := ""
	if id := c.String("preset"); id != "" {
		p, err := config.PresetPath(c.String("preset-dir"), id)
		if err != nil {
			return "", config.SimulationConfig{}, err
		}
		presetPath = p
	}

	if path := c.String("config"); path != "" {
		cfg, err := config.LoadWithPreset(path, presetPath)
		if err != nil {
			return "", config.SimulationConfig{}, fmt.Errorf("load config: %w", err)
		}
		return cfg.Name, cfg.Simulation, nil
	}
	if presetPath != "" {
		p, err := config.LoadPreset(presetPath)
		if err != nil {
			return "", config.SimulationConfig{}, fmt.Errorf("load preset: %w", err)
		}
		return p.Name, p.Simulation, nil
	}
	return "", config.DefaultSimulation(), nil
}

// resolveSimulation layers the command-line flags over baseSimulation. The
// result is not validated.
func resolveSimulation(c *cli.Context) (string, config.SimulationConfig, error) {
	name, base, err := baseSimulation(c)
	if err != nil {
		return "", config.SimulationConfig{}, err
	}
	return name, base.Apply(flagOverrides(c)), nil
}
