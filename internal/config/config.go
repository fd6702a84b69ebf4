package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"dd-planner/internal/model"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load simulation parameters from a preset YAML (e.g. presets/50k_eval.yaml).
	// Keys set in this file's simulation block override the preset.
	PresetFile string           `yaml:"preset_file"`
	Name       string           `yaml:"name"`
	Simulation SimulationConfig `yaml:"simulation"`
	Server     ServerConfig     `yaml:"server"`
}

type SimulationConfig struct {
	BetAmount         float64 `yaml:"bet_amount" json:"bet_amount"`
	WinRate           float64 `yaml:"win_rate" json:"win_rate"`
	PayoffMultiplier  float64 `yaml:"payoff_multiplier" json:"payoff_multiplier"`
	StartingBalance   float64 `yaml:"starting_balance" json:"starting_balance"`
	TargetBalance     float64 `yaml:"target_balance" json:"target_balance"`
	DrawdownAllowance float64 `yaml:"drawdown_allowance" json:"drawdown_allowance"`
	MaxRounds         int     `yaml:"max_rounds" json:"max_rounds"`

	Trials  int    `yaml:"trials" json:"trials"`
	Workers int    `yaml:"workers" json:"workers,omitempty"`
	Seed    uint64 `yaml:"seed" json:"seed,omitempty"`
}

// DefaultSimulation mirrors the planning tool's initial control values.
func DefaultSimulation() SimulationConfig {
	return SimulationConfig{
		BetAmount:         239,
		WinRate:           0.50,
		PayoffMultiplier:  2.0,
		StartingBalance:   50000,
		TargetBalance:     53000,
		DrawdownAllowance: 2000,
		MaxRounds:         1000,
		Trials:            10000,
	}
}

// Default returns a fully populated config.
func Default() *Config {
	return &Config{
		Simulation: DefaultSimulation(),
		Server:     DefaultServer(),
	}
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads defaults, the preset (if any) and the file, but does not validate.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	return LoadWithPreset(path, "")
}

// LoadWithPreset is LoadUnchecked with presetPath standing in for the file's
// preset_file. Keys set in the file still override the preset. An empty
// presetPath keeps preset_file.
func LoadWithPreset(path, presetPath string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// First pass only discovers preset_file.
	var head struct {
		PresetFile string `yaml:"preset_file"`
	}
	if err := yaml.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	c := Default()
	if presetPath == "" && head.PresetFile != "" {
		presetPath = head.PresetFile
		if !filepath.IsAbs(presetPath) {
			// Prefer interpreting relative paths as relative to the config file directory,
			// but fall back to the provided path (relative to cwd) if that doesn't exist.
			cand := filepath.Join(filepath.Dir(path), presetPath)
			if _, err := os.Stat(cand); err == nil {
				presetPath = cand
			}
		}
	}
	if presetPath != "" {
		preset, err := LoadPreset(presetPath)
		if err != nil {
			return nil, err
		}
		c.Name = preset.Name
		c.Simulation = preset.Simulation
	}

	// yaml.v3 leaves keys absent from the document untouched, so explicit zeros
	// (e.g. win_rate: 0) still override the preset.
	if err := yaml.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	c.Simulation.WinRate = NormalizeWinRate(c.Simulation.WinRate)
	return c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := c.Simulation.Validate(); err != nil {
		return fmt.Errorf("simulation config invalid: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config invalid: %w", err)
	}
	return nil
}

func (s SimulationConfig) Validate() error {
	if err := s.ToModelParams().Validate(); err != nil {
		return err
	}
	return model.ValidateTrialCount(s.Trials)
}

func (s SimulationConfig) ToModelParams() model.TrialParameters {
	return model.TrialParameters{
		BetAmount:         s.BetAmount,
		WinProbability:    s.WinRate,
		PayoffMultiplier:  s.PayoffMultiplier,
		StartingBalance:   s.StartingBalance,
		TargetBalance:     s.TargetBalance,
		DrawdownAllowance: s.DrawdownAllowance,
		MaxRounds:         s.MaxRounds,
	}
}

// NormalizeWinRate accepts a percentage in (1, 100] and converts it to a fraction.
// Anything else is returned as-is for validation to judge.
func NormalizeWinRate(v float64) float64 {
	if v > 1 && v <= 100 {
		return v / 100
	}
	return v
}
