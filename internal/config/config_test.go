package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"dd-planner/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_DefaultsFillMissingKeys(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
simulation:
  bet_amount: 100
  trials: 500
`)
	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 100.0, c.Simulation.BetAmount)
	assert.Equal(t, 500, c.Simulation.Trials)
	assert.Equal(t, 0.5, c.Simulation.WinRate)
	assert.Equal(t, 50000.0, c.Simulation.StartingBalance)
	assert.Equal(t, 1000, c.Simulation.MaxRounds)
	assert.Equal(t, "8080", c.Server.Port)
}

func TestLoad_PresetWithOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "presets/eval_100k.yaml", `
name: 100K Evaluation
simulation:
  starting_balance: 100000
  target_balance: 106000
  drawdown_allowance: 3000
  win_rate: 55
`)
	path := writeFile(t, dir, "config.yaml", `
preset_file: presets/eval_100k.yaml
simulation:
  bet_amount: 500
  win_rate: 0
`)
	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "100K Evaluation", c.Name)
	assert.Equal(t, 100000.0, c.Simulation.StartingBalance)
	assert.Equal(t, 106000.0, c.Simulation.TargetBalance)
	assert.Equal(t, 3000.0, c.Simulation.DrawdownAllowance)
	assert.Equal(t, 500.0, c.Simulation.BetAmount)
	assert.Equal(t, 0.0, c.Simulation.WinRate, "explicit zero overrides the preset")
}

func TestLoad_InvalidSimulation(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
simulation:
  drawdown_allowance: -1
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidParameter)

	c, err := LoadUnchecked(path)
	require.NoError(t, err)
	assert.Equal(t, -1.0, c.Simulation.DrawdownAllowance)
}

func TestLoad_InvalidServerDuration(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
server:
  cache_ttl: soon
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache_ttl")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestServerConfig_Durations(t *testing.T) {
	s := DefaultServer()
	s.CacheTTL = "1d12h"
	ttl, err := s.CacheTTLDuration()
	require.NoError(t, err)
	assert.Equal(t, 36*time.Hour, ttl)

	d, err := s.ShutdownTimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, d)
}

func TestServerConfig_ValidateLimits(t *testing.T) {
	s := DefaultServer()
	assert.Equal(t, 100, s.MaxCachedReports)
	require.NoError(t, s.Validate())

	s.MaxCachedReports = -1
	assert.Error(t, s.Validate())

	s = DefaultServer()
	s.MaxTrials = -1
	assert.Error(t, s.Validate())
}

func TestServerConfig_ZeroShutdownTimeoutUsesDefault(t *testing.T) {
	for _, v := range []string{"", "0s", "0"} {
		s := DefaultServer()
		s.ShutdownTimeout = v
		d, err := s.ShutdownTimeoutDuration()
		require.NoError(t, err, v)
		assert.Equal(t, 15*time.Second, d, v)
	}

	s := DefaultServer()
	s.ShutdownTimeout = "2m"
	d, err := s.ShutdownTimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, d)
}

func TestServerConfig_ApplyEnv(t *testing.T) {
	t.Setenv("API_PORT", "9090")
	t.Setenv("API_ENV", "production")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	s := DefaultServer()
	s.ApplyEnv()
	assert.Equal(t, "9090", s.Port)
	assert.True(t, s.Production())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, s.AllowedOrigins)
	assert.Equal(t, "info", s.LogLevel)
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ".env", "DDPLANNER_TEST_VAR=hello\n")
	t.Setenv("DDPLANNER_TEST_VAR", "")
	os.Unsetenv("DDPLANNER_TEST_VAR")

	require.NoError(t, LoadEnv(filepath.Join(dir, "missing.env"), path))
	assert.Equal(t, "hello", os.Getenv("DDPLANNER_TEST_VAR"))
}

func TestNormalizeWinRate(t *testing.T) {
	assert.Equal(t, 0.5, NormalizeWinRate(0.5))
	assert.Equal(t, 1.0, NormalizeWinRate(1))
	assert.Equal(t, 0.55, NormalizeWinRate(55))
	assert.Equal(t, 150.0, NormalizeWinRate(150))
}

func TestSimulationConfig_Apply(t *testing.T) {
	bet := 50.0
	win := 40.0
	rounds := 200
	out := DefaultSimulation().Apply(SimulationOverrides{
		BetAmount: &bet,
		WinRate:   &win,
		MaxRounds: &rounds,
	})
	assert.Equal(t, 50.0, out.BetAmount)
	assert.Equal(t, 0.4, out.WinRate)
	assert.Equal(t, 200, out.MaxRounds)
	assert.Equal(t, 2.0, out.PayoffMultiplier)
}

func TestSimulationOverrides_Merge(t *testing.T) {
	a, b := 1.0, 2.0
	trials := 10
	base := SimulationOverrides{BetAmount: &a, Trials: &trials}
	merged := base.Merge(SimulationOverrides{BetAmount: &b})

	assert.Equal(t, 2.0, *merged.BetAmount)
	assert.Equal(t, 10, *merged.Trials)
	assert.Equal(t, 1.0, *base.BetAmount)
}

func TestLoad_ExampleConfig(t *testing.T) {
	c, err := Load(filepath.Join("..", "..", "examples", "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "50K Evaluation", c.Name)
	assert.Equal(t, 200.0, c.Simulation.BetAmount)
	assert.InDelta(t, 0.55, c.Simulation.WinRate, 1e-12)
	assert.Equal(t, 53000.0, c.Simulation.TargetBalance)
	assert.Equal(t, uint64(42), c.Simulation.Seed)
	assert.Equal(t, 1_000_000, c.Server.MaxTrials)
}
