package montecarlo

import (
	"math"
	"math/rand/v2"
	"testing"

	"dd-planner/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seqRand replays fixed draws, then repeats the last one.
type seqRand struct {
	draws []float64
	i     int
}

func (s *seqRand) Float64() float64 {
	if s.i >= len(s.draws) {
		return s.draws[len(s.draws)-1]
	}
	v := s.draws[s.i]
	s.i++
	return v
}

// Draws below 0.5 win when WinProbability is 0.5.
const (
	win  = 0.1
	lose = 0.9
)

func evalParams() model.TrialParameters {
	return model.TrialParameters{
		BetAmount:         100,
		WinProbability:    0.5,
		PayoffMultiplier:  2.0,
		StartingBalance:   10000,
		TargetBalance:     10300,
		DrawdownAllowance: 500,
		MaxRounds:         1000,
	}
}

func TestRunTrial_CertainWin(t *testing.T) {
	p := evalParams()
	p.WinProbability = 1.0
	rng := rand.New(rand.NewPCG(1, 2))

	for i := 0; i < 100; i++ {
		res := RunTrial(p, rng)
		assert.Equal(t, model.OutcomePass, res.Outcome)
		assert.Equal(t, 1, res.RoundsPlayed)
		assert.Equal(t, p.StartingBalance+p.BetAmount*p.PayoffMultiplier, res.FinalBalance)
	}
}

func TestRunTrial_CertainLoss(t *testing.T) {
	p := evalParams()
	p.WinProbability = 0
	rng := rand.New(rand.NewPCG(3, 4))
	limit := int(math.Ceil(p.DrawdownAllowance / p.BetAmount))

	for i := 0; i < 100; i++ {
		res := RunTrial(p, rng)
		assert.Equal(t, model.OutcomeFail, res.Outcome)
		assert.LessOrEqual(t, res.RoundsPlayed, limit)
		assert.LessOrEqual(t, res.FinalBalance, p.InitialFloor())
	}
}

func TestRunTrial_CertainLossUnevenAllowance(t *testing.T) {
	p := evalParams()
	p.WinProbability = 0
	p.DrawdownAllowance = 450

	res := RunTrial(p, &seqRand{draws: []float64{0.5}})
	assert.Equal(t, model.OutcomeFail, res.Outcome)
	assert.Equal(t, 5, res.RoundsPlayed)
	assert.Equal(t, 9500.0, res.FinalBalance)
}

func TestRunTrial_TrailingFloorBreach(t *testing.T) {
	p := evalParams()
	p.TargetBalance = 20000
	// +200 to a 10200 peak (floor 9700), then five losses reach 9700.
	rng := &seqRand{draws: []float64{win, lose, lose, lose, lose, lose}}

	res := RunTrial(p, rng)
	assert.Equal(t, model.OutcomeFail, res.Outcome)
	assert.Equal(t, 6, res.RoundsPlayed)
	assert.Equal(t, 9700.0, res.FinalBalance)
	assert.Greater(t, res.FinalBalance, p.InitialFloor(), "breach is against the trailed floor, not the initial one")
}

func TestRunTrial_PassCountsWinningRound(t *testing.T) {
	p := evalParams()
	rng := &seqRand{draws: []float64{lose, win, win}}

	res := RunTrial(p, rng)
	assert.Equal(t, model.OutcomePass, res.Outcome)
	assert.Equal(t, 3, res.RoundsPlayed)
	assert.Equal(t, 10300.0, res.FinalBalance)
}

func TestRunTrial_TargetBeatsFloorInSameRound(t *testing.T) {
	p := evalParams()
	// Target below the floor: the first round satisfies both comparisons.
	p.TargetBalance = 9000
	res := RunTrial(p, &seqRand{draws: []float64{lose}})
	assert.Equal(t, model.OutcomePass, res.Outcome)
	assert.Equal(t, 1, res.RoundsPlayed)
}

func TestRunTrial_RoundBudgetExhausted(t *testing.T) {
	p := evalParams()
	p.PayoffMultiplier = 1
	p.MaxRounds = 10
	// Alternating win/loss never moves more than one bet from start.
	draws := make([]float64, 0, 10)
	for i := 0; i < 5; i++ {
		draws = append(draws, win, lose)
	}

	res := RunTrial(p, &seqRand{draws: draws})
	assert.Equal(t, model.OutcomeInconclusive, res.Outcome)
	assert.Equal(t, 10, res.RoundsPlayed)
	assert.Equal(t, 10000.0, res.FinalBalance)
}

func TestRunTrial_TerminatesWithinMaxRounds(t *testing.T) {
	p := evalParams()
	p.PayoffMultiplier = 1
	p.DrawdownAllowance = 5000
	p.TargetBalance = 15000
	p.MaxRounds = 50
	rng := rand.New(rand.NewPCG(7, 7))

	for i := 0; i < 500; i++ {
		res := RunTrial(p, rng)
		require.LessOrEqual(t, res.RoundsPlayed, p.MaxRounds)
		require.Contains(t, model.Outcomes, res.Outcome)
	}
}

func TestRunTrial_ClassificationIsReproducible(t *testing.T) {
	p := evalParams()
	p.PayoffMultiplier = 1
	p.WinProbability = 0.3
	rng := rand.New(rand.NewPCG(11, 13))

	checked := 0
	for i := 0; i < 2000; i++ {
		res := RunTrial(p, rng)
		// A fail in exactly five rounds is a pure loss path, so the floor never moved.
		if res.Outcome == model.OutcomeFail && res.RoundsPlayed == 5 {
			assert.Equal(t, res.Outcome, model.Classify(res.FinalBalance, p.TargetBalance, p.InitialFloor()))
			checked++
		}
		if res.Outcome == model.OutcomePass {
			assert.Equal(t, res.Outcome, model.Classify(res.FinalBalance, p.TargetBalance, p.InitialFloor()))
		}
	}
	assert.Positive(t, checked)
}

func TestRunTrial_DeterministicForSeed(t *testing.T) {
	p := evalParams()
	a := RunTrial(p, rand.New(rand.NewPCG(42, 99)))
	b := RunTrial(p, rand.New(rand.NewPCG(42, 99)))
	assert.Equal(t, a, b)
}

func TestTraceTrial_MatchesRunTrial(t *testing.T) {
	p := evalParams()
	res, steps := TraceTrial(p, rand.New(rand.NewPCG(7, 8)))
	assert.Equal(t, RunTrial(p, rand.New(rand.NewPCG(7, 8))), res)

	require.Len(t, steps, res.RoundsPlayed)
	last := steps[len(steps)-1].State
	assert.Equal(t, res.FinalBalance, last.Balance)

	prevFloor := p.InitialFloor()
	for i, st := range steps {
		assert.Equal(t, i+1, st.State.RoundsPlayed)
		assert.GreaterOrEqual(t, st.State.DrawdownFloor, prevFloor)
		assert.Equal(t, st.State.PeakBalance-p.DrawdownAllowance, st.State.DrawdownFloor)
		prevFloor = st.State.DrawdownFloor
	}
}
