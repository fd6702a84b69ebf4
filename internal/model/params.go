package model

import (
	"math"
)

// TrialParameters defines the betting account and the fixed-risk strategy for one batch.
// Units:
// - BetAmount, balances, DrawdownAllowance: account currency
// - WinProbability: fraction 0..1
// - PayoffMultiplier: reward-to-risk ratio (a win pays BetAmount * PayoffMultiplier)
// - MaxRounds: hard cap on rounds per trial
//
// TargetBalance > StartingBalance is expected but not enforced.
type TrialParameters struct {
	BetAmount         float64
	WinProbability    float64
	PayoffMultiplier  float64
	StartingBalance   float64
	TargetBalance     float64
	DrawdownAllowance float64
	MaxRounds         int
}

// Validate checks the parameters once per batch. Trials never re-validate.
func (p TrialParameters) Validate() error {
	if !positive(p.BetAmount) {
		return invalid("bet_amount", p.BetAmount, "must be > 0")
	}
	if math.IsNaN(p.WinProbability) || p.WinProbability < 0 || p.WinProbability > 1 {
		return invalid("win_probability", p.WinProbability, "must be in [0, 1]")
	}
	if !positive(p.PayoffMultiplier) {
		return invalid("payoff_multiplier", p.PayoffMultiplier, "must be > 0")
	}
	if !positive(p.DrawdownAllowance) {
		return invalid("drawdown_allowance", p.DrawdownAllowance, "must be > 0")
	}
	if math.IsNaN(p.StartingBalance) || math.IsInf(p.StartingBalance, 0) {
		return invalid("starting_balance", p.StartingBalance, "must be finite")
	}
	if math.IsNaN(p.TargetBalance) || math.IsInf(p.TargetBalance, 0) {
		return invalid("target_balance", p.TargetBalance, "must be finite")
	}
	if p.MaxRounds <= 0 {
		return invalid("max_rounds", p.MaxRounds, "must be > 0")
	}
	return nil
}

// InitialFloor is the drawdown floor before any round is played.
func (p TrialParameters) InitialFloor() float64 {
	return p.StartingBalance - p.DrawdownAllowance
}

// TargetDelta is the profit needed to pass.
func (p TrialParameters) TargetDelta() float64 {
	return p.TargetBalance - p.StartingBalance
}

// WinAmount is the balance change on a winning round.
func (p TrialParameters) WinAmount() float64 {
	return p.BetAmount * p.PayoffMultiplier
}

// ValidateTrialCount rejects empty batches.
func ValidateTrialCount(n int) error {
	if n <= 0 {
		return invalid("trials", n, "must be > 0")
	}
	return nil
}

func positive(x float64) bool {
	return x > 0 && !math.IsInf(x, 1)
}
