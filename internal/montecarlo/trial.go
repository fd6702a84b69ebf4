package montecarlo

import "dd-planner/internal/model"

// RandSource yields uniform draws in [0, 1). *math/rand/v2.Rand satisfies it.
type RandSource interface {
	Float64() float64
}

// RunTrial plays rounds until the account passes, breaches its trailing floor,
// or exhausts MaxRounds. Within a round the peak and floor are updated before the
// checks, and the target check comes first. A round that sets a new peak can never
// breach, because the new floor sits DrawdownAllowance below the balance.
//
// Parameters are assumed valid; RunBatch validates them once per batch.
func RunTrial(p model.TrialParameters, rng RandSource) model.TrialResult {
	return runTrial(p, rng, nil)
}

// TraceStep is the state after one round of a traced trial.
type TraceStep struct {
	Won   bool
	State model.TrialState
}

// TraceTrial plays a trial exactly like RunTrial and also returns every round.
func TraceTrial(p model.TrialParameters, rng RandSource) (model.TrialResult, []TraceStep) {
	var steps []TraceStep
	res := runTrial(p, rng, func(won bool, s model.TrialState) {
		steps = append(steps, TraceStep{Won: won, State: s})
	})
	return res, steps
}

func runTrial(p model.TrialParameters, rng RandSource, observe func(bool, model.TrialState)) model.TrialResult {
	s := model.NewTrialState(p)
	for s.RoundsPlayed < p.MaxRounds {
		won := rng.Float64() < p.WinProbability
		s.ApplyRound(p, won)
		if observe != nil {
			observe(won, s)
		}
		if o := s.Outcome(p); o.Terminal() {
			return s.Result(o)
		}
	}
	// Round budget exhausted while still running.
	return s.Result(s.Outcome(p))
}
