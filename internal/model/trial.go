package model

// TrialState captures the mutable state of one trial. It never outlives the trial.
type TrialState struct {
	Balance       float64
	PeakBalance   float64
	DrawdownFloor float64
	RoundsPlayed  int
}

// TrialResult is what one trial reports back to the batch.
type TrialResult struct {
	FinalBalance float64
	RoundsPlayed int
	Outcome      Outcome
}

func NewTrialState(p TrialParameters) TrialState {
	return TrialState{
		Balance:       p.StartingBalance,
		PeakBalance:   p.StartingBalance,
		DrawdownFloor: p.InitialFloor(),
	}
}

// ApplyRound settles one round:
// - win: balance += bet * payoff; loss: balance -= bet
// - a new peak raises the floor to peak - allowance (the floor never falls)
// - the round counter advances
func (s *TrialState) ApplyRound(p TrialParameters, won bool) {
	if won {
		s.Balance += p.WinAmount()
	} else {
		s.Balance -= p.BetAmount
	}
	if s.Balance > s.PeakBalance {
		s.PeakBalance = s.Balance
		s.DrawdownFloor = s.PeakBalance - p.DrawdownAllowance
	}
	s.RoundsPlayed++
}

// Outcome classifies the current state against the target and the current floor.
func (s *TrialState) Outcome(p TrialParameters) Outcome {
	return Classify(s.Balance, p.TargetBalance, s.DrawdownFloor)
}

func (s *TrialState) Result(o Outcome) TrialResult {
	return TrialResult{
		FinalBalance: s.Balance,
		RoundsPlayed: s.RoundsPlayed,
		Outcome:      o,
	}
}
