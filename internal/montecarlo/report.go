package montecarlo

import "dd-planner/internal/model"

// AggregateReport is the reduced output of one batch.
// Series is ordered by trial index, never by completion time.
type AggregateReport struct {
	Params     model.TrialParameters
	TrialCount int
	Seed       uint64

	PassCount         int
	FailCount         int
	InconclusiveCount int

	PassRate         float64
	FailRate         float64
	InconclusiveRate float64

	MeanRoundsPlayed    float64
	MeanFinalBalance    float64
	MeanRoundsByOutcome map[model.Outcome]float64

	// Reference lines for plotting.
	TargetBalance float64
	InitialFloor  float64

	Series []model.TrialResult
}

// Aggregate tallies a completed series. Statistics do not depend on series order.
func Aggregate(params model.TrialParameters, seed uint64, series []model.TrialResult) *AggregateReport {
	r := &AggregateReport{
		Params:              params,
		TrialCount:          len(series),
		Seed:                seed,
		MeanRoundsByOutcome: make(map[model.Outcome]float64, len(model.Outcomes)),
		TargetBalance:       params.TargetBalance,
		InitialFloor:        params.InitialFloor(),
		Series:              series,
	}
	if len(series) == 0 {
		return r
	}

	roundsByOutcome := map[model.Outcome]int{}
	totalRounds := 0
	totalBalance := 0.0
	for _, res := range series {
		switch res.Outcome {
		case model.OutcomePass:
			r.PassCount++
		case model.OutcomeFail:
			r.FailCount++
		case model.OutcomeInconclusive:
			r.InconclusiveCount++
		}
		roundsByOutcome[res.Outcome] += res.RoundsPlayed
		totalRounds += res.RoundsPlayed
		totalBalance += res.FinalBalance
	}

	n := float64(len(series))
	r.PassRate = float64(r.PassCount) / n
	r.FailRate = float64(r.FailCount) / n
	r.InconclusiveRate = float64(r.InconclusiveCount) / n
	r.MeanRoundsPlayed = float64(totalRounds) / n
	r.MeanFinalBalance = totalBalance / n

	for _, o := range model.Outcomes {
		if c := r.Count(o); c > 0 {
			r.MeanRoundsByOutcome[o] = float64(roundsByOutcome[o]) / float64(c)
		}
	}
	return r
}

func (r *AggregateReport) Count(o model.Outcome) int {
	switch o {
	case model.OutcomePass:
		return r.PassCount
	case model.OutcomeFail:
		return r.FailCount
	case model.OutcomeInconclusive:
		return r.InconclusiveCount
	}
	return 0
}

func (r *AggregateReport) Rate(o model.Outcome) float64 {
	switch o {
	case model.OutcomePass:
		return r.PassRate
	case model.OutcomeFail:
		return r.FailRate
	case model.OutcomeInconclusive:
		return r.InconclusiveRate
	}
	return 0
}
