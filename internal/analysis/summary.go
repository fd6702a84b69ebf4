package analysis

import (
	"math"
	"sort"

	"dd-planner/internal/model"
	"dd-planner/internal/montecarlo"
)

// z95 is the two-sided 95% normal quantile.
const z95 = 1.959963984540054

// Summary is derived from a report; it does not re-run anything.
type Summary struct {
	RoundsP05 float64
	RoundsP50 float64
	RoundsP95 float64

	MinFinalBalance  float64
	MaxFinalBalance  float64
	MeanFinalBalance float64

	// PassRateStdErr is sqrt(p(1-p)/N); the interval is the normal approximation clamped to [0,1].
	PassRateStdErr float64
	PassRateLow95  float64
	PassRateHigh95 float64

	// ExpectancyPerRound is the mean balance change per round.
	ExpectancyPerRound float64

	// Random-walk estimates only apply to a fair coin at even payoff (RandomWalk == true).
	RandomWalk bool
	// StaticBarrierEstimate is allowance / (allowance + target delta).
	StaticBarrierEstimate float64
	// TrailingBarrierEstimate accounts for the floor trailing each new peak:
	// (j/(j+1))^k with j = ceil(allowance/bet) and k = ceil(delta/bet).
	TrailingBarrierEstimate float64
}

func Summarize(r *montecarlo.AggregateReport) Summary {
	s := Summary{
		ExpectancyPerRound: Expectancy(r.Params),
	}
	s.StaticBarrierEstimate, s.TrailingBarrierEstimate, s.RandomWalk = RandomWalkPassProbability(r.Params)
	if len(r.Series) == 0 {
		return s
	}

	rounds := make([]float64, 0, len(r.Series))
	minv := math.Inf(1)
	maxv := math.Inf(-1)
	for _, res := range r.Series {
		rounds = append(rounds, float64(res.RoundsPlayed))
		minv = math.Min(minv, res.FinalBalance)
		maxv = math.Max(maxv, res.FinalBalance)
	}
	sort.Float64s(rounds)
	s.RoundsP05 = percentileSorted(rounds, 0.05)
	s.RoundsP50 = percentileSorted(rounds, 0.50)
	s.RoundsP95 = percentileSorted(rounds, 0.95)
	s.MinFinalBalance = minv
	s.MaxFinalBalance = maxv
	s.MeanFinalBalance = r.MeanFinalBalance

	p := r.PassRate
	s.PassRateStdErr = math.Sqrt(p * (1 - p) / float64(r.TrialCount))
	s.PassRateLow95 = math.Max(0, p-z95*s.PassRateStdErr)
	s.PassRateHigh95 = math.Min(1, p+z95*s.PassRateStdErr)
	return s
}

// Expectancy is p*bet*payoff - (1-p)*bet.
func Expectancy(p model.TrialParameters) float64 {
	return p.WinProbability*p.WinAmount() - (1-p.WinProbability)*p.BetAmount
}

// RandomWalkPassProbability returns the gambler's ruin estimates for a symmetric walk.
// ok is false unless the win probability is 0.5 and the payoff is 1.
func RandomWalkPassProbability(p model.TrialParameters) (static, trailing float64, ok bool) {
	if p.WinProbability != 0.5 || p.PayoffMultiplier != 1 || p.BetAmount <= 0 {
		return 0, 0, false
	}
	delta := p.TargetDelta()
	j := math.Ceil(p.DrawdownAllowance / p.BetAmount)
	switch {
	case delta <= -p.BetAmount:
		// Even a losing first round ends at or above the target.
		return 1, 1, true
	case delta <= 0:
		// A win passes; after a loss one win passes before j-1 more losses,
		// and the floor cannot move until then.
		est := 0.5 + 0.5*(j-1)/j
		return est, est, true
	}
	static = p.DrawdownAllowance / (p.DrawdownAllowance + delta)

	k := math.Ceil(delta / p.BetAmount)
	trailing = math.Pow(j/(j+1), k)
	return static, trailing, true
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
