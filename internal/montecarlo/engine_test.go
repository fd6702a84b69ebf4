package montecarlo

import (
	"bytes"
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"dd-planner/internal/model"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecorder struct {
	batches int
	errs    []error
}

func (f *fakeRecorder) ObserveBatch(*AggregateReport, time.Duration) { f.batches++ }
func (f *fakeRecorder) ObserveBatchError(err error)                  { f.errs = append(f.errs, err) }

func TestRunBatch_CountsPartitionTrials(t *testing.T) {
	p := evalParams()
	p.PayoffMultiplier = 1
	p.MaxRounds = 20

	r, err := New().RunBatch(context.Background(), p, 5000, BatchOptions{Seed: 1})
	require.NoError(t, err)

	assert.Equal(t, 5000, r.TrialCount)
	assert.Len(t, r.Series, 5000)
	assert.Equal(t, 5000, r.PassCount+r.FailCount+r.InconclusiveCount)
	assert.InDelta(t, 1.0, r.PassRate+r.FailRate+r.InconclusiveRate, 1e-12)
	assert.Positive(t, r.InconclusiveCount, "a 20 round budget leaves some trials unresolved")

	total := 0
	for _, res := range r.Series {
		assert.LessOrEqual(t, res.RoundsPlayed, p.MaxRounds)
		total += res.RoundsPlayed
	}
	assert.InDelta(t, float64(total)/5000, r.MeanRoundsPlayed, 1e-9)
}

func TestRunBatch_ReproducibleAcrossWorkerCounts(t *testing.T) {
	p := evalParams()
	e := New()

	one, err := e.RunBatch(context.Background(), p, 3000, BatchOptions{Seed: 77, Workers: 1})
	require.NoError(t, err)
	many, err := e.RunBatch(context.Background(), p, 3000, BatchOptions{Seed: 77, Workers: 8})
	require.NoError(t, err)

	assert.Equal(t, one.Series, many.Series)
	assert.Equal(t, one.PassCount, many.PassCount)
	assert.Equal(t, uint64(77), many.Seed)
}

func TestRunBatch_DifferentSeedsDiffer(t *testing.T) {
	p := evalParams()
	e := New()
	a, err := e.RunBatch(context.Background(), p, 500, BatchOptions{Seed: 1})
	require.NoError(t, err)
	b, err := e.RunBatch(context.Background(), p, 500, BatchOptions{Seed: 2})
	require.NoError(t, err)
	assert.NotEqual(t, a.Series, b.Series)
}

func TestRunBatch_RandomSeedRecorded(t *testing.T) {
	r, err := New().RunBatch(context.Background(), evalParams(), 10, BatchOptions{})
	require.NoError(t, err)
	assert.NotZero(t, r.Seed)
}

func TestRunBatch_CertainWin(t *testing.T) {
	p := evalParams()
	p.WinProbability = 1

	r, err := New().RunBatch(context.Background(), p, 1000, BatchOptions{Seed: 5})
	require.NoError(t, err)
	assert.Equal(t, 1000, r.PassCount)
	assert.Equal(t, 1.0, r.PassRate)
	assert.Equal(t, 1.0, r.MeanRoundsPlayed)
	assert.Equal(t, 10200.0, r.MeanFinalBalance)
	assert.Equal(t, 1.0, r.MeanRoundsByOutcome[model.OutcomePass])
}

func TestRunBatch_CertainLoss(t *testing.T) {
	p := evalParams()
	p.WinProbability = 0

	r, err := New().RunBatch(context.Background(), p, 1000, BatchOptions{Seed: 5})
	require.NoError(t, err)
	assert.Equal(t, 1000, r.FailCount)
	assert.Equal(t, 5.0, r.MeanRoundsPlayed)
	assert.Equal(t, 9500.0, r.InitialFloor)
	assert.Equal(t, 10300.0, r.TargetBalance)
}

func TestRunBatch_PositiveExpectancyScenario(t *testing.T) {
	r, err := New().RunBatch(context.Background(), evalParams(), 10000, BatchOptions{Seed: 20240601})
	require.NoError(t, err)

	assert.Greater(t, r.PassRate, 0.5)
	assert.Less(t, r.InconclusiveRate, 0.01)
}

func TestRunBatch_BreakEvenSingleStepTarget(t *testing.T) {
	// With the target one bet away, the trailing floor cannot move before the
	// trial resolves, so the gambler's ruin probability 500/(500+100) is exact.
	p := evalParams()
	p.PayoffMultiplier = 1
	p.TargetBalance = 10100

	r, err := New().RunBatch(context.Background(), p, 10000, BatchOptions{Seed: 99})
	require.NoError(t, err)

	want := p.DrawdownAllowance / (p.DrawdownAllowance + p.TargetDelta())
	se := math.Sqrt(want * (1 - want) / 10000)
	assert.InDelta(t, want, r.PassRate, 4*se)
	assert.Zero(t, r.InconclusiveCount)
}

func TestRunBatch_BreakEvenTrailingFloor(t *testing.T) {
	// Each new peak must be reached before a five-bet retracement: (5/6)^3.
	p := evalParams()
	p.PayoffMultiplier = 1

	r, err := New().RunBatch(context.Background(), p, 10000, BatchOptions{Seed: 1234})
	require.NoError(t, err)

	want := math.Pow(5.0/6.0, 3)
	se := math.Sqrt(want * (1 - want) / 10000)
	assert.InDelta(t, want, r.PassRate, 4*se)
}

func TestRunBatch_InvalidParameters(t *testing.T) {
	rec := &fakeRecorder{}
	e := New(WithRecorder(rec))

	p := evalParams()
	p.BetAmount = 0
	_, err := e.RunBatch(context.Background(), p, 100, BatchOptions{})
	assert.ErrorIs(t, err, model.ErrInvalidParameter)

	_, err = e.RunBatch(context.Background(), evalParams(), 0, BatchOptions{})
	assert.ErrorIs(t, err, model.ErrInvalidParameter)

	assert.Len(t, rec.errs, 2)
	assert.Zero(t, rec.batches)
}

func TestRunBatch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, err := New().RunBatch(ctx, evalParams(), 10000, BatchOptions{Seed: 1})
	assert.Nil(t, r)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunBatch_Progress(t *testing.T) {
	var calls [][2]int
	progress := func(done, total int) {
		calls = append(calls, [2]int{done, total})
	}

	_, err := New().RunBatch(context.Background(), evalParams(), 5000, BatchOptions{Seed: 3, Workers: 4, Progress: progress})
	require.NoError(t, err)

	require.NotEmpty(t, calls)
	assert.Equal(t, [2]int{5000, 5000}, calls[len(calls)-1])
	for i := 1; i < len(calls); i++ {
		assert.GreaterOrEqual(t, calls[i][0], calls[i-1][0])
	}
	assert.Greater(t, len(calls), 1)
}

func TestRunBatch_LogsAndRecords(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	rec := &fakeRecorder{}

	_, err := New(WithLogger(l), WithRecorder(rec)).RunBatch(context.Background(), evalParams(), 100, BatchOptions{Seed: 8})
	require.NoError(t, err)
	assert.Equal(t, 1, rec.batches)
	assert.Contains(t, buf.String(), "batch finished")
}

func TestAggregate_Empty(t *testing.T) {
	r := Aggregate(evalParams(), 1, nil)
	assert.Zero(t, r.TrialCount)
	assert.Zero(t, r.PassRate)
	assert.Zero(t, r.Count(model.OutcomeFail))
}

func TestAggregate_OrderIndependentStatistics(t *testing.T) {
	series := []model.TrialResult{
		{FinalBalance: 10300, RoundsPlayed: 3, Outcome: model.OutcomePass},
		{FinalBalance: 9500, RoundsPlayed: 5, Outcome: model.OutcomeFail},
		{FinalBalance: 9900, RoundsPlayed: 10, Outcome: model.OutcomeInconclusive},
		{FinalBalance: 10400, RoundsPlayed: 6, Outcome: model.OutcomePass},
	}
	reversed := []model.TrialResult{series[3], series[2], series[1], series[0]}

	a := Aggregate(evalParams(), 1, series)
	b := Aggregate(evalParams(), 1, reversed)

	assert.Equal(t, 2, a.PassCount)
	assert.Equal(t, 0.5, a.PassRate)
	assert.Equal(t, 0.25, a.FailRate)
	assert.Equal(t, 0.25, a.InconclusiveRate)
	assert.Equal(t, 6.0, a.MeanRoundsPlayed)
	assert.Equal(t, 4.5, a.MeanRoundsByOutcome[model.OutcomePass])
	assert.Equal(t, 0.5, a.Rate(model.OutcomePass))

	assert.Equal(t, a.PassRate, b.PassRate)
	assert.Equal(t, a.MeanRoundsPlayed, b.MeanRoundsPlayed)
	assert.Equal(t, a.MeanFinalBalance, b.MeanFinalBalance)
}

func TestTrialStream_ReplaysBatchTrial(t *testing.T) {
	p := evalParams()
	r, err := New().RunBatch(context.Background(), p, 600, BatchOptions{Seed: 123, Workers: 3})
	require.NoError(t, err)

	for _, i := range []int{0, 255, 256, 599} {
		res, _ := TraceTrial(p, TrialStream(123, i))
		assert.Equal(t, r.Series[i], res, "trial %d", i)
	}
}
