package montecarlo

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"dd-planner/internal/model"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// chunkSize is how many consecutive trials a worker claims at a time.
const chunkSize = 256

// progressEvery bounds how often Progress fires.
const progressEvery = 1024

// ProgressFunc receives the number of finished trials. Calls are serialized and
// done never decreases.
type ProgressFunc func(done, total int)

// Recorder observes finished batches (metrics).
type Recorder interface {
	ObserveBatch(r *AggregateReport, elapsed time.Duration)
	ObserveBatchError(err error)
}

type BatchOptions struct {
	// Workers <= 0 means runtime.NumCPU().
	Workers int
	// Seed 0 picks a random seed; the seed used is returned in the report.
	Seed     uint64
	Progress ProgressFunc
}

type Engine struct {
	log      logrus.FieldLogger
	recorder Recorder
}

type Option func(*Engine)

func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Engine) { e.log = l }
}

func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

func New(opts ...Option) *Engine {
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	e := &Engine{log: discard}
	for _, o := range opts {
		o(e)
	}
	return e
}

// RunBatch validates params once, runs trialCount independent trials and reduces them.
// Trials run in parallel; trial i always draws from the stream derived from (seed, i).
func (e *Engine) RunBatch(ctx context.Context, params model.TrialParameters, trialCount int, opts BatchOptions) (*AggregateReport, error) {
	if err := params.Validate(); err != nil {
		e.observeError(err)
		return nil, err
	}
	if err := model.ValidateTrialCount(trialCount); err != nil {
		e.observeError(err)
		return nil, err
	}

	seed := opts.Seed
	if seed == 0 {
		seed = NewSeed()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if maxWorkers := (trialCount + chunkSize - 1) / chunkSize; workers > maxWorkers {
		workers = maxWorkers
	}

	log := e.log.WithFields(logrus.Fields{
		"trials":  trialCount,
		"workers": workers,
		"seed":    seed,
	})
	log.Debug("batch started")
	start := time.Now()

	series := make([]model.TrialResult, trialCount)
	progress := newProgressTracker(trialCount, opts.Progress)

	var next atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			tr := newTrialRand()
			for {
				if err := gctx.Err(); err != nil {
					return err
				}
				lo := int(next.Add(chunkSize)) - chunkSize
				if lo >= trialCount {
					return nil
				}
				hi := min(lo+chunkSize, trialCount)
				for i := lo; i < hi; i++ {
					series[i] = RunTrial(params, tr.reset(seed, i))
				}
				progress.add(hi - lo)
			}
		})
	}
	if err := g.Wait(); err != nil {
		err = fmt.Errorf("batch aborted: %w", err)
		e.observeError(err)
		return nil, err
	}
	progress.finish()

	report := Aggregate(params, seed, series)
	elapsed := time.Since(start)
	if e.recorder != nil {
		e.recorder.ObserveBatch(report, elapsed)
	}
	log.WithFields(logrus.Fields{
		"pass_rate":   report.PassRate,
		"mean_rounds": report.MeanRoundsPlayed,
		"elapsed":     elapsed,
	}).Info("batch finished")
	return report, nil
}

func (e *Engine) observeError(err error) {
	if e.recorder != nil {
		e.recorder.ObserveBatchError(err)
	}
}

type progressTracker struct {
	total int
	fn    ProgressFunc

	mu       sync.Mutex
	done     int
	reported int
}

func newProgressTracker(total int, fn ProgressFunc) *progressTracker {
	return &progressTracker{total: total, fn: fn}
}

func (p *progressTracker) add(n int) {
	if p.fn == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done += n
	if p.done-p.reported >= progressEvery && p.done < p.total {
		p.reported = p.done
		p.fn(p.done, p.total)
	}
}

func (p *progressTracker) finish() {
	if p.fn == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fn(p.total, p.total)
}
