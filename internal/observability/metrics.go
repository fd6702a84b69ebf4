// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"errors"
	"net/http"
	"time"

	"dd-planner/internal/model"
	"dd-planner/internal/montecarlo"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	registry *prometheus.Registry

	// Batch metrics
	BatchesTotal  *prometheus.CounterVec
	BatchDuration prometheus.Histogram
	BatchTrials   prometheus.Histogram

	// Trial metrics
	TrialsSimulated prometheus.Counter
	TrialOutcomes   *prometheus.CounterVec
	RoundsSimulated prometheus.Counter

	// Report cache
	CachedReports prometheus.Gauge
}

// NewMetrics creates a Metrics instance on its own registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "ddplanner"
	}
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		BatchesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Monte Carlo batches by status (ok, invalid, aborted).",
		}, []string{"status"}),
		BatchDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Wall time of completed batches.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		BatchTrials: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_trials",
			Help:      "Trial count of completed batches.",
			Buckets:   prometheus.ExponentialBuckets(10, 10, 6),
		}),

		TrialsSimulated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trials_simulated_total",
			Help:      "Trials simulated across all batches.",
		}),
		TrialOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trial_outcomes_total",
			Help:      "Trial outcomes across all batches.",
		}, []string{"outcome"}),
		RoundsSimulated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_simulated_total",
			Help:      "Betting rounds simulated across all batches.",
		}),

		CachedReports: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cached_reports",
			Help:      "Reports currently held in the report cache.",
		}),
	}
}

// ObserveBatch implements montecarlo.Recorder.
func (m *Metrics) ObserveBatch(r *montecarlo.AggregateReport, elapsed time.Duration) {
	m.BatchesTotal.WithLabelValues("ok").Inc()
	m.BatchDuration.Observe(elapsed.Seconds())
	m.BatchTrials.Observe(float64(r.TrialCount))
	m.TrialsSimulated.Add(float64(r.TrialCount))
	for _, o := range model.Outcomes {
		m.TrialOutcomes.WithLabelValues(string(o)).Add(float64(r.Count(o)))
	}
	m.RoundsSimulated.Add(r.MeanRoundsPlayed * float64(r.TrialCount))
}

// ObserveBatchError implements montecarlo.Recorder.
func (m *Metrics) ObserveBatchError(err error) {
	status := "aborted"
	if errors.Is(err, model.ErrInvalidParameter) {
		status = "invalid"
	}
	m.BatchesTotal.WithLabelValues(status).Inc()
}

// SetCachedReports implements reportcache.SizeObserver.
func (m *Metrics) SetCachedReports(n int) {
	m.CachedReports.Set(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
