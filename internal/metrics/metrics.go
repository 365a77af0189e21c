// Package metrics exposes Prometheus collectors for analyses and operations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/MikeSquared-Agency/Optimiser/internal/scoring"
)

// Analysis outcomes.
const (
	OutcomeCompleted     = "completed"
	OutcomeUnchanged     = "unchanged"
	OutcomeInterrupted   = "interrupted"
	OutcomePersistFailed = "persist_failed"
	OutcomeError         = "error"
)

type Metrics struct {
	analysesTotal       *prometheus.CounterVec
	analysisDuration    prometheus.Histogram
	analysisScore       prometheus.Histogram
	persistenceFailures *prometheus.CounterVec
	unknownCodes        prometheus.Counter
	operationDuration   *prometheus.HistogramVec
	operationScore      *prometheus.HistogramVec
	operationFailures   *prometheus.CounterVec
}

// New registers the collectors with reg. Pass prometheus.DefaultRegisterer
// in the service and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		analysesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "optimiser_analyses_total",
			Help: "Analyses by outcome",
		}, []string{"outcome"}),
		analysisDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "optimiser_analysis_duration_seconds",
			Help:    "Wall time of a full analysis",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		analysisScore: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "optimiser_analysis_score",
			Help:    "Final scores of completed analyses",
			Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
		}),
		persistenceFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "optimiser_persistence_failures_total",
			Help: "Failed persistence groups",
		}, []string{"group"}),
		unknownCodes: f.NewCounter(prometheus.CounterOpts{
			Name: "optimiser_unknown_suggestion_codes_total",
			Help: "Suggestion codes emitted that are missing from the catalog",
		}),
		operationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "optimiser_operation_duration_seconds",
			Help:    "Duration of individual operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"operation"}),
		operationScore: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "optimiser_operation_score",
			Help:    "Scores of individual operations",
			Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
		}, []string{"operation"}),
		operationFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "optimiser_operation_failures_total",
			Help: "Operations that were unavailable or panicked",
		}, []string{"operation", "reason"}),
	}
}

func (m *Metrics) RecordAnalysis(outcome string, d time.Duration, score float64) {
	if m == nil {
		return
	}
	m.analysesTotal.WithLabelValues(outcome).Inc()
	if outcome == OutcomeCompleted || outcome == OutcomePersistFailed {
		m.analysisDuration.Observe(d.Seconds())
		m.analysisScore.Observe(score)
	}
}

func (m *Metrics) RecordPersistenceFailure(group string) {
	if m == nil {
		return
	}
	m.persistenceFailures.WithLabelValues(group).Inc()
}

// Observer returns a scoring.Observer that records per-operation metrics.
func (m *Metrics) Observer() scoring.Observer {
	return func(e scoring.OperationEvent) {
		if m == nil {
			return
		}
		m.operationDuration.WithLabelValues(e.Operation).Observe(e.Duration.Seconds())
		m.operationScore.WithLabelValues(e.Operation).Observe(e.Score)
		switch {
		case e.Panicked:
			m.operationFailures.WithLabelValues(e.Operation, "panic").Inc()
		case e.Unavailable:
			m.operationFailures.WithLabelValues(e.Operation, "unavailable").Inc()
		}
		if n := len(e.UnknownCodes); n > 0 {
			m.unknownCodes.Add(float64(n))
		}
	}
}
