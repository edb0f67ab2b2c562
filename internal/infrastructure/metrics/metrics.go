// Package metrics holds the Prometheus collectors of the submission flow.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "yuelao"

// Outcome label values.
const (
	OutcomeInsufficient = "insufficient"
	OutcomeAccepted     = "accepted"
	OutcomeSuccess      = "success"
	OutcomeFailure      = "failure"
	OutcomeAbandoned    = "abandoned"
	OutcomeSkipped      = "skipped"
)

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	submissions      *prometheus.CounterVec
	analyses         *prometheus.CounterVec
	images           *prometheus.CounterVec
	archiveWrites    *prometheus.CounterVec
	analysisDuration prometheus.Histogram
	sessions         prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		submissions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Submit events by completeness gate outcome.",
		}, []string{"outcome"}),
		analyses: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Remote analysis calls by outcome.",
		}, []string{"outcome"}),
		images: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "images_total",
			Help:      "Portrait generation attempts by outcome.",
		}, []string{"outcome"}),
		archiveWrites: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "archive_writes_total",
			Help:      "Archive appends by stage and outcome.",
		}, []string{"stage", "outcome"}),
		analysisDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Latency of the remote analysis call.",
			Buckets:   []float64{1, 2.5, 5, 10, 20, 30, 60, 90},
		}),
		sessions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions",
			Help:      "Sessions currently held in memory.",
		}),
	}
}

func (m *Metrics) Submission(outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Analysis(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.analyses.WithLabelValues(outcome).Inc()
	m.analysisDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) Image(outcome string) {
	if m == nil {
		return
	}
	m.images.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ArchiveWrite(stage, outcome string) {
	if m == nil {
		return
	}
	m.archiveWrites.WithLabelValues(stage, outcome).Inc()
}

func (m *Metrics) SessionsChanged(delta int) {
	if m == nil {
		return
	}
	m.sessions.Add(float64(delta))
}
