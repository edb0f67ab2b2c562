package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Submission(OutcomeAccepted)
	m.Submission(OutcomeAccepted)
	m.Submission(OutcomeInsufficient)
	m.Analysis(OutcomeSuccess, 3*time.Second)
	m.Image(OutcomeFailure)
	m.ArchiveWrite("pre-analysis", OutcomeSuccess)
	m.SessionsChanged(3)
	m.SessionsChanged(-1)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.submissions.WithLabelValues(OutcomeAccepted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.submissions.WithLabelValues(OutcomeInsufficient)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.analyses.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.images.WithLabelValues(OutcomeFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.archiveWrites.WithLabelValues("pre-analysis", OutcomeSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.sessions))
	assert.Equal(t, 1, testutil.CollectAndCount(m.analysisDuration))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Submission(OutcomeAccepted)
		m.Analysis(OutcomeFailure, time.Second)
		m.Image(OutcomeSkipped)
		m.ArchiveWrite("post-analysis", OutcomeFailure)
		m.SessionsChanged(1)
	})
}
