package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts run outcomes and times each stage.
type Metrics struct {
	runs          *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
}

// NewMetrics registers the pipeline collectors with reg. A nil reg yields
// collectors that are updated but never exported.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "uploadai",
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Pipeline runs by outcome.",
		}, []string{"outcome"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "uploadai",
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Time spent in each pipeline stage.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}, []string{"stage", "result"}),
	}
	if reg != nil {
		reg.MustRegister(m.runs, m.stageDuration)
	}
	return m
}

func (m *Metrics) observeStage(stage State, start time.Time, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.stageDuration.WithLabelValues(stage.String(), result).Observe(time.Since(start).Seconds())
}

func (m *Metrics) recordRun(outcome State) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(outcome.String()).Inc()
}
