package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Runs          *prometheus.CounterVec
	RunDuration   prometheus.Histogram
	Uploads       *prometheus.CounterVec
	SessionsSwept prometheus.Counter
}

// New registers the service collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "topsis_runs_total",
			Help: "TOPSIS computations by outcome (ok or failure kind).",
		}, []string{"outcome"}),
		RunDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "topsis_run_duration_seconds",
			Help:    "Wall time of successful TOPSIS computations.",
			Buckets: prometheus.ExponentialBuckets(0.00005, 4, 10),
		}),
		Uploads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "topsis_uploads_total",
			Help: "Dataset uploads by outcome (ok or failure kind).",
		}, []string{"outcome"}),
		SessionsSwept: f.NewCounter(prometheus.CounterOpts{
			Name: "topsis_sessions_swept_total",
			Help: "Expired sessions removed by the janitor.",
		}),
	}
}

// SweptFunc adapts the swept counter to the janitor callback.
func (m *Metrics) SweptFunc() func(int) {
	return func(n int) { m.SessionsSwept.Add(float64(n)) }
}
