package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "boilercalc"

// Metrics records solver activity. A nil *Metrics records nothing.
type Metrics struct {
	runs      *prometheus.CounterVec
	invalid   *prometheus.CounterVec
	simulated *prometheus.HistogramVec
	wall      *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solver_runs_total",
			Help:      "Completed solver runs by solver and outcome.",
		}, []string{"solver", "outcome"}),
		invalid: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solver_invalid_parameters_total",
			Help:      "Solver calls rejected before integration.",
		}, []string{"solver"}),
		simulated: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solver_simulated_seconds",
			Help:      "Simulated time covered by a solver run.",
			Buckets:   []float64{1, 10, 60, 300, 900, 1800, 3600, 10800},
		}, []string{"solver"}),
		wall: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solver_duration_seconds",
			Help:      "Wall-clock time spent in a solver run.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"solver"}),
	}
	if reg != nil {
		reg.MustRegister(m.runs, m.invalid, m.simulated, m.wall)
	}
	return m
}

func (m *Metrics) ObserveRun(solver, outcome string, simulated, took time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(solver, outcome).Inc()
	m.simulated.WithLabelValues(solver).Observe(simulated.Seconds())
	m.wall.WithLabelValues(solver).Observe(took.Seconds())
}

func (m *Metrics) ObserveInvalid(solver string) {
	if m == nil {
		return
	}
	m.invalid.WithLabelValues(solver).Inc()
}
