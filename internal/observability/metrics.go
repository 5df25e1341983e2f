package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// estimation session and its adapters.
type Metrics struct {
	FitsTotal     *prometheus.CounterVec // labels: outcome={success,invalid_input,insufficient_data,degenerate_input,numerical_failure}
	QueriesTotal  *prometheus.CounterVec // labels: kind={forward,inverse}, outcome={success,not_fitted,domain_error,unresolvable}
	FitDuration   prometheus.Histogram
	SessionFitted prometheus.Gauge

	ObservationCount prometheus.Histogram

	// Curve sweep metrics.
	SweepPoints prometheus.Histogram
	SweepCache  *prometheus.CounterVec // labels: result={hit,miss}

	// Project persistence metrics.
	ProjectIO *prometheus.CounterVec // labels: op={load,save}, outcome={success,error}
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		FitsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wind_extremes",
			Name:      "fits_total",
			Help:      "Fit recalculations by outcome.",
		}, []string{"outcome"}),
		QueriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wind_extremes",
			Name:      "queries_total",
			Help:      "Forward and inverse queries by kind and outcome.",
		}, []string{"kind", "outcome"}),
		FitDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wind_extremes",
			Name:      "fit_duration_seconds",
			Help:      "Duration of a parse-validate-fit cycle.",
			Buckets:   []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
		}),
		SessionFitted: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "wind_extremes",
			Name:      "session_fitted",
			Help:      "1 when the session holds fitted parameters, 0 when unfit.",
		}),
		ObservationCount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wind_extremes",
			Name:      "observation_count",
			Help:      "Number of valid observations per successful fit.",
			Buckets:   []float64{2, 3, 4, 6, 8, 10, 15, 20, 30, 50},
		}),
		SweepPoints: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wind_extremes",
			Name:      "sweep_points",
			Help:      "Number of renderable points per generated curve sweep.",
			Buckets:   []float64{10, 50, 100, 200, 400, 800, 1600},
		}),
		SweepCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wind_extremes",
			Name:      "sweep_cache_total",
			Help:      "Curve sweep cache lookups by result.",
		}, []string{"result"}),
		ProjectIO: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wind_extremes",
			Name:      "project_io_total",
			Help:      "Project file operations by op and outcome.",
		}, []string{"op", "outcome"}),
	}

	prometheus.MustRegister(
		m.FitsTotal,
		m.QueriesTotal,
		m.FitDuration,
		m.SessionFitted,
		m.ObservationCount,
		m.SweepPoints,
		m.SweepCache,
		m.ProjectIO,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		FitsTotal:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "wind_extremes", Name: "fits_total"}, []string{"outcome"}),
		QueriesTotal:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "wind_extremes", Name: "queries_total"}, []string{"kind", "outcome"}),
		FitDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "wind_extremes", Name: "fit_duration_seconds"}),
		SessionFitted:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "wind_extremes", Name: "session_fitted"}),
		ObservationCount: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "wind_extremes", Name: "observation_count"}),
		SweepPoints:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "wind_extremes", Name: "sweep_points"}),
		SweepCache:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "wind_extremes", Name: "sweep_cache_total"}, []string{"result"}),
		ProjectIO:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "wind_extremes", Name: "project_io_total"}, []string{"op", "outcome"}),
	}
}
