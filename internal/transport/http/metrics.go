package http

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the prometheus instruments for the analysis API.
type Metrics struct {
	registry         *prometheus.Registry
	analysesTotal    *prometheus.CounterVec
	analysisDuration prometheus.Histogram
	droppedRowsTotal prometheus.Counter
}

// NewMetrics creates and registers the API metrics on a private registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		analysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "revpulse_analyses_total",
			Help: "Analysis runs by outcome.",
		}, []string{"status"}),
		analysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "revpulse_analysis_duration_seconds",
			Help:    "Wall-clock duration of analysis runs.",
			Buckets: prometheus.DefBuckets,
		}),
		droppedRowsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "revpulse_dropped_rows_total",
			Help: "Rows discarded during cleaning across all runs.",
		}),
	}

	registry.MustRegister(m.analysesTotal, m.analysisDuration, m.droppedRowsTotal)
	return m
}

// ObserveAnalysis records one analysis run outcome and its duration.
func (m *Metrics) ObserveAnalysis(status string, elapsed time.Duration) {
	m.analysesTotal.WithLabelValues(status).Inc()
	m.analysisDuration.Observe(elapsed.Seconds())
}

// AddDroppedRows accumulates cleaning drop counts.
func (m *Metrics) AddDroppedRows(count int) {
	m.droppedRowsTotal.Add(float64(count))
}

// Handler returns the /metrics endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
