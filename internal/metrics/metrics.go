package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus instruments for Reachly.
type Metrics struct {
	// Campaign counters
	RunsTotal              *prometheus.CounterVec
	ContactsProcessedTotal *prometheus.CounterVec

	// Directory / log gauges, refreshed by the Collector
	ContactsByStatus *prometheus.GaugeVec
	LogEntriesTotal  prometheus.Gauge

	// API metrics
	APIRequestsTotal          *prometheus.CounterVec
	APIRequestDurationSeconds *prometheus.HistogramVec

	registry *prometheus.Registry
}

// New creates a Metrics instance with all instruments registered.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reachly_runs_total",
				Help: "Total number of campaign runs",
			},
			[]string{"mode", "status"},
		),
		ContactsProcessedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reachly_contacts_processed_total",
				Help: "Total number of processed contact attempts",
			},
			[]string{"outcome"},
		),
		ContactsByStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "reachly_contacts",
				Help: "Current number of contacts by derived status",
			},
			[]string{"status"},
		),
		LogEntriesTotal: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "reachly_activity_log_entries",
				Help: "Total number of activity log entries",
			},
		),
		APIRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reachly_api_requests_total",
				Help: "Total number of API requests",
			},
			[]string{"method", "path", "status"},
		),
		APIRequestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "reachly_api_request_duration_seconds",
				Help:    "API request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		registry: reg,
	}

	reg.MustRegister(
		m.RunsTotal,
		m.ContactsProcessedTotal,
		m.ContactsByStatus,
		m.LogEntriesTotal,
		m.APIRequestsTotal,
		m.APIRequestDurationSeconds,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveRun records the outcome of one campaign run.
func (m *Metrics) ObserveRun(mode, status string, outcomes map[string]int) {
	m.RunsTotal.WithLabelValues(mode, status).Inc()
	for outcome, n := range outcomes {
		m.ContactsProcessedTotal.WithLabelValues(outcome).Add(float64(n))
	}
}

// Handler returns the /metrics HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
