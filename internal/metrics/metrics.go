package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	// HTTP metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Business metrics
	simulationsTotal   *prometheus.CounterVec
	simulationDuration prometheus.Histogram
	tradesTotal        *prometheus.CounterVec
	fetchFailures      *prometheus.CounterVec
	jobsActive         *prometheus.GaugeVec
}

// NewRegistry creates a metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		httpRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently in flight",
			},
		),
	}

	reg.MustRegister(r.httpRequestsTotal)
	reg.MustRegister(r.httpRequestDuration)
	reg.MustRegister(r.httpRequestsInFlight)

	// Business metrics
	r.simulationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartdca_simulations_total",
			Help: "Total number of per-symbol simulations",
		},
		[]string{"status"},
	)
	r.simulationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "smartdca_simulation_duration_seconds",
			Help:    "Per-symbol simulation duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)
	r.tradesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartdca_trades_total",
			Help: "Total number of simulated trades",
		},
		[]string{"type"},
	)
	r.fetchFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartdca_fetch_failures_total",
			Help: "Total number of failed series fetches",
		},
		[]string{"provider"},
	)
	r.jobsActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "smartdca_jobs_active",
			Help: "Number of active jobs",
		},
		[]string{"type"},
	)

	reg.MustRegister(r.simulationsTotal)
	reg.MustRegister(r.simulationDuration)
	reg.MustRegister(r.tradesTotal)
	reg.MustRegister(r.fetchFailures)
	reg.MustRegister(r.jobsActive)

	return r
}

// RecordRequest records metrics for an HTTP request.
func (r *Registry) RecordRequest(method, path string, status int, duration float64) {
	statusStr := statusToString(status)
	r.httpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	r.httpRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// InFlightInc increments in-flight requests.
func (r *Registry) InFlightInc() {
	r.httpRequestsInFlight.Inc()
}

// InFlightDec decrements in-flight requests.
func (r *Registry) InFlightDec() {
	r.httpRequestsInFlight.Dec()
}

// RecordSimulation records a completed per-symbol simulation.
func (r *Registry) RecordSimulation(status string, duration float64) {
	r.simulationsTotal.WithLabelValues(status).Inc()
	r.simulationDuration.Observe(duration)
}

// RecordTrade records a simulated trade by type.
func (r *Registry) RecordTrade(tradeType string) {
	r.tradesTotal.WithLabelValues(tradeType).Inc()
}

// RecordFetchFailure records a failed series fetch.
func (r *Registry) RecordFetchFailure(provider string) {
	r.fetchFailures.WithLabelValues(provider).Inc()
}

// SetJobsActive sets the number of active jobs of a type.
func (r *Registry) SetJobsActive(jobType string, count int) {
	r.jobsActive.WithLabelValues(jobType).Set(float64(count))
}

func statusToString(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
