package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registration outcomes
const (
	OutcomeSuccess   = "success"
	OutcomeDuplicate = "duplicate"
	OutcomeNotFound  = "not_found"
	OutcomeDenied    = "denied"
	OutcomeError     = "error"
)

// Metrics provides observability for the records service.
// Each instance owns its registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	RegistrationsTotal  *prometheus.CounterVec
	DropsTotal          *prometheus.CounterVec
	ResultsRecorded     prometheus.Counter
	ProjectionDuration  *prometheus.HistogramVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates a Metrics instance with all records metrics registered.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RegistrationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "unirecords_registrations_total",
			Help: "Register calls by outcome",
		}, []string{"outcome"}),
		DropsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "unirecords_drops_total",
			Help: "Drop calls by outcome",
		}, []string{"outcome"}),
		ResultsRecorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "unirecords_results_recorded_total",
			Help: "Total number of grade results recorded",
		}),
		ProjectionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "unirecords_projection_duration_seconds",
			Help:    "Duration of read-side projections",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		}, []string{"projection"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "unirecords_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// Registry returns the registry the metrics are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRegistration counts a Register call.
func (m *Metrics) ObserveRegistration(outcome string) {
	if m == nil {
		return
	}
	m.RegistrationsTotal.WithLabelValues(outcome).Inc()
}

// ObserveDrop counts a Drop call.
func (m *Metrics) ObserveDrop(outcome string) {
	if m == nil {
		return
	}
	m.DropsTotal.WithLabelValues(outcome).Inc()
}

// IncrementResultsRecorded records a successful RecordResult.
func (m *Metrics) IncrementResultsRecorded() {
	if m == nil {
		return
	}
	m.ResultsRecorded.Inc()
}

// ObserveProjection records the duration of a projection.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveProjection(name string, start time.Time) {
	if m == nil {
		return
	}
	m.ProjectionDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
}

// ObserveHTTPRequest records the duration of an HTTP request.
func (m *Metrics) ObserveHTTPRequest(method, route, status string, start time.Time) {
	if m == nil {
		return
	}
	m.HTTPRequestDuration.WithLabelValues(method, route, status).Observe(time.Since(start).Seconds())
}
