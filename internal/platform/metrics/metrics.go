package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics of the claim-intake service.
type Metrics struct {
	ActiveSessions   prometheus.Gauge
	SessionsCreated  *prometheus.CounterVec
	ClaimsSubmitted  *prometheus.CounterVec
	SubmissionErrors *prometheus.CounterVec
	SubmitLatency    prometheus.Histogram
	// Person lookups and creates, labeled by kind (customer, tutor) and outcome.
	PersonLookups *prometheus.CounterVec
	PersonCreates *prometheus.CounterVec
	// Outbound backend calls
	BackendRequests *prometheus.CounterVec
	BackendLatency  *prometheus.HistogramVec
	EndpointLatency *prometheus.HistogramVec
	StepsBlocked    *prometheus.CounterVec
	SearchQueries   *prometheus.CounterVec
	CircuitState    *prometheus.GaugeVec
}

// New registers all metrics on reg. Pass prometheus.DefaultRegisterer in main
// and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ActiveSessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "claims_active_form_sessions",
			Help: "Current number of open claim-form sessions",
		}),
		SessionsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "claims_form_sessions_created_total",
			Help: "Total number of claim-form sessions created, labeled by tenant",
		}, []string{"tenant"}),
		ClaimsSubmitted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "claims_submitted_total",
			Help: "Total number of claims accepted by the backend, labeled by tenant",
		}, []string{"tenant"}),
		SubmissionErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "claims_submission_errors_total",
			Help: "Total number of failed submissions, labeled by error code",
		}, []string{"code"}),
		SubmitLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "claims_submit_latency_seconds",
			Help:    "End-to-end latency of claim submissions in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		PersonLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "claims_person_lookups_total",
			Help: "Total number of person lookups by kind and outcome",
		}, []string{"kind", "outcome"}),
		PersonCreates: f.NewCounterVec(prometheus.CounterOpts{
			Name: "claims_person_creates_total",
			Help: "Total number of person records created by kind",
		}, []string{"kind"}),
		BackendRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "claims_backend_requests_total",
			Help: "Total number of backend API calls by operation and result category",
		}, []string{"operation", "result"}),
		BackendLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "claims_backend_latency_seconds",
			Help:    "Latency of backend API calls in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		EndpointLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "claims_endpoint_latency_seconds",
			Help:    "Latency of HTTP endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		StepsBlocked: f.NewCounterVec(prometheus.CounterOpts{
			Name: "claims_steps_blocked_total",
			Help: "Total number of refused forward navigations, labeled by current step",
		}, []string{"step"}),
		SearchQueries: f.NewCounterVec(prometheus.CounterOpts{
			Name: "claims_search_queries_total",
			Help: "Total number of ranked searches, labeled by kind (location, calling_code)",
		}, []string{"kind"}),
		CircuitState: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "claims_circuit_state",
			Help: "Circuit breaker state by name: 0 closed, 1 open, 2 half open",
		}, []string{"name"}),
	}
}

func (m *Metrics) IncrementActiveSessions() {
	m.ActiveSessions.Inc()
}

func (m *Metrics) DecrementActiveSessions() {
	m.ActiveSessions.Dec()
}

func (m *Metrics) IncrementSessionsCreated(tenant string) {
	m.SessionsCreated.WithLabelValues(tenant).Inc()
}

// IncrementClaimsSubmitted counts a claim accepted by the backend.
func (m *Metrics) IncrementClaimsSubmitted(tenant string) {
	m.ClaimsSubmitted.WithLabelValues(tenant).Inc()
}

func (m *Metrics) IncrementSubmissionErrors(code string) {
	m.SubmissionErrors.WithLabelValues(code).Inc()
}

func (m *Metrics) ObserveSubmitLatency(durationSeconds float64) {
	m.SubmitLatency.Observe(durationSeconds)
}

func (m *Metrics) IncrementPersonLookup(kind, outcome string) {
	m.PersonLookups.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) IncrementPersonCreate(kind string) {
	m.PersonCreates.WithLabelValues(kind).Inc()
}

// ObserveBackendCall records one outbound call; result is "ok" or an error category.
func (m *Metrics) ObserveBackendCall(operation, result string, durationSeconds float64) {
	m.BackendRequests.WithLabelValues(operation, result).Inc()
	m.BackendLatency.WithLabelValues(operation).Observe(durationSeconds)
}

// ObserveEndpointLatency records the latency for a given endpoint
func (m *Metrics) ObserveEndpointLatency(endpoint string, durationSeconds float64) {
	m.EndpointLatency.WithLabelValues(endpoint).Observe(durationSeconds)
}

func (m *Metrics) IncrementStepsBlocked(step string) {
	m.StepsBlocked.WithLabelValues(step).Inc()
}

func (m *Metrics) IncrementSearchQueries(kind string) {
	m.SearchQueries.WithLabelValues(kind).Inc()
}

// SetCircuitState records a breaker transition.
func (m *Metrics) SetCircuitState(name string, state int) {
	m.CircuitState.WithLabelValues(name).Set(float64(state))
}
