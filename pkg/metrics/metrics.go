package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all service metrics
type Metrics struct {
	serviceName string
	registry    *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Kafka metrics
	KafkaEventsPublished *prometheus.CounterVec
	KafkaPublishDuration *prometheus.HistogramVec

	// MongoDB metrics
	MongoDBOperations        *prometheus.CounterVec
	MongoDBOperationDuration *prometheus.HistogramVec

	// Outbox metrics
	OutboxEventsPending prometheus.Gauge

	// Temporal metrics
	WorkflowsStarted   *prometheus.CounterVec
	WorkflowsCompleted *prometheus.CounterVec
	WorkflowDuration   *prometheus.HistogramVec

	// Business metrics
	SessionsStarted   *prometheus.CounterVec
	SessionsCompleted *prometheus.CounterVec
	SessionsReset     *prometheus.CounterVec
	StepsSubmitted    *prometheus.CounterVec
	RoundsPacked      *prometheus.CounterVec
	QuantityPacked    *prometheus.CounterVec
	CompensationRuns  *prometheus.CounterVec
	SSCCGenerated     *prometheus.CounterVec

	// Circuit breaker metrics
	CircuitBreakerState *prometheus.GaugeVec
	CircuitBreakerTrips *prometheus.CounterVec
}

// Config holds metrics configuration
type Config struct {
	ServiceName string
	Namespace   string
}

// DefaultConfig returns default metrics configuration
func DefaultConfig(serviceName string) *Config {
	return &Config{
		ServiceName: serviceName,
		Namespace:   "wms",
	}
}

// New creates a new Metrics instance
func New(config *Config) *Metrics {
	registry := prometheus.NewRegistry()

	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	m := &Metrics{
		serviceName: config.ServiceName,
		registry:    registry,
	}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"service", "method", "path"},
	)

	m.HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Name:        "http_requests_in_flight",
			Help:        "Number of HTTP requests currently being processed",
			ConstLabels: prometheus.Labels{"service": config.ServiceName},
		},
	)

	m.KafkaEventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "kafka_events_published_total",
			Help:      "Total number of Kafka events published",
		},
		[]string{"service", "topic", "event_type", "status"},
	)

	m.KafkaPublishDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "kafka_publish_duration_seconds",
			Help:      "Kafka publish duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"service", "topic"},
	)

	m.MongoDBOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "mongodb_operations_total",
			Help:      "Total number of MongoDB operations",
		},
		[]string{"service", "collection", "operation", "status"},
	)

	m.MongoDBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "mongodb_operation_duration_seconds",
			Help:      "MongoDB operation duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"service", "collection", "operation"},
	)

	m.OutboxEventsPending = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Name:        "outbox_events_pending",
			Help:        "Number of outbox events waiting to be published",
			ConstLabels: prometheus.Labels{"service": config.ServiceName},
		},
	)

	m.WorkflowsStarted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "temporal_workflows_started_total",
			Help:      "Total number of Temporal workflows started",
		},
		[]string{"service", "workflow_type"},
	)

	m.WorkflowsCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "temporal_workflows_completed_total",
			Help:      "Total number of Temporal workflows completed",
		},
		[]string{"service", "workflow_type", "status"},
	)

	m.WorkflowDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "temporal_workflow_duration_seconds",
			Help:      "Temporal workflow duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 300, 600, 1800, 3600},
		},
		[]string{"service", "workflow_type"},
	)

	m.SessionsStarted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "picking_sessions_started_total",
			Help:      "Total number of guided picking sessions started",
		},
		[]string{"service", "process"},
	)

	m.SessionsCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "picking_sessions_completed_total",
			Help:      "Total number of guided picking sessions completed",
		},
		[]string{"service", "process"},
	)

	m.SessionsReset = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "picking_sessions_reset_total",
			Help:      "Total number of guided picking sessions reset",
		},
		[]string{"service", "process"},
	)

	m.StepsSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "picking_steps_submitted_total",
			Help:      "Total number of workflow steps submitted",
		},
		[]string{"service", "step"},
	)

	m.RoundsPacked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "rounds_packed_total",
			Help:      "Total number of round packing validations",
		},
		[]string{"service", "model_type", "status"},
	)

	m.QuantityPacked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "quantity_packed_total",
			Help:      "Total quantity of articles moved into outbound handling units",
		},
		[]string{"service"},
	)

	m.CompensationRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "packing_compensation_runs_total",
			Help:      "Total number of packing compensation runs",
		},
		[]string{"service", "outcome"},
	)

	m.SSCCGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "sscc_generated_total",
			Help:      "Total number of SSCC generation calls",
		},
		[]string{"service", "status"},
	)

	m.CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: config.Namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"service", "name"},
	)

	m.CircuitBreakerTrips = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "circuit_breaker_trips_total",
			Help:      "Total number of circuit breaker trips",
		},
		[]string{"service", "name"},
	)

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.KafkaEventsPublished,
		m.KafkaPublishDuration,
		m.MongoDBOperations,
		m.MongoDBOperationDuration,
		m.OutboxEventsPending,
		m.WorkflowsStarted,
		m.WorkflowsCompleted,
		m.WorkflowDuration,
		m.SessionsStarted,
		m.SessionsCompleted,
		m.SessionsReset,
		m.StepsSubmitted,
		m.RoundsPacked,
		m.QuantityPacked,
		m.CompensationRuns,
		m.SSCCGenerated,
		m.CircuitBreakerState,
		m.CircuitBreakerTrips,
	)

	return m
}

// Handler returns an HTTP handler for the metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(m.serviceName, method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.serviceName, method, path).Observe(duration.Seconds())
}

// IncrementHTTPRequestsInFlight increments the in-flight gauge
func (m *Metrics) IncrementHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Inc()
}

// DecrementHTTPRequestsInFlight decrements the in-flight gauge
func (m *Metrics) DecrementHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Dec()
}

// RecordKafkaPublish records a Kafka publish attempt
func (m *Metrics) RecordKafkaPublish(topic, eventType string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	m.KafkaEventsPublished.WithLabelValues(m.serviceName, topic, eventType, status).Inc()
	m.KafkaPublishDuration.WithLabelValues(m.serviceName, topic).Observe(duration.Seconds())
}

// RecordMongoOperation records a MongoDB operation
func (m *Metrics) RecordMongoOperation(collection, operation string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	m.MongoDBOperations.WithLabelValues(m.serviceName, collection, operation, status).Inc()
	m.MongoDBOperationDuration.WithLabelValues(m.serviceName, collection, operation).Observe(duration.Seconds())
}

// SetOutboxPending sets the pending outbox events gauge
func (m *Metrics) SetOutboxPending(count int) {
	m.OutboxEventsPending.Set(float64(count))
}

// RecordWorkflowStarted records a workflow start
func (m *Metrics) RecordWorkflowStarted(workflowType string) {
	m.WorkflowsStarted.WithLabelValues(m.serviceName, workflowType).Inc()
}

// RecordWorkflowCompleted records a workflow completion
func (m *Metrics) RecordWorkflowCompleted(workflowType string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	m.WorkflowsCompleted.WithLabelValues(m.serviceName, workflowType, status).Inc()
	m.WorkflowDuration.WithLabelValues(m.serviceName, workflowType).Observe(duration.Seconds())
}

// RecordSessionStarted records a started picking session
func (m *Metrics) RecordSessionStarted(process string) {
	m.SessionsStarted.WithLabelValues(m.serviceName, process).Inc()
}

// RecordSessionCompleted records a completed picking session
func (m *Metrics) RecordSessionCompleted(process string) {
	m.SessionsCompleted.WithLabelValues(m.serviceName, process).Inc()
}

// RecordSessionReset records a session reset
func (m *Metrics) RecordSessionReset(process string) {
	m.SessionsReset.WithLabelValues(m.serviceName, process).Inc()
}

// RecordStepSubmitted records a submitted workflow step
func (m *Metrics) RecordStepSubmitted(step string) {
	m.StepsSubmitted.WithLabelValues(m.serviceName, step).Inc()
}

// RecordRoundPacked records a round packing validation
func (m *Metrics) RecordRoundPacked(modelType string, success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	m.RoundsPacked.WithLabelValues(m.serviceName, modelType, status).Inc()
}

// RecordQuantityPacked records the quantity moved into outbound handling units
func (m *Metrics) RecordQuantityPacked(quantity int) {
	m.QuantityPacked.WithLabelValues(m.serviceName).Add(float64(quantity))
}

// RecordCompensation records a compensation run outcome
func (m *Metrics) RecordCompensation(outcome string) {
	m.CompensationRuns.WithLabelValues(m.serviceName, outcome).Inc()
}

// RecordSSCCGenerated records an SSCC generation call
func (m *Metrics) RecordSSCCGenerated(success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	m.SSCCGenerated.WithLabelValues(m.serviceName, status).Inc()
}

// SetCircuitBreakerState records circuit breaker state
func (m *Metrics) SetCircuitBreakerState(name string, state int) {
	m.CircuitBreakerState.WithLabelValues(m.serviceName, name).Set(float64(state))
}

// RecordCircuitBreakerTrip records a circuit breaker trip
func (m *Metrics) RecordCircuitBreakerTrip(name string) {
	m.CircuitBreakerTrips.WithLabelValues(m.serviceName, name).Inc()
}
