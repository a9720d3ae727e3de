// Package metrics provides Prometheus metrics for the tournament relay.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus collectors for the relay.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Coordinator event path
	eventsHandled *prometheus.CounterVec
	eventsDropped prometheus.Counter
	eventLatency  prometheus.Histogram
	queueSize     prometheus.Gauge
	queueCapacity prometheus.Gauge

	// Overlay fan-out
	overlayClients  prometheus.Gauge
	broadcastsSent  *prometheus.CounterVec
	broadcastErrors prometheus.Counter
	echoedMessages  prometheus.Counter

	// Aggregator
	standingsComputed prometheus.Counter
	ledgerResets      prometheus.Counter
	teamsEliminated   prometheus.Counter

	// Control-plane HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "ta_relay",
		subsystem:        "relay",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.eventsHandled = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "coordinator_events_handled_total",
		Help:      "Total number of coordinator events handled, by event type",
	}, []string{"event"})

	m.eventsDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "coordinator_events_dropped_total",
		Help:      "Total number of coordinator events dropped on queue backpressure",
	})

	m.eventLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "event_handling_latency_milliseconds",
		Help:      "Histogram of per-event handling latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "event_queue_size",
		Help:      "Current number of queued coordinator events",
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "event_queue_capacity",
		Help:      "Configured capacity of the coordinator event queue",
	})

	m.overlayClients = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "overlay_clients_connected",
		Help:      "Number of overlay clients currently connected to the forwarder",
	})

	m.broadcastsSent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "broadcasts_sent_total",
		Help:      "Total number of broadcast messages sent, by message type",
	}, []string{"type"})

	m.broadcastErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "broadcast_errors_total",
		Help:      "Total number of failed sends to overlay clients",
	})

	m.echoedMessages = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "echoed_messages_total",
		Help:      "Total number of inbound overlay messages echoed back",
	})

	m.standingsComputed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "standings_computed_total",
		Help:      "Total number of standings computations",
	})

	m.ledgerResets = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ledger_resets_total",
		Help:      "Total number of score ledger resets",
	})

	m.teamsEliminated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "teams_eliminated_total",
		Help:      "Total number of bottom-team eliminations",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total control-plane HTTP requests",
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "Control-plane HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})
}

// GetRegistry returns the registry backing the global manager, for /metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// RecordEventHandled increments the handled-events counter for an event type.
func RecordEventHandled(event string) {
	globalManager.eventsHandled.WithLabelValues(event).Inc()
}

// RecordEventDropped increments the dropped-events counter.
func RecordEventDropped() {
	globalManager.eventsDropped.Inc()
}

// RecordEventLatency records per-event handling latency in milliseconds.
func RecordEventLatency(ms float64) {
	globalManager.eventLatency.Observe(ms)
}

// UpdateQueueSize sets the current event queue size.
func UpdateQueueSize(n int) {
	globalManager.queueSize.Set(float64(n))
}

// UpdateQueueCapacity sets the configured event queue capacity.
func UpdateQueueCapacity(n int) {
	globalManager.queueCapacity.Set(float64(n))
}

// UpdateOverlayClients sets the connected overlay client count.
func UpdateOverlayClients(n int) {
	globalManager.overlayClients.Set(float64(n))
}

// RecordBroadcast increments the broadcast counter for a message type.
func RecordBroadcast(messageType string) {
	globalManager.broadcastsSent.WithLabelValues(messageType).Inc()
}

// RecordBroadcastError increments the failed-send counter.
func RecordBroadcastError() {
	globalManager.broadcastErrors.Inc()
}

// RecordEchoedMessage increments the echoed-messages counter.
func RecordEchoedMessage() {
	globalManager.echoedMessages.Inc()
}

// RecordStandingsComputed increments the standings-computation counter.
func RecordStandingsComputed() {
	globalManager.standingsComputed.Inc()
}

// RecordLedgerReset increments the ledger-reset counter.
func RecordLedgerReset() {
	globalManager.ledgerResets.Inc()
}

// RecordTeamEliminated increments the elimination counter.
func RecordTeamEliminated() {
	globalManager.teamsEliminated.Inc()
}

// RecordHTTPRequest records a control-plane HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration records control-plane HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
}
