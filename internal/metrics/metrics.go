package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	registry *prometheus.Registry

	// Tool metrics
	ToolInvocationsTotal *prometheus.CounterVec
	ToolDuration         *prometheus.HistogramVec

	// Bridge RPC metrics
	RPCCallsTotal *prometheus.CounterVec

	// Gateway metrics
	ConnectedClients prometheus.Gauge
}

// NewMetrics creates and registers all metrics
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		ToolInvocationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slicer_tool_invocations_total",
				Help: "Total number of Slicer tool invocations",
			},
			[]string{"tool", "status"},
		),
		ToolDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "slicer_tool_duration_seconds",
				Help:    "Duration of Slicer tool invocations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"tool"},
		),

		RPCCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slicer_bridge_rpc_calls_total",
				Help: "Total number of RPC calls issued to the Slicer bridge",
			},
			[]string{"method", "status"},
		),

		ConnectedClients: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "gateway_connected_clients",
				Help: "Number of currently connected gateway clients",
			},
		),
	}

	m.registerMetrics()

	return m
}

// registerMetrics registers all metrics with the registry
func (m *Metrics) registerMetrics() {
	m.registry.MustRegister(m.ToolInvocationsTotal)
	m.registry.MustRegister(m.ToolDuration)
	m.registry.MustRegister(m.RPCCallsTotal)
	m.registry.MustRegister(m.ConnectedClients)
}

// RecordToolInvocation records one tool invocation. Safe on a nil receiver
// so callers may run without metrics wired.
func (m *Metrics) RecordToolInvocation(tool, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.ToolInvocationsTotal.WithLabelValues(tool, status).Inc()
	m.ToolDuration.WithLabelValues(tool).Observe(duration.Seconds())
}

// RecordRPCCall records one bridge RPC call. Safe on a nil receiver.
func (m *Metrics) RecordRPCCall(method, status string) {
	if m == nil {
		return
	}
	m.RPCCallsTotal.WithLabelValues(method, status).Inc()
}

// Handler returns an HTTP handler for the metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry returns the Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
