// Package metrics wraps the Prometheus collectors exposed by the chat
// broker, following the Registry + promauto + /metrics handler pattern
// used throughout the retrieved example corpus (e.g.
// go-server-3/internal/metrics).
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every collector the broker updates. Unlike a
// package-level global, one Registry is constructed in main and
// threaded through every component that needs it — consistent with the
// "no singletons" direction in spec.md §9.
type Registry struct {
	RoomsActive          prometheus.Gauge
	ClientsConnected     prometheus.Gauge
	MessagesBroadcast    prometheus.Counter
	BroadcastWriteErrors prometheus.Counter
	ProtocolErrors       prometheus.Counter
	AcceptErrors         prometheus.Counter

	CPUPercent     prometheus.Gauge
	MemoryBytes    prometheus.Gauge
	GoroutineCount prometheus.Gauge
}

// NewRegistry creates and registers every collector against the default
// Prometheus registerer.
func NewRegistry() *Registry {
	return &Registry{
		RoomsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "chatserver_rooms_active",
			Help: "Number of rooms currently present in the directory.",
		}),
		ClientsConnected: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "chatserver_clients_connected",
			Help: "Number of connections currently past the JOIN handshake.",
		}),
		MessagesBroadcast: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chatserver_messages_broadcast_total",
			Help: "Total number of per-recipient message writes delivered by room broadcasts.",
		}),
		BroadcastWriteErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chatserver_broadcast_write_errors_total",
			Help: "Total number of per-recipient write failures swallowed during broadcast.",
		}),
		ProtocolErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chatserver_protocol_errors_total",
			Help: "Total number of connections rejected with ERROR before JOIN for a malformed, incomplete, or oversize first frame.",
		}),
		AcceptErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chatserver_accept_errors_total",
			Help: "Total number of listener accept errors.",
		}),
		CPUPercent: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "chatserver_process_cpu_percent",
			Help: "Most recently sampled process CPU percentage.",
		}),
		MemoryBytes: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "chatserver_process_memory_bytes",
			Help: "Most recently sampled Go heap allocation in bytes.",
		}),
		GoroutineCount: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "chatserver_goroutines",
			Help: "Most recently sampled goroutine count.",
		}),
	}
}

// Handler returns an HTTP handler exposing the Prometheus exposition
// format.
func (r *Registry) Handler() http.Handler {
	return promhttp.Handler()
}
