// Package metrics exposes the engine's Prometheus counters and gauges,
// scraped by the admin HTTP surface's /api/metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry groups every counter/gauge the core updates. A single
// instance is constructed at startup and threaded through the
// dispatcher and transport layers.
type Registry struct {
	OrdersAccepted prometheus.Counter
	OrdersRejected prometheus.Counter
	FillsEmitted   prometheus.Counter
	QueueDepth     prometheus.Gauge
	SessionsActive prometheus.Gauge
}

// New constructs and registers a fresh set of metrics against reg.
func New(reg *prometheus.Registry) *Registry {
	m := &Registry{
		OrdersAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchcore_orders_accepted_total",
			Help: "Orders accepted onto the dispatcher queue.",
		}),
		OrdersRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchcore_orders_rejected_total",
			Help: "Orders rejected at pre-flight validation or auth.",
		}),
		FillsEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchcore_fills_emitted_total",
			Help: "Fills produced by the matching kernel, including cascaded stops.",
		}),
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "matchcore_dispatcher_queue_depth",
			Help: "Orders currently buffered in the dispatcher queue.",
		}),
		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "matchcore_sessions_active",
			Help: "Currently connected client sessions.",
		}),
	}

	reg.MustRegister(m.OrdersAccepted, m.OrdersRejected, m.FillsEmitted, m.QueueDepth, m.SessionsActive)
	return m
}

// OrderAccepted, OrderRejected, FillEmitted and SetQueueDepth satisfy
// dispatcher.Metrics, keeping the dispatcher free of a direct
// Prometheus import.
func (m *Registry) OrderAccepted()        { m.OrdersAccepted.Inc() }
func (m *Registry) OrderRejected()        { m.OrdersRejected.Inc() }
func (m *Registry) FillEmitted()          { m.FillsEmitted.Inc() }
func (m *Registry) SetQueueDepth(n int)   { m.QueueDepth.Set(float64(n)) }
func (m *Registry) SessionConnected()     { m.SessionsActive.Inc() }
func (m *Registry) SessionDisconnected()  { m.SessionsActive.Dec() }
