// Package metrics exposes Prometheus collectors for the HA link and the monitor.
// All methods are safe to call on a nil *Metrics, in which case they do nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hax"

type Metrics struct {
	broadcasts      prometheus.Counter
	messagesSent    *prometheus.CounterVec
	acks            prometheus.Counter
	promises        *prometheus.CounterVec
	pending         prometheus.Gauge
	deliveryLatency prometheus.Histogram
	processEvents   *prometheus.CounterVec
	healthUpdates   *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		broadcasts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "halink",
			Name:      "broadcasts_total",
			Help:      "Total number of note batches broadcasted over the HA link",
		}),
		messagesSent: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "halink",
			Name:      "messages_sent_total",
			Help:      "Total number of messages handed to a link, by result",
		}, []string{"result"}),
		acks: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "halink",
			Name:      "acks_total",
			Help:      "Total number of message acknowledgments received",
		}),
		promises: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "halink",
			Name:      "promises_total",
			Help:      "Total number of delivery promises, by outcome",
		}, []string{"outcome"}),
		pending: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "halink",
			Name:      "pending_promises",
			Help:      "Number of promises waiting for acknowledgment",
		}),
		deliveryLatency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "halink",
			Name:      "delivery_duration_seconds",
			Help:      "Time from broadcast until every link acknowledged the batch",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}),
		processEvents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "process_events_total",
			Help:      "Total number of process lifecycle events received",
		}, []string{"event", "type"}),
		healthUpdates: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "health_updates_total",
			Help:      "Total number of object health changes, by new status",
		}, []string{"status"}),
	}
}

func (m *Metrics) BroadcastStarted() {
	if m == nil {
		return
	}

	m.broadcasts.Inc()
}

func (m *Metrics) MessageSent(err error) {
	if m == nil {
		return
	}

	result := "ok"
	if err != nil {
		result = "error"
	}

	m.messagesSent.WithLabelValues(result).Inc()
}

func (m *Metrics) AcksReceived(n int) {
	if m == nil {
		return
	}

	m.acks.Add(float64(n))
}

func (m *Metrics) PromiseDelivered(took time.Duration) {
	if m == nil {
		return
	}

	m.promises.WithLabelValues("delivered").Inc()
	m.deliveryLatency.Observe(took.Seconds())
}

func (m *Metrics) PromiseAbandoned() {
	if m == nil {
		return
	}

	m.promises.WithLabelValues("abandoned").Inc()
}

func (m *Metrics) PromiseFailed() {
	if m == nil {
		return
	}

	m.promises.WithLabelValues("failed").Inc()
}

func (m *Metrics) SetPending(n int) {
	if m == nil {
		return
	}

	m.pending.Set(float64(n))
}

func (m *Metrics) ProcessEvent(event, typ string) {
	if m == nil {
		return
	}

	m.processEvents.WithLabelValues(event, typ).Inc()
}

func (m *Metrics) HealthUpdated(status string) {
	if m == nil {
		return
	}

	m.healthUpdates.WithLabelValues(status).Inc()
}
