// Package metrics holds the Prometheus collectors for the webhook pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ticketclaw"

// Metrics is safe for concurrent use. A nil *Metrics discards everything so
// components can run without instrumentation in tests.
type Metrics struct {
	registry *prometheus.Registry

	events     *prometheus.CounterVec
	drafts     *prometheus.CounterVec
	notes      *prometheus.CounterVec
	redactions *prometheus.CounterVec
	alerts     *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "events_total",
				Help:      "Webhook events by outcome (normal, sensitive, no_ticket_id, invalid, unauthorized, error).",
			},
			[]string{"outcome"},
		),
		drafts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "drafter",
				Name:      "drafts_total",
				Help:      "Draft attempts by result.",
			},
			[]string{"result"},
		),
		notes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "dispatcher",
				Name:      "notes_total",
				Help:      "Ticket notes by kind (reply, flag) and status (posted, failed, skipped).",
			},
			[]string{"kind", "status"},
		),
		redactions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "redactor",
				Name:      "substitutions_total",
				Help:      "PII substitutions by kind.",
			},
			[]string{"kind"},
		),
		alerts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "notify",
				Name:      "alerts_total",
				Help:      "Review alerts by status (sent, failed).",
			},
			[]string{"status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "gateway",
				Name:      "request_duration_seconds",
				Help:      "Webhook handling latency.",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"status"},
		),
	}
	m.registry.MustRegister(m.events, m.drafts, m.notes, m.redactions, m.alerts, m.duration)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Event(outcome string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Draft(result string) {
	if m == nil {
		return
	}
	m.drafts.WithLabelValues(result).Inc()
}

func (m *Metrics) Note(kind, status string) {
	if m == nil {
		return
	}
	m.notes.WithLabelValues(kind, status).Inc()
}

func (m *Metrics) Redactions(emails, phones int) {
	if m == nil {
		return
	}
	if emails > 0 {
		m.redactions.WithLabelValues("email").Add(float64(emails))
	}
	if phones > 0 {
		m.redactions.WithLabelValues("phone").Add(float64(phones))
	}
}

func (m *Metrics) Alert(status string) {
	if m == nil {
		return
	}
	m.alerts.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveRequest(status string, seconds float64) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(status).Observe(seconds)
}
