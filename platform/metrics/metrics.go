// Package metrics provides Prometheus instrumentation for lead capture.
// This is part of the platform layer and contains no business logic.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the service's Prometheus collectors. A nil *Registry is
// valid and records nothing.
type Registry struct {
	gatherer prometheus.Gatherer

	LeadsCaptured   *prometheus.CounterVec
	CRMCalls        *prometheus.CounterVec
	GateDenials     *prometheus.CounterVec
	AnalyticsEmits  *prometheus.CounterVec
	LeadScores      prometheus.Histogram
	TrackingEnqueue *prometheus.CounterVec
}

// New creates a registry backed by its own prometheus.Registry.
func New() *Registry {
	reg := prometheus.NewRegistry()
	m := &Registry{
		gatherer: reg,
		LeadsCaptured: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leads_captured_total",
				Help: "Total number of captured lead actions by source",
			},
			[]string{"source"},
		),
		CRMCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crm_calls_total",
				Help: "Total number of CRM calls by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		GateDenials: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "resource_gate_denials_total",
				Help: "Total number of premium downloads refused for insufficient score",
			},
			[]string{"resource"},
		),
		AnalyticsEmits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analytics_emits_total",
				Help: "Total number of conversion emissions by sink and outcome",
			},
			[]string{"sink", "outcome"},
		),
		LeadScores: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "lead_score",
				Help:    "Cumulative lead score after each scoring action",
				Buckets: []float64{0, 10, 25, 50, 75, 90, 100},
			},
		),
		TrackingEnqueue: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tracking_deliveries_total",
				Help: "Total number of CRM event deliveries by mode and outcome",
			},
			[]string{"mode", "outcome"},
		),
	}

	reg.MustRegister(
		m.LeadsCaptured,
		m.CRMCalls,
		m.GateDenials,
		m.AnalyticsEmits,
		m.LeadScores,
		m.TrackingEnqueue,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Registry) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Gatherer returns the underlying gatherer.
func (m *Registry) Gatherer() prometheus.Gatherer {
	if m == nil {
		return prometheus.NewRegistry()
	}
	return m.gatherer
}

func (m *Registry) LeadCaptured(source string, score int) {
	if m == nil {
		return
	}
	m.LeadsCaptured.WithLabelValues(source).Inc()
	m.LeadScores.Observe(float64(score))
}

func (m *Registry) CRMCall(operation string, err error) {
	if m == nil {
		return
	}
	m.CRMCalls.WithLabelValues(operation, outcome(err)).Inc()
}

func (m *Registry) GateDenied(resourceID string) {
	if m == nil {
		return
	}
	m.GateDenials.WithLabelValues(resourceID).Inc()
}

func (m *Registry) AnalyticsEmit(sink string, err error) {
	if m == nil {
		return
	}
	m.AnalyticsEmits.WithLabelValues(sink, outcome(err)).Inc()
}

func (m *Registry) TrackingDelivery(mode string, err error) {
	if m == nil {
		return
	}
	m.TrackingEnqueue.WithLabelValues(mode, outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
