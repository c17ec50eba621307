package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the calculator service.
type Metrics struct {
	Calculations       *prometheus.CounterVec // labels: operation
	ValidationFailures *prometheus.CounterVec // labels: operation
	ReportsGenerated   *prometheus.CounterVec // labels: format={pdf,xlsx}
	WidgetEvents       *prometheus.CounterVec // labels: event
	LeadsCaptured      prometheus.Counter
}

func newMetrics() *Metrics {
	return &Metrics{
		Calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ductcalc",
			Name:      "calculations_total",
			Help:      "Completed calculations by operation.",
		}, []string{"operation"}),
		ValidationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ductcalc",
			Name:      "validation_failures_total",
			Help:      "Requests rejected by input validation, by operation.",
		}, []string{"operation"}),
		ReportsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ductcalc",
			Name:      "reports_generated_total",
			Help:      "Exported reports by format.",
		}, []string{"format"}),
		WidgetEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ductcalc",
			Name:      "widget_events_total",
			Help:      "Analytics events emitted by embedded widgets.",
		}, []string{"event"}),
		LeadsCaptured: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ductcalc",
			Name:      "leads_captured_total",
			Help:      "Consultation requests stored.",
		}),
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Calculations,
		m.ValidationFailures,
		m.ReportsGenerated,
		m.WidgetEvents,
		m.LeadsCaptured,
	)
	return m
}

// NewMetricsForTesting creates unregistered metrics so tests can build
// as many as they like without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
