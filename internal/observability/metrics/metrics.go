package metrics

import "github.com/prometheus/client_golang/prometheus"

// PipelineMetrics exposes counters/histograms for the classification pipeline.
type PipelineMetrics struct {
	violationsTotal   *prometheus.CounterVec
	offTopicTotal     *prometheus.CounterVec
	completionsTotal  *prometheus.CounterVec
	completionLatency prometheus.Histogram
	bookingShownTotal *prometheus.CounterVec
	contactTotal      *prometheus.CounterVec
}

func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	m := &PipelineMetrics{
		violationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "axie",
			Subsystem: "assistant",
			Name:      "security_violations_total",
			Help:      "Messages blocked by the security classifier",
		}, []string{"language", "reason"}),
		offTopicTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "axie",
			Subsystem: "assistant",
			Name:      "off_topic_total",
			Help:      "Messages redirected by the off-topic classifier",
		}, []string{"language"}),
		completionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "axie",
			Subsystem: "assistant",
			Name:      "completions_total",
			Help:      "Completion call outcomes",
		}, []string{"status"}),
		completionLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "axie",
			Subsystem: "assistant",
			Name:      "completion_latency_seconds",
			Help:      "Latency of the external completion call",
			Buckets:   prometheus.DefBuckets,
		}),
		bookingShownTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "axie",
			Subsystem: "assistant",
			Name:      "booking_shown_total",
			Help:      "Booking call-to-action displays",
		}, []string{"service_type"}),
		contactTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "axie",
			Subsystem: "assistant",
			Name:      "contact_webhook_total",
			Help:      "Contact webhook delivery outcomes",
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.violationsTotal,
		m.offTopicTotal,
		m.completionsTotal,
		m.completionLatency,
		m.bookingShownTotal,
		m.contactTotal,
	)
	return m
}

func (m *PipelineMetrics) ObserveViolation(language, reason string) {
	if m == nil {
		return
	}
	m.violationsTotal.WithLabelValues(language, reason).Inc()
}

func (m *PipelineMetrics) ObserveOffTopic(language string) {
	if m == nil {
		return
	}
	m.offTopicTotal.WithLabelValues(language).Inc()
}

func (m *PipelineMetrics) ObserveCompletion(status string, seconds float64) {
	if m == nil {
		return
	}
	m.completionsTotal.WithLabelValues(status).Inc()
	if status == "ok" {
		m.completionLatency.Observe(seconds)
	}
}

func (m *PipelineMetrics) ObserveBookingShown(serviceType string) {
	if m == nil {
		return
	}
	m.bookingShownTotal.WithLabelValues(serviceType).Inc()
}

func (m *PipelineMetrics) ObserveContact(status string) {
	if m == nil {
		return
	}
	m.contactTotal.WithLabelValues(status).Inc()
}
