package metrics

import "github.com/prometheus/client_golang/prometheus"

// PipelineMetrics exposes counters/histograms for classification and
// dispatch flows.
type PipelineMetrics struct {
	classifiedTotal *prometheus.CounterVec
	dispatchTotal   *prometheus.CounterVec
	dispatchLatency prometheus.Histogram
	glossTotal      *prometheus.CounterVec
}

func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	m := &PipelineMetrics{
		classifiedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "contactrelay",
			Subsystem: "pipeline",
			Name:      "classified_total",
			Help:      "Total classified rows by status and rejection reason",
		}, []string{"status", "reason"}),
		dispatchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "contactrelay",
			Subsystem: "dispatch",
			Name:      "outbound_total",
			Help:      "Total outbound template sends by status and failure cause",
		}, []string{"status", "cause"}),
		dispatchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "contactrelay",
			Subsystem: "dispatch",
			Name:      "send_latency_seconds",
			Help:      "Latency of individual gateway sends",
			Buckets:   prometheus.DefBuckets,
		}),
		glossTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "contactrelay",
			Subsystem: "enrich",
			Name:      "gloss_total",
			Help:      "Total rejection glosses by source",
		}, []string{"source"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.classifiedTotal, m.dispatchTotal, m.dispatchLatency, m.glossTotal)
	return m
}

func (m *PipelineMetrics) ObserveClassified(status, reason string) {
	if m == nil {
		return
	}
	m.classifiedTotal.WithLabelValues(status, reason).Inc()
}

func (m *PipelineMetrics) ObserveDispatch(status, cause string) {
	if m == nil {
		return
	}
	m.dispatchTotal.WithLabelValues(status, cause).Inc()
}

func (m *PipelineMetrics) ObserveSendLatency(seconds float64) {
	if m == nil {
		return
	}
	m.dispatchLatency.Observe(seconds)
}

func (m *PipelineMetrics) ObserveGloss(source string) {
	if m == nil {
		return
	}
	m.glossTotal.WithLabelValues(source).Inc()
}
