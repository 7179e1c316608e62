package metrics

import "github.com/prometheus/client_golang/prometheus"

// CitasMetrics exposes counters/histograms for the appointment lifecycle.
type CitasMetrics struct {
	transitionsTotal *prometheus.CounterVec
	decodeFallbacks  *prometheus.CounterVec
	requestLatency   *prometheus.HistogramVec
}

func NewCitasMetrics(reg prometheus.Registerer) *CitasMetrics {
	m := &CitasMetrics{
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ipsalud",
			Subsystem: "citas",
			Name:      "transitions_total",
			Help:      "Total appointment status transitions",
		}, []string{"from", "to", "status"}),
		decodeFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ipsalud",
			Subsystem: "citas",
			Name:      "decode_fallbacks_total",
			Help:      "Documents that decoded to defaults because the raw blob was unusable",
		}, []string{"document"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ipsalud",
			Subsystem: "citas",
			Name:      "request_latency_seconds",
			Help:      "Latency of appointment service operations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.transitionsTotal, m.decodeFallbacks, m.requestLatency)
	return m
}

func (m *CitasMetrics) ObserveTransition(from, to, status string) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(from, to, status).Inc()
}

func (m *CitasMetrics) ObserveDecodeFallback(document string) {
	if m == nil {
		return
	}
	m.decodeFallbacks.WithLabelValues(document).Inc()
}

func (m *CitasMetrics) ObserveLatency(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.requestLatency.WithLabelValues(operation).Observe(seconds)
}
