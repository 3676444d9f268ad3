package metrics

import "github.com/prometheus/client_golang/prometheus"

// ResolverMetrics exposes counters/histograms for the response pipeline.
type ResolverMetrics struct {
	resolutions       *prometheus.CounterVec
	completionResults *prometheus.CounterVec
	completionLatency prometheus.Histogram
}

func NewResolverMetrics(reg prometheus.Registerer) *ResolverMetrics {
	m := &ResolverMetrics{
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "college_chatbot",
			Subsystem: "resolver",
			Name:      "resolutions_total",
			Help:      "Chat replies by the tier that produced them",
		}, []string{"source"}),
		completionResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "college_chatbot",
			Subsystem: "completion",
			Name:      "requests_total",
			Help:      "Completion service calls by outcome",
		}, []string{"outcome"}),
		completionLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "college_chatbot",
			Subsystem: "completion",
			Name:      "latency_seconds",
			Help:      "Latency of completion service calls",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.resolutions, m.completionResults, m.completionLatency)
	return m
}

func (m *ResolverMetrics) ObserveResolution(source string) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(source).Inc()
}

func (m *ResolverMetrics) ObserveCompletion(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.completionResults.WithLabelValues(outcome).Inc()
	m.completionLatency.Observe(seconds)
}
