package scene

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts culling work. Register it once per registry.
type Metrics struct {
	FrustumTests      *prometheus.CounterVec
	IntersectionTests *prometheus.CounterVec
	UpdateDuration    prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FrustumTests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gocull",
			Name:      "frustum_tests_total",
			Help:      "Frustum tests by result.",
		}, []string{"result"}),
		IntersectionTests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gocull",
			Name:      "intersection_tests_total",
			Help:      "Pairwise intersection tests by the tier that decided them.",
		}, []string{"tier"}),
		UpdateDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "gocull",
			Name:      "update_duration_seconds",
			Help:      "Time spent updating all bounding volumes of a scene.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}
	reg.MustRegister(m.FrustumTests, m.IntersectionTests, m.UpdateDuration)
	return m
}

func (m *Metrics) frustum(visible bool) {
	if m == nil {
		return
	}
	result := "culled"
	if visible {
		result = "visible"
	}
	m.FrustumTests.WithLabelValues(result).Inc()
}

func (m *Metrics) intersection(tier string) {
	if m == nil {
		return
	}
	m.IntersectionTests.WithLabelValues(tier).Inc()
}

func (m *Metrics) observeUpdate(seconds float64) {
	if m == nil {
		return
	}
	m.UpdateDuration.Observe(seconds)
}
