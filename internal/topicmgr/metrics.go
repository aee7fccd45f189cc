package topicmgr

import (
	"github.com/prometheus/client_golang/prometheus"
)

// namespace is the leading part of all published metrics for the broker.
const namespace = "mqbroker"

const topicSubsystem = "topic" // sub-system associated with the topic config registry.

type metrics struct {
	Mutations   *prometheus.CounterVec // Number of versioned table mutations, by op.
	AutoCreates *prometheus.CounterVec // Outcomes of auto-create attempts, by result.
	topics      prometheus.Gauge       // Number of topics in the table.
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		Mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: topicSubsystem,
			Name:      "mutations_total",
			Help:      "Total number of versioned topic table mutations.",
		}, []string{"op"}),
		AutoCreates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: topicSubsystem,
			Name:      "autocreate_total",
			Help:      "Total number of topic auto-create attempts by result.",
		}, []string{"result"}),
		topics: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: topicSubsystem,
			Name:      "count",
			Help:      "Number of topics in the topic config table.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.PrometheusCollectors()...)
	}
	return m
}

// PrometheusCollectors returns all prometheus metrics of the registry.
func (m *metrics) PrometheusCollectors() []prometheus.Collector {
	return []prometheus.Collector{m.Mutations, m.AutoCreates, m.topics}
}

func (m *metrics) mutation(op string) {
	m.Mutations.WithLabelValues(op).Inc()
}

func (m *metrics) autoCreate(result string) {
	m.AutoCreates.WithLabelValues(result).Inc()
}
