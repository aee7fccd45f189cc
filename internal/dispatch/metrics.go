package dispatch

import "github.com/prometheus/client_golang/prometheus"

const (
	namespace         = "mqbroker"
	dispatchSubsystem = "dispatch"
)

// newPublishedCounter counts registrations handed to the bus, by result.
func newPublishedCounter(reg prometheus.Registerer) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: dispatchSubsystem,
		Name:      "published_total",
		Help:      "Total number of topic registrations published on the bus.",
	}, []string{"result"})
	if reg != nil {
		reg.MustRegister(c)
	}
	return c
}

// newPropagatedCounter counts name server calls, by mode and result.
func newPropagatedCounter(reg prometheus.Registerer) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: dispatchSubsystem,
		Name:      "propagated_total",
		Help:      "Total number of topic registrations sent to the name server.",
	}, []string{"mode", "result"})
	if reg != nil {
		reg.MustRegister(c)
	}
	return c
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
