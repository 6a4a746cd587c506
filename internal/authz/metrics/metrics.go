package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the authorization engine.
type Metrics struct {
	// Decisions by outcome, resource type, and whether ownership was enforced
	Decisions *prometheus.CounterVec

	// Requests served that enforcement would have denied (the BOLA signal)
	Bypasses *prometheus.CounterVec
}

// New creates a new Metrics instance with all engine metrics registered.
func New() *Metrics {
	return &Metrics{
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bola_demo_authz_decisions_total",
			Help: "Total authorization decisions by outcome, resource, and enforcement",
		}, []string{"outcome", "resource", "enforced"}),

		Bypasses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bola_demo_authz_bypasses_total",
			Help: "Requests served by the vulnerable API that ownership enforcement would have denied",
		}, []string{"resource"}),
	}
}

// IncrementDecision records one authorization decision.
func (m *Metrics) IncrementDecision(outcome, resource string, enforced bool) {
	if m != nil {
		m.Decisions.WithLabelValues(outcome, resource, strconv.FormatBool(enforced)).Inc()
	}
}

// IncrementBypass records one unenforced would-be deny.
func (m *Metrics) IncrementBypass(resource string) {
	if m != nil {
		m.Bypasses.WithLabelValues(resource).Inc()
	}
}
