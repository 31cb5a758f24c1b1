package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LifecycleMetrics records ticket state-machine activity.
type LifecycleMetrics struct {
	transitions *prometheus.CounterVec
	rejections  *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	created     prometheus.Counter
}

// NewLifecycleMetrics registers the ticket lifecycle metrics on the provided registerer.
func NewLifecycleMetrics(reg prometheus.Registerer) *LifecycleMetrics {
	if reg == nil {
		return &LifecycleMetrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ticket_transitions_total",
		Help: "Applied ticket status transitions.",
	}, []string{"from", "to", "role"})
	rejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ticket_transition_rejections_total",
		Help: "Ticket transitions rejected by the rule table or status guard.",
	}, []string{"reason"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ticket_transition_duration_seconds",
		Help:    "Duration of transition transactions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"role"})
	created := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tickets_created_total",
		Help: "Tickets opened by delivery agents.",
	})
	reg.MustRegister(transitions, rejections, duration, created)
	return &LifecycleMetrics{
		transitions: transitions,
		rejections:  rejections,
		duration:    duration,
		created:     created,
	}
}

// IncTransition increments the applied-transition counter.
func (m *LifecycleMetrics) IncTransition(from, to, role string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to), normalizeLabel(role)).Inc()
}

// IncRejection increments the rejected-transition counter.
func (m *LifecycleMetrics) IncRejection(reason string) {
	if m == nil || m.rejections == nil {
		return
	}
	m.rejections.WithLabelValues(normalizeLabel(reason)).Inc()
}

// ObserveTransitionDuration records how long a transition transaction took.
func (m *LifecycleMetrics) ObserveTransitionDuration(role string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(role)).Observe(duration.Seconds())
}

// IncCreated increments the created-ticket counter.
func (m *LifecycleMetrics) IncCreated() {
	if m == nil || m.created == nil {
		return
	}
	m.created.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
