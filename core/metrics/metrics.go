package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "course_registry"

// Metrics holds all Prometheus metrics for the application.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registrations    *prometheus.CounterVec
	WriteFailures    *prometheus.CounterVec
	AdapterFailures  *prometheus.CounterVec
	Conflicts        prometheus.Counter
	ConvergenceWrite *prometheus.CounterVec
	Views            *prometheus.CounterVec
	ResetTransitions *prometheus.CounterVec
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Registrations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Accepted registrations by authoritative store.",
		}, []string{"storage"}),
		WriteFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "write_failures_total",
			Help:      "Failed registration writes by store and saga step.",
		}, []string{"adapter", "step"}),
		AdapterFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "adapter_failures_total",
			Help:      "Adapter operations that failed or timed out.",
		}, []string{"adapter", "op"}),
		Conflicts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_conflicts_total",
			Help:      "Duplicate records dropped by the priority rule during a merge.",
		}),
		ConvergenceWrite: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_convergence_writes_total",
			Help:      "Bulk replace operations issued to converge a weaker store.",
		}, []string{"target", "result"}),
		Views: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "views_total",
			Help:      "Reconciled views served by source tag.",
		}, []string{"source"}),
		ResetTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reset_transitions_total",
			Help:      "Reset state machine transitions.",
		}, []string{"state"}),
	}
}

// IncRegistration counts an accepted registration.
func (m *Metrics) IncRegistration(storage string) {
	if m == nil {
		return
	}
	m.Registrations.WithLabelValues(storage).Inc()
}

// IncWriteFailure counts a failed registration write.
func (m *Metrics) IncWriteFailure(adapter, step string) {
	if m == nil {
		return
	}
	m.WriteFailures.WithLabelValues(adapter, step).Inc()
}

// IncAdapterFailure counts a failed adapter operation.
func (m *Metrics) IncAdapterFailure(adapter, op string) {
	if m == nil {
		return
	}
	m.AdapterFailures.WithLabelValues(adapter, op).Inc()
}

// AddConflicts counts records dropped by deduplication.
func (m *Metrics) AddConflicts(n int) {
	if m == nil || n == 0 {
		return
	}
	m.Conflicts.Add(float64(n))
}

// IncConvergence counts a convergence write.
func (m *Metrics) IncConvergence(target string, ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.ConvergenceWrite.WithLabelValues(target, result).Inc()
}

// IncView counts a served view.
func (m *Metrics) IncView(source string) {
	if m == nil {
		return
	}
	m.Views.WithLabelValues(source).Inc()
}

// IncResetTransition counts a reset state transition.
func (m *Metrics) IncResetTransition(state string) {
	if m == nil {
		return
	}
	m.ResetTransitions.WithLabelValues(state).Inc()
}
