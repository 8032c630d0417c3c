package metrics_test

import (
	"testing"

	"course-registry/core/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	m.IncRegistration("supabase")
	m.IncRegistration("supabase")
	m.AddConflicts(3)
	m.IncConvergence("ephemeral", false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Registrations.WithLabelValues("supabase")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Conflicts))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ConvergenceWrite.WithLabelValues("ephemeral", "error")))
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.IncRegistration("local")
		m.IncAdapterFailure("primary", "list")
		m.AddConflicts(1)
		m.IncView("merged")
		m.IncResetTransition("soft_reset")
	})
}
