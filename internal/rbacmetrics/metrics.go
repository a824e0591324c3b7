// Package rbacmetrics exposes Prometheus counters for the RBAC engine's
// allow/deny/block/suppress decisions.
package rbacmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the RBAC engine's Prometheus instruments.
type Metrics struct {
	decisions       *prometheus.CounterVec
	blockedCommands *prometheus.CounterVec
	suppressedLogs  prometheus.Counter
}

// New registers the RBAC metrics against reg. Pass prometheus.DefaultRegisterer
// for the global registry, or a dedicated prometheus.Registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rbac",
			Name:      "tool_decisions_total",
			Help:      "Count of before_tool_call verdicts by decision, role, and tool.",
		}, []string{"decision", "role", "tool"}),

		blockedCommands: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rbac",
			Name:      "blocked_commands_total",
			Help:      "Count of slash-commands intercepted by the command guard.",
		}, []string{"command", "role"}),

		suppressedLogs: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "rbac",
			Name:      "rate_limited_audit_lines_total",
			Help:      "Count of audit log lines suppressed by the per-peer rate limiter.",
		}),
	}
}

// ObserveAllowed records an allowed tool-call verdict.
func (m *Metrics) ObserveAllowed(role, tool string) {
	m.decisions.WithLabelValues("allowed", role, tool).Inc()
}

// ObserveDenied records a denied tool-call verdict.
func (m *Metrics) ObserveDenied(role, tool string) {
	m.decisions.WithLabelValues("denied", role, tool).Inc()
}

// ObserveBlockedCommand records a command intercepted by the command guard.
func (m *Metrics) ObserveBlockedCommand(command, role string) {
	m.blockedCommands.WithLabelValues(command, role).Inc()
}

// ObserveSuppressedLog records a single rate-limited audit line.
func (m *Metrics) ObserveSuppressedLog() {
	m.suppressedLogs.Inc()
}
