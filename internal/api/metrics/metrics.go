// Package metrics defines and registers all custom Prometheus metrics for
// the MediPresence API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register themselves with the default Prometheus registry via
// promauto; the /metrics endpoint is mounted by the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "medipresence"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// RegistrationsTotal counts successfully created accounts.
// Label:
//   - role: the role granted at registration (e.g. "nurse")
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of staff accounts created, by role.",
	},
	[]string{"role"},
)

// LoginsTotal counts successful logins.
var LoginsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of successful logins.",
	},
)

// AuthFailuresTotal counts rejected authentication attempts.
// Label:
//   - reason: "bad_credentials", "invalid_token", or "token_expired"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of rejected authentication attempts, by reason.",
	},
	[]string{"reason"},
)

// ── Alert metrics ─────────────────────────────────────────────────────────────

// AlertsRaisedTotal counts alerts raised by the presence monitors.
// Labels:
//   - alert_type: e.g. "shift_overdue", "doctor_offline"
//   - priority: e.g. "high", "critical"
var AlertsRaisedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alerts_raised_total",
		Help:      "Total number of operational alerts raised, by type and priority.",
	},
	[]string{"alert_type", "priority"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditEntriesTotal counts audit entries successfully persisted.
// Label:
//   - action: the audited action (e.g. "login", "patient_created")
var AuditEntriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_entries_total",
		Help:      "Total number of audit entries written, by action.",
	},
	[]string{"action"},
)

// AuditErrorsTotal counts audit entries that failed to persist.
// Label:
//   - reason: "queue_full" or "write_failed"
var AuditErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_errors_total",
		Help:      "Total number of audit entries lost, by reason.",
	},
	[]string{"reason"},
)

// AuditQueueDepth tracks the number of entries waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit entries pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
