// Package metrics defines and registers the application's Prometheus metrics.
// It is the single source of truth for metric names, labels and help strings.
//
// Metrics register with the default registry at package init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "s2cr"

// ── Authentication ────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts login attempts.
// Labels:
//   - kind: the claimed principal kind, or "unknown"
//   - result: "success", "unknown_email", "bad_password", "inactive",
//     "unknown_kind" or "throttled"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of login attempts, by claimed kind and result.",
	},
	[]string{"kind", "result"},
)

// RegistrationsTotal counts client self-registrations.
// Label:
//   - result: "created", "invalid" or "system_error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of client registration attempts, by result.",
	},
	[]string{"result"},
)

// ── Sessions ──────────────────────────────────────────────────────────────────

// SessionsCreatedTotal counts sessions issued at login.
// Label:
//   - kind: principal kind of the session owner
var SessionsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_created_total",
		Help:      "Total number of sessions created, by principal kind.",
	},
	[]string{"kind"},
)

// SessionsDestroyedTotal counts explicit session destructions (logout and
// stale-session eviction).
var SessionsDestroyedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_destroyed_total",
		Help:      "Total number of sessions destroyed.",
	},
)

// GuardDecisionsTotal counts access guard outcomes.
// Label:
//   - outcome: "authorized", "not_logged_in", "role_forbidden" or "session_expired"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of access guard decisions, by outcome.",
	},
	[]string{"outcome"},
)
