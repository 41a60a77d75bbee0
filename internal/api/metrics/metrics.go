// Package metrics defines the custom Prometheus collectors for the check-in
// API. HTTP request metrics come from echoprometheus; this package only holds
// domain counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gym_checkin"

// ── Check-in metrics ──────────────────────────────────────────────────────────

// CheckInsCreatedTotal counts check-ins that were persisted.
var CheckInsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "check_ins_created_total",
		Help:      "Total number of check-ins created.",
	},
)

// CheckInsRejectedTotal counts refused check-in creations.
// Label:
//   - reason: "max_distance", "duplicate", "gym_not_found" or "error"
var CheckInsRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "check_ins_rejected_total",
		Help:      "Total number of check-in attempts refused, by reason.",
	},
	[]string{"reason"},
)

// CheckInValidationsTotal counts validation attempts.
// Label:
//   - result: "validated", "expired", "already_validated", "not_found" or "error"
var CheckInValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "check_in_validations_total",
		Help:      "Total number of check-in validation attempts, by result.",
	},
	[]string{"result"},
)

// ── Gym metrics ───────────────────────────────────────────────────────────────

var GymsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gyms_created_total",
		Help:      "Total number of gyms registered.",
	},
)

// NearbyGymsFound observes how many gyms a nearby search returned.
var NearbyGymsFound = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "nearby_gyms_found",
		Help:      "Number of gyms returned by nearby searches.",
		Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
	},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts POST /sessions outcomes.
// Label:
//   - result: "success", "invalid_credentials", "throttled" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of authentication attempts, by result.",
	},
	[]string{"result"},
)
