package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AcceptTotal counts accept attempts by outcome (accepted, rejected,
	// conflict, error).
	AcceptTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "referral_accepts_total",
			Help: "Accept attempts on referral tickets by outcome",
		},
		[]string{"outcome"},
	)

	// UnlocksGranted counts book unlocks issued for completed tickets.
	UnlocksGranted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "referral_unlocks_granted_total",
			Help: "Book unlocks granted for completed referral tickets",
		},
	)

	// RankShiftFailures counts campaign rank fan-outs that did not complete
	// in full and left the rank index to be reconciled or retried.
	RankShiftFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "referral_rank_shift_failures_total",
			Help: "Campaign rank shift fan-outs with at least one failed update",
		},
	)
)

const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)
