// Package metrics exposes Prometheus counters for the session and
// broadcast pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SessionsCreated counts successfully created sessions.
	SessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meetpoint_sessions_created_total",
		Help: "Number of sessions created.",
	})

	// SessionsEnded counts sessions flipped to the terminal state.
	SessionsEnded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meetpoint_sessions_ended_total",
		Help: "Number of sessions ended.",
	})

	// JoinsAccepted counts successful joins, labeled by whether the join
	// created a new participant row or hit the idempotent path.
	JoinsAccepted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "meetpoint_joins_accepted_total",
		Help: "Number of accepted join requests.",
	}, []string{"outcome"}) // "joined" or "already_joined"

	// LocationReports counts accepted participant location updates.
	LocationReports = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meetpoint_location_reports_total",
		Help: "Number of accepted location reports.",
	})

	// OptimalCalculations counts meeting point computations.
	OptimalCalculations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meetpoint_optimal_calculations_total",
		Help: "Number of optimal meeting point calculations.",
	})

	// BroadcastsPublished counts session views published to subscribers.
	BroadcastsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meetpoint_broadcasts_published_total",
		Help: "Number of session view broadcasts published.",
	})

	// BroadcastFailures counts broadcasts that could not be built or
	// published. Failures never propagate to the triggering request.
	BroadcastFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meetpoint_broadcast_failures_total",
		Help: "Number of failed session view broadcasts.",
	})
)
