package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProfileRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profile_requests_total",
			Help: "Total number of profile service requests",
		},
		[]string{"method", "path"},
	)

	ProfileRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "profile_requests_in_flight",
			Help: "Number of profile service requests currently being processed",
		},
	)

	ProfileRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "profile_request_duration_seconds",
			Help:    "Duration of profile service requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	ProfileReadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profile_reads_total",
			Help: "Total number of profile reads by result",
		},
		[]string{"result"},
	)

	ProfileUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profile_updates_total",
			Help: "Total number of profile updates by result",
		},
		[]string{"result"},
	)

	ProfileValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profile_validation_failures_total",
			Help: "Total number of rejected profile fields",
		},
		[]string{"field"},
	)

	DemoLoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "demo_logins_total",
			Help: "Total number of demo login attempts by result",
		},
		[]string{"result"},
	)

	AccessTokensIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "access_tokens_issued_total",
			Help: "Total number of access tokens issued",
		},
	)

	JWTValidationsFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jwt_validations_failed_total",
			Help: "Total number of failed JWT validations",
		},
	)

	ProfileEventSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "profile_event_subscribers",
			Help: "Number of connected profile event subscribers",
		},
	)

	ProfileEventsBroadcast = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "profile_events_broadcast_total",
			Help: "Total number of profile change events broadcast",
		},
	)

	ProfileEventsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "profile_events_dropped_total",
			Help: "Total number of profile change events dropped for slow subscribers",
		},
	)
)
