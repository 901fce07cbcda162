// Package observability provides Prometheus metrics and OpenTelemetry tracing.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthFailures counts rejected log-in attempts by reason.
	AuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clubhouse_auth_failures_total",
		Help: "Total number of failed log-in attempts by reason",
	}, []string{"reason"})

	// SignUps counts successfully created accounts.
	SignUps = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clubhouse_signups_total",
		Help: "Total number of accounts created",
	})

	// MembershipGrants counts successful join-club submissions.
	MembershipGrants = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clubhouse_membership_grants_total",
		Help: "Total number of accepted club passphrase submissions",
	})

	// MessagesPosted counts created messages.
	MessagesPosted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clubhouse_messages_posted_total",
		Help: "Total number of messages posted",
	})

	// MessagesDeleted counts admin deletions.
	MessagesDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clubhouse_messages_deleted_total",
		Help: "Total number of messages deleted by admins",
	})

	// RateLimited counts requests rejected by the Redis-backed limiter.
	RateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clubhouse_rate_limited_total",
		Help: "Total number of requests rejected by rate limiting",
	}, []string{"resource"})

	// RedisErrors counts Redis errors by command.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clubhouse_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})
)
