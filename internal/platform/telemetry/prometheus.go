package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Database metrics, recorded by the pgx query tracer.
var (
	// DBQueryDuration tracks query latency by statement verb.
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quoteboard_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"query"},
	)

	// DBErrorsTotal counts failed queries by statement verb.
	DBErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quoteboard_db_errors_total",
			Help: "Total database query errors",
		},
		[]string{"query"},
	)
)

// Quote board metrics
var (
	// VotesTotal counts accepted votes by value (like/dislike).
	VotesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quoteboard_votes_total",
			Help: "Total votes recorded by value",
		},
		[]string{"value"},
	)

	// ViewsTotal counts view increments.
	ViewsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quoteboard_views_total",
			Help: "Total quote views recorded",
		},
	)

	// LeaderboardCacheTotal counts leaderboard cache lookups by result (hit/miss/error).
	LeaderboardCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quoteboard_leaderboard_cache_total",
			Help: "Leaderboard cache lookups by result",
		},
		[]string{"result"},
	)
)

// Redis metrics, recorded by the cache adapter's hook.
var (
	// RedisOpsTotal counts Redis commands by name and status.
	RedisOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quoteboard_redis_operations_total",
			Help: "Total Redis operations by command and status",
		},
		[]string{"operation", "status"},
	)

	// RedisOpDuration tracks Redis command latency.
	RedisOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quoteboard_redis_operation_duration_seconds",
			Help:    "Redis operation duration in seconds",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1},
		},
		[]string{"operation"},
	)
)
