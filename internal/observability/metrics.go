package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "conduit_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "conduit_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// CacheRequests counts cache lookups by key prefix and outcome.
	CacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "conduit_cache_requests_total",
		Help: "Total cache lookups by key prefix and hit/miss outcome",
	}, []string{"prefix", "outcome"})

	// ArticlesCreated counts published articles.
	ArticlesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "conduit_articles_created_total",
		Help: "Total number of articles created",
	})

	// UsersRegistered counts successful registrations.
	UsersRegistered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "conduit_users_registered_total",
		Help: "Total number of users registered",
	})

	// LoginFailures counts failed login attempts.
	LoginFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "conduit_login_failures_total",
		Help: "Total number of failed login attempts",
	})
)

// ObserveQuery records the latency of a database query.
func ObserveQuery(operation, table string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}

// TrackQuery returns a function that records query latency when called,
// typically with defer.
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		ObserveQuery(operation, table, start)
	}
}

// RecordCacheHit increments the hit counter for the key prefix.
func RecordCacheHit(prefix string) {
	CacheRequests.WithLabelValues(prefix, "hit").Inc()
}

// RecordCacheMiss increments the miss counter for the key prefix.
func RecordCacheMiss(prefix string) {
	CacheRequests.WithLabelValues(prefix, "miss").Inc()
}
