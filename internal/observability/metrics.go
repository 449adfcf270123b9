package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "appview_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// KeyResolutions counts signing-key resolutions by DID method and outcome.
	KeyResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "appview_key_resolutions_total",
		Help: "Total signing-key resolutions by DID method and outcome",
	}, []string{"method", "outcome"})

	// ProfileLookups counts batched profile lookups by outcome.
	ProfileLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "appview_profile_lookups_total",
		Help: "Total profile lookups by outcome",
	}, []string{"outcome"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
