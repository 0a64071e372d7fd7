package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Stream resolution outcomes
const (
	OutcomeResolved     = "resolved"
	OutcomeMalformed    = "malformed"
	OutcomeLookupMiss   = "lookup_miss"
	OutcomeLookupFailed = "lookup_failed"
)

var (
	// AddonRequestsTotal counts addon HTTP requests per resource and response code.
	AddonRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "addon_requests_total",
			Help: "Total number of addon requests.",
		},
		[]string{"resource", "code"},
	)

	// StreamResolutionsTotal counts stream requests by how the identifier resolved.
	StreamResolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stream_resolutions_total",
			Help: "Total number of stream identifier resolutions.",
		},
		[]string{"outcome"},
	)

	// TMDBRequestsTotal counts outbound TMDB calls per endpoint and status.
	// Transport failures are recorded with status "error".
	TMDBRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tmdb_requests_total",
			Help: "Total number of requests sent to TMDB.",
		},
		[]string{"endpoint", "status"},
	)
)

func init() {
	prometheus.MustRegister(
		AddonRequestsTotal,
		StreamResolutionsTotal,
		TMDBRequestsTotal,
	)
}
