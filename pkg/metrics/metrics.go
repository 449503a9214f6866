package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors for the API.
type Metrics struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Engagement
	RelationTogglesTotal           *prometheus.CounterVec
	WatchHistoryUpdatesTotal       prometheus.Counter
	PlaylistMembershipChangesTotal *prometheus.CounterVec

	// Feeds
	FeedComposeDuration *prometheus.HistogramVec

	ErrorsTotal *prometheus.CounterVec
}

var (
	instance *Metrics
	once     sync.Once
)

// Initialize creates and registers every collector. Safe to call repeatedly.
func Initialize() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			HTTPRequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "http_requests_total",
					Help: "Total number of HTTP requests",
				},
				[]string{"method", "path", "status"},
			),
			HTTPRequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_request_duration_seconds",
					Help:    "HTTP request latency in seconds",
					Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
				},
				[]string{"method", "path", "status"},
			),
			RelationTogglesTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "relation_toggles_total",
					Help: "Like and subscription toggles by target type and resulting state",
				},
				[]string{"target_type", "state"},
			),
			WatchHistoryUpdatesTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "watch_history_updates_total",
					Help: "Successful watch history updates",
				},
			),
			PlaylistMembershipChangesTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "playlist_membership_changes_total",
					Help: "Videos added to or removed from playlists",
				},
				[]string{"op"},
			),
			FeedComposeDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "feed_compose_duration_seconds",
					Help:    "Time to build one enriched feed page",
					Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
				},
				[]string{"feed"},
			),
			ErrorsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "errors_total",
					Help: "Errors returned to clients by kind",
				},
				[]string{"kind"},
			),
		}
	})
	return instance
}

// Get returns the registered collectors, initializing them on first use.
func Get() *Metrics {
	return Initialize()
}
