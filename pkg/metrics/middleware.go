package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// Middleware records request count and latency per route template.
func Middleware() echo.MiddlewareFunc {
	m := Get()
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				// Let the error handler write the response so the status is final.
				c.Error(err)
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			status := strconv.Itoa(c.Response().Status)
			method := c.Request().Method

			m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
			m.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}

// ObserveFeed starts a timer for a feed build; call the returned func when done.
func ObserveFeed(feed string) func() {
	start := time.Now()
	return func() {
		Get().FeedComposeDuration.WithLabelValues(feed).Observe(time.Since(start).Seconds())
	}
}

func RecordToggle(targetType, state string) {
	Get().RelationTogglesTotal.WithLabelValues(targetType, state).Inc()
}

func RecordWatch() {
	Get().WatchHistoryUpdatesTotal.Inc()
}

func RecordPlaylistChange(op string) {
	Get().PlaylistMembershipChangesTotal.WithLabelValues(op).Inc()
}

func RecordError(kind string) {
	Get().ErrorsTotal.WithLabelValues(kind).Inc()
}
