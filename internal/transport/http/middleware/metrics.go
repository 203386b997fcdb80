package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"itemboard/internal/metrics"
)

// Metrics records per-request counters and latency. The route label uses the
// registered pattern (e.g. /items/:id/edit) to keep cardinality bounded.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		metrics.HTTPRequestsTotal.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Inc()
		metrics.HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route).
			Observe(time.Since(start).Seconds())
	}
}
