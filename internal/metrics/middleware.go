package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Middleware measures inflight, total, and duration per route pattern.
// Unmatched routes are collapsed into a single "unmatched" label.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.inflight.Inc()
		defer m.inflight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method

		m.reqTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.reqDur.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
