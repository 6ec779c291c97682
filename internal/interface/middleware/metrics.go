package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/classical-review/internal/metrics"
)

// Metrics records method, matched route, status and latency of every request.
func Metrics(collector metrics.MetricsCollector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		collector.RecordHTTPRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
