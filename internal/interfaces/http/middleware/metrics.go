// Package middleware HTTP 미들웨어
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"insu-copy-ai-api/pkg/metrics"
)

// Metrics Prometheus 지표 수집 미들웨어
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = "unknown"
		}
		method := c.Request.Method

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}
