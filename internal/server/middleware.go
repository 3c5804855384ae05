package server

import (
	"strconv"
	"time"

	"github.com/budisantoso88/shipbid-app/internal/metrics"
	"github.com/budisantoso88/shipbid-app/utils"

	"github.com/gin-gonic/gin"
)

// RequestLoggerMiddleware logs incoming requests with timing and records their latency
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next() // process request

	latency := time.Since(start)
	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	metrics.HTTPRequestDuration.
		WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
		Observe(latency.Seconds())

	utils.Info("HTTP Request", map[string]any{
		"method":  c.Request.Method,
		"path":    c.Request.URL.Path,
		"route":   route,
		"status":  c.Writer.Status(),
		"latency": latency.String(),
	})
}
