package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// UnmatchedRoute метка endpoint для запросов без зарегистрированного маршрута
const UnmatchedRoute = "unmatched"

// HTTPMetricsMiddleware учитывает длительность и число запросов по шаблону
// маршрута gin. Маршруты из skip (например /metrics) не учитываются.
func HTTPMetricsMiddleware(skip ...string) gin.HandlerFunc {
	skipped := make(map[string]struct{}, len(skip))
	for _, route := range skip {
		skipped[route] = struct{}{}
	}

	return func(c *gin.Context) {
		route := c.FullPath()
		if _, ok := skipped[route]; ok {
			c.Next()
			return
		}
		if route == "" {
			route = UnmatchedRoute
		}

		HTTPRequestsInFlight.Inc()
		defer HTTPRequestsInFlight.Dec()

		start := time.Now()
		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		HTTPRequestDuration.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
		HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
	}
}
