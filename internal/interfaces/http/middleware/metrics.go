package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// RequestObserver records per-request HTTP metrics.
type RequestObserver interface {
	Observe(route, method string, status int, elapsed time.Duration)
}

// Metrics labels by the matched route template so ticket IDs do not
// explode label cardinality. Unmatched paths share one label.
func Metrics(observer RequestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		observer.Observe(route, c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
