package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/deskpulse/deskpulse/internal/interfaces/http/handlers"
)

// SystemRouteConfig holds dependencies for unauthenticated operational routes.
type SystemRouteConfig struct {
	HealthHandler *handlers.HealthHandler
	// Gatherer is nil when metrics are disabled.
	Gatherer    prometheus.Gatherer
	MetricsPath string
}

func SetupSystemRoutes(engine *gin.Engine, cfg *SystemRouteConfig) {
	engine.GET("/health", cfg.HealthHandler.HealthCheck)

	if cfg.Gatherer != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		engine.GET(path, gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}
}
