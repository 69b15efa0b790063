package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"gorm.io/gorm"

	"github.com/deskpulse/deskpulse/internal/infrastructure/config"
	"github.com/deskpulse/deskpulse/internal/shared/logger"
)

// Router represents the HTTP router configuration
type Router struct {
	engine    *gin.Engine
	container *Container
	cfg       *config.Config
	logger    logger.Interface
}

// NewRouter creates a new HTTP router with all dependencies
func NewRouter(db *gorm.DB, cfg *config.Config, log logger.Interface) *Router {
	c := NewContainer(db, cfg, log)
	return &Router{
		engine:    c.engine,
		container: c,
		cfg:       cfg,
		logger:    log,
	}
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// Handler returns the root handler, wrapped for tracing when enabled.
func (r *Router) Handler() http.Handler {
	if !r.cfg.Tracing.Enabled {
		return r.engine
	}
	return otelhttp.NewHandler(r.engine, r.cfg.Tracing.ServiceName,
		otelhttp.WithSpanNameFormatter(func(_ string, req *http.Request) string {
			return req.Method + " " + req.URL.Path
		}),
	)
}

// StartBackground launches the chat relay subscriber.
func (r *Router) StartBackground(ctx context.Context) {
	r.container.StartBackground(ctx)
}

// Shutdown gracefully shuts down background services and open WebSocket connections
func (r *Router) Shutdown() {
	r.container.Shutdown()
}
