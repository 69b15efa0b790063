package http

import (
	"github.com/deskpulse/deskpulse/internal/interfaces/http/middleware"
	"github.com/deskpulse/deskpulse/internal/interfaces/http/routes"
)

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	c := r.container

	r.engine.Use(middleware.Recovery(r.logger))
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.CustomLogger(r.logger))
	r.engine.Use(middleware.CORS(r.cfg.Server.AllowedOrigins))
	r.engine.Use(middleware.SecurityHeaders())
	r.engine.Use(middleware.Metrics(c.httpMetrics))

	systemCfg := &routes.SystemRouteConfig{
		HealthHandler: c.hdlrs.healthHandler,
		MetricsPath:   r.cfg.Metrics.Path,
	}
	if r.cfg.Metrics.Enabled {
		systemCfg.Gatherer = c.registry
	}
	routes.SetupSystemRoutes(r.engine, systemCfg)

	routes.SetupAuthRoutes(r.engine, &routes.AuthRouteConfig{
		AuthHandler:    c.hdlrs.authHandler,
		AuthMiddleware: c.authMiddleware,
		RateLimiter:    c.rateLimiter,
	})

	routes.SetupTicketRoutes(r.engine, &routes.TicketRouteConfig{
		TicketHandler:        c.hdlrs.ticketHandler,
		AuthMiddleware:       c.authMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
	})

	routes.SetupChatRoutes(r.engine, &routes.ChatRouteConfig{
		ChatHandler:      c.hdlrs.chatHandler,
		BroadcastHandler: c.hdlrs.broadcastHandler,
		AuthMiddleware:   c.authMiddleware,
		PushEnabled:      r.cfg.Delivery.PushEnabled(),
	})
}
