package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/deskpulse/deskpulse/internal/interfaces/http/handlers"
	"github.com/deskpulse/deskpulse/internal/interfaces/http/middleware"
)

// AuthRouteConfig holds dependencies for authentication routes.
type AuthRouteConfig struct {
	AuthHandler    *handlers.AuthHandler
	AuthMiddleware *middleware.AuthMiddleware
	RateLimiter    *middleware.RateLimiter
}

// SetupAuthRoutes configures authentication routes. They live at the root.
func SetupAuthRoutes(engine *gin.Engine, cfg *AuthRouteConfig) {
	engine.POST("/register", cfg.RateLimiter.Limit(), cfg.AuthHandler.Register)
	engine.POST("/login", cfg.RateLimiter.Limit(), cfg.AuthHandler.Login)

	engine.POST("/logout", cfg.AuthMiddleware.RequireAuth(), cfg.AuthHandler.Logout)
	engine.GET("/user", cfg.AuthMiddleware.RequireAuth(), cfg.AuthHandler.CurrentUser)
}
