package http

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/deskpulse/deskpulse/internal/domain/chat"
	"github.com/deskpulse/deskpulse/internal/infrastructure/auth"
	"github.com/deskpulse/deskpulse/internal/infrastructure/cache"
	"github.com/deskpulse/deskpulse/internal/infrastructure/config"
	"github.com/deskpulse/deskpulse/internal/infrastructure/metrics"
	permissionInfra "github.com/deskpulse/deskpulse/internal/infrastructure/permission"
	"github.com/deskpulse/deskpulse/internal/infrastructure/services"
	"github.com/deskpulse/deskpulse/internal/interfaces/http/middleware"
	"github.com/deskpulse/deskpulse/internal/shared/logger"
)

const relayStopTimeout = 5 * time.Second

// Container holds all infrastructure components, repositories, use cases, handlers,
// and background services. It is responsible for wiring everything together and
// providing a Shutdown() method for graceful termination.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	// Repositories
	repos *repositories

	// Use cases
	ucs *allUseCases

	// Handlers
	hdlrs *allHandlers

	// Middlewares
	authMiddleware       *middleware.AuthMiddleware
	permissionMiddleware *middleware.PermissionMiddleware
	rateLimiter          *middleware.RateLimiter

	// Auth infrastructure services
	jwtSvc       *auth.JWTService
	hasher       *auth.BcryptPasswordHasher
	revokedStore *cache.RevokedTokenStore
	enforcer     *permissionInfra.Enforcer

	// Metrics
	registry    *prometheus.Registry
	httpMetrics *metrics.HTTPMetrics
	chatMetrics *metrics.ChatMetrics

	// Chat delivery
	broadcaster chat.Broadcaster
	ticketHub   *services.TicketHub

	// Relay subscriber lifecycle
	relayCancel   context.CancelFunc
	relayDone     <-chan struct{}
	relayCancelMu sync.Mutex
}

// NewContainer creates a new Container with all dependencies wired together.
func NewContainer(db *gorm.DB, cfg *config.Config, log logger.Interface) *Container {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
	}

	// Section 1: Infrastructure - Redis, Repositories, Auth, Metrics
	c.initInfrastructure()

	// Section 2: Chat delivery - Broadcaster, Hub
	c.initDelivery()

	// Section 3: Use cases
	c.ucs = c.newUseCases()

	// Section 4: Handlers
	c.hdlrs = c.newHandlers()

	return c
}

// StartBackground launches the relay that feeds push events from other
// instances into this instance's WebSocket connections. It is a no-op unless
// the delivery driver supports subscription.
func (c *Container) StartBackground(ctx context.Context) {
	c.startRelay(ctx)
}

// Shutdown stops background work and closes every WebSocket connection.
func (c *Container) Shutdown() {
	c.relayCancelMu.Lock()
	done := c.relayDone
	if c.relayCancel != nil {
		c.relayCancel()
		c.relayCancel = nil
		c.relayDone = nil
	}
	c.relayCancelMu.Unlock()

	// The relay still holds the broadcaster's connection until it returns.
	if done != nil {
		select {
		case <-done:
		case <-time.After(relayStopTimeout):
			c.log.Warnw("chat relay did not stop in time", "timeout", relayStopTimeout)
		}
	}

	// Close WebSocket connections first so the HTTP server can drain quickly
	if c.ticketHub != nil {
		c.ticketHub.Shutdown()
	}

	if closer, ok := c.broadcaster.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			c.log.Warnw("failed to close chat broadcaster", "error", err)
		}
	}

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warnw("failed to close redis client", "error", err)
		}
	}
}
