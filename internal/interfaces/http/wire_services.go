package http

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	chatUsecases "github.com/deskpulse/deskpulse/internal/application/chat/usecases"
	ticketUsecases "github.com/deskpulse/deskpulse/internal/application/ticket/usecases"
	"github.com/deskpulse/deskpulse/internal/infrastructure/auth"
	"github.com/deskpulse/deskpulse/internal/infrastructure/cache"
	"github.com/deskpulse/deskpulse/internal/infrastructure/config"
	"github.com/deskpulse/deskpulse/internal/infrastructure/email"
	"github.com/deskpulse/deskpulse/internal/infrastructure/metrics"
	permissionInfra "github.com/deskpulse/deskpulse/internal/infrastructure/permission"
	"github.com/deskpulse/deskpulse/internal/infrastructure/pubsub"
	"github.com/deskpulse/deskpulse/internal/infrastructure/ratelimit"
	"github.com/deskpulse/deskpulse/internal/infrastructure/services"
	"github.com/deskpulse/deskpulse/internal/infrastructure/storage"
	"github.com/deskpulse/deskpulse/internal/interfaces/http/middleware"
	"github.com/deskpulse/deskpulse/internal/shared/goroutine"
	"github.com/deskpulse/deskpulse/internal/shared/logger"
)

// ============================================================
// Section 1: Infrastructure - Redis, Repositories, Auth, Metrics
// ============================================================

// initInfrastructure initializes Redis, all repositories, auth services,
// the permission enforcer, metrics and the request middlewares.
func (c *Container) initInfrastructure() {
	cfg := c.cfg
	log := c.log

	c.redis = initRedis(cfg, log)

	c.repos = newRepositories(c.db, log)

	c.jwtSvc = auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpMinutes)
	c.hasher = auth.NewBcryptPasswordHasher(cfg.Auth.Password.BcryptCost)
	c.revokedStore = cache.NewRevokedTokenStore(c.redis)

	enforcer, err := permissionInfra.NewEnforcer(c.db, log.Named("permission"))
	if err != nil {
		log.Fatalw("failed to create permission enforcer", "error", err)
	}
	if err := permissionInfra.InitDefaultPermissions(enforcer, log); err != nil {
		log.Fatalw("failed to initialize default permissions", "error", err)
	}
	c.enforcer = enforcer

	c.registry = prometheus.NewRegistry()
	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	c.httpMetrics = metrics.NewHTTPMetrics(c.registry)
	c.chatMetrics = metrics.NewChatMetrics(c.registry)

	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, c.revokedStore, log)
	c.rateLimiter = middleware.NewRateLimiter(c.redis, "auth", cfg.Auth.LoginRateLimit, time.Minute, log)
}

// initRedis creates and tests the Redis client connection.
func initRedis(cfg *config.Config, log logger.Interface) *redis.Client {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalw("failed to connect to Redis", "error", err)
	}
	log.Infow("Redis connection established successfully")

	return redisClient
}

// ============================================================
// Section 2: Chat delivery - Broadcaster, Hub
// ============================================================

func (c *Container) initDelivery() {
	broadcaster, err := pubsub.NewChatBroadcaster(c.cfg.Delivery, c.redis, c.log)
	if err != nil {
		c.log.Fatalw("failed to create chat broadcaster", "driver", c.cfg.Delivery.Driver, "error", err)
	}
	c.broadcaster = broadcaster
	c.ticketHub = services.NewTicketHub(c.log.Named("ticket-hub"))

	c.log.Infow("chat delivery configured",
		"driver", broadcaster.Driver(),
		"push", broadcaster.SupportsPush(),
	)
}

// startRelay subscribes the hub to the broadcaster when it can be read back.
func (c *Container) startRelay(parent context.Context) {
	source, ok := c.broadcaster.(services.ChatEventSource)
	if !ok {
		return
	}

	ctx, cancel := context.WithCancel(parent)
	done := goroutine.SafeGo(c.log, "chat-relay", func() {
		if err := c.ticketHub.Run(ctx, source); err != nil && !errors.Is(err, context.Canceled) {
			c.log.Errorw("chat relay stopped", "error", err)
		}
	})

	c.relayCancelMu.Lock()
	c.relayCancel = cancel
	c.relayDone = done
	c.relayCancelMu.Unlock()
}

// sendRateLimiter returns the per-user+ticket chat limiter, or nil when disabled.
func (c *Container) sendRateLimiter() chatUsecases.SendRateLimiter {
	if c.cfg.Chat.SendRateLimit <= 0 {
		return nil
	}
	return ratelimit.NewRedisRateLimiter(c.redis, ratelimit.Window{
		Limit:  c.cfg.Chat.SendRateLimit,
		Period: c.cfg.Chat.GetSendRateWindow(),
	})
}

// ============================================================
// Section 3: Ticketing collaborators - Storage, Email
// ============================================================

// blobStore returns the attachment store. The result is an untyped nil when
// storage is disabled so use cases can detect it.
func (c *Container) blobStore() ticketUsecases.BlobStore {
	if !c.cfg.Storage.Enabled {
		return nil
	}

	store, err := storage.NewMinioBlobStore(c.cfg.Storage, c.log.Named("storage"))
	if err != nil {
		c.log.Fatalw("failed to create attachment store", "endpoint", c.cfg.Storage.Endpoint, "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.EnsureBucket(ctx); err != nil {
		c.log.Fatalw("failed to prepare attachment bucket", "bucket", c.cfg.Storage.Bucket, "error", err)
	}
	return store
}

func (c *Container) notifier() ticketUsecases.Notifier {
	if !c.cfg.Email.Enabled() {
		return email.NewNoopNotifier(c.log.Named("email"))
	}
	return email.NewSMTPTicketNotifier(c.cfg.Email, c.log.Named("email"))
}
