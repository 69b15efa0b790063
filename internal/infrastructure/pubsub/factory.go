package pubsub

import (
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/deskpulse/deskpulse/internal/domain/chat"
	"github.com/deskpulse/deskpulse/internal/shared/config"
	"github.com/deskpulse/deskpulse/internal/shared/logger"
)

// NewChatBroadcaster selects the broadcaster for the configured delivery driver.
// The Redis client may be nil unless the redis driver is selected.
func NewChatBroadcaster(cfg config.DeliveryConfig, client *redis.Client, log logger.Interface) (chat.Broadcaster, error) {
	switch cfg.Driver {
	case config.DeliveryDriverRedis:
		if client == nil {
			return nil, errRedisRequired
		}
		return NewRedisChatBroadcaster(client, cfg.ChannelPrefix, log.Named("chat-broadcaster")), nil
	case config.DeliveryDriverKafka:
		return NewKafkaChatBroadcaster(cfg.Kafka, log.Named("chat-broadcaster")), nil
	default:
		return PollingBroadcaster{}, nil
	}
}

var errRedisRequired = errors.New("redis client is required for the redis delivery driver")
