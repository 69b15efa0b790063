package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/deskpulse/deskpulse/internal/domain/chat"
	"github.com/deskpulse/deskpulse/internal/shared/config"
	"github.com/deskpulse/deskpulse/internal/shared/logger"
)

// ChatEventSubscriber relays broadcast chat events into this process.
type ChatEventSubscriber interface {
	Subscribe(ctx context.Context, handler func(event *chat.MessageEvent)) error
}

// RedisChatBroadcaster publishes chat events on one Redis channel per ticket
// and relays them back to local WebSocket connections on every instance.
type RedisChatBroadcaster struct {
	client *redis.Client
	prefix string
	logger logger.Interface
}

var (
	_ chat.Broadcaster    = (*RedisChatBroadcaster)(nil)
	_ ChatEventSubscriber = (*RedisChatBroadcaster)(nil)
)

func NewRedisChatBroadcaster(client *redis.Client, prefix string, logger logger.Interface) *RedisChatBroadcaster {
	return &RedisChatBroadcaster{
		client: client,
		prefix: prefix,
		logger: logger,
	}
}

func (b *RedisChatBroadcaster) Driver() string { return config.DeliveryDriverRedis }

func (b *RedisChatBroadcaster) SupportsPush() bool { return true }

// Broadcast publishes the event to <prefix>ticket.<id>.
func (b *RedisChatBroadcaster) Broadcast(ctx context.Context, event *chat.MessageEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal chat event: %w", err)
	}

	channel := b.prefix + event.Channel
	if err := b.client.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish chat event: %w", err)
	}

	b.logger.Debugw("chat event published to Redis",
		"channel", channel,
		"message_id", event.Data.ID,
	)
	return nil
}

// Subscribe blocks until ctx is done, invoking handler for every chat event
// published by any instance. Dropped connections are re-established with backoff.
func (b *RedisChatBroadcaster) Subscribe(ctx context.Context, handler func(event *chat.MessageEvent)) error {
	pattern := b.prefix + chat.ChannelPrefix + "*"
	backoff := time.Second
	maxBackoff := 30 * time.Second

	for {
		err := b.subscribe(ctx, pattern, handler)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		b.logger.Warnw("chat subscription disconnected, reconnecting",
			"pattern", pattern,
			"error", err,
			"backoff", backoff,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff = min(backoff*2, maxBackoff)
	}
}

func (b *RedisChatBroadcaster) subscribe(ctx context.Context, pattern string, handler func(event *chat.MessageEvent)) error {
	ps := b.client.PSubscribe(ctx, pattern)
	defer ps.Close()

	if _, err := ps.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", pattern, err)
	}

	b.logger.Infow("subscribed to chat event channels", "pattern", pattern)

	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			b.logger.Infow("chat event subscriber stopped", "reason", ctx.Err())
			return ctx.Err()

		case msg, ok := <-ch:
			if !ok {
				b.logger.Warnw("chat event channel closed", "pattern", pattern)
				return nil
			}

			event, err := decodeChatEvent(msg.Payload)
			if err != nil {
				b.logger.Warnw("failed to decode chat event",
					"channel", msg.Channel,
					"error", err,
				)
				continue
			}
			if expected := strings.TrimPrefix(msg.Channel, b.prefix); event.Channel != expected {
				b.logger.Warnw("chat event channel mismatch",
					"channel", msg.Channel,
					"event_channel", event.Channel,
				)
				continue
			}

			handler(event)
		}
	}
}

func decodeChatEvent(payload string) (*chat.MessageEvent, error) {
	var event chat.MessageEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return nil, err
	}
	if event.Event != chat.EventMessageSent {
		return nil, fmt.Errorf("unexpected event %q", event.Event)
	}
	return &event, nil
}

// PollingBroadcaster is the default driver: nothing is pushed and clients poll.
type PollingBroadcaster struct{}

var _ chat.Broadcaster = PollingBroadcaster{}

func (PollingBroadcaster) Broadcast(context.Context, *chat.MessageEvent) error { return nil }

func (PollingBroadcaster) Driver() string { return config.DeliveryDriverPolling }

func (PollingBroadcaster) SupportsPush() bool { return false }
