package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/deskpulse/deskpulse/internal/domain/chat"
	"github.com/deskpulse/deskpulse/internal/shared/config"
	"github.com/deskpulse/deskpulse/internal/shared/logger"
)

const kafkaWriteTimeout = 5 * time.Second

// messageWriter is the subset of *kafka.Writer the broadcaster needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// messageReader is the subset of *kafka.Reader the relay needs.
type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// KafkaChatBroadcaster writes chat events to a topic keyed by channel so an
// external push gateway sees each ticket's events in order. Subscribe reads
// the same topic back for this instance's WebSocket connections.
type KafkaChatBroadcaster struct {
	writer       messageWriter
	newReader    func() messageReader
	retryBackoff time.Duration
	logger       logger.Interface
}

var (
	_ chat.Broadcaster    = (*KafkaChatBroadcaster)(nil)
	_ ChatEventSubscriber = (*KafkaChatBroadcaster)(nil)
)

func NewKafkaChatBroadcaster(cfg config.KafkaConfig, logger logger.Interface) *KafkaChatBroadcaster {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
		Transport: &kafka.Transport{
			ClientID:    "deskpulse",
			MetadataTTL: 10 * time.Second,
		},
	}
	b := newKafkaChatBroadcaster(w, logger)

	// Every instance relays every event, so each one consumes under its own group.
	groupID := fmt.Sprintf("%s-relay-%s", cfg.Topic, uuid.NewString())
	b.newReader = func() messageReader {
		return kafka.NewReader(kafka.ReaderConfig{
			Brokers:     cfg.Brokers,
			Topic:       cfg.Topic,
			GroupID:     groupID,
			StartOffset: kafka.LastOffset,
			MinBytes:    1,
			MaxBytes:    1 << 20,
			MaxWait:     500 * time.Millisecond,
		})
	}
	return b
}

func newKafkaChatBroadcaster(w messageWriter, logger logger.Interface) *KafkaChatBroadcaster {
	return &KafkaChatBroadcaster{writer: w, retryBackoff: time.Second, logger: logger}
}

func (b *KafkaChatBroadcaster) Driver() string { return config.DeliveryDriverKafka }

func (b *KafkaChatBroadcaster) SupportsPush() bool { return true }

func (b *KafkaChatBroadcaster) Broadcast(ctx context.Context, event *chat.MessageEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal chat event: %w", err)
	}

	wctx, cancel := context.WithTimeout(ctx, kafkaWriteTimeout)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(event.Channel),
		Value: data,
		Time:  time.Now(),
	}
	if err := b.writer.WriteMessages(wctx, msg); err != nil {
		return fmt.Errorf("failed to write chat event to kafka: %w", err)
	}

	b.logger.Debugw("chat event written to Kafka",
		"channel", event.Channel,
		"message_id", event.Data.ID,
	)
	return nil
}

// Subscribe blocks until ctx is done, invoking handler for every chat event
// read from the topic. A failed reader is replaced with backoff.
func (b *KafkaChatBroadcaster) Subscribe(ctx context.Context, handler func(event *chat.MessageEvent)) error {
	if b.newReader == nil {
		return errors.New("kafka reader not configured")
	}

	backoff := b.retryBackoff
	maxBackoff := 30 * time.Second

	for {
		err := b.consume(ctx, handler)
		if ctx.Err() != nil {
			b.logger.Infow("chat event consumer stopped", "reason", ctx.Err())
			return ctx.Err()
		}

		b.logger.Warnw("chat event consumer failed, reconnecting",
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

func (b *KafkaChatBroadcaster) consume(ctx context.Context, handler func(event *chat.MessageEvent)) error {
	r := b.newReader()
	defer r.Close()

	b.logger.Infow("consuming chat events from Kafka")

	for {
		msg, err := r.ReadMessage(ctx)
		if err != nil {
			return fmt.Errorf("failed to read chat event from kafka: %w", err)
		}

		event, err := decodeChatEvent(string(msg.Value))
		if err != nil {
			b.logger.Warnw("failed to decode chat event",
				"key", string(msg.Key),
				"offset", msg.Offset,
				"error", err,
			)
			continue
		}

		handler(event)
	}
}

func (b *KafkaChatBroadcaster) Close() error {
	return b.writer.Close()
}
