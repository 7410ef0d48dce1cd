package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Ihuarraquax/santavibe-sub004/pkg/domain"
	"github.com/Ihuarraquax/santavibe-sub004/pkg/ports"
)

// StreamsEventBus implements ports.EventBus using Redis Streams. Each
// subscriber name maps to its own consumer group, so distinct subscribers
// all see every event while service instances sharing a name compete for
// them within one group.
type StreamsEventBus struct {
	client       *redis.Client
	logger       *zap.Logger
	consumerName string
}

// NewStreamsEventBus creates a new Redis Streams event bus. consumerName
// identifies this instance within any consumer group it joins.
func NewStreamsEventBus(client *redis.Client, consumerName string, logger *zap.Logger) (*StreamsEventBus, error) {
	return &StreamsEventBus{
		client:       client,
		logger:       logger,
		consumerName: consumerName,
	}, nil
}

// Publish publishes an event to the appropriate stream topic
func (e *StreamsEventBus) Publish(ctx context.Context, topic string, event domain.Event) error {
	streamKey := getStreamKey(topic)

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: streamKey,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}

	if _, err := e.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to add to stream: %w", err)
	}

	e.logger.Debug("event published",
		zap.String("event_id", event.ID),
		zap.String("type", string(event.Type)),
		zap.String("topic", topic),
		zap.String("stream", streamKey))

	return nil
}

// Subscribe creates (or joins) the consumer group named after the
// subscriber and reads events until ctx is cancelled. The group starts at
// the stream tail on first creation; an existing group resumes from its
// last acknowledged position.
func (e *StreamsEventBus) Subscribe(ctx context.Context, topic, subscriber string, handler ports.EventHandler) error {
	streamKey := getStreamKey(topic)

	err := e.client.XGroupCreateMkStream(ctx, streamKey, subscriber, "$").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	e.logger.Info("subscribed to event stream",
		zap.String("stream", streamKey),
		zap.String("topic", topic),
		zap.String("consumer_group", subscriber),
		zap.String("consumer", e.consumerName))

	go e.readStream(ctx, streamKey, subscriber, handler)

	return nil
}

// readStream reads events from a stream on behalf of one consumer group
func (e *StreamsEventBus) readStream(ctx context.Context, streamKey, group string, handler ports.EventHandler) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			streams, err := e.client.XReadGroup(ctx, &redis.XReadGroupArgs{
				Group:    group,
				Consumer: e.consumerName,
				Streams:  []string{streamKey, ">"},
				Count:    10,
				Block:    time.Second,
			}).Result()

			if err != nil {
				if err == redis.Nil {
					// No new messages
					continue
				}
				e.logger.Error("failed to read from stream",
					zap.String("stream", streamKey),
					zap.String("consumer_group", group),
					zap.Error(err))
				time.Sleep(time.Second)
				continue
			}

			for _, stream := range streams {
				for _, message := range stream.Messages {
					e.processMessage(ctx, streamKey, group, message, handler)
				}
			}
		}
	}
}

// processMessage processes a single message from the stream
func (e *StreamsEventBus) processMessage(ctx context.Context, streamKey, group string, message redis.XMessage, handler ports.EventHandler) {
	data, ok := message.Values["data"].(string)
	if !ok {
		e.logger.Error("invalid message format",
			zap.String("stream", streamKey),
			zap.String("message_id", message.ID))
		return
	}

	var event domain.Event
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		e.logger.Error("failed to unmarshal event",
			zap.String("stream", streamKey),
			zap.String("message_id", message.ID),
			zap.Error(err))
		return
	}

	if err := handler(ctx, event); err != nil {
		e.logger.Error("handler error",
			zap.String("stream", streamKey),
			zap.String("message_id", message.ID),
			zap.Error(err))
		return
	}

	if err := e.client.XAck(ctx, streamKey, group, message.ID).Err(); err != nil {
		e.logger.Error("failed to acknowledge message",
			zap.String("stream", streamKey),
			zap.String("message_id", message.ID),
			zap.Error(err))
	}
}

// Close closes the event bus and cleans up resources. Consumer groups are
// left in place so durable subscribers resume where they stopped; stale
// groups from ephemeral subscribers can be cleaned up separately.
func (e *StreamsEventBus) Close() error {
	// Redis client is closed by the caller
	return nil
}

// getStreamKey returns the Redis stream key for a topic
func getStreamKey(topic string) string {
	return fmt.Sprintf("santavibe:events:%s", topic)
}
