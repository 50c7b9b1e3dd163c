package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// DefaultStream is the Redis stream used when none is configured.
const DefaultStream = "tasklist.events"

// RedisPublisher appends events to a Redis stream.
type RedisPublisher struct {
	client *redis.Client
	stream string
	maxLen int64
	logger *slog.Logger
}

// NewRedisPublisher parses url and verifies the server is reachable.
func NewRedisPublisher(ctx context.Context, url, stream string, logger *slog.Logger) (*RedisPublisher, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewRedisPublisherWithClient(client, stream, logger), nil
}

// NewRedisPublisherWithClient wraps an existing client.
func NewRedisPublisherWithClient(client *redis.Client, stream string, logger *slog.Logger) *RedisPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisPublisher{
		client: client,
		stream: stream,
		maxLen: 100000,
		logger: logger,
	}
}

// Publish adds the event as one stream entry. The stream is approximately trimmed.
func (p *RedisPublisher) Publish(ctx context.Context, event *Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	id, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]any{
			"event_id":    event.EventID.String(),
			"routing_key": event.RoutingKey,
			"body":        string(body),
		},
	}).Result()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", event.RoutingKey, err)
	}

	p.logger.Debug("message published",
		"stream", p.stream,
		"entry_id", id,
		"routing_key", event.RoutingKey,
		"event_id", event.EventID,
	)
	return nil
}

// Ping checks the Redis connection.
func (p *RedisPublisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// Close closes the client.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
