package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/tasklist/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/tasklist/pkg/config"
)

// NewEventPublisher creates the publisher selected by EVENT_BROKER. Broker-backed
// publishers are wrapped in a circuit breaker. In development an unreachable broker
// falls back to the noop publisher.
func NewEventPublisher(ctx context.Context, cfg *config.Config, logger *slog.Logger) (eventbus.Publisher, error) {
	var (
		publisher eventbus.Publisher
		err       error
	)

	switch cfg.EventBroker {
	case config.BrokerNone, "":
		return eventbus.NewNoopPublisher(logger), nil
	case config.BrokerRabbitMQ:
		publisher, err = eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange, logger)
	case config.BrokerRedis:
		publisher, err = eventbus.NewRedisPublisher(ctx, cfg.RedisURL, cfg.RedisStream, logger)
	default:
		return nil, fmt.Errorf("unsupported event broker: %q", cfg.EventBroker)
	}

	if err != nil {
		if cfg.IsDevelopment() {
			logger.Warn("event broker not available, using noop publisher", "broker", cfg.EventBroker, "error", err)
			return eventbus.NewNoopPublisher(logger), nil
		}
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.EventBroker, err)
	}

	logger.Info("connected to event broker", "broker", cfg.EventBroker)
	return eventbus.NewBreakerPublisher(publisher, eventbus.BreakerConfig{
		MaxFailures: cfg.BreakerMaxFailures,
		Timeout:     cfg.BreakerTimeout,
	}, logger), nil
}
