package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/projectflow/projectflow-api/internal/config"
)

const relayPrefix = "relay:"

// NewRedisClient creates the process-wide redis client for the relay.
func NewRedisClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisHost + ":" + cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

// RedisBroadcaster publishes events through redis pub/sub.
type RedisBroadcaster struct {
	client *redis.Client
}

// NewRedisBroadcaster creates a RedisBroadcaster.
func NewRedisBroadcaster(client *redis.Client) *RedisBroadcaster {
	return &RedisBroadcaster{client: client}
}

// Publish sends one event to the relay channel. Fire and forget from the
// caller's perspective: no retry, no delivery guarantee.
func (b *RedisBroadcaster) Publish(ctx context.Context, channel, event string, payload interface{}) error {
	ev, err := NewEvent(channel, event, payload)
	if err != nil {
		return fmt.Errorf("realtime: marshal payload: %w", err)
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("realtime: marshal event: %w", err)
	}

	if err := b.client.Publish(ctx, relayPrefix+channel, body).Err(); err != nil {
		return fmt.Errorf("realtime: publish %s/%s: %w", channel, event, err)
	}
	return nil
}

// Subscribe listens on every relay channel and delivers decoded events
// until the context is canceled. The returned channel is closed on exit.
func (b *RedisBroadcaster) Subscribe(ctx context.Context) <-chan Event {
	events := make(chan Event, 64)
	pubsub := b.client.PSubscribe(ctx, relayPrefix+"*")

	go func() {
		defer close(events)
		defer pubsub.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-pubsub.Channel():
				if !ok {
					return
				}

				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					logrus.WithError(err).Warn("realtime: dropping undecodable relay message")
					continue
				}
				if ev.Channel == "" {
					ev.Channel = strings.TrimPrefix(msg.Channel, relayPrefix)
				}

				select {
				case events <- ev:
				default:
					// Slow consumer; the relay gives no delivery guarantee
					// anyway, so drop rather than stall the subscriber.
					logrus.WithField("channel", ev.Channel).Warn("realtime: subscriber buffer full, dropping event")
				}
			}
		}
	}()

	return events
}
