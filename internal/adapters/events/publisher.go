// Package events delivers domain events to a log or a Redis stream.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jsamuelsen/resource-feed/internal/domain"
	"github.com/jsamuelsen/resource-feed/internal/ports"
	"github.com/jsamuelsen/resource-feed/internal/platform/logging"
)

// LogPublisher writes events to the request logger. It is the default
// when no broker is configured.
type LogPublisher struct{}

// NewLogPublisher creates a LogPublisher.
func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

// Publish implements ports.EventPublisher.
func (p *LogPublisher) Publish(ctx context.Context, event ports.Event) error {
	logging.FromContext(ctx).InfoContext(ctx, "event published",
		slog.String("component", "events.LogPublisher"),
		slog.String("event_type", event.EventType()),
		slog.Any("payload", event.Payload()),
	)

	return nil
}

// Name implements ports.HealthChecker.
func (p *LogPublisher) Name() string { return "events" }

// Check implements ports.HealthChecker.
func (p *LogPublisher) Check(context.Context) error { return nil }

// streamClient is the part of *redis.Client the publisher uses.
type streamClient interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisOptions configures NewRedisPublisher.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Stream   string

	// MaxLen caps the stream length approximately. Zero keeps everything.
	MaxLen int64

	Logger *slog.Logger
}

// RedisPublisher appends events to a Redis stream with XADD.
type RedisPublisher struct {
	client streamClient
	stream string
	maxLen int64
	logger *slog.Logger
	now    func() time.Time
}

// NewRedisPublisher connects to Redis and verifies the connection.
func NewRedisPublisher(ctx context.Context, opts RedisOptions) (*RedisPublisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()

		return nil, fmt.Errorf("connect redis %s: %w", opts.Addr, err)
	}

	return newRedisPublisher(client, opts), nil
}

func newRedisPublisher(client streamClient, opts RedisOptions) *RedisPublisher {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &RedisPublisher{
		client: client,
		stream: opts.Stream,
		maxLen: opts.MaxLen,
		logger: logger.With(slog.String("component", "events.RedisPublisher"), slog.String("stream", opts.Stream)),
		now:    time.Now,
	}
}

// Publish implements ports.EventPublisher. The payload is stored as JSON
// in the entry's "payload" field.
func (p *RedisPublisher) Publish(ctx context.Context, event ports.Event) error {
	payload, err := json.Marshal(event.Payload())
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event.EventType(), err)
	}

	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{
			"type":        event.EventType(),
			"payload":     string(payload),
			"occurred_at": p.now().UTC().Format(time.RFC3339Nano),
		},
	}

	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}

	id, err := p.client.XAdd(ctx, args).Result()
	if err != nil {
		return domain.NewUnavailableError("redis", err.Error())
	}

	p.logger.DebugContext(ctx, "event published",
		slog.String("event_type", event.EventType()),
		slog.String("entry_id", id),
	)

	return nil
}

// Name implements ports.HealthChecker.
func (p *RedisPublisher) Name() string { return "events" }

// Check implements ports.HealthChecker.
func (p *RedisPublisher) Check(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// Close releases the Redis connection pool.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
