package cache

import (
	"context"
	"fmt"

	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Coordination bundles the idempotency store and locker the event handlers
// share. Both are Redis-backed when Redis is configured and reachable.
type Coordination struct {
	Store  shared.IdempotencyStore
	Locker shared.Locker
	client *redis.Client
}

// Close releases the store and the Redis connection
func (c *Coordination) Close() error {
	if err := c.Store.Close(); err != nil {
		return err
	}
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Ping checks the Redis connection. In-memory coordination is always up.
func (c *Coordination) Ping(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// FactoryOption configures NewCoordination
type FactoryOption func(*factory)

type factory struct {
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis degrades to
// process-local state instead of failing. Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewCoordination builds the store and locker from configuration. An empty
// Redis host selects the in-memory implementations.
func NewCoordination(ctx context.Context, redisCfg config.RedisConfig, eventCfg config.EventConfig, opts ...FactoryOption) (*Coordination, error) {
	f := &factory{logger: zap.NewNop(), allowInMemoryFallback: true}
	for _, opt := range opts {
		opt(f)
	}

	if redisCfg.Host == "" {
		f.logger.Info("redis not configured, using in-memory idempotency store and locks")
		return inMemoryCoordination(eventCfg), nil
	}

	client, err := NewRedisClient(ctx, redisCfg)
	if err != nil {
		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("redis required for event coordination but unavailable: %w", err)
		}
		f.logger.Warn("redis unavailable, falling back to in-memory idempotency store and locks. "+
			"Duplicate deliveries across instances will not be detected.",
			zap.Error(err),
		)
		return inMemoryCoordination(eventCfg), nil
	}

	f.logger.Info("using redis idempotency store and locks", zap.String("addr", redisCfg.Addr()))
	return &Coordination{
		Store:  NewRedisIdempotencyStore(client, ""),
		Locker: NewRedisLocker(client, eventCfg.LockRetryCount, eventCfg.LockRetryWindow),
		client: client,
	}, nil
}

func inMemoryCoordination(eventCfg config.EventConfig) *Coordination {
	return &Coordination{
		Store:  NewInMemoryIdempotencyStore(),
		Locker: NewInMemoryLocker(eventCfg.LockRetryWindow),
	}
}
