package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

const defaultLockPrefix = "printshop:lock:"

// RedisLocker hands out locks through redislock. Contended locks are
// retried linearly inside the configured window.
type RedisLocker struct {
	client      *redislock.Client
	keyPrefix   string
	retryCount  int
	retryWindow time.Duration
}

// NewRedisLocker creates a locker on client. retryCount attempts are spread
// evenly over retryWindow before Obtain gives up.
func NewRedisLocker(client redis.UniversalClient, retryCount int, retryWindow time.Duration) *RedisLocker {
	return &RedisLocker{
		client:      redislock.New(client),
		keyPrefix:   defaultLockPrefix,
		retryCount:  retryCount,
		retryWindow: retryWindow,
	}
}

// Obtain acquires the lock for key
func (l *RedisLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (shared.Lock, error) {
	lock, err := l.client.Obtain(ctx, l.keyPrefix+key, ttl, &redislock.Options{
		RetryStrategy: l.retryStrategy(),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, shared.ErrLockNotObtained
	}
	if err != nil {
		return nil, fmt.Errorf("failed to obtain lock %s: %w", key, err)
	}
	return &redisLock{lock: lock}, nil
}

func (l *RedisLocker) retryStrategy() redislock.RetryStrategy {
	if l.retryCount <= 0 {
		return redislock.NoRetry()
	}
	backoff := l.retryWindow / time.Duration(l.retryCount)
	if backoff <= 0 {
		backoff = 10 * time.Millisecond
	}
	return redislock.LimitRetry(redislock.LinearBackoff(backoff), l.retryCount)
}

type redisLock struct {
	lock *redislock.Lock
}

// Release frees the lock. A lock that already expired is not an error.
func (r *redisLock) Release(ctx context.Context) error {
	err := r.lock.Release(ctx)
	if errors.Is(err, redislock.ErrLockNotHeld) {
		return nil
	}
	return err
}

// InMemoryLocker serializes work inside a single process. It polls until
// the lock frees up, the context is done, or the retry window passes.
type InMemoryLocker struct {
	mu          sync.Mutex
	held        map[string]time.Time
	retryWindow time.Duration
	poll        time.Duration
}

// NewInMemoryLocker creates a process-local locker
func NewInMemoryLocker(retryWindow time.Duration) *InMemoryLocker {
	return &InMemoryLocker{
		held:        make(map[string]time.Time),
		retryWindow: retryWindow,
		poll:        5 * time.Millisecond,
	}
}

// Obtain acquires the lock for key
func (l *InMemoryLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (shared.Lock, error) {
	deadline := time.Now().Add(l.retryWindow)
	for {
		if l.tryObtain(key, ttl) {
			return &memoryLock{locker: l, key: key}, nil
		}
		if !time.Now().Before(deadline) {
			return nil, shared.ErrLockNotObtained
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.poll):
		}
	}
}

func (l *InMemoryLocker) tryObtain(key string, ttl time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if expiresAt, ok := l.held[key]; ok && now.Before(expiresAt) {
		return false
	}
	l.held[key] = now.Add(ttl)
	return true
}

func (l *InMemoryLocker) release(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
}

type memoryLock struct {
	locker *InMemoryLocker
	key    string
	once   sync.Once
}

func (m *memoryLock) Release(_ context.Context) error {
	m.once.Do(func() { m.locker.release(m.key) })
	return nil
}

var (
	_ shared.Locker = (*RedisLocker)(nil)
	_ shared.Locker = (*InMemoryLocker)(nil)
)
