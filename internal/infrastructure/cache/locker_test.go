package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryLocker_SerializesHolders(t *testing.T) {
	locker := NewInMemoryLocker(2 * time.Second)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		inside  atomic.Int32
		maxSeen atomic.Int32
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := shared.WithLock(ctx, locker, "product:1", time.Second, func() error {
				n := inside.Add(1)
				if n > maxSeen.Load() {
					maxSeen.Store(n)
				}
				time.Sleep(time.Millisecond)
				inside.Add(-1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxSeen.Load())
}

func TestInMemoryLocker_GivesUpAfterRetryWindow(t *testing.T) {
	locker := NewInMemoryLocker(20 * time.Millisecond)
	ctx := context.Background()

	held, err := locker.Obtain(ctx, "product:2", time.Minute)
	require.NoError(t, err)

	_, err = locker.Obtain(ctx, "product:2", time.Minute)
	assert.ErrorIs(t, err, shared.ErrLockNotObtained)

	require.NoError(t, held.Release(ctx))
	again, err := locker.Obtain(ctx, "product:2", time.Minute)
	require.NoError(t, err)
	require.NoError(t, again.Release(ctx))
}

func TestInMemoryLocker_ExpiredLockCanBeTaken(t *testing.T) {
	locker := NewInMemoryLocker(0)
	ctx := context.Background()

	_, err := locker.Obtain(ctx, "product:3", 5*time.Millisecond)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)

	lock, err := locker.Obtain(ctx, "product:3", time.Minute)
	require.NoError(t, err)
	require.NoError(t, lock.Release(ctx))
}

func TestInMemoryLocker_RespectsContext(t *testing.T) {
	locker := NewInMemoryLocker(time.Minute)
	_, err := locker.Obtain(context.Background(), "product:4", time.Minute)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = locker.Obtain(ctx, "product:4", time.Minute)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewCoordination_WithoutRedis(t *testing.T) {
	coord, err := NewCoordination(context.Background(), config.RedisConfig{}, config.EventConfig{LockRetryWindow: time.Second})
	require.NoError(t, err)
	defer coord.Close()

	assert.IsType(t, &InMemoryIdempotencyStore{}, coord.Store)
	assert.IsType(t, &InMemoryLocker{}, coord.Locker)
	assert.NoError(t, coord.Ping(context.Background()))
}

func TestNewCoordination_UnreachableRedis(t *testing.T) {
	redisCfg := config.RedisConfig{Host: "127.0.0.1", Port: 1}

	coord, err := NewCoordination(context.Background(), redisCfg, config.EventConfig{})
	require.NoError(t, err, "falls back by default")
	assert.IsType(t, &InMemoryIdempotencyStore{}, coord.Store)
	require.NoError(t, coord.Close())

	_, err = NewCoordination(context.Background(), redisCfg, config.EventConfig{}, WithInMemoryFallback(false))
	assert.Error(t, err)
}
