//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/printshop/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestRedisIdempotencyStore(t *testing.T) {
	client := startRedis(t)
	store := NewRedisIdempotencyStore(client, "test:")
	ctx := context.Background()

	isNew, err := store.MarkProcessed(ctx, "ReceivableGeneration:1", time.Minute)
	require.NoError(t, err)
	assert.True(t, isNew)

	isNew, err = store.MarkProcessed(ctx, "ReceivableGeneration:1", time.Minute)
	require.NoError(t, err)
	assert.False(t, isNew)

	require.NoError(t, store.Unmark(ctx, "ReceivableGeneration:1"))
	processed, err := store.IsProcessed(ctx, "ReceivableGeneration:1")
	require.NoError(t, err)
	assert.False(t, processed)
}

func TestRedisLocker(t *testing.T) {
	client := startRedis(t)
	locker := NewRedisLocker(client, 2, 20*time.Millisecond)
	ctx := context.Background()

	lock, err := locker.Obtain(ctx, "product:1", time.Minute)
	require.NoError(t, err)

	_, err = locker.Obtain(ctx, "product:1", time.Minute)
	assert.ErrorIs(t, err, shared.ErrLockNotObtained)

	require.NoError(t, lock.Release(ctx))
	require.NoError(t, lock.Release(ctx), "releasing twice is harmless")

	lock, err = locker.Obtain(ctx, "product:1", time.Minute)
	require.NoError(t, err)
	require.NoError(t, lock.Release(ctx))
}
