package idempotency

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestStore_AcquireRelease(t *testing.T) {
	store := NewStore(getRedisClient(t))
	ctx := context.Background()
	key := uuid.NewString()
	t.Cleanup(func() { _ = store.Release(ctx, "UpsertClient", key) })

	ok, err := store.Acquire(ctx, "UpsertClient", key)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Acquire(ctx, "UpsertClient", key)
	require.NoError(t, err)
	assert.False(t, ok, "second claim must fail")

	ok, err = store.Acquire(ctx, "UpsertSale", key)
	require.NoError(t, err)
	assert.True(t, ok, "keys are scoped by method")
	require.NoError(t, store.Release(ctx, "UpsertSale", key))

	require.NoError(t, store.Release(ctx, "UpsertClient", key))
	ok, err = store.Acquire(ctx, "UpsertClient", key)
	require.NoError(t, err)
	assert.True(t, ok, "released keys can be claimed again")
}

func TestStore_ConcurrentAcquire(t *testing.T) {
	store := NewStore(getRedisClient(t))
	ctx := context.Background()
	key := uuid.NewString()
	t.Cleanup(func() { _ = store.Release(ctx, "UpsertBooking", key) })

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, err := store.Acquire(ctx, "UpsertBooking", key); err == nil && ok {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins)
}

func TestRedisKey(t *testing.T) {
	assert.Equal(t, "idempotency:UpsertClient:abc", redisKey("UpsertClient", "abc"))
}
