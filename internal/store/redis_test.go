package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisSlot(t *testing.T) *RedisSlot {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	slot, err := OpenRedis(ctx, RedisConfig{Addr: addr, DB: 1, Prefix: "test:" + t.Name() + ":"})
	if err != nil {
		t.Skipf("redis not available: %v", err)
	}
	t.Cleanup(func() {
		_ = slot.rdb.Del(context.Background(), slot.prefix+"FavoriteQuotes").Err()
		_ = slot.Close()
	})
	return slot
}

func TestRedisSlot_RoundTrip(t *testing.T) {
	slot := newRedisSlot(t)
	ctx := context.Background()

	_, found, err := slot.Get(ctx, "FavoriteQuotes")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, slot.Set(ctx, "FavoriteQuotes", []byte(`[{"symbol":"NESN"}]`)))

	v, found, err := slot.Get(ctx, "FavoriteQuotes")
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `[{"symbol":"NESN"}]`, string(v))
}
