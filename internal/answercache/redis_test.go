package answercache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *Redis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewRedisWithClient(client, "fitzone:answer:", time.Hour)
	t.Cleanup(func() { cache.Close() })
	return mr, cache
}

func TestRedis_GetSet(t *testing.T) {
	ctx := context.Background()
	mr, cache := newTestRedis(t)

	_, err := cache.Get(ctx, "Do you sell protein?")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, cache.Set(ctx, "Do you sell protein?", "Yes, at the juice bar."))

	got, err := cache.Get(ctx, "do you sell PROTEIN?")
	require.NoError(t, err)
	assert.Equal(t, "Yes, at the juice bar.", got)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.Contains(t, keys[0], "fitzone:answer:")
	assert.Equal(t, time.Hour, mr.TTL(keys[0]))
}

func TestRedis_Expiry(t *testing.T) {
	ctx := context.Background()
	mr, cache := newTestRedis(t)

	require.NoError(t, cache.Set(ctx, "parking?", "Free parking"))
	mr.FastForward(2 * time.Hour)

	_, err := cache.Get(ctx, "parking?")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedis_ServerDown(t *testing.T) {
	ctx := context.Background()
	mr, cache := newTestRedis(t)
	mr.Close()

	_, err := cache.Get(ctx, "anything")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMiss)
}

func TestNewRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cache, err := NewRedis(context.Background(), RedisConfig{Address: mr.Addr(), KeyPrefix: "p:", TTL: time.Minute})
	require.NoError(t, err)
	defer cache.Close()

	require.NoError(t, cache.Set(context.Background(), "q", "a"))
	got, err := cache.Get(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, "a", got)
}

func TestNewRedis_Unreachable(t *testing.T) {
	_, err := NewRedis(context.Background(), RedisConfig{Address: "127.0.0.1:1"})
	assert.Error(t, err)
}
