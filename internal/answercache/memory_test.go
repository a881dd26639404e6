package answercache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "what are your hours??", Key("  What are your HOURS?? "))
	assert.Equal(t, "wifi 密码是什么", Key("WiFi\t密码是什么"))
	assert.NotEqual(t, Key("wifi 密码是什么"), Key("wifi 在哪里可以用"))
	assert.NotEqual(t, Key("café hours"), Key("cafe hours"))
	assert.Empty(t, Key(" \n\t "))
}

func TestMemory_GetSet(t *testing.T) {
	ctx := context.Background()
	cache := NewMemory(8, time.Hour)
	defer cache.Close()

	_, err := cache.Get(ctx, "Is there a discount?")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, cache.Set(ctx, "Is there a discount?", "Ask the front desk!"))

	got, err := cache.Get(ctx, "is there a   DISCOUNT?")
	require.NoError(t, err)
	assert.Equal(t, "Ask the front desk!", got)
}

func TestMemory_EmptyKeyIsNeverStored(t *testing.T) {
	ctx := context.Background()
	cache := NewMemory(8, time.Hour)
	defer cache.Close()

	require.NoError(t, cache.Set(ctx, "   ", "nope"))
	assert.Zero(t, cache.lru.Len())

	_, err := cache.Get(ctx, "   ")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemory_DistinctNonASCIIQuestions(t *testing.T) {
	ctx := context.Background()
	cache := NewMemory(8, time.Hour)
	defer cache.Close()

	require.NoError(t, cache.Set(ctx, "wifi 密码是什么", "Ask the front desk for the password."))

	_, err := cache.Get(ctx, "wifi 在哪里可以用")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemory_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	cache := NewMemory(2, time.Hour)
	defer cache.Close()

	require.NoError(t, cache.Set(ctx, "one", "1"))
	require.NoError(t, cache.Set(ctx, "two", "2"))
	_, _ = cache.Get(ctx, "one")
	require.NoError(t, cache.Set(ctx, "three", "3"))

	_, err := cache.Get(ctx, "two")
	assert.ErrorIs(t, err, ErrMiss)
	got, err := cache.Get(ctx, "one")
	require.NoError(t, err)
	assert.Equal(t, "1", got)
}

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	cache := NewMemory(8, 20*time.Millisecond)
	defer cache.Close()

	require.NoError(t, cache.Set(ctx, "hours", "5-23"))
	assert.Eventually(t, func() bool {
		_, err := cache.Get(ctx, "hours")
		return err == ErrMiss
	}, time.Second, 10*time.Millisecond)
}
