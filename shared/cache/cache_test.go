package cache_test

import (
	"context"
	"tasktrack/infras/otel/mocks"
	"tasktrack/shared/cache"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unreachable(t *testing.T) cache.RedisCache {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	return cache.NewRedisCache(client, mocks.NewOtel())
}

func TestIncrement_Unreachable(t *testing.T) {
	count, err := unreachable(t).Increment(context.Background(), "limiter:10.0.0.1:ua", 60)

	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to increment cache value")
	assert.Zero(t, count)
}

func TestGet_Unreachable(t *testing.T) {
	var value string

	err := unreachable(t).Get(context.Background(), "user:get:1", &value)

	require.Error(t, err)
	assert.NotErrorIs(t, err, cache.Nil)
	assert.Empty(t, value)
}

func TestSave_UnmarshalableValue(t *testing.T) {
	err := unreachable(t).Save(context.Background(), "user:get:1", make(chan int), 60)

	assert.ErrorContains(t, err, "failed to marshal cache value")
}
