package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"etm/infras/otel/mocks"
	"etm/shared/cache"
)

func TestNewRedisCache_WithoutClientNeverHits(t *testing.T) {
	c := cache.NewRedisCache(nil, mocks.NewOtel())
	ctx := context.Background()

	var value string

	assert.NoError(t, c.Save(ctx, "trip:get:1", "cached", 60))
	assert.True(t, errors.Is(c.Get(ctx, "trip:get:1", &value), cache.Nil))
	assert.Empty(t, value)
	assert.NoError(t, c.Delete(ctx, "trip:get:1"))
	assert.NoError(t, c.Clear(ctx, "trip:*"))
}

func TestRedisCache_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 200 * time.Millisecond})
	t.Cleanup(func() { _ = client.Close() })

	recorder := mocks.NewOtel()
	c := cache.NewRedisCache(client, recorder)
	ctx := context.Background()

	var value int

	err := c.Get(ctx, "limiter:10.0.0.1", &value)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, cache.Nil))
	assert.Error(t, c.Save(ctx, "limiter:10.0.0.1", 1, 60))
	assert.Error(t, c.Clear(ctx, "trip:*"))

	assert.Equal(t, []string{"cache.Get", "cache.Save", "cache.Clear"}, recorder.Spans())
	assert.Len(t, recorder.Errors(), 2)
}
