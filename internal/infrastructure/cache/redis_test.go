package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedAuthor struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client, "catalog:"), mr
}

func TestRedisCacheRoundTrip(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	var miss cachedAuthor
	found, err := c.Get(ctx, "author:1", &miss)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "author:1", cachedAuthor{ID: 1, Name: "Ursula"}, time.Minute))
	assert.True(t, mr.Exists("catalog:author:1"))

	var got cachedAuthor
	found, err = c.Get(ctx, "author:1", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, cachedAuthor{ID: 1, Name: "Ursula"}, got)

	mr.FastForward(2 * time.Minute)
	found, err = c.Get(ctx, "author:1", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCacheDelete(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", 1, 0))
	require.NoError(t, c.Set(ctx, "b", 2, 0))
	require.NoError(t, c.Delete(ctx, "a", "b"))
	require.NoError(t, c.Delete(ctx))

	assert.False(t, mr.Exists("catalog:a"))
	assert.False(t, mr.Exists("catalog:b"))
}

func TestRedisCacheDeletePattern(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	for i := 0; i < 250; i++ {
		require.NoError(t, c.Set(ctx, fmt.Sprintf("author:%d", i), i, 0))
	}
	require.NoError(t, c.Set(ctx, "book:1", 1, 0))

	require.NoError(t, c.DeletePattern(ctx, "author:*"))

	for _, k := range mr.Keys() {
		assert.NotContains(t, k, "author:")
	}
	assert.True(t, mr.Exists("catalog:book:1"))
}

func TestRedisCacheGetCorruptValue(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set("catalog:author:9", "{not json"))

	var got cachedAuthor
	_, err := c.Get(context.Background(), "author:9", &got)
	assert.Error(t, err)
}
