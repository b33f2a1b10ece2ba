package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/lshigami/fieldsurvey/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisCache(t *testing.T, ttl time.Duration) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCache(client, "test:", ttl), mr
}

func TestRedisCacheGetSet(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedisCache(t, time.Minute)

	_, err := c.Get(ctx, "survey-1")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, c.Set(ctx, "survey-1", []byte(`{"total_started":10}`)))
	assert.True(t, mr.Exists("test:survey-1"))

	got, err := c.Get(ctx, "survey-1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"total_started":10}`, string(got))
}

func TestRedisCacheExpires(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedisCache(t, 10*time.Second)

	require.NoError(t, c.Set(ctx, "survey-1", []byte("x")))
	assert.Equal(t, 10*time.Second, mr.TTL("test:survey-1"))

	mr.FastForward(11 * time.Second)
	_, err := c.Get(ctx, "survey-1")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedisCacheSurfacesConnectionErrors(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedisCache(t, time.Minute)
	mr.Close()

	_, err := c.Get(ctx, "survey-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMiss)
}

func TestNewResultsCacheFallsBackToNoop(t *testing.T) {
	cfg := &config.Config{}
	assert.Nil(t, NewRedisClient(cfg))

	c := NewResultsCache(nil, cfg)
	assert.IsType(t, Noop{}, c)
	_, err := c.Get(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrMiss)
}
