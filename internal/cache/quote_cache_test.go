package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/northlight-studio/agency-api/internal/cache"
	"github.com/northlight-studio/agency-api/internal/config"
	"github.com/northlight-studio/agency-api/internal/domain"
	"github.com/northlight-studio/agency-api/internal/estimator"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestQuoteCache_SetGet(t *testing.T) {
	mr, client := setupRedis(t)
	c := cache.NewQuoteCache(client, 10*time.Minute, zap.NewNop())
	ctx := context.Background()

	dto := &domain.QuoteDTO{
		Token:  "QT-1-ABCDEF12",
		Status: domain.QuoteStatusPending,
		Client: estimator.ClientContact{Name: "Ada", Email: "ada@example.com"},
		Quote:  estimator.QuoteBreakdown{Complexity: estimator.TierSimple, TotalPrice: 1550},
	}

	assert.Nil(t, c.Get(ctx, dto.Token))

	c.Set(ctx, dto)
	assert.True(t, mr.Exists("agency:quote:QT-1-ABCDEF12"))
	assert.Equal(t, 10*time.Minute, mr.TTL("agency:quote:QT-1-ABCDEF12"))

	got := c.Get(ctx, dto.Token)
	require.NotNil(t, got)
	assert.Equal(t, int64(1550), got.Quote.TotalPrice)
	assert.Equal(t, "ada@example.com", got.Client.Email)

	c.Invalidate(ctx, dto.Token)
	assert.Nil(t, c.Get(ctx, dto.Token))
}

func TestQuoteCache_AddKeepsExistingEntry(t *testing.T) {
	mr, client := setupRedis(t)
	c := cache.NewQuoteCache(client, 10*time.Minute, zap.NewNop())
	ctx := context.Background()

	c.Add(ctx, &domain.QuoteDTO{Token: "QT-5-ABCDEF12", Status: domain.QuoteStatusSent})
	assert.Equal(t, 10*time.Minute, mr.TTL("agency:quote:QT-5-ABCDEF12"))

	c.Set(ctx, &domain.QuoteDTO{Token: "QT-5-ABCDEF12", Status: domain.QuoteStatusAccepted})
	c.Add(ctx, &domain.QuoteDTO{Token: "QT-5-ABCDEF12", Status: domain.QuoteStatusSent})

	got := c.Get(ctx, "QT-5-ABCDEF12")
	require.NotNil(t, got)
	assert.Equal(t, domain.QuoteStatusAccepted, got.Status)
}

func TestQuoteCache_Expiry(t *testing.T) {
	mr, client := setupRedis(t)
	c := cache.NewQuoteCache(client, time.Minute, zap.NewNop())
	ctx := context.Background()

	c.Set(ctx, &domain.QuoteDTO{Token: "QT-2-ABCDEF12"})
	mr.FastForward(2 * time.Minute)
	assert.Nil(t, c.Get(ctx, "QT-2-ABCDEF12"))
}

func TestQuoteCache_CorruptEntryIsDropped(t *testing.T) {
	mr, client := setupRedis(t)
	c := cache.NewQuoteCache(client, time.Minute, zap.NewNop())

	require.NoError(t, mr.Set("agency:quote:QT-3-ABCDEF12", "{not json"))
	assert.Nil(t, c.Get(context.Background(), "QT-3-ABCDEF12"))
	assert.False(t, mr.Exists("agency:quote:QT-3-ABCDEF12"))
}

func TestQuoteCache_NilIsNoop(t *testing.T) {
	var c *cache.QuoteCache
	ctx := context.Background()

	assert.NotPanics(t, func() {
		c.Set(ctx, &domain.QuoteDTO{Token: "x"})
		c.Add(ctx, &domain.QuoteDTO{Token: "x"})
		c.Invalidate(ctx, "x")
	})
	assert.Nil(t, c.Get(ctx, "x"))
}

func TestQuoteCache_UnavailableServerIsAMiss(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	client := redis.NewClient(&redis.Options{Addr: addr, MaxRetries: -1})
	defer client.Close()
	c := cache.NewQuoteCache(client, time.Minute, zap.NewNop())

	ctx := context.Background()
	c.Set(ctx, &domain.QuoteDTO{Token: "QT-4-ABCDEF12"})
	assert.Nil(t, c.Get(ctx, "QT-4-ABCDEF12"))
}

func TestNewRedisClient(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client, err := cache.NewRedisClient(context.Background(), &config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	assert.NoError(t, client.Close())
}
