// Package cache keeps rendered quotes in Redis for the public portal.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/northlight-studio/agency-api/internal/config"
	"github.com/northlight-studio/agency-api/internal/domain"
)

const keyPrefix = "agency:quote:"

// QuoteCache stores quote DTOs by token. A nil *QuoteCache is valid and caches nothing.
type QuoteCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

func NewQuoteCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *QuoteCache {
	return &QuoteCache{client: client, ttl: ttl, logger: logger}
}

func key(token string) string {
	return keyPrefix + token
}

// Get returns the cached quote, or nil on a miss. Redis failures count as a miss.
func (c *QuoteCache) Get(ctx context.Context, token string) *domain.QuoteDTO {
	if c == nil || c.client == nil {
		return nil
	}

	raw, err := c.client.Get(ctx, key(token)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("quote cache read failed", zap.String("token", token), zap.Error(err))
		}
		return nil
	}

	var dto domain.QuoteDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		c.logger.Warn("discarding undecodable cached quote", zap.String("token", token), zap.Error(err))
		c.Invalidate(ctx, token)
		return nil
	}
	return &dto
}

// Set stores the quote under its token, replacing any cached copy
func (c *QuoteCache) Set(ctx context.Context, dto *domain.QuoteDTO) {
	raw, ok := c.encode(dto)
	if !ok {
		return
	}
	if err := c.client.Set(ctx, key(dto.Token), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("quote cache write failed", zap.String("token", dto.Token), zap.Error(err))
	}
}

// Add stores the quote only when nothing is cached under its token yet.
// Read-through fills use it so a slow reader cannot replace a copy written after a decision.
func (c *QuoteCache) Add(ctx context.Context, dto *domain.QuoteDTO) {
	raw, ok := c.encode(dto)
	if !ok {
		return
	}
	if err := c.client.SetNX(ctx, key(dto.Token), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("quote cache write failed", zap.String("token", dto.Token), zap.Error(err))
	}
}

func (c *QuoteCache) encode(dto *domain.QuoteDTO) ([]byte, bool) {
	if c == nil || c.client == nil || dto == nil {
		return nil, false
	}
	raw, err := json.Marshal(dto)
	if err != nil {
		c.logger.Warn("failed to encode quote for cache", zap.String("token", dto.Token), zap.Error(err))
		return nil, false
	}
	return raw, true
}

// Invalidate drops the cached quote
func (c *QuoteCache) Invalidate(ctx context.Context, token string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, key(token)).Err(); err != nil {
		c.logger.Warn("quote cache delete failed", zap.String("token", token), zap.Error(err))
	}
}
