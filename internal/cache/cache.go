// Package cache provides an optional Redis page cache for the product
// listing. Caching is best-effort: a nil client or a Redis failure never
// fails the request, it just falls through to the store.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"inventory-api/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	pageKeyPrefix = "products:page"
	pageTTL       = 5 * time.Minute
)

// NewClient connects to Redis at addr. An empty addr or a failed ping
// disables caching by returning nil.
func NewClient(addr string, logger zerolog.Logger) *redis.Client {
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn().Err(err).Str("addr", addr).Msg("Failed to connect to Redis, caching disabled")
		return nil
	}

	logger.Info().Str("addr", addr).Msg("Connected to Redis")
	return client
}

type ProductCache struct {
	client *redis.Client
	logger zerolog.Logger
}

func NewProductCache(client *redis.Client, logger zerolog.Logger) *ProductCache {
	if client == nil {
		return nil
	}
	return &ProductCache{client: client, logger: logger}
}

func (c *ProductCache) GetPage(ctx context.Context, page, limit int) (*models.ProductPage, bool) {
	if c == nil {
		return nil, false
	}

	cached, err := c.client.Get(ctx, pageKey(page, limit)).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn().Err(err).Msg("Product cache read failed")
		}
		return nil, false
	}

	var result models.ProductPage
	if err := json.Unmarshal([]byte(cached), &result); err != nil {
		return nil, false
	}
	return &result, true
}

func (c *ProductCache) SetPage(ctx context.Context, result *models.ProductPage) {
	if c == nil {
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, pageKey(result.Page, result.Limit), payload, pageTTL).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("Product cache write failed")
	}
}

// Invalidate drops every cached listing page. Called after any product
// mutation so readers never see a stale total or quantity.
func (c *ProductCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}

	iter := c.client.Scan(ctx, 0, pageKeyPrefix+":*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			c.logger.Warn().Err(err).Str("key", iter.Val()).Msg("Product cache invalidation failed")
		}
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn().Err(err).Msg("Product cache scan failed")
	}
}

func pageKey(page, limit int) string {
	return fmt.Sprintf("%s:%d:limit:%d", pageKeyPrefix, page, limit)
}
