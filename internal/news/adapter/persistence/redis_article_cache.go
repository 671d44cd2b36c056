package persistence

import (
	"context"
	"encoding/json"
	"time"

	"intelfeed/internal/news/domain/model"
	"intelfeed/internal/shared/logger"

	"github.com/redis/go-redis/v9"
)

const (
	feedCacheKeyPrefix  = "intelfeed:feed:"
	staleCacheKeyPrefix = "intelfeed:feed:stale:"

	// Stale copies outlive the TTL so fetch failures can fall back to the
	// last good result. A week is long enough for any transient outage.
	staleRetention = 7 * 24 * time.Hour
)

// RedisArticleCache caches fetched feeds in Redis. Every Set writes two
// keys: the TTL-bound fresh copy and a long-lived stale copy.
type RedisArticleCache struct {
	client *redis.Client
	log    logger.Logger
}

// NewRedisArticleCache creates a new Redis-backed article cache.
func NewRedisArticleCache(client *redis.Client, log logger.Logger) *RedisArticleCache {
	return &RedisArticleCache{
		client: client,
		log:    log.WithComponent("article_cache"),
	}
}

// Get returns the fresh cached articles for a feed URL, if present.
func (c *RedisArticleCache) Get(ctx context.Context, url string) ([]*model.Article, bool, error) {
	return c.get(ctx, feedCacheKeyPrefix+url)
}

// GetStale returns the last known articles for a feed URL, even if the
// fresh copy has expired.
func (c *RedisArticleCache) GetStale(ctx context.Context, url string) ([]*model.Article, bool, error) {
	return c.get(ctx, staleCacheKeyPrefix+url)
}

func (c *RedisArticleCache) get(ctx context.Context, key string) ([]*model.Article, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var articles []*model.Article
	if err := json.Unmarshal(data, &articles); err != nil {
		c.log.WithFields(map[string]interface{}{"key": key}).WithError(err).Warn("corrupt cache entry, dropping")
		_ = c.client.Del(ctx, key).Err()
		return nil, false, nil
	}
	return articles, true, nil
}

// Set stores the articles under both the fresh and stale keys.
func (c *RedisArticleCache) Set(ctx context.Context, url string, articles []*model.Article, ttl time.Duration) error {
	data, err := json.Marshal(articles)
	if err != nil {
		return err
	}

	pipe := c.client.Pipeline()
	pipe.Set(ctx, feedCacheKeyPrefix+url, data, ttl)
	pipe.Set(ctx, staleCacheKeyPrefix+url, data, staleRetention)
	_, err = pipe.Exec(ctx)
	return err
}

// Invalidate drops both copies for a feed URL.
func (c *RedisArticleCache) Invalidate(ctx context.Context, url string) error {
	return c.client.Del(ctx, feedCacheKeyPrefix+url, staleCacheKeyPrefix+url).Err()
}
