package repository

import (
	"context"
	"time"

	"intelfeed/internal/news/domain/model"
)

// FeedFetcher retrieves and normalizes the entries of a single feed.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) ([]*model.Article, error)
}

// ArticleCache caches fetched feeds by URL. A stale copy is kept past the
// TTL so fetch failures can degrade to the last known result.
type ArticleCache interface {
	Get(ctx context.Context, url string) ([]*model.Article, bool, error)
	GetStale(ctx context.Context, url string) ([]*model.Article, bool, error)
	Set(ctx context.Context, url string, articles []*model.Article, ttl time.Duration) error
	Invalidate(ctx context.Context, url string) error
}

// FeedSourceRepository is the persisted feed registry.
type FeedSourceRepository interface {
	Seed(ctx context.Context, feeds []*model.FeedSource) error
	List(ctx context.Context) ([]*model.FeedSource, error)
	GetByName(ctx context.Context, name string) (*model.FeedSource, error)
	Create(ctx context.Context, feed *model.FeedSource) error
	Delete(ctx context.Context, name string) error
}

// ArticleRepository archives normalized articles.
type ArticleRepository interface {
	Upsert(ctx context.Context, articles []*model.Article) error
	Recent(ctx context.Context, limit int) ([]*model.Article, error)
}
