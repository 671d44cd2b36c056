package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"intelfeed/internal/news/config"
	"intelfeed/internal/news/domain/model"
	"intelfeed/internal/news/domain/repository"
	apperrors "intelfeed/internal/shared/errors"
	"intelfeed/internal/shared/eventbus"
	"intelfeed/internal/shared/logger"
)

// NewsUsecaseInterface defines the feed aggregation operations.
type NewsUsecaseInterface interface {
	FetchFeed(ctx context.Context, url string) ([]*model.Article, error)
	FetchAllFeeds(ctx context.Context) (map[string][]*model.Article, map[string]string)
	FetchGoogleAlerts(ctx context.Context) (map[string][]*model.Article, map[string]string)
	Latest(ctx context.Context, includeAlerts bool) ([]*model.Article, map[string]string)
	Search(ctx context.Context, req SearchRequest) ([]*model.Article, map[string]string, error)
	ListFeeds(ctx context.Context) ([]*model.FeedSource, error)
	RegisterFeed(ctx context.Context, feed *model.FeedSource) error
	RemoveFeed(ctx context.Context, name string) error
}

// SearchRequest carries the search parameters.
type SearchRequest struct {
	Keywords      []string
	Location      string
	AssetClass    string
	Limit         int
	IncludeAlerts bool
}

// NewsUsecase implements feed fetching, caching, enrichment, and search.
type NewsUsecase struct {
	fetcher repository.FeedFetcher
	cache   repository.ArticleCache
	feeds   repository.FeedSourceRepository
	bus     eventbus.EventBusInterface
	cfg     *config.Config
	log     logger.Logger
	now     func() time.Time
}

// NewNewsUsecase creates the news usecase.
func NewNewsUsecase(
	fetcher repository.FeedFetcher,
	cache repository.ArticleCache,
	feeds repository.FeedSourceRepository,
	bus eventbus.EventBusInterface,
	cfg *config.Config,
	log logger.Logger,
) *NewsUsecase {
	return &NewsUsecase{
		fetcher: fetcher,
		cache:   cache,
		feeds:   feeds,
		bus:     bus,
		cfg:     cfg,
		log:     log.WithComponent("news_usecase"),
		now:     time.Now,
	}
}

// FetchFeed returns the articles of a single feed, served from cache when
// fresh. On fetch failure the stale cached copy is returned if one exists.
func (uc *NewsUsecase) FetchFeed(ctx context.Context, url string) ([]*model.Article, error) {
	if cached, ok, err := uc.cache.Get(ctx, url); err == nil && ok {
		return cached, nil
	} else if err != nil {
		uc.log.WithError(err).Warn("cache read failed, fetching directly")
	}

	articles, err := uc.fetcher.Fetch(ctx, url)
	if err != nil {
		uc.publish(ctx, eventbus.EventTypeFeedFetchFailed, FeedFetchFailedPayload{URL: url, Reason: err.Error()})
		if stale, ok, cacheErr := uc.cache.GetStale(ctx, url); cacheErr == nil && ok {
			uc.log.WithFields(map[string]interface{}{"url": url}).Info("serving stale cached copy")
			return stale, nil
		}
		return nil, err
	}

	if err := uc.cache.Set(ctx, url, articles, uc.cfg.CacheTTL); err != nil {
		uc.log.WithError(err).Warn("cache write failed")
	}

	// Bus consumers run on their own goroutine; hand them copies so the
	// caller is free to keep mutating the returned articles.
	snapshot := make([]*model.Article, len(articles))
	for i, article := range articles {
		clone := *article
		snapshot[i] = &clone
	}
	uc.publish(ctx, eventbus.EventTypeFeedFetched, FeedFetchedPayload{URL: url, Articles: snapshot})
	return articles, nil
}

// FetchAllFeeds fetches every enabled RSS feed concurrently. Per-feed
// failures are collected into the errors map instead of failing the call.
func (uc *NewsUsecase) FetchAllFeeds(ctx context.Context) (map[string][]*model.Article, map[string]string) {
	return uc.fetchByKind(ctx, model.FeedKindRSS)
}

// FetchGoogleAlerts fetches the Google Alerts feeds and enriches every
// article with alert metadata.
func (uc *NewsUsecase) FetchGoogleAlerts(ctx context.Context) (map[string][]*model.Article, map[string]string) {
	results, errors := uc.fetchByKind(ctx, model.FeedKindGoogleAlert)
	now := uc.now()
	for alertName, articles := range results {
		for _, article := range articles {
			EnrichGoogleAlert(article, alertName, now)
		}
	}
	return results, errors
}

func (uc *NewsUsecase) fetchByKind(ctx context.Context, kind string) (map[string][]*model.Article, map[string]string) {
	sources, err := uc.feeds.List(ctx)
	if err != nil {
		uc.log.WithError(err).Error("failed to list feed registry")
		return map[string][]*model.Article{}, map[string]string{"registry": err.Error()}
	}

	results := make(map[string][]*model.Article)
	errors := make(map[string]string)

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, source := range sources {
		if source.Kind != kind || !source.Enabled {
			continue
		}
		wg.Add(1)
		go func(src *model.FeedSource) {
			defer wg.Done()
			articles, err := uc.FetchFeed(ctx, src.URL)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errors[src.Name] = err.Error()
				results[src.Name] = []*model.Article{}
				return
			}
			for _, a := range articles {
				a.SourceName = src.Name
			}
			results[src.Name] = articles
		}(source)
	}
	wg.Wait()

	return results, errors
}

// Latest merges all feeds (and optionally alerts), newest first, capped at
// the configured latest limit.
func (uc *NewsUsecase) Latest(ctx context.Context, includeAlerts bool) ([]*model.Article, map[string]string) {
	feeds, errors := uc.FetchAllFeeds(ctx)

	var all []*model.Article
	for _, articles := range feeds {
		all = append(all, articles...)
	}

	if includeAlerts {
		alerts, alertErrors := uc.FetchGoogleAlerts(ctx)
		for name, msg := range alertErrors {
			errors[name] = msg
		}
		for _, articles := range alerts {
			all = append(all, articles...)
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Published.After(all[j].Published)
	})

	if len(all) > uc.cfg.LatestLimit {
		all = all[:uc.cfg.LatestLimit]
	}
	return all, errors
}

// Search scores all articles against the keyword/location/asset-class query.
func (uc *NewsUsecase) Search(ctx context.Context, req SearchRequest) ([]*model.Article, map[string]string, error) {
	if len(req.Keywords) == 0 {
		return nil, nil, apperrors.ErrNoKeywords
	}
	if !ValidAssetClass(req.AssetClass) {
		return nil, nil, apperrors.ErrInvalidAssetClass
	}

	feeds, errors := uc.FetchAllFeeds(ctx)

	var all []*model.Article
	for _, articles := range feeds {
		all = append(all, articles...)
	}

	if req.IncludeAlerts {
		alerts, alertErrors := uc.FetchGoogleAlerts(ctx)
		for name, msg := range alertErrors {
			errors[name] = msg
		}
		for _, articles := range alerts {
			all = append(all, articles...)
		}
	}

	query := BuildSearchQuery(req.Keywords, req.Location, req.AssetClass)
	matches := ScoreArticles(all, query, req.Location, req.Limit, uc.now())
	return matches, errors, nil
}

// ListFeeds returns the feed registry.
func (uc *NewsUsecase) ListFeeds(ctx context.Context) ([]*model.FeedSource, error) {
	return uc.feeds.List(ctx)
}

// RegisterFeed validates and registers a new feed.
func (uc *NewsUsecase) RegisterFeed(ctx context.Context, feed *model.FeedSource) error {
	if feed.Kind == "" {
		feed.Kind = model.FeedKindRSS
	}
	if err := feed.Validate(); err != nil {
		return apperrors.NewValidationError(err.Error())
	}
	now := uc.now()
	feed.Enabled = true
	feed.CreatedAt = now
	feed.UpdatedAt = now
	return uc.feeds.Create(ctx, feed)
}

// RemoveFeed deletes a feed from the registry and drops its cache entries.
func (uc *NewsUsecase) RemoveFeed(ctx context.Context, name string) error {
	feed, err := uc.feeds.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if err := uc.feeds.Delete(ctx, name); err != nil {
		return err
	}
	if err := uc.cache.Invalidate(ctx, feed.URL); err != nil {
		uc.log.WithError(err).Warn("failed to invalidate cache for removed feed")
	}
	return nil
}

func (uc *NewsUsecase) publish(ctx context.Context, eventType string, data interface{}) {
	if uc.bus == nil {
		return
	}
	uc.bus.PublishAndForget(ctx, eventbus.NewBasicEvent(eventType, data))
}
