package fetch

import (
	"context"
	"net/http"
	"time"

	"intelfeed/internal/news/config"
	"intelfeed/internal/news/domain/model"
	apperrors "intelfeed/internal/shared/errors"
	"intelfeed/internal/shared/logger"

	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"
)

// GofeedFetcher fetches and normalizes RSS/Atom feeds. Outbound requests
// share a rate limiter so a burst of API calls cannot hammer the publishers.
type GofeedFetcher struct {
	parser     *gofeed.Parser
	limiter    *rate.Limiter
	maxEntries int
	now        func() time.Time
	log        logger.Logger
}

// NewGofeedFetcher creates a fetcher configured from the news config.
func NewGofeedFetcher(cfg *config.Config, log logger.Logger) *GofeedFetcher {
	parser := gofeed.NewParser()
	parser.UserAgent = cfg.UserAgent
	parser.Client = &http.Client{Timeout: cfg.FetchTimeout}

	return &GofeedFetcher{
		parser:     parser,
		limiter:    rate.NewLimiter(rate.Limit(cfg.FetchRatePerSecond), cfg.FetchBurst),
		maxEntries: cfg.MaxEntriesPerFeed,
		now:        time.Now,
		log:        log.WithComponent("feed_fetcher"),
	}
}

// Fetch retrieves a feed and returns its most recent entries, capped and
// normalized into articles.
func (f *GofeedFetcher) Fetch(ctx context.Context, url string) ([]*model.Article, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	feed, err := f.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		f.log.WithFields(map[string]interface{}{"url": url}).WithError(err).Warn("feed fetch failed")
		return nil, apperrors.NewUpstreamError("failed to fetch feed").WithCause(err).WithDetail("url", url)
	}

	source := feed.Title
	if source == "" {
		source = url
	}

	items := feed.Items
	if len(items) > f.maxEntries {
		items = items[:f.maxEntries]
	}

	articles := make([]*model.Article, 0, len(items))
	for _, item := range items {
		articles = append(articles, f.normalize(item, source, url))
	}
	return articles, nil
}

func (f *GofeedFetcher) normalize(item *gofeed.Item, source, feedURL string) *model.Article {
	published := f.now()
	if item.PublishedParsed != nil {
		published = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		published = *item.UpdatedParsed
	}

	id := item.GUID
	if id == "" {
		id = item.Link
	}

	title := item.Title
	if title == "" {
		title = "No title"
	}

	summary := item.Description
	if summary == "" {
		summary = item.Content
	}
	if summary == "" {
		summary = "No summary"
	}

	var author string
	if len(item.Authors) > 0 {
		author = item.Authors[0].Name
	}

	return &model.Article{
		ID:         id,
		Title:      title,
		Summary:    summary,
		Link:       item.Link,
		Published:  published,
		Source:     source,
		FeedURL:    feedURL,
		SourceType: model.SourceTypeRSS,
		Author:     author,
	}
}
