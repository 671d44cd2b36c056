package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"intelfeed/internal/news/config"
	"intelfeed/internal/news/domain/model"
	apperrors "intelfeed/internal/shared/errors"
	"intelfeed/internal/shared/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) Fetch(ctx context.Context, url string) ([]*model.Article, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Article), args.Error(1)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, url string) ([]*model.Article, bool, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]*model.Article), args.Bool(1), args.Error(2)
}

func (m *mockCache) GetStale(ctx context.Context, url string) ([]*model.Article, bool, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]*model.Article), args.Bool(1), args.Error(2)
}

func (m *mockCache) Set(ctx context.Context, url string, articles []*model.Article, ttl time.Duration) error {
	args := m.Called(ctx, url, articles, ttl)
	return args.Error(0)
}

func (m *mockCache) Invalidate(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

type mockFeedRepo struct {
	mock.Mock
}

func (m *mockFeedRepo) Seed(ctx context.Context, feeds []*model.FeedSource) error {
	args := m.Called(ctx, feeds)
	return args.Error(0)
}

func (m *mockFeedRepo) List(ctx context.Context) ([]*model.FeedSource, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.FeedSource), args.Error(1)
}

func (m *mockFeedRepo) GetByName(ctx context.Context, name string) (*model.FeedSource, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FeedSource), args.Error(1)
}

func (m *mockFeedRepo) Create(ctx context.Context, feed *model.FeedSource) error {
	args := m.Called(ctx, feed)
	return args.Error(0)
}

func (m *mockFeedRepo) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func testNewsConfig() *config.Config {
	return &config.Config{
		CacheTTL:          time.Hour,
		FetchTimeout:      10 * time.Second,
		MaxEntriesPerFeed: 20,
		LatestLimit:       50,
	}
}

func newTestNewsUsecase(fetcher *mockFetcher, cache *mockCache, feeds *mockFeedRepo) *NewsUsecase {
	return NewNewsUsecase(fetcher, cache, feeds, nil, testNewsConfig(), logger.NewLogger())
}

func TestFetchFeed_CacheHit(t *testing.T) {
	fetcher := new(mockFetcher)
	cache := new(mockCache)
	uc := newTestNewsUsecase(fetcher, cache, new(mockFeedRepo))

	cached := []*model.Article{{ID: "a1", Title: "cached"}}
	cache.On("Get", mock.Anything, "http://feed").Return(cached, true, nil)

	articles, err := uc.FetchFeed(context.Background(), "http://feed")

	require.NoError(t, err)
	assert.Equal(t, cached, articles)
	fetcher.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
}

func TestFetchFeed_MissFetchesAndCaches(t *testing.T) {
	fetcher := new(mockFetcher)
	cache := new(mockCache)
	uc := newTestNewsUsecase(fetcher, cache, new(mockFeedRepo))

	fresh := []*model.Article{{ID: "a1", Title: "fresh"}}
	cache.On("Get", mock.Anything, "http://feed").Return(nil, false, nil)
	fetcher.On("Fetch", mock.Anything, "http://feed").Return(fresh, nil)
	cache.On("Set", mock.Anything, "http://feed", fresh, time.Hour).Return(nil)

	articles, err := uc.FetchFeed(context.Background(), "http://feed")

	require.NoError(t, err)
	assert.Equal(t, fresh, articles)
	cache.AssertExpectations(t)
}

func TestFetchFeed_ErrorFallsBackToStale(t *testing.T) {
	fetcher := new(mockFetcher)
	cache := new(mockCache)
	uc := newTestNewsUsecase(fetcher, cache, new(mockFeedRepo))

	stale := []*model.Article{{ID: "a1", Title: "stale"}}
	cache.On("Get", mock.Anything, "http://feed").Return(nil, false, nil)
	fetcher.On("Fetch", mock.Anything, "http://feed").Return(nil, errors.New("connection refused"))
	cache.On("GetStale", mock.Anything, "http://feed").Return(stale, true, nil)

	articles, err := uc.FetchFeed(context.Background(), "http://feed")

	require.NoError(t, err)
	assert.Equal(t, stale, articles)
}

func TestFetchFeed_ErrorWithoutStaleFails(t *testing.T) {
	fetcher := new(mockFetcher)
	cache := new(mockCache)
	uc := newTestNewsUsecase(fetcher, cache, new(mockFeedRepo))

	cache.On("Get", mock.Anything, "http://feed").Return(nil, false, nil)
	fetcher.On("Fetch", mock.Anything, "http://feed").Return(nil, errors.New("connection refused"))
	cache.On("GetStale", mock.Anything, "http://feed").Return(nil, false, nil)

	_, err := uc.FetchFeed(context.Background(), "http://feed")

	assert.Error(t, err)
}

func registrySources() []*model.FeedSource {
	return []*model.FeedSource{
		{Name: "reuters", URL: "http://reuters/rss", Kind: model.FeedKindRSS, Enabled: true},
		{Name: "bbc", URL: "http://bbc/rss", Kind: model.FeedKindRSS, Enabled: true},
		{Name: "disabled", URL: "http://off/rss", Kind: model.FeedKindRSS, Enabled: false},
		{Name: "intel_alert", URL: "http://alert/rss", Kind: model.FeedKindGoogleAlert, Enabled: true},
	}
}

func TestFetchAllFeeds_CollectsPerFeedErrors(t *testing.T) {
	fetcher := new(mockFetcher)
	cache := new(mockCache)
	feeds := new(mockFeedRepo)
	uc := newTestNewsUsecase(fetcher, cache, feeds)

	feeds.On("List", mock.Anything).Return(registrySources(), nil)
	cache.On("Get", mock.Anything, mock.Anything).Return(nil, false, nil)
	cache.On("GetStale", mock.Anything, mock.Anything).Return(nil, false, nil)
	cache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	fetcher.On("Fetch", mock.Anything, "http://reuters/rss").
		Return([]*model.Article{{ID: "r1", Title: "reuters story"}}, nil)
	fetcher.On("Fetch", mock.Anything, "http://bbc/rss").
		Return(nil, errors.New("timeout"))

	results, errs := uc.FetchAllFeeds(context.Background())

	require.Len(t, results, 2)
	assert.Len(t, results["reuters"], 1)
	assert.Equal(t, "reuters", results["reuters"][0].SourceName)
	assert.Empty(t, results["bbc"])
	assert.Contains(t, errs, "bbc")
	// Disabled feeds and alert feeds are not touched.
	fetcher.AssertNotCalled(t, "Fetch", mock.Anything, "http://off/rss")
	fetcher.AssertNotCalled(t, "Fetch", mock.Anything, "http://alert/rss")
}

func TestFetchGoogleAlerts_EnrichesArticles(t *testing.T) {
	fetcher := new(mockFetcher)
	cache := new(mockCache)
	feeds := new(mockFeedRepo)
	uc := newTestNewsUsecase(fetcher, cache, feeds)

	feeds.On("List", mock.Anything).Return(registrySources(), nil)
	cache.On("Get", mock.Anything, "http://alert/rss").Return(nil, false, nil)
	cache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	fetcher.On("Fetch", mock.Anything, "http://alert/rss").Return([]*model.Article{
		{ID: "g1", Title: "Cyber incident in France - Reuters", Summary: "A breach in France"},
	}, nil)

	results, errs := uc.FetchGoogleAlerts(context.Background())

	require.Empty(t, errs)
	require.Len(t, results["intel_alert"], 1)
	article := results["intel_alert"][0]
	assert.Equal(t, model.SourceTypeGoogleAlert, article.SourceType)
	assert.Equal(t, "intel_alert", article.AlertName)
	assert.Equal(t, "Reuters", article.Publisher)
	require.NotNil(t, article.Metadata)
}

func TestLatest_SortsAndCaps(t *testing.T) {
	fetcher := new(mockFetcher)
	cache := new(mockCache)
	feeds := new(mockFeedRepo)
	uc := newTestNewsUsecase(fetcher, cache, feeds)
	uc.cfg.LatestLimit = 2

	now := time.Now()
	feeds.On("List", mock.Anything).Return([]*model.FeedSource{
		{Name: "reuters", URL: "http://reuters/rss", Kind: model.FeedKindRSS, Enabled: true},
	}, nil)
	cache.On("Get", mock.Anything, "http://reuters/rss").Return([]*model.Article{
		{ID: "old", Published: now.Add(-48 * time.Hour)},
		{ID: "newest", Published: now},
		{ID: "mid", Published: now.Add(-24 * time.Hour)},
	}, true, nil)

	articles, errs := uc.Latest(context.Background(), false)

	require.Empty(t, errs)
	require.Len(t, articles, 2)
	assert.Equal(t, "newest", articles[0].ID)
	assert.Equal(t, "mid", articles[1].ID)
}

func TestSearch_Validation(t *testing.T) {
	uc := newTestNewsUsecase(new(mockFetcher), new(mockCache), new(mockFeedRepo))

	_, _, err := uc.Search(context.Background(), SearchRequest{})
	assert.ErrorIs(t, err, apperrors.ErrNoKeywords)

	_, _, err = uc.Search(context.Background(), SearchRequest{
		Keywords:   []string{"breach"},
		AssetClass: "spacecraft",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidAssetClass)
}

func TestRegisterFeed_Validation(t *testing.T) {
	feeds := new(mockFeedRepo)
	uc := newTestNewsUsecase(new(mockFetcher), new(mockCache), feeds)

	err := uc.RegisterFeed(context.Background(), &model.FeedSource{Name: "", URL: "http://x/rss"})
	assert.True(t, apperrors.IsValidation(err))

	err = uc.RegisterFeed(context.Background(), &model.FeedSource{Name: "x", URL: "not-a-url"})
	assert.True(t, apperrors.IsValidation(err))

	feeds.On("Create", mock.Anything, mock.MatchedBy(func(f *model.FeedSource) bool {
		return f.Enabled && f.Kind == model.FeedKindRSS
	})).Return(nil)
	err = uc.RegisterFeed(context.Background(), &model.FeedSource{Name: "x", URL: "https://x/rss"})
	assert.NoError(t, err)
}

func TestRemoveFeed_InvalidatesCache(t *testing.T) {
	feeds := new(mockFeedRepo)
	cache := new(mockCache)
	uc := newTestNewsUsecase(new(mockFetcher), cache, feeds)

	feeds.On("GetByName", mock.Anything, "reuters").Return(&model.FeedSource{
		Name: "reuters", URL: "http://reuters/rss", Kind: model.FeedKindRSS,
	}, nil)
	feeds.On("Delete", mock.Anything, "reuters").Return(nil)
	cache.On("Invalidate", mock.Anything, "http://reuters/rss").Return(nil)

	require.NoError(t, uc.RemoveFeed(context.Background(), "reuters"))
	cache.AssertCalled(t, "Invalidate", mock.Anything, "http://reuters/rss")
}

func TestRemoveFeed_NotFound(t *testing.T) {
	feeds := new(mockFeedRepo)
	uc := newTestNewsUsecase(new(mockFetcher), new(mockCache), feeds)

	feeds.On("GetByName", mock.Anything, "ghost").Return(nil, apperrors.ErrFeedNotFound)

	err := uc.RemoveFeed(context.Background(), "ghost")
	assert.ErrorIs(t, err, apperrors.ErrFeedNotFound)
}
