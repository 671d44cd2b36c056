package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"intelfeed/internal/news/domain/model"
	"intelfeed/internal/shared/eventbus"
	"intelfeed/internal/shared/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fakeArchive is mutex-guarded; bus consumers run on their own goroutine.
type fakeArchive struct {
	mu       sync.Mutex
	articles map[string]*model.Article
}

func newFakeArchive() *fakeArchive {
	return &fakeArchive{articles: make(map[string]*model.Article)}
}

func (f *fakeArchive) Upsert(ctx context.Context, articles []*model.Article) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range articles {
		clone := *a
		f.articles[a.ID] = &clone
	}
	return nil
}

func (f *fakeArchive) Recent(ctx context.Context, limit int) ([]*model.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Article
	for _, a := range f.articles {
		clone := *a
		out = append(out, &clone)
	}
	return out, nil
}

func (f *fakeArchive) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.articles)
}

func TestFetchFeed_ArchivesThroughBus(t *testing.T) {
	bus := eventbus.NewEventBus(logger.NewLogger())
	archive := newFakeArchive()
	SubscribeFeedObservers(bus, archive, logger.NewLogger())
	require.Equal(t, 1, bus.GetSubscriberCount(eventbus.EventTypeFeedFetched))
	require.Equal(t, 1, bus.GetSubscriberCount(eventbus.EventTypeFeedFetchFailed))

	fetcher := new(mockFetcher)
	cache := new(mockCache)
	uc := NewNewsUsecase(fetcher, cache, new(mockFeedRepo), bus, testNewsConfig(), logger.NewLogger())

	fresh := []*model.Article{
		{ID: "a1", Title: "first"},
		{ID: "a2", Title: "second"},
	}
	cache.On("Get", mock.Anything, "http://feed").Return(nil, false, nil)
	fetcher.On("Fetch", mock.Anything, "http://feed").Return(fresh, nil)
	cache.On("Set", mock.Anything, "http://feed", fresh, time.Hour).Return(nil)

	articles, err := uc.FetchFeed(context.Background(), "http://feed")
	require.NoError(t, err)
	require.Len(t, articles, 2)

	// The archive write is asynchronous.
	assert.Eventually(t, func() bool {
		return archive.count() == 2
	}, 2*time.Second, 10*time.Millisecond, "expected fetched articles in the archive")

	// Callers own the returned slice; the archive holds copies.
	articles[0].Title = "mutated by caller"
	stored, err := archive.Recent(context.Background(), 10)
	require.NoError(t, err)
	for _, a := range stored {
		assert.NotEqual(t, "mutated by caller", a.Title)
	}
}

func TestFetchFeed_FailurePublishedOnBus(t *testing.T) {
	bus := eventbus.NewEventBus(logger.NewLogger())

	var mu sync.Mutex
	var failures []FeedFetchFailedPayload
	bus.Subscribe(eventbus.EventTypeFeedFetchFailed, func(ctx context.Context, event eventbus.Event) error {
		payload, ok := event.Data().(FeedFetchFailedPayload)
		if !ok {
			return nil
		}
		mu.Lock()
		defer mu.Unlock()
		failures = append(failures, payload)
		return nil
	})

	fetcher := new(mockFetcher)
	cache := new(mockCache)
	uc := NewNewsUsecase(fetcher, cache, new(mockFeedRepo), bus, testNewsConfig(), logger.NewLogger())

	cache.On("Get", mock.Anything, "http://feed").Return(nil, false, nil)
	fetcher.On("Fetch", mock.Anything, "http://feed").Return(nil, errors.New("connection refused"))
	cache.On("GetStale", mock.Anything, "http://feed").Return(nil, false, nil)

	_, err := uc.FetchFeed(context.Background(), "http://feed")
	require.Error(t, err)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(failures) == 1 &&
			failures[0].URL == "http://feed" &&
			failures[0].Reason == "connection refused"
	}, 2*time.Second, 10*time.Millisecond, "expected the failure on the bus")
}

func TestSubscribeFeedObservers_RejectsForeignPayload(t *testing.T) {
	bus := eventbus.NewEventBus(logger.NewLogger())
	SubscribeFeedObservers(bus, newFakeArchive(), logger.NewLogger())

	err := bus.Publish(context.Background(),
		eventbus.NewBasicEvent(eventbus.EventTypeFeedFetched, "not a fetch payload"))
	assert.Error(t, err)
}
