package usecase

import (
	"context"
	"fmt"

	"intelfeed/internal/news/domain/model"
	"intelfeed/internal/news/domain/repository"
	"intelfeed/internal/shared/eventbus"
	"intelfeed/internal/shared/logger"
)

// FeedFetchedPayload is the bus payload for a successful feed fetch.
type FeedFetchedPayload struct {
	URL      string
	Articles []*model.Article
}

// FeedFetchFailedPayload is the bus payload for a failed feed fetch.
type FeedFetchFailedPayload struct {
	URL    string
	Reason string
}

// SubscribeFeedObservers wires the fetch pipeline's bus consumers: every
// successfully fetched feed is archived, so on-demand API fetches populate
// the archive the same way the background refresher does, and fetch
// failures land in one place in the log.
func SubscribeFeedObservers(bus eventbus.EventBusInterface, archive repository.ArticleRepository, log logger.Logger) {
	if bus == nil {
		return
	}
	log = log.WithComponent("feed_observers")

	bus.Subscribe(eventbus.EventTypeFeedFetched, func(ctx context.Context, event eventbus.Event) error {
		payload, ok := event.Data().(FeedFetchedPayload)
		if !ok {
			return fmt.Errorf("unexpected payload type %T for %s event", event.Data(), event.Type())
		}
		if archive == nil || len(payload.Articles) == 0 {
			return nil
		}
		if err := archive.Upsert(ctx, payload.Articles); err != nil {
			log.WithFields(map[string]interface{}{"url": payload.URL}).
				WithError(err).Warn("failed to archive fetched articles")
			return err
		}
		return nil
	})

	bus.Subscribe(eventbus.EventTypeFeedFetchFailed, func(ctx context.Context, event eventbus.Event) error {
		payload, ok := event.Data().(FeedFetchFailedPayload)
		if !ok {
			return fmt.Errorf("unexpected payload type %T for %s event", event.Data(), event.Type())
		}
		log.WithFields(map[string]interface{}{
			"url":    payload.URL,
			"reason": payload.Reason,
		}).Warn("feed fetch failed")
		return nil
	})
}
