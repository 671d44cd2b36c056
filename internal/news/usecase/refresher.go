package usecase

import (
	"context"
	"time"

	"intelfeed/internal/news/domain/repository"
	"intelfeed/internal/shared/logger"
)

// Refresher keeps the feed cache warm by re-fetching all feeds on an
// interval. RSS articles reach the archive through the feed.fetched bus
// subscription; the refresher archives the Google Alerts articles itself
// so the stored copies carry the alert enrichment.
type Refresher struct {
	news     NewsUsecaseInterface
	archive  repository.ArticleRepository
	interval time.Duration
	log      logger.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewRefresher creates a refresher worker.
func NewRefresher(news NewsUsecaseInterface, archive repository.ArticleRepository, interval time.Duration, log logger.Logger) *Refresher {
	return &Refresher{
		news:     news,
		archive:  archive,
		interval: interval,
		log:      log.WithComponent("feed_refresher"),
	}
}

// Start launches the refresh loop. The first refresh runs immediately.
func (r *Refresher) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})

	go func() {
		defer close(r.done)
		r.refresh(ctx)

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.refresh(ctx)
			}
		}
	}()
	r.log.WithFields(map[string]interface{}{"interval": r.interval.String()}).Info("feed refresher started")
}

// Stop cancels the loop and waits for the in-flight refresh to finish.
func (r *Refresher) Stop() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
	r.log.Info("feed refresher stopped")
}

func (r *Refresher) refresh(ctx context.Context) {
	start := time.Now()
	feeds, errors := r.news.FetchAllFeeds(ctx)
	alerts, alertErrors := r.news.FetchGoogleAlerts(ctx)

	total := 0
	for _, articles := range feeds {
		total += len(articles)
	}
	for _, articles := range alerts {
		total += len(articles)
		if r.archive != nil {
			if err := r.archive.Upsert(ctx, articles); err != nil {
				r.log.WithError(err).Warn("article archive upsert failed")
			}
		}
	}

	r.log.WithFields(map[string]interface{}{
		"articles": total,
		"failures": len(errors) + len(alertErrors),
		"duration": time.Since(start).String(),
	}).Info("feed refresh completed")
}
