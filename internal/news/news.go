// Package news aggregates the configured RSS and Google Alerts feeds:
// registry, fetch pipeline, Redis cache, enrichment, and search.
package news

import (
	"context"
	"fmt"
	"time"

	"intelfeed/internal/news/adapter/fetch"
	newshttp "intelfeed/internal/news/adapter/http"
	"intelfeed/internal/news/adapter/persistence"
	"intelfeed/internal/news/adapter/persistence/mongodb"
	"intelfeed/internal/news/config"
	"intelfeed/internal/news/domain/model"
	"intelfeed/internal/news/usecase"
	"intelfeed/internal/shared/eventbus"
	"intelfeed/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// Module bundles the news components for the DI container.
type Module struct {
	Config    *config.Config
	Usecase   usecase.NewsUsecaseInterface
	Archive   *mongodb.MongoArticleArchive
	refresher *usecase.Refresher

	newsHandler *newshttp.NewsHTTPHandler
	feedHandler *newshttp.FeedHTTPHandler
}

// NewModule builds the news module and seeds the feed registry.
func NewModule(db *mongo.Database, redisClient *redis.Client, bus eventbus.EventBusInterface, log logger.Logger) (*Module, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("news config: %w", err)
	}

	fetcher := fetch.NewGofeedFetcher(cfg, log)
	cache := persistence.NewRedisArticleCache(redisClient, log)
	feedRepo := mongodb.NewMongoFeedSourceRepository(db)
	archive := mongodb.NewMongoArticleArchive(db)

	seedCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := feedRepo.Seed(seedCtx, defaultFeedSources()); err != nil {
		return nil, fmt.Errorf("seed feed registry: %w", err)
	}

	usecase.SubscribeFeedObservers(bus, archive, log)
	uc := usecase.NewNewsUsecase(fetcher, cache, feedRepo, bus, cfg, log)

	m := &Module{
		Config:      cfg,
		Usecase:     uc,
		Archive:     archive,
		newsHandler: newshttp.NewNewsHTTPHandler(uc, log),
		feedHandler: newshttp.NewFeedHTTPHandler(uc, log),
	}

	if cfg.RefreshEnabled {
		m.refresher = usecase.NewRefresher(uc, archive, cfg.RefreshInterval, log)
	}
	return m, nil
}

// RegisterRoutes mounts the news and feed registry routes.
func (m *Module) RegisterRoutes(router fiber.Router, protect, requireAdmin fiber.Handler) {
	m.newsHandler.RegisterRoutes(router)
	m.feedHandler.RegisterRoutes(router, protect, requireAdmin)
}

// Start launches the background refresher if enabled.
func (m *Module) Start(ctx context.Context) {
	if m.refresher != nil {
		m.refresher.Start(ctx)
	}
}

// Stop shuts the background refresher down.
func (m *Module) Stop() {
	if m.refresher != nil {
		m.refresher.Stop()
	}
}

func defaultFeedSources() []*model.FeedSource {
	now := time.Now()
	var feeds []*model.FeedSource
	for name, url := range config.DefaultRSSFeeds {
		feeds = append(feeds, &model.FeedSource{
			Name: name, URL: url, Kind: model.FeedKindRSS,
			Enabled: true, CreatedAt: now, UpdatedAt: now,
		})
	}
	for name, url := range config.DefaultGoogleAlerts {
		feeds = append(feeds, &model.FeedSource{
			Name: name, URL: url, Kind: model.FeedKindGoogleAlert,
			Enabled: true, CreatedAt: now, UpdatedAt: now,
		})
	}
	return feeds
}
