package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v6"
)

// DefaultRSSFeeds is the curated intelligence feed set used to seed the
// feed registry on first start.
var DefaultRSSFeeds = map[string]string{
	"reuters":       "https://www.reuters.com/world/rss.xml",
	"aljazeera":     "https://www.aljazeera.com/xml/rss/all.xml",
	"foreignpolicy": "https://foreignpolicy.com/feed/",
	"stratfor":      "https://worldview.stratfor.com/rss.xml",
	"economist":     "https://www.economist.com/international/rss.xml",
	"bbc_world":     "http://feeds.bbci.co.uk/news/world/rss.xml",
	"cnn_world":     "http://rss.cnn.com/rss/edition_world.rss",
	"cfr":           "https://www.cfr.org/rss.xml",
	"war_on_rocks":  "https://warontherocks.com/feed/",
	"defense_one":   "https://www.defenseone.com/rss/",
	"jane_defense":  "https://www.janes.com/feeds/news",
}

// DefaultGoogleAlerts maps alert names to their Google Alerts RSS URLs.
var DefaultGoogleAlerts = map[string]string{
	"intelligence_news": "https://www.google.com/alerts/feeds/09607098981934978130/464922632354509776",
}

// Config holds the news module configuration.
type Config struct {
	// MongoDB
	MongoDBURI   string `env:"MONGODB_URI,required"`
	DatabaseName string `env:"DATABASE_NAME" envDefault:"intelfeed"`

	// Fetch pipeline
	CacheTTL          time.Duration `env:"FEED_CACHE_TTL" envDefault:"1h"`
	FetchTimeout      time.Duration `env:"FEED_FETCH_TIMEOUT" envDefault:"10s"`
	MaxEntriesPerFeed int           `env:"MAX_ENTRIES_PER_FEED" envDefault:"20"`
	LatestLimit       int           `env:"LATEST_LIMIT" envDefault:"50"`
	UserAgent         string        `env:"FEED_USER_AGENT" envDefault:"intelfeed/1.0"`

	// Outbound throttle, requests per second across all feeds.
	FetchRatePerSecond float64 `env:"FEED_FETCH_RATE" envDefault:"5"`
	FetchBurst         int     `env:"FEED_FETCH_BURST" envDefault:"10"`

	// Background refresher
	RefreshEnabled  bool          `env:"FEED_REFRESH_ENABLED" envDefault:"false"`
	RefreshInterval time.Duration `env:"FEED_REFRESH_INTERVAL" envDefault:"30m"`
}

// RedisConfig holds the Redis connection settings shared by the feed cache
// and the report event stream.
type RedisConfig struct {
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
}

// LoadConfig loads the news configuration from the environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load news configuration from environment: " + err.Error())
	}

	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 10 * time.Second
	}
	if cfg.MaxEntriesPerFeed <= 0 {
		cfg.MaxEntriesPerFeed = 20
	}
	if cfg.LatestLimit <= 0 {
		cfg.LatestLimit = 50
	}
	if cfg.FetchRatePerSecond <= 0 {
		cfg.FetchRatePerSecond = 5
	}
	if cfg.FetchBurst <= 0 {
		cfg.FetchBurst = 10
	}

	return cfg, nil
}

// LoadRedisConfig loads the Redis settings from the environment.
func LoadRedisConfig() (*RedisConfig, error) {
	cfg := &RedisConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load redis configuration from environment: " + err.Error())
	}
	return cfg, nil
}
