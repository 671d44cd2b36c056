package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "intelfeed", cfg.DatabaseName)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 20, cfg.MaxEntriesPerFeed)
	assert.Equal(t, 50, cfg.LatestLimit)
	assert.Equal(t, "intelfeed/1.0", cfg.UserAgent)
	assert.Equal(t, 5.0, cfg.FetchRatePerSecond)
	assert.Equal(t, 10, cfg.FetchBurst)
	assert.False(t, cfg.RefreshEnabled)
	assert.Equal(t, 30*time.Minute, cfg.RefreshInterval)
}

func TestLoadConfig_ZeroValuesFallBack(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("FEED_CACHE_TTL", "0s")
	t.Setenv("MAX_ENTRIES_PER_FEED", "0")
	t.Setenv("FEED_FETCH_RATE", "0")
	t.Setenv("FEED_FETCH_BURST", "0")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, 20, cfg.MaxEntriesPerFeed)
	assert.Equal(t, 5.0, cfg.FetchRatePerSecond)
	assert.Equal(t, 10, cfg.FetchBurst)
}

func TestLoadRedisConfig_Defaults(t *testing.T) {
	cfg, err := LoadRedisConfig()
	require.NoError(t, err)

	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Empty(t, cfg.RedisPassword)
	assert.Equal(t, 0, cfg.RedisDB)
}
