package model

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

// Feed kinds stored in the registry.
const (
	FeedKindRSS         = "rss"
	FeedKindGoogleAlert = "google_alert"
)

// FeedSource is a registered feed in the registry.
type FeedSource struct {
	Name      string    `json:"name" bson:"_id"`
	URL       string    `json:"url" bson:"url"`
	Kind      string    `json:"kind" bson:"kind"`
	Enabled   bool      `json:"enabled" bson:"enabled"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Validate checks the invariants a registered feed must satisfy.
func (f *FeedSource) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return errors.New("feed name is required")
	}
	u, err := url.Parse(f.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("feed url must be a valid http(s) URL")
	}
	if f.Kind != FeedKindRSS && f.Kind != FeedKindGoogleAlert {
		return errors.New("feed kind must be rss or google_alert")
	}
	return nil
}
