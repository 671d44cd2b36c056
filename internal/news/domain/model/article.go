package model

import "time"

// Source types carried on every article.
const (
	SourceTypeRSS         = "rss"
	SourceTypeGoogleAlert = "google_alert"
)

// Source credibility tiers.
const (
	CredibilityHigh     = "high"
	CredibilityMedium   = "medium"
	CredibilityStandard = "standard"
)

// Intelligence categories assigned during enrichment.
const (
	CategoryCybersecurity  = "cybersecurity"
	CategoryGeopolitical   = "geopolitical"
	CategoryEconomic       = "economic"
	CategoryInfrastructure = "infrastructure"
	CategoryGeneral        = "general"
)

// Article is a normalized feed entry. Enrichment fields are only populated
// for Google Alert articles; search fields only after scoring.
type Article struct {
	ID         string    `json:"id" bson:"_id"`
	Title      string    `json:"title" bson:"title"`
	Summary    string    `json:"summary" bson:"summary"`
	Link       string    `json:"link" bson:"link"`
	Published  time.Time `json:"published" bson:"published"`
	Source     string    `json:"source" bson:"source"`
	SourceName string    `json:"source_name,omitempty" bson:"source_name,omitempty"`
	FeedURL    string    `json:"feed_url" bson:"feed_url"`
	SourceType string    `json:"source_type" bson:"source_type"`
	Author     string    `json:"author,omitempty" bson:"author,omitempty"`

	// Google Alert enrichment
	AlertName              string    `json:"alert_name,omitempty" bson:"alert_name,omitempty"`
	Publisher              string    `json:"publisher,omitempty" bson:"publisher,omitempty"`
	OriginalTitle          string    `json:"original_title,omitempty" bson:"original_title,omitempty"`
	ExtractedLocations     []string  `json:"extracted_locations,omitempty" bson:"extracted_locations,omitempty"`
	ExtractedOrganizations []string  `json:"extracted_organizations,omitempty" bson:"extracted_organizations,omitempty"`
	AlertConfidence        int       `json:"alert_confidence,omitempty" bson:"alert_confidence,omitempty"`
	Metadata               *Metadata `json:"metadata,omitempty" bson:"metadata,omitempty"`

	// Search result fields
	KeywordsMatched []string `json:"keywords_matched,omitempty" bson:"-"`
	LocationMatch   *bool    `json:"location_match,omitempty" bson:"-"`
	RelevanceScore  int      `json:"relevance_score,omitempty" bson:"-"`
}

// Metadata carries the intelligence classification attached during enrichment.
type Metadata struct {
	SourceCredibility      string    `json:"source_credibility" bson:"source_credibility"`
	IntelligenceCategories []string  `json:"intelligence_categories" bson:"intelligence_categories"`
	ProcessedAt            time.Time `json:"processed_at" bson:"processed_at"`
}

// Credibility returns the enriched credibility tier, falling back to standard.
func (a *Article) Credibility() string {
	if a.Metadata != nil && a.Metadata.SourceCredibility != "" {
		return a.Metadata.SourceCredibility
	}
	return ""
}

// Categories returns the enriched intelligence categories, if any.
func (a *Article) Categories() []string {
	if a.Metadata != nil {
		return a.Metadata.IntelligenceCategories
	}
	return nil
}
