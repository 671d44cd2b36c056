package usecase

import (
	"strings"
	"testing"
	"time"

	"intelfeed/internal/news/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractLocations(t *testing.T) {
	locations := ExtractLocations("Tensions rise in Ukraine as Russia moves troops near the border")
	assert.Contains(t, locations, "ukraine")
	assert.Contains(t, locations, "russia")

	assert.Empty(t, ExtractLocations("A quiet day on the stock exchange"))
}

func TestExtractOrganizations(t *testing.T) {
	orgs := ExtractOrganizations("NATO and the Pentagon responded to the Microsoft breach")
	assert.Contains(t, orgs, "nato")
	assert.Contains(t, orgs, "pentagon")
	assert.Contains(t, orgs, "microsoft")
}

func TestDetermineSourceCredibility(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"Reuters", model.CredibilityHigh},
		{"BBC News", model.CredibilityHigh},
		{"The Wall Street Journal", model.CredibilityHigh},
		{"CNN International", model.CredibilityMedium},
		{"TechCrunch", model.CredibilityMedium},
		{"Random Blog", model.CredibilityStandard},
		{"", model.CredibilityStandard},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetermineSourceCredibility(tt.source), "source %q", tt.source)
	}
}

func TestDetermineIntelligenceCategories(t *testing.T) {
	cats := DetermineIntelligenceCategories(
		"Ransomware attack hits power grid operator",
		"The malware disrupted energy infrastructure across the region",
	)
	assert.Contains(t, cats, model.CategoryCybersecurity)
	assert.Contains(t, cats, model.CategoryInfrastructure)
	assert.NotContains(t, cats, model.CategoryGeneral)

	cats = DetermineIntelligenceCategories("Local bake sale a success", "Cookies sold out by noon")
	assert.Equal(t, []string{model.CategoryGeneral}, cats)
}

func TestCalculateAlertConfidence(t *testing.T) {
	longSummary := strings.Repeat("detail ", 20)

	t.Run("base score", func(t *testing.T) {
		article := &model.Article{Title: "Something happened", Summary: longSummary}
		assert.Equal(t, 70, CalculateAlertConfidence(article, "intelligence_news"))
	})

	t.Run("title hit plus high credibility publisher", func(t *testing.T) {
		article := &model.Article{
			Title:     "intelligence_news digest",
			Summary:   longSummary,
			Publisher: "Reuters",
		}
		assert.Equal(t, 95, CalculateAlertConfidence(article, "intelligence_news"))
	})

	t.Run("short summary penalty", func(t *testing.T) {
		article := &model.Article{Title: "Something happened", Summary: "brief"}
		assert.Equal(t, 65, CalculateAlertConfidence(article, "intelligence_news"))
	})

	t.Run("clamped to 100", func(t *testing.T) {
		article := &model.Article{
			Title:     "intelligence_news special intelligence_news",
			Summary:   longSummary,
			Publisher: "Bloomberg",
		}
		score := CalculateAlertConfidence(article, "intelligence_news")
		assert.LessOrEqual(t, score, 100)
	})
}

func TestEnrichGoogleAlert(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	article := &model.Article{
		Title:   "Cyber attack on German bank - Reuters",
		Summary: "A data breach at a major bank in Germany exposed customer records",
	}

	EnrichGoogleAlert(article, "intelligence_news", now)

	assert.Equal(t, model.SourceTypeGoogleAlert, article.SourceType)
	assert.Equal(t, "intelligence_news", article.AlertName)
	assert.Equal(t, "Reuters", article.Publisher)
	assert.Equal(t, "Cyber attack on German bank - Reuters", article.OriginalTitle)
	assert.Equal(t, "Cyber attack on German bank", article.Title)
	assert.Contains(t, article.ExtractedLocations, "germany")

	require.NotNil(t, article.Metadata)
	assert.Equal(t, model.CredibilityHigh, article.Metadata.SourceCredibility)
	assert.Contains(t, article.Metadata.IntelligenceCategories, model.CategoryCybersecurity)
	assert.Equal(t, now, article.Metadata.ProcessedAt)
	assert.Greater(t, article.AlertConfidence, 0)
}

func TestEnrichGoogleAlert_NoPublisherSuffix(t *testing.T) {
	article := &model.Article{Title: "Plain headline", Summary: "No publisher here"}

	EnrichGoogleAlert(article, "watchlist", time.Now())

	assert.Empty(t, article.Publisher)
	assert.Empty(t, article.OriginalTitle)
	assert.Equal(t, "Plain headline", article.Title)
	require.NotNil(t, article.Metadata)
	assert.Equal(t, model.CredibilityStandard, article.Metadata.SourceCredibility)
}

func TestEnrichGoogleAlert_MultipleDashSegments(t *testing.T) {
	article := &model.Article{
		Title:   "Breaking - Markets fall - Bloomberg",
		Summary: strings.Repeat("market detail ", 10),
	}

	EnrichGoogleAlert(article, "markets", time.Now())

	assert.Equal(t, "Bloomberg", article.Publisher)
	assert.Equal(t, "Breaking - Markets fall", article.Title)
}
