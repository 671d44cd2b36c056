package usecase

import (
	"testing"
	"time"

	"intelfeed/internal/news/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSearchQuery(t *testing.T) {
	assert.Equal(t, "breach ransomware", BuildSearchQuery([]string{"breach", "ransomware"}, "", AssetClassAny))

	assert.Equal(t, "breach ukraine", BuildSearchQuery([]string{"breach"}, "ukraine", AssetClassAny))

	query := BuildSearchQuery([]string{"breach"}, "", AssetClassDigitalAsset)
	assert.Contains(t, query, "server OR database OR cloud")
}

func TestValidAssetClass(t *testing.T) {
	for _, ac := range []string{AssetClassPerson, AssetClassOrganization, AssetClassInfrastructure,
		AssetClassDigitalAsset, AssetClassPhysicalAsset, AssetClassAny, ""} {
		assert.True(t, ValidAssetClass(ac), ac)
	}
	assert.False(t, ValidAssetClass("spacecraft"))
}

func newsArticle(title, summary, source string, published time.Time) *model.Article {
	return &model.Article{
		ID:        title,
		Title:     title,
		Summary:   summary,
		Source:    source,
		Published: published,
	}
}

func TestScoreArticles_FiltersNonMatching(t *testing.T) {
	now := time.Now()
	articles := []*model.Article{
		newsArticle("Ransomware hits hospital", "A breach was reported", "Reuters", now),
		newsArticle("Sports results", "The cup final ended in a draw", "BBC Sport", now),
	}

	matches := ScoreArticles(articles, "ransomware breach", "", 10, now)

	require.Len(t, matches, 1)
	assert.Equal(t, "Ransomware hits hospital", matches[0].Title)
	assert.ElementsMatch(t, []string{"ransomware", "breach"}, matches[0].KeywordsMatched)
}

func TestScoreArticles_LocationSkipRule(t *testing.T) {
	now := time.Now()
	articles := []*model.Article{
		newsArticle("Breach in Ukraine", "Ukraine networks compromised", "Reuters", now),
		newsArticle("Breach elsewhere", "No location mentioned", "Reuters", now),
	}

	matches := ScoreArticles(articles, "breach", "ukraine", 10, now)

	require.Len(t, matches, 1)
	assert.Equal(t, "Breach in Ukraine", matches[0].Title)
	require.NotNil(t, matches[0].LocationMatch)
	assert.True(t, *matches[0].LocationMatch)
}

func TestScoreArticles_LocationInQueryKeepsNonMatching(t *testing.T) {
	now := time.Now()
	articles := []*model.Article{
		newsArticle("Breach elsewhere", "No location mentioned", "Reuters", now),
	}

	// Location also appears in the query, so the non-matching article is
	// kept with lower priority instead of being skipped.
	matches := ScoreArticles(articles, "breach ukraine", "ukraine", 10, now)

	require.Len(t, matches, 1)
	require.NotNil(t, matches[0].LocationMatch)
	assert.False(t, *matches[0].LocationMatch)
}

func TestScoreArticles_OrderingAndLimit(t *testing.T) {
	now := time.Now()
	articles := []*model.Article{
		newsArticle("breach old", "breach", "Unknown Blog", now.AddDate(0, 0, -30)),
		newsArticle("breach fresh high cred", "breach", "Reuters World", now),
		newsArticle("breach fresh", "breach", "Unknown Blog", now),
	}

	matches := ScoreArticles(articles, "breach", "", 2, now)

	require.Len(t, matches, 2)
	assert.Equal(t, "breach fresh high cred", matches[0].Title)
	assert.GreaterOrEqual(t, matches[0].RelevanceScore, matches[1].RelevanceScore)
}

func TestRelevanceScoreComponents(t *testing.T) {
	now := time.Now()

	t.Run("full keyword match fresh high credibility", func(t *testing.T) {
		article := newsArticle("breach report", "a breach", "Reuters", now)
		matches := ScoreArticles([]*model.Article{article}, "breach", "", 1, now)
		require.Len(t, matches, 1)
		// 0.5 keyword + 0.15 source + 0.15 recency = 80
		assert.Equal(t, 80, matches[0].RelevanceScore)
	})

	t.Run("unparseable date defaults recency", func(t *testing.T) {
		article := &model.Article{Title: "breach", Summary: "", Source: "Unknown"}
		matches := ScoreArticles([]*model.Article{article}, "breach", "", 1, now)
		require.Len(t, matches, 1)
		// 0.5 keyword + 0.5*0.15 recency default = 57
		assert.Equal(t, 57, matches[0].RelevanceScore)
	})

	t.Run("week old article loses recency", func(t *testing.T) {
		article := newsArticle("breach", "", "Unknown", now.AddDate(0, 0, -8))
		matches := ScoreArticles([]*model.Article{article}, "breach", "", 1, now)
		require.Len(t, matches, 1)
		assert.Equal(t, 50, matches[0].RelevanceScore)
	})
}
