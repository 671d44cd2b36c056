package usecase

import (
	"sort"
	"strings"
	"time"

	"intelfeed/internal/news/domain/model"
)

// Asset classes accepted by search and report generation.
const (
	AssetClassPerson         = "person"
	AssetClassOrganization   = "organization"
	AssetClassInfrastructure = "infrastructure"
	AssetClassDigitalAsset   = "digital_asset"
	AssetClassPhysicalAsset  = "physical_asset"
	AssetClassAny            = "any"
)

var assetClassKeywords = map[string][]string{
	AssetClassPerson:         {"individual", "person", "personnel", "employee", "staff"},
	AssetClassOrganization:   {"company", "organization", "business", "corporation", "enterprise", "firm"},
	AssetClassInfrastructure: {"facility", "infrastructure", "building", "plant", "grid", "network"},
	AssetClassDigitalAsset:   {"server", "database", "cloud", "software", "application", "system"},
	AssetClassPhysicalAsset:  {"equipment", "hardware", "device", "machine", "vehicle"},
}

// Feed-name credibility used by search scoring; distinct from the
// publisher lists used during alert enrichment.
var highCredibilityFeeds = []string{"reuters", "bbc", "economist", "stratfor", "foreignpolicy", "janes"}
var mediumCredibilityFeeds = []string{"aljazeera", "cnn"}

// ValidAssetClass reports whether the given asset class is recognized.
func ValidAssetClass(assetClass string) bool {
	if assetClass == AssetClassAny || assetClass == "" {
		return true
	}
	_, ok := assetClassKeywords[assetClass]
	return ok
}

// AssetClassKeywords returns the keyword expansion for a non-any asset class.
func AssetClassKeywords(assetClass string) []string {
	return assetClassKeywords[assetClass]
}

// BuildSearchQuery joins keywords, location, and the asset-class expansion
// into the flat query string the scorer tokenizes.
func BuildSearchQuery(keywords []string, location, assetClass string) string {
	query := strings.Join(keywords, " ")
	if location != "" {
		query += " " + location
	}
	if assetClass != AssetClassAny && assetClass != "" {
		if expansion := assetClassKeywords[assetClass]; len(expansion) > 0 {
			query += " " + strings.Join(expansion, " OR ")
		}
	}
	return query
}

// ScoreArticles filters articles against the query and attaches relevance
// scores, returning the matches sorted best-first and truncated to limit.
//
// An article with a location filter that mentions neither the location nor
// has it in the query is skipped outright rather than down-ranked.
func ScoreArticles(articles []*model.Article, query, location string, limit int, now time.Time) []*model.Article {
	keywords := strings.Fields(strings.ToLower(query))

	var matches []*model.Article
	for _, article := range articles {
		text := strings.ToLower(article.Title) + " " + strings.ToLower(article.Summary)

		var matched []string
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				matched = append(matched, kw)
			}
		}
		if len(matched) == 0 {
			continue
		}

		locationMatch := false
		if location != "" {
			locationMatch = strings.Contains(text, strings.ToLower(location))
			if !locationMatch && !strings.Contains(strings.ToLower(query), strings.ToLower(location)) {
				continue
			}
		}

		article.KeywordsMatched = matched
		if location != "" {
			lm := locationMatch
			article.LocationMatch = &lm
		}
		article.RelevanceScore = relevanceScore(article, len(matched), len(keywords), locationMatch, now)
		matches = append(matches, article)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].RelevanceScore > matches[j].RelevanceScore
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

func relevanceScore(article *model.Article, matched, total int, locationMatch bool, now time.Time) int {
	var keywordScore float64
	if total > 0 {
		keywordScore = float64(matched) / float64(total)
	}

	locationBoost := 0.0
	if locationMatch {
		locationBoost = 0.2
	}

	sourceBoost := 0.0
	sourceLower := strings.ToLower(article.Source)
	for _, s := range highCredibilityFeeds {
		if strings.Contains(sourceLower, s) {
			sourceBoost = 0.15
			break
		}
	}
	if sourceBoost == 0 {
		for _, s := range mediumCredibilityFeeds {
			if strings.Contains(sourceLower, s) {
				sourceBoost = 0.10
				break
			}
		}
	}

	recencyScore := 0.5
	if !article.Published.IsZero() {
		daysOld := now.Sub(article.Published).Hours() / 24
		recencyScore = 1 - daysOld/7
		if recencyScore < 0 {
			recencyScore = 0
		}
		if recencyScore > 1 {
			recencyScore = 1
		}
	}

	return int((keywordScore*0.5 + locationBoost + sourceBoost + recencyScore*0.15) * 100)
}
