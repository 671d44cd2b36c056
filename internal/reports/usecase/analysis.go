package usecase

import (
	"sort"
	"time"

	newsmodel "intelfeed/internal/news/domain/model"
	newsusecase "intelfeed/internal/news/usecase"
	"intelfeed/internal/reports/domain/model"
)

// AnalyzeIntelligence turns collected articles into the report document:
// credibility grouping, category breakdown with top articles, extracted
// entities, and the overall threat level.
func AnalyzeIntelligence(articles []*newsmodel.Article, params model.ReportParams, now time.Time) *model.ReportData {
	var high, medium, standard []*newsmodel.Article
	for _, article := range articles {
		switch articleCredibility(article) {
		case newsmodel.CredibilityHigh:
			high = append(high, article)
		case newsmodel.CredibilityMedium:
			medium = append(medium, article)
		default:
			standard = append(standard, article)
		}
	}

	categories := make(map[string][]*newsmodel.Article)
	for _, article := range articles {
		for _, category := range articleCategories(article) {
			categories[category] = append(categories[category], article)
		}
	}

	locationSet := make(map[string]struct{})
	orgSet := make(map[string]struct{})
	for _, article := range articles {
		locs := article.ExtractedLocations
		if len(locs) == 0 {
			locs = newsusecase.ExtractLocations(article.Summary + article.Title)
		}
		for _, loc := range locs {
			locationSet[loc] = struct{}{}
		}

		orgs := article.ExtractedOrganizations
		if len(orgs) == 0 {
			orgs = newsusecase.ExtractOrganizations(article.Summary + article.Title)
		}
		for _, org := range orgs {
			orgSet[org] = struct{}{}
		}
	}

	categoryAnalysis := make(map[string]model.CategoryAnalysis, len(categories))
	categoryNames := make([]string, 0, len(categories))
	for category, arts := range categories {
		top := make([]*newsmodel.Article, len(arts))
		copy(top, arts)
		sort.SliceStable(top, func(i, j int) bool {
			return top[i].RelevanceScore > top[j].RelevanceScore
		})
		if len(top) > 3 {
			top = top[:3]
		}
		categoryAnalysis[category] = model.CategoryAnalysis{Count: len(arts), TopArticles: top}
		categoryNames = append(categoryNames, category)
	}
	sort.Strings(categoryNames)

	return &model.ReportData{
		Summary: model.ReportSummary{
			Keywords:                params.Keywords,
			LocationFocus:           params.Location,
			AssetClass:              params.AssetClass,
			TotalSources:            len(articles),
			HighCredibilitySources:  len(high),
			MediumCredibilitySource: len(medium),
			IntelligenceCategories:  categoryNames,
			IdentifiedLocations:     sortedKeys(locationSet),
			IdentifiedOrganizations: sortedKeys(orgSet),
		},
		ThreatAssessment: model.ThreatAssessment{
			OverallThreatLevel: CalculateThreatLevel(articles, now),
			Categories:         categoryAnalysis,
		},
		Sources: model.ReportSources{
			HighCredibility:     high,
			MediumCredibility:   medium,
			StandardCredibility: standard,
		},
		GeneratedAt: now,
	}
}

// CalculateThreatLevel maps the collected articles to a threat level.
//
// The score sums three capped factors: volume of high-relevance articles,
// fresh high-credibility coverage, and cybersecurity content.
func CalculateThreatLevel(articles []*newsmodel.Article, now time.Time) string {
	if len(articles) == 0 {
		return model.ThreatLow
	}

	score := 0

	highRelevance := 0
	for _, article := range articles {
		if article.RelevanceScore > 80 {
			highRelevance++
		}
	}
	score += capped(highRelevance*2, 40)

	recentHighCred := 0
	for _, article := range articles {
		if articleCredibility(article) == newsmodel.CredibilityHigh &&
			!article.Published.IsZero() &&
			now.Sub(article.Published) < 3*24*time.Hour {
			recentHighCred++
		}
	}
	score += capped(recentHighCred*5, 30)

	cyber := 0
	for _, article := range articles {
		for _, category := range articleCategories(article) {
			if category == newsmodel.CategoryCybersecurity {
				cyber++
				break
			}
		}
	}
	score += capped(cyber*3, 30)

	switch {
	case score > 70:
		return model.ThreatCritical
	case score > 50:
		return model.ThreatHigh
	case score > 30:
		return model.ThreatMedium
	default:
		return model.ThreatLow
	}
}

func articleCredibility(article *newsmodel.Article) string {
	if cred := article.Credibility(); cred != "" {
		return cred
	}
	return newsusecase.DetermineSourceCredibility(article.Source)
}

func articleCategories(article *newsmodel.Article) []string {
	if cats := article.Categories(); len(cats) > 0 {
		return cats
	}
	return newsusecase.DetermineIntelligenceCategories(article.Title, article.Summary)
}

func capped(value, maximum int) int {
	if value > maximum {
		return maximum
	}
	return value
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
