package usecase

import (
	"strings"
	"time"

	"intelfeed/internal/news/domain/model"
)

// Word lists for entity extraction. Keyword matching keeps the pipeline
// dependency-free; swap in an NLP service if precision ever matters.
var commonLocations = []string{
	"afghanistan", "africa", "albania", "algeria", "america", "argentina", "asia", "australia",
	"bangladesh", "belarus", "belgium", "brazil", "bulgaria", "canada", "china", "colombia",
	"denmark", "egypt", "europe", "france", "germany", "greece", "hong kong", "hungary", "india",
	"indonesia", "iran", "iraq", "ireland", "israel", "italy", "japan", "kazakhstan", "kenya",
	"korea", "kuwait", "latvia", "libya", "malaysia", "mexico", "middle east", "morocco",
	"netherlands", "new zealand", "nigeria", "norway", "pakistan", "palestine", "philippines",
	"poland", "portugal", "qatar", "romania", "russia", "saudi arabia", "serbia", "singapore",
	"south africa", "spain", "sweden", "switzerland", "syria", "taiwan", "thailand", "turkey",
	"ukraine", "united kingdom", "uk", "united states", "usa", "venezuela", "vietnam", "yemen",
}

var commonOrganizations = []string{
	"google", "microsoft", "apple", "amazon", "facebook", "meta", "twitter", "tesla", "ibm",
	"intel", "cisco", "huawei", "samsung", "sony", "nokia", "ericsson", "oracle", "sap",
	"alibaba", "tencent", "baidu", "xiaomi", "lenovo", "dell", "hp", "nato", "un", "who",
	"world bank", "imf", "wto", "european union", "eu", "opec", "fbi", "cia", "nsa", "gchq",
	"fsb", "pentagon", "white house", "kremlin", "congress", "senate", "parliament",
}

var highCredibilityPublishers = []string{
	"reuters", "bbc", "economist", "time", "bloomberg", "associated press", "ap",
	"wall street journal", "wsj", "washington post", "new york times", "nyt",
	"financial times", "ft",
}

var mediumCredibilityPublishers = []string{
	"cnn", "fox", "aljazeera", "the guardian", "the hill", "politico",
	"usa today", "business insider", "forbes", "zdnet", "techcrunch",
}

var categoryTerms = map[string][]string{
	model.CategoryCybersecurity: {
		"cyber", "hack", "malware", "ransomware", "phishing",
		"data breach", "vulnerability", "exploit",
	},
	model.CategoryGeopolitical: {
		"government", "election", "president", "minister", "military", "war",
		"conflict", "treaty", "summit", "diplomatic", "embassy", "sanction",
	},
	model.CategoryEconomic: {
		"economy", "market", "stock", "finance", "bank",
		"inflation", "trade", "investment", "currency", "gdp",
	},
	model.CategoryInfrastructure: {
		"infrastructure", "power grid", "pipeline", "telecom",
		"network", "bridge", "airport", "railway", "energy",
	},
}

// Categories in deterministic order.
var categoryOrder = []string{
	model.CategoryCybersecurity,
	model.CategoryGeopolitical,
	model.CategoryEconomic,
	model.CategoryInfrastructure,
}

// ExtractLocations returns known location names mentioned in the text.
func ExtractLocations(text string) []string {
	return matchTerms(text, commonLocations)
}

// ExtractOrganizations returns known organization names mentioned in the text.
func ExtractOrganizations(text string) []string {
	return matchTerms(text, commonOrganizations)
}

func matchTerms(text string, terms []string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, term := range terms {
		if strings.Contains(lower, term) {
			found = append(found, term)
		}
	}
	return found
}

// DetermineSourceCredibility classifies a publisher into a credibility tier.
func DetermineSourceCredibility(source string) string {
	lower := strings.ToLower(source)
	for _, s := range highCredibilityPublishers {
		if strings.Contains(lower, s) {
			return model.CredibilityHigh
		}
	}
	for _, s := range mediumCredibilityPublishers {
		if strings.Contains(lower, s) {
			return model.CredibilityMedium
		}
	}
	return model.CredibilityStandard
}

// DetermineIntelligenceCategories categorizes content by term lists,
// falling back to general when nothing matches.
func DetermineIntelligenceCategories(title, summary string) []string {
	combined := strings.ToLower(title + " " + summary)

	var categories []string
	for _, category := range categoryOrder {
		for _, term := range categoryTerms[category] {
			if strings.Contains(combined, term) {
				categories = append(categories, category)
				break
			}
		}
	}
	if len(categories) == 0 {
		categories = append(categories, model.CategoryGeneral)
	}
	return categories
}

// CalculateAlertConfidence scores how relevant a Google Alert article is
// to its alert. Base 70, boosted by title relevance and publisher
// credibility, penalized for thin summaries, clamped to 0..100.
func CalculateAlertConfidence(article *model.Article, alertName string) int {
	score := 70

	if strings.Contains(strings.ToLower(article.Title), strings.ToLower(alertName)) {
		score += 15
	}

	if article.Publisher != "" {
		switch DetermineSourceCredibility(article.Publisher) {
		case model.CredibilityHigh:
			score += 10
		case model.CredibilityMedium:
			score += 5
		}
	}

	if len(article.Summary) < 100 {
		score -= 5
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

// EnrichGoogleAlert marks an article as a Google Alert hit and attaches
// publisher, entities, confidence, and classification metadata.
// Google Alerts suffix the publisher onto the title after " - ".
func EnrichGoogleAlert(article *model.Article, alertName string, now time.Time) {
	article.SourceType = model.SourceTypeGoogleAlert
	article.AlertName = alertName

	if strings.Contains(article.Title, " - ") {
		parts := strings.Split(article.Title, " - ")
		article.Publisher = parts[len(parts)-1]
		article.OriginalTitle = article.Title
		article.Title = strings.Join(parts[:len(parts)-1], " - ")
	}

	if locations := ExtractLocations(article.Summary); len(locations) > 0 {
		article.ExtractedLocations = locations
	}
	if orgs := ExtractOrganizations(article.Summary + " " + article.Title); len(orgs) > 0 {
		article.ExtractedOrganizations = orgs
	}

	article.AlertConfidence = CalculateAlertConfidence(article, alertName)
	article.Metadata = &model.Metadata{
		SourceCredibility:      DetermineSourceCredibility(article.Publisher),
		IntelligenceCategories: DetermineIntelligenceCategories(article.Title, article.Summary),
		ProcessedAt:            now,
	}
}
