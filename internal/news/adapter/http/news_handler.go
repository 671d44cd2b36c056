package http

import (
	"strings"
	"time"

	"intelfeed/internal/news/domain/model"
	"intelfeed/internal/news/usecase"
	apperrors "intelfeed/internal/shared/errors"
	"intelfeed/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
)

// NewsHTTPHandler exposes the feed aggregation endpoints.
type NewsHTTPHandler struct {
	newsUC usecase.NewsUsecaseInterface
	log    logger.Logger
}

// NewNewsHTTPHandler creates a new news HTTP handler.
func NewNewsHTTPHandler(newsUC usecase.NewsUsecaseInterface, log logger.Logger) *NewsHTTPHandler {
	return &NewsHTTPHandler{
		newsUC: newsUC,
		log:    log.WithComponent("news_http"),
	}
}

// RegisterRoutes mounts the news routes.
func (h *NewsHTTPHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/news/rss", h.getNews)
	router.Post("/rss/search", h.searchFeeds)
}

// normalizedArticle is the flattened wire shape; the raw article rides
// along under raw_data.
type normalizedArticle struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Content        string         `json:"content"`
	URL            string         `json:"url"`
	ExternalURL    string         `json:"external_url"`
	PublishedAt    string         `json:"published_at"`
	Source         string         `json:"source"`
	SourcePlatform string         `json:"source_platform"`
	Author         string         `json:"author"`
	FeedURL        string         `json:"feed_url"`
	RawData        *model.Article `json:"raw_data"`

	KeywordsMatched []string `json:"keywords_matched,omitempty"`
	RelevanceScore  *int     `json:"relevance_score,omitempty"`
}

func normalize(article *model.Article) normalizedArticle {
	return normalizedArticle{
		ID:             article.ID,
		Title:          article.Title,
		Content:        article.Summary,
		URL:            article.Link,
		ExternalURL:    article.Link,
		PublishedAt:    article.Published.Format(time.RFC3339),
		Source:         article.Source,
		SourcePlatform: "rss",
		Author:         article.Author,
		FeedURL:        article.FeedURL,
		RawData:        article,
	}
}

func (h *NewsHTTPHandler) getNews(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 200)
	if limit < 1 || limit > 1000 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "limit must be between 1 and 1000",
		})
	}
	includeAlerts := c.QueryBool("include_google_alerts", true)

	articles, errors := h.newsUC.Latest(c.UserContext(), includeAlerts)

	data := make([]normalizedArticle, 0, len(articles))
	for _, article := range articles {
		data = append(data, normalize(article))
	}
	if len(data) > limit {
		data = data[:limit]
	}

	status := "success"
	if len(errors) > 0 {
		status = "error"
	}
	return c.JSON(fiber.Map{
		"status": status,
		"count":  len(data),
		"errors": errors,
		"data":   data,
	})
}

func (h *NewsHTTPHandler) searchFeeds(c *fiber.Ctx) error {
	keywords := parseKeywords(c)
	if len(keywords) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "at least one keyword is required",
		})
	}

	limit := c.QueryInt("limit", 200)
	if limit < 1 || limit > 1000 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "limit must be between 1 and 1000",
		})
	}

	req := usecase.SearchRequest{
		Keywords:      keywords,
		Location:      c.Query("location"),
		AssetClass:    c.Query("asset_class", usecase.AssetClassAny),
		Limit:         limit,
		IncludeAlerts: c.QueryBool("include_google_alerts", true),
	}

	articles, errors, err := h.newsUC.Search(c.UserContext(), req)
	if err != nil {
		if err == apperrors.ErrInvalidAssetClass || err == apperrors.ErrNoKeywords {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		h.log.WithError(err).Error("search failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "search failed"})
	}

	data := make([]normalizedArticle, 0, len(articles))
	for _, article := range articles {
		n := normalize(article)
		n.KeywordsMatched = matchedKeywords(keywords, article)
		score := article.RelevanceScore
		n.RelevanceScore = &score
		data = append(data, n)
	}

	status := "success"
	if len(errors) > 0 {
		status = "error"
	}
	return c.JSON(fiber.Map{
		"status": status,
		"query": fiber.Map{
			"keywords":    req.Keywords,
			"location":    req.Location,
			"asset_class": req.AssetClass,
		},
		"count":        len(data),
		"errors":       errors,
		"data":         data,
		"generated_at": time.Now().UTC().Format(time.RFC3339),
	})
}

// matchedKeywords reports which of the caller's keywords (not the expanded
// query terms) appear in the article.
func matchedKeywords(keywords []string, article *model.Article) []string {
	text := strings.ToLower(article.Title + article.Summary)
	matched := make([]string, 0)
	for _, kw := range keywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			matched = append(matched, kw)
		}
	}
	return matched
}

// parseKeywords accepts repeated ?keywords= query params or a JSON body
// {"keywords": [...]}.
func parseKeywords(c *fiber.Ctx) []string {
	var keywords []string

	c.Context().QueryArgs().VisitAll(func(key, value []byte) {
		if string(key) == "keywords" && len(value) > 0 {
			keywords = append(keywords, string(value))
		}
	})
	if len(keywords) > 0 {
		return keywords
	}

	var body struct {
		Keywords []string `json:"keywords"`
	}
	if err := c.BodyParser(&body); err == nil {
		return body.Keywords
	}
	return nil
}
