package http

import (
	"intelfeed/internal/news/domain/model"
	"intelfeed/internal/news/usecase"
	apperrors "intelfeed/internal/shared/errors"
	"intelfeed/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
)

// FeedHTTPHandler exposes the feed registry admin endpoints.
type FeedHTTPHandler struct {
	newsUC usecase.NewsUsecaseInterface
	log    logger.Logger
}

// NewFeedHTTPHandler creates a new feed registry handler.
func NewFeedHTTPHandler(newsUC usecase.NewsUsecaseInterface, log logger.Logger) *FeedHTTPHandler {
	return &FeedHTTPHandler{
		newsUC: newsUC,
		log:    log.WithComponent("feed_http"),
	}
}

// RegisterRoutes mounts the registry routes. The write operations take the
// admin guard; listing is open to any authenticated operator.
func (h *FeedHTTPHandler) RegisterRoutes(router fiber.Router, protect, requireAdmin fiber.Handler) {
	feeds := router.Group("/feeds")
	feeds.Get("/", protect, h.listFeeds)
	feeds.Post("/", protect, requireAdmin, h.registerFeed)
	feeds.Delete("/:name", protect, requireAdmin, h.removeFeed)
}

func (h *FeedHTTPHandler) listFeeds(c *fiber.Ctx) error {
	feeds, err := h.newsUC.ListFeeds(c.UserContext())
	if err != nil {
		h.log.WithError(err).Error("failed to list feeds")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list feeds"})
	}
	return c.JSON(fiber.Map{"feeds": feeds, "count": len(feeds)})
}

func (h *FeedHTTPHandler) registerFeed(c *fiber.Ctx) error {
	var body struct {
		Name string `json:"name"`
		URL  string `json:"url"`
		Kind string `json:"kind"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	feed := &model.FeedSource{Name: body.Name, URL: body.URL, Kind: body.Kind}
	if err := h.newsUC.RegisterFeed(c.UserContext(), feed); err != nil {
		switch {
		case apperrors.IsValidation(err):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case apperrors.IsConflict(err):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "feed already registered"})
		default:
			h.log.WithError(err).Error("failed to register feed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to register feed"})
		}
	}
	return c.Status(fiber.StatusCreated).JSON(feed)
}

func (h *FeedHTTPHandler) removeFeed(c *fiber.Ctx) error {
	if err := h.newsUC.RemoveFeed(c.UserContext(), c.Params("name")); err != nil {
		if apperrors.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "feed not found"})
		}
		h.log.WithError(err).Error("failed to remove feed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to remove feed"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
