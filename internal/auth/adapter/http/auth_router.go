package http

import (
	"time"

	"intelfeed/internal/auth/config"
	"intelfeed/internal/auth/usecase"
	apperrors "intelfeed/internal/shared/errors"
	"intelfeed/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
)

// AuthHTTPHandler exposes the auth endpoints.
type AuthHTTPHandler struct {
	authUC usecase.AuthUsecaseInterface
	cfg    *config.Config
	log    logger.Logger
}

// NewAuthHTTPHandler creates a new auth HTTP handler
func NewAuthHTTPHandler(authUC usecase.AuthUsecaseInterface, cfg *config.Config, log logger.Logger) *AuthHTTPHandler {
	return &AuthHTTPHandler{
		authUC: authUC,
		cfg:    cfg,
		log:    log.WithComponent("auth_http"),
	}
}

// RegisterRoutes mounts the auth routes on the given router.
func (h *AuthHTTPHandler) RegisterRoutes(router fiber.Router, mw *AuthMiddleware) {
	auth := router.Group("/auth")
	auth.Post("/register", h.register)
	auth.Post("/login", h.login)
	auth.Post("/refresh", h.refresh)
	auth.Post("/logout", mw.Protect(), h.logout)
	auth.Get("/me", mw.Protect(), h.me)

	users := router.Group("/users", mw.Protect(), mw.RequireAdmin())
	users.Get("/", h.listUsers)
	users.Patch("/:userId/active", h.setUserActive)
	users.Delete("/:userId", h.deleteUser)
}

func (h *AuthHTTPHandler) register(c *fiber.Ctx) error {
	var req usecase.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	resp, err := h.authUC.Register(c.UserContext(), req)
	if err != nil {
		return h.handleError(c, err)
	}

	h.setAuthCookie(c, resp.Token, resp.ExpiresAt)
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHTTPHandler) login(c *fiber.Ctx) error {
	var req usecase.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	resp, err := h.authUC.Login(c.UserContext(), req)
	if err != nil {
		return h.handleError(c, err)
	}

	h.setAuthCookie(c, resp.Token, resp.ExpiresAt)
	return c.JSON(resp)
}

func (h *AuthHTTPHandler) refresh(c *fiber.Ctx) error {
	var body struct {
		Token string `json:"token"`
	}
	_ = c.BodyParser(&body)
	if body.Token == "" {
		body.Token = c.Cookies(h.cfg.CookieName)
	}
	if body.Token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "token is required"})
	}

	resp, err := h.authUC.RefreshToken(c.UserContext(), body.Token)
	if err != nil {
		return h.handleError(c, err)
	}

	h.setAuthCookie(c, resp.Token, resp.ExpiresAt)
	return c.JSON(resp)
}

func (h *AuthHTTPHandler) logout(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)
	if err := h.authUC.Logout(c.UserContext(), userID); err != nil {
		return h.handleError(c, err)
	}

	h.clearAuthCookie(c)
	return c.JSON(fiber.Map{"message": "logged out"})
}

func (h *AuthHTTPHandler) me(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)
	user, err := h.authUC.GetUserByID(c.UserContext(), userID)
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(user)
}

func (h *AuthHTTPHandler) listUsers(c *fiber.Ctx) error {
	users, err := h.authUC.ListUsers(c.UserContext())
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(fiber.Map{"users": users, "count": len(users)})
}

func (h *AuthHTTPHandler) setUserActive(c *fiber.Ctx) error {
	var body struct {
		Active bool `json:"active"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	user, err := h.authUC.SetUserActive(c.UserContext(), c.Params("userId"), body.Active)
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(user)
}

func (h *AuthHTTPHandler) deleteUser(c *fiber.Ctx) error {
	if err := h.authUC.DeleteUser(c.UserContext(), c.Params("userId")); err != nil {
		return h.handleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AuthHTTPHandler) setAuthCookie(c *fiber.Ctx, token string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.CookieName,
		Value:    token,
		Path:     h.cfg.CookiePath,
		Domain:   h.cfg.CookieDomain,
		Expires:  expiresAt,
		Secure:   h.cfg.CookieSecure,
		HTTPOnly: h.cfg.CookieHTTPOnly,
		SameSite: h.cfg.CookieSameSite,
	})
}

func (h *AuthHTTPHandler) clearAuthCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.CookieName,
		Value:    "",
		Path:     h.cfg.CookiePath,
		Domain:   h.cfg.CookieDomain,
		Expires:  time.Now().Add(-time.Hour),
		Secure:   h.cfg.CookieSecure,
		HTTPOnly: h.cfg.CookieHTTPOnly,
		SameSite: h.cfg.CookieSameSite,
	})
}

func (h *AuthHTTPHandler) handleError(c *fiber.Ctx, err error) error {
	if appErr, ok := err.(*apperrors.AppError); ok {
		h.log.WithError(err).Debug("request failed")
		return c.Status(appErr.HTTPCode).JSON(fiber.Map{
			"error": appErr.Message,
			"type":  appErr.Type,
			"code":  appErr.Code,
		})
	}
	h.log.WithError(err).Error("unexpected error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}
