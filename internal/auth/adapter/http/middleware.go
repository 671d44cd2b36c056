package http

import (
	"strings"

	"intelfeed/internal/auth/config"
	"intelfeed/internal/auth/domain/model"
	"intelfeed/internal/auth/usecase"
	"intelfeed/internal/shared/logger"
	"intelfeed/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware guards routes that require an authenticated operator.
type AuthMiddleware struct {
	authUC usecase.AuthUsecaseInterface
	cfg    *config.Config
	log    logger.Logger
}

// NewAuthMiddleware creates the middleware with its dependencies.
func NewAuthMiddleware(authUC usecase.AuthUsecaseInterface, cfg *config.Config, log logger.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		authUC: authUC,
		cfg:    cfg,
		log:    log.WithComponent("auth_middleware"),
	}
}

// Protect validates the request token and stores the operator identity
// in both the fiber locals and the request context.
func (m *AuthMiddleware) Protect() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := m.extractToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "authentication required",
			})
		}

		claims, err := m.authUC.ValidateToken(c.UserContext(), token)
		if err != nil {
			m.log.WithError(err).Debug("token validation failed")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired token",
			})
		}

		c.Locals("userID", claims.UserID)
		c.Locals("userEmail", claims.Email)
		c.Locals("userRole", claims.Role)

		ctx := utils.WithUserID(c.UserContext(), claims.UserID)
		ctx = utils.WithUserEmail(ctx, claims.Email)
		ctx = utils.WithUserRole(ctx, claims.Role)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// RequireAdmin allows only operators with the admin role. Must run after Protect.
func (m *AuthMiddleware) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("userRole").(string)
		if role != model.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "admin role required",
			})
		}
		return c.Next()
	}
}

// extractToken looks for the token in the Authorization header,
// then the auth cookie, then the query string.
func (m *AuthMiddleware) extractToken(c *fiber.Ctx) string {
	auth := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}

	if cookie := c.Cookies(m.cfg.CookieName); cookie != "" {
		return cookie
	}

	// Query fallback for WebSocket clients that cannot set headers.
	return c.Query("token")
}
