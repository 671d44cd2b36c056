package http

import (
	"context"
	"errors"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"intelfeed/internal/auth/config"
	"intelfeed/internal/auth/domain/model"
	"intelfeed/internal/auth/domain/repository"
	"intelfeed/internal/auth/usecase"
	"intelfeed/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAuthUsecase validates tokens against a fixed map; everything else
// is unused by the middleware.
type stubAuthUsecase struct {
	claimsByToken map[string]*repository.Claims
}

func (s *stubAuthUsecase) ValidateToken(ctx context.Context, tokenString string) (*repository.Claims, error) {
	if claims, ok := s.claimsByToken[tokenString]; ok {
		return claims, nil
	}
	return nil, errors.New("token is invalid")
}

func (s *stubAuthUsecase) Register(ctx context.Context, req usecase.RegisterRequest) (*usecase.AuthResponse, error) {
	return nil, nil
}
func (s *stubAuthUsecase) Login(ctx context.Context, req usecase.LoginRequest) (*usecase.AuthResponse, error) {
	return nil, nil
}
func (s *stubAuthUsecase) Logout(ctx context.Context, userID string) error { return nil }
func (s *stubAuthUsecase) RefreshToken(ctx context.Context, tokenString string) (*usecase.AuthResponse, error) {
	return nil, nil
}
func (s *stubAuthUsecase) GetUserByID(ctx context.Context, userID string) (*model.User, error) {
	return nil, nil
}
func (s *stubAuthUsecase) ListUsers(ctx context.Context) ([]*model.User, error) { return nil, nil }
func (s *stubAuthUsecase) SetUserActive(ctx context.Context, userID string, active bool) (*model.User, error) {
	return nil, nil
}
func (s *stubAuthUsecase) DeleteUser(ctx context.Context, userID string) error { return nil }

func readBody(t *testing.T, resp *nethttp.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func newProtectedApp(t *testing.T) *fiber.App {
	t.Helper()
	stub := &stubAuthUsecase{claimsByToken: map[string]*repository.Claims{
		"analyst-token": {UserID: "u1", Email: "ops@example.com", Role: model.RoleAnalyst},
		"admin-token":   {UserID: "u2", Email: "root@example.com", Role: model.RoleAdmin},
		"cookie-token":  {UserID: "u3", Email: "cookie@example.com", Role: model.RoleAnalyst},
		"query-token":   {UserID: "u4", Email: "query@example.com", Role: model.RoleAnalyst},
	}}
	cfg := &config.Config{CookieName: "if_auth_token"}
	mw := NewAuthMiddleware(stub, cfg, logger.NewLogger())

	app := fiber.New()
	app.Get("/whoami", mw.Protect(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": c.Locals("userID")})
	})
	app.Get("/admin", mw.Protect(), mw.RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestProtect_BearerHeaderWinsOverCookieAndQuery(t *testing.T) {
	app := newProtectedApp(t)

	req := httptest.NewRequest("GET", "/whoami?token=query-token", nil)
	req.Header.Set("Authorization", "Bearer analyst-token")
	req.AddCookie(&nethttp.Cookie{Name: "if_auth_token", Value: "cookie-token"})

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "u1")
}

func TestProtect_CookieWinsOverQuery(t *testing.T) {
	app := newProtectedApp(t)

	req := httptest.NewRequest("GET", "/whoami?token=query-token", nil)
	req.AddCookie(&nethttp.Cookie{Name: "if_auth_token", Value: "cookie-token"})

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "u3")
}

func TestProtect_QueryTokenForWebSocketClients(t *testing.T) {
	app := newProtectedApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/whoami?token=query-token", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "u4")
}

func TestProtect_MissingAndInvalidTokens(t *testing.T) {
	app := newProtectedApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/whoami", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer forged-token")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// A header without the Bearer scheme is ignored, not treated as a token.
	req = httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "analyst-token")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAdmin(t *testing.T) {
	app := newProtectedApp(t)

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer analyst-token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
