// Package auth wires operator account management: registration, login,
// token validation, and the admin user routes.
package auth

import (
	"fmt"

	authhttp "intelfeed/internal/auth/adapter/http"
	"intelfeed/internal/auth/adapter/persistence/mongodb"
	"intelfeed/internal/auth/adapter/security"
	"intelfeed/internal/auth/config"
	"intelfeed/internal/auth/usecase"
	"intelfeed/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
)

// Module bundles the auth components for the DI container.
type Module struct {
	Config     *config.Config
	Usecase    usecase.AuthUsecaseInterface
	Middleware *authhttp.AuthMiddleware
	handler    *authhttp.AuthHTTPHandler
}

// NewModule builds the auth module on top of the shared Mongo database.
func NewModule(db *mongo.Database, log logger.Logger) (*Module, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("auth config: %w", err)
	}

	tokenService, err := security.NewJWTokenService(cfg)
	if err != nil {
		return nil, fmt.Errorf("token service: %w", err)
	}

	repo := mongodb.NewMongoAuthRepository(db)
	uc := usecase.NewAuthUsecase(repo, tokenService, cfg, log)
	mw := authhttp.NewAuthMiddleware(uc, cfg, log)
	handler := authhttp.NewAuthHTTPHandler(uc, cfg, log)

	return &Module{
		Config:     cfg,
		Usecase:    uc,
		Middleware: mw,
		handler:    handler,
	}, nil
}

// RegisterRoutes mounts the auth routes under the given router group.
func (m *Module) RegisterRoutes(router fiber.Router) {
	m.handler.RegisterRoutes(router, m.Middleware)
}
