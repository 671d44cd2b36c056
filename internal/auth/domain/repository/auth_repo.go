package repository

import (
	"context"

	"intelfeed/internal/auth/domain/model"
)

// AuthRepository defines the interface for authentication data operations
type AuthRepository interface {
	// User operations
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
	DeleteUser(ctx context.Context, id string) error
	ListUsers(ctx context.Context) ([]*model.User, error)

	// ClaimAdminBootstrap atomically claims the one-time admin bootstrap
	// marker. Exactly one caller ever gets true, so concurrent first
	// registrations cannot both become admin.
	ClaimAdminBootstrap(ctx context.Context) (bool, error)

	// Session operations
	CreateSession(ctx context.Context, session *model.Session) error
	GetSessionByToken(ctx context.Context, token string) (*model.Session, error)
	DeleteUserSessions(ctx context.Context, userID string) error
}
