package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"intelfeed/internal/auth/config"
	"intelfeed/internal/auth/domain/model"
	"intelfeed/internal/auth/domain/repository"
	apperrors "intelfeed/internal/shared/errors"
	"intelfeed/internal/shared/logger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthUsecaseInterface defines the auth business operations
type AuthUsecaseInterface interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Logout(ctx context.Context, userID string) error
	RefreshToken(ctx context.Context, tokenString string) (*AuthResponse, error)
	GetUserByID(ctx context.Context, userID string) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	SetUserActive(ctx context.Context, userID string, active bool) (*model.User, error)
	DeleteUser(ctx context.Context, userID string) error
	ValidateToken(ctx context.Context, tokenString string) (*repository.Claims, error)
}

// RegisterRequest carries the fields needed to create an operator account.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned on successful register/login/refresh.
type AuthResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *model.User `json:"user"`
}

// AuthUsecase implements the auth business logic
type AuthUsecase struct {
	repo         repository.AuthRepository
	tokenService repository.TokenService
	cfg          *config.Config
	log          logger.Logger
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(repo repository.AuthRepository, tokenService repository.TokenService, cfg *config.Config, log logger.Logger) *AuthUsecase {
	return &AuthUsecase{
		repo:         repo,
		tokenService: tokenService,
		cfg:          cfg,
		log:          log.WithComponent("auth_usecase"),
	}
}

func validateRegisterRequest(req RegisterRequest) error {
	errs := apperrors.NewValidationErrors()
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		errs.Add("email", "a valid email address is required", req.Email)
	}
	if len(req.Password) < 8 {
		errs.Add("password", "password must be at least 8 characters", nil)
	}
	if errs.HasErrors() {
		return errs.ToAppError()
	}
	return nil
}

// Register creates a new operator account and returns a session token.
// The first account ever registered becomes the admin.
func (uc *AuthUsecase) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if err := validateRegisterRequest(req); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if existing, err := uc.repo.GetUserByEmail(ctx, email); err == nil && existing != nil {
		return nil, apperrors.NewConflictError("user already exists").WithCode("USER_EXISTS")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to hash password").WithCause(err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Role:         model.RoleAnalyst,
		Active:       true,
	}

	if err := uc.repo.CreateUser(ctx, user); err != nil {
		if err == model.ErrUserExists {
			return nil, apperrors.NewConflictError("user already exists").WithCode("USER_EXISTS")
		}
		return nil, apperrors.NewInternalError("failed to create user").WithCause(err)
	}

	// The bootstrap claim is atomic in the repository, so two concurrent
	// first registrations cannot both win the admin role. Claimed only
	// after the account exists so a failed insert cannot burn it.
	if claimed, err := uc.repo.ClaimAdminBootstrap(ctx); err != nil {
		uc.log.WithError(err).Error("admin bootstrap claim failed")
	} else if claimed {
		user.Role = model.RoleAdmin
		if err := uc.repo.UpdateUser(ctx, user); err != nil {
			return nil, apperrors.NewInternalError("failed to assign admin role").WithCause(err)
		}
	}

	uc.log.WithFields(map[string]interface{}{"user_id": user.ID, "role": user.Role}).Info("user registered")
	return uc.issueSession(ctx, user)
}

// Login authenticates a user and returns a session token.
func (uc *AuthUsecase) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, apperrors.NewValidationError("email and password are required")
	}

	user, err := uc.repo.GetUserByEmail(ctx, email)
	if err != nil {
		// Same response for unknown user and bad password.
		return nil, apperrors.NewAuthenticationError("invalid credentials")
	}
	if !user.Active {
		return nil, apperrors.NewAuthorizationError("account is inactive")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.NewAuthenticationError("invalid credentials")
	}

	uc.log.WithFields(map[string]interface{}{"user_id": user.ID}).Info("user logged in")
	return uc.issueSession(ctx, user)
}

// Logout invalidates all sessions for the user.
func (uc *AuthUsecase) Logout(ctx context.Context, userID string) error {
	if userID == "" {
		return apperrors.NewValidationError("user id is required")
	}
	if err := uc.repo.DeleteUserSessions(ctx, userID); err != nil {
		return apperrors.NewInternalError("failed to delete sessions").WithCause(err)
	}
	uc.log.WithFields(map[string]interface{}{"user_id": userID}).Info("user logged out")
	return nil
}

// RefreshToken issues a fresh token for a valid access token, or for an
// expired one while its session is still inside the refresh window.
func (uc *AuthUsecase) RefreshToken(ctx context.Context, tokenString string) (*AuthResponse, error) {
	claims, err := uc.tokenService.ValidateToken(ctx, tokenString)
	if err != nil {
		if !errors.Is(err, apperrors.ErrTokenExpired) || claims == nil {
			return nil, apperrors.NewAuthenticationError("invalid or expired token")
		}
		// Sessions outlive the access token by RefreshTokenTTL; the
		// Mongo TTL index removes them once the window closes.
		session, serr := uc.repo.GetSessionByToken(ctx, tokenString)
		if serr != nil || session.Expired(time.Now()) {
			return nil, apperrors.NewAuthenticationError("refresh window has closed")
		}
	}
	user, err := uc.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.NewAuthenticationError("user no longer exists")
	}
	if !user.Active {
		return nil, apperrors.NewAuthorizationError("account is inactive")
	}
	return uc.issueSession(ctx, user)
}

// GetUserByID returns the user for the given id.
func (uc *AuthUsecase) GetUserByID(ctx context.Context, userID string) (*model.User, error) {
	user, err := uc.repo.GetUserByID(ctx, userID)
	if err != nil {
		if err == model.ErrUserNotFound {
			return nil, apperrors.NewNotFoundError("user")
		}
		return nil, apperrors.NewInternalError("failed to load user").WithCause(err)
	}
	return user, nil
}

// ListUsers returns all operator accounts. Admin only; enforced at the router.
func (uc *AuthUsecase) ListUsers(ctx context.Context) ([]*model.User, error) {
	users, err := uc.repo.ListUsers(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list users").WithCause(err)
	}
	return users, nil
}

// SetUserActive enables or disables an operator account.
func (uc *AuthUsecase) SetUserActive(ctx context.Context, userID string, active bool) (*model.User, error) {
	user, err := uc.repo.GetUserByID(ctx, userID)
	if err != nil {
		if err == model.ErrUserNotFound {
			return nil, apperrors.NewNotFoundError("user")
		}
		return nil, apperrors.NewInternalError("failed to load user").WithCause(err)
	}

	user.Active = active
	if err := uc.repo.UpdateUser(ctx, user); err != nil {
		return nil, apperrors.NewInternalError("failed to update user").WithCause(err)
	}
	if !active {
		_ = uc.repo.DeleteUserSessions(ctx, userID)
	}
	uc.log.WithFields(map[string]interface{}{"user_id": userID, "active": active}).Info("user active state changed")
	return user, nil
}

// DeleteUser removes an operator account.
func (uc *AuthUsecase) DeleteUser(ctx context.Context, userID string) error {
	if err := uc.repo.DeleteUser(ctx, userID); err != nil {
		if err == model.ErrUserNotFound {
			return apperrors.NewNotFoundError("user")
		}
		return apperrors.NewInternalError("failed to delete user").WithCause(err)
	}
	uc.log.WithFields(map[string]interface{}{"user_id": userID}).Info("user deleted")
	return nil
}

// ValidateToken verifies a token and returns its claims.
func (uc *AuthUsecase) ValidateToken(ctx context.Context, tokenString string) (*repository.Claims, error) {
	return uc.tokenService.ValidateToken(ctx, tokenString)
}

func (uc *AuthUsecase) issueSession(ctx context.Context, user *model.User) (*AuthResponse, error) {
	token, err := uc.tokenService.GenerateToken(ctx, user.ID, user.Email, user.Role)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to generate token").WithCause(err)
	}

	expiresAt := time.Now().Add(uc.cfg.AccessTokenTTL)
	// The session defines the refresh window, not the token lifetime.
	session := &model.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(uc.cfg.RefreshTokenTTL),
	}
	if err := uc.repo.CreateSession(ctx, session); err != nil {
		uc.log.WithError(err).Warn("failed to persist session")
	}

	return &AuthResponse{Token: token, ExpiresAt: expiresAt, User: user}, nil
}
