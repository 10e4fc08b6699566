package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// AuthService coordinates registration and login flows. The role's permission
// set is resolved once here and embedded in the issued token; it is not
// re-resolved per request, so permission changes take effect on the next
// login (bounded further by the cache TTL).
type AuthService struct {
	users      repository.UserRepository
	roles      repository.RoleRepository
	tokenMgr   *auth.TokenManager
	permCache  *auth.PermissionCache
	bcryptCost int
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo        repository.UserRepository
	RoleRepo        repository.RoleRepository
	PermissionCache *auth.PermissionCache
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		roles:      deps.RoleRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		permCache:  deps.PermissionCache,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// AuthResult is the outcome of a successful registration or login.
type AuthResult struct {
	User        *domain.User
	Permissions []string
	Token       string
	ExpiresAt   time.Time
}

// Register creates an account with the default role unless one is named, and
// issues a token carrying the resolved permission set.
func (s *AuthService) Register(ctx context.Context, name, email, password, roleName string) (*AuthResult, error) {
	if name == "" || email == "" || password == "" {
		return nil, apperrors.NewValidationError("name, email and password are required", nil)
	}
	if roleName == "" {
		roleName = domain.DefaultRoleName
	}
	if _, err := s.roles.GetByName(ctx, roleName); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("role", map[string]any{"name": roleName})
		}
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         roleName,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
		}
		return nil, apperrors.MapError(err)
	}

	return s.issueToken(ctx, user)
}

// Login authenticates by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if !user.IsActive {
		return nil, apperrors.NewForbidden("account inactive")
	}
	return s.issueToken(ctx, user)
}

func (s *AuthService) issueToken(ctx context.Context, user *domain.User) (*AuthResult, error) {
	permissions, err := s.ResolvePermissions(ctx, user.Role)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	token, expiresAt, err := s.tokenMgr.GenerateToken(user.ID, user.Role, permissions, user.IsActive)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &AuthResult{
		User:        user,
		Permissions: permissions,
		Token:       token,
		ExpiresAt:   expiresAt,
	}, nil
}

// ResolvePermissions returns the permission names granted by a role, serving
// from the TTL cache when possible.
func (s *AuthService) ResolvePermissions(ctx context.Context, roleName string) ([]string, error) {
	if permissions, ok := s.permCache.Get(ctx, roleName); ok {
		return permissions, nil
	}
	permissions, err := s.roles.PermissionsByRoleName(ctx, roleName)
	if err != nil {
		return nil, err
	}
	if permissions == nil {
		permissions = []string{}
	}
	s.permCache.Set(ctx, roleName, permissions)
	return permissions, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
