package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// UserService covers admin user management.
type UserService struct {
	users      repository.UserRepository
	roles      repository.RoleRepository
	bcryptCost int
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, roles repository.RoleRepository, bcryptCost int) *UserService {
	return &UserService{users: users, roles: roles, bcryptCost: bcryptCost}
}

// List returns every user with its permission set. Permission sets are
// batch-resolved once per distinct role present in the result, not per row.
func (s *UserService) List(ctx context.Context) ([]domain.UserWithPermissions, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	distinct := make([]string, 0, 4)
	seen := map[string]bool{}
	for _, user := range users {
		if !seen[user.Role] {
			seen[user.Role] = true
			distinct = append(distinct, user.Role)
		}
	}
	resolved, err := s.roles.PermissionsByRoleNames(ctx, distinct)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	for i := range users {
		users[i].Permissions = resolved[users[i].Role]
	}
	return users, nil
}

// UserCreateInput describes admin user creation.
type UserCreateInput struct {
	Name           string
	Email          string
	Password       string
	RoleName       string
	ServiceLevelID *int64
}

// Create adds a user with an admin-chosen role.
func (s *UserService) Create(ctx context.Context, input UserCreateInput) (*domain.User, []string, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, nil, apperrors.NewValidationError("name, email and password are required", nil)
	}
	roleName := input.RoleName
	if roleName == "" {
		roleName = domain.DefaultRoleName
	}
	if _, err := s.roles.GetByName(ctx, roleName); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("role", map[string]any{"name": roleName})
		}
		return nil, nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	user := &domain.User{
		Name:           input.Name,
		Email:          input.Email,
		PasswordHash:   hash,
		Role:           roleName,
		IsActive:       true,
		ServiceLevelID: input.ServiceLevelID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, nil, apperrors.NewConflict("email already registered", map[string]any{"email": input.Email})
		}
		return nil, nil, apperrors.MapError(err)
	}

	permissions, err := s.roles.PermissionsByRoleName(ctx, roleName)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return user, permissions, nil
}

// UserUpdateInput is a partial user update; nil fields keep current values.
type UserUpdateInput struct {
	Name            *string
	Email           *string
	Password        *string
	RoleName        *string
	IsActive        *bool
	ServiceLevelSet bool
	ServiceLevelID  *int64
}

// Update mutates a user, falling back to current values for omitted fields.
func (s *UserService) Update(ctx context.Context, id int64, input UserUpdateInput) (*domain.User, []string, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("user", map[string]any{"user_id": id})
		}
		return nil, nil, apperrors.MapError(err)
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Password != nil {
		hash, err := auth.HashPassword(*input.Password, s.bcryptCost)
		if err != nil {
			return nil, nil, apperrors.MapError(err)
		}
		user.PasswordHash = hash
	}
	if input.RoleName != nil {
		if _, err := s.roles.GetByName(ctx, *input.RoleName); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, nil, apperrors.NewNotFound("role", map[string]any{"name": *input.RoleName})
			}
			return nil, nil, apperrors.MapError(err)
		}
		user.Role = *input.RoleName
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.ServiceLevelSet {
		user.ServiceLevelID = input.ServiceLevelID
	}

	if err := s.users.Update(ctx, user); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, nil, apperrors.NewConflict("email already registered", map[string]any{"email": user.Email})
		}
		return nil, nil, apperrors.MapError(err)
	}

	permissions, err := s.roles.PermissionsByRoleName(ctx, user.Role)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return user, permissions, nil
}

// ListAgents returns active users whose role can work tickets.
func (s *UserService) ListAgents(ctx context.Context) ([]domain.Agent, error) {
	agents, err := s.users.ListAssignable(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return agents, nil
}
