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

// RoleService covers role and permission administration. Grant changes
// invalidate the role's cached permission set; tokens already in the wild
// keep their embedded set until they expire.
type RoleService struct {
	roles     repository.RoleRepository
	permCache *auth.PermissionCache
}

// NewRoleService builds the service.
func NewRoleService(roles repository.RoleRepository, permCache *auth.PermissionCache) *RoleService {
	return &RoleService{roles: roles, permCache: permCache}
}

// ListPermissions returns the full permission catalog.
func (s *RoleService) ListPermissions(ctx context.Context) ([]domain.Permission, error) {
	permissions, err := s.roles.ListPermissions(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return permissions, nil
}

// List returns all roles with their aggregated permission names.
func (s *RoleService) List(ctx context.Context) ([]domain.RoleWithPermissions, error) {
	roles, err := s.roles.ListWithPermissions(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return roles, nil
}

// Create adds a role, optionally granting an initial permission set.
func (s *RoleService) Create(ctx context.Context, name string, permissionIDs []int64) (*domain.RoleWithPermissions, error) {
	if name == "" {
		return nil, apperrors.NewValidationError("role name is required", nil)
	}
	role := &domain.Role{Name: name}
	if err := s.roles.Create(ctx, role); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("role name already exists", map[string]any{"name": name})
		}
		return nil, apperrors.MapError(err)
	}
	if len(permissionIDs) > 0 {
		if err := s.roles.ReplacePermissions(ctx, role.ID, permissionIDs); err != nil {
			return nil, apperrors.MapError(err)
		}
	}
	return s.get(ctx, role.ID)
}

// Update renames a role and replaces its permission set.
func (s *RoleService) Update(ctx context.Context, id int64, name string, permissionIDs []int64) (*domain.RoleWithPermissions, error) {
	existing, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = existing.Name
	}
	if _, err := s.roles.Rename(ctx, id, name); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("role name already exists", map[string]any{"name": name})
		}
		return nil, apperrors.MapError(err)
	}
	if err := s.roles.ReplacePermissions(ctx, id, permissionIDs); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.permCache.Invalidate(ctx, existing.Name)
	s.permCache.Invalidate(ctx, name)
	return s.get(ctx, id)
}

// ReplacePermissions swaps the role's grants without renaming.
func (s *RoleService) ReplacePermissions(ctx context.Context, id int64, permissionIDs []int64) (*domain.RoleWithPermissions, error) {
	existing, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.roles.ReplacePermissions(ctx, id, permissionIDs); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.permCache.Invalidate(ctx, existing.Name)
	return s.get(ctx, id)
}

// SetActive toggles a role. Deactivating a role strips its holders of every
// capability at their next permission resolution.
func (s *RoleService) SetActive(ctx context.Context, id int64, active bool) (*domain.Role, error) {
	existing, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	role, err := s.roles.SetActive(ctx, id, active)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.permCache.Invalidate(ctx, existing.Name)
	return role, nil
}

// Delete removes a role; its junction rows cascade at the storage layer.
func (s *RoleService) Delete(ctx context.Context, id int64) error {
	existing, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	affected, err := s.roles.Delete(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if affected == 0 {
		return apperrors.NewNotFound("role", map[string]any{"role_id": id})
	}
	s.permCache.Invalidate(ctx, existing.Name)
	return nil
}

func (s *RoleService) get(ctx context.Context, id int64) (*domain.RoleWithPermissions, error) {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("role", map[string]any{"role_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return role, nil
}
