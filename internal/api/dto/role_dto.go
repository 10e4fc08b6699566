package dto

import "github.com/spec-kit/helpdesk/internal/domain"

// RoleRequest creates or updates a role together with its grants.
type RoleRequest struct {
	Name          string  `json:"name"`
	PermissionIDs []int64 `json:"permission_ids"`
}

// RoleActiveRequest toggles a role.
type RoleActiveRequest struct {
	IsActive bool `json:"is_active"`
}

// RoleResponse is a role with its aggregated permission names.
type RoleResponse struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	IsActive    bool     `json:"is_active"`
	Permissions []string `json:"permissions"`
}

// NewRoleResponse maps a role with permissions.
func NewRoleResponse(role *domain.RoleWithPermissions) RoleResponse {
	permissions := role.Permissions
	if permissions == nil {
		permissions = []string{}
	}
	return RoleResponse{
		ID:          role.ID,
		Name:        role.Name,
		IsActive:    role.IsActive,
		Permissions: permissions,
	}
}

// PermissionResponse is one catalog entry.
type PermissionResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
