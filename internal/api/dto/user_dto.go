package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// UserResponse is the public shape of a user account.
type UserResponse struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Role             string    `json:"role"`
	IsActive         bool      `json:"is_active"`
	ServiceLevelID   *int64    `json:"service_level_id"`
	ServiceLevelName *string   `json:"service_level_name,omitempty"`
	Permissions      []string  `json:"permissions,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		Role:           user.Role,
		IsActive:       user.IsActive,
		ServiceLevelID: user.ServiceLevelID,
		CreatedAt:      user.CreatedAt,
	}
}

// NewUserListResponse maps a listed user with resolved permissions.
func NewUserListResponse(user *domain.UserWithPermissions) UserResponse {
	resp := NewUserResponse(&user.User)
	resp.ServiceLevelName = user.ServiceLevelName
	resp.Permissions = user.Permissions
	return resp
}

// CreateUserRequest payload.
type CreateUserRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Role           string `json:"role"`
	ServiceLevelID *int64 `json:"service_level_id"`
}

// UpdateUserRequest is a partial patch; absent fields keep their values.
type UpdateUserRequest struct {
	Name           *string       `json:"name"`
	Email          *string       `json:"email"`
	Password       *string       `json:"password"`
	Role           *string       `json:"role"`
	IsActive       *bool         `json:"is_active"`
	ServiceLevelID OptionalInt64 `json:"service_level_id"`
}

// AgentResponse is an assignable agent entry.
type AgentResponse struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	Email            string  `json:"email"`
	ServiceLevelID   *int64  `json:"service_level_id"`
	ServiceLevelName *string `json:"service_level_name,omitempty"`
}

// NewAgentResponse maps a domain agent.
func NewAgentResponse(agent *domain.Agent) AgentResponse {
	return AgentResponse{
		ID:               agent.ID,
		Name:             agent.Name,
		Email:            agent.Email,
		ServiceLevelID:   agent.ServiceLevelID,
		ServiceLevelName: agent.ServiceLevelName,
	}
}
