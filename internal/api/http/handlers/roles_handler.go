package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// RolesHandler manages role and permission administration.
type RolesHandler struct {
	roles *service.RoleService
}

// NewRolesHandler constructs handler.
func NewRolesHandler(roleService *service.RoleService) *RolesHandler {
	return &RolesHandler{roles: roleService}
}

// ListRoles GET /roles.
func (h *RolesHandler) ListRoles(c *fiber.Ctx) error {
	roles, err := h.roles.List(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.RoleResponse, 0, len(roles))
	for i := range roles {
		items = append(items, dto.NewRoleResponse(&roles[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateRole POST /roles.
func (h *RolesHandler) CreateRole(c *fiber.Ctx) error {
	var req dto.RoleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	role, err := h.roles.Create(c.UserContext(), req.Name, req.PermissionIDs)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewRoleResponse(role)})
}

// UpdateRole PUT /roles/:id.
func (h *RolesHandler) UpdateRole(c *fiber.Ctx) error {
	id, err := roleID(c)
	if err != nil {
		return err
	}
	var req dto.RoleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	role, err := h.roles.Update(c.UserContext(), id, req.Name, req.PermissionIDs)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRoleResponse(role)})
}

// ReplaceRolePermissions PUT /roles/:id/permissions.
func (h *RolesHandler) ReplaceRolePermissions(c *fiber.Ctx) error {
	id, err := roleID(c)
	if err != nil {
		return err
	}
	var req dto.RoleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	role, err := h.roles.ReplacePermissions(c.UserContext(), id, req.PermissionIDs)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRoleResponse(role)})
}

// SetRoleActive PATCH /roles/:id/active.
func (h *RolesHandler) SetRoleActive(c *fiber.Ctx) error {
	id, err := roleID(c)
	if err != nil {
		return err
	}
	var req dto.RoleActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	role, err := h.roles.SetActive(c.UserContext(), id, req.IsActive)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"id":        role.ID,
		"name":      role.Name,
		"is_active": role.IsActive,
	}})
}

// DeleteRole DELETE /roles/:id.
func (h *RolesHandler) DeleteRole(c *fiber.Ctx) error {
	id, err := roleID(c)
	if err != nil {
		return err
	}
	if err := h.roles.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListPermissions GET /permissions.
func (h *RolesHandler) ListPermissions(c *fiber.Ctx) error {
	permissions, err := h.roles.ListPermissions(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.PermissionResponse, 0, len(permissions))
	for _, p := range permissions {
		items = append(items, dto.PermissionResponse{ID: p.ID, Name: p.Name, Description: p.Description})
	}
	return c.JSON(fiber.Map{"data": items})
}

func roleID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid role id", nil)
	}
	return id, nil
}
