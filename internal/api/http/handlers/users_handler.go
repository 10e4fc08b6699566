package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// UsersHandler manages user administration endpoints.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// ListUsers GET /users.
func (h *UsersHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.NewUserListResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateUser POST /users.
func (h *UsersHandler) CreateUser(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, permissions, err := h.users.Create(c.UserContext(), service.UserCreateInput{
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		RoleName:       req.Role,
		ServiceLevelID: req.ServiceLevelID,
	})
	if err != nil {
		return err
	}
	resp := dto.NewUserResponse(user)
	resp.Permissions = permissions
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": resp})
}

// UpdateUser PATCH /users/:id.
func (h *UsersHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := userID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, permissions, err := h.users.Update(c.UserContext(), id, service.UserUpdateInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		RoleName:        req.Role,
		IsActive:        req.IsActive,
		ServiceLevelSet: req.ServiceLevelID.Present,
		ServiceLevelID:  req.ServiceLevelID.Value,
	})
	if err != nil {
		return err
	}
	resp := dto.NewUserResponse(user)
	resp.Permissions = permissions
	return c.JSON(fiber.Map{"data": resp})
}

// ListAgents GET /users/agents returns accounts that can work tickets.
func (h *UsersHandler) ListAgents(c *fiber.Ctx) error {
	agents, err := h.users.ListAgents(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.AgentResponse, 0, len(agents))
	for i := range agents {
		items = append(items, dto.NewAgentResponse(&agents[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func userID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid user id", nil)
	}
	return id, nil
}
