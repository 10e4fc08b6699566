package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// CategoriesHandler manages ticket category administration.
type CategoriesHandler struct {
	categories *service.CategoryService
}

// NewCategoriesHandler constructs handler.
func NewCategoriesHandler(categoryService *service.CategoryService) *CategoriesHandler {
	return &CategoriesHandler{categories: categoryService}
}

// ListCategories GET /categories.
func (h *CategoriesHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.categories.List(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		items = append(items, dto.NewCategoryResponse(&categories[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetCategory GET /categories/:id.
func (h *CategoriesHandler) GetCategory(c *fiber.Ctx) error {
	id, err := categoryID(c)
	if err != nil {
		return err
	}
	category, err := h.categories.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCategoryResponse(category)})
}

// CreateCategory POST /categories.
func (h *CategoriesHandler) CreateCategory(c *fiber.Ctx) error {
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	category, err := h.categories.Create(c.UserContext(), req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewCategoryResponse(category)})
}

// UpdateCategory PUT /categories/:id.
func (h *CategoriesHandler) UpdateCategory(c *fiber.Ctx) error {
	id, err := categoryID(c)
	if err != nil {
		return err
	}
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	category, err := h.categories.Update(c.UserContext(), id, req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCategoryResponse(category)})
}

// DeleteCategory DELETE /categories/:id.
func (h *CategoriesHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := categoryID(c)
	if err != nil {
		return err
	}
	if err := h.categories.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func categoryID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid category id", nil)
	}
	return id, nil
}
