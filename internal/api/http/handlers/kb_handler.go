package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/kb"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// KBHandler serves knowledge base articles.
type KBHandler struct {
	store *kb.Store
}

// NewKBHandler constructs handler.
func NewKBHandler(store *kb.Store) *KBHandler {
	return &KBHandler{store: store}
}

// ListArticles GET /kb/articles.
func (h *KBHandler) ListArticles(c *fiber.Ctx) error {
	articles, err := h.store.List(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.ArticleResponse, 0, len(articles))
	for i := range articles {
		items = append(items, dto.NewArticleResponse(&articles[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetArticle GET /kb/articles/:id returns the article with rendered HTML.
func (h *KBHandler) GetArticle(c *fiber.Ctx) error {
	article, err := h.store.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewArticleResponse(article)})
}

// CreateArticle POST /kb/articles.
func (h *KBHandler) CreateArticle(c *fiber.Ctx) error {
	var req dto.CreateArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	article, err := h.store.Create(c.UserContext(), req.Title, req.Content)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewArticleResponse(article)})
}

// DeleteArticle DELETE /kb/articles/:id.
func (h *KBHandler) DeleteArticle(c *fiber.Ctx) error {
	if err := h.store.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
