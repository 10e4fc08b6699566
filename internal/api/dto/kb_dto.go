package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/kb"
)

// CreateArticleRequest payload.
type CreateArticleRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ArticleResponse is a knowledge base article. Listings omit content and
// HTML; single reads include both.
type ArticleResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content,omitempty"`
	HTML      string    `json:"html,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewArticleResponse maps an article.
func NewArticleResponse(article *kb.Article) ArticleResponse {
	return ArticleResponse{
		ID:        article.ID,
		Title:     article.Title,
		Content:   article.Content,
		HTML:      article.HTML,
		CreatedAt: article.CreatedAt,
	}
}
