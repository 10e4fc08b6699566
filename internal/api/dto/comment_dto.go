package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// CreateCommentRequest payload. Visibility defaults to Public.
type CreateCommentRequest struct {
	Content    string `json:"content"`
	Visibility string `json:"visibility"`
}

// CommentResponse is one thread entry.
type CommentResponse struct {
	ID         int64     `json:"id"`
	Content    string    `json:"content"`
	Visibility string    `json:"visibility"`
	TicketID   int64     `json:"ticket_id"`
	AuthorID   int64     `json:"author_id"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewCommentResponse maps a domain comment.
func NewCommentResponse(comment *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:         comment.ID,
		Content:    comment.Content,
		Visibility: string(comment.Visibility),
		TicketID:   comment.TicketID,
		AuthorID:   comment.AuthorID,
		AuthorName: comment.AuthorName,
		CreatedAt:  comment.CreatedAt,
	}
}
