package repository

import (
	"context"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// CommentRepository persists the append-only ticket comment thread.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	ListByTicket(ctx context.Context, ticketID int64, includeInternal bool) ([]domain.Comment, error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository builds the repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO comments (content, visibility, ticket_id, author_id)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		comment.Content,
		comment.Visibility,
		comment.TicketID,
		comment.AuthorID,
	).Scan(&comment.ID, &comment.CreatedAt)
}

// ListByTicket returns comments oldest first. Internal comments are filtered
// out in the query itself when the caller's scope does not allow them.
func (r *commentRepository) ListByTicket(ctx context.Context, ticketID int64, includeInternal bool) ([]domain.Comment, error) {
	query := `
        SELECT com.id, com.content, com.visibility, com.ticket_id, com.author_id,
               u.name AS author_name, com.created_at
        FROM comments com
        JOIN users u ON com.author_id = u.id
        WHERE com.ticket_id = $1`
	args := []any{ticketID}
	if !includeInternal {
		query += ` AND com.visibility = $2`
		args = append(args, domain.VisibilityPublic)
	}
	query += ` ORDER BY com.created_at ASC`

	comments := []domain.Comment{}
	if err := pgxscan.Select(ctx, r.pool, &comments, query, args...); err != nil {
		return nil, err
	}
	return comments, nil
}
