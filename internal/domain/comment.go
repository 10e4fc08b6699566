package domain

import "time"

// CommentVisibility controls who may read a ticket comment.
type CommentVisibility string

const (
	VisibilityPublic   CommentVisibility = "Public"
	VisibilityInternal CommentVisibility = "Internal"
)

// Valid reports whether v is one of the two known visibilities.
func (v CommentVisibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityInternal
}

// Comment is an append-only entry in a ticket thread. Internal comments are
// never exposed to callers whose ticket scope is restricted to their own
// tickets.
type Comment struct {
	ID         int64             `db:"id"`
	Content    string            `db:"content"`
	Visibility CommentVisibility `db:"visibility"`
	TicketID   int64             `db:"ticket_id"`
	AuthorID   int64             `db:"author_id"`
	AuthorName string            `db:"author_name"`
	CreatedAt  time.Time         `db:"created_at"`
}
