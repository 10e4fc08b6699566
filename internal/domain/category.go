package domain

// Category is an independent lookup entity referenced by tickets.
type Category struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
}
