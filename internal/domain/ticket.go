package domain

import "time"

// Ticket is the aggregate for support requests. client_id is set at creation
// and never changes; status, priority and service level always reference
// valid rows.
type Ticket struct {
	ID             int64     `db:"id"`
	Title          string    `db:"title"`
	Description    string    `db:"description"`
	StatusID       int64     `db:"status_id"`
	PriorityID     int64     `db:"priority_id"`
	ServiceLevelID int64     `db:"service_level_id"`
	ClientID       int64     `db:"client_id"`
	AgentID        *int64    `db:"agent_id"`
	CategoryID     *int64    `db:"category_id"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// TicketListRow is the denormalized listing shape: reference names are joined
// in so rows with a missing optional reference still render with a
// placeholder label.
type TicketListRow struct {
	ID               int64     `db:"id"`
	Title            string    `db:"title"`
	StatusName       string    `db:"status_name"`
	PriorityName     string    `db:"priority_name"`
	ServiceLevelName string    `db:"service_level_name"`
	CreatedAt        time.Time `db:"created_at"`
	CategoryName     string    `db:"category_name"`
	ClientName       string    `db:"client_name"`
	AgentName        string    `db:"agent_name"`
}

// TicketDetail is a single ticket with its reference names resolved.
type TicketDetail struct {
	Ticket
	StatusName       string `db:"status_name"`
	PriorityName     string `db:"priority_name"`
	ServiceLevelName string `db:"service_level_name"`
}
