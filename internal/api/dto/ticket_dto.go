package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// CreateTicketRequest payload. Priority and service level are optional;
// missing values fall back to the configured defaults.
type CreateTicketRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	CategoryID   int64  `json:"category_id"`
	Priority     string `json:"priority"`
	ServiceLevel string `json:"service_level"`
}

// UpdateTicketRequest is a partial patch. agent_id distinguishes absent
// (keep), null (unassign) and a value (assign).
type UpdateTicketRequest struct {
	StatusID       *int64        `json:"status_id"`
	PriorityID     *int64        `json:"priority_id"`
	ServiceLevelID *int64        `json:"service_level_id"`
	AgentID        OptionalInt64 `json:"agent_id"`
}

// TicketListItem is one row of the ticket listing with reference names
// resolved.
type TicketListItem struct {
	ID               int64     `json:"id"`
	Title            string    `json:"title"`
	StatusName       string    `json:"status_name"`
	PriorityName     string    `json:"priority_name"`
	ServiceLevelName string    `json:"service_level_name"`
	CategoryName     string    `json:"category_name"`
	ClientName       string    `json:"client_name"`
	AgentName        string    `json:"agent_name"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewTicketListItem maps a listing row.
func NewTicketListItem(row *domain.TicketListRow) TicketListItem {
	return TicketListItem{
		ID:               row.ID,
		Title:            row.Title,
		StatusName:       row.StatusName,
		PriorityName:     row.PriorityName,
		ServiceLevelName: row.ServiceLevelName,
		CategoryName:     row.CategoryName,
		ClientName:       row.ClientName,
		AgentName:        row.AgentName,
		CreatedAt:        row.CreatedAt,
	}
}

// TicketListResponse is a page of tickets plus the total matching count.
type TicketListResponse struct {
	Items []TicketListItem `json:"items"`
	Total int              `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

// TicketResponse is the raw ticket row returned by mutations.
type TicketResponse struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	StatusID       int64     `json:"status_id"`
	PriorityID     int64     `json:"priority_id"`
	ServiceLevelID int64     `json:"service_level_id"`
	ClientID       int64     `json:"client_id"`
	AgentID        *int64    `json:"agent_id"`
	CategoryID     *int64    `json:"category_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:             ticket.ID,
		Title:          ticket.Title,
		Description:    ticket.Description,
		StatusID:       ticket.StatusID,
		PriorityID:     ticket.PriorityID,
		ServiceLevelID: ticket.ServiceLevelID,
		ClientID:       ticket.ClientID,
		AgentID:        ticket.AgentID,
		CategoryID:     ticket.CategoryID,
		CreatedAt:      ticket.CreatedAt,
		UpdatedAt:      ticket.UpdatedAt,
	}
}

// TicketDetailResponse is a single ticket with names resolved and its
// visible comment thread.
type TicketDetailResponse struct {
	TicketResponse
	StatusName       string            `json:"status_name"`
	PriorityName     string            `json:"priority_name"`
	ServiceLevelName string            `json:"service_level_name"`
	Comments         []CommentResponse `json:"comments"`
}

// NewTicketDetailResponse maps a detail row and its comments.
func NewTicketDetailResponse(detail *domain.TicketDetail, comments []domain.Comment) TicketDetailResponse {
	items := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		items = append(items, NewCommentResponse(&comments[i]))
	}
	return TicketDetailResponse{
		TicketResponse:   NewTicketResponse(&detail.Ticket),
		StatusName:       detail.StatusName,
		PriorityName:     detail.PriorityName,
		ServiceLevelName: detail.ServiceLevelName,
		Comments:         items,
	}
}

// ReferenceResponse is a lookup table entry (status, priority, service
// level).
type ReferenceResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	SLAHours    int    `json:"sla_hours,omitempty"`
}
