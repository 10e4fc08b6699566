package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated  EventType = "ticket_created"
	EventTicketUpdated  EventType = "ticket_updated"
	EventTicketAssigned EventType = "ticket_assigned"
	EventCommentAdded   EventType = "comment_added"
)

// Event represents a domain event emitted by services. Transport is
// best-effort: handlers never fail the mutation that produced the event.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	TicketID    int64       `json:"ticket_id"`
	TicketTitle string      `json:"ticket_title"`
	ActorID     int64       `json:"actor_id"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	ClientID     int64  `json:"client_id"`
	PriorityName string `json:"priority_name"`
}

// TicketUpdatedPayload is emitted when status and/or priority changed. The
// client is notified with a message naming both new values.
type TicketUpdatedPayload struct {
	ClientID     int64  `json:"client_id"`
	StatusName   string `json:"status_name"`
	PriorityName string `json:"priority_name"`
}

// TicketAssignedPayload is emitted when the agent changed to a different,
// non-empty assignee.
type TicketAssignedPayload struct {
	AgentID int64 `json:"agent_id"`
}

// CommentAddedPayload is emitted for public comments only.
type CommentAddedPayload struct {
	ClientID int64  `json:"client_id"`
	Content  string `json:"content"`
}
