package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// CommentService enforces comment visibility rules and the notifications a
// public comment triggers.
type CommentService struct {
	comments   repository.CommentRepository
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
}

// CommentDependencies bundles repositories for the comment service.
type CommentDependencies struct {
	CommentRepo repository.CommentRepository
	TicketRepo  repository.TicketRepository
	Dispatcher  events.Dispatcher
}

// NewCommentService constructs the service.
func NewCommentService(deps CommentDependencies) *CommentService {
	return &CommentService{
		comments:   deps.CommentRepo,
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
	}
}

// AddComment appends a comment to a ticket the caller can view. Visibility
// defaults to Public. Requesting Internal without the internal-comment
// permission is rejected outright; the policy is reject, not downgrade, and
// it applies to every caller.
func (s *CommentService) AddComment(ctx context.Context, principal *auth.Principal, ticketID int64, content string, visibility domain.CommentVisibility) (*domain.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.NewValidationError("content is required", nil)
	}
	if visibility == "" {
		visibility = domain.VisibilityPublic
	}
	if !visibility.Valid() {
		return nil, apperrors.NewValidationError("unknown visibility", map[string]any{"visibility": visibility})
	}
	if visibility == domain.VisibilityInternal && !principal.Has(domain.PermCommentsAddInternal) {
		return nil, apperrors.NewForbidden("internal comments require the internal-comment permission")
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if !auth.CanViewTicket(principal, ticket.ClientID) {
		return nil, apperrors.NewForbidden("you may not comment on this ticket")
	}

	comment := &domain.Comment{
		Content:    strings.TrimSpace(content),
		Visibility: visibility,
		TicketID:   ticket.ID,
		AuthorID:   principal.UserID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}

	// Internal comments never notify the client.
	if comment.Visibility == domain.VisibilityPublic && s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:          uuid.NewString(),
			Type:        events.EventCommentAdded,
			TicketID:    ticket.ID,
			TicketTitle: ticket.Title,
			ActorID:     principal.UserID,
			Timestamp:   time.Now(),
			Payload: events.CommentAddedPayload{
				ClientID: ticket.ClientID,
				Content:  comment.Content,
			},
		})
	}
	return comment, nil
}
