package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// TicketService coordinates ticket workflows: creation with named defaults,
// scope-aware listings, and the lifecycle state transitions that drive
// notifications.
type TicketService struct {
	tickets    repository.TicketRepository
	comments   repository.CommentRepository
	references repository.ReferenceRepository
	categories repository.CategoryRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TicketDependencies bundles repositories for the ticket service.
type TicketDependencies struct {
	TicketRepo    repository.TicketRepository
	CommentRepo   repository.CommentRepository
	ReferenceRepo repository.ReferenceRepository
	CategoryRepo  repository.CategoryRepository
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		comments:   deps.CommentRepo,
		references: deps.ReferenceRepo,
		categories: deps.CategoryRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// TicketCreateInput describes ticket creation payload. Status is never
// caller-specified: new tickets always open in the default status.
type TicketCreateInput struct {
	Title            string
	Description      string
	CategoryID       int64
	PriorityName     string
	ServiceLevelName string
}

// TicketListQuery describes listing filters supplied by the caller.
type TicketListQuery struct {
	Search      string
	SortField   string
	SortOrder   string
	StatusNames []string
	Page        int
	Limit       int
}

// TicketPatch is a partial lifecycle update. Nil fields retain the current
// value; AgentProvided distinguishes "leave agent alone" from "set or clear".
type TicketPatch struct {
	StatusID       *int64
	PriorityID     *int64
	ServiceLevelID *int64
	AgentProvided  bool
	AgentID        *int64
}

// CreateTicket creates a ticket for the calling client, resolving named
// priority and service level with Open/Medium/N1 defaults.
func (s *TicketService) CreateTicket(ctx context.Context, principal *auth.Principal, input TicketCreateInput) (*domain.Ticket, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Description) == "" || input.CategoryID == 0 {
		return nil, apperrors.NewValidationError("title, description and category_id are required", nil)
	}

	if _, err := s.categories.GetByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("category", map[string]any{"category_id": input.CategoryID})
		}
		return nil, apperrors.MapError(err)
	}

	status, err := s.references.StatusByName(ctx, domain.DefaultStatusName)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	priorityName := input.PriorityName
	if priorityName == "" {
		priorityName = domain.DefaultPriorityName
	}
	priority, err := s.references.PriorityByName(ctx, priorityName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("priority", map[string]any{"name": priorityName})
		}
		return nil, apperrors.MapError(err)
	}

	levelName := input.ServiceLevelName
	if levelName == "" {
		levelName = domain.DefaultServiceLevelName
	}
	level, err := s.references.ServiceLevelByName(ctx, levelName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("service level", map[string]any{"name": levelName})
		}
		return nil, apperrors.MapError(err)
	}

	categoryID := input.CategoryID
	ticket := &domain.Ticket{
		Title:          strings.TrimSpace(input.Title),
		Description:    strings.TrimSpace(input.Description),
		StatusID:       status.ID,
		PriorityID:     priority.ID,
		ServiceLevelID: level.ID,
		ClientID:       principal.UserID,
		CategoryID:     &categoryID,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventTicketCreated,
		TicketID:    ticket.ID,
		TicketTitle: ticket.Title,
		ActorID:     principal.UserID,
		Payload: events.TicketCreatedPayload{
			ClientID:     ticket.ClientID,
			PriorityName: priority.Name,
		},
	})
	return ticket, nil
}

// ListTickets returns one page plus the total match count. The caller's
// scope decides whether the listing is restricted to their own tickets.
func (s *TicketService) ListTickets(ctx context.Context, principal *auth.Principal, query TicketListQuery) ([]domain.TicketListRow, int, error) {
	scope, err := auth.ResolveTicketScope(principal)
	if err != nil {
		return nil, 0, err
	}

	filter := repository.TicketListFilter{
		Search:      query.Search,
		SortField:   query.SortField,
		SortOrder:   query.SortOrder,
		StatusNames: query.StatusNames,
		Page:        query.Page,
		Limit:       query.Limit,
	}
	if scope == auth.ScopeOwn {
		clientID := principal.UserID
		filter.ClientID = &clientID
	}

	rows, total, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	return rows, total, nil
}

// ListMyTickets lists tickets the caller opened, regardless of how wide
// their read scope is. Any ticket-read capability suffices.
func (s *TicketService) ListMyTickets(ctx context.Context, principal *auth.Principal, query TicketListQuery) ([]domain.TicketListRow, int, error) {
	if _, err := auth.ResolveTicketScope(principal); err != nil {
		return nil, 0, err
	}

	clientID := principal.UserID
	filter := repository.TicketListFilter{
		Search:      query.Search,
		SortField:   query.SortField,
		SortOrder:   query.SortOrder,
		StatusNames: query.StatusNames,
		Page:        query.Page,
		Limit:       query.Limit,
		ClientID:    &clientID,
	}

	rows, total, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	return rows, total, nil
}

// GetTicket fetches one ticket with its comment thread. Full-scope callers
// see any ticket with internal comments; own-scope callers only their own
// tickets with internal comments filtered out.
func (s *TicketService) GetTicket(ctx context.Context, principal *auth.Principal, id int64) (*domain.TicketDetail, []domain.Comment, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return nil, nil, apperrors.MapError(err)
	}
	if !auth.CanViewTicket(principal, ticket.ClientID) {
		return nil, nil, apperrors.NewForbidden("you may not view this ticket")
	}

	scope, err := auth.ResolveTicketScope(principal)
	if err != nil {
		return nil, nil, err
	}
	comments, err := s.comments.ListByTicket(ctx, ticket.ID, scope == auth.ScopeAll)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return ticket, comments, nil
}

// UpdateTicket applies a partial lifecycle patch: omitted fields fall back to
// the ticket's current values, all four fields persist in one atomic update,
// and old-vs-new diffing decides which notifications fire.
func (s *TicketService) UpdateTicket(ctx context.Context, principal *auth.Principal, id int64, patch TicketPatch) (*domain.Ticket, error) {
	old, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return nil, apperrors.MapError(err)
	}

	updated := old.Ticket
	if patch.StatusID != nil {
		if _, err := s.references.StatusByID(ctx, *patch.StatusID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("status", map[string]any{"status_id": *patch.StatusID})
			}
			return nil, apperrors.MapError(err)
		}
		updated.StatusID = *patch.StatusID
	}
	if patch.PriorityID != nil {
		if _, err := s.references.PriorityByID(ctx, *patch.PriorityID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("priority", map[string]any{"priority_id": *patch.PriorityID})
			}
			return nil, apperrors.MapError(err)
		}
		updated.PriorityID = *patch.PriorityID
	}
	if patch.ServiceLevelID != nil {
		if _, err := s.references.ServiceLevelByID(ctx, *patch.ServiceLevelID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("service level", map[string]any{"service_level_id": *patch.ServiceLevelID})
			}
			return nil, apperrors.MapError(err)
		}
		updated.ServiceLevelID = *patch.ServiceLevelID
	}
	if patch.AgentProvided {
		updated.AgentID = patch.AgentID
	}

	if err := s.tickets.Update(ctx, &updated); err != nil {
		return nil, apperrors.MapError(err)
	}

	// The update is committed from here on. Failures while assembling the
	// notification payload are logged and skipped, never returned.
	if updated.StatusID != old.StatusID || updated.PriorityID != old.PriorityID {
		status, serr := s.references.StatusByID(ctx, updated.StatusID)
		priority, perr := s.references.PriorityByID(ctx, updated.PriorityID)
		if serr != nil || perr != nil {
			s.logger.Warn("skipping ticket update notification, reference lookup failed",
				zap.Int64("ticket_id", updated.ID),
				zap.NamedError("status_err", serr),
				zap.NamedError("priority_err", perr))
		} else {
			s.publishEvent(ctx, events.Event{
				Type:        events.EventTicketUpdated,
				TicketID:    updated.ID,
				TicketTitle: updated.Title,
				ActorID:     principal.UserID,
				Payload: events.TicketUpdatedPayload{
					ClientID:     updated.ClientID,
					StatusName:   status.Name,
					PriorityName: priority.Name,
				},
			})
		}
	}

	if agentAssigned(old.AgentID, updated.AgentID) {
		s.publishEvent(ctx, events.Event{
			Type:        events.EventTicketAssigned,
			TicketID:    updated.ID,
			TicketTitle: updated.Title,
			ActorID:     principal.UserID,
			Payload: events.TicketAssignedPayload{
				AgentID: *updated.AgentID,
			},
		})
	}

	return &updated, nil
}

// ListStatuses exposes the status reference table.
func (s *TicketService) ListStatuses(ctx context.Context) ([]domain.TicketStatus, error) {
	statuses, err := s.references.ListStatuses(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return statuses, nil
}

// ListPriorities exposes the priority reference table, most urgent first.
func (s *TicketService) ListPriorities(ctx context.Context) ([]domain.TicketPriority, error) {
	priorities, err := s.references.ListPriorities(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return priorities, nil
}

// ListServiceLevels exposes the service level reference table.
func (s *TicketService) ListServiceLevels(ctx context.Context) ([]domain.ServiceLevel, error) {
	levels, err := s.references.ListServiceLevels(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return levels, nil
}

// agentAssigned reports whether the update introduced a new, different
// assignee. Clearing the agent never notifies.
func agentAssigned(old, new *int64) bool {
	if new == nil {
		return false
	}
	return old == nil || *old != *new
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
