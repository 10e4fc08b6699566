package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

func newTicketFixture() (*TicketService, *fakeTicketRepo, *fakeCommentRepo, *captureDispatcher) {
	tickets := newFakeTicketRepo()
	comments := &fakeCommentRepo{}
	dispatcher := &captureDispatcher{}
	svc := NewTicketService(TicketDependencies{
		TicketRepo:    tickets,
		CommentRepo:   comments,
		ReferenceRepo: newFakeReferenceRepo(),
		CategoryRepo:  newFakeCategoryRepo(domain.Category{ID: 5, Name: "Hardware"}),
		Dispatcher:    dispatcher,
	})
	return svc, tickets, comments, dispatcher
}

func clientPrincipal(id int64) *auth.Principal {
	return &auth.Principal{
		UserID:      id,
		Role:        "user",
		Permissions: []string{domain.PermTicketsCreate, domain.PermTicketsReadOwn, domain.PermCommentsAdd},
		IsActive:    true,
	}
}

func agentPrincipal(id int64) *auth.Principal {
	return &auth.Principal{
		UserID: id,
		Role:   "agent",
		Permissions: []string{
			domain.PermTicketsReadAll, domain.PermTicketsUpdate,
			domain.PermCommentsAdd, domain.PermCommentsAddInternal,
		},
		IsActive: true,
	}
}

func ticketDetail(ticket domain.Ticket) *domain.TicketDetail {
	return &domain.TicketDetail{Ticket: ticket, StatusName: "Open", PriorityName: "Medium", ServiceLevelName: "N1"}
}

func TestCreateTicketAppliesDefaults(t *testing.T) {
	svc, tickets, _, dispatcher := newTicketFixture()

	ticket, err := svc.CreateTicket(context.Background(), clientPrincipal(42), TicketCreateInput{
		Title:       "  Printer offline  ",
		Description: "The 3rd floor printer stopped responding",
		CategoryID:  5,
	})
	require.NoError(t, err)

	assert.Equal(t, "Printer offline", ticket.Title)
	assert.EqualValues(t, 1, ticket.StatusID, "new tickets open in the default status")
	assert.EqualValues(t, 2, ticket.PriorityID, "missing priority falls back to Medium")
	assert.EqualValues(t, 1, ticket.ServiceLevelID, "missing level falls back to N1")
	assert.EqualValues(t, 42, ticket.ClientID)
	assert.Nil(t, ticket.AgentID, "new tickets are unassigned")
	require.NotNil(t, ticket.CategoryID)
	assert.EqualValues(t, 5, *ticket.CategoryID)
	require.Len(t, tickets.created, 1)

	published := dispatcher.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventTicketCreated, published[0].Type)
	payload := published[0].Payload.(events.TicketCreatedPayload)
	assert.EqualValues(t, 42, payload.ClientID)
	assert.Equal(t, "Medium", payload.PriorityName)
}

func TestCreateTicketValidation(t *testing.T) {
	svc, _, _, dispatcher := newTicketFixture()

	_, err := svc.CreateTicket(context.Background(), clientPrincipal(1), TicketCreateInput{
		Title:      "   ",
		CategoryID: 5,
	})
	assertServiceStatus(t, err, 400)

	_, err = svc.CreateTicket(context.Background(), clientPrincipal(1), TicketCreateInput{
		Title:       "ok",
		Description: "ok",
		CategoryID:  99,
	})
	assertServiceStatus(t, err, 404)

	_, err = svc.CreateTicket(context.Background(), clientPrincipal(1), TicketCreateInput{
		Title:        "ok",
		Description:  "ok",
		CategoryID:   5,
		PriorityName: "Catastrophic",
	})
	assertServiceStatus(t, err, 404)

	assert.Empty(t, dispatcher.published(), "failed creations never notify")
}

func TestListTicketsScopesOwnCallers(t *testing.T) {
	svc, tickets, _, _ := newTicketFixture()

	_, _, err := svc.ListTickets(context.Background(), clientPrincipal(7), TicketListQuery{Search: "vpn"})
	require.NoError(t, err)
	require.NotNil(t, tickets.listFilter.ClientID)
	assert.EqualValues(t, 7, *tickets.listFilter.ClientID)
	assert.Equal(t, "vpn", tickets.listFilter.Search)

	_, _, err = svc.ListTickets(context.Background(), agentPrincipal(3), TicketListQuery{})
	require.NoError(t, err)
	assert.Nil(t, tickets.listFilter.ClientID, "full-scope listings are unfiltered")
}

func TestListMyTicketsPinsWideScopeCallers(t *testing.T) {
	svc, tickets, _, _ := newTicketFixture()

	// Even a read_all holder gets only their own tickets here.
	_, _, err := svc.ListMyTickets(context.Background(), agentPrincipal(3), TicketListQuery{})
	require.NoError(t, err)
	require.NotNil(t, tickets.listFilter.ClientID)
	assert.EqualValues(t, 3, *tickets.listFilter.ClientID)

	_, _, err = svc.ListMyTickets(context.Background(), clientPrincipal(7), TicketListQuery{})
	require.NoError(t, err)
	require.NotNil(t, tickets.listFilter.ClientID)
	assert.EqualValues(t, 7, *tickets.listFilter.ClientID)

	noRead := &auth.Principal{UserID: 9, Role: "user", Permissions: []string{domain.PermTicketsCreate}, IsActive: true}
	_, _, err = svc.ListMyTickets(context.Background(), noRead, TicketListQuery{})
	assertServiceStatus(t, err, 403)
}

func TestListTicketsDeniesWithoutReadPermission(t *testing.T) {
	svc, _, _, _ := newTicketFixture()

	p := &auth.Principal{UserID: 1, Permissions: []string{domain.PermTicketsCreate}, IsActive: true}
	_, _, err := svc.ListTickets(context.Background(), p, TicketListQuery{})
	assertServiceStatus(t, err, 403)
}

func TestGetTicketVisibility(t *testing.T) {
	svc, tickets, comments, _ := newTicketFixture()
	tickets.byID[10] = ticketDetail(domain.Ticket{ID: 10, Title: "VPN down", ClientID: 7, StatusID: 1, PriorityID: 2, ServiceLevelID: 1})

	// The owner sees the ticket without internal comments.
	_, _, err := svc.GetTicket(context.Background(), clientPrincipal(7), 10)
	require.NoError(t, err)
	assert.False(t, comments.lastIncludeInternal)

	// A full-scope caller sees internal comments too.
	_, _, err = svc.GetTicket(context.Background(), agentPrincipal(3), 10)
	require.NoError(t, err)
	assert.True(t, comments.lastIncludeInternal)

	// A different own-scope caller is refused.
	_, _, err = svc.GetTicket(context.Background(), clientPrincipal(8), 10)
	assertServiceStatus(t, err, 403)

	_, _, err = svc.GetTicket(context.Background(), agentPrincipal(3), 999)
	assertServiceStatus(t, err, 404)
}

func TestUpdateTicketPartialPatch(t *testing.T) {
	svc, tickets, _, _ := newTicketFixture()
	agent := int64(30)
	tickets.byID[10] = ticketDetail(domain.Ticket{
		ID: 10, Title: "VPN down", ClientID: 7,
		StatusID: 1, PriorityID: 2, ServiceLevelID: 1, AgentID: &agent,
	})

	statusID := int64(2)
	updated, err := svc.UpdateTicket(context.Background(), agentPrincipal(3), 10, TicketPatch{StatusID: &statusID})
	require.NoError(t, err)

	// Omitted fields fall back to the stored values.
	assert.EqualValues(t, 2, updated.StatusID)
	assert.EqualValues(t, 2, updated.PriorityID)
	assert.EqualValues(t, 1, updated.ServiceLevelID)
	require.NotNil(t, updated.AgentID)
	assert.EqualValues(t, 30, *updated.AgentID)
	require.Len(t, tickets.updated, 1)
}

func TestUpdateTicketAgentSemantics(t *testing.T) {
	svc, tickets, _, dispatcher := newTicketFixture()
	agent := int64(30)
	tickets.byID[10] = ticketDetail(domain.Ticket{
		ID: 10, ClientID: 7, StatusID: 1, PriorityID: 2, ServiceLevelID: 1, AgentID: &agent,
	})

	// Absent agent_id keeps the assignment.
	updated, err := svc.UpdateTicket(context.Background(), agentPrincipal(3), 10, TicketPatch{})
	require.NoError(t, err)
	require.NotNil(t, updated.AgentID)

	// Explicit null clears it, with no assignment notification.
	updated, err = svc.UpdateTicket(context.Background(), agentPrincipal(3), 10, TicketPatch{AgentProvided: true})
	require.NoError(t, err)
	assert.Nil(t, updated.AgentID)
	assert.Empty(t, dispatcher.published(), "clearing the agent never notifies")

	// A new assignee fires the assignment event.
	newAgent := int64(31)
	_, err = svc.UpdateTicket(context.Background(), agentPrincipal(3), 10, TicketPatch{AgentProvided: true, AgentID: &newAgent})
	require.NoError(t, err)
	published := dispatcher.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventTicketAssigned, published[0].Type)
	assert.EqualValues(t, 31, published[0].Payload.(events.TicketAssignedPayload).AgentID)

	// Re-assigning the same agent is not a new assignment.
	dispatcher.events = nil
	tickets.byID[10].AgentID = &newAgent
	_, err = svc.UpdateTicket(context.Background(), agentPrincipal(3), 10, TicketPatch{AgentProvided: true, AgentID: &newAgent})
	require.NoError(t, err)
	assert.Empty(t, dispatcher.published())
}

func TestUpdateTicketNotificationDiffing(t *testing.T) {
	svc, tickets, _, dispatcher := newTicketFixture()
	tickets.byID[10] = ticketDetail(domain.Ticket{
		ID: 10, Title: "VPN down", ClientID: 7, StatusID: 1, PriorityID: 2, ServiceLevelID: 1,
	})

	// A no-change patch updates the row but fires nothing.
	statusID := int64(1)
	_, err := svc.UpdateTicket(context.Background(), agentPrincipal(3), 10, TicketPatch{StatusID: &statusID})
	require.NoError(t, err)
	assert.Empty(t, dispatcher.published())

	// A priority change notifies the client with both resolved names.
	prioID := int64(3)
	_, err = svc.UpdateTicket(context.Background(), agentPrincipal(3), 10, TicketPatch{PriorityID: &prioID})
	require.NoError(t, err)
	published := dispatcher.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventTicketUpdated, published[0].Type)
	payload := published[0].Payload.(events.TicketUpdatedPayload)
	assert.EqualValues(t, 7, payload.ClientID)
	assert.Equal(t, "Open", payload.StatusName)
	assert.Equal(t, "High", payload.PriorityName)
}

func TestUpdateTicketSurvivesNotificationLookupFailure(t *testing.T) {
	tickets := newFakeTicketRepo()
	references := newFakeReferenceRepo()
	dispatcher := &captureDispatcher{}
	svc := NewTicketService(TicketDependencies{
		TicketRepo:    tickets,
		CommentRepo:   &fakeCommentRepo{},
		ReferenceRepo: references,
		CategoryRepo:  newFakeCategoryRepo(),
		Dispatcher:    dispatcher,
	})
	tickets.byID[10] = ticketDetail(domain.Ticket{
		ID: 10, Title: "VPN down", ClientID: 7, StatusID: 1, PriorityID: 2, ServiceLevelID: 1,
	})

	// Patching only the priority defers the status lookup until after the
	// row is written. Failing it there must not fail the request.
	references.statusIDErr = errors.New("connection reset")
	prioID := int64(3)
	ticket, err := svc.UpdateTicket(context.Background(), agentPrincipal(3), 10, TicketPatch{PriorityID: &prioID})
	require.NoError(t, err)
	assert.EqualValues(t, 3, ticket.PriorityID)
	require.Len(t, tickets.updated, 1, "the mutation persists")
	assert.Empty(t, dispatcher.published(), "the notification is skipped, not retried")
}

func TestUpdateTicketRejectsUnknownReferences(t *testing.T) {
	svc, tickets, _, _ := newTicketFixture()
	tickets.byID[10] = ticketDetail(domain.Ticket{ID: 10, ClientID: 7, StatusID: 1, PriorityID: 2, ServiceLevelID: 1})

	bad := int64(99)
	_, err := svc.UpdateTicket(context.Background(), agentPrincipal(3), 10, TicketPatch{StatusID: &bad})
	assertServiceStatus(t, err, 404)
	assert.Empty(t, tickets.updated, "validation failures never reach the store")
}

func assertServiceStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr), "expected a domain error, got %v", err)
	assert.Equal(t, status, domainErr.HTTPStatus)
}
