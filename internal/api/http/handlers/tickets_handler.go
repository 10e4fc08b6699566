package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	tickets  *service.TicketService
	comments *service.CommentService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, commentService *service.CommentService) *TicketsHandler {
	return &TicketsHandler{tickets: ticketService, comments: commentService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	input := service.TicketCreateInput{
		Title:            req.Title,
		Description:      req.Description,
		CategoryID:       req.CategoryID,
		PriorityName:     req.Priority,
		ServiceLevelName: req.ServiceLevel,
	}
	ticket, err := h.tickets.CreateTicket(c.UserContext(), principal, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	query := parseTicketListQuery(c)
	rows, total, err := h.tickets.ListTickets(c.UserContext(), principal, query)
	if err != nil {
		return err
	}
	return listResponse(c, rows, total, query)
}

// ListMyTickets GET /tickets/mine. Same shape as ListTickets but pinned to
// the caller's own tickets even for wide-scope readers.
func (h *TicketsHandler) ListMyTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	query := parseTicketListQuery(c)
	rows, total, err := h.tickets.ListMyTickets(c.UserContext(), principal, query)
	if err != nil {
		return err
	}
	return listResponse(c, rows, total, query)
}

func listResponse(c *fiber.Ctx, rows []domain.TicketListRow, total int, query service.TicketListQuery) error {
	items := make([]dto.TicketListItem, 0, len(rows))
	for i := range rows {
		items = append(items, dto.NewTicketListItem(&rows[i]))
	}
	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 {
		limit = 10
	}
	return c.JSON(fiber.Map{"data": dto.TicketListResponse{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	}})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	detail, comments, err := h.tickets.GetTicket(c.UserContext(), principal, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketDetailResponse(detail, comments)})
}

// UpdateTicket PATCH /tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	patch := service.TicketPatch{
		StatusID:       req.StatusID,
		PriorityID:     req.PriorityID,
		ServiceLevelID: req.ServiceLevelID,
		AgentProvided:  req.AgentID.Present,
		AgentID:        req.AgentID.Value,
	}
	ticket, err := h.tickets.UpdateTicket(c.UserContext(), principal, id, patch)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// AddComment POST /tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	comment, err := h.comments.AddComment(c.UserContext(), principal, id, req.Content, domain.CommentVisibility(req.Visibility))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewCommentResponse(comment)})
}

func ticketID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid ticket id", nil)
	}
	return id, nil
}

func parseTicketListQuery(c *fiber.Ctx) service.TicketListQuery {
	query := service.TicketListQuery{
		Search:    c.Query("search"),
		SortField: c.Query("sort_field"),
		SortOrder: c.Query("sort_order"),
		Page:      queryInt(c, "page", 1),
		Limit:     queryInt(c, "limit", 10),
	}
	if statuses := c.Query("status"); statuses != "" {
		for _, part := range strings.Split(statuses, ",") {
			if name := strings.TrimSpace(part); name != "" {
				query.StatusNames = append(query.StatusNames, name)
			}
		}
	}
	return query
}

func queryInt(c *fiber.Ctx, key string, def int) int {
	val := c.Query(key)
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
