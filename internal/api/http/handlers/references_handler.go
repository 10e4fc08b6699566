package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/service"
)

// ReferencesHandler serves the ticket lookup tables.
type ReferencesHandler struct {
	tickets *service.TicketService
}

// NewReferencesHandler constructs handler.
func NewReferencesHandler(ticketService *service.TicketService) *ReferencesHandler {
	return &ReferencesHandler{tickets: ticketService}
}

// ListStatuses GET /tickets/statuses.
func (h *ReferencesHandler) ListStatuses(c *fiber.Ctx) error {
	statuses, err := h.tickets.ListStatuses(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.ReferenceResponse, 0, len(statuses))
	for _, s := range statuses {
		items = append(items, dto.ReferenceResponse{ID: s.ID, Name: s.Name, Description: s.Description})
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListPriorities GET /tickets/priorities.
func (h *ReferencesHandler) ListPriorities(c *fiber.Ctx) error {
	priorities, err := h.tickets.ListPriorities(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.ReferenceResponse, 0, len(priorities))
	for _, p := range priorities {
		items = append(items, dto.ReferenceResponse{ID: p.ID, Name: p.Name, Description: p.Description, SLAHours: p.SLAHours})
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListServiceLevels GET /tickets/service-levels.
func (h *ReferencesHandler) ListServiceLevels(c *fiber.Ctx) error {
	levels, err := h.tickets.ListServiceLevels(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.ReferenceResponse, 0, len(levels))
	for _, l := range levels {
		items = append(items, dto.ReferenceResponse{ID: l.ID, Name: l.Name, Description: l.Description, SLAHours: l.SLAHours})
	}
	return c.JSON(fiber.Map{"data": items})
}
