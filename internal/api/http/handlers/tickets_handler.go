package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/strauss-analytics/ticket-intake/internal/api/dto"
	"github.com/strauss-analytics/ticket-intake/internal/domain"
	"github.com/strauss-analytics/ticket-intake/internal/service"
	apperrors "github.com/strauss-analytics/ticket-intake/pkg/util"
)

// TicketsHandler manages the ticket intake endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// ListTickets GET /api/tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	limit := parseInt(c.Query("limit"), 0)
	tickets, err := h.service.ListTickets(c.UserContext(), limit)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.FromTicket(&tickets[i]))
	}
	return c.JSON(dto.ListTicketsResponse{Success: true, Tickets: items})
}

// CreateTicket POST /api/tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.CreateTicket(c.UserContext(), service.TicketCreateInput{
		TicketID:       req.ID,
		RequesterName:  req.RequesterName,
		RequesterEmail: req.RequesterEmail,
		Department:     req.Department,
		RequestType:    req.RequestType,
		Urgency:        req.Urgency,
		Description:    req.Description,
		Deadline:       req.Deadline,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.CreateTicketResponse{
		Success:  true,
		TicketID: ticket.TicketID,
		Message:  "Ticket submitted successfully",
	})
}

// UpdateTicket POST /api/tickets/update.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.TicketUpdateInput{
		RecordID:       req.RecordID,
		EstimatedHours: req.EstimatedHours,
		ActualHours:    req.ActualHours,
		Notes:          req.Notes,
		TicketID:       req.TicketID,
		RequesterName:  req.RequesterName,
		RequesterEmail: req.RequesterEmail,
		Department:     req.Department,
		RequestType:    req.RequestType,
		Urgency:        req.Urgency,
		Deadline:       req.Deadline,
		Description:    req.Description,
	}
	if req.Status != nil {
		status := domain.TicketStatus(*req.Status)
		input.Status = &status
	}

	if _, err := h.service.UpdateTicket(c.UserContext(), input); err != nil {
		return err
	}
	return c.JSON(dto.UpdateTicketResponse{
		Success: true,
		Message: "Ticket updated successfully",
	})
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	return parsed
}
