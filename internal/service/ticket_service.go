package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/strauss-analytics/ticket-intake/internal/domain"
	"github.com/strauss-analytics/ticket-intake/internal/events"
	"github.com/strauss-analytics/ticket-intake/internal/repository"
	apperrors "github.com/strauss-analytics/ticket-intake/pkg/util"
)

const (
	listDefaultLimit = 50
	listMaxLimit     = 200
)

// TicketService coordinates ticket workflows against the record store.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Dispatcher events.Dispatcher
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	TicketID       string
	RequesterName  string
	RequesterEmail string
	Department     string
	RequestType    string
	Urgency        string
	Description    string
	Deadline       string
}

// TicketUpdateInput describes a partial update plus the ticket context needed
// for the notification body when the caller already has it.
type TicketUpdateInput struct {
	RecordID       string
	Status         *domain.TicketStatus
	EstimatedHours *float64
	ActualHours    *float64
	Notes          *string

	TicketID       string
	RequesterName  string
	RequesterEmail string
	Department     string
	RequestType    string
	Urgency        string
	Deadline       string
	Description    string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
		now:        time.Now,
	}
}

// ListTickets returns up to limit tickets, newest first. Zero or negative
// limits fall back to the default; oversized limits are clamped.
func (s *TicketService) ListTickets(ctx context.Context, limit int) ([]domain.Ticket, error) {
	tickets, err := s.tickets.List(ctx, clampLimit(limit))
	if err != nil {
		return nil, apperrors.NewUpstreamError("Failed to fetch tickets", err)
	}
	return tickets, nil
}

// CreateTicket validates the payload, writes the record with status forced to
// "New", then emits the created event for best-effort notification.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	ticketID := strings.TrimSpace(input.TicketID)
	if ticketID == "" {
		ticketID = s.generateTicketID()
	}
	now := s.now().UTC().Format(time.RFC3339)

	ticket := &domain.Ticket{
		TicketID:       ticketID,
		RequesterName:  input.RequesterName,
		RequesterEmail: input.RequesterEmail,
		Department:     input.Department,
		RequestType:    domain.NormalizeRequestType(input.RequestType),
		Urgency:        input.Urgency,
		Status:         domain.TicketStatusNew,
		Deadline:       input.Deadline,
		Description:    input.Description,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.NewUpstreamError("Failed to submit ticket", err)
	}

	s.publish(ctx, events.EventTicketCreated, ticket.TicketID, events.TicketCreatedPayload{Ticket: *ticket})

	return ticket, nil
}

// UpdateTicket patches only the supplied fields, refreshes updated-at, then
// emits the status-changed event. The record id is required before any
// network call is made.
func (s *TicketService) UpdateTicket(ctx context.Context, input TicketUpdateInput) (*domain.Ticket, error) {
	if strings.TrimSpace(input.RecordID) == "" {
		return nil, apperrors.NewValidationError("record id is required", nil)
	}

	patch := domain.TicketPatch{
		Status:         input.Status,
		EstimatedHours: input.EstimatedHours,
		ActualHours:    input.ActualHours,
		Notes:          input.Notes,
	}
	updatedAt := s.now().UTC().Format(time.RFC3339)

	if err := s.tickets.Update(ctx, input.RecordID, patch, updatedAt); err != nil {
		return nil, apperrors.NewUpstreamError("Failed to update ticket", err)
	}

	ticket := s.updateContext(ctx, input)
	ticket.UpdatedAt = updatedAt
	applyPatch(ticket, patch)

	s.publish(ctx, events.EventTicketStatusChanged, ticket.TicketID, events.TicketStatusChangedPayload{
		Ticket: *ticket,
		Patch:  patch,
	})

	return ticket, nil
}

// updateContext assembles the ticket fields needed for the notification body,
// falling back to a store read when the caller omitted the requester context.
// A failed fallback read is not fatal: the update already succeeded.
func (s *TicketService) updateContext(ctx context.Context, input TicketUpdateInput) *domain.Ticket {
	if input.RequesterEmail == "" {
		if fetched, err := s.tickets.Get(ctx, input.RecordID); err == nil {
			return fetched
		}
	}
	return &domain.Ticket{
		RecordID:       input.RecordID,
		TicketID:       input.TicketID,
		RequesterName:  input.RequesterName,
		RequesterEmail: input.RequesterEmail,
		Department:     input.Department,
		RequestType:    input.RequestType,
		Urgency:        input.Urgency,
		Deadline:       input.Deadline,
		Description:    input.Description,
	}
}

func (s *TicketService) publish(ctx context.Context, eventType events.EventType, ticketID string, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticketID,
		Timestamp: s.now().UTC(),
		Payload:   payload,
	})
}

func (s *TicketService) generateTicketID() string {
	return fmt.Sprintf("TKT-%d", s.now().UnixMilli())
}

func applyPatch(ticket *domain.Ticket, patch domain.TicketPatch) {
	if patch.Status != nil {
		ticket.Status = *patch.Status
	}
	if patch.EstimatedHours != nil {
		ticket.EstimatedHours = patch.EstimatedHours
	}
	if patch.ActualHours != nil {
		ticket.ActualHours = patch.ActualHours
	}
	if patch.Notes != nil {
		ticket.Notes = *patch.Notes
	}
}

func validateCreateInput(input TicketCreateInput) error {
	missing := map[string]any{}
	for field, value := range map[string]string{
		"requesterName":  input.RequesterName,
		"requesterEmail": input.RequesterEmail,
		"department":     input.Department,
		"requestType":    input.RequestType,
		"urgency":        input.Urgency,
		"description":    input.Description,
	} {
		if strings.TrimSpace(value) == "" {
			missing[field] = "required"
		}
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError("missing required fields", missing)
	}
	return nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return listDefaultLimit
	}
	if limit > listMaxLimit {
		return listMaxLimit
	}
	return limit
}
