package dto

import (
	"github.com/strauss-analytics/ticket-intake/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	ID             string `json:"id"`
	RequesterName  string `json:"requesterName"`
	RequesterEmail string `json:"requesterEmail"`
	Department     string `json:"department"`
	RequestType    string `json:"requestType"`
	Urgency        string `json:"urgency"`
	Description    string `json:"description"`
	Deadline       string `json:"deadline"`
}

// UpdateTicketRequest payload. Only non-nil update fields are written to the
// store; the remaining fields carry ticket context for the notification body.
type UpdateTicketRequest struct {
	RecordID       string   `json:"airtableId"`
	Status         *string  `json:"status"`
	EstimatedHours *float64 `json:"estimatedHours"`
	ActualHours    *float64 `json:"actualHours"`
	Notes          *string  `json:"notes"`

	TicketID       string `json:"ticketId"`
	RequesterName  string `json:"requesterName"`
	RequesterEmail string `json:"requesterEmail"`
	Department     string `json:"department"`
	RequestType    string `json:"requestType"`
	Urgency        string `json:"urgency"`
	Deadline       string `json:"deadline"`
	Description    string `json:"description"`
}

// TicketResponse is the normalized listed record shape. Optional numerics and
// the deadline serialize as null when absent; notes default to "".
type TicketResponse struct {
	AirtableID     string   `json:"airtableId"`
	TicketID       string   `json:"ticketId"`
	RequesterName  string   `json:"requesterName"`
	RequesterEmail string   `json:"requesterEmail"`
	Department     string   `json:"department"`
	RequestType    string   `json:"requestType"`
	Urgency        string   `json:"urgency"`
	Status         string   `json:"status"`
	Deadline       *string  `json:"deadline"`
	Description    string   `json:"description"`
	EstimatedHours *float64 `json:"estimatedHours"`
	ActualHours    *float64 `json:"actualHours"`
	Notes          string   `json:"notes"`
	CreatedAt      string   `json:"createdAt"`
	UpdatedAt      string   `json:"updatedAt"`
}

// ListTicketsResponse wraps the lister result.
type ListTicketsResponse struct {
	Success bool             `json:"success"`
	Tickets []TicketResponse `json:"tickets"`
}

// CreateTicketResponse wraps the creator result.
type CreateTicketResponse struct {
	Success  bool   `json:"success"`
	TicketID string `json:"ticketId"`
	Message  string `json:"message"`
}

// UpdateTicketResponse wraps the updater result.
type UpdateTicketResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// FromTicket maps the domain entity onto the wire shape.
func FromTicket(ticket *domain.Ticket) TicketResponse {
	resp := TicketResponse{
		AirtableID:     ticket.RecordID,
		TicketID:       ticket.TicketID,
		RequesterName:  ticket.RequesterName,
		RequesterEmail: ticket.RequesterEmail,
		Department:     ticket.Department,
		RequestType:    ticket.RequestType,
		Urgency:        ticket.Urgency,
		Status:         string(ticket.Status),
		Description:    ticket.Description,
		EstimatedHours: ticket.EstimatedHours,
		ActualHours:    ticket.ActualHours,
		Notes:          ticket.Notes,
		CreatedAt:      ticket.CreatedAt,
		UpdatedAt:      ticket.UpdatedAt,
	}
	if ticket.Deadline != "" {
		deadline := ticket.Deadline
		resp.Deadline = &deadline
	}
	return resp
}
