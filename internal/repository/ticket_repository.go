package repository

import (
	"context"

	"github.com/strauss-analytics/ticket-intake/internal/domain"
	"github.com/strauss-analytics/ticket-intake/internal/persistence"
)

// Store field names as they appear in the hosted table.
const (
	fieldTicketID       = "Ticket ID"
	fieldRequesterName  = "Requester Name"
	fieldRequesterEmail = "Requester Email"
	fieldDepartment     = "Department"
	fieldRequestType    = "Request Type"
	fieldUrgency        = "Urgency"
	fieldStatus         = "Status"
	fieldDeadline       = "Deadline"
	fieldDescription    = "Description"
	fieldEstimatedHours = "Estimated Hours"
	fieldActualHours    = "Actual Hours"
	fieldNotes          = "Notes"
	fieldCreatedAt      = "Created At"
	fieldUpdatedAt      = "Updated At"
)

// TicketRepository encapsulates ticket persistence against the record store.
type TicketRepository interface {
	List(ctx context.Context, limit int) ([]domain.Ticket, error)
	Get(ctx context.Context, recordID string) (*domain.Ticket, error)
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, recordID string, patch domain.TicketPatch, updatedAt string) error
}

type ticketRepository struct {
	store *persistence.Airtable
}

// NewTicketRepository instantiates the airtable-backed repository.
func NewTicketRepository(store *persistence.Airtable) TicketRepository {
	return &ticketRepository{store: store}
}

// List returns up to limit tickets, newest created-at first.
func (r *ticketRepository) List(ctx context.Context, limit int) ([]domain.Ticket, error) {
	records, err := r.store.ListRecords(ctx, limit, fieldCreatedAt, "desc")
	if err != nil {
		return nil, err
	}
	tickets := make([]domain.Ticket, 0, len(records))
	for i := range records {
		tickets = append(tickets, recordToTicket(&records[i]))
	}
	return tickets, nil
}

func (r *ticketRepository) Get(ctx context.Context, recordID string) (*domain.Ticket, error) {
	record, err := r.store.GetRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}
	ticket := recordToTicket(record)
	return &ticket, nil
}

// Create inserts the ticket and fills in the store-assigned record id.
func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	record, err := r.store.CreateRecord(ctx, ticketToFields(ticket))
	if err != nil {
		return err
	}
	ticket.RecordID = record.ID
	return nil
}

// Update patches only the supplied fields plus the refreshed updated-at stamp.
func (r *ticketRepository) Update(ctx context.Context, recordID string, patch domain.TicketPatch, updatedAt string) error {
	fields := map[string]any{
		fieldUpdatedAt: updatedAt,
	}
	if patch.Status != nil {
		fields[fieldStatus] = string(*patch.Status)
	}
	if patch.EstimatedHours != nil {
		fields[fieldEstimatedHours] = *patch.EstimatedHours
	}
	if patch.ActualHours != nil {
		fields[fieldActualHours] = *patch.ActualHours
	}
	if patch.Notes != nil {
		fields[fieldNotes] = *patch.Notes
	}
	_, err := r.store.UpdateRecord(ctx, recordID, fields)
	return err
}

func ticketToFields(ticket *domain.Ticket) map[string]any {
	fields := map[string]any{
		fieldTicketID:       ticket.TicketID,
		fieldRequesterName:  ticket.RequesterName,
		fieldRequesterEmail: ticket.RequesterEmail,
		fieldDepartment:     ticket.Department,
		fieldRequestType:    ticket.RequestType,
		fieldUrgency:        ticket.Urgency,
		fieldStatus:         string(ticket.Status),
		fieldDescription:    ticket.Description,
		fieldCreatedAt:      ticket.CreatedAt,
		fieldUpdatedAt:      ticket.UpdatedAt,
	}
	if ticket.Deadline != "" {
		fields[fieldDeadline] = ticket.Deadline
	}
	return fields
}

func recordToTicket(record *persistence.Record) domain.Ticket {
	ticket := domain.Ticket{
		RecordID:       record.ID,
		TicketID:       stringField(record.Fields, fieldTicketID),
		RequesterName:  stringField(record.Fields, fieldRequesterName),
		RequesterEmail: stringField(record.Fields, fieldRequesterEmail),
		Department:     stringField(record.Fields, fieldDepartment),
		RequestType:    stringField(record.Fields, fieldRequestType),
		Urgency:        stringField(record.Fields, fieldUrgency),
		Status:         domain.TicketStatus(stringField(record.Fields, fieldStatus)),
		Deadline:       stringField(record.Fields, fieldDeadline),
		Description:    stringField(record.Fields, fieldDescription),
		EstimatedHours: numberField(record.Fields, fieldEstimatedHours),
		ActualHours:    numberField(record.Fields, fieldActualHours),
		Notes:          stringField(record.Fields, fieldNotes),
		CreatedAt:      stringField(record.Fields, fieldCreatedAt),
		UpdatedAt:      stringField(record.Fields, fieldUpdatedAt),
	}
	if ticket.Status == "" {
		ticket.Status = domain.TicketStatusNew
	}
	return ticket
}

func stringField(fields map[string]any, key string) string {
	if val, ok := fields[key].(string); ok {
		return val
	}
	return ""
}

func numberField(fields map[string]any, key string) *float64 {
	if val, ok := fields[key].(float64); ok {
		return &val
	}
	return nil
}
