package domain

// TicketStatus enumerates lifecycle labels for tickets. The store treats status
// as a free-form single-select; no transition rules are enforced here.
type TicketStatus string

const (
	TicketStatusNew        TicketStatus = "New"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusCompleted  TicketStatus = "Completed"
)

// Ticket is the single aggregate of the system: one data-request intake row in
// the hosted record store.
type Ticket struct {
	RecordID       string
	TicketID       string
	RequesterName  string
	RequesterEmail string
	Department     string
	RequestType    string
	Urgency        string
	Status         TicketStatus
	Deadline       string
	Description    string
	EstimatedHours *float64
	ActualHours    *float64
	Notes          string
	CreatedAt      string
	UpdatedAt      string
}

// TicketPatch carries a partial update. Nil fields are omitted from the write
// entirely so the store never sees an accidental overwrite.
type TicketPatch struct {
	Status         *TicketStatus
	EstimatedHours *float64
	ActualHours    *float64
	Notes          *string
}

// Empty reports whether the patch carries no fields at all.
func (p TicketPatch) Empty() bool {
	return p.Status == nil && p.EstimatedHours == nil && p.ActualHours == nil && p.Notes == nil
}

// requestTypeAliases maps form-side labels onto the store's fixed option set.
var requestTypeAliases = map[string]string{
	"Report": "Report Creation",
}

// NormalizeRequestType resolves known aliases; unrecognized values pass through
// untouched and are left to the store to reject.
func NormalizeRequestType(requestType string) string {
	if normalized, ok := requestTypeAliases[requestType]; ok {
		return normalized
	}
	return requestType
}
