package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/strauss-analytics/ticket-intake/internal/config"
	"github.com/strauss-analytics/ticket-intake/internal/domain"
	"github.com/strauss-analytics/ticket-intake/internal/persistence"
)

type capturedCall struct {
	method string
	path   string
	fields map[string]any
}

func testRepository(t *testing.T, respond func(w http.ResponseWriter, r *http.Request), calls *[]capturedCall) TicketRepository {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := capturedCall{method: r.Method, path: r.URL.Path}
		if r.Body != nil && (r.Method == http.MethodPost || r.Method == http.MethodPatch) {
			var body struct {
				Fields map[string]any `json:"fields"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			call.fields = body.Fields
		}
		*calls = append(*calls, call)
		respond(w, r)
	}))
	t.Cleanup(srv.Close)

	store := persistence.NewAirtable(config.AirtableConfig{
		APIKey:  "k",
		BaseID:  "base",
		Table:   "Tickets",
		BaseURL: srv.URL,
	}, zap.NewNop())
	return NewTicketRepository(store)
}

func TestCreateMapsDomainToStoreFields(t *testing.T) {
	var calls []capturedCall
	repo := testRepository(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"recCREATED","fields":{}}`))
	}, &calls)

	ticket := &domain.Ticket{
		TicketID:       "TKT-1",
		RequesterName:  "A",
		RequesterEmail: "a@x.com",
		Department:     "Finance",
		RequestType:    "Report Creation",
		Urgency:        "High",
		Status:         domain.TicketStatusNew,
		Description:    "quarterly numbers",
		CreatedAt:      "2026-09-01T10:00:00Z",
		UpdatedAt:      "2026-09-01T10:00:00Z",
	}
	require.NoError(t, repo.Create(context.Background(), ticket))
	assert.Equal(t, "recCREATED", ticket.RecordID)

	require.Len(t, calls, 1)
	fields := calls[0].fields
	assert.Equal(t, "TKT-1", fields["Ticket ID"])
	assert.Equal(t, "A", fields["Requester Name"])
	assert.Equal(t, "a@x.com", fields["Requester Email"])
	assert.Equal(t, "New", fields["Status"])
	assert.Equal(t, fields["Created At"], fields["Updated At"])
	// no deadline supplied, so the key must be absent
	_, hasDeadline := fields["Deadline"]
	assert.False(t, hasDeadline)
}

func TestUpdateOmitsUnsuppliedFields(t *testing.T) {
	var calls []capturedCall
	repo := testRepository(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"rec9","fields":{}}`))
	}, &calls)

	hours := 4.5
	patch := domain.TicketPatch{EstimatedHours: &hours}
	require.NoError(t, repo.Update(context.Background(), "rec9", patch, "2026-09-01T11:00:00Z"))

	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodPatch, calls[0].method)
	assert.Equal(t, "/base/Tickets/rec9", calls[0].path)

	fields := calls[0].fields
	assert.Equal(t, 4.5, fields["Estimated Hours"])
	assert.Equal(t, "2026-09-01T11:00:00Z", fields["Updated At"])
	for _, key := range []string{"Status", "Actual Hours", "Notes"} {
		_, present := fields[key]
		assert.Falsef(t, present, "field %q must not be written", key)
	}
}

func TestListNormalizesRecords(t *testing.T) {
	var calls []capturedCall
	repo := testRepository(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"records":[
			{"id":"rec1","fields":{"Ticket ID":"TKT-2","Requester Name":"B","Estimated Hours":3}},
			{"id":"rec2","fields":{"Ticket ID":"TKT-1","Status":"Completed","Notes":"done"}}
		]}`))
	}, &calls)

	tickets, err := repo.List(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, tickets, 2)

	// status defaults to New when the store column is empty
	assert.Equal(t, domain.TicketStatusNew, tickets[0].Status)
	require.NotNil(t, tickets[0].EstimatedHours)
	assert.Equal(t, 3.0, *tickets[0].EstimatedHours)
	assert.Nil(t, tickets[0].ActualHours)
	assert.Equal(t, "", tickets[0].Notes)

	assert.Equal(t, domain.TicketStatusCompleted, tickets[1].Status)
	assert.Equal(t, "done", tickets[1].Notes)
}

func TestGetReturnsMappedTicket(t *testing.T) {
	var calls []capturedCall
	repo := testRepository(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"rec5","fields":{"Ticket ID":"TKT-5","Requester Email":"b@x.com"}}`))
	}, &calls)

	ticket, err := repo.Get(context.Background(), "rec5")
	require.NoError(t, err)
	assert.Equal(t, "rec5", ticket.RecordID)
	assert.Equal(t, "b@x.com", ticket.RequesterEmail)
}
