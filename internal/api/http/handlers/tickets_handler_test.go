package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/strauss-analytics/ticket-intake/internal/api/http"
	"github.com/strauss-analytics/ticket-intake/internal/api/http/handlers"
	"github.com/strauss-analytics/ticket-intake/internal/domain"
	"github.com/strauss-analytics/ticket-intake/internal/observability"
	"github.com/strauss-analytics/ticket-intake/internal/service"
)

type stubRepo struct {
	listLimit  int
	listResult []domain.Ticket
	listErr    error
	created    []domain.Ticket
	createErr  error
	updates    int
	updateErr  error
}

func (s *stubRepo) List(_ context.Context, limit int) ([]domain.Ticket, error) {
	s.listLimit = limit
	return s.listResult, s.listErr
}

func (s *stubRepo) Get(_ context.Context, _ string) (*domain.Ticket, error) {
	return nil, errors.New("not found")
}

func (s *stubRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	if s.createErr != nil {
		return s.createErr
	}
	ticket.RecordID = "recSTUB"
	s.created = append(s.created, *ticket)
	return nil
}

func (s *stubRepo) Update(_ context.Context, _ string, _ domain.TicketPatch, _ string) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updates++
	return nil
}

func testApp(t *testing.T, repo *stubRepo) *fiber.App {
	t.Helper()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 5*time.Second)

	svc := service.NewTicketService(service.TicketDependencies{TicketRepo: repo})
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler("ticket-intake", "test", nil),
		Tickets: handlers.NewTicketsHandler(svc),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestListTickets(t *testing.T) {
	repo := &stubRepo{listResult: []domain.Ticket{
		{RecordID: "rec1", TicketID: "TKT-2", Status: domain.TicketStatusNew, RequesterName: "B"},
		{RecordID: "rec2", TicketID: "TKT-1", Status: domain.TicketStatusCompleted, Notes: "done"},
	}}
	app := testApp(t, repo)

	resp, body := doJSON(t, app, http.MethodGet, "/api/tickets", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, 50, repo.listLimit)

	tickets, ok := body["tickets"].([]any)
	require.True(t, ok)
	require.Len(t, tickets, 2)
	first := tickets[0].(map[string]any)
	assert.Equal(t, "rec1", first["airtableId"])
	assert.Equal(t, "TKT-2", first["ticketId"])
	assert.Nil(t, first["deadline"])
	assert.Equal(t, "", first["notes"])
}

func TestListTicketsClampsOversizedLimit(t *testing.T) {
	repo := &stubRepo{}
	app := testApp(t, repo)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/tickets?limit=500", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 200, repo.listLimit)
}

func TestListTicketsUpstreamFailure(t *testing.T) {
	repo := &stubRepo{listErr: errors.New("airtable 503")}
	app := testApp(t, repo)

	resp, body := doJSON(t, app, http.MethodGet, "/api/tickets", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Failed to fetch tickets", body["error"])
	assert.Contains(t, body["message"], "airtable 503")
}

func TestCreateTicket(t *testing.T) {
	repo := &stubRepo{}
	app := testApp(t, repo)

	resp, body := doJSON(t, app, http.MethodPost, "/api/tickets", `{
		"requesterName":"A","requesterEmail":"a@x.com","department":"Finance",
		"requestType":"Report","urgency":"High","description":"numbers please"
	}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["ticketId"])

	require.Len(t, repo.created, 1)
	assert.Equal(t, "Report Creation", repo.created[0].RequestType)
	assert.Equal(t, domain.TicketStatusNew, repo.created[0].Status)
}

func TestCreateTicketMissingFields(t *testing.T) {
	repo := &stubRepo{}
	app := testApp(t, repo)

	resp, body := doJSON(t, app, http.MethodPost, "/api/tickets", `{"requesterName":"A"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "missing required fields", body["error"])
	assert.Empty(t, repo.created)
}

func TestCreateTicketRejectsEmptyBody(t *testing.T) {
	repo := &stubRepo{}
	app := testApp(t, repo)

	resp, body := doJSON(t, app, http.MethodPost, "/api/tickets", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid payload", body["error"])
}

func TestCreateTicketStoreFailure(t *testing.T) {
	repo := &stubRepo{createErr: errors.New("airtable down")}
	app := testApp(t, repo)

	resp, body := doJSON(t, app, http.MethodPost, "/api/tickets", `{
		"requesterName":"A","requesterEmail":"a@x.com","department":"Finance",
		"requestType":"Data Extract","urgency":"Low","description":"d"
	}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Failed to submit ticket", body["error"])
}

func TestUpdateTicket(t *testing.T) {
	repo := &stubRepo{}
	app := testApp(t, repo)

	resp, body := doJSON(t, app, http.MethodPost, "/api/tickets/update", `{
		"airtableId":"rec1","status":"In Progress","ticketId":"TKT-1",
		"requesterName":"A","requesterEmail":"a@x.com"
	}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, 1, repo.updates)
}

func TestUpdateTicketMissingRecordID(t *testing.T) {
	repo := &stubRepo{}
	app := testApp(t, repo)

	resp, body := doJSON(t, app, http.MethodPost, "/api/tickets/update", `{"status":"Completed"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "record id is required", body["error"])
	assert.Equal(t, 0, repo.updates)
}

func TestWrongMethodIsRejected(t *testing.T) {
	app := testApp(t, &stubRepo{})

	resp, body := doJSON(t, app, http.MethodPut, "/api/tickets", "")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, "Method not allowed", body["error"])

	resp, body = doJSON(t, app, http.MethodGet, "/api/tickets/update", "")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, "Method not allowed", body["error"])
}

func TestHealthLive(t *testing.T) {
	app := testApp(t, &stubRepo{})

	resp, body := doJSON(t, app, http.MethodGet, "/health/live", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alive", body["status"])
	assert.Equal(t, "ticket-intake", body["service"])
}
