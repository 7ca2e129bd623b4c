package notifier

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strauss-analytics/ticket-intake/internal/config"
)

type sendGridPayload struct {
	Personalizations []struct {
		To []struct {
			Email string `json:"email"`
		} `json:"to"`
	} `json:"personalizations"`
	From struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"from"`
	ReplyTo *struct {
		Email string `json:"email"`
	} `json:"reply_to"`
	Subject string `json:"subject"`
	Content []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"content"`
}

func testSendGrid(t *testing.T, handler http.HandlerFunc) Notifier {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	sender, err := NewSendGrid(
		config.SendGridConfig{APIKey: "sg-key", Host: srv.URL},
		config.EmailConfig{FromEmail: "noreply@example.com", FromName: "Ticketing"},
	)
	require.NoError(t, err)
	return sender
}

func TestSendGridSend(t *testing.T) {
	var path, auth string
	var payload sendGridPayload
	sender := testSendGrid(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &payload))
		w.WriteHeader(http.StatusAccepted)
	})

	err := sender.Send(context.Background(), Message{
		To:      "a@x.com",
		ReplyTo: "admin@example.com",
		Subject: "Ticket Confirmation - #TKT-1",
		Text:    "plain body",
		HTML:    "<p>html body</p>",
	})
	require.NoError(t, err)

	assert.Equal(t, "/v3/mail/send", path)
	assert.Equal(t, "Bearer sg-key", auth)
	require.Len(t, payload.Personalizations, 1)
	assert.Equal(t, "a@x.com", payload.Personalizations[0].To[0].Email)
	assert.Equal(t, "noreply@example.com", payload.From.Email)
	require.NotNil(t, payload.ReplyTo)
	assert.Equal(t, "admin@example.com", payload.ReplyTo.Email)
	assert.Equal(t, "Ticket Confirmation - #TKT-1", payload.Subject)

	require.Len(t, payload.Content, 2)
	assert.Equal(t, "text/plain", payload.Content[0].Type)
	assert.Equal(t, "text/html", payload.Content[1].Type)
}

func TestSendGridTextOnlyOmitsHTMLPart(t *testing.T) {
	var payload sendGridPayload
	sender := testSendGrid(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &payload))
		w.WriteHeader(http.StatusAccepted)
	})

	require.NoError(t, sender.Send(context.Background(), Message{
		To:      "a@x.com",
		Subject: "s",
		Text:    "plain only",
	}))
	require.Len(t, payload.Content, 1)
	assert.Equal(t, "text/plain", payload.Content[0].Type)
	assert.Nil(t, payload.ReplyTo)
}

func TestSendGridNonSuccessIsAnError(t *testing.T) {
	sender := testSendGrid(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad key"}]}`))
	})

	err := sender.Send(context.Background(), Message{To: "a@x.com", Subject: "s", Text: "t"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestNewSendGridRequiresAPIKey(t *testing.T) {
	_, err := NewSendGrid(config.SendGridConfig{}, config.EmailConfig{})
	assert.Error(t, err)
}
