package notifier

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/strauss-analytics/ticket-intake/internal/config"
)

// sendGridNotifier delivers mail through the v3 mail-send API.
type sendGridNotifier struct {
	apiKey    string
	host      string
	fromEmail string
	fromName  string
}

// NewSendGrid constructs the transactional-email notifier.
func NewSendGrid(cfg config.SendGridConfig, email config.EmailConfig) (Notifier, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("sendgrid api key is required")
	}
	return &sendGridNotifier{
		apiKey:    cfg.APIKey,
		host:      cfg.Host,
		fromEmail: email.FromEmail,
		fromName:  email.FromName,
	}, nil
}

func (n *sendGridNotifier) Send(ctx context.Context, msg Message) error {
	m := mail.NewV3Mail()
	m.SetFrom(mail.NewEmail(n.fromName, n.fromEmail))
	m.Subject = msg.Subject

	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail("", msg.To))
	m.AddPersonalizations(p)

	if msg.ReplyTo != "" {
		m.SetReplyTo(mail.NewEmail("", msg.ReplyTo))
	}

	// text part must precede html per the API contract
	m.AddContent(mail.NewContent("text/plain", msg.Text))
	if msg.HTML != "" {
		m.AddContent(mail.NewContent("text/html", msg.HTML))
	}

	request := sendgrid.GetRequest(n.apiKey, "/v3/mail/send", n.host)
	request.Method = http.MethodPost
	request.Body = mail.GetRequestBody(m)

	resp, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		return fmt.Errorf("sendgrid request: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
