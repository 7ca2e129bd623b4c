package notifier

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/strauss-analytics/ticket-intake/internal/config"
)

// Message is one outbound email. HTML is optional; providers fall back to a
// plain-text-only message when it is empty.
type Message struct {
	To      string
	ReplyTo string
	Subject string
	Text    string
	HTML    string
}

// Notifier delivers a single message synchronously. Exactly one implementation
// is active per process, selected by configuration.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// New selects and constructs the configured provider.
func New(cfg config.NotifierConfig, email config.EmailConfig, logger *zap.Logger) (Notifier, error) {
	switch cfg.Provider {
	case config.ProviderSendGrid:
		return NewSendGrid(cfg.SendGrid, email)
	case config.ProviderSMTP:
		return NewSMTP(cfg.SMTP, email)
	case config.ProviderSMTPOAuth:
		return NewSMTPOAuth(cfg.SMTP, cfg.OAuth, email)
	case config.ProviderLog:
		return NewLog(logger), nil
	default:
		return nil, fmt.Errorf("unknown notifier provider %q", cfg.Provider)
	}
}

// logNotifier writes messages to the log instead of sending them. Default for
// local runs without provider credentials.
type logNotifier struct {
	logger *zap.Logger
}

// NewLog constructs the logging notifier.
func NewLog(logger *zap.Logger) Notifier {
	return &logNotifier{logger: logger}
}

func (n *logNotifier) Send(_ context.Context, msg Message) error {
	n.logger.Info("notification (log provider)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Text))
	return nil
}
