package notifier

import (
	"context"
	"fmt"
	"net/smtp"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/strauss-analytics/ticket-intake/internal/config"
)

// smtpOAuthNotifier submits mail over the same SMTP path as smtpNotifier but
// authenticates the mailbox with an XOAUTH2 bearer token obtained through an
// OAuth2 client-credentials exchange.
type smtpOAuthNotifier struct {
	relay       *smtpNotifier
	username    string
	tokenSource oauth2.TokenSource
}

// NewSMTPOAuth constructs the OAuth-mailbox notifier.
func NewSMTPOAuth(cfg config.SMTPConfig, oauthCfg config.OAuthConfig, email config.EmailConfig) (Notifier, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if oauthCfg.ClientID == "" || oauthCfg.TokenURL == "" {
		return nil, fmt.Errorf("oauth client id and token url are required")
	}
	cc := &clientcredentials.Config{
		ClientID:     oauthCfg.ClientID,
		ClientSecret: oauthCfg.ClientSecret,
		TokenURL:     oauthCfg.TokenURL,
		Scopes:       oauthCfg.Scopes,
	}
	return &smtpOAuthNotifier{
		relay: &smtpNotifier{
			host:      cfg.Host,
			port:      cfg.Port,
			fromEmail: email.FromEmail,
			fromName:  email.FromName,
		},
		username:    cfg.Username,
		tokenSource: cc.TokenSource(context.Background()),
	}, nil
}

func (n *smtpOAuthNotifier) Send(_ context.Context, msg Message) error {
	token, err := n.tokenSource.Token()
	if err != nil {
		return fmt.Errorf("oauth token: %w", err)
	}
	return n.relay.submit(&xoauth2Auth{username: n.username, accessToken: token.AccessToken}, msg)
}

// xoauth2Auth implements the SASL XOAUTH2 initial-response exchange.
type xoauth2Auth struct {
	username    string
	accessToken string
}

func (a *xoauth2Auth) Start(*smtp.ServerInfo) (string, []byte, error) {
	initial := fmt.Sprintf("user=%s\x01auth=Bearer %s\x01\x01", a.username, a.accessToken)
	return "XOAUTH2", []byte(initial), nil
}

func (a *xoauth2Auth) Next(_ []byte, more bool) ([]byte, error) {
	if more {
		// server sent an error challenge; an empty reply completes the exchange
		return []byte(""), nil
	}
	return nil, nil
}
