package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Logger   LoggerConfig
	Airtable AirtableConfig
	Notifier NotifierConfig
	Email    EmailConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// AirtableConfig addresses one base/table in the hosted record store.
type AirtableConfig struct {
	APIKey         string
	BaseID         string
	Table          string
	BaseURL        string
	TimeoutSeconds int
}

// NotifierProvider selects the active outbound email strategy.
type NotifierProvider string

const (
	ProviderSendGrid  NotifierProvider = "sendgrid"
	ProviderSMTP      NotifierProvider = "smtp"
	ProviderSMTPOAuth NotifierProvider = "smtp-oauth2"
	ProviderLog       NotifierProvider = "log"
)

// NotifierConfig holds credentials for all providers; only the selected one is
// constructed at startup.
type NotifierConfig struct {
	Provider NotifierProvider
	SendGrid SendGridConfig
	SMTP     SMTPConfig
	OAuth    OAuthConfig
}

// SendGridConfig configures the transactional-email API client.
type SendGridConfig struct {
	APIKey string
	Host   string
}

// SMTPConfig configures direct SMTP submission.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// OAuthConfig configures the client-credentials token exchange for the
// OAuth-authenticated mailbox variant.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	Scopes       []string
}

// EmailConfig holds addresses and formatting toggles shared by all providers.
type EmailConfig struct {
	FromEmail           string
	FromName            string
	AdminEmail          string
	TeamName            string
	NotifyAdminOnUpdate bool
	HTMLBodies          bool
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "ticket-intake"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Airtable: AirtableConfig{
			APIKey:         os.Getenv("AIRTABLE_API_KEY"),
			BaseID:         os.Getenv("AIRTABLE_BASE_ID"),
			Table:          getEnv("AIRTABLE_TABLE", "Tickets"),
			BaseURL:        getEnv("AIRTABLE_BASE_URL", "https://api.airtable.com/v0"),
			TimeoutSeconds: getEnvAsInt("AIRTABLE_TIMEOUT_SECONDS", 10),
		},
		Notifier: NotifierConfig{
			Provider: NotifierProvider(getEnv("NOTIFIER_PROVIDER", string(ProviderLog))),
			SendGrid: SendGridConfig{
				APIKey: os.Getenv("SENDGRID_API_KEY"),
				Host:   getEnv("SENDGRID_HOST", "https://api.sendgrid.com"),
			},
			SMTP: SMTPConfig{
				Host:     os.Getenv("SMTP_HOST"),
				Port:     getEnvAsInt("SMTP_PORT", 587),
				Username: os.Getenv("SMTP_USERNAME"),
				Password: os.Getenv("SMTP_PASSWORD"),
			},
			OAuth: OAuthConfig{
				ClientID:     os.Getenv("OAUTH_CLIENT_ID"),
				ClientSecret: os.Getenv("OAUTH_CLIENT_SECRET"),
				TokenURL:     os.Getenv("OAUTH_TOKEN_URL"),
				Scopes:       getEnvAsSlice("OAUTH_SCOPES"),
			},
		},
		Email: EmailConfig{
			FromEmail:           getEnv("EMAIL_FROM", "noreply@example.com"),
			FromName:            getEnv("EMAIL_FROM_NAME", "Analytics Ticketing"),
			AdminEmail:          os.Getenv("ADMIN_EMAIL"),
			TeamName:            getEnv("EMAIL_TEAM_NAME", "Analytics Team"),
			NotifyAdminOnUpdate: getEnvAsBool("NOTIFY_ADMIN_ON_UPDATE", false),
			HTMLBodies:          getEnvAsBool("EMAIL_HTML_BODIES", true),
		},
	}

	if cfg.Airtable.APIKey == "" {
		return nil, fmt.Errorf("AIRTABLE_API_KEY is required")
	}
	if cfg.Airtable.BaseID == "" {
		return nil, fmt.Errorf("AIRTABLE_BASE_ID is required")
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the store client timeout duration.
func (a AirtableConfig) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsSlice(key string) []string {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
