package email

import (
	"fmt"
	"strings"
	"time"

	"github.com/novakinetix/mailkit/pkg/sanitizer"
)

// Provider names accepted by MAIL_PROVIDER.
const (
	ProviderSMTP     = "smtp"
	ProviderPostmark = "postmark"
	ProviderSES      = "ses"
	ProviderDev      = "dev"
)

// Config holds email service configuration.
// Only the settings of the selected provider are validated, so a development
// environment needs nothing beyond MAIL_DEFAULT_SENDER.
type Config struct {
	Provider string `env:"MAIL_PROVIDER" envDefault:"smtp"`

	// SMTP
	SMTPHost     string  `env:"MAIL_SERVER" envDefault:"smtp.gmail.com"`
	SMTPPort     int     `env:"MAIL_PORT" envDefault:"587"`
	SMTPTLSMode  TLSMode `env:"MAIL_TLS_MODE" envDefault:"starttls"`
	SMTPUsername string  `env:"MAIL_USERNAME"`
	SMTPPassword string  `env:"MAIL_PASSWORD"`
	SMTPHelo     string  `env:"MAIL_HELO_NAME"`

	// Postmark
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`

	// SES
	AWSRegion          string `env:"AWS_REGION" envDefault:"us-east-1"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	SESConfigSet       string `env:"SES_CONFIGURATION_SET"`

	// Dev
	DevDir string `env:"MAIL_DEV_DIR" envDefault:"./tmp/emails"`

	SenderEmail  string `env:"MAIL_DEFAULT_SENDER,required"`
	SupportEmail string `env:"MAIL_SUPPORT_EMAIL"`
	SiteURL      string `env:"SITE_URL" envDefault:"https://novakinetixacademy.com"`

	// Logo is read from MAIL_LOGO_S3_BUCKET when set, local disk otherwise.
	LogoPath      string `env:"MAIL_LOGO_PATH" envDefault:"assets/novakinetix-logo.png"`
	LogoS3Bucket  string `env:"MAIL_LOGO_S3_BUCKET"`
	LogoContentID string `env:"MAIL_LOGO_CONTENT_ID" envDefault:"novakinetix-logo"`

	SendTimeout time.Duration `env:"MAIL_SEND_TIMEOUT" envDefault:"30s"`
	// HistoryCapacity of 0 keeps every record.
	HistoryCapacity int `env:"MAIL_HISTORY_CAPACITY" envDefault:"0"`
}

// ProviderName returns the trimmed, lowercased provider. Empty means SMTP.
func (c *Config) ProviderName() string {
	if p := strings.ToLower(strings.TrimSpace(c.Provider)); p != "" {
		return p
	}
	return ProviderSMTP
}

// Validate checks the provider-independent settings. Provider credentials
// are checked when the sender is built.
func (c *Config) Validate() error {
	switch c.ProviderName() {
	case ProviderSMTP, ProviderPostmark, ProviderSES, ProviderDev:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, c.Provider)
	}
	if !sanitizer.ValidEmail(c.SenderEmail) {
		return fmt.Errorf("%w: MAIL_DEFAULT_SENDER must be a valid email address", ErrInvalidConfig)
	}
	if c.SupportEmail != "" && !sanitizer.ValidEmail(c.SupportEmail) {
		return fmt.Errorf("%w: MAIL_SUPPORT_EMAIL must be a valid email address", ErrInvalidConfig)
	}
	if c.SendTimeout <= 0 {
		return fmt.Errorf("%w: MAIL_SEND_TIMEOUT must be positive", ErrInvalidConfig)
	}
	if c.HistoryCapacity < 0 {
		return fmt.Errorf("%w: MAIL_HISTORY_CAPACITY must not be negative", ErrInvalidConfig)
	}
	return nil
}
