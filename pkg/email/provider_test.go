package email_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novakinetix/mailkit/pkg/email"
)

func TestNewSenderFromConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     email.Config
		want    any
		wantErr error
	}{
		{
			name: "smtp is the default",
			cfg:  email.Config{SMTPHost: "smtp.example.com", SMTPPort: 587},
			want: &email.SMTPSender{},
		},
		{
			name: "smtp case insensitive",
			cfg:  email.Config{Provider: " SMTP ", SMTPHost: "smtp.example.com", SMTPPort: 465, SMTPTLSMode: email.TLSModeTLS},
			want: &email.SMTPSender{},
		},
		{
			name:    "smtp invalid",
			cfg:     email.Config{Provider: "smtp", SMTPPort: 587},
			wantErr: email.ErrInvalidConfig,
		},
		{
			name: "postmark",
			cfg:  email.Config{Provider: "postmark", PostmarkServerToken: "s", PostmarkAccountToken: "a"},
			want: &email.PostmarkSender{},
		},
		{
			name:    "postmark without tokens",
			cfg:     email.Config{Provider: "postmark"},
			wantErr: email.ErrInvalidConfig,
		},
		{
			name: "ses",
			cfg:  email.Config{Provider: "ses", AWSRegion: "us-east-1", AWSAccessKeyID: "k", AWSSecretAccessKey: "s"},
			want: &email.SESSender{},
		},
		{
			name: "dev",
			cfg:  email.Config{Provider: "dev", DevDir: "/tmp/mail"},
			want: &email.DevSender{},
		},
		{
			name:    "dev without directory",
			cfg:     email.Config{Provider: "dev"},
			wantErr: email.ErrInvalidConfig,
		},
		{
			name:    "unknown",
			cfg:     email.Config{Provider: "carrier-pigeon"},
			wantErr: email.ErrUnknownProvider,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sender, err := email.NewSenderFromConfig(context.Background(), tt.cfg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, sender)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, sender)
		})
	}
}

func validConfig() email.Config {
	return email.Config{
		Provider:        "smtp",
		SenderEmail:     "noreply@academy.example.com",
		SendTimeout:     30 * time.Second,
		HistoryCapacity: 0,
	}
}

func TestConfig_ProviderName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"":           email.ProviderSMTP,
		" SMTP ":     email.ProviderSMTP,
		"DEV":        email.ProviderDev,
		"\tpostmark": email.ProviderPostmark,
		"ses":        email.ProviderSES,
	}
	for in, want := range tests {
		cfg := email.Config{Provider: in}
		assert.Equal(t, want, cfg.ProviderName(), "%q", in)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	require.NoError(t, cfg.Validate())

	tests := []struct {
		name    string
		mutate  func(c *email.Config)
		wantErr error
	}{
		{"unknown provider", func(c *email.Config) { c.Provider = "fax" }, email.ErrUnknownProvider},
		{"bad sender", func(c *email.Config) { c.SenderEmail = "noreply" }, email.ErrInvalidConfig},
		{"bad support", func(c *email.Config) { c.SupportEmail = "help" }, email.ErrInvalidConfig},
		{"zero timeout", func(c *email.Config) { c.SendTimeout = 0 }, email.ErrInvalidConfig},
		{"negative capacity", func(c *email.Config) { c.HistoryCapacity = -1 }, email.ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := validConfig()
			tt.mutate(&c)
			assert.ErrorIs(t, c.Validate(), tt.wantErr)
		})
	}

	t.Run("bounded history is allowed", func(t *testing.T) {
		t.Parallel()
		c := validConfig()
		c.HistoryCapacity = 500
		assert.NoError(t, c.Validate())
	})
}
