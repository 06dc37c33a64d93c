package email

import (
	"context"
	"fmt"
	"strings"
)

// NewSenderFromConfig builds the transport named by cfg.Provider.
// Only the selected provider's settings are validated.
func NewSenderFromConfig(ctx context.Context, cfg Config) (Sender, error) {
	var (
		sender Sender
		err    error
	)

	switch cfg.ProviderName() {
	case ProviderSMTP:
		var s *SMTPSender
		s, err = NewSMTPSender(SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			TLSMode:  cfg.SMTPTLSMode,
			HeloName: cfg.SMTPHelo,
		})
		sender = s
	case ProviderPostmark:
		var s *PostmarkSender
		s, err = NewPostmarkSender(cfg)
		sender = s
	case ProviderSES:
		var s *SESSender
		s, err = NewSESSender(ctx, cfg)
		sender = s
	case ProviderDev:
		if strings.TrimSpace(cfg.DevDir) == "" {
			return nil, fmt.Errorf("%w: dev output directory is required", ErrInvalidConfig)
		}
		sender = NewDevSender(cfg.DevDir)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}

	if err != nil {
		return nil, err
	}
	return sender, nil
}
