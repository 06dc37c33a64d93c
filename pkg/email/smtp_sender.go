package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"time"
)

// TLSMode selects how the SMTP connection is secured.
type TLSMode string

const (
	// TLSModeStartTLS upgrades a plain connection with STARTTLS. The server must offer it.
	TLSModeStartTLS TLSMode = "starttls"
	// TLSModeTLS dials straight into TLS (implicit TLS, usually port 465).
	TLSModeTLS TLSMode = "tls"
	// TLSModePlain never encrypts. net/smtp refuses AUTH on plain connections
	// to anything but localhost.
	TLSModePlain TLSMode = "plain"
)

// SMTPConfig configures SMTPSender.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	TLSMode  TLSMode
	// HeloName is sent in EHLO. Empty uses net/smtp's default "localhost".
	HeloName string
	// TLSConfig overrides the default client TLS config (ServerName = Host).
	TLSConfig *tls.Config
}

// SMTPSender delivers messages over SMTP. Each Send opens its own connection,
// so the sender is safe for concurrent use.
type SMTPSender struct {
	cfg    SMTPConfig
	dialer *net.Dialer
	now    func() time.Time
}

// NewSMTPSender validates cfg and returns a sender.
func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("%w: SMTP host is required", ErrInvalidConfig)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("%w: SMTP port %d is out of range", ErrInvalidConfig, cfg.Port)
	}
	switch cfg.TLSMode {
	case "":
		cfg.TLSMode = TLSModeStartTLS
	case TLSModeStartTLS, TLSModeTLS, TLSModePlain:
	default:
		return nil, fmt.Errorf("%w: unsupported TLS mode %q", ErrInvalidConfig, cfg.TLSMode)
	}
	if cfg.Username != "" && cfg.Password == "" {
		return nil, fmt.Errorf("%w: SMTP password is required when username is set", ErrInvalidConfig)
	}

	return &SMTPSender{
		cfg:    cfg,
		dialer: &net.Dialer{Timeout: 10 * time.Second},
		now:    time.Now,
	}, nil
}

// MustNewSMTPSender is like NewSMTPSender but panics on invalid config.
func MustNewSMTPSender(cfg SMTPConfig) *SMTPSender {
	s, err := NewSMTPSender(cfg)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *SMTPSender) tlsConfig() *tls.Config {
	if s.cfg.TLSConfig != nil {
		return s.cfg.TLSConfig
	}
	return &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}
}

// Send runs one SMTP transaction: connect, optional STARTTLS, optional AUTH,
// MAIL FROM, RCPT TO for every recipient, DATA, QUIT. The context deadline
// applies to the whole exchange.
func (s *SMTPSender) Send(ctx context.Context, msg *Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	raw, err := msg.MIME(s.now())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToSendEmail, err)
	}

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))

	var conn net.Conn
	if s.cfg.TLSMode == TLSModeTLS {
		td := &tls.Dialer{NetDialer: s.dialer, Config: s.tlsConfig()}
		conn, err = td.DialContext(ctx, "tcp", addr)
	} else {
		conn, err = s.dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return fmt.Errorf("%w: dial %s: %w", ErrFailedToSendEmail, addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("%w: smtp greeting: %w", ErrFailedToSendEmail, err)
	}
	defer c.Close()

	if err := s.transact(c, msg, raw); err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToSendEmail, err)
	}
	return nil
}

func (s *SMTPSender) transact(c *smtp.Client, msg *Message, raw []byte) error {
	if s.cfg.HeloName != "" {
		if err := c.Hello(s.cfg.HeloName); err != nil {
			return fmt.Errorf("ehlo: %w", err)
		}
	}

	if s.cfg.TLSMode == TLSModeStartTLS {
		if ok, _ := c.Extension("STARTTLS"); !ok {
			return fmt.Errorf("server %s does not support STARTTLS", s.cfg.Host)
		}
		if err := c.StartTLS(s.tlsConfig()); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}

	if s.cfg.Username != "" {
		if ok, _ := c.Extension("AUTH"); !ok {
			return fmt.Errorf("server %s does not support AUTH", s.cfg.Host)
		}
		auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("auth: %w", err)
		}
	}

	if err := c.Mail(msg.From); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	for _, rcpt := range msg.To {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("rcpt to %s: %w", rcpt, err)
		}
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("end data: %w", err)
	}

	return c.Quit()
}
