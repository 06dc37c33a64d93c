package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/novakinetix/mailkit/pkg/async"
	"github.com/novakinetix/mailkit/pkg/logger"
	"github.com/novakinetix/mailkit/pkg/sanitizer"
	"github.com/novakinetix/mailkit/pkg/validator"
)

// DefaultSendTimeout bounds a single transport handoff.
const DefaultSendTimeout = 30 * time.Second

// Request is a dispatch request. Exactly one of Template or HTMLBody must be
// set; Data is only valid together with Template.
type Request struct {
	To       []string `json:"to"`
	Subject  string   `json:"subject"`
	Template string   `json:"template,omitempty"`
	Data     Data     `json:"templateData,omitempty"`
	HTMLBody string   `json:"htmlBody,omitempty"`
}

// Result is the outcome of Service.Send. Err keeps the typed cause for
// errors.Is checks; Error is its text.
type Result struct {
	Status   SendStatus `json:"status"`
	RecordID string     `json:"id,omitempty"`
	Error    string     `json:"error,omitempty"`
	Err      error      `json:"-"`
}

func (r Result) Sent() bool { return r.Status == StatusSent }

// Service is the dispatch orchestrator. It validates a request, renders the
// body, derives plain text, embeds the logo, hands the message to the Sender
// and records exactly one SendRecord per call. Send never returns an error
// and never panics; every failure is reported in the Result.
type Service struct {
	catalog  *Catalog
	renderer *Renderer
	sender   Sender
	history  *History
	logo     *LogoAsset
	from     string
	replyTo  string
	timeout  time.Duration
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithHistory injects the history store. Defaults to an unbounded store.
func WithHistory(h *History) ServiceOption {
	return func(s *Service) { s.history = h }
}

// WithLogo sets the inline logo. nil means no logo.
func WithLogo(l *LogoAsset) ServiceOption {
	return func(s *Service) { s.logo = l }
}

// WithSendTimeout bounds each transport call. Non-positive values keep the default.
func WithSendTimeout(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithReplyTo(addr string) ServiceOption {
	return func(s *Service) { s.replyTo = addr }
}

// WithSiteURL sets the public site URL exposed to templates as site_url.
func WithSiteURL(u string) ServiceOption {
	return func(s *Service) { s.renderer.common.SiteURL = u }
}

// WithSupportEmail sets support_email for templates.
func WithSupportEmail(addr string) ServiceOption {
	return func(s *Service) { s.renderer.common.SupportEmail = addr }
}

func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides time.Now for timestamps and current_year.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates the orchestrator. from is the envelope sender used for
// every message.
func NewService(catalog *Catalog, sender Sender, from string, opts ...ServiceOption) (*Service, error) {
	if catalog == nil {
		return nil, fmt.Errorf("%w: template catalog is required", ErrInvalidConfig)
	}
	if sender == nil {
		return nil, fmt.Errorf("%w: sender is required", ErrInvalidConfig)
	}
	if !sanitizer.ValidEmail(from) {
		return nil, fmt.Errorf("%w: default sender must be a valid email address", ErrInvalidConfig)
	}

	s := &Service{
		catalog: catalog,
		sender:  sender,
		from:    from,
		timeout: DefaultSendTimeout,
		logger:  slog.Default(),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	s.renderer = &Renderer{}
	for _, opt := range opts {
		opt(s)
	}
	if s.history == nil {
		s.history = NewHistory(0)
	}
	s.renderer.common.Logo = s.logo
	s.renderer.now = s.now

	return s, nil
}

// MustNewService is like NewService but panics on error.
func MustNewService(catalog *Catalog, sender Sender, from string, opts ...ServiceOption) *Service {
	s, err := NewService(catalog, sender, from, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Service) History() *History { return s.history }
func (s *Service) Catalog() *Catalog { return s.catalog }

// Send dispatches req and records the outcome.
func (s *Service) Send(ctx context.Context, req Request) Result {
	start := s.now()
	subject := sanitizer.Sanitize(req.Subject)
	rec := SendRecord{
		ID:         s.newID(),
		Recipients: append([]string(nil), req.To...),
		Subject:    subject,
		Template:   req.Template,
		Timestamp:  start,
	}

	err := s.dispatch(ctx, req, subject)
	if err != nil {
		rec.Status = StatusFailed
		rec.Error = err.Error()
	} else {
		rec.Status = StatusSent
	}
	s.history.Append(rec)

	attrs := []any{
		logger.RecordID(rec.ID),
		logger.Recipients(rec.Recipients),
		logger.Template(rec.Template),
		logger.Duration(s.now().Sub(start)),
	}
	switch {
	case err == nil:
		s.logger.InfoContext(ctx, "email sent", attrs...)
		return Result{Status: StatusSent, RecordID: rec.ID}
	case IsClientError(err):
		s.logger.WarnContext(ctx, "email rejected", append(attrs, logger.Error(err))...)
	default:
		s.logger.ErrorContext(ctx, "email dispatch failed", append(attrs, logger.Error(err))...)
	}
	return Result{Status: StatusFailed, RecordID: rec.ID, Error: err.Error(), Err: err}
}

func (s *Service) dispatch(ctx context.Context, req Request, subject string) error {
	if err := validateRequest(req); err != nil {
		return err
	}

	html, err := s.resolveContent(ctx, req)
	if err != nil {
		return err
	}

	msg := &Message{
		From:    s.from,
		ReplyTo: s.replyTo,
		To:      append([]string(nil), req.To...),
		Subject: subject,
		HTML:    html,
		Text:    ToPlainText(html),
		Tag:     req.Template,
	}
	Embed(ctx, msg, s.logo, s.logger)

	return s.deliver(ctx, msg)
}

// validateRequest runs the presence, address and content-path checks. Any
// invalid recipient rejects the whole request.
func validateRequest(req Request) error {
	if err := validator.Apply(
		validator.RequiredSlice("to", req.To),
		validator.Required("subject", req.Subject),
	); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}

	if err := validator.Apply(validator.ValidEmails("to", req.To)...); err != nil {
		failed := validator.ExtractValidationErrors(err)
		bad := make([]string, 0, len(failed))
		for _, ve := range failed {
			bad = append(bad, fmt.Sprint(ve.Params["value"]))
		}
		return fmt.Errorf("%w: %s", ErrInvalidRecipient, strings.Join(bad, ", "))
	}

	hasTemplate := strings.TrimSpace(req.Template) != ""
	hasHTML := strings.TrimSpace(req.HTMLBody) != ""
	if err := validator.Apply(
		validator.ExactlyOne("template", hasTemplate, "htmlBody", hasHTML),
		validator.Forbidden("templateData", !hasTemplate && len(req.Data) > 0, "templateData requires template"),
	); err != nil {
		return fmt.Errorf("%w: %w", ErrConflictingContent, err)
	}
	return nil
}

func (s *Service) resolveContent(ctx context.Context, req Request) (string, error) {
	name := strings.TrimSpace(req.Template)
	if name == "" {
		return req.HTMLBody, nil
	}

	def, err := s.catalog.Lookup(name)
	if err != nil {
		return "", err
	}
	return s.renderer.Render(ctx, def, req.Data)
}

// deliver calls the sender under the send timeout. A panicking sender is
// reported as a transport failure. The sender goroutine is not aborted on
// timeout; its eventual result is discarded.
func (s *Service) deliver(ctx context.Context, msg *Message) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	future := async.Async(ctx, msg, func(ctx context.Context, msg *Message) (struct{}, error) {
		return struct{}{}, s.sender.Send(ctx, msg)
	})
	_, err := future.AwaitContext(ctx)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, async.ErrPanic):
		return fmt.Errorf("%w: transport %w", ErrFailedToSendEmail, err)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: no response from transport after %s", ErrSendTimeout, s.timeout)
	case errors.Is(err, ErrFailedToSendEmail):
		return err
	}
	return fmt.Errorf("%w: %w", ErrFailedToSendEmail, err)
}
