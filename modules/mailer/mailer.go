package mailer

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/novakinetix/mailkit/handler"
	"github.com/novakinetix/mailkit/pkg/binder"
	"github.com/novakinetix/mailkit/pkg/email"
	"github.com/novakinetix/mailkit/pkg/ratelimiter"
)

// Service exposes an email.Service over HTTP.
type Service struct {
	mailer       *email.Service
	logger       *slog.Logger
	limiter      func(http.Handler) http.Handler
	bind         binder.Bind
	errorHandler handler.ErrorHandler
}

// Option configures Service.
type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRateLimiter limits the send endpoints. History, templates and
// health are never limited.
func WithRateLimiter(rl ratelimiter.RateLimiter, opts ...ratelimiter.MiddlewareOption) Option {
	return func(s *Service) {
		if rl != nil {
			s.limiter = ratelimiter.Middleware(rl, opts...)
		}
	}
}

// WithMaxBodySize overrides binder.DefaultMaxJSONSize for request bodies.
func WithMaxBodySize(n int64) Option {
	return func(s *Service) {
		s.bind = binder.JSON(binder.WithMaxSize(n))
	}
}

// NewService creates the HTTP adapter for svc.
func NewService(svc *email.Service, opts ...Option) *Service {
	s := &Service{
		mailer: svc,
		logger: slog.Default(),
		bind:   binder.JSON(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.errorHandler = handler.NewErrorHandler(s.logger, StatusFor)
	return s
}

// Handle returns the module routes:
//
//	POST   /send-email                      (alias /api/send-email)
//	POST   /send-welcome-email
//	POST   /send-password-reset
//	POST   /send-volunteer-hours-approved
//	POST   /send-volunteer-hours-rejected
//	POST   /send-tutoring-notification
//	POST   /send-admin-notification
//	GET    /history
//	DELETE /history
//	GET    /templates
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		if s.limiter != nil {
			r.Use(s.limiter)
		}

		send := s.sendEmail()
		r.Post("/send-email", send)
		r.Post("/api/send-email", send)

		r.Post("/send-welcome-email", sendEvent[email.WelcomeEmail](s))
		r.Post("/send-password-reset", sendEvent[email.PasswordResetEmail](s))
		r.Post("/send-volunteer-hours-approved", sendEvent[email.VolunteerHoursApprovedEmail](s))
		r.Post("/send-volunteer-hours-rejected", sendEvent[email.VolunteerHoursRejectedEmail](s))
		r.Post("/send-tutoring-notification", sendEvent[email.TutoringNotificationEmail](s))
		r.Post("/send-admin-notification", sendEvent[email.AdminNotificationEmail](s))
	})

	r.Get("/history", handler.Wrap(s.listHistory, handler.WithErrorHandler[struct{}](s.errorHandler)))
	r.Delete("/history", handler.Wrap(s.clearHistory, handler.WithErrorHandler[struct{}](s.errorHandler)))
	r.Get("/templates", handler.Wrap(s.listTemplates, handler.WithErrorHandler[struct{}](s.errorHandler)))

	return r
}

func (s *Service) sendEmail() http.HandlerFunc {
	return handler.Wrap(func(ctx handler.Context, req SendEmailRequest) handler.Response {
		return s.result(s.mailer.Send(ctx, req.toEmail()))
	},
		handler.WithBinder[SendEmailRequest](s.bind),
		handler.WithErrorHandler[SendEmailRequest](s.errorHandler),
	)
}

func sendEvent[E email.Event](s *Service) http.HandlerFunc {
	return handler.Wrap(func(ctx handler.Context, ev E) handler.Response {
		return s.result(s.mailer.SendEvent(ctx, ev))
	},
		handler.WithBinder[E](s.bind),
		handler.WithErrorHandler[E](s.errorHandler),
	)
}

// result renders a dispatch outcome. Failed sends keep the record id so the
// caller can find the entry in /history.
func (s *Service) result(res email.Result) handler.Response {
	if res.Sent() {
		return handler.JSON(res)
	}
	status := StatusFor(res.Err)
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return handler.JSON(res, handler.WithJSONStatus(status))
}

func (s *Service) listHistory(_ handler.Context, _ struct{}) handler.Response {
	records := s.mailer.History().List()
	return handler.JSON(HistoryResponse{Records: records, Count: len(records)})
}

func (s *Service) clearHistory(ctx handler.Context, _ struct{}) handler.Response {
	s.mailer.History().Clear()
	s.logger.InfoContext(ctx, "email history cleared")
	return handler.JSON(StatusResponse{Status: "cleared"})
}

func (s *Service) listTemplates(_ handler.Context, _ struct{}) handler.Response {
	defs := s.mailer.Catalog().All()
	out := make([]TemplateInfo, 0, len(defs))
	for _, d := range defs {
		out = append(out, TemplateInfo{
			Name:     d.Name,
			Subject:  d.Subject,
			Required: d.Required,
			FreeText: d.FreeText,
		})
	}
	return handler.JSON(TemplatesResponse{Templates: out})
}
