package mailer

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Mountable interface {
	Handle() http.Handler
}

// RouterOptions configures the top-level router. Nil handlers are not mounted.
type RouterOptions struct {
	Mailer Mountable

	Health    http.Handler
	Readiness http.Handler

	// Middlewares run for every route, health checks included.
	Middlewares []func(http.Handler) http.Handler
}

// Router assembles the service routes.
//
// Example:
//
//	r := mailer.Router(mailer.RouterOptions{
//	    Mailer:    mailer.NewService(svc, mailer.WithRateLimiter(bucket)),
//	    Health:    httpserver.Health(info),
//	    Readiness: httpserver.Readiness(log, checks...),
//	})
func Router(opts RouterOptions) chi.Router {
	r := chi.NewRouter()
	r.Use(opts.Middlewares...)

	if opts.Health != nil {
		r.Method(http.MethodGet, "/health", opts.Health)
	}
	if opts.Readiness != nil {
		r.Method(http.MethodGet, "/ready", opts.Readiness)
	}
	if opts.Mailer != nil {
		r.Mount("/", opts.Mailer.Handle())
	}

	return r
}
