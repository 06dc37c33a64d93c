package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/novakinetix/mailkit/handler"
	"github.com/novakinetix/mailkit/pkg/logger"
)

// Info identifies the running service in health responses.
type Info struct {
	Service string
	Version string
}

// HealthResponse is the body of the liveness endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// Health is the liveness probe. It always reports healthy with the current
// UTC time in RFC 3339 format.
func Health(info Info) http.HandlerFunc {
	return handler.Wrap(func(ctx handler.Context, _ struct{}) handler.Response {
		return handler.JSON(HealthResponse{
			Status:    "healthy",
			Service:   info.Service,
			Version:   info.Version,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	})
}

// Check is a named readiness dependency.
type Check struct {
	Name string
	Fn   func(context.Context) error
}

// ReadinessResponse is the body of the readiness endpoint. Checks maps each
// dependency to "ok" or its error text.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// DefaultCheckTimeout bounds each readiness check.
const DefaultCheckTimeout = 2 * time.Second

// Readiness runs every check against the request context. Any failure
// answers 503 with status "not_ready".
func Readiness(log *slog.Logger, checks ...Check) http.HandlerFunc {
	if log == nil {
		log = slog.Default()
	}
	return handler.Wrap(func(ctx handler.Context, _ struct{}) handler.Response {
		resp := ReadinessResponse{Status: "ready"}
		status := http.StatusOK
		if len(checks) > 0 {
			resp.Checks = make(map[string]string, len(checks))
		}

		for _, c := range checks {
			if c.Fn == nil {
				continue
			}
			cctx, cancel := context.WithTimeout(ctx, DefaultCheckTimeout)
			err := c.Fn(cctx)
			cancel()

			if err != nil {
				resp.Status = "not_ready"
				resp.Checks[c.Name] = err.Error()
				status = http.StatusServiceUnavailable
				log.WarnContext(ctx, "readiness check failed",
					logger.Component(c.Name),
					logger.Error(err),
				)
				continue
			}
			resp.Checks[c.Name] = "ok"
		}

		return handler.JSON(resp, handler.WithJSONStatus(status))
	})
}
