package mailer

import (
	"errors"
	"net/http"

	"github.com/novakinetix/mailkit/pkg/email"
	"github.com/novakinetix/mailkit/pkg/ratelimiter"
)

// StatusFor maps dispatch errors to HTTP statuses. It returns 0 for errors it
// does not know, so it can be chained as a handler.StatusMapper.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, email.ErrMissingTemplateData):
		return http.StatusUnprocessableEntity
	case email.IsClientError(err):
		return http.StatusBadRequest
	case errors.Is(err, email.ErrSendTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, email.ErrFailedToSendEmail):
		return http.StatusBadGateway
	case errors.Is(err, ratelimiter.ErrLimitExceeded):
		return http.StatusTooManyRequests
	}
	return 0
}
