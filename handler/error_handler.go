package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/novakinetix/mailkit/pkg/binder"
	"github.com/novakinetix/mailkit/pkg/logger"
	"github.com/novakinetix/mailkit/pkg/requestid"
)

// StatusMapper maps a domain error to an HTTP status. It returns 0 when it
// does not recognize err.
type StatusMapper func(err error) int

// StatusCode resolves the HTTP status for err. Mappers run first, in order;
// then HTTPError and binder errors are recognized. Anything else is a 500.
func StatusCode(err error, mappers ...StatusMapper) int {
	if err == nil {
		return http.StatusOK
	}
	for _, m := range mappers {
		if m == nil {
			continue
		}
		if code := m(err); code > 0 {
			return code
		}
	}

	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr.Code > 0 {
		return httpErr.Code
	}

	switch {
	case errors.Is(err, binder.ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, binder.ErrRequestTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, binder.ErrMissingContentType),
		errors.Is(err, binder.ErrFailedToParseJSON):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func logLevel(status int) slog.Level {
	if status < http.StatusInternalServerError {
		return slog.LevelWarn
	}
	return slog.LevelError
}

// NewErrorHandler logs the error with request metadata and writes a JSON
// failure body with the status resolved by StatusCode.
func NewErrorHandler(log *slog.Logger, mappers ...StatusMapper) ErrorHandler {
	if log == nil {
		log = slog.Default()
	}

	return func(ctx Context, err error) {
		r := ctx.Request()
		status := StatusCode(err, mappers...)

		log.LogAttrs(r.Context(), logLevel(status), "request error",
			logger.RequestID(requestid.FromContext(r.Context())),
			logger.Error(err),
			logger.Status(status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Component("error_handler"),
		)

		if renderErr := JSONError(err, WithJSONStatus(status)).Render(ctx.ResponseWriter(), r); renderErr != nil {
			log.ErrorContext(r.Context(), "failed to render error response",
				logger.Error(renderErr),
				logger.Component("error_handler"),
			)
		}
	}
}
