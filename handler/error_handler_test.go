package handler_test

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/novakinetix/mailkit/handler"
	"github.com/novakinetix/mailkit/pkg/binder"
	"github.com/novakinetix/mailkit/pkg/logger"
)

var errDomain = errors.New("domain failure")

func domainMapper(err error) int {
	if errors.Is(err, errDomain) {
		return http.StatusBadGateway
	}
	return 0
}

func TestStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		mappers []handler.StatusMapper
		want    int
	}{
		{name: "nil", err: nil, want: http.StatusOK},
		{name: "http error", err: handler.NewHTTPError(http.StatusNotFound, ""), want: http.StatusNotFound},
		{name: "wrapped http error", err: fmt.Errorf("outer: %w", handler.NewHTTPError(http.StatusConflict, "dup")), want: http.StatusConflict},
		{name: "malformed json", err: fmt.Errorf("%w: eof", binder.ErrFailedToParseJSON), want: http.StatusBadRequest},
		{name: "missing content type", err: binder.ErrMissingContentType, want: http.StatusBadRequest},
		{name: "unsupported media", err: binder.ErrUnsupportedMediaType, want: http.StatusUnsupportedMediaType},
		{name: "too large", err: binder.ErrRequestTooLarge, want: http.StatusRequestEntityTooLarge},
		{name: "unknown", err: errors.New("boom"), want: http.StatusInternalServerError},
		{name: "mapper wins", err: errDomain, mappers: []handler.StatusMapper{nil, domainMapper}, want: http.StatusBadGateway},
		{name: "mapper has no opinion", err: binder.ErrRequestTooLarge, mappers: []handler.StatusMapper{domainMapper}, want: http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, handler.StatusCode(tt.err, tt.mappers...))
		})
	}
}

func TestNewErrorHandler(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := logger.New(logger.WithOutput(buf))
	eh := handler.NewErrorHandler(log, domainMapper)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/send-email", nil)
	eh(handler.NewContext(rec, req), fmt.Errorf("%w: smtp 554", errDomain))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "failed", body["status"])
	assert.Equal(t, "domain failure: smtp 554", body["error"])

	assert.Contains(t, buf.String(), `"level":"ERROR"`)
	assert.Contains(t, buf.String(), `"path":"/send-email"`)
	assert.Contains(t, buf.String(), `"status":502`)
}

func TestNewErrorHandler_ClientErrorLogsWarn(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	eh := handler.NewErrorHandler(logger.New(logger.WithOutput(buf)))

	rec := httptest.NewRecorder()
	eh(handler.NewContext(rec, httptest.NewRequest(http.MethodPost, "/", nil)), binder.ErrMissingContentType)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, buf.String(), `"level":"WARN"`)
}
