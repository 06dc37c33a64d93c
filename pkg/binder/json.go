package binder

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
)

// DefaultMaxJSONSize is the default maximum size for JSON request bodies (1MB).
const DefaultMaxJSONSize int64 = 1 << 20

// Bind decodes an HTTP request into v.
type Bind func(r *http.Request, v any) error

type jsonConfig struct {
	maxSize       int64
	strict        bool
	allowNoHeader bool
}

// JSONOption configures the JSON binder.
type JSONOption func(*jsonConfig)

// WithMaxSize caps the request body. Non-positive values keep the default.
func WithMaxSize(n int64) JSONOption {
	return func(c *jsonConfig) {
		if n > 0 {
			c.maxSize = n
		}
	}
}

// WithStrictFields rejects bodies that contain fields unknown to the target.
func WithStrictFields() JSONOption {
	return func(c *jsonConfig) { c.strict = true }
}

// WithMissingContentType accepts requests without a Content-Type header.
// A header that names another media type is still rejected.
func WithMissingContentType() JSONOption {
	return func(c *jsonConfig) { c.allowNoHeader = true }
}

// JSON returns a binder that decodes exactly one JSON value from the body.
//
//	r.Post("/send-email", handler.Wrap(send, handler.WithBinder[SendRequest](binder.JSON())))
func JSON(opts ...JSONOption) Bind {
	cfg := &jsonConfig{maxSize: DefaultMaxJSONSize}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(r *http.Request, v any) error {
		if err := checkContentType(r.Header.Get("Content-Type"), cfg.allowNoHeader); err != nil {
			return err
		}
		if r.Body == nil {
			return fmt.Errorf("%w: empty body", ErrFailedToParseJSON)
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, cfg.maxSize+1))
		if err != nil {
			return fmt.Errorf("%w: failed to read request body: %w", ErrFailedToParseJSON, err)
		}
		if int64(len(body)) > cfg.maxSize {
			return fmt.Errorf("%w: max %d bytes", ErrRequestTooLarge, cfg.maxSize)
		}

		dec := json.NewDecoder(bytes.NewReader(body))
		if cfg.strict {
			dec.DisallowUnknownFields()
		}
		if err := dec.Decode(v); err != nil {
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("%w: empty body", ErrFailedToParseJSON)
			}
			return fmt.Errorf("%w: %w", ErrFailedToParseJSON, err)
		}

		var extra json.RawMessage
		if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: unexpected data after JSON value", ErrFailedToParseJSON)
		}
		return nil
	}
}

func checkContentType(header string, allowEmpty bool) error {
	if header == "" {
		if allowEmpty {
			return nil
		}
		return fmt.Errorf("%w: expected application/json", ErrMissingContentType)
	}
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil || mediaType != "application/json" {
		return fmt.Errorf("%w: got %s, expected application/json", ErrUnsupportedMediaType, header)
	}
	return nil
}
