// Package binder decodes HTTP request bodies into typed values.
//
// JSON returns a Bind function that checks the Content-Type, caps the body
// at DefaultMaxJSONSize (or WithMaxSize), decodes exactly one JSON value and
// rejects trailing data. Unknown fields are ignored unless WithStrictFields
// is set.
//
// All failures wrap one of ErrMissingContentType, ErrUnsupportedMediaType,
// ErrRequestTooLarge or ErrFailedToParseJSON, so callers can map them to a
// 400 or 415 response with errors.Is.
package binder
