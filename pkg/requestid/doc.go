// Package requestid attaches a correlation ID to every HTTP request.
//
// Middleware reuses the client's X-Request-ID header when it is at most 128
// characters of letters, digits, '-' and '_'. Anything else is replaced by a
// new UUID. The ID is echoed in the response header and stored in the request
// context, where FromContext reads it.
//
// LoggerExtractor plugs into logger.WithContextExtractors so every record
// logged with the request context carries request_id:
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
//	r.Use(requestid.Middleware)
package requestid
