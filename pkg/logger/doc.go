// Package logger builds *slog.Logger instances for the mail service and
// provides attribute helpers with consistent keys.
//
// New creates a logger from functional options:
//
//	log := logger.New(
//		logger.WithEnvironment(environment.Production, "mailservice"),
//		logger.WithLevelString(os.Getenv("LOG_LEVEL")),
//		logger.WithContextExtractors(
//			requestid.LoggerExtractor(),
//			clientip.LoggerExtractor(),
//		),
//	)
//	logger.SetAsDefault(log)
//
// Development uses the text handler at debug level; staging and production
// use JSON at info level. The returned logger is wrapped in
// LogHandlerDecorator, which runs every ContextExtractor against the context
// passed to InfoContext, ErrorContext and friends, so request-scoped values
// appear on each record without being threaded through call sites.
//
// # Attributes
//
// Helpers such as Error, RecordID, Recipients, Template, Provider and
// Status return slog.Attr values with fixed keys so log queries work across
// packages:
//
//	log.InfoContext(ctx, "email sent",
//		logger.RecordID(rec.ID),
//		logger.Recipients(rec.Recipients),
//		logger.Template(rec.Template),
//	)
//
// Helpers that receive a nil or empty value return an empty Attr, which slog
// drops.
package logger
