// Package logger builds *slog.Logger values with functional options and
// provides attribute helpers so form components log with consistent keys.
//
// New picks a text or JSON handler, applies static attributes and, when
// context extractors are registered, wraps the handler so values stored in a
// context.Context (a session id, for example) are added to every record
// logged with that context.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment("development", "formdemo"),
//	    logger.WithContextValue("session_id", sessionKey{}),
//	)
//	log.DebugContext(ctx, "field validated",
//	    logger.Field("email"),
//	    logger.ErrorCount(1),
//	)
//
// Error returns an empty attribute for a nil error, so it can be passed
// unconditionally.
package logger
