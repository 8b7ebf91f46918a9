// Package logger builds the slog loggers used by the server and worker processes.
//
// Every logger writes JSON to stdout. Context extractors add request-scoped
// attributes (request id, task id) on each call, and when a Sentry DSN is
// configured, warnings and errors are mirrored to Sentry as well.
//
//	log := logger.New(logger.Config{Level: slog.LevelInfo},
//		middlewares.RequestIDExtractor(),
//	)
//	log.InfoContext(ctx, "task enqueued", slog.String("task", "myapp.tasks.add"))
//
// Without a DSN the Sentry branch is skipped entirely, so the same wiring
// runs unchanged in development.
//
// Libraries in this module default to NewNope when no logger is supplied.
package logger
