// Package internal is the HTTP runtime shared by the server and worker
// binaries: a chi router behind an error-returning handler signature,
// JSON error rendering, health endpoints and a signal-aware run loop with
// startup and shutdown hooks.
//
//	app := internal.New(
//		internal.WithLogger(log),
//		internal.WithMiddleware(middlewares.RequestID(), middlewares.Recover()),
//		internal.WithHandlers(handlers.NewDispatch(client)),
//		internal.WithHealthChecks(internal.WithReadinessCheck("postgres", db.Healthcheck(pool))),
//	)
//	err := app.Run(":8080", internal.Logger(log), internal.ShutdownHook(db.Shutdown(pool)))
package internal
