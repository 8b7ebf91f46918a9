// Package taskforge wires an HTTP API to a Postgres-backed task queue.
//
// The root package re-exports the web runtime from internal so commands and
// handlers depend on one import. Background work lives in pkg/job, the
// application's tasks in internal/tasks.
//
// # Quick Start
//
// Build one task client per process and inject it:
//
//	q, err := queue.Open(ctx, cfg, log)
//	client, err := q.Client()
//
//	app := taskforge.New(
//	    taskforge.WithLogger(log),
//	    taskforge.WithHandlers(
//	        handlers.NewDispatch(client),
//	        handlers.NewTaskStatus(client),
//	    ),
//	    taskforge.WithHealthChecks(q.HealthOptions()...),
//	)
//
//	if err := app.Run(":8080", taskforge.ShutdownHook(q.Close)); err != nil {
//	    log.Error("server stopped", "error", err)
//	}
//
// # Handlers
//
// Handlers implement [Handler] to declare routes:
//
//	func (h *Dispatch) Routes(r taskforge.Router) {
//	    r.GET("/run-task", h.run)
//	    r.POST("/run-task", h.run)
//	}
//
// A returned error is passed to the error handler, which writes
// {"error": "..."} with the status of an [HTTPError] or 500.
//
// # Workers
//
// A *job.Manager passed to [WithWorker] starts after the listener is bound
// and stops before shutdown hooks close connections:
//
//	manager, err := q.Manager()
//	app := taskforge.New(
//	    taskforge.WithWorker(manager),
//	    taskforge.WithHealthChecks(
//	        taskforge.WithReadinessCheck("worker", job.Healthcheck(manager)),
//	    ),
//	)
package taskforge
