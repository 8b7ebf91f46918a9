// Package job runs named tasks on River, a Postgres-backed queue.
//
// Tasks are plain structs registered from an explicit table of options. A
// task has Name() and Handle(ctx, Args) (Result, error); scheduled tasks take
// no arguments and add Schedule():
//
//	type Add struct{}
//
//	func (Add) Name() string { return "myapp.tasks.add" }
//	func (Add) Handle(_ context.Context, a AddArgs) (int, error) { return a.X + a.Y, nil }
//
//	opts := []job.Option{
//		job.WithTask[AddArgs, int](Add{}),
//		job.WithScheduledTask[string](Heartbeat{}),
//		job.WithResultBackend(job.NewPostgresBackend(pool, 24*time.Hour)),
//	}
//
// Three clients share those options:
//
//   - Enqueuer only inserts jobs; use it in the web process.
//   - Manager also works queues and, with WithBeat(true), inserts periodic
//     jobs for scheduled tasks.
//   - Eager executes tasks inside Enqueue, for tests and local runs.
//
// Every Enqueue returns a *Handle carrying the task id. With a result
// backend the handle reports state (PENDING, STARTED, RETRY, SUCCESS,
// FAILURE) and can wait for the return value:
//
//	h, err := client.Enqueue(ctx, "myapp.tasks.add", AddArgs{X: 4, Y: 6})
//	if err != nil {
//		return err
//	}
//	var sum int
//	err = h.Wait(ctx, &sum)
//
// River's schema is created by Migrate; the task_results table used by
// PostgresBackend lives in the application's goose migrations.
package job
