package tasks

import (
	"log/slog"

	"github.com/dmitrymomot/taskforge/pkg/job"
)

// Deps carries what the tasks need from the process.
type Deps struct {
	Logger *slog.Logger
	// Schedule overrides the scheduled task's interval.
	Schedule string
	// Cleanup enables the backend cleanup task when results are kept in
	// Postgres.
	Cleanup ExpiredResultsDeleter
}

// Registry is the table of every task this application runs. Pass the
// returned options to job.NewEnqueuer, job.NewManager or job.NewEager.
func Registry(d Deps) []job.Option {
	opts := []job.Option{
		job.WithTask[AddArgs, int](Add{}),
		job.WithTask[AddArgs, int](Multiply{}),
		job.WithTask[SayHelloArgs, string](SayHello{}),
		job.WithScheduledTask[string](ScheduledTask{Logger: d.Logger, Spec: d.Schedule}),
	}
	if d.Cleanup != nil {
		opts = append(opts, job.WithScheduledTask[int64](BackendCleanup{Results: d.Cleanup, Logger: d.Logger}))
	}
	return opts
}
