package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// attempt describes one execution of a task.
type attempt struct {
	taskID  string
	name    string
	payload json.RawMessage
	number  int
	// final is set when a failure will not be retried.
	final bool
}

// run executes one attempt and records its state transitions in the result
// backend. Storage failures are logged and never fail the task.
func run(ctx context.Context, cfg *config, a attempt) error {
	e, ok := cfg.registry.get(a.name)
	if !ok {
		err := fmt.Errorf("%w: %s", ErrUnknownTask, a.name)
		record(ctx, cfg, &Result{TaskID: a.taskID, TaskName: a.name, State: StateFailure, Error: err.Error(), Attempt: a.number}, true)
		return err
	}

	ctx = withTaskID(ctx, a.taskID)
	log := cfg.logger.With(
		slog.String("task", a.name),
		slog.String("task_id", a.taskID),
		slog.Int("attempt", a.number),
	)

	record(ctx, cfg, &Result{TaskID: a.taskID, TaskName: a.name, State: StateStarted, Attempt: a.number}, false)
	log.DebugContext(ctx, "executing task")

	value, err := e.Execute(ctx, a.payload)
	if err != nil {
		state := StateRetry
		if a.final || errors.Is(err, ErrInvalidPayload) {
			state = StateFailure
		}
		log.ErrorContext(ctx, "task failed", slog.String("state", string(state)), slog.Any("error", err))
		record(ctx, cfg, &Result{TaskID: a.taskID, TaskName: a.name, State: state, Error: err.Error(), Attempt: a.number}, state.Ready())
		return err
	}

	log.DebugContext(ctx, "task succeeded")
	record(ctx, cfg, &Result{TaskID: a.taskID, TaskName: a.name, State: StateSuccess, Value: value, Attempt: a.number}, true)
	return nil
}

func record(ctx context.Context, cfg *config, res *Result, done bool) {
	if cfg.results == nil {
		return
	}
	if done {
		now := time.Now().UTC()
		res.DateDone = &now
	}
	if err := cfg.results.Store(ctx, res); err != nil {
		cfg.logger.WarnContext(ctx, "failed to store task result",
			slog.String("task_id", res.TaskID),
			slog.String("state", string(res.State)),
			slog.Any("error", err),
		)
	}
}

// forget drops a record written for a task id that was never inserted.
func forget(ctx context.Context, cfg *config, taskID string) {
	if cfg.results == nil {
		return
	}
	if err := cfg.results.Delete(ctx, taskID); err != nil {
		cfg.logger.WarnContext(ctx, "failed to delete task result",
			slog.String("task_id", taskID),
			slog.Any("error", err),
		)
	}
}
