package job

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivertype"
)

// Client is implemented by Enqueuer, Manager and Eager.
type Client interface {
	Enqueue(ctx context.Context, name string, payload any, opts ...EnqueueOption) (*Handle, error)
	Result(ctx context.Context, taskID string) (*Result, error)
}

type inserter interface {
	jobGetter
	Insert(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (*rivertype.JobInsertResult, error)
}

// Enqueuer inserts tasks for a separate worker process. It runs no workers.
type Enqueuer struct {
	client inserter
	pool   *pgxpool.Pool
	cfg    *config
}

// NewEnqueuer creates an insert-only client. When tasks are registered via
// options, Enqueue rejects names outside the registry.
func NewEnqueuer(pool *pgxpool.Pool, opts ...Option) (*Enqueuer, error) {
	if pool == nil {
		return nil, ErrPoolRequired
	}

	cfg := newConfig(opts)
	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Logger: cfg.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("job: create enqueuer client: %w", err)
	}

	return &Enqueuer{client: client, pool: pool, cfg: cfg}, nil
}

// Enqueue inserts a task and returns its handle. payload is JSON-encoded and
// decoded into the task's argument type by the worker.
func (e *Enqueuer) Enqueue(ctx context.Context, name string, payload any, opts ...EnqueueOption) (*Handle, error) {
	if e.cfg.registry.len() > 0 {
		if _, ok := e.cfg.registry.get(name); !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTask, name)
		}
	}

	args, insertOpts, err := buildJobArgs(e.cfg, name, payload, opts...)
	if err != nil {
		return nil, err
	}

	// PENDING must land before the insert, a worker may record STARTED right after it.
	record(ctx, e.cfg, &Result{TaskID: args.TaskID, TaskName: name, State: StatePending}, false)

	res, err := e.client.Insert(ctx, args, insertOpts)
	if err != nil {
		record(ctx, e.cfg, &Result{TaskID: args.TaskID, TaskName: name, State: StateFailure, Error: err.Error()}, true)
		return nil, fmt.Errorf("job: enqueue %s: %w", name, err)
	}

	taskID := args.TaskID
	if res.UniqueSkippedAsDuplicate {
		var existing taskArgs
		if err := json.Unmarshal(res.Job.EncodedArgs, &existing); err == nil && existing.TaskID != "" {
			taskID = existing.TaskID
		}
		if taskID != args.TaskID {
			forget(ctx, e.cfg, args.TaskID)
		}
	}

	e.cfg.logger.DebugContext(ctx, "task enqueued",
		slog.String("task", name),
		slog.String("task_id", taskID),
		slog.Int64("job_id", res.Job.ID),
		slog.String("queue", res.Job.Queue),
	)

	return &Handle{
		results: e.cfg.results,
		jobs:    e.client,
		id:      taskID,
		task:    name,
		jobID:   res.Job.ID,
		poll:    e.cfg.pollInterval,
	}, nil
}

// Result loads a stored result by task id.
func (e *Enqueuer) Result(ctx context.Context, taskID string) (*Result, error) {
	if e.cfg.results == nil {
		return nil, ErrNoResultBackend
	}
	return e.cfg.results.Load(ctx, taskID)
}

// Tasks returns the registered task names.
func (e *Enqueuer) Tasks() []string {
	return e.cfg.registry.names()
}

// taskArgs is the single River job kind used for every task.
type taskArgs struct {
	TaskID    string          `json:"task_id"`
	TaskName  string          `json:"task_name" river:"unique"`
	UniqueKey string          `json:"unique_key,omitempty" river:"unique"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

func (taskArgs) Kind() string { return "taskforge:task" }

func buildJobArgs(cfg *config, name string, payload any, opts ...EnqueueOption) (*taskArgs, *river.InsertOpts, error) {
	ec := &enqueueConfig{}
	for _, opt := range opts {
		opt(ec)
	}

	var raw json.RawMessage
	if payload != nil {
		var err error
		if raw, err = json.Marshal(payload); err != nil {
			return nil, nil, fmt.Errorf("job: marshal payload: %w", err)
		}
	}

	args := &taskArgs{TaskID: ec.taskID, TaskName: name, Payload: raw}
	if args.TaskID == "" {
		args.TaskID = newTaskID()
	}

	insertOpts := &river.InsertOpts{Queue: cfg.defaultQueue, MaxAttempts: cfg.maxAttempts}
	if ec.queue != "" {
		insertOpts.Queue = ec.queue
	}
	if ec.scheduledAt != nil {
		insertOpts.ScheduledAt = *ec.scheduledAt
	}
	if ec.maxAttempts > 0 {
		insertOpts.MaxAttempts = ec.maxAttempts
	}
	if ec.priority > 0 {
		insertOpts.Priority = ec.priority
	}
	if len(ec.tags) > 0 {
		insertOpts.Tags = ec.tags
	}
	if ec.uniqueFor > 0 {
		args.UniqueKey = ec.uniqueKey
		insertOpts.UniqueOpts = river.UniqueOpts{ByArgs: true, ByPeriod: ec.uniqueFor}
	}

	return args, insertOpts, nil
}

var (
	_ Client   = (*Enqueuer)(nil)
	_ inserter = (*river.Client[pgx.Tx])(nil)
)

func newTaskID() string { return uuid.NewString() }
