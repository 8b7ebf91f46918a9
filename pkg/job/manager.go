package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
)

// Manager works tasks from River queues. It embeds Enqueuer, so tasks can be
// enqueued from the worker process too, even before Start.
type Manager struct {
	*Enqueuer
	riverClient *river.Client[pgx.Tx]

	mu      sync.Mutex
	started bool
}

// NewManager builds the River client with one worker that dispatches every
// task through the registry, plus periodic jobs when beat is enabled.
func NewManager(pool *pgxpool.Pool, opts ...Option) (*Manager, error) {
	if pool == nil {
		return nil, ErrPoolRequired
	}

	cfg := newConfig(opts)

	queues := map[string]river.QueueConfig{
		cfg.defaultQueue: {MaxWorkers: cfg.maxWorkers},
	}
	for name, n := range cfg.queues {
		queues[name] = river.QueueConfig{MaxWorkers: n}
	}

	periodic, err := periodicJobs(cfg)
	if err != nil {
		return nil, err
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, &taskWorker{cfg: cfg})

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues:       queues,
		Workers:      workers,
		PeriodicJobs: periodic,
		Logger:       cfg.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("job: create client: %w", err)
	}

	return &Manager{
		Enqueuer:    &Enqueuer{client: client, pool: pool, cfg: cfg},
		riverClient: client,
	}, nil
}

func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return ErrAlreadyStarted
	}
	if err := m.riverClient.Start(ctx); err != nil {
		return fmt.Errorf("job: start client: %w", err)
	}

	m.started = true
	m.cfg.logger.Info("job manager started",
		slog.Int("tasks", m.cfg.registry.len()),
		slog.Int("periodic", len(m.cfg.schedules)),
		slog.Bool("beat", m.cfg.beat),
	)
	return nil
}

// Stop waits for running tasks to finish or ctx to expire.
func (m *Manager) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return ErrNotStarted
	}
	if err := m.riverClient.Stop(ctx); err != nil {
		return fmt.Errorf("job: stop client: %w", err)
	}

	m.started = false
	m.cfg.logger.Info("job manager stopped")
	return nil
}

// StartFunc adapts Start to a startup hook.
func (m *Manager) StartFunc() func(context.Context) error {
	return m.Start
}

// Shutdown adapts Stop to a shutdown hook.
func (m *Manager) Shutdown() func(context.Context) error {
	return m.Stop
}

// taskWorker executes every taskforge:task job.
type taskWorker struct {
	river.WorkerDefaults[taskArgs]
	cfg *config
}

func (w *taskWorker) Work(ctx context.Context, job *river.Job[taskArgs]) error {
	err := run(ctx, w.cfg, attempt{
		taskID:  job.Args.TaskID,
		name:    job.Args.TaskName,
		payload: job.Args.Payload,
		number:  job.Attempt,
		final:   job.Attempt >= job.MaxAttempts,
	})
	if errors.Is(err, ErrUnknownTask) || errors.Is(err, ErrInvalidPayload) {
		return river.JobCancel(err)
	}
	return err
}

var _ Client = (*Manager)(nil)
