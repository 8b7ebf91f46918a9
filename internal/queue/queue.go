package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/taskforge/internal"
	"github.com/dmitrymomot/taskforge/internal/config"
	"github.com/dmitrymomot/taskforge/internal/db/migrations"
	"github.com/dmitrymomot/taskforge/internal/tasks"
	"github.com/dmitrymomot/taskforge/pkg/cache"
	"github.com/dmitrymomot/taskforge/pkg/db"
	"github.com/dmitrymomot/taskforge/pkg/job"
	"github.com/dmitrymomot/taskforge/pkg/redis"
)

// ResultKeyPrefix namespaces result keys in Redis.
const ResultKeyPrefix = "celery-task-meta"

// ErrEagerManager is returned by Manager when tasks run eagerly.
var ErrEagerManager = errors.New("queue: no worker in eager mode")

// Queue holds the connections and task options built from settings. A
// process opens one Queue and builds its single task client from it.
type Queue struct {
	cfg     config.Celery
	log     *slog.Logger
	pool    *pgxpool.Pool
	results job.ResultBackend
	opts    []job.Option
	health  []internal.HealthOption
	closers []func(context.Context) error
}

// Open connects to the broker and the result backend, applies migrations
// and registers every task. In eager mode no broker connection is made.
func Open(ctx context.Context, cfg config.Config, log *slog.Logger) (_ *Queue, err error) {
	q := &Queue{cfg: cfg.Celery, log: log}
	defer func() {
		if err != nil {
			err = errors.Join(err, q.Close(context.WithoutCancel(ctx)))
		}
	}()

	if !cfg.Celery.TaskAlwaysEager {
		if q.pool, err = db.Connect(ctx, cfg.Celery.BrokerURL, cfg.DB); err != nil {
			return nil, fmt.Errorf("queue: connect broker: %w", err)
		}
		q.closers = append(q.closers, db.Shutdown(q.pool))
		q.health = append(q.health, internal.WithReadinessCheck("broker", db.Healthcheck(q.pool)))

		if err = job.Migrate(ctx, q.pool, log); err != nil {
			return nil, err
		}
	}

	var cleanup tasks.ExpiredResultsDeleter
	if q.results, cleanup, err = q.openResults(ctx, cfg); err != nil {
		return nil, err
	}

	q.opts = tasks.Registry(tasks.Deps{
		Logger:   log,
		Schedule: cfg.Celery.BeatSchedule,
		Cleanup:  cleanup,
	})
	q.opts = append(q.opts,
		job.WithLogger(log),
		job.WithDefaultQueue(cfg.Celery.TaskDefaultQueue),
		job.WithMaxAttempts(cfg.Celery.TaskMaxAttempts),
		job.WithMaxWorkers(cfg.Celery.WorkerConcurrency),
	)
	if q.results != nil {
		q.opts = append(q.opts, job.WithResultBackend(q.results))
	}

	return q, nil
}

func (q *Queue) openResults(ctx context.Context, cfg config.Config) (job.ResultBackend, tasks.ExpiredResultsDeleter, error) {
	backend := cfg.Celery.ResultBackend
	ttl := cfg.Celery.ResultExpires

	switch {
	case backend == "":
		return nil, nil, nil

	case backend == config.BackendMemory:
		c := cache.NewMemory[job.Result]()
		q.closers = append(q.closers, func(context.Context) error { return c.Close() })
		return job.NewCacheBackend(c, cacheTTL(ttl)), nil, nil

	case redis.IsURL(backend):
		client, err := redis.Open(ctx, backend)
		if err != nil {
			return nil, nil, fmt.Errorf("queue: connect result backend: %w", err)
		}
		q.closers = append(q.closers, redis.Shutdown(client))
		q.health = append(q.health, internal.WithReadinessCheck("results", redis.Healthcheck(client)))
		return job.NewCacheBackend(cache.NewRedis[job.Result](client, cache.WithPrefix(ResultKeyPrefix)), cacheTTL(ttl)), nil, nil

	default:
		pool := q.pool
		if pool == nil || backend != cfg.Celery.BrokerURL {
			var err error
			if pool, err = db.Connect(ctx, backend, cfg.DB); err != nil {
				return nil, nil, fmt.Errorf("queue: connect result backend: %w", err)
			}
			q.closers = append(q.closers, db.Shutdown(pool))
			q.health = append(q.health, internal.WithReadinessCheck("results", db.Healthcheck(pool)))
		}
		if err := db.Migrate(ctx, pool, migrations.FS, cfg.DB.MigrationsTable, q.log); err != nil {
			return nil, nil, err
		}
		pg := job.NewPostgresBackend(pool, ttl)
		return pg, pg, nil
	}
}

// cacheTTL maps a non-positive expiry to "never expires".
func cacheTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return -1
	}
	return d
}

// Options returns the task registry and client settings, followed by extra.
func (q *Queue) Options(extra ...job.Option) []job.Option {
	return slices.Concat(q.opts, extra)
}

// Client builds the task client for a process that only dispatches: an
// Eager client in eager mode, otherwise an insert-only Enqueuer. The Eager
// client is closed by Close.
func (q *Queue) Client() (job.Client, error) {
	if q.pool == nil {
		e := job.NewEager(q.Options()...)
		q.closers = append(q.closers, func(context.Context) error { return e.Close() })
		return e, nil
	}
	return job.NewEnqueuer(q.pool, q.Options()...)
}

// Manager builds the worker-side client. Beat is enabled from settings.
func (q *Queue) Manager() (*job.Manager, error) {
	if q.pool == nil {
		return nil, ErrEagerManager
	}
	return job.NewManager(q.pool, q.Options(job.WithBeat(q.cfg.BeatEnabled))...)
}

// HealthOptions returns readiness checks for every opened connection.
func (q *Queue) HealthOptions() []internal.HealthOption {
	return slices.Clone(q.health)
}

// Close releases connections in reverse order of opening.
func (q *Queue) Close(ctx context.Context) error {
	var errs []error
	for _, fn := range slices.Backward(q.closers) {
		if err := fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	q.closers = nil
	return errors.Join(errs...)
}
