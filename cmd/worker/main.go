// Command worker works queued tasks and, when beat is enabled, enqueues the
// periodic ones. It serves only health endpoints over HTTP.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/dmitrymomot/taskforge"
	"github.com/dmitrymomot/taskforge/internal/config"
	"github.com/dmitrymomot/taskforge/internal/queue"
	"github.com/dmitrymomot/taskforge/pkg/job"
	"github.com/dmitrymomot/taskforge/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}
	if cfg.Celery.TaskAlwaysEager {
		slog.Error("worker is not used when CELERY_TASK_ALWAYS_EAGER is set")
		os.Exit(1)
	}

	log := logger.New(cfg.Logger, job.TaskIDExtractor()).
		With(slog.String("app", cfg.AppName), slog.String("process", "worker"))

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("worker stopped with error", slog.Any("error", err))
		_ = logger.Flush()(context.Background())
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	q, err := queue.Open(ctx, cfg, log)
	if err != nil {
		return err
	}

	m, err := q.Manager()
	if err != nil {
		return errors.Join(err, q.Close(ctx))
	}

	log.Info("starting worker",
		slog.String("queue", cfg.Celery.TaskDefaultQueue),
		slog.Int("concurrency", cfg.Celery.WorkerConcurrency),
		slog.Bool("beat", cfg.Celery.BeatEnabled),
		slog.Any("tasks", m.Tasks()),
	)

	healthOpts := append(q.HealthOptions(), taskforge.WithReadinessCheck("worker", job.Healthcheck(m)))
	app := taskforge.New(
		taskforge.WithLogger(log),
		taskforge.WithWorker(m),
		taskforge.WithHealthChecks(healthOpts...),
	)

	return app.Run(cfg.WorkerHTTPAddress,
		taskforge.ShutdownTimeout(cfg.ShutdownTimeout),
		taskforge.ShutdownHook(q.Close),
		taskforge.ShutdownHook(logger.Flush()),
	)
}
