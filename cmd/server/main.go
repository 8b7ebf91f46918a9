// Command server runs the HTTP API that dispatches tasks.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/dmitrymomot/taskforge"
	"github.com/dmitrymomot/taskforge/internal/config"
	"github.com/dmitrymomot/taskforge/internal/handlers"
	"github.com/dmitrymomot/taskforge/internal/queue"
	"github.com/dmitrymomot/taskforge/middlewares"
	"github.com/dmitrymomot/taskforge/pkg/job"
	"github.com/dmitrymomot/taskforge/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	log := logger.New(cfg.Logger, middlewares.RequestIDExtractor(), job.TaskIDExtractor()).
		With(slog.String("app", cfg.AppName), slog.String("process", "server"))

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("server stopped with error", slog.Any("error", err))
		_ = logger.Flush()(context.Background())
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	q, err := queue.Open(ctx, cfg, log)
	if err != nil {
		return err
	}

	healthOpts := q.HealthOptions()
	appOpts := []taskforge.Option{
		taskforge.WithLogger(log),
		taskforge.WithMiddleware(
			middlewares.RequestID(),
			middlewares.Recover(),
			middlewares.Timeout(cfg.RequestTimeout),
		),
	}

	var client job.Client
	if cfg.Celery.WorkerEmbedded && !cfg.Celery.TaskAlwaysEager {
		m, err := q.Manager()
		if err != nil {
			return errors.Join(err, q.Close(ctx))
		}
		client = m
		healthOpts = append(healthOpts, taskforge.WithReadinessCheck("worker", job.Healthcheck(m)))
		appOpts = append(appOpts, taskforge.WithWorker(m))
	} else if client, err = q.Client(); err != nil {
		return errors.Join(err, q.Close(ctx))
	}

	appOpts = append(appOpts,
		taskforge.WithHandlers(
			handlers.NewDispatch(client),
			handlers.NewTaskStatus(client),
		),
		taskforge.WithHealthChecks(healthOpts...),
	)

	log.Info("starting server",
		slog.String("address", cfg.HTTPAddress),
		slog.Bool("eager", cfg.Celery.TaskAlwaysEager),
		slog.Bool("embedded_worker", cfg.Celery.WorkerEmbedded),
	)

	return taskforge.New(appOpts...).Run(cfg.HTTPAddress,
		taskforge.ShutdownTimeout(cfg.ShutdownTimeout),
		taskforge.ShutdownHook(q.Close),
		taskforge.ShutdownHook(logger.Flush()),
	)
}
