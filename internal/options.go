package internal

import (
	"context"
	"log/slog"
)

// Option configures the App.
type Option func(*App)

func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithMiddleware adds global middleware, applied in the given order.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

func WithHandlers(h ...Handler) Option {
	return func(a *App) {
		a.handlers = append(a.handlers, h...)
	}
}

func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		if h != nil {
			a.errorHandler = h
		}
	}
}

func WithNotFoundHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.notFound = h
	}
}

// WithHealthChecks mounts /health/live and /health/ready.
func WithHealthChecks(opts ...HealthOption) Option {
	return func(a *App) {
		cfg := &healthConfig{
			livenessPath:  "/health/live",
			readinessPath: "/health/ready",
		}
		for _, opt := range opts {
			opt(cfg)
		}
		a.health = cfg
	}
}

// Worker is a background component started with the app and stopped on
// shutdown, such as *job.Manager.
type Worker interface {
	StartFunc() func(context.Context) error
	Shutdown() func(context.Context) error
}

// WithWorker starts w once the listener is up and stops it after the HTTP
// server has drained.
func WithWorker(w Worker) Option {
	return func(a *App) {
		if w == nil {
			return
		}
		a.workers = append(a.workers, workerHooks{start: w.StartFunc(), stop: w.Shutdown()})
	}
}
