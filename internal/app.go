package internal

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/taskforge/pkg/health"
	"github.com/dmitrymomot/taskforge/pkg/logger"
)

// App owns the router and the lifecycle hooks of one process.
// It is immutable after New.
type App struct {
	router       chi.Router
	logger       *slog.Logger
	errorHandler ErrorHandler
	notFound     HandlerFunc
	health       *healthConfig
	middlewares  []Middleware
	handlers     []Handler
	workers      []workerHooks
}

type workerHooks struct {
	start func(context.Context) error
	stop  func(context.Context) error
}

func New(opts ...Option) *App {
	a := &App{
		router:       chi.NewRouter(),
		logger:       logger.NewNope(),
		errorHandler: DefaultErrorHandler,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.setupRoutes()
	return a
}

// ServeHTTP makes App usable with httptest.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Run serves HTTP on addr until SIGINT or SIGTERM. Workers start before run
// options' startup hooks and stop before their shutdown hooks, so workers
// stop before connections are closed. Only workers that started are stopped;
// run options' shutdown hooks always run, also when listening fails.
func (a *App) Run(addr string, opts ...RunOption) error {
	cfg := buildRunConfig(opts...)
	if cfg.logger == nil {
		cfg.logger = a.logger
	}

	return runServer(runtimeConfig{
		handler:         a.router,
		address:         addr,
		logger:          cfg.logger,
		shutdownTimeout: cfg.shutdownTimeout,
		workers:         a.workers,
		startupHooks:    cfg.startupHooks,
		shutdownHooks:   cfg.shutdownHooks,
		baseCtx:         cfg.baseCtx,
	})
}

func (a *App) setupRoutes() {
	a.router.NotFound(a.serve(a.notFoundHandler()))
	a.router.MethodNotAllowed(a.serve(func(c Context) error {
		return NewHTTPError(http.StatusMethodNotAllowed, "")
	}))

	for _, mw := range a.middlewares {
		a.router.Use(a.adaptMiddleware(mw))
	}

	if a.health != nil {
		a.router.Get(a.health.livenessPath, health.LivenessHandler())
		a.router.Get(a.health.readinessPath, health.ReadinessHandler(a.health.checks, health.WithLogger(a.logger)))
	}

	r := &routerAdapter{router: a.router, app: a}
	for _, h := range a.handlers {
		h.Routes(r)
	}
}

func (a *App) notFoundHandler() HandlerFunc {
	if a.notFound != nil {
		return a.notFound
	}
	return func(c Context) error { return ErrNotFound("") }
}

// serve adapts h to net/http and routes its error to the error handler.
func (a *App) serve(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := newContext(w, r, a.logger)
		if err := h(c); err != nil {
			a.handleError(c, err)
		}
	}
}

func (a *App) handleError(c Context, err error) {
	if c.Written() {
		c.Logger().WarnContext(c, "handler error after response was written", slog.Any("error", err))
		return
	}
	if herr := a.errorHandler(c, err); herr != nil {
		c.Logger().ErrorContext(c, "error handler failed", slog.Any("error", herr))
	}
}

type healthConfig struct {
	checks        health.Checks
	livenessPath  string
	readinessPath string
}

// HealthOption configures the health endpoints.
type HealthOption func(*healthConfig)

func WithLivenessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.livenessPath = path
		}
	}
}

func WithReadinessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.readinessPath = path
		}
	}
}

// WithReadinessCheck adds a named check to the readiness probe.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return func(c *healthConfig) {
		if fn == nil {
			return
		}
		if c.checks == nil {
			c.checks = make(health.Checks)
		}
		c.checks[name] = fn
	}
}
