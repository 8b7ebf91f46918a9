package taskforge

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/taskforge/internal"
	"github.com/dmitrymomot/taskforge/pkg/health"
	"github.com/dmitrymomot/taskforge/pkg/job"
)

// Type aliases - public API
type (
	// App owns routing and the process lifecycle.
	App = internal.App

	// Router is the interface handlers use to declare routes.
	Router = internal.Router

	// Context provides request/response access and helper methods.
	Context = internal.Context

	Handler      = internal.Handler
	HandlerFunc  = internal.HandlerFunc
	Middleware   = internal.Middleware
	ErrorHandler = internal.ErrorHandler

	// Option configures the application.
	Option = internal.Option

	// RunOption configures App.Run.
	RunOption = internal.RunOption

	// HealthOption configures health check endpoints.
	HealthOption = internal.HealthOption

	// Worker is started and stopped with the app, e.g. *job.Manager.
	Worker = internal.Worker

	HTTPError     = internal.HTTPError
	ErrorResponse = internal.ErrorResponse

	// TaskClient is the task client injected into handlers.
	TaskClient = job.Client
)

// New creates an application. The App is immutable after creation.
//
//	app := taskforge.New(
//	    taskforge.WithLogger(log),
//	    taskforge.WithHandlers(handlers.NewDispatch(client)),
//	)
//	err := app.Run(":8080")
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// App options

func WithLogger(l *slog.Logger) Option {
	return internal.WithLogger(l)
}

// WithMiddleware adds global middleware, applied in the order provided.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithHandlers registers handlers that declare routes.
func WithHandlers(h ...Handler) Option {
	return internal.WithHandlers(h...)
}

func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

func WithNotFoundHandler(h HandlerFunc) Option {
	return internal.WithNotFoundHandler(h)
}

// WithHealthChecks enables /health/live and /health/ready.
//
//	taskforge.WithHealthChecks(
//	    taskforge.WithReadinessCheck("worker", job.Healthcheck(manager)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealthChecks(opts...)
}

// WithWorker runs w alongside the HTTP server.
func WithWorker(w Worker) Option {
	return internal.WithWorker(w)
}

// Health options

func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

// WithReadinessCheck adds a named check to the readiness probe.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

// Run options

// Logger overrides the app logger for server lifecycle messages.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout bounds server drain plus shutdown hooks. Default: 30s.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook runs after workers have stopped, in registration order.
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets the parent of the signal context.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// Errors

// NewHTTPError creates an error rendered with the given status.
func NewHTTPError(code int, message string, cause ...error) *HTTPError {
	return internal.NewHTTPError(code, message, cause...)
}

func ErrNotFound(message string, cause ...error) *HTTPError {
	return internal.ErrNotFound(message, cause...)
}

func ErrServiceUnavailable(message string, cause ...error) *HTTPError {
	return internal.ErrServiceUnavailable(message, cause...)
}

// DefaultErrorHandler renders errors as {"error": "..."} JSON.
func DefaultErrorHandler(c Context, err error) error {
	return internal.DefaultErrorHandler(c, err)
}
