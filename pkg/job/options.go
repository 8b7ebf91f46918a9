package job

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/riverqueue/river"
)

const (
	defaultMaxWorkers   = 100
	defaultPollInterval = 200 * time.Millisecond
)

type config struct {
	registry     *registry
	queues       map[string]int
	logger       *slog.Logger
	results      ResultBackend
	defaultQueue string
	schedules    []schedule
	maxWorkers   int
	maxAttempts  int
	pollInterval time.Duration
	beat         bool
}

func newConfig(opts []Option) *config {
	c := &config{
		registry:     newRegistry(),
		queues:       make(map[string]int),
		defaultQueue: river.QueueDefault,
		maxWorkers:   defaultMaxWorkers,
		pollInterval: defaultPollInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c
}

type schedule struct {
	name string
	expr string
}

// Option configures Enqueuer, Manager and Eager clients.
type Option func(*config)

// WithTask registers a task under task.Name().
// The task needs Name() and Handle(ctx, P) (R, error); P is decoded from the
// enqueued payload and R is stored as the task result.
//
//	job.WithTask[tasks.AddArgs, int](tasks.Add{})
func WithTask[P, R any, T interface {
	Name() string
	Handle(context.Context, P) (R, error)
}](task T) Option {
	return func(c *config) {
		c.registry.register(task.Name(), typedTask[P, R, T]{task: task})
	}
}

// WithScheduledTask registers a task without arguments that can also be run
// periodically. Schedule() returns a five-field cron expression or a
// descriptor such as "@every 30s". The periodic job is only created when
// WithBeat(true) is set; the task stays enqueueable by name either way.
func WithScheduledTask[R any, T interface {
	Name() string
	Schedule() string
	Handle(context.Context) (R, error)
}](task T) Option {
	return func(c *config) {
		c.registry.register(task.Name(), periodicTask[R](task.Handle))
		c.schedules = append(c.schedules, schedule{name: task.Name(), expr: task.Schedule()})
	}
}

// WithBeat enables periodic jobs for scheduled tasks on the Manager.
func WithBeat(enabled bool) Option {
	return func(c *config) {
		c.beat = enabled
	}
}

// WithQueue adds a named queue worked by the Manager.
func WithQueue(name string, workers int) Option {
	return func(c *config) {
		if name != "" && workers > 0 {
			c.queues[name] = workers
		}
	}
}

// WithDefaultQueue sets the queue used when Enqueue gets no InQueue option.
// Default: river.QueueDefault.
func WithDefaultQueue(name string) Option {
	return func(c *config) {
		if name != "" {
			c.defaultQueue = name
		}
	}
}

// WithMaxWorkers sets the worker count of the default queue. Default: 100.
func WithMaxWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxWorkers = n
		}
	}
}

// WithMaxAttempts sets the attempt limit applied when Enqueue gets no
// MaxAttempts option. Zero keeps River's default.
func WithMaxAttempts(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithResultBackend stores task state and return values in b.
func WithResultBackend(b ResultBackend) Option {
	return func(c *config) {
		c.results = b
	}
}

// WithPollInterval sets how often Handle.Wait checks the backend.
func WithPollInterval(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
