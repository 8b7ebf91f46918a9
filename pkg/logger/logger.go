package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
)

// Config holds logger configuration.
// Embed it in the process config for env parsing.
type Config struct {
	Sentry SentryConfig
	Level  slog.Level `env:"LOG_LEVEL" envDefault:"info"`
}

// New creates a JSON logger writing to stdout.
// If cfg.Sentry.DSN is set, records are also sent to Sentry.
func New(cfg Config, extractors ...ContextExtractor) *slog.Logger {
	return newWithWriter(os.Stdout, cfg, extractors...)
}

func newWithWriter(w io.Writer, cfg Config, extractors ...ContextExtractor) *slog.Logger {
	stdout := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: cfg.Level})

	var handler slog.Handler = stdout
	if sh := newSentryHandler(cfg.Sentry, stdout); sh != nil {
		handler = newMultiHandler(stdout, sh)
	}

	return slog.New(NewLogHandlerDecorator(handler, extractors...))
}

// NewNope creates a logger that discards all output.
func NewNope() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Flush returns a shutdown hook that drains buffered Sentry events.
// It is a no-op when Sentry was never initialized.
func Flush() func(context.Context) error {
	return func(ctx context.Context) error {
		timeout := 2 * time.Second
		if deadline, ok := ctx.Deadline(); ok {
			timeout = time.Until(deadline)
		}
		sentry.Flush(timeout)
		return nil
	}
}
