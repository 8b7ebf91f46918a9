package middlewares

import (
	"log/slog"
	"runtime"

	"github.com/dmitrymomot/taskforge/internal"
)

const defaultStackSize = 4 << 10

type recoverConfig struct {
	stackSize int
}

type RecoverOption func(*recoverConfig)

// WithStackSize caps the logged stack trace; zero disables it.
func WithStackSize(n int) RecoverOption {
	return func(c *recoverConfig) {
		c.stackSize = max(n, 0)
	}
}

// Recover turns a panic into a *PanicError for the error handler, which
// answers 500.
func Recover(opts ...RecoverOption) internal.Middleware {
	cfg := &recoverConfig{stackSize: defaultStackSize}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				var stack []byte
				attrs := []any{slog.Any("panic", r)}
				if cfg.stackSize > 0 {
					stack = make([]byte, cfg.stackSize)
					stack = stack[:runtime.Stack(stack, false)]
					attrs = append(attrs, slog.String("stack", string(stack)))
				}
				c.Logger().ErrorContext(c, "panic recovered", attrs...)

				err = &PanicError{Value: r, Stack: stack}
			}()

			return next(c)
		}
	}
}
