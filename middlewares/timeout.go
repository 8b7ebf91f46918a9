package middlewares

import (
	"context"
	"time"

	"github.com/dmitrymomot/taskforge/internal"
)

// Timeout puts a deadline on the request context. Handlers observe it
// through ctx-aware calls such as queue inserts; nothing is interrupted
// forcibly.
func Timeout(d time.Duration) internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		if d <= 0 {
			return next
		}
		return func(c internal.Context) error {
			ctx, cancel := context.WithTimeout(c.Request().Context(), d)
			defer cancel()

			c.SetContext(ctx)
			return next(c)
		}
	}
}
