package middlewares

import (
	"github.com/google/uuid"

	"github.com/dmitrymomot/taskforge/internal"
	"github.com/dmitrymomot/taskforge/pkg/logger"
)

// RequestIDHeader is read from the request and echoed on the response.
const RequestIDHeader = "X-Request-ID"

type requestIDConfig struct {
	generator func() string
	headers   []string
}

type RequestIDOption func(*requestIDConfig)

// WithRequestIDHeaders sets the headers checked, in order, for an upstream id.
func WithRequestIDHeaders(headers ...string) RequestIDOption {
	return func(c *requestIDConfig) {
		c.headers = headers
	}
}

func WithRequestIDGenerator(gen func() string) RequestIDOption {
	return func(c *requestIDConfig) {
		if gen != nil {
			c.generator = gen
		}
	}
}

// RequestID reuses an incoming request id or generates a UUID, stores it
// under internal.RequestIDKey and sets the X-Request-ID response header.
func RequestID(opts ...RequestIDOption) internal.Middleware {
	cfg := &requestIDConfig{
		generator: uuid.NewString,
		headers:   []string{RequestIDHeader, "X-Correlation-ID"},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			var id string
			for _, h := range cfg.headers {
				if id = c.Header(h); id != "" {
					break
				}
			}
			if id == "" {
				id = cfg.generator()
			}

			c.Set(internal.RequestIDKey{}, id)
			c.SetHeader(RequestIDHeader, id)
			return next(c)
		}
	}
}

// RequestIDExtractor adds request_id to log records written with the
// request context.
func RequestIDExtractor() logger.ContextExtractor {
	return logger.StringValue(internal.RequestIDKey{}, "request_id")
}

