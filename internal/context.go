package internal

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// RequestIDKey is the context key holding the request id set by the
// RequestID middleware.
type RequestIDKey struct{}

// Context wraps one request and its response. It is also a
// context.Context delegating to the request context.
type Context interface {
	context.Context

	Request() *http.Request
	Response() http.ResponseWriter

	// Param returns a URL path parameter, or "" when absent.
	Param(name string) string
	Query(name string) string
	Header(name string) string
	SetHeader(name, value string)

	JSON(code int, v any) error
	String(code int, s string) error
	NoContent(code int) error

	// Error builds an HTTPError to return from a handler.
	Error(code int, message string, cause ...error) *HTTPError

	// Written reports whether the response has started.
	Written() bool
	Status() int

	Logger() *slog.Logger
	RequestID() string

	// Set stores a value in the request context.
	Set(key, value any)
	Get(key any) any
	// SetContext replaces the request context, e.g. to add a deadline.
	SetContext(ctx context.Context)
}

type requestContext struct {
	request  *http.Request
	response *ResponseWriter
	logger   *slog.Logger
}

func newContext(w http.ResponseWriter, r *http.Request, log *slog.Logger) *requestContext {
	rw, ok := w.(*ResponseWriter)
	if !ok {
		rw = NewResponseWriter(w)
	}
	return &requestContext{request: r, response: rw, logger: log}
}

func (c *requestContext) Deadline() (time.Time, bool) { return c.request.Context().Deadline() }
func (c *requestContext) Done() <-chan struct{} { return c.request.Context().Done() }
func (c *requestContext) Err() error { return c.request.Context().Err() }
func (c *requestContext) Value(key any) any { return c.request.Context().Value(key) }

func (c *requestContext) Request() *http.Request { return c.request }
func (c *requestContext) Response() http.ResponseWriter { return c.response }

func (c *requestContext) Param(name string) string { return chi.URLParam(c.request, name) }
func (c *requestContext) Query(name string) string { return c.request.URL.Query().Get(name) }
func (c *requestContext) Header(name string) string { return c.request.Header.Get(name) }

func (c *requestContext) SetHeader(name, value string) {
	c.response.Header().Set(name, value)
}

func (c *requestContext) JSON(code int, v any) error {
	c.response.Header().Set("Content-Type", "application/json; charset=utf-8")
	c.response.WriteHeader(code)
	return json.NewEncoder(c.response).Encode(v)
}

func (c *requestContext) String(code int, s string) error {
	c.response.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.response.WriteHeader(code)
	_, err := c.response.Write([]byte(s))
	return err
}

func (c *requestContext) NoContent(code int) error {
	c.response.WriteHeader(code)
	return nil
}

func (c *requestContext) Error(code int, message string, cause ...error) *HTTPError {
	return NewHTTPError(code, message, cause...)
}

func (c *requestContext) Written() bool { return c.response.Written() }
func (c *requestContext) Status() int { return c.response.Status() }

func (c *requestContext) Logger() *slog.Logger { return c.logger }

func (c *requestContext) RequestID() string {
	id, _ := c.Value(RequestIDKey{}).(string)
	return id
}

func (c *requestContext) Set(key, value any) {
	c.request = c.request.WithContext(context.WithValue(c.request.Context(), key, value))
}

func (c *requestContext) Get(key any) any { return c.Value(key) }

func (c *requestContext) SetContext(ctx context.Context) {
	c.request = c.request.WithContext(ctx)
}
